package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// racingUserRepo simulates a concurrent signup winning the email between
// the duplicate pre-check and the insert: the pre-check sees no user, the
// insert hits the unique index.
type racingUserRepo struct {
	createErr error
	lookups   int
}

func (r *racingUserRepo) Create(user *models.User) error {
	return r.createErr
}

func (r *racingUserRepo) FindByID(id uint64) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) FindByEmail(email string) (*models.User, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.User{ID: 1, Email: email}, nil
}

func TestAuthService_Signup_LostRaceIsDuplicate(t *testing.T) {
	repo := &racingUserRepo{
		createErr: errors.New("UNIQUE constraint failed: users.email"),
	}
	svc := NewAuthService(repo)

	_, err := svc.Signup(SignupInput{
		Email:    "race@example.com",
		FullName: "Racer",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Signup_TranslatedDuplicateKey(t *testing.T) {
	repo := &racingUserRepo{createErr: gorm.ErrDuplicatedKey}
	svc := NewAuthService(repo)

	_, err := svc.Signup(SignupInput{
		Email:    "race@example.com",
		FullName: "Racer",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

// A create failure with no competing row is still a server fault.
type brokenUserRepo struct{}

func (r *brokenUserRepo) Create(user *models.User) error {
	return errors.New("disk I/O error")
}

func (r *brokenUserRepo) FindByID(id uint64) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *brokenUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Signup_CreateFailure(t *testing.T) {
	svc := NewAuthService(&brokenUserRepo{})

	_, err := svc.Signup(SignupInput{
		Email:    "broken@example.com",
		FullName: "Broken",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrFailedToCreateUser)
}
