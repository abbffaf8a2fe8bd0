package repository

import (
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// GormAIRequestRepository is a GORM implementation of AIRequestRepository
type GormAIRequestRepository struct {
	db *gorm.DB
}

// NewAIRequestRepository creates a new AIRequestRepository
func NewAIRequestRepository(db *gorm.DB) AIRequestRepository {
	return &GormAIRequestRepository{db: db}
}

// Create creates a new AI request row
func (r *GormAIRequestRepository) Create(req *models.AIRequest) error {
	return r.db.Create(req).Error
}

// SetResult marks a request finished with the given status and result
func (r *GormAIRequestRepository) SetResult(id uint64, status models.AIRequestStatus, resultText *string) error {
	return r.db.Model(&models.AIRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"result_text": resultText,
		}).Error
}
