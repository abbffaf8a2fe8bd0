package repository

import (
	"time"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// WorkspaceMemberUser is a member row joined with its user's identity,
// as returned by member listings.
type WorkspaceMemberUser struct {
	MemberID uint64               `json:"member_id"`
	Role     models.WorkspaceRole `json:"role"`
	UserID   uint64               `json:"user_id"`
	Email    string               `json:"email"`
	FullName string               `json:"full_name"`
}

// WorkspaceRepository defines the interface for workspace and membership data access
type WorkspaceRepository interface {
	// Create creates a new workspace
	Create(ws *models.Workspace) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// FindByOwnerAndName finds an owner's workspace by name
	FindByOwnerAndName(ownerID uint64, name string) (*models.Workspace, error)

	// ListByOwner lists all workspaces owned by a user
	ListByOwner(ownerID uint64) ([]models.Workspace, error)

	// Update updates a workspace
	Update(ws *models.Workspace) error

	// Delete deletes a workspace and everything beneath it
	Delete(id uint64) error

	// AddMember adds a member to a workspace
	AddMember(member *models.WorkspaceMember) error

	// FindMember finds a specific workspace member
	FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error)

	// RemoveMember removes a member, reporting how many rows were deleted
	RemoveMember(workspaceID, userID uint64) (int64, error)

	// ListMembers lists all members of a workspace joined with user info
	ListMembers(workspaceID uint64) ([]WorkspaceMemberUser, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID regardless of workspace
	FindByID(id uint64) (*models.Project, error)

	// FindByIDInWorkspace finds a project scoped to a workspace
	FindByIDInWorkspace(id, workspaceID uint64) (*models.Project, error)

	// ListByWorkspace lists all projects in a workspace
	ListByWorkspace(workspaceID uint64) ([]models.Project, error)

	// ListByWorkspaces lists all projects across several workspaces
	ListByWorkspaces(workspaceIDs []uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByProject lists tasks in a project with pagination
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// ListByProjects lists all tasks across several projects
	ListByProjects(projectIDs []uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// ListByTask lists a task's comments oldest first
	ListByTask(taskID uint64) ([]models.Comment, error)

	// ListByTasks lists all comments across several tasks
	ListByTasks(taskIDs []uint64) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete deletes a comment
	Delete(id uint64) error
}

// ActivityLogFilter holds filtering options for listing activity logs
type ActivityLogFilter struct {
	Action    *models.ActivityAction
	UserID    *uint64
	TaskID    *uint64
	ProjectID *uint64
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      utils.PaginationParams
}

// ActivityLogRepository defines the interface for audit record access.
// Records are append-only: there is deliberately no update or delete.
type ActivityLogRepository interface {
	// Create appends a new activity log row
	Create(log *models.ActivityLog) error

	// List retrieves logs matching the filter, most recent first
	List(filter ActivityLogFilter) ([]models.ActivityLog, error)
}

// AIRequestRepository defines the interface for AI request bookkeeping
type AIRequestRepository interface {
	// Create creates a new AI request row
	Create(req *models.AIRequest) error

	// SetResult marks a request finished with the given status and result
	SetResult(id uint64, status models.AIRequestStatus, resultText *string) error
}
