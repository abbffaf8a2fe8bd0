package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/rakshitjain23/taskpilot-api/internal/config"
	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrNoMessages             = errors.New("at least one message is required")
	ErrUpstreamFailure        = errors.New("AI provider request failed")
)

// systemPrompt is the fixed guardrail instruction prepended to every chat.
// {context} is replaced with the user's data snapshot.
const systemPrompt = `You are TaskPilot AI. You ONLY help the user with:

- Workspaces
- Projects
- Tasks
- Comments
- Productivity help
- Organizing work
- Summaries or suggestions

Strict Rules:
- Do NOT answer personal questions unrelated to TaskPilot.
- Do NOT create fictional data.
- If user asks something unrelated, respond:
  "I can only help with your work, tasks, and productivity inside TaskPilot."

Always use the database context provided below to answer:

DATABASE CONTEXT:
{context}`

// ChatMessage is one role-tagged message in a conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// AIService proxies chat requests to the DeepSeek chat-completion endpoint,
// grounding each conversation in a read-only snapshot of the caller's data.
type AIService struct {
	client    *openai.Client
	model     string
	maxTokens int

	workspaceRepo repository.WorkspaceRepository
	projectRepo   repository.ProjectRepository
	taskRepo      repository.TaskRepository
	commentRepo   repository.CommentRepository
	userRepo      repository.UserRepository
	aiRepo        repository.AIRequestRepository

	logger zerolog.Logger
}

// NewAIService creates a new AIService. Returns nil when no API key is
// configured; callers treat a nil service as "not configured".
func NewAIService(
	cfg config.AIConfig,
	workspaceRepo repository.WorkspaceRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	aiRepo repository.AIRequestRepository,
	logger zerolog.Logger,
) *AIService {
	if cfg.DeepSeekAPIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.DeepSeekAPIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &AIService{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		aiRepo:        aiRepo,
		logger:        logger,
	}
}

// userContext is the snapshot serialized into the system prompt.
type userContext struct {
	User       contextUser        `json:"user"`
	Workspaces []contextWorkspace `json:"workspaces"`
	Projects   []contextProject   `json:"projects"`
	Tasks      []contextTask      `json:"tasks"`
	Comments   []contextComment   `json:"comments"`
}

type contextUser struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

type contextWorkspace struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type contextProject struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WorkspaceID uint64 `json:"workspace_id"`
}

type contextTask struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	ProjectID uint64 `json:"project_id"`
}

type contextComment struct {
	ID      uint64 `json:"id"`
	Content string `json:"content"`
	TaskID  uint64 `json:"task_id"`
}

// buildUserContext gathers the user's workspaces, projects, tasks and
// comments into a serializable snapshot.
func (s *AIService) buildUserContext(userID uint64) (*userContext, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	workspaces, err := s.workspaceRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	workspaceIDs := make([]uint64, len(workspaces))
	for i, w := range workspaces {
		workspaceIDs[i] = w.ID
	}

	projects, err := s.projectRepo.ListByWorkspaces(workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projectIDs := make([]uint64, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	tasks, err := s.taskRepo.ListByProjects(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskIDs := make([]uint64, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	comments, err := s.commentRepo.ListByTasks(taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	ctx := &userContext{
		User:       contextUser{ID: user.ID, Email: user.Email},
		Workspaces: make([]contextWorkspace, len(workspaces)),
		Projects:   make([]contextProject, len(projects)),
		Tasks:      make([]contextTask, len(tasks)),
		Comments:   make([]contextComment, len(comments)),
	}

	for i, w := range workspaces {
		ctx.Workspaces[i] = contextWorkspace{
			ID:        w.ID,
			Name:      w.Name,
			CreatedAt: w.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	for i, p := range projects {
		ctx.Projects[i] = contextProject{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			WorkspaceID: p.WorkspaceID,
		}
	}
	for i, t := range tasks {
		ctx.Tasks[i] = contextTask{
			ID:        t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			ProjectID: t.ProjectID,
		}
	}
	for i, c := range comments {
		ctx.Comments[i] = contextComment{
			ID:      c.ID,
			Content: c.Content,
			TaskID:  c.TaskID,
		}
	}

	return ctx, nil
}

// Chat forwards the conversation to the provider with the guardrail system
// prompt and the caller's data snapshot prepended. The provider response is
// returned verbatim; failures are not retried.
func (s *AIService) Chat(ctx context.Context, userID uint64, messages []ChatMessage) (*openai.ChatCompletionResponse, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	snapshot, err := s.buildUserContext(userID)
	if err != nil {
		return nil, err
	}

	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize context: %w", err)
	}

	system := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: strings.Replace(systemPrompt, "{context}", string(contextJSON), 1),
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, system)
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	request := s.trackRequest(userID)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		Messages:  chatMessages,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		s.finishRequest(request, models.AIRequestError, nil)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	var result *string
	if len(resp.Choices) > 0 {
		result = &resp.Choices[0].Message.Content
	}
	s.finishRequest(request, models.AIRequestDone, result)

	return &resp, nil
}

// trackRequest opens an AIRequest row for bookkeeping. Bookkeeping is
// best-effort and never blocks the chat call.
func (s *AIService) trackRequest(userID uint64) *models.AIRequest {
	request := &models.AIRequest{
		Type:   models.AIRequestChat,
		Status: models.AIRequestProcessing,
		UserID: userID,
	}
	if err := s.aiRepo.Create(request); err != nil {
		s.logger.Warn().Err(err).Uint64("user_id", userID).Msg("failed to record AI request")
		return nil
	}
	return request
}

func (s *AIService) finishRequest(request *models.AIRequest, status models.AIRequestStatus, result *string) {
	if request == nil {
		return
	}
	if err := s.aiRepo.SetResult(request.ID, status, result); err != nil {
		s.logger.Warn().Err(err).Uint64("request_id", request.ID).Msg("failed to finalize AI request")
	}
}
