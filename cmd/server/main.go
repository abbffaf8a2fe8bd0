package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rakshitjain23/taskpilot-api/internal/config"
	"github.com/rakshitjain23/taskpilot-api/internal/database"
	"github.com/rakshitjain23/taskpilot-api/internal/handlers"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
	"github.com/rakshitjain23/taskpilot-api/internal/security"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)

	gin.SetMode(cfg.Server.Mode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	logRepo := repository.NewActivityLogRepository(db)
	aiRepo := repository.NewAIRequestRepository(db)

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	access := services.NewAccessService(workspaceRepo, projectRepo, taskRepo)
	recorder := services.NewActivityRecorder(logRepo, log.Logger)

	authService := services.NewAuthService(userRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, access)
	projectService := services.NewProjectService(projectRepo, access)
	taskService := services.NewTaskService(taskRepo, userRepo, access, recorder)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	logService := services.NewActivityLogService(logRepo, taskRepo)
	aiService := services.NewAIService(cfg.AI, workspaceRepo, projectRepo, taskRepo, commentRepo, userRepo, aiRepo, log.Logger)
	if aiService == nil {
		log.Warn().Msg("DEEPSEEK_API_KEY not set, AI chat is disabled")
	}

	authHandler := handlers.NewAuthHandler(authService, jwtManager)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, logService)
	commentHandler := handlers.NewCommentHandler(commentService)
	logHandler := handlers.NewActivityLogHandler(logService)
	aiHandler := handlers.NewAIHandler(aiService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskPilot API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(jwtManager), authHandler.GetCurrentUser)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth(jwtManager))
		{
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.GET("/:id", workspaceHandler.GetWorkspace)
			workspaces.PUT("/:id", workspaceHandler.UpdateWorkspace)
			workspaces.DELETE("/:id", workspaceHandler.DeleteWorkspace)

			workspaces.POST("/:id/members", workspaceHandler.AddMember)
			workspaces.GET("/:id/members", workspaceHandler.ListMembers)
			workspaces.DELETE("/:id/members/:user_id", workspaceHandler.RemoveMember)

			workspaces.POST("/:id/projects", projectHandler.CreateProject)
			workspaces.GET("/:id/projects", projectHandler.ListProjects)
			workspaces.GET("/:id/projects/:project_id", projectHandler.GetProject)
			workspaces.PATCH("/:id/projects/:project_id", projectHandler.UpdateProject)
			workspaces.DELETE("/:id/projects/:project_id", projectHandler.DeleteProject)

			workspaces.POST("/:id/projects/:project_id/tasks", taskHandler.CreateTask)
			workspaces.GET("/:id/projects/:project_id/tasks", taskHandler.ListTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(jwtManager))
		{
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PUT("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.PUT("/:id/assign/:user_id", taskHandler.AssignTask)
			tasks.PUT("/:id/unassign", taskHandler.UnassignTask)
			tasks.GET("/:id/logs", taskHandler.ListTaskLogs)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth(jwtManager))
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("/:id", commentHandler.ListComments)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Activity log routes (protected)
		logs := api.Group("/logs")
		logs.Use(middleware.RequireAuth(jwtManager))
		{
			logs.GET("", logHandler.ListLogs)
			logs.GET("/tasks/:id", logHandler.ListTaskLogs)
			logs.GET("/projects/:id", logHandler.ListProjectLogs)
			logs.GET("/users/:id", logHandler.ListUserLogs)
		}

		// AI routes (protected)
		ai := api.Group("/ai")
		ai.Use(middleware.RequireAuth(jwtManager))
		{
			ai.POST("/chat", aiHandler.Chat)
		}
	}

	log.Info().Str("addr", cfg.Server.Addr()).Msg("Starting server")
	if err := r.Run(cfg.Server.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Server.Mode != gin.ReleaseMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
