package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
)

// Config wires the router. Auth and Tokens are optional; when set, /login is
// exposed and every resource route requires a bearer token.
type Config struct {
	Handler *handlers.Handler
	Auth    *handlers.AuthHandler
	Tokens  *auth.Tokens
	Hub     *realtime.Hub
	Logger  *zap.SugaredLogger
}

// Setup builds the GIN router for the task tracker API.
func Setup(cfg Config) *gin.Engine {
	ginRouter := gin.Default()

	// The API contract distinguishes unknown paths (404) from known paths
	// with unsupported verbs (405).
	ginRouter.HandleMethodNotAllowed = true
	ginRouter.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task tracker API is running",
		})
	})

	if cfg.Auth != nil {
		ginRouter.POST("/login", cfg.Auth.Login)
	}

	api := ginRouter.Group("")
	if cfg.Auth != nil && cfg.Tokens != nil {
		api.Use(middleware.RequireToken(cfg.Tokens))
	}

	h := cfg.Handler
	acceptJSON := middleware.RequireJSONAccept()

	api.GET("/tasks", acceptJSON, h.GetTasks)
	api.GET("/tasks/:id", acceptJSON, h.GetTaskByID)
	api.POST("/tasks", h.CreateTask)
	api.POST("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks", h.DeleteAllTasks)
	api.DELETE("/tasks/:id", h.DeleteTask)

	api.GET("/subtasks", acceptJSON, h.GetSubtasks)
	api.GET("/subtasks/:id", acceptJSON, h.GetSubtaskByID)
	api.POST("/subtasks", h.CreateSubtask)
	api.POST("/subtasks/:id", h.UpdateSubtask)
	api.DELETE("/subtasks", h.DeleteAllSubtasks)
	api.DELETE("/subtasks/:id", h.DeleteSubtask)

	api.GET("/epics", acceptJSON, h.GetEpics)
	api.GET("/epics/:id", acceptJSON, h.GetEpicByID)
	api.GET("/epics/:id/subtasks", acceptJSON, h.GetEpicSubtasks)
	api.POST("/epics", h.CreateEpic)
	api.POST("/epics/:id", h.UpdateEpic)
	api.DELETE("/epics", h.DeleteAllEpics)
	api.DELETE("/epics/:id", h.DeleteEpic)

	api.GET("/history", acceptJSON, h.GetHistory)
	api.GET("/prioritized", acceptJSON, h.GetPrioritized)

	if cfg.Hub != nil {
		api.GET("/ws", handlers.WebSocket(cfg.Hub, cfg.Logger))
	}

	return ginRouter
}
