package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Auth      *AuthHandler
	Task      *TaskHandler
	Dashboard *DashboardHandler
	Report    *ReportHandler
	User      *UserHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *utils.TokenIssuer) {
	requireAuth := middleware.RequireAuth(tokens)

	// Health check endpoint
	r.GET("/health", Health)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/profile", requireAuth, h.Auth.GetProfile)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", middleware.RequireAdmin(), h.User.ListUsers)
			users.GET("/:id", h.User.GetUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/dashboard-data", h.Dashboard.GetDashboardData)
			tasks.GET("/user-dashboard-data", h.Dashboard.GetUserDashboardData)
			tasks.GET("", h.Task.ListTasks)
			tasks.POST("", middleware.RequireAdmin(), h.Task.CreateTask)
			tasks.POST("/generate", middleware.RequireAdmin(), h.Task.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), h.Task.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), h.Task.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), h.Task.DeleteTask)
			tasks.PUT("/:id/status", middleware.RequireTaskID(), h.Task.UpdateStatus)
			tasks.PUT("/:id/todo", middleware.RequireTaskID(), h.Task.UpdateChecklist)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(requireAuth)
		{
			reports.GET("/export/tasks", h.Report.ExportTasks)
			reports.GET("/export/users", middleware.RequireAdmin(), h.Report.ExportUsers)
		}
	}
}
