package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Service: "task-tracker-api",
	})
	log := logging.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORSOrigins))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize AI generator
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY is not set; task generation is disabled")
	}

	// Initialize repositories and services
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(userRepo, tokens, cfg.AdminInviteToken)),
		Task:      handlers.NewTaskHandler(services.NewTaskService(taskRepo, userRepo, generator)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(taskRepo)),
		Report:    handlers.NewReportHandler(services.NewReportService(taskRepo, userRepo)),
		User:      handlers.NewUserHandler(services.NewUserService(userRepo, taskRepo)),
	}, tokens)

	// Start server
	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("Server starting")
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
