package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unistaff/aihub-backend/internal/db"
	"github.com/unistaff/aihub-backend/internal/handlers"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/middleware"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/server"
	"github.com/unistaff/aihub-backend/internal/services"
	"github.com/unistaff/aihub-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowedDomains := utils.GetEnvAsList("ALLOWED_EMAIL_DOMAINS", nil, log)
	corsOrigins := utils.GetEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	rateLimitPerMinute := utils.GetEnvAsInt("RATE_LIMIT_PER_MINUTE", 30, log)
	internalMessaging := utils.GetEnvAsBool("INTERNAL_MESSAGING_ENABLED", false, log)

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := databaseService.DB()

	// Redis (optional, rate limiting only)
	var redisClient *redis.Client
	if redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
	} else {
		log.Info("REDIS_ADDR not set, rate limiting disabled")
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	resourceRepo := repos.NewResourceRepo(theDB, log)
	analyticsRepo := repos.NewAnalyticsRepo(theDB, log)
	commentRepo := repos.NewCommentRepo(theDB, log)
	promptRepo := repos.NewPromptRepo(theDB, log)
	collectionRepo := repos.NewCollectionRepo(theDB, log)
	savedRepo := repos.NewSavedResourceRepo(theDB, log)
	triedRepo := repos.NewTriedResourceRepo(theDB, log)
	collaborationRepo := repos.NewCollaborationRequestRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second, allowedDomains)
	userService := services.NewUserService(theDB, log, userRepo)
	resourceService := services.NewResourceService(theDB, log, resourceRepo, analyticsRepo)
	engagementService := services.NewEngagementService(theDB, log, resourceRepo, analyticsRepo, savedRepo, triedRepo, userRepo)
	commentService := services.NewCommentService(theDB, log, commentRepo, resourceRepo, analyticsRepo)
	promptService := services.NewPromptService(theDB, log, promptRepo)
	collectionService := services.NewCollectionService(theDB, log, collectionRepo)
	collaborationService := services.NewCollaborationService(theDB, log, resourceRepo, collaborationRepo, internalMessaging)
	adminAnalyticsService := services.NewAdminAnalyticsService(theDB, log, analyticsRepo, resourceRepo)

	// Handlers + middleware
	log.Info("Setting up Handlers from main...")
	routerConfig := server.RouterConfig{
		AuthHandler:          handlers.NewAuthHandler(authService),
		AuthMiddleware:       middleware.NewAuthMiddleware(log, authService),
		RateLimiter:          middleware.NewRateLimiter(log, redisClient, rateLimitPerMinute),
		UserHandler:          handlers.NewUserHandler(userService),
		ResourceHandler:      handlers.NewResourceHandler(resourceService),
		EngagementHandler:    handlers.NewEngagementHandler(engagementService),
		CommentHandler:       handlers.NewCommentHandler(commentService),
		PromptHandler:        handlers.NewPromptHandler(promptService),
		CollectionHandler:    handlers.NewCollectionHandler(collectionService),
		CollaborationHandler: handlers.NewCollaborationHandler(collaborationService),
		AdminHandler:         handlers.NewAdminHandler(adminAnalyticsService),
		CORSOrigins:          corsOrigins,
	}

	router := server.NewRouter(routerConfig)
	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
