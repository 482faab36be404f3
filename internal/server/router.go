package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/handlers"
	"github.com/unistaff/aihub-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	AuthMiddleware       *middleware.AuthMiddleware
	RateLimiter          *middleware.RateLimiter
	UserHandler          *handlers.UserHandler
	ResourceHandler      *handlers.ResourceHandler
	EngagementHandler    *handlers.EngagementHandler
	CommentHandler       *handlers.CommentHandler
	PromptHandler        *handlers.PromptHandler
	CollectionHandler    *handlers.CollectionHandler
	CollaborationHandler *handlers.CollaborationHandler
	AdminHandler         *handlers.AdminHandler
	CORSOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.RateLimiter.Limit("register"), cfg.AuthHandler.Register)
		auth.POST("/login", cfg.RateLimiter.Limit("login"), cfg.AuthHandler.Login)
	}

	// Reads carry optional auth so owners and admins see their hidden or
	// private rows.
	reads := api.Group("/")
	reads.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		reads.GET("/areas", handlers.ListAreas)
		reads.GET("/resources", cfg.ResourceHandler.List)
		reads.GET("/resources/similar", cfg.CollaborationHandler.Similar)
		reads.GET("/resources/:id", cfg.ResourceHandler.Get)
		reads.GET("/resources/:id/solutions", cfg.ResourceHandler.Solutions)
		reads.GET("/resources/:id/comments", cfg.CommentHandler.List)
		reads.GET("/resources/:id/analytics", cfg.EngagementHandler.GetAnalytics)
		reads.GET("/resources/:id/collaboration-options", cfg.CollaborationHandler.Options)
		reads.POST("/resources/:id/view", cfg.EngagementHandler.RecordView)
		reads.GET("/prompts", cfg.PromptHandler.List)
		reads.GET("/prompts/:id", cfg.PromptHandler.Get)
		reads.GET("/collections", cfg.CollectionHandler.List)
		reads.GET("/collections/:id", cfg.CollectionHandler.Get)
		reads.GET("/collections/:id/resources", cfg.CollectionHandler.Resources)
		reads.GET("/collections/:id/prompts", cfg.CollectionHandler.Prompts)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Auth
		protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		// User
		protected.GET("/users/me", cfg.UserHandler.GetMe)
		protected.PATCH("/users/me", cfg.UserHandler.UpdateMe)
		protected.GET("/users/me/saved-resources", cfg.EngagementHandler.SavedResources)
		// Resources
		protected.POST("/resources", cfg.ResourceHandler.Create)
		protected.PATCH("/resources/:id", cfg.ResourceHandler.Update)
		protected.DELETE("/resources/:id", cfg.ResourceHandler.Delete)
		protected.POST("/resources/:id/fork", cfg.ResourceHandler.Fork)
		// Engagement
		protected.POST("/resources/:id/tried", cfg.EngagementHandler.RecordTried)
		protected.POST("/resources/:id/save", cfg.EngagementHandler.ToggleSave)
		protected.GET("/resources/:id/is-saved", cfg.EngagementHandler.IsSaved)
		protected.GET("/resources/:id/users-tried-it", cfg.EngagementHandler.UsersTriedIt)
		// Collaboration
		protected.POST("/resources/:id/collaboration-request", cfg.CollaborationHandler.Request)
		// Comments
		protected.POST("/resources/:id/comments", cfg.CommentHandler.Create)
		protected.PATCH("/comments/:id", cfg.CommentHandler.Update)
		protected.DELETE("/comments/:id", cfg.CommentHandler.Delete)
		protected.POST("/comments/:id/helpful", cfg.CommentHandler.MarkHelpful)
		// Prompts
		protected.POST("/prompts", cfg.PromptHandler.Create)
		protected.PATCH("/prompts/:id", cfg.PromptHandler.Update)
		protected.DELETE("/prompts/:id", cfg.PromptHandler.Delete)
		protected.POST("/prompts/:id/fork", cfg.PromptHandler.Fork)
		protected.POST("/prompts/:id/use", cfg.PromptHandler.Use)
		protected.GET("/prompts/:id/usage", cfg.PromptHandler.Usage)
		// Collections
		protected.POST("/collections", cfg.CollectionHandler.Create)
		protected.PATCH("/collections/:id", cfg.CollectionHandler.Update)
		protected.DELETE("/collections/:id", cfg.CollectionHandler.Delete)
		protected.POST("/collections/:id/subscribe", cfg.CollectionHandler.Subscribe)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	{
		admin.POST("/resources/:id/hide", cfg.ResourceHandler.Hide)
		admin.POST("/resources/:id/unhide", cfg.ResourceHandler.Unhide)
		admin.GET("/admin/analytics", cfg.AdminHandler.PlatformAnalytics)
		admin.GET("/admin/analytics/by-discipline", cfg.AdminHandler.AnalyticsByDiscipline)
	}

	return router
}
