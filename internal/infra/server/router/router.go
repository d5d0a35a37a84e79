// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/internal/infra/metrics"
	"github.com/giftcircle/backend/internal/integration/entrypoint/controller"
	"github.com/giftcircle/backend/internal/integration/entrypoint/middleware"
	"github.com/giftcircle/backend/internal/integration/ratelimit"
)

// Options carries the cross-cutting settings of the engine.
type Options struct {
	Environment    string
	AllowedOrigins []string
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	authController         *controller.AuthController
	groupController        *controller.GroupController
	giftController         *controller.GiftController
	secretSantaController  *controller.SecretSantaController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
	loginLimiter           *ratelimit.Limiter
	metrics                *metrics.Metrics
}

// NewRouter creates a new router instance with all dependencies.
// loginLimiter and m may be nil.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	groupController *controller.GroupController,
	giftController *controller.GiftController,
	secretSantaController *controller.SecretSantaController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *ratelimit.Limiter,
	m *metrics.Metrics,
) *Router {
	return &Router{
		healthController:       healthController,
		authController:         authController,
		groupController:        groupController,
		giftController:         giftController,
		secretSantaController:  secretSantaController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
		loginLimiter:           loginLimiter,
		metrics:                m,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(opts Options) *gin.Engine {
	switch opts.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), requestLogger())
	if len(opts.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if r.metrics != nil {
		r.engine.Use(r.metrics.Middleware())
	}

	r.setupOperationalRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupOperationalRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
}

func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(r.loginLimiter), r.authController.Register)
		auth.POST("/login", middleware.RateLimit(r.loginLimiter), r.authController.Login)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", r.authController.Logout)
		auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
	}

	// Invite previews are public so the landing page can show the group name.
	v1.GET("/invites/:token", r.groupController.PreviewInvite)

	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	protected.POST("/invites/:token/accept", r.groupController.AcceptInvite)

	groups := protected.Group("/groups")
	{
		groups.POST("", r.groupController.Create)
		groups.GET("", r.groupController.List)
		groups.GET("/code/:code", r.groupController.GetByCode)
		groups.POST("/code/:code/join", r.groupController.Join)
		groups.GET("/:id/members", r.groupController.Members)
		groups.PUT("/:id", r.groupController.Update)
		groups.POST("/:id/archive", r.groupController.Archive)
		groups.POST("/:id/invites", r.groupController.Invite)

		groups.POST("/:id/secret-santa/pairings", r.secretSantaController.Generate)
		groups.GET("/:id/secret-santa/assignment", r.secretSantaController.Assignment)

		groups.GET("/:id/wishlist", r.giftController.Wishlist)
		groups.GET("/:id/gifts/mine", r.giftController.ListMine)
	}

	gifts := protected.Group("/gifts")
	{
		gifts.POST("", r.giftController.Create)
		gifts.PUT("/:id", r.giftController.Update)
		gifts.DELETE("/:id", r.giftController.Delete)
		gifts.PUT("/:id/buy", r.giftController.Buy)
		gifts.PUT("/:id/unbuy", r.giftController.Unbuy)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", r.notificationController.All)
		notifications.GET("/unread", r.notificationController.Unread)
		notifications.PUT("/read", r.notificationController.MarkRead)
	}
}

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
