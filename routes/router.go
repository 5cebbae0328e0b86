package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/config"
	"github.com/eduagenda/eduagenda/controllers"
	"github.com/eduagenda/eduagenda/middleware"
	"github.com/eduagenda/eduagenda/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	todoController := controllers.NewTodoController(db)
	eventController := controllers.NewEventController(db)
	achievementController := controllers.NewAchievementController(db)
	userController := controllers.NewUserController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/todos", todoController.List)
	protected.GET("/todos/today", todoController.Today)
	protected.GET("/todos/overdue", todoController.Overdue)
	protected.GET("/todos/:id", todoController.Get)
	protected.POST("/todos", todoController.Create)
	protected.PUT("/todos/:id", todoController.Update)
	protected.PATCH("/todos/:id/toggle", todoController.Toggle)
	protected.PATCH("/todos/:id/complete", todoController.Complete)
	protected.DELETE("/todos/:id", todoController.Delete)
	protected.GET("/todos/:id/progress", todoController.Progress)
	protected.POST("/todos/:id/subtasks", todoController.AddSubtask)
	protected.PATCH("/todos/:id/subtasks/:subtaskId/toggle", todoController.ToggleSubtask)
	protected.DELETE("/todos/:id/subtasks/:subtaskId", todoController.DeleteSubtask)

	protected.GET("/events", eventController.List)
	protected.GET("/events/upcoming", eventController.Upcoming)
	protected.GET("/events/range", eventController.Range)
	protected.GET("/events/:id", eventController.Get)
	protected.POST("/events", eventController.Create)
	protected.PUT("/events/:id", eventController.Update)
	protected.PATCH("/events/:id/complete", eventController.Complete)
	protected.DELETE("/events/:id", eventController.Delete)

	protected.GET("/achievements", achievementController.List)
	protected.GET("/achievements/recent", achievementController.Recent)
	protected.GET("/achievements/stats", achievementController.Stats)
	protected.GET("/achievements/streak", achievementController.Streak)
	protected.GET("/achievements/:id", achievementController.Get)
	protected.POST("/achievements", achievementController.Create)
	protected.PUT("/achievements/:id", achievementController.Update)
	protected.DELETE("/achievements/:id", achievementController.Delete)

	protected.GET("/users/stats", userController.Stats)
	protected.GET("/users/dashboard", userController.Dashboard)
	protected.DELETE("/users/account", userController.DeleteAccount)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
