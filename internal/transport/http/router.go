package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
	"greensteps/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	UserID         int64
	// WritesPerMinute caps POST/PUT/PATCH per client IP; 0 disables the cap.
	WritesPerMinute int
}

func NewRouter(uc *application.HabitUseCase, limiter *middleware.RateLimiter, cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	config := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		config.AllowOrigins = cfg.AllowedOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/health", Health)

	usageHandler := NewUsageHandler(uc)
	tipHandler := NewTipHandler(uc)
	badgeHandler := NewBadgeHandler(uc)
	settingsHandler := NewSettingsHandler(uc)
	dashboardHandler := NewDashboardHandler(uc)

	writes := limiter.Limit("writes", cfg.WritesPerMinute, time.Minute)

	api := r.Group("/api")
	api.Use(middleware.DefaultUser(cfg.UserID))
	{
		usage := api.Group("/usage")
		{
			usage.GET("", usageHandler.List)
			usage.GET("/current", usageHandler.Current)
			usage.GET("/recent", usageHandler.Recent)
			usage.POST("", writes, usageHandler.Create)
			usage.PUT("/:id", writes, usageHandler.Update)
		}
		tips := api.Group("/tips")
		{
			tips.GET("", tipHandler.List)
			tips.GET("/random", tipHandler.Random)
		}
		badges := api.Group("/badges")
		{
			badges.GET("", badgeHandler.List)
			badges.GET("/user", badgeHandler.Earned)
			badges.GET("/eligible", badgeHandler.Eligible)
		}
		settings := api.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.PUT("", writes, settingsHandler.Update)
			settings.PATCH("", writes, settingsHandler.Update)
		}
		api.GET("/dashboard", dashboardHandler.Get)
	}

	return r
}
