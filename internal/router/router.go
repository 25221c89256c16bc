package router

import (
	"net/http"

	"Club_Hub/internal/handler"
	"Club_Hub/internal/middleware"
	"Club_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the HTTP surface needs. Metrics may be nil.
type Deps struct {
	Log          *zap.Logger
	Metrics      *pkg.Metrics
	Tokens       middleware.TokenParser
	Sessions     middleware.ActiveTokens
	CORSOrigins  []string
	AuthLimiter  *middleware.IPRateLimiter
	User         *handler.UserHandler
	Club         *handler.ClubHandler
	Event        *handler.EventHandler
	Announcement *handler.AnnouncementHandler
	Banner       *handler.BannerHandler
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))
	r.Use(middleware.CORS(d.CORSOrigins))

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(d.Tokens, d.Sessions, d.Log)

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("")
		if d.AuthLimiter != nil {
			limited.Use(middleware.RateLimit(d.AuthLimiter))
		}
		limited.POST("/register", d.User.Register)
		limited.POST("/login", d.User.Login)

		authGroup.POST("/refresh", d.User.Refresh)
		authGroup.POST("/logout", auth, d.User.Logout)
	}

	api.GET("/users/me", auth, d.User.Me)

	clubs := api.Group("/clubs")
	{
		clubs.GET("", d.Club.List)
		clubs.GET("/:id", d.Club.Get)
		clubs.POST("", auth, d.Club.Create)
		clubs.PATCH("/:id", auth, d.Club.Update)
		clubs.DELETE("/:id", auth, d.Club.Delete)
		clubs.POST("/:id/join", auth, d.Club.Join)
		clubs.POST("/:id/leave", auth, d.Club.Leave)
		clubs.POST("/:id/banner", auth, d.Banner.Club)
	}

	events := api.Group("/events")
	{
		events.GET("", d.Event.List)
		events.GET("/club/:clubId", d.Event.ListByClub)
		events.GET("/:id", d.Event.Get)
		events.POST("", auth, d.Event.Create)
		events.PATCH("/:id", auth, d.Event.Update)
		events.DELETE("/:id", auth, d.Event.Delete)
		events.POST("/:id/banner", auth, d.Banner.Event)
	}

	announcements := api.Group("/announcements")
	{
		announcements.GET("/club/:clubId", d.Announcement.ListByClub)
		announcements.POST("", auth, d.Announcement.Create)
		announcements.DELETE("/:id", auth, d.Announcement.Delete)
	}

	return r
}
