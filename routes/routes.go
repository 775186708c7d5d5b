package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/controllers"
	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
	"github.com/hassam391/stead-backend/telemetry"
	"github.com/hassam391/stead-backend/utils"
)

// Deps is everything the router needs. Limiter and DB are optional.
type Deps struct {
	Log            logrus.FieldLogger
	Verifier       utils.TokenVerifier
	Limiter        *middlewares.RateLimiter
	DB             controllers.Pinger
	AllowedOrigins []string

	Users       *services.UserService
	Logs        *services.LogService
	Metrics     *services.MetricsService
	Leaderboard *services.LeaderboardService
	Feedback    *services.FeedbackService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(d.Log),
		gin.Recovery(),
		middlewares.CORS(d.AllowedOrigins),
		middlewares.Instrument(),
	)

	auth := middlewares.AuthMiddleware(d.Verifier, d.Log)
	limit := func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limit = d.Limiter.Handler()
	}

	health := &controllers.HealthController{DB: d.DB}
	r.GET("/health", health.Health)
	r.GET("/debug/prometheus", gin.WrapH(telemetry.Handler()))

	userCtl := controllers.NewUserController(d.Users, d.Log)
	logCtl := controllers.NewLogController(d.Logs, d.Log)
	metricsCtl := controllers.NewMetricsController(d.Metrics, d.Leaderboard, d.Log)
	feedbackCtl := controllers.NewFeedbackController(d.Feedback, d.Log)

	api := r.Group("/api")

	user := api.Group("/user")
	user.Use(auth)
	{
		user.GET("/protected", userCtl.Protected)
		user.GET("/info", userCtl.Info)
		user.POST("/journey", limit, userCtl.SaveJourney)
		user.POST("/register", limit, userCtl.Register)
	}

	log := api.Group("/log")
	log.Use(auth)
	{
		log.POST("", limit, logCtl.Create)
		log.GET("/check", logCtl.Check)
	}

	// leaderboard is public; everything else under /metrics needs a token
	api.GET("/metrics/leaderboard", metricsCtl.GetLeaderboard)
	metrics := api.Group("/metrics")
	metrics.Use(auth)
	{
		metrics.GET("/metrics", metricsCtl.Metrics)
		metrics.POST("/log-activity", limit, metricsCtl.LogActivity)
		metrics.POST("/rewards-seen", metricsCtl.RewardsSeen)
		metrics.GET("/title-display", metricsCtl.TitleDisplay)
		metrics.GET("/recent-logs", metricsCtl.RecentLogs)
	}

	api.POST("/feedback", limit, feedbackCtl.Submit)

	return r
}
