package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHandler "github.com/medrec-hq/medrec-api/internal/handler/auth"
	departmentHandler "github.com/medrec-hq/medrec-api/internal/handler/department"
	healthHandler "github.com/medrec-hq/medrec-api/internal/handler/health"
	profileHandler "github.com/medrec-hq/medrec-api/internal/handler/profile"
	recordHandler "github.com/medrec-hq/medrec-api/internal/handler/record"
	"github.com/medrec-hq/medrec-api/internal/middleware"
	"github.com/medrec-hq/medrec-api/pkg/metrics"
)

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	engine      *gin.Engine
	auth        *middleware.AuthMiddleware
	authH       *authHandler.Handler
	departmentH *departmentHandler.Handler
	profileH    *profileHandler.Handler
	recordH     *recordHandler.Handler
	healthH     *healthHandler.Handler
	metrics     *metrics.Metrics
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	departmentH *departmentHandler.Handler,
	profileH *profileHandler.Handler,
	recordH *recordHandler.Handler,
	healthH *healthHandler.Handler,
	m *metrics.Metrics,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:      engine,
		auth:        auth,
		authH:       authH,
		departmentH: departmentH,
		profileH:    profileH,
		recordH:     recordH,
		healthH:     healthH,
		metrics:     m,
	}

	// ErrorHandler runs innermost so the metrics middleware observes the
	// status it writes when unwinding.
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.ErrorHandler(),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)
	r.departmentH.RegisterRoutes(api, r.auth)

	protected := api.Group("", r.auth.Authenticate())
	r.profileH.RegisterRoutes(protected)
	r.recordH.RegisterRoutes(protected)

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		r.metrics.RequestTotal.WithLabelValues(method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 500 {
			r.metrics.ErrorTotal.WithLabelValues(method, path, status).Inc()
		}
	}
}
