package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"interview-scheduler-backend/config"
	"interview-scheduler-backend/internal/metrics"
	"interview-scheduler-backend/internal/mw"
	"interview-scheduler-backend/internal/service"
)

// Deps bundles what the router needs.
type Deps struct {
	Service  *service.Service
	Server   config.ServerConfig
	Location *time.Location
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// NewRouter creates and configures a new Gin router.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.Logger(log), mw.Metrics(d.Metrics))

	handler := NewHandler(d.Service, d.Location, d.Server.MaxUploadBytes, log)

	rateLimiter := mw.RateLimiter(rate.Limit(d.Server.RateLimitPerSec), d.Server.RateLimitBurst)

	// Views are cached until the next successful write.
	ttl := d.Server.CacheTTL()
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	r.GET("/healthz", handler.Healthz)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter, caching)
	{
		api.GET("/schedule", handler.GetSchedule)
		api.GET("/schedule/slots/:time", handler.GetSlotSchedule)
		api.GET("/schedule/students/:id", handler.GetStudentSchedule)
		api.POST("/schedule/clear", handler.ClearSlot)
		api.POST("/schedule/assign", handler.AssignStudent)
		api.POST("/schedule/swap", handler.SwapSlots)

		api.GET("/time-ranges", handler.ListTimeRanges)
		api.POST("/time-ranges", handler.CreateTimeRange)
		api.DELETE("/time-ranges/:start", handler.DeleteTimeRange)

		api.GET("/students", handler.ListStudents)
		api.POST("/students/import", handler.ImportStudents)
		api.POST("/students/:id/siblings", handler.AddSiblingSlot)
		api.DELETE("/students/:id/siblings", handler.RemoveSiblingLink)
	}

	return r
}
