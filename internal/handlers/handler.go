package handlers

import (
	"sunset_relay/internal/logger"
	"sunset_relay/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

func (h *Handler) logWarn(msg string, kv ...interface{}) {
	if h.log != nil {
		h.log.Warnw(msg, kv...)
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Configuration page and the endpoints it calls
	h.registerDeviceRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Live status stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerDeviceRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/status", h.getStatus)
	r.GET("/test", h.testSunset)
	// Body example: {"ssid":"home","password":"pw","lat":41.67,"lng":-86.25,"delay":30,"schedule":[{"hour":17,"min":0},...]}
	r.POST("/save", h.saveSettings)
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerEventRoutes(api)
	}
}

func (h *Handler) registerEventRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		events.GET("", h.getEvents)
		events.GET("/", h.getEvents)
	}
}
