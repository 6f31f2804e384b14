package handlers

import (
	"net/http"

	"tempmonitor/internal/logger"
	"tempmonitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// Live telemetry over WebSocket — same port as the REST API.
	router.GET("/ws", h.wsLive)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerThresholdRoutes(api)

		// Public monitoring view: no auth on reads.
		api.GET("/readings", h.listReadings)
		api.GET("/telemetry", h.telemetrySnapshot)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.GET("/validate", h.validateToken)
		auth.POST("/logout", h.requireAuth, h.logout)
	}
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	thresholds := api.Group("/thresholds")
	{
		thresholds.GET("", h.listThresholds)
		thresholds.GET("/latest", h.latestThreshold)
		// Only writes require a valid session.
		thresholds.POST("", h.requireAuth, h.createThreshold)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
