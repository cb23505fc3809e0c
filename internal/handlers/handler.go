package handlers

import (
	"home_thermostat/internal/logger"
	"home_thermostat/internal/service"

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

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live state stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.adminMiddleware)
	{
		h.registerStateRoutes(api)
		h.registerRoomRoutes(api)
		h.registerModeRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerPinRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerStateRoutes(api *gin.RouterGroup) {
	state := api.Group("/state")
	{
		state.GET("", h.getState)
		state.POST("/update", h.runUpdate)
		state.POST("/refresh", h.refreshRooms)
		// Body example: {"ac":true,"heat":false,"fan_low":false,"fan_high":true}
		state.POST("/set", h.setOverrideState)
		// Body example: {"temp_min":19,"temp_max":22,"target_room":"Living"}
		state.POST("/temp", h.setOverrideTemp)
		state.POST("/resume", h.resumeSchedule)
	}
}

func (h *Handler) registerRoomRoutes(api *gin.RouterGroup) {
	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.listRooms)
		rooms.POST("", h.createRoom)
		rooms.PUT("/:address", h.renameRoom)
		rooms.DELETE("/:address", h.deleteRoom)
	}
}

func (h *Handler) registerModeRoutes(api *gin.RouterGroup) {
	modes := api.Group("/modes")
	{
		modes.GET("", h.listModes)
		modes.POST("", h.createMode)
		modes.PUT("/:name", h.updateMode)
		modes.DELETE("/:name", h.deleteMode)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedule := api.Group("/schedule")
	{
		schedule.GET("", h.listSchedule)
		schedule.POST("", h.addScheduleEntry)
		schedule.DELETE("/:id", h.deleteScheduleEntry)
	}
}

func (h *Handler) registerPinRoutes(api *gin.RouterGroup) {
	pins := api.Group("/pins")
	{
		pins.GET("", h.listPins)
		pins.PUT("/:name", h.setPin)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
