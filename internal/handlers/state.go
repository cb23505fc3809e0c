package handlers

import (
	"errors"
	"net/http"

	"home_thermostat/internal/models"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK          = "ok"
	statusUpdated     = "updated"
	statusRefreshed   = "refreshed"
	statusOverrideSet = "override_set"
	statusResumed     = "resumed"

	errGetState        = "failed to load state"
	errRunCycle        = "failed to update thermostat"
	errRefreshRooms    = "failed to refresh rooms"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceError maps service errors to a status code: caller mistakes are
// 400, missing rows 404, duplicates 409, everything else 500.
func (h *Handler) serviceError(c *gin.Context, logKey string, err error, kv ...any) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrModeNotFound),
		errors.Is(err, repository.ErrScheduleEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err, kv...)
	}
}

// Respond with a status and the cycle outcome.
func respondWithCycle(c *gin.Context, status string, res service.CycleResult) {
	c.JSON(http.StatusOK, gin.H{"status": status, "result": res})
}

// Request DTO for a direct-state override.
type overrideStateRequest struct {
	AC      *bool `json:"ac" binding:"required"`
	Heat    *bool `json:"heat" binding:"required"`
	FanLow  *bool `json:"fan_low" binding:"required"`
	FanHigh *bool `json:"fan_high" binding:"required"`
}

// Request DTO for a temperature override.
type overrideTempRequest struct {
	TempMin    *float64 `json:"temp_min" binding:"required"`
	TempMax    *float64 `json:"temp_max" binding:"required"`
	TargetRoom string   `json:"target_room"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get thermostat status
// @Description  Applied state plus every room with its latest reading
// @Tags         state
// @Produce      json
// @Success      200  {object}  service.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Run the control cycle
// @Description  Polls every room, then resolves the target and applies the decision
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, result"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state/update [post]
// @Security     BearerAuth
func (h *Handler) runUpdate(c *gin.Context) {
	res, err := h.services.Thermostat.Cycle(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRunCycle, "cycle_failed", err)
		return
	}
	respondWithCycle(c, statusUpdated, res)
}

// @Summary      Refresh room readings
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, rooms"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshRooms(c *gin.Context) {
	temps, err := h.services.Thermostat.RefreshRooms(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRefreshRooms, "refresh_rooms_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRefreshed, "rooms": temps})
}

// @Summary      Pin the outputs
// @Description  Direct-state override valid for the configured override duration
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body   overrideStateRequest  true  "Output flags"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/state/set [post]
// @Security     BearerAuth
func (h *Handler) setOverrideState(c *gin.Context) {
	var req overrideStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	flags := models.Flags{AC: *req.AC, Heat: *req.Heat, FanLow: *req.FanLow, FanHigh: *req.FanHigh}
	res, err := h.services.Overrides.SetState(c.Request.Context(), flags)
	if err != nil {
		h.serviceError(c, "override_set_state_failed", err, "flags", flags)
		return
	}
	respondWithCycle(c, statusOverrideSet, res)
}

// @Summary      Override the temperature band
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body   overrideTempRequest  true  "Band and target room"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/state/temp [post]
// @Security     BearerAuth
func (h *Handler) setOverrideTemp(c *gin.Context) {
	var req overrideTempRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	res, err := h.services.Overrides.SetTemp(c.Request.Context(), service.BandParams{
		TempMin:    *req.TempMin,
		TempMax:    *req.TempMax,
		TargetRoom: req.TargetRoom,
	})
	if err != nil {
		h.serviceError(c, "override_set_temp_failed", err)
		return
	}
	respondWithCycle(c, statusOverrideSet, res)
}

// @Summary      Resume the schedule
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state/resume [post]
// @Security     BearerAuth
func (h *Handler) resumeSchedule(c *gin.Context) {
	res, err := h.services.Overrides.Resume(c.Request.Context())
	if err != nil {
		h.serviceError(c, "override_resume_failed", err)
		return
	}
	respondWithCycle(c, statusResumed, res)
}
