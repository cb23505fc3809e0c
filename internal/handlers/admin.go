package handlers

import (
	"net/http"
	"strconv"

	"home_thermostat/internal/models"

	"github.com/gin-gonic/gin"
)

type roomRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

type modeRequest struct {
	Name       string   `json:"name"`
	TargetRoom string   `json:"target_room"`
	TempMin    *float64 `json:"temp_min" binding:"required"`
	TempMax    *float64 `json:"temp_max" binding:"required"`
	DefaultFan *bool    `json:"default_fan"` // absent means true
}

func (r modeRequest) toMode(name string) models.Mode {
	m := models.Mode{
		Name:       name,
		TargetRoom: r.TargetRoom,
		TempMin:    *r.TempMin,
		TempMax:    *r.TempMax,
		DefaultFan: true,
	}
	if r.DefaultFan != nil {
		m.DefaultFan = *r.DefaultFan
	}
	return m
}

type scheduleRequest struct {
	StartTime *int   `json:"start_time" binding:"required"` // minutes after midnight
	Mode      string `json:"mode" binding:"required"`
}

type pinRequest struct {
	Channel *int `json:"channel" binding:"required"`
}

// -------- Rooms --------

// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {array}   models.Room
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/rooms [get]
// @Security     BearerAuth
func (h *Handler) listRooms(c *gin.Context) {
	rooms, err := h.services.Rooms.ListRooms(c.Request.Context())
	if err != nil {
		h.serviceError(c, "rooms_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// @Summary      Add a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        body  body   roomRequest  true  "Room name and sensor address"
// @Success      201   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/rooms [post]
// @Security     BearerAuth
func (h *Handler) createRoom(c *gin.Context) {
	var req roomRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id, err := h.services.Rooms.CreateRoom(c.Request.Context(), req.Name, req.Address)
	if err != nil {
		h.serviceError(c, "room_create_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Rename the room at a sensor address
// @Tags         rooms
// @Accept       json
// @Param        address  path  string         true  "Sensor address"
// @Param        body     body  renameRequest  true  "New name"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/rooms/{address} [put]
// @Security     BearerAuth
func (h *Handler) renameRoom(c *gin.Context) {
	var req renameRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Rooms.RenameRoom(c.Request.Context(), c.Param("address"), req.Name); err != nil {
		h.serviceError(c, "room_rename_failed", err, "address", c.Param("address"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Delete the room at a sensor address
// @Tags         rooms
// @Param        address  path  string  true  "Sensor address"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/rooms/{address} [delete]
// @Security     BearerAuth
func (h *Handler) deleteRoom(c *gin.Context) {
	if err := h.services.Rooms.DeleteRoom(c.Request.Context(), c.Param("address")); err != nil {
		h.serviceError(c, "room_delete_failed", err, "address", c.Param("address"))
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- Modes --------

// @Summary      List modes
// @Tags         modes
// @Produce      json
// @Success      200  {array}  models.Mode
// @Router       /api/v1/modes [get]
// @Security     BearerAuth
func (h *Handler) listModes(c *gin.Context) {
	modes, err := h.services.Modes.ListModes(c.Request.Context())
	if err != nil {
		h.serviceError(c, "modes_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, modes)
}

// @Summary      Create a mode
// @Tags         modes
// @Accept       json
// @Param        body  body  modeRequest  true  "Mode"
// @Success      201
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/modes [post]
// @Security     BearerAuth
func (h *Handler) createMode(c *gin.Context) {
	var req modeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Modes.CreateMode(c.Request.Context(), req.toMode(req.Name)); err != nil {
		h.serviceError(c, "mode_create_failed", err, "name", req.Name)
		return
	}
	c.Status(http.StatusCreated)
}

// @Summary      Update a mode
// @Tags         modes
// @Accept       json
// @Param        name  path  string       true  "Mode name"
// @Param        body  body  modeRequest  true  "Mode"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/modes/{name} [put]
// @Security     BearerAuth
func (h *Handler) updateMode(c *gin.Context) {
	var req modeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Modes.UpdateMode(c.Request.Context(), req.toMode(c.Param("name"))); err != nil {
		h.serviceError(c, "mode_update_failed", err, "name", c.Param("name"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Delete a mode
// @Tags         modes
// @Param        name  path  string  true  "Mode name"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/modes/{name} [delete]
// @Security     BearerAuth
func (h *Handler) deleteMode(c *gin.Context) {
	if err := h.services.Modes.DeleteMode(c.Request.Context(), c.Param("name")); err != nil {
		h.serviceError(c, "mode_delete_failed", err, "name", c.Param("name"))
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- Schedule --------

// @Summary      List schedule entries
// @Tags         schedule
// @Produce      json
// @Success      200  {array}  models.ScheduleEntry
// @Router       /api/v1/schedule [get]
// @Security     BearerAuth
func (h *Handler) listSchedule(c *gin.Context) {
	entries, err := h.services.Schedule.ListSchedule(c.Request.Context())
	if err != nil {
		h.serviceError(c, "schedule_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Add a schedule entry
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        body  body   scheduleRequest  true  "Entry"
// @Success      201   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/schedule [post]
// @Security     BearerAuth
func (h *Handler) addScheduleEntry(c *gin.Context) {
	var req scheduleRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id, err := h.services.Schedule.AddScheduleEntry(c.Request.Context(), models.ScheduleEntry{
		StartTime: *req.StartTime,
		Mode:      req.Mode,
	})
	if err != nil {
		h.serviceError(c, "schedule_add_failed", err, "mode", req.Mode)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Delete a schedule entry
// @Tags         schedule
// @Param        id  path  int  true  "Entry id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/schedule/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteScheduleEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.services.Schedule.DeleteScheduleEntry(c.Request.Context(), id); err != nil {
		h.serviceError(c, "schedule_delete_failed", err, "id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- Pins --------

// @Summary      List pin mappings
// @Tags         pins
// @Produce      json
// @Success      200  {array}  models.PinMapping
// @Router       /api/v1/pins [get]
// @Security     BearerAuth
func (h *Handler) listPins(c *gin.Context) {
	pins, err := h.services.Pins.ListPins(c.Request.Context())
	if err != nil {
		h.serviceError(c, "pins_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, pins)
}

// @Summary      Bind an output to a channel
// @Tags         pins
// @Accept       json
// @Param        name  path  string      true  "ac | heat | fanLow | fanHigh"
// @Param        body  body  pinRequest  true  "Channel"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/pins/{name} [put]
// @Security     BearerAuth
func (h *Handler) setPin(c *gin.Context) {
	var req pinRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	p := models.PinMapping{Name: c.Param("name"), Channel: *req.Channel}
	if err := h.services.Pins.SetPin(c.Request.Context(), p); err != nil {
		h.serviceError(c, "pin_set_failed", err, "name", p.Name)
		return
	}
	c.Status(http.StatusNoContent)
}
