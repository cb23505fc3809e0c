package handlers

import (
	"net/http"
	"time"

	"home_thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// parseQueryTime parses s as UTC. dateOnly reports a bare YYYY-MM-DD.
func parseQueryTime(s string) (t time.Time, dateOnly, ok bool) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), layout == layoutDate, true
		}
	}
	return time.Time{}, false, false
}

// @Summary      List thermostat events
// @Description  A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(STATE_CHANGE,ROOM_STALE,OVERRIDE_SET,OVERRIDE_CLEARED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f := service.LogFilter{Type: c.Query("type")}

	if qs := c.Query("from"); qs != "" {
		from, _, ok := parseQueryTime(qs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
		f.From = from
	}
	if qs := c.Query("to"); qs != "" {
		to, dateOnly, ok := parseQueryTime(qs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = to
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.serviceError(c, "logs_list_failed", err, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}
