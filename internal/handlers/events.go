package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"sunset_relay/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// eventQuery is the query string of GET /api/v1/events.
type eventQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// filter turns the query into a service filter. Bounds are RFC3339 instants
// or calendar days in UTC; a day given as 'to' includes the whole day.
func (q eventQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type}
	if q.From != "" {
		t, _, err := parseBound(q.From)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = t
	}
	if q.To != "" {
		t, day, err := parseBound(q.To)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if day {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		f.To = t
	}
	return f, nil
}

var errBadBound = errors.New("expected RFC3339 or YYYY-MM-DD")

func parseBound(s string) (t time.Time, day bool, err error) {
	if t, err = time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w, got %q", errBadBound, s)
}

// @Summary      List relay events
// @Description  Relay history recorded by the controller: switching, sunset fetches, saves, resets and provisioning. A date-only 'to' includes that whole day (UTC).
// @Tags         events
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339 or YYYY-MM-DD)"  example(2024-06-01)
// @Param        to    query   string  false  "End of range (RFC3339 or YYYY-MM-DD)"  example(2024-06-30)
// @Param        type  query   string  false  "Event type"  Enums(RELAY_ON,RELAY_OFF,FETCH_OK,FETCH_FAILED,CONFIG_SAVED,RESET,PROVISIONING)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	var q eventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case errors.Is(err, service.ErrUnknownEventType), errors.Is(err, service.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load events", "events_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
