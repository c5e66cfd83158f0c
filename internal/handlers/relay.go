package handlers

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sunset_relay/internal/models"
	"sunset_relay/internal/scheduler"
	"sunset_relay/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML []byte

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errGetStatus       = "failed to load status"
	errMissingParams   = "Missing parameters"
	errInvalidParams   = "Invalid parameters"
	errAPIRequest      = "API request failed"
	errRateLimited     = "Too many requests"
	errSaveSettings    = "failed to save settings"
	errInvalidBodyPref = "invalid body: "

	triggerLayout = "15:04:05 MST"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// failure writes the {"success":false,...} shape used by the device endpoints.
func failure(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, gin.H{"success": false, "message": msg})
}

// scheduleEntryRequest is one weekday turn-off time.
type scheduleEntryRequest struct {
	Hour *int `json:"hour" binding:"required,min=0,max=23"`
	Min  *int `json:"min" binding:"required,min=0,max=59"`
}

// saveRequest requires every field; pointers tell absent from zero.
type saveRequest struct {
	SSID     *string                `json:"ssid" binding:"required,min=1,max=32"`
	Password *string                `json:"password" binding:"required,max=63"`
	Lat      *float64               `json:"lat" binding:"required,min=-90,max=90"`
	Lng      *float64               `json:"lng" binding:"required,min=-180,max=180"`
	Delay    *int                   `json:"delay" binding:"required,min=0,max=240"`
	Schedule []scheduleEntryRequest `json:"schedule" binding:"required,len=7,dive"`
}

func (r saveRequest) settings() models.Settings {
	s := models.Settings{
		WiFiSSID:           *r.SSID,
		WiFiPassword:       *r.Password,
		Latitude:           *r.Lat,
		Longitude:          *r.Lng,
		SunsetDelayMinutes: *r.Delay,
	}
	for i, e := range r.Schedule {
		s.Schedule[i] = models.ScheduleEntry{Hour: *e.Hour, Minute: *e.Min}
	}
	return s
}

// SaveSettingsRequest is an exported model for Swagger docs of the save payload.
type SaveSettingsRequest struct {
	// WiFi network name
	SSID string `json:"ssid" example:"home"`
	// WiFi passphrase (may be empty for open networks)
	Password string `json:"password" example:"secret"`
	// Latitude in decimal degrees
	Lat float64 `json:"lat" example:"41.6764"`
	// Longitude in decimal degrees
	Lng float64 `json:"lng" example:"-86.2520"`
	// Minutes after sunset, 0-240
	Delay int `json:"delay" example:"30"`
	// Seven turn-off times, Sunday first
	Schedule []models.ScheduleEntry `json:"schedule"`
}

// TestSunsetResponse is an exported model for Swagger docs of the probe reply.
type TestSunsetResponse struct {
	Success     bool   `json:"success" example:"true"`
	Sunset      string `json:"sunset" example:"2024-06-21T19:30:00+00:00"`
	RelayOn     string `json:"relay_on" example:"Sunset + 30 min"`
	RelayOnTime string `json:"relay_on_time" example:"14:00:00 CST"`
	RelayOff    string `json:"relay_off" example:"Friday: 20:00:00 CST"`
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

// @Summary      Configuration page
// @Tags         device
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// @Summary      Relay status
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.RelayStatus
// @Failure      500  {object}  map[string]string
// @Router       /status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "relay_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Test sunset lookup
// @Description  Fetches today's sunset for the given coordinates without touching the schedule.
// @Tags         device
// @Produce      json
// @Param        lat    query  number   true  "Latitude"
// @Param        lng    query  number   true  "Longitude"
// @Param        delay  query  integer  true  "Minutes after sunset"
// @Success      200  {object}  TestSunsetResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      429  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /test [get]
func (h *Handler) testSunset(c *gin.Context) {
	latS, okLat := c.GetQuery("lat")
	lngS, okLng := c.GetQuery("lng")
	delayS, okDelay := c.GetQuery("delay")
	if !okLat || !okLng || !okDelay {
		failure(c, http.StatusBadRequest, errMissingParams)
		return
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	delay, errDelay := strconv.Atoi(strings.TrimSpace(delayS))
	if errLat != nil || errLng != nil || errDelay != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		failure(c, http.StatusBadRequest, errInvalidParams)
		return
	}

	res, err := h.services.SunsetProbe.ProbeSunset(c.Request.Context(), service.ProbeParams{Lat: lat, Lng: lng, Delay: delay})
	switch {
	case errors.Is(err, service.ErrRateLimited):
		failure(c, http.StatusTooManyRequests, errRateLimited)
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("sunset_probe_failed", "err", err, "lat", lat, "lng", lng)
		}
		failure(c, http.StatusInternalServerError, errAPIRequest)
		return
	}

	c.JSON(http.StatusOK, TestSunsetResponse{
		Success:     true,
		Sunset:      res.Sunset,
		RelayOn:     fmt.Sprintf("Sunset + %d min", res.Delay),
		RelayOnTime: res.Trigger.Format(triggerLayout),
		RelayOff:    scheduler.FormatOffTime(res.OffDay, res.OffEntry, res.Zone, ": "),
	})
}

// @Summary      Save configuration
// @Description  Stores WiFi, location, delay and schedule, then resets the controller.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body  SaveSettingsRequest  true  "Configuration"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /save [post]
func (h *Handler) saveSettings(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
		return
	}

	in := req.settings()
	if err := h.services.Configuration.SaveSettings(c.Request.Context(), in); err != nil {
		if h.log != nil {
			h.log.Errorw("settings_save_failed", "err", err, "ssid", in.WiFiSSID)
		}
		failure(c, http.StatusInternalServerError, errSaveSettings)
		return
	}
	if h.log != nil {
		h.log.Infow("settings_saved", "ssid", in.WiFiSSID, "lat", in.Latitude, "lng", in.Longitude, "delay", in.SunsetDelayMinutes)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
