package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunset_relay/internal/models"
	"sunset_relay/internal/service"
)

type eventsResponse struct {
	Count  int                 `json:"count"`
	Events []models.RelayEvent `json:"events"`
	Error  string              `json:"error"`
}

func getEventsJSON(t *testing.T, s *service.Service, target string) (int, eventsResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var out eventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestEvents_FiltersRelayHistoryByType(t *testing.T) {
	at := time.Date(2024, 6, 24, 19, 0, 0, 0, time.UTC)
	repo := &memEventRepo{events: []models.RelayEvent{
		{EventID: "1", OccurredAt: at, Type: models.EventFetchOK, Description: "Sunset trigger armed"},
		{EventID: "2", OccurredAt: at.Add(time.Hour), Type: models.EventRelayOn, Description: "Relay turned ON (sunset triggered)"},
		{EventID: "3", OccurredAt: at.Add(2 * time.Hour), Type: models.EventRelayOff, Description: "Relay turned OFF (scheduled turnoff for Monday)"},
	}}
	s := &service.Service{EventLog: service.NewEventLogService(repo)}

	code, out := getEventsJSON(t, s, "/api/v1/events?type=relay_off")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "3", out.Events[0].EventID)

	code, out = getEventsJSON(t, s, "/api/v1/events/")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, out.Count)
}

func TestEvents_UnknownTypeRejected(t *testing.T) {
	repo := &memEventRepo{}
	s := &service.Service{EventLog: service.NewEventLogService(repo)}

	code, out := getEventsJSON(t, s, "/api/v1/events?type=TEMPERATURE")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, out.Error, "TEMPERATURE")
	assert.Zero(t, repo.queries)
}

func TestEvents_BoundsValidation(t *testing.T) {
	cases := []struct {
		name   string
		target string
		status int
	}{
		{"bad from", "/api/v1/events?from=yesterday", http.StatusBadRequest},
		{"bad to", "/api/v1/events?to=24/06/2024", http.StatusBadRequest},
		{"inverted", "/api/v1/events?from=2024-06-25&to=2024-06-24T23:00:00Z", http.StatusBadRequest},
		{"same day", "/api/v1/events?from=2024-06-24&to=2024-06-24", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{EventLog: service.NewEventLogService(&memEventRepo{})}
			code, _ := getEventsJSON(t, s, tc.target)
			assert.Equal(t, tc.status, code)
		})
	}
}

func TestEvents_DayBoundsCoverWholeDay(t *testing.T) {
	logs := &mockEventLog{}
	code, _ := getEventsJSON(t, &service.Service{EventLog: logs},
		"/api/v1/events?from=2024-06-24&to=2024-06-24&type=RELAY_ON")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC), logs.lastFrom)
	assert.Equal(t, time.Date(2024, 6, 24, 23, 59, 59, 999999999, time.UTC), logs.lastTo)
	assert.Equal(t, models.EventRelayOn, logs.lastType)
}

func TestEvents_InstantBoundsNormalizedToUTC(t *testing.T) {
	logs := &mockEventLog{}
	code, _ := getEventsJSON(t, &service.Service{EventLog: logs},
		"/api/v1/events?from=2024-06-24T13:00:00-06:00")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, time.Date(2024, 6, 24, 19, 0, 0, 0, time.UTC), logs.lastFrom)
	assert.True(t, logs.lastTo.IsZero())
}

func TestEvents_StoreFailure(t *testing.T) {
	code, out := getEventsJSON(t, &service.Service{EventLog: &mockEventLog{err: errors.New("database is locked")}}, "/api/v1/events")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to load events", out.Error)
}
