package handlers

import (
	"context"
	"sync"
	"time"

	"sunset_relay/internal/models"
	"sunset_relay/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	mu      sync.Mutex
	status  models.RelayStatus
	err     error
	changes chan struct{}
}

func (m *mockMonitoring) Status(ctx context.Context) (models.RelayStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.err
}

// Changes returns the test-driven change channel; nil never fires.
func (m *mockMonitoring) Changes(ctx context.Context) <-chan struct{} {
	return m.changes
}

func (m *mockMonitoring) setStatus(st models.RelayStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = st
}

type mockConfiguration struct {
	saveErr   error
	saved     []models.Settings
	saveCalls int
}

func (m *mockConfiguration) SaveSettings(ctx context.Context, s models.Settings) error {
	m.saveCalls++
	m.saved = append(m.saved, s)
	return m.saveErr
}

type mockProbe struct {
	resp  service.ProbeResult
	err   error
	last  service.ProbeParams
	calls int
}

func (m *mockProbe) ProbeSunset(ctx context.Context, p service.ProbeParams) (service.ProbeResult, error) {
	m.calls++
	m.last = p
	return m.resp, m.err
}

type mockEventLog struct {
	resp     []models.RelayEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.RelayEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// memEventRepo backs a real EventLogService in handler tests.
type memEventRepo struct {
	events  []models.RelayEvent
	queries int
}

func (r *memEventRepo) Append(ctx context.Context, e models.RelayEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.RelayEvent, error) {
	r.queries++
	var out []models.RelayEvent
	for _, e := range r.events {
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
