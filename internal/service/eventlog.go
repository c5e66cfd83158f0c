package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sunset_relay/internal/models"
	"sunset_relay/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrUnknownEventType = errors.New("unknown relay event type")
	ErrInvalidRange     = errors.New("'from' must not be after 'to'")
)

// EventLogService reads the relay history recorded by the controller.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

// List returns the events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RelayEvent, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, f.From, f.To, f.Type)
}

// normalize moves the bounds to UTC and resolves the type filter against the
// recorded event types. Zero bounds stay zero.
func (f LogFilter) normalize() (LogFilter, error) {
	if !f.From.IsZero() {
		f.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		f.To = f.To.UTC()
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return LogFilter{}, ErrInvalidRange
	}

	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	if f.Type != "" && !models.IsEventType(f.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}
	return f, nil
}

// appendEvent records an event with a fresh ID. A nil repo is a no-op.
func appendEvent(ctx context.Context, repo repository.EventRepo, now time.Time, typ, desc string, meta map[string]any) error {
	if repo == nil {
		return nil
	}
	e := models.RelayEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		e.Metadata = meta
	}
	return repo.Append(ctx, e)
}
