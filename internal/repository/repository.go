package repository

import (
	"context"
	"database/sql"
	"time"

	"sunset_relay/internal/models"
)

// SettingsRepo is the schedule store: one persisted configuration row.
type SettingsRepo interface {
	Save(ctx context.Context, s models.Settings) error
	Load(ctx context.Context) (models.Settings, error)
}

// EventRepo is the append-only relay event log.
type EventRepo interface {
	Append(ctx context.Context, e models.RelayEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.RelayEvent, error)
}

type Repository struct {
	Settings SettingsRepo
	Events   EventRepo
}

func NewRepository(db *sql.DB, sealer *Sealer) *Repository {
	return &Repository{
		Settings: NewSettingsSQLite(db, sealer),
		Events:   NewEventSQLite(db),
	}
}
