package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sunset_relay/internal/models"
)

type SettingsSQLite struct {
	db     *sql.DB
	sealer *Sealer
}

func NewSettingsSQLite(db *sql.DB, sealer *Sealer) *SettingsSQLite {
	return &SettingsSQLite{db: db, sealer: sealer}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO settings (id, ssid, wifi_password, latitude, longitude, delay_minutes, schedule, configured, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ssid=excluded.ssid,
			wifi_password=excluded.wifi_password,
			latitude=excluded.latitude,
			longitude=excluded.longitude,
			delay_minutes=excluded.delay_minutes,
			schedule=excluded.schedule,
			configured=excluded.configured,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT ssid, wifi_password, latitude, longitude, delay_minutes, schedule, configured, updated_at
		FROM settings WHERE id=?
	`
)

func marshalSchedule(s models.WeeklySchedule) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalSchedule starts from the defaults so a short array keeps them for
// the remaining days.
func unmarshalSchedule(s string) (models.WeeklySchedule, error) {
	out := models.DefaultWeeklySchedule()
	if s == "" {
		return out, nil
	}
	var entries []models.ScheduleEntry
	if err := json.Unmarshal([]byte(s), &entries); err != nil {
		return out, err
	}
	for i := 0; i < len(entries) && i < len(out); i++ {
		out[i] = entries[i]
	}
	return out.Clamp(), nil
}

// Save upserts the settings row (id always 1). A saved configuration is
// always marked configured.
func (r *SettingsSQLite) Save(ctx context.Context, s models.Settings) error {
	scheduleJSON, err := marshalSchedule(s.Schedule.Clamp())
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	password, err := r.sealer.Seal(s.WiFiPassword)
	if err != nil {
		return fmt.Errorf("seal wifi password: %w", err)
	}

	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertSettingsSQL,
		settingsRowID,
		s.WiFiSSID,
		password,
		s.Latitude,
		s.Longitude,
		models.ClampDelay(s.SunsetDelayMinutes),
		scheduleJSON,
		true,
		ts,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// Load returns the stored settings, or the factory defaults if none exist.
func (r *SettingsSQLite) Load(ctx context.Context) (models.Settings, error) {
	row := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID)

	var (
		s            models.Settings
		password     string
		scheduleJSON string
	)
	if err := row.Scan(
		&s.WiFiSSID,
		&password,
		&s.Latitude,
		&s.Longitude,
		&s.SunsetDelayMinutes,
		&scheduleJSON,
		&s.Configured,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("select settings: %w", err)
	}

	schedule, err := unmarshalSchedule(scheduleJSON)
	if err != nil {
		return models.Settings{}, fmt.Errorf("decode schedule: %w", err)
	}
	s.Schedule = schedule

	if s.WiFiPassword, err = r.sealer.Open(password); err != nil {
		return models.Settings{}, err
	}
	s.SunsetDelayMinutes = models.ClampDelay(s.SunsetDelayMinutes)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
