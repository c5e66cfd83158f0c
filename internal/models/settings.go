package models

import "time"

// Sunset delay bounds in minutes.
const (
	MinSunsetDelay = 0
	MaxSunsetDelay = 240
)

// DayNames maps weekday index (0=Sunday) to its English name.
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ScheduleEntry is the turn-off time for one weekday.
type ScheduleEntry struct {
	Hour   int `json:"hour"`
	Minute int `json:"min"`
}

// Clamp returns the entry with hour in [0,23] and minute in [0,59].
func (e ScheduleEntry) Clamp() ScheduleEntry {
	return ScheduleEntry{Hour: clampInt(e.Hour, 0, 23), Minute: clampInt(e.Minute, 0, 59)}
}

// WeeklySchedule holds one turn-off entry per weekday, Sunday first.
type WeeklySchedule [7]ScheduleEntry

// DefaultWeeklySchedule is 17:00 on Sunday and 20:00 on every other day.
func DefaultWeeklySchedule() WeeklySchedule {
	var s WeeklySchedule
	for i := range s {
		s[i] = ScheduleEntry{Hour: 20}
	}
	s[time.Sunday] = ScheduleEntry{Hour: 17}
	return s
}

// For returns the entry for the given weekday.
func (s WeeklySchedule) For(d time.Weekday) ScheduleEntry {
	return s[int(d)%7]
}

// Clamp clamps every entry into range.
func (s WeeklySchedule) Clamp() WeeklySchedule {
	for i := range s {
		s[i] = s[i].Clamp()
	}
	return s
}

// Settings is the persisted device configuration.
type Settings struct {
	WiFiSSID           string         `json:"ssid"`
	WiFiPassword       string         `json:"-"` // never echoed
	Latitude           float64        `json:"lat"`
	Longitude          float64        `json:"lng"`
	SunsetDelayMinutes int            `json:"delay"`
	Schedule           WeeklySchedule `json:"schedule"`
	Configured         bool           `json:"configured"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DefaultSettings returns the unconfigured factory state.
func DefaultSettings() Settings {
	return Settings{Schedule: DefaultWeeklySchedule()}
}

// ClampDelay bounds a sunset delay to [MinSunsetDelay, MaxSunsetDelay].
func ClampDelay(minutes int) int {
	return clampInt(minutes, MinSunsetDelay, MaxSunsetDelay)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
