package models

import "time"

// Controller modes.
const (
	ModeStarting     = "starting"
	ModeScheduling   = "scheduling"
	ModeProvisioning = "provisioning"
)

// RelayStatus is the snapshot served on /status and /ws.
type RelayStatus struct {
	Relay        bool            `json:"relay"`
	State        string          `json:"state"` // OFF_UNSCHEDULED | OFF_SCHEDULED | ON
	Mode         string          `json:"mode"`  // starting | scheduling | provisioning
	Connected    bool            `json:"connected"`
	CurrentTime  string          `json:"current_time"`
	Today        string          `json:"today"`
	NextSunset   string          `json:"next_sunset"` // last computed trigger, kept after OFF
	SunsetUTC    string          `json:"sunset_utc,omitempty"`
	RelayOnTime  string          `json:"relay_on_time"`
	RelayOffTime string          `json:"relay_off_time"`
	LastFetch    *time.Time      `json:"last_fetch,omitempty"`
	SSID         string          `json:"ssid"`
	Latitude     float64         `json:"lat"`
	Longitude    float64         `json:"lng"`
	Delay        int             `json:"delay"`
	Configured   bool            `json:"configured"`
	Schedule     []ScheduleEntry `json:"schedule"`
}
