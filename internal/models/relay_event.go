package models

import "time"

// Relay event types.
const (
	EventRelayOn      = "RELAY_ON"
	EventRelayOff     = "RELAY_OFF"
	EventFetchOK      = "FETCH_OK"
	EventFetchFailed  = "FETCH_FAILED"
	EventConfigSaved  = "CONFIG_SAVED"
	EventReset        = "RESET"
	EventProvisioning = "PROVISIONING"
)

// EventTypes lists every recorded event type.
var EventTypes = []string{
	EventRelayOn,
	EventRelayOff,
	EventFetchOK,
	EventFetchFailed,
	EventConfigSaved,
	EventReset,
	EventProvisioning,
}

// IsEventType reports whether typ is one of EventTypes.
func IsEventType(typ string) bool {
	for _, t := range EventTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// RelayEvent is a single log entry.
type RelayEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // RELAY_ON | RELAY_OFF | FETCH_OK | FETCH_FAILED | CONFIG_SAVED | RESET | PROVISIONING
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
