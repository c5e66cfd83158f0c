package scheduler

import (
	"fmt"
	"time"

	"sunset_relay/internal/models"
)

// NotScheduled is shown when no trigger is armed.
const NotScheduled = "Not scheduled"

// FormatOffTime renders a weekday turn-off time, e.g. "Monday at 20:00:00 CST".
func FormatOffTime(day time.Weekday, entry models.ScheduleEntry, zone, sep string) string {
	return fmt.Sprintf("%s%s%02d:%02d:00 %s", models.DayNames[int(day)%7], sep, entry.Hour, entry.Minute, zone)
}

// FormatTrigger renders the ON time or NotScheduled.
func FormatTrigger(ts TriggerState) string {
	if !ts.Scheduled || ts.Trigger.IsZero() {
		return NotScheduled
	}
	return ts.Trigger.Format("15:04:05 MST")
}
