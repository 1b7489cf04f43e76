package domain

import (
	"fmt"
	"strings"
)

const ManualUpdateNote = "Status manually updated by administrator"

func UsageEscalationNote(percent float64) string {
	return fmt.Sprintf("Maintenance needed - %.1f%% of rated hours reached", percent)
}

func UrgentUsageNote(percent float64) string {
	return fmt.Sprintf("Urgent maintenance needed - %.1f%% of rated hours reached", percent)
}

func UsageWarningNote(percent float64) string {
	return fmt.Sprintf("Warning: %.1f%% of rated hours reached", percent)
}

func UrgentOverdueNote(days int) string {
	return fmt.Sprintf("Urgent maintenance - overdue by %d days", days)
}

func OverdueNote(days int) string {
	return fmt.Sprintf("Scheduled maintenance overdue by %d days", days)
}

func ReminderNote(days int) string {
	return fmt.Sprintf("Scheduled maintenance in %d days", days)
}

// autoNoteMarkers match notes written by the engine and the sweep. The
// Portuguese entries cover data files written before notes were translated.
var autoNoteMarkers = []string{
	"maintenance needed",
	"of rated hours reached",
	"urgent maintenance",
	"scheduled maintenance",
	"manutenção necessária",
	"90% das horas",
	"data de manutenção vencida",
}

// IsAutoNote reports whether notes were generated rather than typed by an admin.
func IsAutoNote(notes string) bool {
	lower := strings.ToLower(notes)
	if lower == "" {
		return false
	}
	for _, marker := range autoNoteMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
