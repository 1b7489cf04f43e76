package service

import (
	"math"
	"time"

	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
)

// transition reason labels
const (
	reasonUsage    = "usage_sweep"
	reasonCalendar = "calendar_overdue"
)

// check applies the hour and calendar rules to one operational machine and
// returns the escalation reason, if any.
func check(m *machinedomain.Machine, now time.Time) string {
	if m.Status != machinedomain.StatusOperational {
		return ""
	}

	reason := ""
	switch {
	case m.ReachedShare(maintenancedomain.UrgentUsageShare):
		m.Status = machinedomain.StatusMaintenanceNeeded
		m.Notes = machinedomain.UrgentUsageNote(m.UsagePercent())
		reason = reasonUsage
	case m.ReachedShare(maintenancedomain.WarningUsageShare):
		m.Notes = machinedomain.UsageWarningNote(m.UsagePercent())
	}

	if m.Status != machinedomain.StatusOperational {
		return reason
	}
	next, ok := machinedomain.ParseDate(m.NextMaintenance)
	if !ok {
		return reason
	}

	days := daysUntil(next, now)
	switch {
	case days <= maintenancedomain.UrgentOverdueDays:
		m.Status = machinedomain.StatusMaintenanceNeeded
		m.Notes = machinedomain.UrgentOverdueNote(-days)
		reason = reasonCalendar
	case days <= 0:
		m.Notes = machinedomain.OverdueNote(-days)
	case days <= maintenancedomain.ReminderDays:
		m.Notes = machinedomain.ReminderNote(days)
	}
	return reason
}

// daysUntil rounds the distance to next up to whole days, so anything later
// today counts as 1 and anything earlier today as 0.
func daysUntil(next, now time.Time) int {
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}
