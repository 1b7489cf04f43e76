package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusOperational       Status = "operational"
	StatusMaintenanceNeeded Status = "maintenance_needed"
	StatusUnderMaintenance  Status = "under_maintenance"
)

// Valid reports whether s is one of the known machine statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOperational, StatusMaintenanceNeeded, StatusUnderMaintenance:
		return true
	}
	return false
}

// Machine types that accrue wear on order creation.
const (
	TypeMixer = "masseira"
	TypeOven  = "forno"
)

// Machine is a piece of kitchen equipment. Date fields keep the
// calendar strings they were entered with.
type Machine struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	InstallDate     string     `json:"installDate"`
	LastMaintenance string     `json:"lastMaintenance"`
	NextMaintenance string     `json:"nextMaintenance"`
	Status          Status     `json:"status"`
	HoursUsed       float64    `json:"hoursUsed"`
	MaxHours        float64    `json:"maxHours"`
	Notes           string     `json:"notes"`
	LastModified    *time.Time `json:"lastModified,omitempty"`
}

// UsagePercent is hoursUsed relative to maxHours, 0 when maxHours is unset.
func (m Machine) UsagePercent() float64 {
	if m.MaxHours <= 0 {
		return 0
	}
	return m.HoursUsed / m.MaxHours * 100
}

// ReachedShare reports hoursUsed >= maxHours*share.
func (m Machine) ReachedShare(share float64) bool {
	return m.MaxHours > 0 && m.HoursUsed >= m.MaxHours*share
}

// ModifiedWithin reports whether an admin touched the machine less than d
// before now. A machine never edited by an admin is never within the window.
func (m Machine) ModifiedWithin(now time.Time, d time.Duration) bool {
	if m.LastModified == nil || m.LastModified.IsZero() {
		return false
	}
	return now.Sub(*m.LastModified) < d
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses the calendar fields. Date-only values are midnight UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FirstOfType returns the index of the first machine with the given type or -1.
func FirstOfType(machines []Machine, machineType string) int {
	for i := range machines {
		if machines[i].Type == machineType {
			return i
		}
	}
	return -1
}
