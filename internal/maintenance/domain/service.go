package domain

import (
	"context"
	"time"

	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
)

// Sweep thresholds.
const (
	Cooldown          = 24 * time.Hour
	UrgentUsageShare  = 0.95
	WarningUsageShare = 0.90
	UrgentOverdueDays = -7
	ReminderDays      = 7
)

// SweepResult lists the machines whose status or notes changed.
type SweepResult struct {
	UpdatedCount int                     `json:"updatedCount"`
	SkippedCount int                     `json:"skippedCount"`
	Machines     []machinedomain.Machine `json:"machines"`
	RanAt        time.Time               `json:"ranAt"`
}

type Service interface {
	RunSweep(ctx context.Context) (*SweepResult, error)
}
