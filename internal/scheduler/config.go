package scheduler

import (
	"strings"
	"time"

	"github.com/smallbiznis/pizzaria/internal/config"
)

const (
	JobMaintenanceSweep = "maintenance_sweep"
	JobLowStockReport   = "low_stock_report"
)

// Config controls the run interval and which jobs a process owns.
type Config struct {
	Enabled     bool
	RunInterval time.Duration
	JobTimeout  time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		RunInterval: 5 * time.Minute,
		JobTimeout:  30 * time.Second,
	}
}

// ProvideConfig reads SCHEDULER_* settings. SCHEDULER_JOBS is a comma
// separated allow list; empty means every job.
func ProvideConfig(cfg config.Config) Config {
	out := Config{
		Enabled:     cfg.Scheduler.Enabled,
		RunInterval: time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second,
	}
	for _, job := range strings.Split(cfg.Scheduler.Jobs, ",") {
		if job = strings.TrimSpace(job); job != "" {
			out.EnabledJobs = append(out.EnabledJobs, job)
		}
	}
	return out
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
