package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

const (
	JobReasonDeadlineExceeded = "deadline_exceeded"
	JobReasonLockContention   = "lock_contention"
	JobReasonPersistence      = "persistence"
	JobReasonCanceled         = "canceled"
	JobReasonUnknown          = "unknown"
)

// KitchenMetrics tracks stock levels, machine wear and background job health.
type KitchenMetrics struct {
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	jobTimeouts     *prometheus.CounterVec
	jobErrors       *prometheus.CounterVec
	runLoopLag      prometheus.Observer
	sweepUpdated    prometheus.Counter
	ingredientStock *prometheus.GaugeVec
	machineUsage    *prometheus.GaugeVec
	engineApplied   *prometheus.CounterVec
}

var (
	kitchenMetricsOnce sync.Once
	kitchenMetrics     *KitchenMetrics
)

// Kitchen returns the singleton kitchen metrics registry.
func Kitchen() *KitchenMetrics {
	return KitchenWithConfig(Config{})
}

// KitchenWithConfig returns the singleton kitchen metrics registry using config labels.
func KitchenWithConfig(cfg Config) *KitchenMetrics {
	kitchenMetricsOnce.Do(func() {
		kitchenMetrics = newKitchenMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return kitchenMetrics
}

// ResetKitchenMetricsForTest resets the kitchen metrics singleton for tests.
func ResetKitchenMetricsForTest() {
	kitchenMetricsOnce = sync.Once{}
	kitchenMetrics = nil
}

// NewKitchenMetricsForRegistry builds an unshared instance bound to registerer.
func NewKitchenMetricsForRegistry(registerer prometheus.Registerer, cfg Config) *KitchenMetrics {
	return newKitchenMetrics(registerer, cfg)
}

func newKitchenMetrics(registerer prometheus.Registerer, cfg Config) *KitchenMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pizzaria"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pizzaria_scheduler_job_runs_total",
		Help:        "Scheduler job runs by name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "pizzaria_scheduler_job_duration_seconds",
		Help:        "Scheduler job latency.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		ConstLabels: constLabels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pizzaria_scheduler_job_timeouts_total",
		Help:        "Scheduler jobs that exceeded their deadline.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pizzaria_scheduler_job_errors_total",
		Help:        "Scheduler job errors by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"job", "reason"})
	runLoopLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "pizzaria_scheduler_runloop_lag_seconds",
		Help:        "Scheduler run loop lag beyond the configured interval.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		ConstLabels: constLabels,
	})
	sweepUpdated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "pizzaria_maintenance_sweep_updated_total",
		Help:        "Machines changed by maintenance sweeps.",
		ConstLabels: constLabels,
	})
	ingredientStock := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "pizzaria_ingredient_stock",
		Help:        "Current ingredient stock in the ingredient's own unit.",
		ConstLabels: constLabels,
	}, []string{"ingredient", "unit"})
	machineUsage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "pizzaria_machine_usage_ratio",
		Help:        "Machine hours used over the maintenance allowance.",
		ConstLabels: constLabels,
	}, []string{"machine", "type"})
	engineApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pizzaria_stock_engine_runs_total",
		Help:        "Stock engine runs by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		runLoopLag,
		sweepUpdated,
		ingredientStock,
		machineUsage,
		engineApplied,
	)

	return &KitchenMetrics{
		jobRuns:         jobRuns,
		jobDuration:     jobDuration,
		jobTimeouts:     jobTimeouts,
		jobErrors:       jobErrors,
		runLoopLag:      runLoopLag,
		sweepUpdated:    sweepUpdated,
		ingredientStock: ingredientStock,
		machineUsage:    machineUsage,
		engineApplied:   engineApplied,
	}
}

// IncJobRun increments the run counter for a scheduler job.
func (m *KitchenMetrics) IncJobRun(job string) {
	if m == nil || m.jobRuns == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// ObserveJobDuration records scheduler job latency in seconds.
func (m *KitchenMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncJobTimeout increments the timeout counter for the scheduler job.
func (m *KitchenMetrics) IncJobTimeout(job string) {
	if m == nil || m.jobTimeouts == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

// IncJobError increments the scheduler job error counter with classification.
func (m *KitchenMetrics) IncJobError(job string, err error) {
	if m == nil || err == nil || m.jobErrors == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, ClassifyJobReason(err)).Inc()
}

// ObserveRunLoopLag records lag between the scheduled tick and actual run start.
func (m *KitchenMetrics) ObserveRunLoopLag(duration time.Duration) {
	if m == nil || m.runLoopLag == nil {
		return
	}
	if duration < 0 {
		duration = 0
	}
	m.runLoopLag.Observe(duration.Seconds())
}

// AddSweepUpdated adds the number of machines a sweep changed.
func (m *KitchenMetrics) AddSweepUpdated(count int) {
	if m == nil || m.sweepUpdated == nil || count <= 0 {
		return
	}
	m.sweepUpdated.Add(float64(count))
}

// SetIngredientStock publishes the current stock of an ingredient.
func (m *KitchenMetrics) SetIngredientStock(ingredientID, unit string, stock float64) {
	if m == nil || m.ingredientStock == nil {
		return
	}
	m.ingredientStock.WithLabelValues(ingredientID, unit).Set(stock)
}

// SetMachineUsage publishes hoursUsed/maxHours for a machine.
func (m *KitchenMetrics) SetMachineUsage(machineID, machineType string, hoursUsed, maxHours float64) {
	if m == nil || m.machineUsage == nil || maxHours <= 0 {
		return
	}
	m.machineUsage.WithLabelValues(machineID, machineType).Set(hoursUsed / maxHours)
}

// IncEngineRun counts a stock engine run by outcome.
func (m *KitchenMetrics) IncEngineRun(outcome string) {
	if m == nil || m.engineApplied == nil {
		return
	}
	m.engineApplied.WithLabelValues(outcome).Inc()
}

// ClassifyJobReason maps errors into low-cardinality reasons.
func ClassifyJobReason(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return JobReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return JobReasonCanceled
	case errors.Is(err, jsonstore.ErrLocked):
		return JobReasonLockContention
	case errors.Is(err, jsonstore.ErrPersistence):
		return JobReasonPersistence
	default:
		return JobReasonUnknown
	}
}
