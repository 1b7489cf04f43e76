package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/pizzaria/internal/clock"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSweep struct {
	calls  int
	result *maintenancedomain.SweepResult
	err    error
}

func (s *stubSweep) RunSweep(context.Context) (*maintenancedomain.SweepResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &maintenancedomain.SweepResult{}, nil
	}
	return s.result, nil
}

type stubIngredients struct {
	items []ingredientdomain.Response
}

func (s *stubIngredients) List(context.Context) ([]ingredientdomain.Response, error) {
	return s.items, nil
}

func (s *stubIngredients) UpdateStock(context.Context, ingredientdomain.UpdateStockRequest) (*ingredientdomain.Response, error) {
	return nil, errors.New("not implemented")
}

func newTestScheduler(t *testing.T, sweep maintenancedomain.Service, cfg Config, kitchen *obsmetrics.KitchenMetrics) *Scheduler {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	s, err := New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)),
		GenID:       node,
		Maintenance: sweep,
		Ingredients: &stubIngredients{items: []ingredientdomain.Response{
			{ID: "mussarela", Unit: "kg", Stock: 2, MinStock: 5, LowStock: true},
		}},
		Kitchen: kitchen,
		Config:  cfg,
	})
	require.NoError(t, err)
	return s
}

func TestNewRequiresMaintenance(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop(), Clock: clock.New()})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunJobTimeoutDoesNotReturnErrorAndIncrementsTimeout(t *testing.T) {
	registry := prometheus.NewRegistry()
	kitchen := obsmetrics.NewKitchenMetricsForRegistry(registry, obsmetrics.Config{
		ServiceName: "pizzaria",
		Environment: "test",
	})
	s := newTestScheduler(t, &stubSweep{}, Config{}, kitchen)

	err := s.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	labels := map[string]string{"service": "pizzaria", "env": "test", "job": "timeout_job"}
	require.Equal(t, float64(1), getCounterValue(t, registry, "pizzaria_scheduler_job_timeouts_total", labels))

	errorLabels := map[string]string{
		"service": "pizzaria",
		"env":     "test",
		"job":     "timeout_job",
		"reason":  obsmetrics.JobReasonDeadlineExceeded,
	}
	require.Equal(t, float64(1), getCounterValue(t, registry, "pizzaria_scheduler_job_errors_total", errorLabels))
}

func TestRunOnceSweepsAndCountsUpdates(t *testing.T) {
	registry := prometheus.NewRegistry()
	kitchen := obsmetrics.NewKitchenMetricsForRegistry(registry, obsmetrics.Config{ServiceName: "pizzaria", Environment: "test"})
	sweep := &stubSweep{result: &maintenancedomain.SweepResult{UpdatedCount: 2}}
	s := newTestScheduler(t, sweep, Config{}, kitchen)

	require.NoError(t, s.RunOnce(context.Background()))
	require.Equal(t, 1, sweep.calls)

	labels := map[string]string{"service": "pizzaria", "env": "test", "job": JobMaintenanceSweep}
	require.Equal(t, float64(1), getCounterValue(t, registry, "pizzaria_scheduler_job_runs_total", labels))
	require.Equal(t, float64(2), getGaugeValue(t, registry, "pizzaria_ingredient_stock", map[string]string{
		"service": "pizzaria", "env": "test", "ingredient": "mussarela", "unit": "kg",
	}))
}

func TestRunOnceWrapsSweepFailure(t *testing.T) {
	sweep := &stubSweep{err: errors.New("disk full")}
	s := newTestScheduler(t, sweep, Config{EnabledJobs: []string{JobMaintenanceSweep}}, nil)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), JobMaintenanceSweep)
}

func TestRunOnceHonoursJobAllowList(t *testing.T) {
	sweep := &stubSweep{}
	s := newTestScheduler(t, sweep, Config{EnabledJobs: []string{JobLowStockReport}}, nil)

	require.NoError(t, s.RunOnce(context.Background()))
	require.Zero(t, sweep.calls)
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	sweep := &stubSweep{}
	s := newTestScheduler(t, sweep, Config{RunInterval: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunForever(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.GreaterOrEqual(t, sweep.calls, 1)
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metric := findMetric(t, registry, name, labels)
	require.NotNil(t, metric.Counter, "metric %s is not a counter", name)
	return metric.GetCounter().GetValue()
}

func getGaugeValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metric := findMetric(t, registry, name, labels)
	require.NotNil(t, metric.Gauge, "metric %s is not a gauge", name)
	return metric.GetGauge().GetValue()
}

func findMetric(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if labelsMatch(metric, labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return nil
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
