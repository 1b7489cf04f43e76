package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/clock"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Maintenance maintenancedomain.Service
	Ingredients ingredientdomain.Service   `optional:"true"`
	Kitchen     *obsmetrics.KitchenMetrics `optional:"true"`
	Config      Config                     `optional:"true"`
}

// Scheduler drives the periodic kitchen jobs. The maintenance sweep is the
// only job with side effects; the low stock report just logs.
type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	genID       *snowflake.Node
	maintenance maintenancedomain.Service
	ingredients ingredientdomain.Service
	kitchen     *obsmetrics.KitchenMetrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.GenID == nil || p.Maintenance == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		genID:       p.GenID,
		maintenance: p.Maintenance,
		ingredients: p.Ingredients,
		kitchen:     p.Kitchen,
	}, nil
}

// runJob executes fn under a timeout. Timeouts are logged and swallowed so
// the next tick retries; other failures are returned wrapped with the job name.
func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, finish := s.beginRun(ctx, name)
	s.kitchen.IncJobRun(name)

	start := s.clock.Now()
	err := fn(ctx)
	s.kitchen.ObserveJobDuration(name, s.clock.Now().Sub(start))
	finish(err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.kitchen.IncJobTimeout(name)
		s.kitchen.IncJobError(name, err)
		s.logger(ctx).Warn("job timed out", zap.String("job", name), zap.Duration("timeout", timeout))
		return nil
	default:
		s.kitchen.IncJobError(name, err)
		return fmt.Errorf("%s: %w", name, err)
	}
}

// RunOnce runs every enabled job once and joins their errors.
func (s *Scheduler) RunOnce(parent context.Context) error {
	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{JobMaintenanceSweep, s.MaintenanceSweepJob},
		{JobLowStockReport, s.LowStockReportJob},
	}

	var err error
	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now()

	for {
		if lag := s.clock.Now().Sub(nextRun); lag > 0 {
			s.kitchen.ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

func (s *Scheduler) MaintenanceSweepJob(ctx context.Context) error {
	res, err := s.maintenance.RunSweep(ctx)
	if err != nil {
		return err
	}
	runFromContext(ctx).AddProcessed(res.UpdatedCount)
	if res.UpdatedCount > 0 || res.SkippedCount > 0 {
		s.logger(ctx).Info("maintenance sweep applied",
			zap.Int("updated_count", res.UpdatedCount),
			zap.Int("skipped_count", res.SkippedCount),
		)
	}
	return nil
}

func (s *Scheduler) LowStockReportJob(ctx context.Context) error {
	if s.ingredients == nil {
		return nil
	}
	items, err := s.ingredients.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		s.kitchen.SetIngredientStock(item.ID, item.Unit, item.Stock)
		if !item.LowStock {
			continue
		}
		runFromContext(ctx).AddProcessed(1)
		s.logger(ctx).Warn("ingredient below minimum stock",
			zap.String("ingredient_id", item.ID),
			zap.Float64("stock", item.Stock),
			zap.Float64("min_stock", item.MinStock),
			zap.String("unit", item.Unit),
		)
	}
	return nil
}
