package scheduler

import (
	"context"
	"time"

	obscontext "github.com/smallbiznis/pizzaria/internal/observability/context"
	obslogger "github.com/smallbiznis/pizzaria/internal/observability/logger"
	"github.com/smallbiznis/pizzaria/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

// jobRun tallies one job execution. Jobs reach it through the context so a
// nested job reports into the run that started it.
type jobRun struct {
	job       string
	id        string
	started   time.Time
	processed int
	failed    bool
}

type jobRunKey struct{}

func (r *jobRun) AddProcessed(count int) {
	if r != nil && count > 0 {
		r.processed += count
	}
}

func (r *jobRun) fields(now time.Time) []zap.Field {
	return []zap.Field{
		zap.String("job", r.job),
		zap.String("run_id", r.id),
		zap.Int64("duration_ms", now.Sub(r.started).Milliseconds()),
		zap.Int("processed_count", r.processed),
		zap.Bool("failed", r.failed),
	}
}

func runFromContext(ctx context.Context) *jobRun {
	run, _ := ctx.Value(jobRunKey{}).(*jobRun)
	return run
}

// beginRun attaches a fresh run to ctx unless one is already in flight.
// The returned finish func is a no-op for nested runs.
func (s *Scheduler) beginRun(ctx context.Context, job string) (context.Context, func(error)) {
	if runFromContext(ctx) != nil {
		return ctx, func(error) {}
	}

	run := &jobRun{job: job, id: s.genID.Generate().String(), started: s.clock.Now()}
	ctx = context.WithValue(ctx, jobRunKey{}, run)
	ctx = obscontext.WithRequestID(ctx, run.id)
	ctx, _ = correlation.EnsureCorrelationID(ctx)

	s.logger(ctx).Info("scheduler.job.start", zap.String("job", job), zap.String("run_id", run.id))
	return ctx, func(err error) {
		run.failed = err != nil
		log := s.logger(ctx)
		if run.failed {
			log.Warn("scheduler.job.finish", append(run.fields(s.clock.Now()), zap.Error(err))...)
			return
		}
		log.Info("scheduler.job.finish", run.fields(s.clock.Now())...)
	}
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}
