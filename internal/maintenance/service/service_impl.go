package service

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/events"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Machines  machinedomain.Repository
	Publisher events.Publisher           `optional:"true"`
	Metrics   *obsmetrics.Metrics        `optional:"true"`
	Kitchen   *obsmetrics.KitchenMetrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	machines  machinedomain.Repository
	publisher events.Publisher
	metrics   *obsmetrics.Metrics
	kitchen   *obsmetrics.KitchenMetrics
}

func New(p Params) maintenancedomain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		log:       p.Log.Named("maintenance.service"),
		clock:     p.Clock,
		machines:  p.Machines,
		publisher: publisher,
		metrics:   p.Metrics,
		kitchen:   p.Kitchen,
	}
}

// RunSweep re-evaluates every machine an admin has not touched in the last
// 24 hours. Only real status or note changes count, so running it twice in
// a row changes nothing the second time.
func (s *Service) RunSweep(ctx context.Context) (*maintenancedomain.SweepResult, error) {
	batch, err := s.machines.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Close()

	now := s.clock.Now()
	result := &maintenancedomain.SweepResult{
		Machines: []machinedomain.Machine{},
		RanAt:    now,
	}

	type transition struct {
		machineType string
		reason      string
	}
	var transitions []transition

	items := batch.Items()
	for i := range items {
		m := &items[i]
		if m.ModifiedWithin(now, maintenancedomain.Cooldown) {
			result.SkippedCount++
			s.log.Debug("machine recently edited, skipping", zap.String("machine_id", m.ID))
			continue
		}

		prevStatus, prevNotes := m.Status, m.Notes
		reason := check(m, now)
		if m.Status == prevStatus && m.Notes == prevNotes {
			continue
		}

		result.UpdatedCount++
		result.Machines = append(result.Machines, *m)
		if reason != "" {
			transitions = append(transitions, transition{machineType: m.Type, reason: reason})
		}
		s.log.Info("machine maintenance state changed",
			zap.String("machine_id", m.ID),
			zap.String("from", string(prevStatus)),
			zap.String("to", string(m.Status)),
			zap.String("notes", m.Notes),
		)
	}

	if result.UpdatedCount == 0 {
		return result, nil
	}
	if err := batch.Commit(ctx, items); err != nil {
		return nil, err
	}

	for _, tr := range transitions {
		s.metrics.RecordMaintenanceTransition(ctx, tr.machineType, tr.reason)
	}
	for _, m := range result.Machines {
		s.kitchen.SetMachineUsage(m.ID, m.Type, m.HoursUsed, m.MaxHours)
	}
	s.kitchen.AddSweepUpdated(result.UpdatedCount)
	s.publisher.Publish(ctx, events.MaintenanceSwept, "", result)
	return result, nil
}
