package service

import (
	"context"
	"math"
	"strings"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/events"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Repo      machinedomain.Repository
	Publisher events.Publisher           `optional:"true"`
	Metrics   *obsmetrics.Metrics        `optional:"true"`
	Kitchen   *obsmetrics.KitchenMetrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	repo      machinedomain.Repository
	publisher events.Publisher
	metrics   *obsmetrics.Metrics
	kitchen   *obsmetrics.KitchenMetrics
}

func New(p Params) machinedomain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		log:       p.Log.Named("machine.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		publisher: publisher,
		metrics:   p.Metrics,
		kitchen:   p.Kitchen,
	}
}

func (s *Service) List(ctx context.Context) ([]machinedomain.Machine, error) {
	return s.repo.List(ctx)
}

// Update applies an admin edit. The edit stamps lastModified, which holds
// off automatic maintenance notes for the following 24 hours.
func (s *Service) Update(ctx context.Context, req machinedomain.UpdateRequest) (*machinedomain.Machine, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(req.ID)

	batch, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Close()

	items := batch.Items()
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, machinedomain.ErrNotFound
	}

	m := items[idx]
	previous := m.Status
	applyUpdate(&m, req)
	now := s.clock.Now()
	m.LastModified = &now

	if m.Status == machinedomain.StatusOperational && machinedomain.IsAutoNote(m.Notes) {
		m.Notes = machinedomain.ManualUpdateNote
	}

	items[idx] = m
	if err := batch.Commit(ctx, items); err != nil {
		return nil, err
	}

	if previous != m.Status {
		s.metrics.RecordMaintenanceTransition(ctx, m.Type, "admin")
	}
	s.kitchen.SetMachineUsage(m.ID, m.Type, m.HoursUsed, m.MaxHours)
	s.log.Info("machine updated",
		zap.String("machine_id", m.ID),
		zap.String("status", string(m.Status)),
		zap.Float64("hours_used", m.HoursUsed),
		zap.Float64("max_hours", m.MaxHours),
	)
	s.publisher.Publish(ctx, events.MachineUpdated, m.ID, m)
	return &m, nil
}

func validateUpdate(req machinedomain.UpdateRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return machinedomain.ErrInvalidID
	}
	if !req.Status.Valid() {
		return machinedomain.ErrInvalidStatus
	}
	if req.HoursUsed != nil && (*req.HoursUsed < 0 || !finite(*req.HoursUsed)) {
		return machinedomain.ErrInvalidHours
	}
	if req.MaxHours != nil && (*req.MaxHours <= 0 || !finite(*req.MaxHours)) {
		return machinedomain.ErrInvalidHours
	}
	for _, date := range []*string{req.InstallDate, req.LastMaintenance, req.NextMaintenance} {
		if date == nil || strings.TrimSpace(*date) == "" {
			continue
		}
		if _, ok := machinedomain.ParseDate(*date); !ok {
			return machinedomain.ErrInvalidDate
		}
	}
	return nil
}

func applyUpdate(m *machinedomain.Machine, req machinedomain.UpdateRequest) {
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		m.Type = strings.TrimSpace(*req.Type)
	}
	if req.InstallDate != nil {
		m.InstallDate = strings.TrimSpace(*req.InstallDate)
	}
	if req.LastMaintenance != nil {
		m.LastMaintenance = strings.TrimSpace(*req.LastMaintenance)
	}
	if req.NextMaintenance != nil {
		m.NextMaintenance = strings.TrimSpace(*req.NextMaintenance)
	}
	if req.HoursUsed != nil {
		m.HoursUsed = *req.HoursUsed
	}
	if req.MaxHours != nil {
		m.MaxHours = *req.MaxHours
	}
	if req.Notes != nil {
		m.Notes = *req.Notes
	}
	m.Status = req.Status
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
