package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/pizzaria/internal/clock"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	machinerepo "github.com/smallbiznis/pizzaria/internal/machine/repository"
	maintenancedomain "github.com/smallbiznis/pizzaria/internal/maintenance/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sweepNow = time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

type sweepHarness struct {
	svc   maintenancedomain.Service
	repo  machinedomain.Repository
	fs    afero.Fs
	clock *clock.FakeClock
}

func newSweepHarness(t *testing.T, machines ...machinedomain.Machine) *sweepHarness {
	t.Helper()
	fs := afero.NewMemMapFs()
	repo := machinerepo.Provide(jsonstore.New(fs, "/data"))
	batch, err := repo.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, batch.Commit(context.Background(), machines))
	batch.Close()

	clk := clock.NewFakeClock(sweepNow)
	return &sweepHarness{
		svc:   New(Params{Log: zap.NewNop(), Clock: clk, Machines: repo}),
		repo:  repo,
		fs:    fs,
		clock: clk,
	}
}

func (h *sweepHarness) stored(t *testing.T) []machinedomain.Machine {
	t.Helper()
	items, err := h.repo.List(context.Background())
	require.NoError(t, err)
	return items
}

func operational(id string, used, max float64) machinedomain.Machine {
	return machinedomain.Machine{
		ID:              id,
		Type:            machinedomain.TypeOven,
		Status:          machinedomain.StatusOperational,
		HoursUsed:       used,
		MaxHours:        max,
		NextMaintenance: "2024-12-31",
		Notes:           "ok",
	}
}

func TestSweepUsageThresholds(t *testing.T) {
	h := newSweepHarness(t,
		operational("at-90", 90, 100),
		operational("at-95", 95, 100),
		operational("below", 89.9, 100),
	)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.UpdatedCount)

	machines := h.stored(t)
	require.Equal(t, machinedomain.StatusOperational, machines[0].Status)
	require.Equal(t, "Warning: 90.0% of rated hours reached", machines[0].Notes)

	require.Equal(t, machinedomain.StatusMaintenanceNeeded, machines[1].Status)
	require.Equal(t, "Urgent maintenance needed - 95.0% of rated hours reached", machines[1].Notes)

	require.Equal(t, machinedomain.StatusOperational, machines[2].Status)
	require.Equal(t, "ok", machines[2].Notes)
}

func TestSweepMixerAfterBusyEveningStaysOperational(t *testing.T) {
	mixer := operational("mixer", 94+10*5.0/60, 100)
	mixer.Type = machinedomain.TypeMixer
	h := newSweepHarness(t, mixer)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.UpdatedCount)

	got := h.stored(t)[0]
	require.Equal(t, machinedomain.StatusOperational, got.Status)
	require.Equal(t, "Warning: 94.8% of rated hours reached", got.Notes)
}

func TestSweepCooldownSuppressesRecentlyEditedMachines(t *testing.T) {
	recent := sweepNow.Add(-23 * time.Hour)
	m := operational("edited", 99, 100)
	m.LastModified = &recent
	m.NextMaintenance = "2024-01-01"
	h := newSweepHarness(t, m)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.UpdatedCount)
	require.Equal(t, 1, res.SkippedCount)
	require.Equal(t, machinedomain.StatusOperational, h.stored(t)[0].Status)

	h.clock.Advance(2 * time.Hour)
	res, err = h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.UpdatedCount)
	require.Equal(t, machinedomain.StatusMaintenanceNeeded, h.stored(t)[0].Status)
}

func TestSweepCalendarRules(t *testing.T) {
	cases := []struct {
		name       string
		next       string
		wantStatus machinedomain.Status
		wantNotes  string
	}{
		{"overdue ten days", "2024-03-31", machinedomain.StatusMaintenanceNeeded, "Urgent maintenance - overdue by 10 days"},
		{"overdue seven days", "2024-04-03", machinedomain.StatusMaintenanceNeeded, "Urgent maintenance - overdue by 7 days"},
		{"overdue three days", "2024-04-07", machinedomain.StatusOperational, "Scheduled maintenance overdue by 3 days"},
		{"due earlier today", "2024-04-10", machinedomain.StatusOperational, "Scheduled maintenance overdue by 0 days"},
		{"due tomorrow", "2024-04-11", machinedomain.StatusOperational, "Scheduled maintenance in 1 days"},
		{"due in a week", "2024-04-17", machinedomain.StatusOperational, "Scheduled maintenance in 7 days"},
		{"far away", "2024-05-01", machinedomain.StatusOperational, "ok"},
		{"unparseable", "someday", machinedomain.StatusOperational, "ok"},
		{"empty", "", machinedomain.StatusOperational, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := operational("m", 10, 100)
			m.NextMaintenance = tc.next
			h := newSweepHarness(t, m)

			_, err := h.svc.RunSweep(context.Background())
			require.NoError(t, err)

			got := h.stored(t)[0]
			require.Equal(t, tc.wantStatus, got.Status)
			require.Equal(t, tc.wantNotes, got.Notes)
		})
	}
}

func TestSweepLeavesNonOperationalMachinesAlone(t *testing.T) {
	m := operational("down", 99, 100)
	m.Status = machinedomain.StatusUnderMaintenance
	m.NextMaintenance = "2024-01-01"
	h := newSweepHarness(t, m)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.UpdatedCount)
}

func TestSweepIsIdempotent(t *testing.T) {
	h := newSweepHarness(t, operational("warn", 92, 100))

	first, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.UpdatedCount)

	second, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, second.UpdatedCount)
	require.Empty(t, second.Machines)
}

func TestSweepWithoutChangesDoesNotWrite(t *testing.T) {
	h := newSweepHarness(t, operational("fine", 1, 100))
	path := "/data/machines.json"
	require.NoError(t, h.fs.Remove(path+".backup"))
	before, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.UpdatedCount)

	exists, err := afero.Exists(h.fs, path+".backup")
	require.NoError(t, err)
	require.False(t, exists)
	after, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSweepPersistsEscalation(t *testing.T) {
	m := operational("late", 10, 100)
	m.NextMaintenance = "2024-03-01"
	h := newSweepHarness(t, m)

	res, err := h.svc.RunSweep(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Machines, 1)
	require.Equal(t, machinedomain.StatusMaintenanceNeeded, res.Machines[0].Status)
	require.Equal(t, sweepNow, res.RanAt)

	require.Equal(t, machinedomain.StatusMaintenanceNeeded, h.stored(t)[0].Status)
}
