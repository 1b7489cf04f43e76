package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/pizzaria/internal/clock"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"github.com/smallbiznis/pizzaria/internal/observability/tracing"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	Ingredients ingredientdomain.Repository
	Machines    machinedomain.Repository
	Recipes     recipedomain.Repository
	Metrics     *obsmetrics.Metrics        `optional:"true"`
	Kitchen     *obsmetrics.KitchenMetrics `optional:"true"`
}

type Engine struct {
	log         *zap.Logger
	clock       clock.Clock
	ingredients ingredientdomain.Repository
	machines    machinedomain.Repository
	recipes     recipedomain.Repository
	metrics     *obsmetrics.Metrics
	kitchen     *obsmetrics.KitchenMetrics
}

func New(p Params) stockdomain.Engine {
	return &Engine{
		log:         p.Log.Named("stock.engine"),
		clock:       p.Clock,
		ingredients: p.Ingredients,
		machines:    p.Machines,
		recipes:     p.Recipes,
		metrics:     p.Metrics,
		kitchen:     p.Kitchen,
	}
}

// ApplyOrder consumes ingredients and accrues machine wear for one order.
// The returned outcome is never nil; on error its status is failed and any
// write that already succeeded stays in place.
func (e *Engine) ApplyOrder(ctx context.Context, orderID string, items []stockdomain.Item) (*stockdomain.Outcome, error) {
	ctx, span := otel.Tracer("pizzaria/stock").Start(ctx, "stock.apply_order")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", orderID), attribute.Int("item_count", len(items)))

	now := e.clock.Now()
	out := &stockdomain.Outcome{
		OrderID:   orderID,
		Status:    stockdomain.OutcomeApplied,
		AppliedAt: now,
	}

	if err := e.run(ctx, now, items, out); err != nil {
		out.Status = stockdomain.OutcomeFailed
		out.Error = err.Error()
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, "stock adjustment failed")
		e.kitchen.IncEngineRun(string(out.Status))
		e.metrics.RecordStockAdjustment(ctx, string(out.Status))
		e.log.Error("stock adjustment failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return out, err
	}

	e.kitchen.IncEngineRun(string(out.Status))
	e.metrics.RecordStockAdjustment(ctx, string(out.Status))
	for _, tr := range out.MachineTransitions {
		e.metrics.RecordMaintenanceTransition(ctx, tr.MachineType, "usage_threshold")
		e.log.Warn("machine needs maintenance",
			zap.String("machine_id", tr.MachineID),
			zap.String("machine_type", tr.MachineType),
			zap.Float64("usage_percent", tr.UsagePercent),
		)
	}
	for _, flavor := range out.SkippedFlavors {
		e.log.Info("no recipe for pizza, skipping consumption",
			zap.String("order_id", orderID),
			zap.String("pizza", flavor),
		)
	}
	e.log.Info("stock adjusted",
		zap.String("order_id", orderID),
		zap.Int("pizzas_produced", out.PizzasProduced),
		zap.Int("cooking_minutes", out.CookingMinutes),
		zap.Float64("mixer_hours_added", out.MixerHoursAdded),
		zap.Float64("oven_hours_added", out.OvenHoursAdded),
	)
	return out, nil
}

// run holds the ingredient lock, then the machine lock, and commits in the
// same order.
func (e *Engine) run(ctx context.Context, now time.Time, items []stockdomain.Item, out *stockdomain.Outcome) error {
	recipes, err := e.recipes.List(ctx)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	ingBatch, err := e.ingredients.Begin(ctx)
	if err != nil {
		return fmt.Errorf("lock ingredients: %w", err)
	}
	defer ingBatch.Close()

	machineBatch, err := e.machines.Begin(ctx)
	if err != nil {
		return fmt.Errorf("lock machines: %w", err)
	}
	defer machineBatch.Close()

	ingredients := ingBatch.Items()
	machines := machineBatch.Items()
	apply(now, ingredients, machines, recipes, items, out)

	if err := ingBatch.Commit(ctx, ingredients); err != nil {
		return fmt.Errorf("save ingredients: %w", err)
	}
	for _, c := range out.Consumptions {
		for i := range ingredients {
			if ingredients[i].ID == c.IngredientID {
				e.kitchen.SetIngredientStock(ingredients[i].ID, ingredients[i].Unit, ingredients[i].Stock)
				break
			}
		}
	}

	if err := machineBatch.Commit(ctx, machines); err != nil {
		return fmt.Errorf("save machines: %w", err)
	}
	for i := range machines {
		if machines[i].Type == machinedomain.TypeMixer || machines[i].Type == machinedomain.TypeOven {
			e.kitchen.SetMachineUsage(machines[i].ID, machines[i].Type, machines[i].HoursUsed, machines[i].MaxHours)
		}
	}
	return nil
}
