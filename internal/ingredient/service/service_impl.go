package service

import (
	"context"
	"math"
	"strings"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/events"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Repo      ingredientdomain.Repository
	Publisher events.Publisher        `optional:"true"`
	Kitchen   *obsmetrics.KitchenMetrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	repo      ingredientdomain.Repository
	publisher events.Publisher
	kitchen   *obsmetrics.KitchenMetrics
}

func New(p Params) ingredientdomain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		log:       p.Log.Named("ingredient.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		publisher: publisher,
		kitchen:   p.Kitchen,
	}
}

func (s *Service) List(ctx context.Context) ([]ingredientdomain.Response, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]ingredientdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(items[i]))
	}
	return resp, nil
}

// UpdateStock is the admin override; it bypasses the stock engine.
func (s *Service) UpdateStock(ctx context.Context, req ingredientdomain.UpdateStockRequest) (*ingredientdomain.Response, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, ingredientdomain.ErrInvalidID
	}
	if req.Stock == nil || *req.Stock < 0 || math.IsNaN(*req.Stock) || math.IsInf(*req.Stock, 0) {
		return nil, ingredientdomain.ErrInvalidStock
	}

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
		return nil, ingredientdomain.ErrNotFound
	}

	items[idx].Stock = *req.Stock
	items[idx].LastUpdated = s.clock.Now()
	if err := batch.Commit(ctx, items); err != nil {
		return nil, err
	}

	updated := items[idx]
	s.kitchen.SetIngredientStock(updated.ID, updated.Unit, updated.Stock)
	s.log.Info("ingredient stock set",
		zap.String("ingredient_id", updated.ID),
		zap.Float64("stock", updated.Stock),
	)

	resp := toResponse(updated)
	s.publisher.Publish(ctx, events.IngredientUpdated, updated.ID, resp)
	return &resp, nil
}

func toResponse(i ingredientdomain.Ingredient) ingredientdomain.Response {
	return ingredientdomain.Response{
		ID:          i.ID,
		Name:        i.Name,
		Stock:       i.Stock,
		Unit:        i.Unit,
		MinStock:    i.MinStock,
		LowStock:    i.LowStock(),
		LastUpdated: i.LastUpdated,
	}
}
