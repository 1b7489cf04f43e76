package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/events"
	obsmetrics "github.com/smallbiznis/pizzaria/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	ledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxFlavors = 2

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Repo      orderdomain.Repository
	Engine    stockdomain.Engine
	Ledger    ledgerdomain.Service `optional:"true"`
	Publisher events.Publisher     `optional:"true"`
	Metrics   *obsmetrics.Metrics  `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	repo      orderdomain.Repository
	engine    stockdomain.Engine
	ledger    ledgerdomain.Service
	publisher events.Publisher
	metrics   *obsmetrics.Metrics
}

func New(p Params) orderdomain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		log:       p.Log.Named("order.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		repo:      p.Repo,
		engine:    p.Engine,
		ledger:    p.Ledger,
		publisher: publisher,
		metrics:   p.Metrics,
	}
}

// Create stores a pending order and then runs the stock engine once. Only
// a failure to store the order fails the call; engine and ledger failures
// are reported through the result and the logs.
func (s *Service) Create(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.CreateResult, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := orderdomain.Order{
		ID:              s.genID.Generate().String(),
		UserID:          strings.TrimSpace(req.UserID),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Total:           req.Total,
		Status:          orderdomain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.repo.Update(ctx, func(items []orderdomain.Order) ([]orderdomain.Order, error) {
		return append(items, order), nil
	})
	if err != nil {
		return nil, err
	}

	log := s.log.With(zap.String("order_id", order.ID))
	log.Info("order created", zap.Int("items", len(order.Items)))
	s.metrics.RecordOrderCreated(ctx, len(order.Items))
	s.publisher.Publish(ctx, events.OrderCreated, order.ID, order)

	outcome, err := s.engine.ApplyOrder(ctx, order.ID, order.StockItems())
	if err != nil {
		log.Error("stock adjustment failed, order kept", zap.Error(err))
	}
	if outcome == nil {
		outcome = &stockdomain.Outcome{
			OrderID:   order.ID,
			Status:    stockdomain.OutcomeFailed,
			AppliedAt: now,
		}
		if err != nil {
			outcome.Error = err.Error()
		}
	}

	if s.ledger != nil {
		if _, err := s.ledger.Record(ctx, outcome); err != nil {
			log.Warn("stock adjustment not recorded", zap.Error(err))
		}
	}
	s.publisher.Publish(ctx, events.StockAdjusted, order.ID, outcome)

	return &orderdomain.CreateResult{Order: order, StockAdjustment: outcome.Status}, nil
}

func (s *Service) List(ctx context.Context) ([]orderdomain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*orderdomain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, orderdomain.ErrInvalidID
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, orderdomain.ErrNotFound
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status orderdomain.Status) (*orderdomain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, orderdomain.ErrInvalidID
	}
	if !status.Valid() {
		return nil, orderdomain.ErrInvalidStatus
	}

	var updated orderdomain.Order
	err := s.repo.Update(ctx, func(items []orderdomain.Order) ([]orderdomain.Order, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = status
				items[i].UpdatedAt = s.clock.Now()
				updated = items[i]
				return items, nil
			}
		}
		return nil, orderdomain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)
	s.metrics.RecordOrderStatusChange(ctx, string(status))
	s.publisher.Publish(ctx, events.OrderStatusChanged, id, updated)
	return &updated, nil
}

func validateCreate(req orderdomain.CreateRequest) error {
	if len(req.Items) == 0 {
		return orderdomain.ErrInvalidItems
	}
	for _, amount := range []float64{req.Subtotal, req.ShippingCost, req.Total} {
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return orderdomain.ErrInvalidAmount
		}
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return orderdomain.ErrInvalidQuantity
		}
		switch item.Type {
		case orderdomain.ItemTypePizza, orderdomain.ItemTypeComplement:
		default:
			return orderdomain.ErrInvalidItemType
		}
		if item.Size != "" && !stockdomain.KnownSize(item.Size) {
			return orderdomain.ErrInvalidSize
		}
		if len(item.Flavors) > maxFlavors {
			return orderdomain.ErrInvalidFlavors
		}
		for _, flavor := range item.Flavors {
			if strings.TrimSpace(flavor) == "" {
				return orderdomain.ErrInvalidFlavors
			}
		}
	}
	return nil
}
