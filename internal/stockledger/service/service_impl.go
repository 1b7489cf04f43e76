package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/clock"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	ledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"github.com/smallbiznis/pizzaria/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  ledgerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  ledgerdomain.Repository
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("stockledger.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, outcome *stockdomain.Outcome) (*ledgerdomain.StockAdjustment, error) {
	if outcome == nil || strings.TrimSpace(outcome.OrderID) == "" {
		return nil, ledgerdomain.ErrInvalidOutcome
	}

	createdAt := outcome.AppliedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	entry := ledgerdomain.StockAdjustment{
		ID:                 s.genID.Generate(),
		OrderID:            outcome.OrderID,
		Status:             string(outcome.Status),
		PizzasProduced:     outcome.PizzasProduced,
		CookingMinutes:     outcome.CookingMinutes,
		MixerHoursAdded:    outcome.MixerHoursAdded,
		OvenHoursAdded:     outcome.OvenHoursAdded,
		Consumptions:       datatypes.JSONSlice[stockdomain.Consumption](nonNil(outcome.Consumptions)),
		SkippedFlavors:     datatypes.JSONSlice[string](nonNil(outcome.SkippedFlavors)),
		MachineTransitions: datatypes.JSONSlice[stockdomain.MachineTransition](nonNil(outcome.MachineTransitions)),
		Error:              outcome.Error,
		CreatedAt:          createdAt.UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to record stock adjustment",
			zap.String("order_id", outcome.OrderID),
			zap.Error(err),
		)
		return nil, err
	}
	return &entry, nil
}

func (s *Service) List(ctx context.Context, req ledgerdomain.ListRequest) (ledgerdomain.ListResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && status != string(stockdomain.OutcomeApplied) && status != string(stockdomain.OutcomeFailed) {
		return ledgerdomain.ListResponse{}, ledgerdomain.ErrInvalidStatus
	}

	var cursor *ledgerdomain.Cursor
	if token := strings.TrimSpace(req.PageToken); token != "" {
		decoded, err := pagination.DecodeCursor(token)
		if err != nil {
			return ledgerdomain.ListResponse{}, ledgerdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(decoded.ID)
		if err != nil || id == 0 {
			return ledgerdomain.ListResponse{}, ledgerdomain.ErrInvalidPageToken
		}
		cursor = &ledgerdomain.Cursor{ID: id, CreatedAt: decoded.CreatedAt}
	}

	pageSize := req.Size(defaultPageSize, maxPageSize)
	items, err := s.repo.List(ctx, s.db, ledgerdomain.ListFilter{
		OrderID: req.OrderID,
		Status:  status,
		Cursor:  cursor,
		Limit:   pageSize,
	})
	if err != nil {
		return ledgerdomain.ListResponse{}, err
	}

	rows := make([]ledgerdomain.StockAdjustment, 0, len(items))
	for _, item := range items {
		if item != nil {
			rows = append(rows, *item)
		}
	}
	rows, info := pagination.Page(rows, pageSize, func(row ledgerdomain.StockAdjustment) pagination.Cursor {
		return pagination.Cursor{ID: row.ID.String(), CreatedAt: row.CreatedAt}
	})
	return ledgerdomain.ListResponse{Adjustments: rows, PageInfo: info}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
