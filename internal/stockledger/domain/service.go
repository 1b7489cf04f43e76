package domain

import (
	"context"
	"errors"

	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	"github.com/smallbiznis/pizzaria/pkg/db/pagination"
)

type ListRequest struct {
	pagination.Pagination
	OrderID string
	Status  string
}

type ListResponse struct {
	pagination.PageInfo
	Adjustments []StockAdjustment `json:"adjustments"`
}

type Service interface {
	Record(ctx context.Context, outcome *stockdomain.Outcome) (*StockAdjustment, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidOutcome   = errors.New("invalid_outcome")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrDuplicateEntry   = errors.New("duplicate_entry")
)
