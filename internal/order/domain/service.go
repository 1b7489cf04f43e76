package domain

import (
	"context"
	"errors"

	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}

type CreateRequest struct {
	UserID          string  `json:"userId"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerAddress Address `json:"customerAddress"`
	Items           []Item  `json:"items"`
	Subtotal        float64 `json:"subtotal"`
	ShippingCost    float64 `json:"shippingCost"`
	Total           float64 `json:"total"`
}

// CreateResult pairs the stored order with how the kitchen took it. The
// order exists even when StockAdjustment is failed.
type CreateResult struct {
	Order           Order                     `json:"order"`
	StockAdjustment stockdomain.OutcomeStatus `json:"stockAdjustment"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidItemType = errors.New("invalid_item_type")
	ErrInvalidSize     = errors.New("invalid_size")
	ErrInvalidFlavors  = errors.New("invalid_flavors")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrNotFound        = errors.New("not_found")
)
