package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	UpdateStock(ctx context.Context, req UpdateStockRequest) (*Response, error)
}

type UpdateStockRequest struct {
	ID    string   `json:"id"`
	Stock *float64 `json:"stock"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Stock       float64   `json:"stock"`
	Unit        string    `json:"unit"`
	MinStock    float64   `json:"minStock"`
	LowStock    bool      `json:"lowStock"`
	LastUpdated time.Time `json:"lastUpdated"`
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrNotFound     = errors.New("not_found")
)
