package domain

import (
	"context"
	"errors"
)

type Service interface {
	ListPizzas(ctx context.Context) ([]Pizza, error)
	CreatePizza(ctx context.Context, req PizzaRequest) (*Pizza, error)
	ReplacePizza(ctx context.Context, id string, req PizzaRequest) (*Pizza, error)
	DeletePizza(ctx context.Context, id string) error

	ListComplements(ctx context.Context) ([]Complement, error)
	CreateComplement(ctx context.Context, req ComplementRequest) (*Complement, error)
	ReplaceComplement(ctx context.Context, id string, req ComplementRequest) (*Complement, error)
	DeleteComplement(ctx context.Context, id string) error
}

type PizzaRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Prices      Prices   `json:"prices"`
	Image       string   `json:"image"`
	Available   *bool    `json:"available"`
}

type ComplementRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Available *bool   `json:"available"`
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("not_found")
)
