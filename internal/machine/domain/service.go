package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Machine, error)
	Update(ctx context.Context, req UpdateRequest) (*Machine, error)
}

// UpdateRequest merges the provided fields into the stored machine. Status is
// always required.
type UpdateRequest struct {
	ID              string   `json:"id"`
	Name            *string  `json:"name"`
	Type            *string  `json:"type"`
	InstallDate     *string  `json:"installDate"`
	LastMaintenance *string  `json:"lastMaintenance"`
	NextMaintenance *string  `json:"nextMaintenance"`
	Status          Status   `json:"status"`
	HoursUsed       *float64 `json:"hoursUsed"`
	MaxHours        *float64 `json:"maxHours"`
	Notes           *string  `json:"notes"`
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidHours  = errors.New("invalid_hours")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrNotFound      = errors.New("not_found")
)
