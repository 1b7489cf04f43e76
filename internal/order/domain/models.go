package domain

import (
	"time"

	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
)

// Valid reports whether s is a known order status. Any known status may
// follow any other.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered:
		return true
	}
	return false
}

const (
	ItemTypePizza      = "pizza"
	ItemTypeComplement = "complement"
)

type Address struct {
	Street  string `json:"street"`
	Region  string `json:"region"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

type Item struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size,omitempty"`
	Flavors  []string `json:"flavors,omitempty"`
}

type Order struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress Address   `json:"customerAddress"`
	Items           []Item    `json:"items"`
	Subtotal        float64   `json:"subtotal"`
	ShippingCost    float64   `json:"shippingCost"`
	Total           float64   `json:"total"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StockItems converts order lines to the engine's input.
func (o Order) StockItems() []stockdomain.Item {
	items := make([]stockdomain.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, stockdomain.Item{
			Type:     it.Type,
			Name:     it.Name,
			Quantity: it.Quantity,
			Size:     it.Size,
			Flavors:  it.Flavors,
		})
	}
	return items
}
