package domain

import "time"

// Ingredient is a stocked item. Stock is kept in the ingredient's own unit.
type Ingredient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Stock       float64   `json:"stock"`
	Unit        string    `json:"unit"`
	MinStock    float64   `json:"minStock"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// LowStock reports whether the ingredient sits at or below its reorder threshold.
func (i Ingredient) LowStock() bool {
	return i.Stock <= i.MinStock
}
