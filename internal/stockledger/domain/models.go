package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	"gorm.io/datatypes"
)

// StockAdjustment is one recorded engine run.
type StockAdjustment struct {
	ID                 snowflake.ID                                       `gorm:"primaryKey" json:"id"`
	OrderID            string                                             `gorm:"not null;index" json:"orderId"`
	Status             string                                             `gorm:"not null;index" json:"status"`
	PizzasProduced     int                                                `gorm:"not null;default:0" json:"pizzasProduced"`
	CookingMinutes     int                                                `gorm:"not null;default:0" json:"cookingMinutes"`
	MixerHoursAdded    float64                                            `gorm:"not null;default:0" json:"mixerHoursAdded"`
	OvenHoursAdded     float64                                            `gorm:"not null;default:0" json:"ovenHoursAdded"`
	Consumptions       datatypes.JSONSlice[stockdomain.Consumption]       `json:"consumptions"`
	SkippedFlavors     datatypes.JSONSlice[string]                        `json:"skippedFlavors"`
	MachineTransitions datatypes.JSONSlice[stockdomain.MachineTransition] `json:"machineTransitions"`
	Error              string                                             `json:"error,omitempty"`
	CreatedAt          time.Time                                          `gorm:"not null;index" json:"createdAt"`
}

func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

type Cursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	OrderID string
	Status  string
	Cursor  *Cursor
	Limit   int
}
