package produce

import (
	"time"

	"github.com/KopiTrack/KT-Backend/internal/farm"
)

// Productivity is one harvest event for a farm. The productivity figure
// (kg/ha) is derived from production_amount and the farm's area at write
// time; it is never taken from the caller.
type Productivity struct {
	UUID             string    `gorm:"primaryKey" json:"uuid"`
	FarmID           string    `gorm:"not null;index" json:"farm_id"`
	HarvestDate      string    `gorm:"not null" json:"harvest_date"` // YYYY-MM-DD
	ProductionAmount float64   `gorm:"not null" json:"production_amount"`
	SellingPrice     float64   `gorm:"not null" json:"selling_price"`
	Productivity     float64   `gorm:"not null" json:"productivity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Farm farm.Farm `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
}

func (Productivity) TableName() string { return "productivities" }

// Summary aggregates a farmer's harvest records.
type Summary struct {
	TotalProduction float64 `json:"total_production"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgProductivity float64 `json:"avg_productivity"`
	AvgPrice        float64 `json:"avg_price"`
	RecordCount     int     `json:"record_count"`
}
