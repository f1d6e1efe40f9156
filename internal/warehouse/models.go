package warehouse

import (
	"time"

	"github.com/KopiTrack/KT-Backend/internal/produce"
)

// Warehouse is a named storage facility. It is a registry entry only and is
// deliberately not joined to the stock ledger.
type Warehouse struct {
	UUID          string    `gorm:"primaryKey" json:"uuid"`
	WarehouseName string    `gorm:"not null" json:"warehouse_name"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Warehouse) TableName() string { return "warehouses" }

// InventoryEntry is a stock-in record tied to one harvest. Several entries
// may reference the same harvest (partial storage across locations).
// quantity_removed is a running total maintained only through the removal
// ledger; the invariant quantity_removed <= quantity_stored is enforced by a
// conditional update at the storage layer.
type InventoryEntry struct {
	UUID            string    `gorm:"primaryKey" json:"uuid"`
	ProductivityID  string    `gorm:"not null;index" json:"productivity_id"`
	QuantityStored  float64   `gorm:"not null" json:"quantity_stored"`
	StorageLocation string    `json:"storage_location"`
	DateStored      string    `gorm:"not null" json:"date_stored"` // YYYY-MM-DD
	QuantityRemoved float64   `gorm:"not null;default:0" json:"quantity_removed"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Productivity produce.Productivity `gorm:"foreignKey:ProductivityID" json:"productivity,omitempty"`
	Removals     []StockRemoval       `gorm:"foreignKey:InventoryID" json:"removals,omitempty"`
}

func (InventoryEntry) TableName() string { return "warehouse_inventories" }

// AvailableStock is what can still be removed from this entry.
func (e *InventoryEntry) AvailableStock() float64 {
	return e.QuantityStored - e.QuantityRemoved
}

// StockRemoval is one immutable stock-out transaction. Removals are
// append-only so no removal's metadata ever overwrites another's.
type StockRemoval struct {
	UUID        string    `gorm:"primaryKey" json:"uuid"`
	InventoryID string    `gorm:"not null;index" json:"inventory_id"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Reason      string    `gorm:"not null" json:"reason"` // sold|damaged|used|other
	DateRemoved string    `gorm:"not null" json:"date_removed"`
	BuyerInfo   string    `json:"buyer_info,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StockRemoval) TableName() string { return "warehouse_stock_removals" }

var validReasons = map[string]struct{}{
	"sold":    {},
	"damaged": {},
	"used":    {},
	"other":   {},
}

// StockSummary aggregates the ledger across all inventory entries.
type StockSummary struct {
	TotalStored  float64 `json:"total_stored"`
	TotalRemoved float64 `json:"total_removed"`
	CurrentStock float64 `json:"current_stock"`
	TotalRevenue float64 `json:"total_revenue"`
	EntryCount   int     `json:"entry_count"`
}
