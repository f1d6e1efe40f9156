package warehouse

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/KopiTrack/KT-Backend/internal/produce"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var errStockExceeded = errors.New("removal quantity exceeds available stock")

// --- Facility registry ---

func ListWarehouses(w http.ResponseWriter, r *http.Request) {
	var warehouses []Warehouse
	if err := db.DB.Order("warehouse_name ASC").Find(&warehouses).Error; err != nil {
		httputil.Internal(w, err)
		return
	}
	httputil.OK(w, http.StatusOK, warehouses)
}

func CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var wh Warehouse
	if err := json.NewDecoder(r.Body).Decode(&wh); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if wh.WarehouseName == "" {
		httputil.Fail(w, http.StatusBadRequest, "warehouse_name is required")
		return
	}

	wh.UUID = uuid.NewString()
	if err := db.DB.Create(&wh).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusCreated, wh)
}

func UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var wh Warehouse
	if err := db.DB.First(&wh, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Warehouse not found")
		return
	}

	var updates struct {
		WarehouseName *string `json:"warehouse_name,omitempty"`
		Location      *string `json:"location,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateMap := make(map[string]interface{})
	if updates.WarehouseName != nil {
		updateMap["warehouse_name"] = *updates.WarehouseName
	}
	if updates.Location != nil {
		updateMap["location"] = *updates.Location
	}

	if err := db.DB.Model(&wh).Updates(updateMap).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, wh)
}

func DeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var wh Warehouse
	if err := db.DB.First(&wh, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Warehouse not found")
		return
	}

	if err := db.DB.Delete(&wh).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Warehouse deleted", nil)
}

// --- Stock ledger ---

// ListInventories returns stock-in entries, optionally filtered by harvest.
func ListInventories(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Preload("Productivity").Order("date_stored DESC")

	if productivityID := r.URL.Query().Get("productivity_id"); productivityID != "" {
		query = query.Where("productivity_id = ?", productivityID)
	}

	var entries []InventoryEntry
	if err := query.Find(&entries).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, entries)
}

// GetInventory returns one entry with its removal ledger.
func GetInventory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var entry InventoryEntry
	if err := db.DB.Preload("Productivity").Preload("Removals").First(&entry, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Inventory entry not found")
		return
	}

	httputil.OK(w, http.StatusOK, entry)
}

// StoreInventory creates a stock-in entry tied to one harvest record.
func StoreInventory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductivityID  string   `json:"productivity_id"`
		QuantityStored  *float64 `json:"quantity_stored"`
		StorageLocation string   `json:"storage_location"`
		DateStored      string   `json:"date_stored"`
		Notes           string   `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.ProductivityID == "" || input.QuantityStored == nil || input.DateStored == "" {
		httputil.Fail(w, http.StatusBadRequest, "productivity_id, quantity_stored and date_stored are required")
		return
	}
	if *input.QuantityStored <= 0 {
		httputil.Fail(w, http.StatusBadRequest, "quantity_stored must be greater than zero")
		return
	}
	if _, err := time.Parse(dateLayout, input.DateStored); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "date_stored must be YYYY-MM-DD")
		return
	}

	var harvest produce.Productivity
	if err := db.DB.First(&harvest, "uuid = ?", input.ProductivityID).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Productivity record not found")
		return
	}

	entry := InventoryEntry{
		UUID:            uuid.NewString(),
		ProductivityID:  input.ProductivityID,
		QuantityStored:  *input.QuantityStored,
		StorageLocation: input.StorageLocation,
		DateStored:      input.DateStored,
		Notes:           input.Notes,
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusCreated, entry)
}

// RemoveStock appends a removal transaction to an entry's ledger. The
// availability invariant is enforced by a conditional update inside the
// transaction, so two concurrent removals cannot both slip past the check.
func RemoveStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var input struct {
		Quantity    *float64 `json:"quantity"`
		Reason      string   `json:"reason"`
		DateRemoved string   `json:"date_removed"`
		BuyerInfo   string   `json:"buyer_info,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.Quantity == nil || input.Reason == "" || input.DateRemoved == "" {
		httputil.Fail(w, http.StatusBadRequest, "quantity, reason and date_removed are required")
		return
	}
	if *input.Quantity <= 0 {
		httputil.Fail(w, http.StatusBadRequest, "quantity must be greater than zero")
		return
	}
	if _, ok := validReasons[input.Reason]; !ok {
		httputil.Fail(w, http.StatusBadRequest, "reason must be one of: sold, damaged, used, other")
		return
	}
	if _, err := time.Parse(dateLayout, input.DateRemoved); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "date_removed must be YYYY-MM-DD")
		return
	}

	var entry InventoryEntry
	if err := db.DB.First(&entry, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Inventory entry not found")
		return
	}

	removal := StockRemoval{
		UUID:        uuid.NewString(),
		InventoryID: entry.UUID,
		Quantity:    *input.Quantity,
		Reason:      input.Reason,
		DateRemoved: input.DateRemoved,
		BuyerInfo:   input.BuyerInfo,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional update: only succeeds while the new total stays within
		// the stored quantity.
		res := tx.Model(&InventoryEntry{}).
			Where("uuid = ? AND quantity_removed + ? <= quantity_stored", entry.UUID, removal.Quantity).
			Update("quantity_removed", gorm.Expr("quantity_removed + ?", removal.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStockExceeded
		}
		return tx.Create(&removal).Error
	})
	if err != nil {
		if errors.Is(err, errStockExceeded) {
			httputil.Fail(w, http.StatusConflict, "Removal quantity exceeds available stock")
			return
		}
		httputil.Internal(w, err)
		return
	}

	if err := db.DB.Preload("Removals").First(&entry, "uuid = ?", entry.UUID).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, entry)
}

// ListRemovals returns an entry's removal ledger, oldest first.
func ListRemovals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var entry InventoryEntry
	if err := db.DB.First(&entry, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Inventory entry not found")
		return
	}

	var removals []StockRemoval
	if err := db.DB.Where("inventory_id = ?", id).Order("created_at ASC").Find(&removals).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, removals)
}

// GetStockSummary folds the ledger into current stock and realized revenue.
func GetStockSummary(w http.ResponseWriter, r *http.Request) {
	var entries []InventoryEntry
	if err := db.DB.Preload("Productivity").Find(&entries).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	summary := StockSummary{EntryCount: len(entries)}
	for _, e := range entries {
		summary.TotalStored += e.QuantityStored
		summary.TotalRemoved += e.QuantityRemoved
		summary.TotalRevenue += e.QuantityRemoved * e.Productivity.SellingPrice
	}
	summary.CurrentStock = summary.TotalStored - summary.TotalRemoved

	httputil.OK(w, http.StatusOK, summary)
}
