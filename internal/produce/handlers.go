package produce

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/farm"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// computeProductivity derives kg/ha from a harvest amount and farm area.
func computeProductivity(amount, area float64) float64 {
	if area <= 0 {
		return 0
	}
	return amount / area
}

// ListProductivities returns harvest records, optionally filtered by farm.
func ListProductivities(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Preload("Farm").Order("harvest_date DESC")

	if farmID := r.URL.Query().Get("farm_id"); farmID != "" {
		query = query.Where("farm_id = ?", farmID)
	}

	var records []Productivity
	if err := query.Find(&records).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, records)
}

// CreateProductivity records a harvest. The productivity figure is computed
// from the farm's area; a client-supplied value that disagrees is replaced
// and flagged with a warning, not rejected.
func CreateProductivity(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FarmID           string   `json:"farm_id"`
		HarvestDate      string   `json:"harvest_date"`
		ProductionAmount *float64 `json:"production_amount"`
		SellingPrice     *float64 `json:"selling_price"`
		Productivity     *float64 `json:"productivity,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.FarmID == "" || input.HarvestDate == "" || input.ProductionAmount == nil || input.SellingPrice == nil {
		httputil.Fail(w, http.StatusBadRequest, "farm_id, harvest_date, production_amount and selling_price are required")
		return
	}
	if _, err := time.Parse(dateLayout, input.HarvestDate); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "harvest_date must be YYYY-MM-DD")
		return
	}
	if *input.ProductionAmount < 0 || *input.SellingPrice < 0 {
		httputil.Fail(w, http.StatusBadRequest, "production_amount and selling_price must not be negative")
		return
	}

	var f farm.Farm
	if err := db.DB.First(&f, "uuid = ?", input.FarmID).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	computed := computeProductivity(*input.ProductionAmount, f.FarmArea)

	record := Productivity{
		UUID:             uuid.NewString(),
		FarmID:           input.FarmID,
		HarvestDate:      input.HarvestDate,
		ProductionAmount: *input.ProductionAmount,
		SellingPrice:     *input.SellingPrice,
		Productivity:     computed,
	}

	if err := db.DB.Create(&record).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	if input.Productivity != nil && math.Abs(*input.Productivity-computed) > 1e-6 {
		msg := fmt.Sprintf("Supplied productivity %.4f disagrees with computed %.4f; stored the computed value", *input.Productivity, computed)
		httputil.OKWithMessage(w, http.StatusCreated, msg, record)
		return
	}

	httputil.OK(w, http.StatusCreated, record)
}

// UpdateProductivity applies a partial update. A changed production amount
// re-derives the productivity figure from the farm's current area.
func UpdateProductivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var record Productivity
	if err := db.DB.First(&record, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Productivity record not found")
		return
	}

	var updates struct {
		HarvestDate      *string  `json:"harvest_date,omitempty"`
		ProductionAmount *float64 `json:"production_amount,omitempty"`
		SellingPrice     *float64 `json:"selling_price,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateMap := make(map[string]interface{})
	if updates.HarvestDate != nil {
		if _, err := time.Parse(dateLayout, *updates.HarvestDate); err != nil {
			httputil.Fail(w, http.StatusBadRequest, "harvest_date must be YYYY-MM-DD")
			return
		}
		updateMap["harvest_date"] = *updates.HarvestDate
	}
	if updates.SellingPrice != nil {
		if *updates.SellingPrice < 0 {
			httputil.Fail(w, http.StatusBadRequest, "selling_price must not be negative")
			return
		}
		updateMap["selling_price"] = *updates.SellingPrice
	}
	if updates.ProductionAmount != nil {
		if *updates.ProductionAmount < 0 {
			httputil.Fail(w, http.StatusBadRequest, "production_amount must not be negative")
			return
		}
		var f farm.Farm
		if err := db.DB.First(&f, "uuid = ?", record.FarmID).Error; err != nil {
			httputil.Internal(w, err)
			return
		}
		updateMap["production_amount"] = *updates.ProductionAmount
		updateMap["productivity"] = computeProductivity(*updates.ProductionAmount, f.FarmArea)
	}

	if err := db.DB.Model(&record).Updates(updateMap).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, record)
}

// DeleteProductivity removes a harvest record. Dependent warehouse inventory
// entries are not cascaded.
func DeleteProductivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var record Productivity
	if err := db.DB.First(&record, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Productivity record not found")
		return
	}

	if err := db.DB.Delete(&record).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Productivity record deleted", nil)
}

// GetSummary aggregates harvest records, optionally restricted to one
// farmer's farms.
func GetSummary(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&Productivity{})

	if farmerID := r.URL.Query().Get("farmer_id"); farmerID != "" {
		query = query.Joins("JOIN farms ON farms.uuid = productivities.farm_id").
			Where("farms.farmer_id = ?", farmerID)
	}

	var records []Productivity
	if err := query.Find(&records).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	summary := Summary{RecordCount: len(records)}
	for _, rec := range records {
		summary.TotalProduction += rec.ProductionAmount
		summary.TotalRevenue += rec.ProductionAmount * rec.SellingPrice
		summary.AvgProductivity += rec.Productivity
		summary.AvgPrice += rec.SellingPrice
	}
	if len(records) > 0 {
		summary.AvgProductivity /= float64(len(records))
		summary.AvgPrice /= float64(len(records))
	}

	httputil.OK(w, http.StatusOK, summary)
}
