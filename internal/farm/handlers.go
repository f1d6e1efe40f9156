package farm

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/KopiTrack/KT-Backend/internal/registry"
	"github.com/KopiTrack/KT-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListFarms returns all farms, optionally filtered by farmer.
func ListFarms(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Preload("Farmer").Preload("District").Order("created_at DESC")

	if farmerID := r.URL.Query().Get("farmer_id"); farmerID != "" {
		query = query.Where("farmer_id = ?", farmerID)
	}

	var farms []Farm
	if err := query.Find(&farms).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, farms)
}

// ListPending returns farms awaiting verification, newest first.
func ListPending(w http.ResponseWriter, r *http.Request) {
	var farms []Farm
	if err := db.DB.Preload("Farmer").Preload("District").
		Where("status = ?", StatusPendingVerification).
		Order("created_at DESC").
		Find(&farms).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, farms)
}

// ListVerified returns farms that are VERIFIED and actually carry verified
// geometry. The double condition guards against rendering a malformed row
// that reached VERIFIED without geometry.
func ListVerified(w http.ResponseWriter, r *http.Request) {
	var farms []Farm
	if err := db.DB.Preload("Farmer").Preload("District").
		Where("status = ? AND verified_geometry IS NOT NULL", StatusVerified).
		Order("created_at DESC").
		Find(&farms).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, farms)
}

// GetFarm returns a single farm with farmer and district summaries.
func GetFarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var farm Farm
	if err := db.DB.Preload("Farmer").Preload("District").First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	httputil.OK(w, http.StatusOK, farm)
}

// GetCentroid returns the bounding-box midpoint of the farm's display
// geometry, for map re-centering.
func GetCentroid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	g, err := NormalizeGeoJSON(farm.DisplayGeometry())
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Farm geometry is malformed: "+err.Error())
		return
	}
	lat, lng, err := Centroid(g)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Farm geometry is malformed: "+err.Error())
		return
	}

	httputil.OK(w, http.StatusOK, map[string]float64{"lat": lat, "lng": lng})
}

// CreateFarm registers a new farm for the logged-in farmer. Status always
// starts at PENDING_VERIFICATION regardless of the payload.
func CreateFarm(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Missing user in context")
		return
	}

	var input struct {
		DistrictID       string          `json:"district_id"`
		FarmArea         float64         `json:"farm_area"`
		Elevation        float64         `json:"elevation"`
		PlantingYear     int             `json:"planting_year"`
		InputCoordinates json.RawMessage `json:"input_coordinates"`
		Description      string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.DistrictID == "" {
		httputil.Fail(w, http.StatusBadRequest, "district_id is required")
		return
	}
	if input.FarmArea <= 0 {
		httputil.Fail(w, http.StatusBadRequest, "farm_area must be greater than zero")
		return
	}

	coords, err := geometryText(input.InputCoordinates)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "input_coordinates is required: "+err.Error())
		return
	}
	if err := ValidatePoint(coords); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "input_coordinates must be a GeoJSON Point: "+err.Error())
		return
	}

	var district registry.District
	if err := db.DB.First(&district, "uuid = ?", input.DistrictID).Error; err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Unknown district")
		return
	}

	farm := Farm{
		UUID:             uuid.NewString(),
		FarmerID:         farmerID,
		DistrictID:       input.DistrictID,
		FarmArea:         input.FarmArea,
		Elevation:        input.Elevation,
		PlantingYear:     input.PlantingYear,
		InputCoordinates: coords,
		Status:           StatusPendingVerification,
		Description:      input.Description,
	}

	if err := db.DB.Create(&farm).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			httputil.Fail(w, http.StatusConflict, "Farm references a missing farmer or district")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusCreated, farm)
}

// UpdateFarm applies a partial attribute update. Plain edits never change
// status; a farmer re-submitting after NEEDS_UPDATE or REJECTED must set
// resubmit, which runs through the transition table.
func UpdateFarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	var updates struct {
		DistrictID       *string         `json:"district_id,omitempty"`
		FarmArea         *float64        `json:"farm_area,omitempty"`
		Elevation        *float64        `json:"elevation,omitempty"`
		PlantingYear     *int            `json:"planting_year,omitempty"`
		InputCoordinates json.RawMessage `json:"input_coordinates,omitempty"`
		Description      *string         `json:"description,omitempty"`
		Resubmit         bool            `json:"resubmit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateMap := make(map[string]interface{})
	if updates.DistrictID != nil {
		var district registry.District
		if err := db.DB.First(&district, "uuid = ?", *updates.DistrictID).Error; err != nil {
			httputil.Fail(w, http.StatusBadRequest, "Unknown district")
			return
		}
		updateMap["district_id"] = *updates.DistrictID
	}
	if updates.FarmArea != nil {
		if *updates.FarmArea <= 0 {
			httputil.Fail(w, http.StatusBadRequest, "farm_area must be greater than zero")
			return
		}
		updateMap["farm_area"] = *updates.FarmArea
	}
	if updates.Elevation != nil {
		updateMap["elevation"] = *updates.Elevation
	}
	if updates.PlantingYear != nil {
		updateMap["planting_year"] = *updates.PlantingYear
	}
	if len(updates.InputCoordinates) > 0 {
		coords, err := geometryText(updates.InputCoordinates)
		if err == nil {
			err = ValidatePoint(coords)
		}
		if err != nil {
			httputil.Fail(w, http.StatusBadRequest, "input_coordinates must be a GeoJSON Point: "+err.Error())
			return
		}
		updateMap["input_coordinates"] = coords
	}
	if updates.Description != nil {
		updateMap["description"] = *updates.Description
	}

	if updates.Resubmit {
		next, err := Transition(farm.Status, EventResubmit)
		if err != nil {
			httputil.Fail(w, http.StatusConflict, err.Error())
			return
		}
		updateMap["status"] = next
	}

	if err := db.DB.Model(&farm).Updates(updateMap).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, farm)
}

// VerifyFarm stores admin-captured polygon geometry and moves the farm to
// VERIFIED. The geometry must normalize to a GeoJSON object with type and
// coordinates; a malformed payload leaves the farm untouched.
func VerifyFarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Missing user in context")
		return
	}

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	var input struct {
		Geometry json.RawMessage `json:"geometry"`
		FarmArea *float64        `json:"farm_area,omitempty"`
		Notes    string          `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	geomText, err := geometryText(input.Geometry)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "geometry is required: "+err.Error())
		return
	}
	if _, err := NormalizeGeoJSON(geomText); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid GeoJSON geometry: "+err.Error())
		return
	}
	if input.FarmArea != nil && *input.FarmArea <= 0 {
		httputil.Fail(w, http.StatusBadRequest, "farm_area must be greater than zero")
		return
	}

	next, err := Transition(farm.Status, EventVerify)
	if err != nil {
		httputil.Fail(w, http.StatusConflict, err.Error())
		return
	}

	now := time.Now()
	updateMap := map[string]interface{}{
		"status":            next,
		"verified_geometry": geomText,
		"verified_at":       now,
		"verified_by":       adminID,
	}
	if input.FarmArea != nil {
		updateMap["farm_area"] = *input.FarmArea
	}
	if input.Notes != "" {
		updateMap["description"] = input.Notes
	}

	if err := db.DB.Model(&farm).Updates(updateMap).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Farm verified", farm)
}

// RejectFarm moves the farm to REJECTED and stores the reason.
func RejectFarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Missing user in context")
		return
	}

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Reason == "" {
		httputil.Fail(w, http.StatusBadRequest, "reason is required")
		return
	}

	next, err := Transition(farm.Status, EventReject)
	if err != nil {
		httputil.Fail(w, http.StatusConflict, err.Error())
		return
	}

	now := time.Now()
	if err := db.DB.Model(&farm).Updates(map[string]interface{}{
		"status":      next,
		"verified_at": now,
		"verified_by": adminID,
		"description": input.Reason,
	}).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Farm rejected", farm)
}

// RequestUpdate asks the farmer to revise a submission; the farm moves to
// NEEDS_UPDATE until the farmer edits and resubmits.
func RequestUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	var input struct {
		Reason string `json:"reason,omitempty"`
	}
	// Body is optional for this endpoint.
	_ = json.NewDecoder(r.Body).Decode(&input)

	next, err := Transition(farm.Status, EventRequestUpdate)
	if err != nil {
		httputil.Fail(w, http.StatusConflict, err.Error())
		return
	}

	updateMap := map[string]interface{}{"status": next}
	if input.Reason != "" {
		updateMap["description"] = input.Reason
	}

	if err := db.DB.Model(&farm).Updates(updateMap).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Update requested", farm)
}

// DeleteFarm removes a farm (admin only). Dependent productivity records are
// not cascaded.
func DeleteFarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var farm Farm
	if err := db.DB.First(&farm, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "Farm not found")
		return
	}

	if err := db.DB.Delete(&farm).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			httputil.Fail(w, http.StatusConflict, "Cannot delete farm: referenced by productivity records")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "Farm deleted", nil)
}
