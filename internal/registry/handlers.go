package registry

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// normalizeCode uppercases and trims a district code ("kec001" -> "KEC001").
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ListDistricts returns all districts.
func ListDistricts(w http.ResponseWriter, r *http.Request) {
	var districts []District

	if err := db.DB.Order("district_code ASC").Find(&districts).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, districts)
}

// GetDistrict returns a single district by UUID.
func GetDistrict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var district District
	if err := db.DB.First(&district, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "District not found")
		return
	}

	httputil.OK(w, http.StatusOK, district)
}

// CreateDistrict creates a district (admin only).
func CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var district District
	if err := json.NewDecoder(r.Body).Decode(&district); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if district.DistrictCode == "" || district.DistrictName == "" {
		httputil.Fail(w, http.StatusBadRequest, "district_code and district_name are required")
		return
	}

	district.UUID = uuid.NewString()
	district.DistrictCode = normalizeCode(district.DistrictCode)
	district.DistrictName = titleCaser.String(strings.TrimSpace(district.DistrictName))

	if err := db.DB.Create(&district).Error; err != nil {
		if db.IsUniqueViolation(err) {
			httputil.Fail(w, http.StatusConflict, "District code already exists")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusCreated, district)
}

// UpdateDistrict applies a partial update (admin only).
func UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var district District
	if err := db.DB.First(&district, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "District not found")
		return
	}

	var updates struct {
		DistrictCode *string `json:"district_code,omitempty"`
		DistrictName *string `json:"district_name,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateMap := make(map[string]interface{})
	if updates.DistrictCode != nil {
		code := normalizeCode(*updates.DistrictCode)
		if code == "" {
			httputil.Fail(w, http.StatusBadRequest, "district_code cannot be empty")
			return
		}
		updateMap["district_code"] = code
	}
	if updates.DistrictName != nil {
		name := titleCaser.String(strings.TrimSpace(*updates.DistrictName))
		if name == "" {
			httputil.Fail(w, http.StatusBadRequest, "district_name cannot be empty")
			return
		}
		updateMap["district_name"] = name
	}

	if err := db.DB.Model(&district).Updates(updateMap).Error; err != nil {
		if db.IsUniqueViolation(err) {
			httputil.Fail(w, http.StatusConflict, "District code already exists")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OK(w, http.StatusOK, district)
}

// DeleteDistrict deletes a district (admin only). A district referenced by any
// farm cannot be deleted.
func DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	var district District
	if err := db.DB.First(&district, "uuid = ?", id).Error; err != nil {
		httputil.Fail(w, http.StatusNotFound, "District not found")
		return
	}

	var refs int64
	if err := db.DB.Table("farms").Where("district_id = ?", id).Count(&refs).Error; err != nil {
		httputil.Internal(w, err)
		return
	}
	if refs > 0 {
		httputil.Fail(w, http.StatusConflict, "Cannot delete district: referenced by existing farms")
		return
	}

	if err := db.DB.Delete(&district).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			httputil.Fail(w, http.StatusConflict, "Cannot delete district: referenced by existing farms")
			return
		}
		httputil.Internal(w, err)
		return
	}

	httputil.OKWithMessage(w, http.StatusOK, "District deleted", nil)
}
