package farm

import (
	"time"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/registry"
)

// Farm is a registered plantation plot owned by one farmer, located in one
// district. Geometry is kept in two forms: the farmer-supplied point from
// registration and the admin-supplied polygon captured in external GIS
// tooling. Both are stored as GeoJSON text.
type Farm struct {
	UUID             string     `gorm:"primaryKey" json:"uuid"`
	FarmerID         string     `gorm:"not null;index" json:"farmer_id"`
	DistrictID       string     `gorm:"not null;index" json:"district_id"`
	FarmArea         float64    `gorm:"not null" json:"farm_area"`
	Elevation        float64    `json:"elevation"`
	PlantingYear     int        `json:"planting_year"`
	InputCoordinates string     `gorm:"type:text;not null" json:"input_coordinates"`
	VerifiedGeometry *string    `gorm:"type:text" json:"verified_geometry,omitempty"`
	Status           Status     `gorm:"not null;default:'PENDING_VERIFICATION';index" json:"status"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	VerifiedBy       *string    `json:"verified_by,omitempty"`
	Description      string     `json:"description,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Farmer   auth.User         `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	District registry.District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

func (Farm) TableName() string { return "farms" }

// DisplayGeometry returns the single authoritative geometry for rendering:
// the verified polygon once the farm is VERIFIED and carries one, otherwise
// the farmer-supplied point. Precedence is encoded here and nowhere else.
func (f *Farm) DisplayGeometry() string {
	if f.Status == StatusVerified && f.VerifiedGeometry != nil && *f.VerifiedGeometry != "" {
		return *f.VerifiedGeometry
	}
	return f.InputCoordinates
}
