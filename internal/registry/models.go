package registry

import "time"

// District is an administrative region grouping farms.
type District struct {
	UUID         string    `gorm:"primaryKey" json:"uuid"`
	DistrictCode string    `gorm:"uniqueIndex;not null" json:"district_code"`
	DistrictName string    `gorm:"not null" json:"district_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (District) TableName() string { return "districts" }
