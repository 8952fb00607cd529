package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserFilterPreference holds one user's saved search bounds. All bounds are
// optional; a nil field imposes no constraint. Written by the preference
// collection flow, read by the check cycle.
type UserFilterPreference struct {
	UserID            int64  `gorm:"primaryKey;autoIncrement:false"`
	SelectedCommunity string `gorm:"size:255;index"`
	IsStudio          *bool
	MinBedrooms       *int
	MaxBedrooms       *int
	MinBathrooms      *int
	MaxBathrooms      *int
	MinPrice          *int
	MaxPrice          *int
	MinFloor          *int
	MaxFloor          *int
	AvailableFrom     *datatypes.Date
	AvailableUntil    *datatypes.Date
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Required amenities; a matching unit must carry every one of them.
	Amenities []Amenity `gorm:"many2many:preference_amenity_mappings;joinForeignKey:user_id;joinReferences:amenity_id"`
}

// TableName overrides the table name for UserFilterPreference
func (UserFilterPreference) TableName() string {
	return "user_filter_preferences"
}
