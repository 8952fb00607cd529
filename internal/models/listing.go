package models

import (
	"time"

	"gorm.io/datatypes"
)

// Community is an apartment community as identified by the feed.
type Community struct {
	ID              string `gorm:"primaryKey;size:64"`
	MarketingName   string `gorm:"size:255"`
	PropertyID      int
	PropertyAddress string `gorm:"size:255"`
	PropertyZip     string `gorm:"size:32"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Units           []Unit `gorm:"foreignKey:CommunityID"`
}

// FloorPlan is a feed floor plan, keyed by the feed's unique plan id.
type FloorPlan struct {
	UniqueID   string `gorm:"primaryKey;size:64;column:floor_plan_unique_id"`
	PlanID     string `gorm:"size:64"`
	PropertyID int
	Name       string `gorm:"size:255"`
	CrmID      string `gorm:"size:64"`
	Path       string `gorm:"size:255"`
	Sqft       int
	Bed        int
	Bath       int
	Deposit    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Units      []Unit           `gorm:"foreignKey:FloorPlanUniqueID"`
	Groups     []FloorPlanGroup `gorm:"many2many:floor_plan_group_mappings;joinForeignKey:floor_plan_unique_id;joinReferences:group_id"`
}

// FloorPlanGroup is a feed grouping label ("studio", "2BR", ...) with
// many-to-many membership of both units and floor plans.
type FloorPlanGroup struct {
	GroupID    uint64 `gorm:"primaryKey;autoIncrement"`
	GroupType  string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FloorPlans []FloorPlan `gorm:"many2many:floor_plan_group_mappings;joinForeignKey:group_id;joinReferences:floor_plan_unique_id"`
	Units      []Unit      `gorm:"many2many:unit_group_mappings;joinForeignKey:group_id;joinReferences:unit_id"`
}

// Unit is a rentable apartment unit. The feed object id is the identity
// that survives across syncs; every other attribute is replaced wholesale
// on each pass.
type Unit struct {
	ObjectID        string `gorm:"primaryKey;size:64"`
	UnitID          string `gorm:"size:64"`
	MarketingName   string `gorm:"size:255"`
	CrmID           string `gorm:"size:64"`
	Floor           int
	Sqft            int
	TypeCode        string `gorm:"size:64"`
	TypeName        string `gorm:"size:255"`
	BuildingNumber  string `gorm:"size:32"`
	IsStudio        bool
	HasDiscount     bool
	FeaturedAmenity string `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	CommunityID string     `gorm:"size:64;index"`
	Community   *Community `gorm:"foreignKey:CommunityID"`

	FloorPlanUniqueID *string    `gorm:"size:64;index"`
	FloorPlan         *FloorPlan `gorm:"foreignKey:FloorPlanUniqueID"`

	Amenities []Amenity        `gorm:"many2many:unit_amenity_mappings;joinForeignKey:unit_id;joinReferences:amenity_id"`
	Groups    []FloorPlanGroup `gorm:"many2many:unit_group_mappings;joinForeignKey:unit_id;joinReferences:group_id"`

	// The single current "earliest available" lease term for the unit.
	EarliestOffer *LeaseOffer `gorm:"foreignKey:UnitObjectID"`
}

// LeaseOffer is the earliest-available lease term for one unit, replaced
// wholesale on every sync. AvailableDate is nil when the feed's compact
// date string did not parse.
type LeaseOffer struct {
	OfferID       uint64 `gorm:"primaryKey;autoIncrement"`
	UnitObjectID  string `gorm:"size:64;index;not null"`
	Price         int
	Term          int
	DateTimestamp int64
	AvailableDate *datatypes.Date
	CreatedAt     time.Time
}

// Amenity is a globally deduplicated amenity name shared by units and
// user filter preferences.
type Amenity struct {
	AmenityID   uint64 `gorm:"primaryKey;autoIncrement"`
	AmenityName string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt   time.Time
}

// TableName overrides the table name for Community
func (Community) TableName() string {
	return "communities"
}

// TableName overrides the table name for FloorPlan
func (FloorPlan) TableName() string {
	return "floor_plans"
}

// TableName overrides the table name for FloorPlanGroup
func (FloorPlanGroup) TableName() string {
	return "floor_plan_groups"
}

// TableName overrides the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// TableName overrides the table name for LeaseOffer
func (LeaseOffer) TableName() string {
	return "lease_offers"
}

// TableName overrides the table name for Amenity
func (Amenity) TableName() string {
	return "unit_amenities"
}
