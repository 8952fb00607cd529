package services

import (
	"fmt"
	"time"

	"github.com/localnerve/aptwatch/internal/models"
	"github.com/localnerve/aptwatch/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FilterSpec is a user's search criteria as optional bounds. Absent bounds
// impose no constraint; the present ones are conjoined.
type FilterSpec struct {
	IsStudio  *bool
	Bedrooms  types.Bound[int]
	Bathrooms types.Bound[int]
	Price     types.Bound[int]
	Floor     types.Bound[int]
	Available types.DateRange
	// Amenities a matching unit must all carry (superset match).
	Amenities []string
}

// FilterFromPreference converts a stored preference row into a FilterSpec.
func FilterFromPreference(pref *models.UserFilterPreference) FilterSpec {
	spec := FilterSpec{
		IsStudio:  pref.IsStudio,
		Bedrooms:  types.NewBound(pref.MinBedrooms, pref.MaxBedrooms),
		Bathrooms: types.NewBound(pref.MinBathrooms, pref.MaxBathrooms),
		Price:     types.NewBound(pref.MinPrice, pref.MaxPrice),
		Floor:     types.NewBound(pref.MinFloor, pref.MaxFloor),
		Available: types.DateRange{
			From:  dateToTime(pref.AvailableFrom),
			Until: dateToTime(pref.AvailableUntil),
		},
	}

	for _, amenity := range pref.Amenities {
		spec.Amenities = append(spec.Amenities, amenity.AmenityName)
	}

	return spec
}

// FindUnits returns the stored units matching the criteria, deduplicated by
// object id. A non-nil allowIDs restricts matching to those object ids; an
// empty allow-list matches nothing.
func FindUnits(db *gorm.DB, spec FilterSpec, allowIDs []string) ([]models.Unit, error) {
	if allowIDs != nil && len(allowIDs) == 0 {
		return nil, nil
	}

	query := db.Model(&models.Unit{}).
		Joins("LEFT JOIN floor_plans ON floor_plans.floor_plan_unique_id = units.floor_plan_unique_id").
		Joins("LEFT JOIN lease_offers ON lease_offers.unit_object_id = units.object_id")

	if allowIDs != nil {
		query = query.Where("units.object_id IN ?", allowIDs)
	}

	if spec.IsStudio != nil {
		query = query.Where("units.is_studio = ?", *spec.IsStudio)
	}

	query = applyBound(query, "floor_plans.bed", spec.Bedrooms)
	query = applyBound(query, "floor_plans.bath", spec.Bathrooms)
	query = applyBound(query, "lease_offers.price", spec.Price)
	query = applyBound(query, "units.floor", spec.Floor)

	if spec.Available.From != nil {
		query = query.Where("lease_offers.available_date >= ?", *spec.Available.From)
	}
	if spec.Available.Until != nil {
		query = query.Where("lease_offers.available_date <= ?", *spec.Available.Until)
	}

	if len(spec.Amenities) > 0 {
		// Superset match: the unit's matching amenity rows must count up to
		// the full required set, so partial overlap is excluded.
		query = query.
			Joins("JOIN unit_amenity_mappings ON unit_amenity_mappings.unit_id = units.object_id").
			Joins("JOIN unit_amenities ON unit_amenities.amenity_id = unit_amenity_mappings.amenity_id").
			Where("unit_amenities.amenity_name IN ?", spec.Amenities).
			Where(`(SELECT COUNT(*) FROM unit_amenity_mappings m
				JOIN unit_amenities a ON a.amenity_id = m.amenity_id
				WHERE m.unit_id = units.object_id AND a.amenity_name IN ?) = ?`,
				spec.Amenities, len(spec.Amenities))
	}

	var matchedIDs []string
	if err := query.Distinct().Order("units.object_id").
		Pluck("units.object_id", &matchedIDs).Error; err != nil {
		return nil, fmt.Errorf("filter query failed: %w", err)
	}
	if len(matchedIDs) == 0 {
		return nil, nil
	}

	var units []models.Unit
	if err := db.
		Preload("FloorPlan").
		Preload("Amenities").
		Preload("EarliestOffer").
		Where("object_id IN ?", matchedIDs).
		Order("object_id").
		Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load matched units: %w", err)
	}

	return units, nil
}

// FindUnitsForUser evaluates a user's saved filter against the whole store.
func FindUnitsForUser(db *gorm.DB, userID int64) ([]models.Unit, error) {
	pref, err := GetUserFilters(db, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, nil
	}

	return FindUnits(db, FilterFromPreference(pref), nil)
}

// applyBound conjoins the present ends of an optional range onto the query.
func applyBound(query *gorm.DB, column string, bound types.Bound[int]) *gorm.DB {
	if bound.Min != nil {
		query = query.Where(column+" >= ?", *bound.Min)
	}
	if bound.Max != nil {
		query = query.Where(column+" <= ?", *bound.Max)
	}
	return query
}

func dateToTime(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
