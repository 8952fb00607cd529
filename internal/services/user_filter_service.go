package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/aptwatch/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SaveUserFilters creates or updates the stored filter preference for a
// user, replacing its required-amenity set.
func SaveUserFilters(db *gorm.DB, userID int64, selectedCommunity string, spec FilterSpec) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := upsertByKey(tx, &models.UserFilterPreference{},
			map[string]any{"user_id": userID},
			map[string]any{
				"selected_community": selectedCommunity,
				"is_studio":          spec.IsStudio,
				"min_bedrooms":       spec.Bedrooms.Min,
				"max_bedrooms":       spec.Bedrooms.Max,
				"min_bathrooms":      spec.Bathrooms.Min,
				"max_bathrooms":      spec.Bathrooms.Max,
				"min_price":          spec.Price.Min,
				"max_price":          spec.Price.Max,
				"min_floor":          spec.Floor.Min,
				"max_floor":          spec.Floor.Max,
				"available_from":     timeToDate(spec.Available.From),
				"available_until":    timeToDate(spec.Available.Until),
			}); err != nil {
			return fmt.Errorf("failed to upsert preference for user %d: %w", userID, err)
		}

		pref := models.UserFilterPreference{UserID: userID}

		if len(spec.Amenities) == 0 {
			if err := tx.Model(&pref).Association("Amenities").Clear(); err != nil {
				return fmt.Errorf("failed to clear preference amenities for user %d: %w", userID, err)
			}
			return nil
		}

		amenities := make([]models.Amenity, 0, len(spec.Amenities))
		for _, name := range spec.Amenities {
			var amenity models.Amenity
			if err := tx.Where("amenity_name = ?", name).
				FirstOrCreate(&amenity, models.Amenity{AmenityName: name}).Error; err != nil {
				return fmt.Errorf("failed to resolve amenity %q: %w", name, err)
			}
			amenities = append(amenities, amenity)
		}

		if err := tx.Model(&pref).Association("Amenities").Replace(amenities); err != nil {
			return fmt.Errorf("failed to replace preference amenities for user %d: %w", userID, err)
		}
		return nil
	})
}

// GetUserFilters returns a user's stored preference with its amenity set,
// or nil when the user has none.
func GetUserFilters(db *gorm.DB, userID int64) (*models.UserFilterPreference, error) {
	var pref models.UserFilterPreference
	err := db.Preload("Amenities").
		Where("user_id = ?", userID).
		First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load preference for user %d: %w", userID, err)
	}
	return &pref, nil
}

// ClearUserFilters deletes a user's preference and its amenity links.
func ClearUserFilters(db *gorm.DB, userID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM preference_amenity_mappings WHERE user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("failed to detach preference amenities for user %d: %w", userID, err)
		}
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.UserFilterPreference{}).Error; err != nil {
			return fmt.Errorf("failed to delete preference for user %d: %w", userID, err)
		}
		return nil
	})
}

// UsersBySelectedCommunity returns every stored preference pointed at the
// given community display name.
func UsersBySelectedCommunity(db *gorm.DB, communityName string) ([]models.UserFilterPreference, error) {
	var prefs []models.UserFilterPreference
	if err := db.Preload("Amenities").
		Where("selected_community = ?", communityName).
		Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to load preferences for community %q: %w", communityName, err)
	}
	return prefs, nil
}

func timeToDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
