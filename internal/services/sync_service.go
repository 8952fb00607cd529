// sync_service.go
//
// An apartment availability sync and alerting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of aptwatch.
// aptwatch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// aptwatch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with aptwatch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"
	"log"
	"time"

	"github.com/localnerve/aptwatch/internal/feed"
	"github.com/localnerve/aptwatch/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// compactDateFormat is the feed's 8-digit availability date representation.
const compactDateFormat = "20060102"

// ReconcileResult reports the outcome of one reconciliation pass.
type ReconcileResult struct {
	// ProcessedUnitIDs holds every object id the feed snapshot mentioned,
	// inline or by reference, in feed order.
	ProcessedUnitIDs []string
	// RemovedUnitIDs holds the object ids deleted because the snapshot no
	// longer mentioned them.
	RemovedUnitIDs []string
}

// ExistingUnitIDs returns the object ids currently stored for a community.
// An empty communityID returns ids across all communities.
func ExistingUnitIDs(db *gorm.DB, communityID string) (map[string]struct{}, error) {
	query := db.Model(&models.Unit{})
	if communityID != "" {
		query = query.Where("community_id = ?", communityID)
	}

	var ids []string
	if err := query.Pluck("object_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list existing units: %w", err)
	}

	existing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// Reconcile applies one full feed snapshot for a community: upserts every
// mentioned entity, maintains group and amenity memberships, and deletes
// units the snapshot no longer mentions. The whole pass runs in a single
// transaction; on error nothing is applied.
func Reconcile(db *gorm.DB, communityID string, groups []feed.Group) (ReconcileResult, error) {
	var result ReconcileResult

	err := db.Transaction(func(tx *gorm.DB) error {
		processed := make(map[string]struct{})

		for _, group := range groups {
			planGroup, err := resolveFloorPlanGroup(tx, group.GroupType)
			if err != nil {
				return err
			}

			for _, record := range group.Units {
				if err := upsertUnit(tx, planGroup, record); err != nil {
					return err
				}
				if _, seen := processed[record.ObjectID]; !seen {
					processed[record.ObjectID] = struct{}{}
					result.ProcessedUnitIDs = append(result.ProcessedUnitIDs, record.ObjectID)
				}
			}

			// Bare id references attach an already-known unit to the group.
			// Ids the store has never seen are ignored.
			for _, objectID := range group.UnitIDs {
				var count int64
				if err := tx.Model(&models.Unit{}).
					Where("object_id = ?", objectID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					continue
				}
				if err := ensureMembership(tx, "unit_group_mappings", "unit_id", objectID, planGroup.GroupID); err != nil {
					return err
				}
				if _, seen := processed[objectID]; !seen {
					processed[objectID] = struct{}{}
					result.ProcessedUnitIDs = append(result.ProcessedUnitIDs, objectID)
				}
			}
		}

		removed, err := removeVanishedUnits(tx, communityID, processed)
		if err != nil {
			return err
		}
		result.RemovedUnitIDs = removed

		return nil
	})

	if err != nil {
		return ReconcileResult{}, fmt.Errorf("reconciliation for community %s failed: %w", communityID, err)
	}

	return result, nil
}

// resolveFloorPlanGroup resolves or creates the group for a feed category label.
func resolveFloorPlanGroup(tx *gorm.DB, groupType string) (*models.FloorPlanGroup, error) {
	var group models.FloorPlanGroup
	if err := tx.Where("group_type = ?", groupType).
		FirstOrCreate(&group, models.FloorPlanGroup{GroupType: groupType}).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve floor plan group %q: %w", groupType, err)
	}
	return &group, nil
}

// upsertUnit applies one inline feed record: resolve-or-create the owning
// community, floor plan and unit, overwrite every mutable unit attribute,
// refresh group, amenity and lease offer state.
func upsertUnit(tx *gorm.DB, group *models.FloorPlanGroup, record feed.Unit) error {
	if err := upsertByKey(tx, &models.Community{},
		map[string]any{"id": record.CommunityIDAEM},
		map[string]any{
			"marketing_name":   record.CommunityMarketingName,
			"property_id":      record.PropertyID.Int(),
			"property_address": record.PropertyAddress,
			"property_zip":     record.PropertyZip,
		}); err != nil {
		return fmt.Errorf("failed to upsert community %s: %w", record.CommunityIDAEM, err)
	}

	if err := upsertByKey(tx, &models.FloorPlan{},
		map[string]any{"floor_plan_unique_id": record.FloorplanUniqueID},
		map[string]any{
			"plan_id":     record.FloorplanID,
			"property_id": record.PropertyID.Int(),
			"name":        record.FloorplanName,
			"crm_id":      record.FloorplanCRMID,
			"path":        record.FloorplanPath,
			"sqft":        record.FloorplanSqFt.Int(),
			"bed":         record.FloorplanBed.Int(),
			"bath":        record.FloorplanBath.Int(),
			"deposit":     record.FloorplanDeposit.Int(),
		}); err != nil {
		return fmt.Errorf("failed to upsert floor plan %s: %w", record.FloorplanUniqueID, err)
	}

	if err := upsertByKey(tx, &models.Unit{},
		map[string]any{"object_id": record.ObjectID},
		map[string]any{
			"unit_id":              record.UnitID,
			"marketing_name":       record.UnitMarketingName,
			"crm_id":               record.UnitCRMID,
			"floor":                record.UnitFloor.Int(),
			"sqft":                 record.UnitSqFt.Int(),
			"type_code":            record.UnitTypeCode,
			"type_name":            record.UnitTypeName,
			"building_number":      record.BuildingNumber,
			"is_studio":            record.UnitIsStudio,
			"has_discount":         record.UnitHasDiscount,
			"featured_amenity":     record.FeaturedAmenity,
			"community_id":         record.CommunityIDAEM,
			"floor_plan_unique_id": record.FloorplanUniqueID,
		}); err != nil {
		return fmt.Errorf("failed to upsert unit %s: %w", record.ObjectID, err)
	}

	if err := ensureMembership(tx, "unit_group_mappings", "unit_id", record.ObjectID, group.GroupID); err != nil {
		return err
	}
	if err := ensureMembership(tx, "floor_plan_group_mappings", "floor_plan_unique_id", record.FloorplanUniqueID, group.GroupID); err != nil {
		return err
	}

	if err := refreshUnitAmenities(tx, record.ObjectID, record.UnitAmenities.Slice()); err != nil {
		return err
	}

	return refreshLeaseOffer(tx, record.ObjectID, record.UnitEarliestAvailable)
}

// upsertByKey resolves or creates one entity by its natural key and
// unconditionally overwrites the given mutable attributes. Map assigns are
// used so zero values (false flags, zero counts) are written through.
func upsertByKey(tx *gorm.DB, model any, key map[string]any, attrs map[string]any) error {
	return tx.Where(key).Assign(attrs).FirstOrCreate(model).Error
}

// ensureMembership adds a (member, group) row to a group join table if the
// membership does not already exist.
func ensureMembership(tx *gorm.DB, table, memberColumn string, memberID any, groupID uint64) error {
	var count int64
	if err := tx.Table(table).
		Where(fmt.Sprintf("group_id = ? AND %s = ?", memberColumn), groupID, memberID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := tx.Exec(
		fmt.Sprintf("INSERT INTO %s (group_id, %s) VALUES (?, ?)", table, memberColumn),
		groupID, memberID,
	).Error; err != nil {
		return fmt.Errorf("failed to add %s %v to group %d: %w", memberColumn, memberID, groupID, err)
	}
	return nil
}

// refreshUnitAmenities replaces a unit's amenity set with the names from the
// feed record, resolving each against the global catalog. An empty list
// leaves the stored associations untouched.
func refreshUnitAmenities(tx *gorm.DB, objectID string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	amenities := make([]models.Amenity, 0, len(names))
	for _, name := range names {
		var amenity models.Amenity
		if err := tx.Where("amenity_name = ?", name).
			FirstOrCreate(&amenity, models.Amenity{AmenityName: name}).Error; err != nil {
			return fmt.Errorf("failed to resolve amenity %q: %w", name, err)
		}
		amenities = append(amenities, amenity)
	}

	unit := models.Unit{ObjectID: objectID}
	if err := tx.Model(&unit).Association("Amenities").Replace(amenities); err != nil {
		return fmt.Errorf("failed to replace amenities for unit %s: %w", objectID, err)
	}
	return nil
}

// refreshLeaseOffer replaces the unit's current offer with one built from the
// feed's earliest-available term. A malformed availability date is logged and
// stored as absent, never raised.
func refreshLeaseOffer(tx *gorm.DB, objectID string, term *feed.LeaseTerm) error {
	if err := tx.Where("unit_object_id = ?", objectID).
		Delete(&models.LeaseOffer{}).Error; err != nil {
		return fmt.Errorf("failed to clear offers for unit %s: %w", objectID, err)
	}

	if term == nil {
		return nil
	}

	offer := models.LeaseOffer{
		UnitObjectID:  objectID,
		Price:         term.Price.Int(),
		Term:          term.Term.Int(),
		DateTimestamp: term.DateTimeStamp,
		AvailableDate: parseCompactDate(term.Date),
	}

	if err := tx.Create(&offer).Error; err != nil {
		return fmt.Errorf("failed to create offer for unit %s: %w", objectID, err)
	}
	return nil
}

// parseCompactDate parses the feed's yyyyMMdd date or returns nil.
func parseCompactDate(raw string) *datatypes.Date {
	parsed, err := time.Parse(compactDateFormat, raw)
	if err != nil {
		log.Printf("Could not parse availability date %q: %v", raw, err)
		return nil
	}
	date := datatypes.Date(parsed)
	return &date
}

// removeVanishedUnits deletes every unit stored for the community that the
// snapshot did not mention, detaching all group and amenity memberships
// first so no join rows are left behind.
func removeVanishedUnits(tx *gorm.DB, communityID string, processed map[string]struct{}) ([]string, error) {
	query := tx.Model(&models.Unit{})
	if communityID != "" {
		query = query.Where("community_id = ?", communityID)
	}

	var storedIDs []string
	if err := query.Order("object_id").Pluck("object_id", &storedIDs).Error; err != nil {
		return nil, err
	}

	var removed []string
	for _, id := range storedIDs {
		if _, ok := processed[id]; !ok {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	log.Printf("Detected %d removed units for community %q", len(removed), communityID)

	if err := tx.Exec("DELETE FROM unit_group_mappings WHERE unit_id IN ?", removed).Error; err != nil {
		return nil, fmt.Errorf("failed to detach removed units from groups: %w", err)
	}
	if err := tx.Exec("DELETE FROM unit_amenity_mappings WHERE unit_id IN ?", removed).Error; err != nil {
		return nil, fmt.Errorf("failed to detach removed units from amenities: %w", err)
	}
	if err := tx.Where("unit_object_id IN ?", removed).Delete(&models.LeaseOffer{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete offers of removed units: %w", err)
	}
	if err := tx.Where("object_id IN ?", removed).Delete(&models.Unit{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete removed units: %w", err)
	}

	return removed, nil
}
