// checker_service.go
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
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/feed"
	"github.com/localnerve/aptwatch/internal/notify"
	"gorm.io/gorm"
)

// Checker runs the scheduled check cycle: fetch each community's feed
// snapshot, reconcile it, diff out the never-before-seen units, and alert
// every subscribed user whose filter matches one of them.
type Checker struct {
	DB            *gorm.DB
	Provider      feed.Provider
	Notifier      notify.Notifier
	Communities   []config.CommunityConfig
	UnitsPerFloor int

	// BurstLimit suppresses alerts for a community when a single pass turns
	// up more new listings than this, treating the burst as a feed anomaly.
	// 0 disables the guard.
	BurstLimit int

	// Cycles never overlap; a tick that fires while the previous cycle is
	// still running is skipped.
	mu sync.Mutex
}

// SyncAll runs one full reconciliation pass over every configured
// community without alerting. Used at startup and from the manual trigger.
func (c *Checker) SyncAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Printf("Starting apartment data synchronization")

	var errs []error
	for _, community := range c.Communities {
		if err := c.syncCommunity(community); err != nil {
			log.Printf("Sync failed for community %s: %v", community.Name, err)
			errs = append(errs, err)
			continue
		}
		log.Printf("Synchronized apartment data for community %s", community.Name)
	}

	return errors.Join(errs...)
}

// CheckAll runs one new-listing check cycle over every configured
// community. A cycle still in flight causes the new one to be skipped.
func (c *Checker) CheckAll() error {
	if !c.mu.TryLock() {
		log.Printf("Previous check cycle still running, skipping this tick")
		return nil
	}
	defer c.mu.Unlock()

	runID := uuid.New().String()
	log.Printf("[%s] Checking for new apartments", runID)

	var errs []error
	for _, community := range c.Communities {
		if err := c.checkCommunity(runID, community); err != nil {
			log.Printf("[%s] Check failed for community %s: %v", runID, community.Name, err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// syncCommunity fetches and reconciles one community's snapshot.
func (c *Checker) syncCommunity(community config.CommunityConfig) error {
	groups, err := c.Provider.FetchListings(community.CommunityID, c.UnitsPerFloor)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	_, err = Reconcile(c.DB, community.CommunityID, groups)
	return err
}

// checkCommunity runs one FETCH, RECONCILE, DIFF, MATCH, NOTIFY pass for a
// single community. A failure abandons only this community's tick.
func (c *Checker) checkCommunity(runID string, community config.CommunityConfig) error {
	existing, err := ExistingUnitIDs(c.DB, community.CommunityID)
	if err != nil {
		return err
	}
	log.Printf("[%s] Found %d existing units for community %s", runID, len(existing), community.Name)

	groups, err := c.Provider.FetchListings(community.CommunityID, c.UnitsPerFloor)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	result, err := Reconcile(c.DB, community.CommunityID, groups)
	if err != nil {
		return err
	}

	// New listings are the snapshot's ids the store had never seen before
	// this pass began.
	var newIDs []string
	for _, id := range result.ProcessedUnitIDs {
		if _, known := existing[id]; !known {
			newIDs = append(newIDs, id)
		}
	}
	if len(newIDs) == 0 {
		return nil
	}
	log.Printf("[%s] Found %d new units for community %s", runID, len(newIDs), community.Name)

	if c.BurstLimit > 0 && len(newIDs) > c.BurstLimit {
		log.Printf("[%s] %d new units for community %s exceeds burst limit %d, suppressing alerts",
			runID, len(newIDs), community.Name, c.BurstLimit)
		return nil
	}

	prefs, err := UsersBySelectedCommunity(c.DB, community.Name)
	if err != nil {
		return err
	}

	for i := range prefs {
		pref := &prefs[i]

		matched, err := FindUnits(c.DB, FilterFromPreference(pref), newIDs)
		if err != nil {
			log.Printf("[%s] Filter evaluation failed for user %d: %v", runID, pref.UserID, err)
			continue
		}

		for j := range matched {
			text := notify.RenderUnit(&matched[j])
			if err := c.Notifier.Send(pref.UserID, text); err != nil {
				// Delivery is a side effect of committed state; a failed
				// send never blocks other users or units.
				log.Printf("[%s] Failed to alert user %d about unit %s: %v",
					runID, pref.UserID, matched[j].ObjectID, err)
			}
		}
	}

	return nil
}
