package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/feed"
	"github.com/localnerve/aptwatch/internal/services"
	"github.com/localnerve/aptwatch/internal/types"
	"gorm.io/gorm"
)

// fakeProvider serves canned snapshots per community id
type fakeProvider struct {
	snapshots map[string][]feed.Group
	failFor   map[string]bool
}

func (p *fakeProvider) FetchListings(communityID string, unitsPerFloor int) ([]feed.Group, error) {
	if p.failFor[communityID] {
		return nil, fmt.Errorf("feed unavailable for %s", communityID)
	}
	return p.snapshots[communityID], nil
}

// fakeNotifier records every delivered alert
type fakeNotifier struct {
	sent    []sentAlert
	failAll bool
}

type sentAlert struct {
	userID int64
	text   string
}

func (n *fakeNotifier) Send(userID int64, text string) error {
	if n.failAll {
		return errors.New("delivery refused")
	}
	n.sent = append(n.sent, sentAlert{userID: userID, text: text})
	return nil
}

func newTestChecker(db *gorm.DB, provider *fakeProvider, notifier *fakeNotifier) *services.Checker {
	return &services.Checker{
		DB:       db,
		Provider: provider,
		Notifier: notifier,
		Communities: []config.CommunityConfig{
			{CommunityID: "com-north", Name: "North Court"},
		},
		UnitsPerFloor: 10,
	}
}

// TestCheckAllAlertsMatchingUsers runs the full cycle: sync a baseline, add
// one listing to the snapshot, and verify only the user whose filter matches
// it is alerted.
func TestCheckAllAlertsMatchingUsers(t *testing.T) {
	db := setupTestDB(t)

	provider := &fakeProvider{snapshots: map[string][]feed.Group{
		"com-north": {{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1")}}},
	}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(db, provider, notifier)

	if err := checker.SyncAll(); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	// User 1 wants 2 bedrooms under $3000, user 2 wants a studio
	spec1 := services.FilterSpec{
		Bedrooms: types.NewBound(intPtr(2), nil),
		Price:    types.NewBound(nil, intPtr(3000)),
	}
	if err := services.SaveUserFilters(db, 1, "North Court", spec1); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}
	spec2 := services.FilterSpec{IsStudio: boolPtr(true)}
	if err := services.SaveUserFilters(db, 2, "North Court", spec2); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}

	// A new 2 bedroom shows up
	provider.snapshots["com-north"] = []feed.Group{
		{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1"), feedUnit("obj-2")}},
	}

	if err := checker.CheckAll(); err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(notifier.sent))
	}
	if notifier.sent[0].userID != 1 {
		t.Errorf("Expected alert for user 1, got user %d", notifier.sent[0].userID)
	}
	if notifier.sent[0].text == "" {
		t.Error("Expected a rendered alert body")
	}
}

// TestCheckAllNoAlertsWhenNothingNew verifies an unchanged snapshot alerts
// nobody.
func TestCheckAllNoAlertsWhenNothingNew(t *testing.T) {
	db := setupTestDB(t)

	provider := &fakeProvider{snapshots: map[string][]feed.Group{
		"com-north": {{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1")}}},
	}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(db, provider, notifier)

	if err := checker.SyncAll(); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if err := services.SaveUserFilters(db, 1, "North Court", services.FilterSpec{}); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}

	if err := checker.CheckAll(); err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Expected no alerts, got %d", len(notifier.sent))
	}
}

// TestCheckAllNoAlertsOnRemoval verifies listings disappearing from the
// snapshot never alert.
func TestCheckAllNoAlertsOnRemoval(t *testing.T) {
	db := setupTestDB(t)

	provider := &fakeProvider{snapshots: map[string][]feed.Group{
		"com-north": {{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1"), feedUnit("obj-2")}}},
	}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(db, provider, notifier)

	if err := checker.SyncAll(); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if err := services.SaveUserFilters(db, 1, "North Court", services.FilterSpec{}); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}

	provider.snapshots["com-north"] = []feed.Group{
		{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1")}},
	}

	if err := checker.CheckAll(); err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Expected no alerts for a removal, got %d", len(notifier.sent))
	}

	existing, err := services.ExistingUnitIDs(db, "com-north")
	if err != nil {
		t.Fatalf("ExistingUnitIDs failed: %v", err)
	}
	if len(existing) != 1 {
		t.Errorf("Expected store trimmed to 1 unit, got %d", len(existing))
	}
}

// TestCheckAllBurstSuppression verifies a pass exceeding the burst limit
// still reconciles but suppresses every alert.
func TestCheckAllBurstSuppression(t *testing.T) {
	db := setupTestDB(t)

	provider := &fakeProvider{snapshots: map[string][]feed.Group{"com-north": nil}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(db, provider, notifier)
	checker.BurstLimit = 2

	if err := checker.SyncAll(); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if err := services.SaveUserFilters(db, 1, "North Court", services.FilterSpec{}); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}

	// Three new units in one pass exceeds the limit of two
	provider.snapshots["com-north"] = []feed.Group{
		{GroupType: "2 Bedroom", Units: []feed.Unit{
			feedUnit("obj-1"), feedUnit("obj-2"), feedUnit("obj-3"),
		}},
	}

	if err := checker.CheckAll(); err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Expected alerts suppressed, got %d", len(notifier.sent))
	}

	// The store was still brought current
	existing, err := services.ExistingUnitIDs(db, "com-north")
	if err != nil {
		t.Fatalf("ExistingUnitIDs failed: %v", err)
	}
	if len(existing) != 3 {
		t.Errorf("Expected 3 units reconciled, got %d", len(existing))
	}

	// The next pass with one more unit alerts normally
	provider.snapshots["com-north"] = []feed.Group{
		{GroupType: "2 Bedroom", Units: []feed.Unit{
			feedUnit("obj-1"), feedUnit("obj-2"), feedUnit("obj-3"), feedUnit("obj-4"),
		}},
	}
	if err := checker.CheckAll(); err != nil {
		t.Fatalf("CheckAll failed: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("Expected 1 alert after the burst settled, got %d", len(notifier.sent))
	}
}

// TestCheckAllCommunityFailureIsolation verifies one community's feed
// failure does not block the others.
func TestCheckAllCommunityFailureIsolation(t *testing.T) {
	db := setupTestDB(t)

	south := feedUnit("obj-south")
	south.CommunityIDAEM = "com-south"

	provider := &fakeProvider{
		snapshots: map[string][]feed.Group{
			"com-north": nil,
			"com-south": {{GroupType: "1 Bedroom", Units: []feed.Unit{south}}},
		},
		failFor: map[string]bool{"com-north": true},
	}
	notifier := &fakeNotifier{}
	checker := newTestChecker(db, provider, notifier)
	checker.Communities = []config.CommunityConfig{
		{CommunityID: "com-north", Name: "North Court"},
		{CommunityID: "com-south", Name: "South Ridge"},
	}

	err := checker.CheckAll()
	if err == nil {
		t.Error("Expected the failed community's error to surface")
	}

	// The healthy community was still reconciled
	existing, err := services.ExistingUnitIDs(db, "com-south")
	if err != nil {
		t.Fatalf("ExistingUnitIDs failed: %v", err)
	}
	if len(existing) != 1 {
		t.Errorf("Expected south reconciled despite north failing, got %d units", len(existing))
	}
}

// TestCheckAllDeliveryFailureDoesNotAbort verifies a refused delivery is
// logged and skipped, not raised.
func TestCheckAllDeliveryFailureDoesNotAbort(t *testing.T) {
	db := setupTestDB(t)

	provider := &fakeProvider{snapshots: map[string][]feed.Group{"com-north": nil}}
	notifier := &fakeNotifier{failAll: true}
	checker := newTestChecker(db, provider, notifier)

	if err := checker.SyncAll(); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if err := services.SaveUserFilters(db, 1, "North Court", services.FilterSpec{}); err != nil {
		t.Fatalf("SaveUserFilters failed: %v", err)
	}

	provider.snapshots["com-north"] = []feed.Group{
		{GroupType: "2 Bedroom", Units: []feed.Unit{feedUnit("obj-1")}},
	}

	if err := checker.CheckAll(); err != nil {
		t.Errorf("Expected delivery failure swallowed, got %v", err)
	}
}
