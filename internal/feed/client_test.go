package feed_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localnerve/aptwatch/internal/feed"
)

const sampleResponse = `[
  {
    "groupType": "2 Bedroom",
    "floorPlanIds": ["fp-a1"],
    "units": [
      {
        "objectID": "obj-1",
        "communityIDAEM": "com-north",
        "communityMarketingName": "North Court",
        "floorplanUniqueID": "fp-a1",
        "floorplanBed": "2",
        "floorplanBath": 1,
        "unitFloor": 3,
        "unitAmenities": ["Balcony"],
        "unitEarliestAvailable": {
          "date": "20260915",
          "dateTimeStamp": 1789430400000,
          "price": "2150",
          "term": 12
        }
      }
    ],
    "unitIds": ["obj-2"]
  }
]`

func TestFetchListings(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := feed.NewClient(server.URL)
	groups, err := client.FetchListings("com-north", 10)
	if err != nil {
		t.Fatalf("FetchListings failed: %v", err)
	}

	if gotBody["communityId"] != "com-north" {
		t.Errorf("Expected communityId in request, got %v", gotBody["communityId"])
	}
	if gotBody["unitsPerFloor"] != float64(10) {
		t.Errorf("Expected unitsPerFloor 10, got %v", gotBody["unitsPerFloor"])
	}
	if gotBody["env"] != "prod" {
		t.Errorf("Expected env prod, got %v", gotBody["env"])
	}

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	group := groups[0]
	if group.GroupType != "2 Bedroom" {
		t.Errorf("Expected group type '2 Bedroom', got %q", group.GroupType)
	}
	if len(group.Units) != 1 {
		t.Fatalf("Expected 1 inline unit, got %d", len(group.Units))
	}

	unit := group.Units[0]
	if unit.ObjectID != "obj-1" {
		t.Errorf("Expected objectID obj-1, got %q", unit.ObjectID)
	}
	// Quoted and bare numbers both decode
	if unit.FloorplanBed.Int() != 2 || unit.FloorplanBath.Int() != 1 {
		t.Errorf("Expected 2 bed 1 bath, got %d/%d", unit.FloorplanBed.Int(), unit.FloorplanBath.Int())
	}
	if unit.UnitEarliestAvailable == nil || unit.UnitEarliestAvailable.Price.Int() != 2150 {
		t.Errorf("Expected earliest price 2150, got %+v", unit.UnitEarliestAvailable)
	}

	if len(group.UnitIDs) != 1 || group.UnitIDs[0] != "obj-2" {
		t.Errorf("Expected bare reference obj-2, got %v", group.UnitIDs)
	}
}

func TestFetchListingsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := feed.NewClient(server.URL)
	if _, err := client.FetchListings("com-north", 10); err == nil {
		t.Error("Expected an error for a non-200 response")
	}
}

func TestFetchListingsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	client := feed.NewClient(server.URL)
	if _, err := client.FetchListings("com-north", 10); err == nil {
		t.Error("Expected an error for an undecodable body")
	}
}
