package feed

import (
	"github.com/localnerve/aptwatch/internal/types"
)

// Group is one feed batch of listings sharing a category label. A group
// carries inline unit records, bare unit-id references to already-known
// units, or both.
type Group struct {
	GroupType    string                 `json:"groupType"`
	FloorPlanIDs types.FlexList[string] `json:"floorPlanIds"`
	Units        []Unit                 `json:"units"`
	UnitIDs      types.FlexList[string] `json:"unitIds"`
}

// Unit is one inline listing record. Field names follow the upstream feed;
// ObjectID is the stable identity used for reconciliation.
type Unit struct {
	ObjectID               string                 `json:"objectID"`
	BuildingNumber         string                 `json:"buildingNumber"`
	CommunityIDAEM         string                 `json:"communityIDAEM"`
	CommunityMarketingName string                 `json:"communityMarketingName"`
	FeaturedAmenity        string                 `json:"featuredAmenity"`
	FloorplanBath          types.FlexInt          `json:"floorplanBath"`
	FloorplanBed           types.FlexInt          `json:"floorplanBed"`
	FloorplanCRMID         string                 `json:"floorplanCRMID"`
	FloorplanDeposit       types.FlexInt          `json:"floorplanDeposit"`
	FloorplanID            string                 `json:"floorplanID"`
	FloorplanName          string                 `json:"floorplanName"`
	FloorplanPath          string                 `json:"floorplanPath"`
	FloorplanSqFt          types.FlexInt          `json:"floorplanSqFt"`
	FloorplanUniqueID      string                 `json:"floorplanUniqueID"`
	PropertyAddress        string                 `json:"propertyAddress"`
	PropertyID             types.FlexInt          `json:"propertyID"`
	PropertyZip            string                 `json:"propertyZip"`
	UnitAmenities          types.FlexList[string] `json:"unitAmenities"`
	UnitCRMID              string                 `json:"unitCRMID"`
	UnitEarliestAvailable  *LeaseTerm             `json:"unitEarliestAvailable"`
	UnitFloor              types.FlexInt          `json:"unitFloor"`
	UnitHasDiscount        bool                   `json:"unitHasDiscount"`
	UnitID                 string                 `json:"unitID"`
	UnitIsStudio           bool                   `json:"unitIsStudio"`
	UnitLeasePrice         []LeaseTerm            `json:"unitLeasePrice"`
	UnitMarketingName      string                 `json:"unitMarketingName"`
	UnitSqFt               types.FlexInt          `json:"unitSqFt"`
	UnitStartingPrice      *LeaseTerm             `json:"unitStartingPrice"`
	UnitTypeCode           string                 `json:"unitTypeCode"`
	UnitTypeName           string                 `json:"unitTypeName"`
}

// LeaseTerm is one priced lease term. Date is the feed's compact yyyyMMdd
// representation of the availability date.
type LeaseTerm struct {
	Date          string        `json:"date"`
	DateTimeStamp int64         `json:"dateTimeStamp"`
	Price         types.FlexInt `json:"price"`
	Term          types.FlexInt `json:"term"`
}

// Provider retrieves the current listing snapshot for one community.
type Provider interface {
	FetchListings(communityID string, unitsPerFloor int) ([]Group, error)
}
