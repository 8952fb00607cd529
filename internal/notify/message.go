package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/aptwatch/internal/models"
)

const prettyDateFormat = "02 Jan 2006"

// RenderUnit formats one unit as a human-readable availability alert. The
// unit must be loaded with its floor plan, amenities and earliest offer.
func RenderUnit(unit *models.Unit) string {
	var b strings.Builder

	b.WriteString("\n")
	fmt.Fprintf(&b, "<b>Apartment %s %s</b>\n", unit.BuildingNumber, unit.MarketingName)

	if unit.IsStudio {
		b.WriteString("Studio\n")
	} else if unit.FloorPlan != nil {
		fmt.Fprintf(&b, "Bedrooms: %d\n", unit.FloorPlan.Bed)
		fmt.Fprintf(&b, "Bathrooms: %d\n", unit.FloorPlan.Bath)
	}

	fmt.Fprintf(&b, "Floor: %d\n", unit.Floor)

	if unit.EarliestOffer != nil {
		fmt.Fprintf(&b, "Price: $%d\n", unit.EarliestOffer.Price)
	}
	if unit.FloorPlan != nil {
		fmt.Fprintf(&b, "Floorplan: %s\n", unit.FloorPlan.Name)
	}

	if len(unit.Amenities) > 0 {
		b.WriteString("Amenities:\n")
		for _, amenity := range unit.Amenities {
			fmt.Fprintf(&b, "   %s\n", amenity.AmenityName)
		}
	}

	if unit.EarliestOffer != nil && unit.EarliestOffer.AvailableDate != nil {
		available := time.Time(*unit.EarliestOffer.AvailableDate)
		fmt.Fprintf(&b, "Available From: %s\n", available.Format(prettyDateFormat))
	}

	return b.String()
}
