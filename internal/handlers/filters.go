package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/aptwatch/internal/services"
	"github.com/localnerve/aptwatch/internal/types"
	"github.com/localnerve/aptwatch/internal/utils"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// FilterHandler exposes CRUD over a user's saved filter preference.
type FilterHandler struct {
	DB *gorm.DB
}

type filterRequest struct {
	SelectedCommunity string   `json:"selectedCommunity"`
	IsStudio          *bool    `json:"isStudio"`
	MinBedrooms       *int     `json:"minBedrooms"`
	MaxBedrooms       *int     `json:"maxBedrooms"`
	MinBathrooms      *int     `json:"minBathrooms"`
	MaxBathrooms      *int     `json:"maxBathrooms"`
	MinPrice          *int     `json:"minPrice"`
	MaxPrice          *int     `json:"maxPrice"`
	MinFloor          *int     `json:"minFloor"`
	MaxFloor          *int     `json:"maxFloor"`
	AvailableFrom     string   `json:"availableFrom"`
	AvailableUntil    string   `json:"availableUntil"`
	Amenities         []string `json:"amenities"`
}

type filterResponse struct {
	UserID            int64    `json:"userId"`
	SelectedCommunity string   `json:"selectedCommunity"`
	IsStudio          *bool    `json:"isStudio"`
	MinBedrooms       *int     `json:"minBedrooms"`
	MaxBedrooms       *int     `json:"maxBedrooms"`
	MinBathrooms      *int     `json:"minBathrooms"`
	MaxBathrooms      *int     `json:"maxBathrooms"`
	MinPrice          *int     `json:"minPrice"`
	MaxPrice          *int     `json:"maxPrice"`
	MinFloor          *int     `json:"minFloor"`
	MaxFloor          *int     `json:"maxFloor"`
	AvailableFrom     string   `json:"availableFrom,omitempty"`
	AvailableUntil    string   `json:"availableUntil,omitempty"`
	Amenities         []string `json:"amenities"`
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("userId"), 10, 64)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PutFilters handles PUT /api/filters/:userId. Replaces the user's
// filter preference wholesale.
func (h *FilterHandler) PutFilters(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, "invalid user id", fiber.StatusBadRequest, "putFilters")
	}

	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed filter body", fiber.StatusBadRequest, "putFilters")
	}
	if req.SelectedCommunity == "" {
		return utils.ErrorResponse(c, "selectedCommunity is required", fiber.StatusBadRequest, "putFilters")
	}

	from, err := parseOptionalDate(req.AvailableFrom)
	if err != nil {
		return utils.ErrorResponse(c, "availableFrom must be "+dateLayout, fiber.StatusBadRequest, "putFilters")
	}
	until, err := parseOptionalDate(req.AvailableUntil)
	if err != nil {
		return utils.ErrorResponse(c, "availableUntil must be "+dateLayout, fiber.StatusBadRequest, "putFilters")
	}

	spec := services.FilterSpec{
		IsStudio:  req.IsStudio,
		Bedrooms:  types.NewBound(req.MinBedrooms, req.MaxBedrooms),
		Bathrooms: types.NewBound(req.MinBathrooms, req.MaxBathrooms),
		Price:     types.NewBound(req.MinPrice, req.MaxPrice),
		Floor:     types.NewBound(req.MinFloor, req.MaxFloor),
		Available: types.DateRange{From: from, Until: until},
		Amenities: req.Amenities,
	}

	if err := services.SaveUserFilters(h.DB, userID, req.SelectedCommunity, spec); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "putFilters")
	}
	return utils.MutationSuccessResponse(c)
}

// GetFilters handles GET /api/filters/:userId.
func (h *FilterHandler) GetFilters(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, "invalid user id", fiber.StatusBadRequest, "getFilters")
	}

	pref, err := services.GetUserFilters(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getFilters")
	}
	if pref == nil {
		return utils.NotFoundResponse(c, "no filter preference for user")
	}

	resp := filterResponse{
		UserID:            pref.UserID,
		SelectedCommunity: pref.SelectedCommunity,
		IsStudio:          pref.IsStudio,
		MinBedrooms:       pref.MinBedrooms,
		MaxBedrooms:       pref.MaxBedrooms,
		MinBathrooms:      pref.MinBathrooms,
		MaxBathrooms:      pref.MaxBathrooms,
		MinPrice:          pref.MinPrice,
		MaxPrice:          pref.MaxPrice,
		MinFloor:          pref.MinFloor,
		MaxFloor:          pref.MaxFloor,
		Amenities:         make([]string, 0, len(pref.Amenities)),
	}
	if pref.AvailableFrom != nil {
		resp.AvailableFrom = time.Time(*pref.AvailableFrom).Format(dateLayout)
	}
	if pref.AvailableUntil != nil {
		resp.AvailableUntil = time.Time(*pref.AvailableUntil).Format(dateLayout)
	}
	for _, a := range pref.Amenities {
		resp.Amenities = append(resp.Amenities, a.AmenityName)
	}

	return utils.SuccessResponse(c, resp, fiber.StatusOK)
}

// DeleteFilters handles DELETE /api/filters/:userId.
func (h *FilterHandler) DeleteFilters(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, "invalid user id", fiber.StatusBadRequest, "deleteFilters")
	}
	if err := services.ClearUserFilters(h.DB, userID); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteFilters")
	}
	return utils.MutationSuccessResponse(c)
}
