// sync.go
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

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/services"
	"github.com/localnerve/aptwatch/internal/utils"
	"gorm.io/gorm"
)

// SyncHandler exposes the operational trigger surface: force a full sync,
// force a new-listing check, inspect a user's current matches.
type SyncHandler struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Checker *services.Checker
}

// ForceSync handles POST /api/sync. Runs a full reconciliation pass over
// every configured community, blocking until it completes.
func (h *SyncHandler) ForceSync(c *fiber.Ctx) error {
	if err := h.Checker.SyncAll(); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "forceSync")
	}
	return utils.MutationSuccessResponse(c)
}

// ForceCheck handles POST /api/check. Runs one new-listing check cycle
// outside the schedule.
func (h *SyncHandler) ForceCheck(c *fiber.Ctx) error {
	if err := h.Checker.CheckAll(); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "forceCheck")
	}
	return utils.MutationSuccessResponse(c)
}

// GetUserUnits handles GET /api/units/:userId. Returns the stored units
// matching the user's saved filter.
func (h *SyncHandler) GetUserUnits(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "invalid user id", fiber.StatusBadRequest, "getUserUnits")
	}

	pref, err := services.GetUserFilters(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getUserUnits")
	}
	if pref == nil {
		return utils.NotFoundResponse(c, "no filter preference for user")
	}

	units, err := services.FindUnits(h.DB, services.FilterFromPreference(pref), nil)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getUserUnits")
	}

	return c.Status(fiber.StatusOK).JSON(units)
}

// GetHealth handles GET /api/health.
func (h *SyncHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
