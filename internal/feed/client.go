// client.go
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

package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/aptwatch/internal/types"
)

// searchRequest is the listing search body the upstream endpoint expects.
type searchRequest struct {
	CommunityID   string `json:"communityId"`
	UnitsPerFloor int    `json:"unitsPerFloor"`
	Env           string `json:"env"`
}

// Client fetches listing snapshots from the upstream search endpoint.
type Client struct {
	URL     string
	Timeout time.Duration
}

// NewClient returns a Client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		URL:     url,
		Timeout: 30 * time.Second,
	}
}

// FetchListings implements Provider by posting a search request for one
// community and decoding the grouped listing response.
func (c *Client) FetchListings(communityID string, unitsPerFloor int) ([]Group, error) {
	agent := fiber.Post(c.URL)
	agent.Timeout(c.Timeout)
	agent.JSON(searchRequest{
		CommunityID:   communityID,
		UnitsPerFloor: unitsPerFloor,
		Env:           "prod",
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("feed request for community %s failed: %w", communityID, errs[0])
	}
	if code != fiber.StatusOK {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadGateway,
			Message: fmt.Sprintf("feed request for community %s returned status %d", communityID, code),
			Type:    "feed",
		}
	}

	var groups []Group
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode feed response for community %s: %w", communityID, err)
	}

	return groups, nil
}
