// telegram.go
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

package notify

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers alerts through the Telegram bot API.
type TelegramNotifier struct {
	Token   string
	APIBase string
	Timeout time.Duration
}

// NewTelegramNotifier returns a TelegramNotifier for the given bot token.
func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		Token:   token,
		APIBase: telegramAPIBase,
		Timeout: 15 * time.Second,
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send implements Notifier by calling the bot sendMessage method.
func (t *TelegramNotifier) Send(userID int64, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.APIBase, t.Token)

	agent := fiber.Post(url)
	agent.Timeout(t.Timeout)
	agent.JSON(sendMessageRequest{
		ChatID:    userID,
		Text:      text,
		ParseMode: "HTML",
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("telegram send to %d failed: %w", userID, errs[0])
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("telegram send to %d returned status %d: %s", userID, code, body)
	}

	return nil
}
