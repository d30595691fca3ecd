package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade lets only upgrade requests from identified players reach
// the websocket handlers. Plain HTTP requests get 426.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if PlayerID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "player ID is required")
		}
		return c.Next()
	}
}
