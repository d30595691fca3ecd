package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// PlayerIDKey is the Locals key holding the caller's player ID.
	PlayerIDKey = "playerID"

	playerIDHeader = "X-Player-ID"
	playerIDQuery  = "playerId"
	maxPlayerIDLen = 64
)

// PlayerID returns the ID stored by EnsurePlayerID, or "" when there is none.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}

// EnsurePlayerID resolves the caller from the X-Player-ID header, then the
// playerId query parameter, and rejects requests carrying neither.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := strings.TrimSpace(c.Get(playerIDHeader))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query(playerIDQuery))
		}

		switch {
		case playerID == "":
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		case len(playerID) > maxPlayerIDLen:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player ID is too long",
			})
		}

		// Locals survive the websocket upgrade, so handlers on both sides read it here.
		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}
