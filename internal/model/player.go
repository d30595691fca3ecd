package model

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// EnginePlayerID occupies the engine's seat in games against the computer.
const EnginePlayerID = "engine"

// Player is a matchmaking queue entry.
type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    chess.Color `json:"color"`
	TimeLeft int         `json:"timeLeft"`
	IsEngine bool        `json:"isEngine"`
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
