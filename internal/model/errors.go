package model

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrGameFull        = errors.New("game is full")
	ErrNotInGame       = errors.New("player not in game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoPiece         = errors.New("no piece at from square")
	ErrOutOfBounds     = errors.New("invalid move, out of bounds")
	ErrIllegalMove     = errors.New("invalid move, not legal")
	ErrGameOver        = errors.New("game is over")
	ErrAlreadyQueued   = errors.New("player already in queue")
	ErrNotAuthorized   = errors.New("not authorized to join this game")
	ErrEngineNotToMove = errors.New("engine is not to move")
)
