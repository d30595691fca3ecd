package model

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// WSMove is a move request as sent by a client.
type WSMove struct {
	From      chess.Position  `json:"from"`
	To        chess.Position  `json:"to"`
	Promotion chess.PieceType `json:"promotion"`
}

type CastleRookMove struct {
	From chess.Position `json:"from"`
	To   chess.Position `json:"to"`
}

type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	From           chess.Position  `json:"from"`
	To             chess.Position  `json:"to"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      chess.PieceType `json:"promotion"`
	Notation       string          `json:"notation"`
	UCI            string          `json:"uci"`
}

// Move is one row of the history table. WhitePly is nil when the game
// started with black to move.
type Move struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From chess.Position `json:"from"`
	To   chess.Position `json:"to"`
}
