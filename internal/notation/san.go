// Package notation renders moves for display. Nothing here takes part in
// legality checks or search.
package notation

import (
	"strings"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
)

// MoveInfo is what the history display needs to know about a played move.
type MoveInfo struct {
	From       chess.Position  `json:"from"`
	To         chess.Position  `json:"to"`
	Piece      chess.Piece     `json:"piece"`
	Captured   chess.Piece     `json:"captured"`
	Capture    bool            `json:"capture"`
	Check      bool            `json:"check"`
	Checkmate  bool            `json:"checkmate"`
	CastleSide string          `json:"castleSide,omitempty"`
	Promotion  chess.PieceType `json:"promotion,omitempty"`
}

// Describe collects display facts for move, which must be legal in the
// position given by board and state. board and state are left unchanged.
func Describe(board *chess.Board, state *chess.GameState, move chess.Move) MoveInfo {
	piece := board.At(move.From)
	info := MoveInfo{
		From:       move.From,
		To:         move.To,
		Piece:      piece,
		CastleSide: move.CastleSide(),
	}
	record := rules.Make(board, move, state)
	if board.At(move.To).Type != piece.Type {
		info.Promotion = board.At(move.To).Type
	}
	info.Captured = record.Captured
	info.Capture = !record.Captured.IsEmpty()
	opponent := piece.Color.Opponent()
	info.Check = rules.IsInCheck(board, opponent)
	if info.Check {
		info.Checkmate = len(rules.GenerateLegalMoves(board, state, opponent)) == 0
	}
	rules.Undo(board, record, state)
	return info
}

// SAN writes info in standard algebraic notation. board is the position
// before the move and is only used for disambiguation.
func SAN(board *chess.Board, info MoveInfo) string {
	var sb strings.Builder
	switch info.CastleSide {
	case "kingside":
		sb.WriteString("O-O")
	case "queenside":
		sb.WriteString("O-O-O")
	default:
		if info.Piece.Type == chess.Pawn {
			if info.Capture {
				sb.WriteString(info.From.File())
				sb.WriteString("x")
			}
			sb.WriteString(info.To.String())
		} else {
			sb.WriteString(info.Piece.Type.Letter())
			sb.WriteString(Disambiguation(board, info.From, info.To))
			if info.Capture {
				sb.WriteString("x")
			}
			sb.WriteString(info.To.String())
		}
		if info.Promotion != chess.NoPiece {
			sb.WriteString("=")
			sb.WriteString(info.Promotion.Letter())
		}
	}
	if info.Checkmate {
		sb.WriteString("#")
	} else if info.Check {
		sb.WriteString("+")
	}
	return sb.String()
}

// Algebraic is Describe followed by SAN.
func Algebraic(board *chess.Board, state *chess.GameState, move chess.Move) (string, MoveInfo) {
	info := Describe(board, state, move)
	return SAN(board, info), info
}
