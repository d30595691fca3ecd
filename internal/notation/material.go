package notation

import "github.com/benbeisheim/chessbot-backend/internal/chess"

var materialPoints = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// MaterialTracker keeps the captured piece lists shown next to the board.
type MaterialTracker struct {
	White       []chess.Piece `json:"white"` // black pieces taken by white
	Black       []chess.Piece `json:"black"` // white pieces taken by black
	WhiteGained int           `json:"whiteGained"`
	BlackGained int           `json:"blackGained"`
}

func NewMaterialTracker() MaterialTracker {
	return MaterialTracker{White: []chess.Piece{}, Black: []chess.Piece{}}
}

func (t *MaterialTracker) Capture(captured chess.Piece, by chess.Color) {
	if captured.IsEmpty() || captured.Type == chess.King {
		return
	}
	if by == chess.White {
		t.White = append(t.White, captured)
		t.WhiteGained += materialPoints[captured.Type]
	} else {
		t.Black = append(t.Black, captured)
		t.BlackGained += materialPoints[captured.Type]
	}
}

func (t *MaterialTracker) Promote(to chess.PieceType, by chess.Color) {
	gain := materialPoints[to] - materialPoints[chess.Pawn]
	if by == chess.White {
		t.WhiteGained += gain
	} else {
		t.BlackGained += gain
	}
}

// Advantage returns the side ahead in material and by how many points. The
// colour is empty when material is level.
func (t *MaterialTracker) Advantage() (chess.Color, int) {
	diff := t.WhiteGained - t.BlackGained
	switch {
	case diff > 0:
		return chess.White, diff
	case diff < 0:
		return chess.Black, -diff
	}
	return "", 0
}

// Record updates the tracker from a played move's display info.
func (t *MaterialTracker) Record(info MoveInfo) {
	t.Capture(info.Captured, info.Piece.Color)
	if info.Promotion != chess.NoPiece {
		t.Promote(info.Promotion, info.Piece.Color)
	}
}
