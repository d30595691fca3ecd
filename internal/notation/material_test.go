package notation

import (
	"testing"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
)

func TestMaterialTracker(t *testing.T) {
	tracker := NewMaterialTracker()
	if c, n := tracker.Advantage(); c != "" || n != 0 {
		t.Errorf("fresh tracker advantage = %s %d", c, n)
	}

	tracker.Record(MoveInfo{
		Piece:    chess.Piece{Type: chess.Knight, Color: chess.White},
		Captured: chess.Piece{Type: chess.Rook, Color: chess.Black},
	})
	tracker.Record(MoveInfo{
		Piece:    chess.Piece{Type: chess.Queen, Color: chess.Black},
		Captured: chess.Piece{Type: chess.Knight, Color: chess.White},
	})
	if c, n := tracker.Advantage(); c != chess.White || n != 2 {
		t.Errorf("advantage = %s %d, want white 2", c, n)
	}

	// promotion with capture: pawn takes a bishop and becomes a queen
	tracker.Record(MoveInfo{
		Piece:     chess.Piece{Type: chess.Pawn, Color: chess.Black},
		Captured:  chess.Piece{Type: chess.Bishop, Color: chess.White},
		Promotion: chess.Queen,
	})
	if c, n := tracker.Advantage(); c != chess.Black || n != 9 {
		t.Errorf("advantage = %s %d, want black 9", c, n)
	}
	if len(tracker.White) != 1 || len(tracker.Black) != 2 {
		t.Errorf("captured lists = %v / %v", tracker.White, tracker.Black)
	}

	tracker.Capture(chess.Piece{}, chess.White)
	tracker.Capture(chess.Piece{Type: chess.King, Color: chess.Black}, chess.White)
	if len(tracker.White) != 1 {
		t.Error("empty or king captures must be ignored")
	}
}
