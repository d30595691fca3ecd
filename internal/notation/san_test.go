package notation

import (
	"testing"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
)

func TestAlgebraic(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{chess.StartFEN, "e2e4", "e4"},
		{chess.StartFEN, "g1f3", "Nf3"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
		{"rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "d8h4", "Qh4#"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8q", "e8=Q+"},
		{"k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8n", "e8=N"},
		{"4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"4k3/8/8/8/3p4/8/8/1N2KN2 w - - 0 1", "f1d2", "Nfd2"},
		{"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1", "d4e3", "dxe3"},
	}
	for _, tt := range tests {
		setup, err := chess.ParseFEN(tt.fen)
		if err != nil {
			t.Fatal(err)
		}
		var move *chess.Move
		for _, m := range rules.GenerateLegalMoves(&setup.Board, &setup.State, setup.SideToMove) {
			if m.String() == tt.move {
				m := m
				move = &m
			}
		}
		if move == nil {
			t.Errorf("%s: %s not legal", tt.fen, tt.move)
			continue
		}
		before := setup.Board
		got, _ := Algebraic(&setup.Board, &setup.State, *move)
		if got != tt.want {
			t.Errorf("%s: %s = %q, want %q", tt.fen, tt.move, got, tt.want)
		}
		if setup.Board != before {
			t.Errorf("%s: Algebraic changed the board", tt.move)
		}
	}
}

func TestDisambiguation(t *testing.T) {
	setup, err := chess.ParseFEN("4k3/8/8/8/Q7/8/8/Q1Q1K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pos := func(s string) chess.Position {
		p, err := chess.ParsePosition(s)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	tests := []struct {
		from, to string
		want     string
	}{
		{"a1", "a3", "a1"},
		{"a1", "b2", "a"},
		{"c1", "d2", ""},
		{"a4", "a2", "4"},
		{"a4", "c2", "a"},
	}
	for _, tt := range tests {
		if got := Disambiguation(&setup.Board, pos(tt.from), pos(tt.to)); got != tt.want {
			t.Errorf("%s-%s: %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDescribeCapture(t *testing.T) {
	setup, err := chess.ParseFEN("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	move, ok := rules.FindLegalMove(&setup.Board, &setup.State, chess.Position{X: 3, Y: 4}, chess.Position{X: 4, Y: 5}, chess.NoPiece)
	if !ok {
		t.Fatal("d4e3 not legal")
	}
	info := Describe(&setup.Board, &setup.State, move)
	if !info.Capture || !info.Captured.Is(chess.Pawn, chess.White) {
		t.Errorf("info = %+v", info)
	}
	if setup.State.EnPassant == nil {
		t.Error("Describe cleared the en passant square")
	}
}
