package model

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
)

func pos(t *testing.T, s string) chess.Position {
	t.Helper()
	p, err := chess.ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func wsMove(t *testing.T, from, to string) WSMove {
	return WSMove{From: pos(t, from), To: pos(t, to)}
}

func newTwoPlayerGame(t *testing.T, opts GameOptions) *Game {
	t.Helper()
	game, err := NewGame("g1", opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if c, err := game.AddPlayer("alice"); err != nil || c != chess.White {
		t.Fatalf("AddPlayer(alice) = %s, %v", c, err)
	}
	if c, err := game.AddPlayer("bob"); err != nil || c != chess.Black {
		t.Fatalf("AddPlayer(bob) = %s, %v", c, err)
	}
	return game
}

func TestAddPlayer(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	if _, err := game.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player error = %v, want ErrGameFull", err)
	}
	if c, err := game.AddPlayer("bob"); err != nil || c != chess.Black {
		t.Errorf("rejoin = %s, %v", c, err)
	}
	if !game.IsPlayerInGame("alice") || game.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame mismatch")
	}
	if game.CanSpectate() {
		t.Error("full game should not accept spectators")
	}
}

func TestMakeMoveValidation(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	tests := []struct {
		name   string
		player string
		move   WSMove
		want   error
	}{
		{"stranger", "carol", wsMove(t, "e2", "e4"), ErrNotInGame},
		{"wrong turn", "bob", wsMove(t, "e7", "e5"), ErrNotYourTurn},
		{"empty square", "alice", wsMove(t, "e4", "e5"), ErrNoPiece},
		{"enemy piece", "alice", wsMove(t, "e7", "e5"), ErrNotYourTurn},
		{"illegal", "alice", wsMove(t, "e2", "e5"), ErrIllegalMove},
		{"off board", "alice", WSMove{From: chess.Position{X: 9, Y: 0}, To: pos(t, "e4")}, ErrOutOfBounds},
	}
	for _, tt := range tests {
		if err := game.MakeMove(tt.player, tt.move); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if view := game.GetView(); len(view.MoveHistory) != 0 || view.ToMove != chess.White {
		t.Errorf("rejected moves changed the game: %+v", view.MoveHistory)
	}
}

func TestFoolsMate(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	moves := []struct {
		player, from, to string
	}{
		{"alice", "f2", "f3"},
		{"bob", "e7", "e5"},
		{"alice", "g2", "g4"},
		{"bob", "d8", "h4"},
	}
	for _, m := range moves {
		if err := game.MakeMove(m.player, wsMove(t, m.from, m.to)); err != nil {
			t.Fatalf("%s%s: %v", m.from, m.to, err)
		}
	}

	view := game.GetView()
	if view.Resolve == nil || *view.Resolve != ResultCheckmate {
		t.Fatalf("resolve = %v, want checkmate", view.Resolve)
	}
	if view.Winner != chess.Black || !view.IsCheck {
		t.Errorf("winner = %s, check = %v", view.Winner, view.IsCheck)
	}
	if len(view.MoveHistory) != 2 || view.MoveHistory[1].BlackPly.Notation != "Qh4#" {
		t.Errorf("history = %+v", view.MoveHistory)
	}
	if len(view.LegalMoves) != 0 {
		t.Error("finished game lists legal moves")
	}
	if err := game.MakeMove("alice", wsMove(t, "a2", "a3")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate error = %v", err)
	}

	record := game.Record()
	if record.Result != "0-1" || len(record.Moves) != 4 || record.White != "alice" {
		t.Errorf("record = %+v", record)
	}
}

func TestHistoryStartingWithBlack(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{FEN: "4k3/8/8/8/8/8/4P3/4K3 b - - 0 7"})
	if err := game.MakeMove("bob", wsMove(t, "e8", "d8")); err != nil {
		t.Fatal(err)
	}
	if err := game.MakeMove("alice", wsMove(t, "e2", "e4")); err != nil {
		t.Fatal(err)
	}
	view := game.GetView()
	if len(view.MoveHistory) != 2 {
		t.Fatalf("history = %+v", view.MoveHistory)
	}
	first := view.MoveHistory[0]
	if first.Number != 7 || first.WhitePly != nil || first.BlackPly.Notation != "Kd8" {
		t.Errorf("first row = %+v", first)
	}
	if view.MoveHistory[1].Number != 8 || view.MoveHistory[1].WhitePly.Notation != "e4" {
		t.Errorf("second row = %+v", view.MoveHistory[1])
	}
	if view.FEN != "3k4/8/8/8/4P3/8/8/4K3 b - e3 0 8" {
		t.Errorf("FEN = %s", view.FEN)
	}
}

func TestPromotionChoice(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{FEN: "8/P6k/8/8/8/8/8/4K3 w - - 0 1"})
	move := wsMove(t, "a7", "a8")
	move.Promotion = chess.Knight
	if err := game.MakeMove("alice", move); err != nil {
		t.Fatal(err)
	}
	view := game.GetView()
	if !view.Board.At(pos(t, "a8")).Is(chess.Knight, chess.White) {
		t.Errorf("a8 = %+v", view.Board.At(pos(t, "a8")))
	}
	if view.CapturedPieces.WhiteGained != 2 {
		t.Errorf("promotion gain = %d, want 2", view.CapturedPieces.WhiteGained)
	}
}

func TestResign(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	if err := game.Resign("carol"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger resign error = %v", err)
	}
	if err := game.Resign("alice"); err != nil {
		t.Fatal(err)
	}
	view := game.GetView()
	if view.Resolve == nil || *view.Resolve != ResultResignation || view.Winner != chess.Black {
		t.Errorf("resolve = %v winner = %s", view.Resolve, view.Winner)
	}
	if err := game.Resign("bob"); !errors.Is(err, ErrGameOver) {
		t.Errorf("second resign error = %v", err)
	}
}

func TestPlayEngineMove(t *testing.T) {
	game, err := NewGame("g2", GameOptions{VsEngine: true, EngineColor: chess.Black, EngineDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if c, err := game.AddPlayer("alice"); err != nil || c != chess.White {
		t.Fatalf("AddPlayer = %s, %v", c, err)
	}
	if game.EngineToMove() {
		t.Fatal("engine should wait for white")
	}
	if _, err := game.PlayEngineMove(); !errors.Is(err, ErrEngineNotToMove) {
		t.Errorf("early engine move error = %v", err)
	}

	if err := game.MakeMove("alice", wsMove(t, "e2", "e4")); err != nil {
		t.Fatal(err)
	}
	if !game.EngineToMove() {
		t.Fatal("engine should be to move")
	}
	move, err := game.PlayEngineMove()
	if err != nil || move == nil {
		t.Fatalf("PlayEngineMove = %v, %v", move, err)
	}
	view := game.GetView()
	if view.ToMove != chess.White || view.MoveHistory[0].BlackPly == nil {
		t.Errorf("engine move not recorded: %+v", view.MoveHistory)
	}
	if !view.Players.Black.IsEngine || view.Players.Black.ID != EnginePlayerID {
		t.Errorf("black seat = %+v", view.Players.Black)
	}
}

func TestEngineTakesMateInOne(t *testing.T) {
	game, err := NewGame("g3", GameOptions{
		VsEngine:    true,
		EngineColor: chess.White,
		EngineDepth: 3,
		FEN:         "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	move, err := game.PlayEngineMove()
	if err != nil {
		t.Fatal(err)
	}
	if move.String() != "a1a8" {
		t.Errorf("engine played %s, want a1a8", move)
	}
	if view := game.GetView(); view.Resolve == nil || *view.Resolve != ResultCheckmate || view.Winner != chess.White {
		t.Errorf("resolve = %v winner = %s", view.Resolve, view.Winner)
	}
}

func TestNewGameRejectsBadFEN(t *testing.T) {
	if _, err := NewGame("bad", GameOptions{FEN: "not a fen"}); !errors.Is(err, chess.ErrInvalidFEN) {
		t.Errorf("error = %v, want ErrInvalidFEN", err)
	}
}

func TestStalemateOnCreate(t *testing.T) {
	game, err := NewGame("g4", GameOptions{FEN: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"})
	if err != nil {
		t.Fatal(err)
	}
	view := game.GetView()
	if view.Resolve == nil || *view.Resolve != ResultStalemate || view.Winner != "" {
		t.Errorf("resolve = %v winner = %q", view.Resolve, view.Winner)
	}
	if game.Record().Result != "1/2-1/2" {
		t.Errorf("result = %s", game.Record().Result)
	}
}
