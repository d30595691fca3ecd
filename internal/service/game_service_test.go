package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/model"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
)

func newTestService() *GameService {
	gs := NewGameService(NewGameManager(time.Minute), 2, 3)
	gs.dispatch = func(f func()) { f() }
	return gs
}

func mustPos(t *testing.T, s string) chess.Position {
	t.Helper()
	p, err := chess.ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateAndPlayTwoPlayerGame(t *testing.T) {
	gs := newTestService()
	gameID, err := gs.CreateGame("alice", CreateGameRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if c, err := gs.JoinGame(gameID, "alice"); err != nil || c != chess.White {
		t.Fatalf("alice joined as %s, %v", c, err)
	}
	if c, err := gs.JoinGame(gameID, "bob"); err != nil || c != chess.Black {
		t.Fatalf("bob joined as %s, %v", c, err)
	}

	moves, err := gs.LegalMoves(gameID, "g1")
	if err != nil || len(moves) != 2 {
		t.Fatalf("g1 moves = %v, %v", moves, err)
	}
	if _, err := gs.LegalMoves(gameID, "z9"); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("bad square error = %v", err)
	}

	if err := gs.HandleMove(gameID, "alice", model.WSMove{From: mustPos(t, "g1"), To: mustPos(t, "f3")}); err != nil {
		t.Fatal(err)
	}
	view, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if view.ToMove != chess.Black || view.MoveHistory[0].WhitePly.Notation != "Nf3" {
		t.Errorf("view after Nf3: to move %s, history %+v", view.ToMove, view.MoveHistory)
	}

	if _, err := gs.GetGameState("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Errorf("missing game error = %v", err)
	}
}

func TestEngineRepliesToMove(t *testing.T) {
	gs := newTestService()
	gameID, err := gs.CreateGame("alice", CreateGameRequest{VsEngine: true, EngineDepth: 9})
	if err != nil {
		t.Fatal(err)
	}
	if err := gs.HandleMove(gameID, "alice", model.WSMove{From: mustPos(t, "e2"), To: mustPos(t, "e4")}); err != nil {
		t.Fatal(err)
	}
	view, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if view.ToMove != chess.White {
		t.Fatalf("engine did not reply, %s to move", view.ToMove)
	}
	if len(view.MoveHistory) != 1 || view.MoveHistory[0].BlackPly == nil {
		t.Errorf("history = %+v", view.MoveHistory)
	}
	if !view.VsEngine || view.Players.White.ID != "alice" {
		t.Errorf("players = %+v", view.Players)
	}
}

func TestEngineOpensAsWhite(t *testing.T) {
	gs := newTestService()
	gameID, err := gs.CreateGame("alice", CreateGameRequest{VsEngine: true, Color: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	view, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if view.ToMove != chess.Black || view.Players.Black.ID != "alice" || !view.Players.White.IsEngine {
		t.Errorf("engine did not open: to move %s players %+v", view.ToMove, view.Players)
	}
}

func TestAnalyze(t *testing.T) {
	gs := newTestService()

	result, err := gs.Analyze("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Move == nil || result.Move.String() != "a1a8" || result.Notation != "Ra8#" || !result.MateInOne {
		t.Errorf("result = %+v", result)
	}
	if result.Depth != 2 {
		t.Errorf("depth = %d, want the default 2", result.Depth)
	}

	result, err = gs.Analyze("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Move != nil || result.Status != rules.Stalemate || result.Depth != 3 {
		t.Errorf("stalemate result = %+v", result)
	}

	if _, err := gs.Analyze("nonsense", 1); !errors.Is(err, chess.ErrInvalidFEN) {
		t.Errorf("bad FEN error = %v", err)
	}
}

func TestExportPGN(t *testing.T) {
	gs := newTestService()
	gameID, err := gs.CreateGame("", CreateGameRequest{})
	if err != nil {
		t.Fatal(err)
	}
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")
	plies := []struct{ player, from, to string }{
		{"alice", "e2", "e4"},
		{"bob", "e7", "e5"},
		{"alice", "g1", "f3"},
		{"bob", "b8", "c6"},
	}
	for _, p := range plies {
		if err := gs.HandleMove(gameID, p.player, model.WSMove{From: mustPos(t, p.from), To: mustPos(t, p.to)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := gs.Resign(gameID, "bob"); err != nil {
		t.Fatal(err)
	}

	pgn, err := gs.ExportPGN(gameID)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`[White "alice"]`, `[Black "bob"]`, `[Result "1-0"]`, "e4", "Nf3", "Nc6"} {
		if !strings.Contains(pgn, want) {
			t.Errorf("pgn lacks %q:\n%s", want, pgn)
		}
	}
	if strings.Contains(pgn, "[FEN") {
		t.Errorf("standard start should not carry a FEN tag:\n%s", pgn)
	}
	if !strings.HasSuffix(strings.TrimSpace(pgn), "1-0") {
		t.Errorf("movetext should end with the result:\n%s", pgn)
	}
}

func TestEncodePGNTerminator(t *testing.T) {
	e4 := chess.Move{From: chess.Position{X: 4, Y: 6}, To: chess.Position{X: 4, Y: 4}}
	tests := []struct {
		name        string
		rec         model.Record
		want        string
		termination string
	}{
		{"ongoing", model.Record{StartFEN: chess.StartFEN, Moves: []chess.Move{e4}, Result: "*"}, "*", ""},
		{"white resigns", model.Record{StartFEN: chess.StartFEN, Moves: []chess.Move{e4}, Result: "0-1", Reason: model.ResultResignation}, "0-1", ""},
		{"black flagged", model.Record{StartFEN: chess.StartFEN, Moves: []chess.Move{e4}, Result: "1-0", Reason: model.ResultTimeout}, "1-0", `[Termination "time forfeit"]`},
		{"drawn", model.Record{StartFEN: chess.StartFEN, Result: "1/2-1/2"}, "1/2-1/2", ""},
		{
			// the replay finds the stalemate itself
			"stalemate",
			model.Record{
				StartFEN: "7k/4Q3/6K1/8/8/8/8/8 w - - 0 1",
				Moves:    []chess.Move{{From: chess.Position{X: 4, Y: 1}, To: chess.Position{X: 5, Y: 1}}},
				Result:   "1/2-1/2",
				Reason:   model.ResultStalemate,
			},
			"1/2-1/2",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgn, err := encodePGN("g", tt.rec)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(pgn, `[Result "`+tt.want+`"]`) {
				t.Errorf("missing Result tag %q:\n%s", tt.want, pgn)
			}
			if !strings.HasSuffix(strings.TrimSpace(pgn), tt.want) {
				t.Errorf("movetext does not end with %q:\n%s", tt.want, pgn)
			}
			if tt.termination != "" && !strings.Contains(pgn, tt.termination) {
				t.Errorf("missing %s:\n%s", tt.termination, pgn)
			}
		})
	}
}

func TestExportPGNFromPosition(t *testing.T) {
	rec := model.Record{
		StartFEN: "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		Moves:    []chess.Move{{From: chess.Position{X: 4, Y: 6}, To: chess.Position{X: 4, Y: 4}}},
		Result:   "*",
	}
	pgn, err := encodePGN("g", rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pgn, `[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]`) || !strings.Contains(pgn, `[White "?"]`) {
		t.Errorf("pgn = %s", pgn)
	}

	rec.Moves = append(rec.Moves, chess.Move{From: chess.Position{X: 4, Y: 4}, To: chess.Position{X: 4, Y: 2}})
	if _, err := encodePGN("g", rec); err == nil {
		t.Error("illegal move accepted")
	}
}

func TestMatchmaking(t *testing.T) {
	gm := NewGameManager(time.Minute)
	chans := map[string]chan string{}
	for _, id := range []string{"alice", "bob"} {
		ch := make(chan string, 1)
		chans[id] = ch
		if err := gm.RegisterMatchmakingChannel(id, ch); err != nil {
			t.Fatal(err)
		}
		if err := gm.JoinMatchmaking(id); err != nil {
			t.Fatal(err)
		}
	}
	if err := gm.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Errorf("double queue error = %v", err)
	}

	gm.matchPlayers()
	if gm.QueueSize() != 0 {
		t.Errorf("queue size = %d", gm.QueueSize())
	}

	colors := map[chess.Color]bool{}
	var gameID string
	for id, ch := range chans {
		var event model.MatchFoundEvent
		if err := json.Unmarshal([]byte(<-ch), &event); err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		colors[event.Color] = true
		gameID = event.GameID
		if _, ok := <-ch; ok {
			t.Errorf("%s: channel not closed after match", id)
		}
	}
	if !colors[chess.White] || !colors[chess.Black] {
		t.Errorf("colours = %v", colors)
	}
	game, err := gm.GetGame(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if !game.IsPlayerInGame("alice") || !game.IsPlayerInGame("bob") {
		t.Error("matched players not seated")
	}
}

func TestUnregisterMatchmakingLeavesQueue(t *testing.T) {
	gm := NewGameManager(time.Minute)
	ch := make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", ch)
	gm.JoinMatchmaking("alice")

	stale := make(chan string, 1)
	gm.UnregisterMatchmakingChannel("alice", stale)
	if gm.QueueSize() != 0 {
		t.Errorf("queue size = %d", gm.QueueSize())
	}
	gm.mu.RLock()
	_, still := gm.matchingChannels["alice"]
	gm.mu.RUnlock()
	if !still {
		t.Error("a stale unregister removed the current channel")
	}
}
