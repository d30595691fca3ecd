package service

import (
	"fmt"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/model"
	"github.com/benbeisheim/chessbot-backend/internal/notation"
	nchess "github.com/notnil/chess"
)

// ExportPGN replays the game's moves through notnil/chess, which validates
// them independently and renders the PGN text.
func (gs *GameService) ExportPGN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return encodePGN(game.ID, game.Record())
}

func encodePGN(gameID string, rec model.Record) (string, error) {
	opts := []func(*nchess.Game){}
	if rec.StartFEN != chess.StartFEN {
		fen, err := nchess.FEN(rec.StartFEN)
		if err != nil {
			return "", fmt.Errorf("pgn: start position: %w", err)
		}
		opts = append(opts, fen)
	}
	pgn := nchess.NewGame(opts...)
	pgn.AddTagPair("Event", "chessbot game "+gameID)
	pgn.AddTagPair("White", playerName(rec.White))
	pgn.AddTagPair("Black", playerName(rec.Black))
	if rec.StartFEN != chess.StartFEN {
		pgn.AddTagPair("SetUp", "1")
		pgn.AddTagPair("FEN", rec.StartFEN)
	}

	for i, m := range rec.Moves {
		if err := playUCI(pgn, m.String()); err != nil {
			return "", fmt.Errorf("pgn: ply %d: %w", i+1, err)
		}
	}
	if err := applyResult(pgn, rec); err != nil {
		return "", err
	}
	// the tag follows the movetext terminator
	pgn.AddTagPair("Result", string(pgn.Outcome()))
	return pgn.String(), nil
}

// applyResult ends the replayed game the way the live one ended. Mates and
// stalemates are already detected by the replay; resignations and flag falls
// are not.
func applyResult(pgn *nchess.Game, rec model.Record) error {
	if pgn.Outcome() != nchess.NoOutcome {
		return nil
	}
	switch rec.Result {
	case "1-0":
		pgn.Resign(nchess.Black)
	case "0-1":
		pgn.Resign(nchess.White)
	case "1/2-1/2":
		if err := pgn.Draw(nchess.DrawOffer); err != nil {
			return fmt.Errorf("pgn: draw: %w", err)
		}
	}
	if rec.Reason == model.ResultTimeout {
		pgn.AddTagPair("Termination", "time forfeit")
	}
	return nil
}

func playUCI(game *nchess.Game, uci string) error {
	for _, mv := range game.ValidMoves() {
		if mv.String() == uci {
			return game.Move(mv)
		}
	}
	return fmt.Errorf("move %s rejected", uci)
}

func playerName(id string) string {
	if id == "" {
		return "?"
	}
	return id
}

func sanFor(board *chess.Board, state *chess.GameState, move chess.Move) string {
	san, _ := notation.Algebraic(board, state, move)
	return san
}
