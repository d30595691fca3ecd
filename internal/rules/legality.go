package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// LeavesKingInCheck plays move directly on board, asks whether the mover's king
// is attacked and then puts every touched cell back. It relies on attack
// detection only, so it never recurses into itself.
func LeavesKingInCheck(board *chess.Board, move chess.Move, state *chess.GameState) bool {
	mover := board.At(move.From)
	if mover.IsEmpty() {
		return false
	}

	// record current state
	fromState := board.At(move.From)
	toState := board.At(move.To)
	var victimSquare *chess.Position
	var victim chess.Piece
	if mover.Type == chess.Pawn && isEnPassantCapture(board, move.From, move.To, mover.Color, state.EnPassant) {
		sq := *state.EnPassant
		victimSquare = &sq
		victim = board.At(sq)
	}
	rookFrom, rookTo, castling := castleRookSquares(move)
	var rookFromState, rookToState chess.Piece
	if castling && mover.Type == chess.King {
		rookFromState = board.At(rookFrom)
		rookToState = board.At(rookTo)
	} else {
		castling = false
	}

	// execute temp move
	board.Clear(move.From)
	board.Set(move.To, mover)
	if victimSquare != nil {
		board.Clear(*victimSquare)
	}
	if castling {
		board.Clear(rookFrom)
		board.Set(rookTo, rookFromState)
	}

	inCheck := IsInCheck(board, mover.Color)

	// revert temp move
	if castling {
		board.Set(rookTo, rookToState)
		board.Set(rookFrom, rookFromState)
	}
	if victimSquare != nil {
		board.Set(*victimSquare, victim)
	}
	board.Set(move.To, toState)
	board.Set(move.From, fromState)

	return inCheck
}
