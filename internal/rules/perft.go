package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// Perft counts the leaf nodes of the legal move tree of the given depth.
func Perft(board *chess.Board, state *chess.GameState, side chess.Color, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := GenerateLegalMoves(board, state, side)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, move := range moves {
		record := Make(board, move, state)
		nodes += Perft(board, state, side.Opponent(), depth-1)
		Undo(board, record, state)
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by the move in
// coordinate notation.
func Divide(board *chess.Board, state *chess.GameState, side chess.Color, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, move := range GenerateLegalMoves(board, state, side) {
		record := Make(board, move, state)
		result[move.String()] = Perft(board, state, side.Opponent(), depth-1)
		Undo(board, record, state)
	}
	return result
}
