package search

import (
	"sort"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
)

const (
	captureBonus   = 1000
	enPassantBonus = 1000
	promotionBonus = 900
)

// orderKey scores a move for ordering; higher is searched first.
func orderKey(board *chess.Board, move chess.Move) int {
	key := 0
	if !board.At(move.To).IsEmpty() {
		key += captureBonus
	}
	if move.EnPassant {
		key += enPassantBonus
	}
	if move.Promotion != chess.NoPiece {
		key += promotionBonus
	}
	return key
}

// OrderMoves sorts moves in place: captures, en passant captures and
// promotions first. Equal keys keep generation order.
func OrderMoves(board *chess.Board, moves []chess.Move) {
	keys := make(map[chess.Move]int, len(moves))
	for _, m := range moves {
		keys[m] = orderKey(board, m)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return keys[moves[i]] > keys[moves[j]]
	})
}
