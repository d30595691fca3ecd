// Package rules implements chess move generation and the reversible move
// executor on top of the chess data model.
package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

var (
	rookDirs   = []chess.Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []chess.Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = append(append([]chess.Position{}, rookDirs...), bishopDirs...)
	knightDirs = []chess.Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = queenDirs
)

// Destinations returns the pseudolegal destination squares of the piece on
// from. ep is the current en passant target (the pawn that just advanced two
// rows) or nil. Whether the move exposes the mover's king is not considered.
func Destinations(board *chess.Board, from chess.Position, ep *chess.Position) []chess.Position {
	piece := board.At(from)
	switch piece.Type {
	case chess.Pawn:
		return pawnDestinations(board, from, piece.Color, ep)
	case chess.Knight:
		return stepDestinations(board, from, piece.Color, knightDirs)
	case chess.Bishop:
		return slideDestinations(board, from, piece.Color, bishopDirs)
	case chess.Rook:
		return slideDestinations(board, from, piece.Color, rookDirs)
	case chess.Queen:
		return slideDestinations(board, from, piece.Color, queenDirs)
	case chess.King:
		return stepDestinations(board, from, piece.Color, kingDirs)
	default:
		return nil
	}
}

func slideDestinations(board *chess.Board, from chess.Position, color chess.Color, dirs []chess.Position) []chess.Position {
	moves := make([]chess.Position, 0, 14)
	for _, dir := range dirs {
		target := from.Add(dir.X, dir.Y)
		for target.InBounds() {
			occupant := board.At(target)
			if occupant.IsEmpty() {
				moves = append(moves, target)
			} else {
				if occupant.Color != color {
					moves = append(moves, target)
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	return moves
}

func stepDestinations(board *chess.Board, from chess.Position, color chess.Color, dirs []chess.Position) []chess.Position {
	moves := make([]chess.Position, 0, 8)
	for _, dir := range dirs {
		target := from.Add(dir.X, dir.Y)
		if !target.InBounds() {
			continue
		}
		if occupant := board.At(target); occupant.IsEmpty() || occupant.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func pawnDestinations(board *chess.Board, from chess.Position, color chess.Color, ep *chess.Position) []chess.Position {
	moves := make([]chess.Position, 0, 4)
	dir := chess.PawnDirection(color)

	one := from.Add(0, dir)
	if one.InBounds() && board.At(one).IsEmpty() {
		moves = append(moves, one)
		two := from.Add(0, 2*dir)
		if from.Y == chess.PawnStartRow(color) && two.InBounds() && board.At(two).IsEmpty() {
			moves = append(moves, two)
		}
	}

	for _, dx := range []int{-1, 1} {
		target := from.Add(dx, dir)
		if !target.InBounds() {
			continue
		}
		occupant := board.At(target)
		if !occupant.IsEmpty() {
			if occupant.Color != color {
				moves = append(moves, target)
			}
			continue
		}
		if isEnPassantCapture(board, from, target, color, ep) {
			moves = append(moves, target)
		}
	}
	return moves
}

// isEnPassantCapture reports whether a pawn of color on from may capture en
// passant by moving diagonally onto the empty square to.
func isEnPassantCapture(board *chess.Board, from, to chess.Position, color chess.Color, ep *chess.Position) bool {
	if ep == nil || chess.Abs(to.X-from.X) != 1 || to.Y-from.Y != chess.PawnDirection(color) {
		return false
	}
	if !board.At(to).IsEmpty() {
		return false
	}
	victim := chess.Position{X: to.X, Y: from.Y}
	return victim == *ep && board.At(victim).Is(chess.Pawn, color.Opponent())
}
