package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// IsAttacked reports whether any piece of color by could move to or capture on
// sq by its movement pattern alone. Castling and en passant never attack.
// The test is a reverse lookup from sq so it works for empty squares too.
func IsAttacked(board *chess.Board, sq chess.Position, by chess.Color) bool {
	if slidingAttack(board, sq, by, rookDirs, chess.Rook) || slidingAttack(board, sq, by, bishopDirs, chess.Bishop) {
		return true
	}
	for _, dir := range knightDirs {
		target := sq.Add(dir.X, dir.Y)
		if target.InBounds() && board.At(target).Is(chess.Knight, by) {
			return true
		}
	}
	for _, dir := range kingDirs {
		target := sq.Add(dir.X, dir.Y)
		if target.InBounds() && board.At(target).Is(chess.King, by) {
			return true
		}
	}
	// A pawn of by attacks sq from one row behind it, relative to by's direction.
	behind := -chess.PawnDirection(by)
	for _, dx := range []int{-1, 1} {
		target := sq.Add(dx, behind)
		if target.InBounds() && board.At(target).Is(chess.Pawn, by) {
			return true
		}
	}
	return false
}

func slidingAttack(board *chess.Board, sq chess.Position, by chess.Color, dirs []chess.Position, slider chess.PieceType) bool {
	for _, dir := range dirs {
		target := sq.Add(dir.X, dir.Y)
		for target.InBounds() {
			occupant := board.At(target)
			if !occupant.IsEmpty() {
				if occupant.Color == by && (occupant.Type == slider || occupant.Type == chess.Queen) {
					return true
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	return false
}

// IsInCheck reports whether color's king is attacked. A board without that
// king is treated as not in check.
func IsInCheck(board *chess.Board, color chess.Color) bool {
	king, ok := board.FindKing(color)
	if !ok {
		return false
	}
	return IsAttacked(board, king, color.Opponent())
}
