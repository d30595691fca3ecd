package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

const kingHomeX = 4

// CastlingDestinations returns the king destinations of every castle color may
// perform: king and rook unmoved and in place, empty path, king not in check,
// and no attacked square on the king's route including its destination.
func CastlingDestinations(board *chess.Board, color chess.Color, flags chess.CastlingFlags) []chess.Position {
	row := chess.HomeRow(color)
	king := chess.Position{X: kingHomeX, Y: row}
	if !board.At(king).Is(chess.King, color) || flags.KingMoved(color) {
		return nil
	}
	enemy := color.Opponent()
	inCheck := IsAttacked(board, king, enemy)

	var moves []chess.Position
	for _, kingside := range []bool{false, true} {
		if inCheck || flags.RookMoved(color, kingside) {
			continue
		}
		rookX, step := 0, -1
		if kingside {
			rookX, step = 7, 1
		}
		if !board[row][rookX].Is(chess.Rook, color) {
			continue
		}
		if !pathClear(board, row, kingHomeX, rookX) {
			continue
		}
		transit := king.Add(step, 0)
		dest := king.Add(2*step, 0)
		if IsAttacked(board, transit, enemy) || IsAttacked(board, dest, enemy) {
			continue
		}
		moves = append(moves, dest)
	}
	return moves
}

// pathClear checks the squares strictly between columns a and b on row.
func pathClear(board *chess.Board, row, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	for x := a + 1; x < b; x++ {
		if !board[row][x].IsEmpty() {
			return false
		}
	}
	return true
}

// castleRookSquares returns the rook relocation for a castling move.
func castleRookSquares(move chess.Move) (from, to chess.Position, ok bool) {
	if !move.Castle || move.From.Y != move.To.Y || chess.Abs(move.To.X-move.From.X) != 2 {
		return chess.Position{}, chess.Position{}, false
	}
	row := move.From.Y
	if move.To.X > move.From.X {
		return chess.Position{X: 7, Y: row}, chess.Position{X: 5, Y: row}, true
	}
	return chess.Position{X: 0, Y: row}, chess.Position{X: 3, Y: row}, true
}
