// Package eval scores positions in centipawns from White's point of view.
package eval

import "github.com/benbeisheim/chessbot-backend/internal/chess"

const (
	doubledPawnPenalty  = 10
	isolatedPawnPenalty = 15
	passedPawnStep      = 10
	kingHomePenalty     = 25
)

// Evaluate is the static evaluation: material, piece-square tables, pawn
// structure and king safety. Positive favours White. side is accepted for
// future use and does not affect the score.
func Evaluate(board *chess.Board, side chess.Color) int {
	return Material(board) + PieceSquare(board) + PawnStructure(board) + KingSafety(board)
}

func Material(board *chess.Board) int {
	score := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := board[y][x]
			if p.IsEmpty() {
				continue
			}
			score += p.Color.Sign() * pieceValues[p.Type]
		}
	}
	return score
}

func PieceSquare(board *chess.Board) int {
	score := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := board[y][x]
			if p.IsEmpty() {
				continue
			}
			t := pieceSquareTables[p.Type]
			if p.Color == chess.White {
				score += t[y][x]
			} else {
				score -= t[7-y][x]
			}
		}
	}
	return score
}

// PawnStructure sums the doubled, isolated and passed pawn terms.
func PawnStructure(board *chess.Board) int {
	return doubledPawns(board) + isolatedPawns(board) + passedPawns(board)
}

func doubledPawns(board *chess.Board) int {
	score := 0
	for x := 0; x < 8; x++ {
		white, black := 0, 0
		for y := 0; y < 8; y++ {
			switch board[y][x] {
			case chess.Piece{Type: chess.Pawn, Color: chess.White}:
				white++
			case chess.Piece{Type: chess.Pawn, Color: chess.Black}:
				black++
			}
		}
		if white > 1 {
			score -= doubledPawnPenalty * (white - 1)
		}
		if black > 1 {
			score += doubledPawnPenalty * (black - 1)
		}
	}
	return score
}

func hasPawnOnFile(board *chess.Board, x int, color chess.Color) bool {
	if x < 0 || x > 7 {
		return false
	}
	for y := 0; y < 8; y++ {
		if board[y][x].Is(chess.Pawn, color) {
			return true
		}
	}
	return false
}

func isolatedPawns(board *chess.Board) int {
	score := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := board[y][x]
			if p.Type != chess.Pawn {
				continue
			}
			if !hasPawnOnFile(board, x-1, p.Color) && !hasPawnOnFile(board, x+1, p.Color) {
				score -= p.Color.Sign() * isolatedPawnPenalty
			}
		}
	}
	return score
}

// isPassed reports whether no enemy pawn stands ahead of the pawn on its own
// or an adjacent file.
func isPassed(board *chess.Board, pos chess.Position, color chess.Color) bool {
	enemy := color.Opponent()
	dir := chess.PawnDirection(color)
	for y := pos.Y + dir; y >= 0 && y < 8; y += dir {
		for dx := -1; dx <= 1; dx++ {
			x := pos.X + dx
			if x >= 0 && x < 8 && board[y][x].Is(chess.Pawn, enemy) {
				return false
			}
		}
	}
	return true
}

func passedPawns(board *chess.Board) int {
	score := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := board[y][x]
			if p.Type != chess.Pawn || !isPassed(board, chess.Position{X: x, Y: y}, p.Color) {
				continue
			}
			if p.Color == chess.White {
				score += (7 - y) * passedPawnStep
			} else {
				score -= y * passedPawnStep
			}
		}
	}
	return score
}

// KingSafety penalises a king still on e1/e8 while queens remain. The home
// squares are fixed board coordinates.
func KingSafety(board *chess.Board) int {
	if !board.HasQueens() {
		return 0
	}
	score := 0
	if king, ok := board.FindKing(chess.White); ok && king == (chess.Position{X: 4, Y: 7}) {
		score -= kingHomePenalty
	}
	if king, ok := board.FindKing(chess.Black); ok && king == (chess.Position{X: 4, Y: 0}) {
		score += kingHomePenalty
	}
	return score
}
