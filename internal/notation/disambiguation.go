package notation

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// Disambiguation returns the file, rank or full square needed to tell the
// piece on from apart from same-type pieces that could also reach to.
//
// Reachability here is a simplified movement check that ignores pins and
// checks. It is for notation text only.
func Disambiguation(board *chess.Board, from, to chess.Position) string {
	piece := board.At(from)
	if piece.IsEmpty() || piece.Type == chess.Pawn {
		return ""
	}
	sameFile, sameRank, others := false, false, false
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			other := chess.Position{X: x, Y: y}
			if other == from || board.At(other) != piece || !canReach(board, piece.Type, other, to) {
				continue
			}
			others = true
			if other.X == from.X {
				sameFile = true
			}
			if other.Y == from.Y {
				sameRank = true
			}
		}
	}
	switch {
	case !others:
		return ""
	case sameFile && sameRank:
		return from.String()
	case sameFile:
		return from.Rank()
	default:
		return from.File()
	}
}

func canReach(board *chess.Board, t chess.PieceType, from, to chess.Position) bool {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch t {
	case chess.Knight:
		return (chess.Abs(dx) == 1 && chess.Abs(dy) == 2) || (chess.Abs(dx) == 2 && chess.Abs(dy) == 1)
	case chess.King:
		return max(chess.Abs(dx), chess.Abs(dy)) == 1
	case chess.Rook:
		return (dx == 0 || dy == 0) && clearLine(board, from, to)
	case chess.Bishop:
		return chess.Abs(dx) == chess.Abs(dy) && clearLine(board, from, to)
	case chess.Queen:
		return (dx == 0 || dy == 0 || chess.Abs(dx) == chess.Abs(dy)) && clearLine(board, from, to)
	}
	return false
}

// clearLine checks the squares strictly between two aligned squares.
func clearLine(board *chess.Board, from, to chess.Position) bool {
	if from == to {
		return false
	}
	sx, sy := chess.Signum(to.X-from.X), chess.Signum(to.Y-from.Y)
	for p := from.Add(sx, sy); p != to; p = p.Add(sx, sy) {
		if !board.At(p).IsEmpty() {
			return false
		}
	}
	return true
}
