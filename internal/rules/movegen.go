package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// PromotionPieces is the order in which promotion choices are emitted.
var PromotionPieces = []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// GenerateLegalMoves returns every legal move for side. An empty result means
// checkmate when side is in check and stalemate otherwise.
func GenerateLegalMoves(board *chess.Board, state *chess.GameState, side chess.Color) []chess.Move {
	moves := make([]chess.Move, 0, 48)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if board[y][x].IsEmpty() || board[y][x].Color != side {
				continue
			}
			moves = appendPieceMoves(moves, board, state, chess.Position{X: x, Y: y})
		}
	}
	return appendCastles(moves, board, state, side)
}

// LegalMovesFrom returns the legal moves of the piece standing on from,
// castles included.
func LegalMovesFrom(board *chess.Board, state *chess.GameState, from chess.Position) []chess.Move {
	if !from.InBounds() {
		return nil
	}
	piece := board.At(from)
	if piece.IsEmpty() {
		return nil
	}
	moves := appendPieceMoves(nil, board, state, from)
	if piece.Type == chess.King {
		moves = appendCastles(moves, board, state, piece.Color)
	}
	return moves
}

func appendPieceMoves(moves []chess.Move, board *chess.Board, state *chess.GameState, from chess.Position) []chess.Move {
	piece := board.At(from)
	for _, to := range Destinations(board, from, state.EnPassant) {
		move := chess.Move{From: from, To: to}
		if LeavesKingInCheck(board, move, state) {
			continue
		}
		if piece.Type != chess.Pawn {
			moves = append(moves, move)
			continue
		}
		if to.X != from.X && board.At(to).IsEmpty() {
			// diagonal into an empty square is only ever an en passant capture
			if !isEnPassantCapture(board, from, to, piece.Color, state.EnPassant) {
				continue
			}
			move.EnPassant = true
		}
		if to.Y == chess.PromotionRow(piece.Color) {
			for _, promo := range PromotionPieces {
				move.Promotion = promo
				moves = append(moves, move)
			}
			continue
		}
		moves = append(moves, move)
	}
	return moves
}

func appendCastles(moves []chess.Move, board *chess.Board, state *chess.GameState, side chess.Color) []chess.Move {
	king := chess.Position{X: kingHomeX, Y: chess.HomeRow(side)}
	for _, to := range CastlingDestinations(board, side, state.Castling) {
		move := chess.Move{From: king, To: to, Castle: true}
		if !LeavesKingInCheck(board, move, state) {
			moves = append(moves, move)
		}
	}
	return moves
}

// FindLegalMove looks up the legal move matching from/to/promotion. A missing
// promotion on a promoting pawn move selects the queen.
func FindLegalMove(board *chess.Board, state *chess.GameState, from, to chess.Position, promotion chess.PieceType) (chess.Move, bool) {
	for _, move := range LegalMovesFrom(board, state, from) {
		if move.To != to {
			continue
		}
		if move.Promotion == chess.NoPiece {
			return move, true
		}
		want := promotion
		if want == chess.NoPiece {
			want = chess.Queen
		}
		if move.Promotion == want {
			return move, true
		}
	}
	return chess.Move{}, false
}

type Status string

const (
	Ongoing   Status = "ongoing"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
)

// GameStatus classifies the position for side to move.
func GameStatus(board *chess.Board, state *chess.GameState, side chess.Color) Status {
	if len(GenerateLegalMoves(board, state, side)) > 0 {
		return Ongoing
	}
	if IsInCheck(board, side) {
		return Checkmate
	}
	return Stalemate
}
