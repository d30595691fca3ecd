package rules

import "github.com/benbeisheim/chessbot-backend/internal/chess"

// Make applies move to board and state and returns the record Undo needs to
// reverse it. Everything the record holds is captured before mutation.
//
// A promotion on a non-pawn, or on a pawn that does not reach the last row, is
// ignored and the move is played as an ordinary move.
func Make(board *chess.Board, move chess.Move, state *chess.GameState) chess.UndoRecord {
	piece := board.At(move.From)
	record := chess.UndoRecord{
		Captured:      board.At(move.To),
		PrevEnPassant: state.EnPassant,
		PrevCastling:  state.Castling,
		Moved:         piece,
		From:          move.From,
		To:            move.To,
	}

	board.Clear(move.From)

	if move.EnPassant && piece.Type == chess.Pawn && record.Captured.IsEmpty() {
		victim := move.To.Add(0, -chess.PawnDirection(piece.Color))
		if state.EnPassant != nil && *state.EnPassant == victim && board.At(victim).Is(chess.Pawn, piece.Color.Opponent()) {
			record.Captured = board.At(victim)
			record.EnPassantSquare = &victim
			record.WasEnPassant = true
			board.Clear(victim)
		}
	}

	placed := piece
	promoted := validPromotion(piece, move)
	if promoted {
		placed = chess.Piece{Type: move.Promotion, Color: piece.Color}
	}
	board.Set(move.To, placed)

	if piece.Type == chess.King && move.Castle {
		if rookFrom, rookTo, ok := castleRookSquares(move); ok && board.At(rookFrom).Is(chess.Rook, piece.Color) {
			board.Set(rookTo, board.At(rookFrom))
			board.Clear(rookFrom)
			record.RookFrom, record.RookTo = &rookFrom, &rookTo
		}
	}

	updateCastlingFlags(&state.Castling, piece, move.From)
	if record.Captured.Type == chess.Rook {
		// a rook taken on its corner can no longer castle
		updateCastlingFlags(&state.Castling, record.Captured, move.To)
	}

	if piece.Type == chess.Pawn && !promoted && chess.Abs(move.To.Y-move.From.Y) == 2 && move.To.X == move.From.X {
		ep := move.To
		state.EnPassant = &ep
	} else {
		state.EnPassant = nil
	}

	return record
}

// Undo is the exact inverse of the Make that produced record.
func Undo(board *chess.Board, record chess.UndoRecord, state *chess.GameState) {
	if record.RookFrom != nil && record.RookTo != nil {
		board.Set(*record.RookFrom, board.At(*record.RookTo))
		board.Clear(*record.RookTo)
	}

	if record.WasEnPassant {
		board.Clear(record.To)
		if record.EnPassantSquare != nil {
			board.Set(*record.EnPassantSquare, record.Captured)
		}
	} else {
		board.Set(record.To, record.Captured)
	}
	board.Set(record.From, record.Moved)

	state.Castling = record.PrevCastling
	state.EnPassant = record.PrevEnPassant
}

func validPromotion(piece chess.Piece, move chess.Move) bool {
	if move.Promotion == chess.NoPiece || piece.Type != chess.Pawn {
		return false
	}
	if move.To.Y != chess.PromotionRow(piece.Color) {
		return false
	}
	for _, p := range PromotionPieces {
		if p == move.Promotion {
			return true
		}
	}
	return false
}

// updateCastlingFlags marks the king or corner rook standing on sq as moved.
func updateCastlingFlags(flags *chess.CastlingFlags, piece chess.Piece, sq chess.Position) {
	row := chess.HomeRow(piece.Color)
	switch piece.Type {
	case chess.King:
		if piece.Color == chess.White {
			flags.WhiteKingMoved = true
		} else {
			flags.BlackKingMoved = true
		}
	case chess.Rook:
		if sq.Y != row {
			return
		}
		switch {
		case sq.X == 0 && piece.Color == chess.White:
			flags.WhiteLeftRookMoved = true
		case sq.X == 7 && piece.Color == chess.White:
			flags.WhiteRightRookMoved = true
		case sq.X == 0:
			flags.BlackLeftRookMoved = true
		case sq.X == 7:
			flags.BlackRightRookMoved = true
		}
	}
}
