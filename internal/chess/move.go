package chess

// Move is produced by the move generator and consumed by the executor and by
// display code. Promotion is NoPiece for ordinary moves.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
	Castle    bool      `json:"castle,omitempty"`
	EnPassant bool      `json:"enPassant,omitempty"`
}

// String renders the move in coordinate (UCI) form, e.g. "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Queen:
		s += "q"
	case Rook:
		s += "r"
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	}
	return s
}

// CastleSide returns "kingside", "queenside" or "" for non castling moves.
func (m Move) CastleSide() string {
	if !m.Castle {
		return ""
	}
	if m.To.X > m.From.X {
		return "kingside"
	}
	return "queenside"
}

// CastlingFlags records which castling pieces have left their home squares.
type CastlingFlags struct {
	WhiteKingMoved      bool `json:"whiteKingMoved"`
	WhiteLeftRookMoved  bool `json:"whiteLeftRookMoved"`
	WhiteRightRookMoved bool `json:"whiteRightRookMoved"`
	BlackKingMoved      bool `json:"blackKingMoved"`
	BlackLeftRookMoved  bool `json:"blackLeftRookMoved"`
	BlackRightRookMoved bool `json:"blackRightRookMoved"`
}

func (f CastlingFlags) KingMoved(color Color) bool {
	if color == White {
		return f.WhiteKingMoved
	}
	return f.BlackKingMoved
}

func (f CastlingFlags) RookMoved(color Color, kingside bool) bool {
	switch {
	case color == White && kingside:
		return f.WhiteRightRookMoved
	case color == White:
		return f.WhiteLeftRookMoved
	case kingside:
		return f.BlackRightRookMoved
	default:
		return f.BlackLeftRookMoved
	}
}

// GameState is the non-board part of a position. EnPassant holds the square
// of a pawn that advanced two rows on the previous ply, or nil.
type GameState struct {
	Castling  CastlingFlags `json:"castling"`
	EnPassant *Position     `json:"enPassant"`
}

func NewGameState() GameState {
	return GameState{}
}

// Clone returns a copy that shares no pointers with s.
func (s GameState) Clone() GameState {
	c := GameState{Castling: s.Castling}
	if s.EnPassant != nil {
		ep := *s.EnPassant
		c.EnPassant = &ep
	}
	return c
}

// Equal compares by value, including the en passant square.
func (s GameState) Equal(o GameState) bool {
	if s.Castling != o.Castling {
		return false
	}
	if s.EnPassant == nil || o.EnPassant == nil {
		return s.EnPassant == nil && o.EnPassant == nil
	}
	return *s.EnPassant == *o.EnPassant
}

// UndoRecord carries everything needed to reverse one Make. It is consumed by
// exactly one Undo.
type UndoRecord struct {
	Captured         Piece
	EnPassantSquare  *Position
	PrevEnPassant    *Position
	PrevCastling     CastlingFlags
	Moved            Piece
	From             Position
	To               Position
	WasEnPassant     bool
	RookFrom, RookTo *Position
}
