package chess

import "fmt"

type PieceType string

const (
	NoPiece PieceType = ""
	King    PieceType = "king"
	Queen   PieceType = "queen"
	Rook    PieceType = "rook"
	Bishop  PieceType = "bishop"
	Knight  PieceType = "knight"
	Pawn    PieceType = "pawn"
)

// Letter returns the upper case algebraic letter for the piece type ("" for pawns).
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Sign is +1 for white and -1 for black, the negamax colour convention.
func (c Color) Sign() int {
	if c == White {
		return 1
	}
	return -1
}

func ColorFromSign(colour int) Color {
	if colour >= 0 {
		return White
	}
	return Black
}

// Piece is a value type; the zero Piece is an empty cell.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

func (p Piece) Is(t PieceType, c Color) bool {
	return p.Type == t && p.Color == c
}

// Position is a board coordinate. X is the file (0 = a), Y is the row with
// row 0 being rank 8.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	if !p.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+p.X, 8-p.Y)
}

func (p Position) File() string {
	return string(rune('a' + p.X))
}

func (p Position) Rank() string {
	return string(rune('8' - p.Y))
}

// ParsePosition reads a square name such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	pos := Position{X: int(s[0] - 'a'), Y: int('8' - s[1])}
	if !pos.InBounds() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return pos, nil
}

// Board is indexed [Y][X]. It is an array so copies are independent and
// boards compare with ==.
type Board [8][8]Piece

func (b *Board) At(pos Position) Piece {
	return b[pos.Y][pos.X]
}

func (b *Board) Set(pos Position, piece Piece) {
	b[pos.Y][pos.X] = piece
}

func (b *Board) Clear(pos Position) {
	b[pos.Y][pos.X] = Piece{}
}

// FindKing returns the square of the king of the given colour.
func (b *Board) FindKing(color Color) (Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y][x].Is(King, color) {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

func (b *Board) HasQueens() bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y][x].Type == Queen {
				return true
			}
		}
	}
	return false
}

func backRank(color Color) [8]Piece {
	types := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	var rank [8]Piece
	for i, t := range types {
		rank[i] = Piece{Type: t, Color: color}
	}
	return rank
}

// NewBoard returns the standard initial position.
func NewBoard() Board {
	var board Board
	board[0] = backRank(Black)
	board[7] = backRank(White)
	for x := 0; x < 8; x++ {
		board[1][x] = Piece{Type: Pawn, Color: Black}
		board[6][x] = Piece{Type: Pawn, Color: White}
	}
	return board
}

// Home rows and directions are fixed in board coordinates.
func PawnDirection(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

func PawnStartRow(color Color) int {
	if color == White {
		return 6
	}
	return 1
}

func PromotionRow(color Color) int {
	if color == White {
		return 0
	}
	return 7
}

func HomeRow(color Color) int {
	if color == White {
		return 7
	}
	return 0
}
