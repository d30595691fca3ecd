package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

var fenPieces = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// Setup is a full position: board, castling/en passant state and side to move.
type Setup struct {
	Board      Board
	State      GameState
	SideToMove Color
	FullMove   int
}

// ParseFEN decodes a Forsyth-Edwards string. Half-move and full-move counters
// are optional.
func ParseFEN(fen string) (Setup, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return Setup{}, fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	setup := Setup{FullMove: 1}

	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return Setup{}, fmt.Errorf("%w: expected 8 rows, got %d", ErrInvalidFEN, len(rows))
	}
	for y, row := range rows {
		x := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			lower := c | 0x20
			t, ok := fenPieces[lower]
			if !ok || x > 7 {
				return Setup{}, fmt.Errorf("%w: bad row %q", ErrInvalidFEN, row)
			}
			color := Black
			if c != lower {
				color = White
			}
			setup.Board[y][x] = Piece{Type: t, Color: color}
			x++
		}
		if x != 8 {
			return Setup{}, fmt.Errorf("%w: row %q has %d files", ErrInvalidFEN, row, x)
		}
	}

	switch fields[1] {
	case "w":
		setup.SideToMove = White
	case "b":
		setup.SideToMove = Black
	default:
		return Setup{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	castling := "-"
	if len(fields) > 2 {
		castling = fields[2]
	}
	flags := CastlingFlags{
		WhiteRightRookMoved: !strings.Contains(castling, "K"),
		WhiteLeftRookMoved:  !strings.Contains(castling, "Q"),
		BlackRightRookMoved: !strings.Contains(castling, "k"),
		BlackLeftRookMoved:  !strings.Contains(castling, "q"),
	}
	flags.WhiteKingMoved = flags.WhiteRightRookMoved && flags.WhiteLeftRookMoved
	flags.BlackKingMoved = flags.BlackRightRookMoved && flags.BlackLeftRookMoved
	setup.State.Castling = flags

	if len(fields) > 3 && fields[3] != "-" {
		skipped, err := ParsePosition(fields[3])
		if err != nil {
			return Setup{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
		// FEN names the skipped square; the state tracks the pawn itself.
		mover := setup.SideToMove.Opponent()
		pawn := skipped.Add(0, PawnDirection(mover))
		if pawn.InBounds() && setup.Board.At(pawn).Is(Pawn, mover) {
			setup.State.EnPassant = &pawn
		}
	}

	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Setup{}, fmt.Errorf("%w: full move %q", ErrInvalidFEN, fields[5])
		}
		setup.FullMove = n
	}
	return setup, nil
}

// FEN encodes the setup. The half-move clock is not tracked and is written as 0.
func (s Setup) FEN() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			p := s.Board[y][x]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if s.SideToMove == Black {
		side = "b"
	}

	castling := ""
	f := s.State.Castling
	if canCastle(&s.Board, f, White, true) {
		castling += "K"
	}
	if canCastle(&s.Board, f, White, false) {
		castling += "Q"
	}
	if canCastle(&s.Board, f, Black, true) {
		castling += "k"
	}
	if canCastle(&s.Board, f, Black, false) {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}

	ep := "-"
	if s.State.EnPassant != nil {
		pawn := s.Board.At(*s.State.EnPassant)
		ep = s.State.EnPassant.Add(0, -PawnDirection(pawn.Color)).String()
	}

	fullMove := s.FullMove
	if fullMove < 1 {
		fullMove = 1
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), side, castling, ep, fullMove)
}

func fenLetter(p Piece) string {
	l := "p"
	if p.Type != Pawn {
		l = strings.ToLower(p.Type.Letter())
	}
	if p.Color == White {
		return strings.ToUpper(l)
	}
	return l
}

func canCastle(b *Board, f CastlingFlags, color Color, kingside bool) bool {
	if f.KingMoved(color) || f.RookMoved(color, kingside) {
		return false
	}
	row := HomeRow(color)
	rookX := 0
	if kingside {
		rookX = 7
	}
	return b[row][4].Is(King, color) && b[row][rookX].Is(Rook, color)
}
