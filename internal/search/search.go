// Package search picks moves with a fixed-depth alpha-beta negamax.
//
// The searcher mutates the board and state it is given and restores them
// before returning; callers must not touch either while a search runs.
package search

import (
	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/eval"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
)

const Infinity = 1_000_000_000

// MateScore is the score of the side to move when it is checkmated ply
// half-moves below the root. Mates closer to the root are worse for the mated
// side, so the winner prefers the shortest mate.
func MateScore(ply int) int {
	return -Infinity + 1 + ply
}

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return score <= -Infinity+1000 || score >= Infinity-1000
}

type Result struct {
	Move  *chess.Move `json:"move"`
	Score int         `json:"score"`
	Nodes uint64      `json:"nodes"`
	// MateInOne is set when the root mate shortcut produced the move.
	MateInOne bool `json:"mateInOne"`
}

// Searcher holds the board being searched and per-search statistics.
type Searcher struct {
	board *chess.Board
	state *chess.GameState
	ply   int
	nodes uint64
}

func NewSearcher(board *chess.Board, state *chess.GameState) *Searcher {
	return &Searcher{board: board, state: state}
}

func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// NegaMax scores the position for the side given by colour (+1 white, -1
// black) searching depth plies with an alpha-beta window.
func NegaMax(board *chess.Board, depth, alpha, beta, colour int, state *chess.GameState) int {
	return NewSearcher(board, state).NegaMax(depth, alpha, beta, colour)
}

func (s *Searcher) NegaMax(depth, alpha, beta, colour int) int {
	s.nodes++
	side := chess.ColorFromSign(colour)
	moves := rules.GenerateLegalMoves(s.board, s.state, side)

	if len(moves) == 0 {
		if rules.IsInCheck(s.board, side) {
			return MateScore(s.ply)
		}
		return 0
	}

	// terminal positions are detected before the depth cutoff
	if depth == 0 {
		return colour * eval.Evaluate(s.board, side)
	}

	OrderMoves(s.board, moves)

	value := -Infinity
	for _, move := range moves {
		record := rules.Make(s.board, move, s.state)
		s.ply++
		score := -s.NegaMax(depth-1, -beta, -alpha, -colour)
		s.ply--
		rules.Undo(s.board, record, s.state)

		if score > value {
			value = score
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}
	return value
}

// FindBestMove returns the best move for side at depth, or nil when side has
// no legal move.
func FindBestMove(board *chess.Board, side chess.Color, depth int, state *chess.GameState) *chess.Move {
	return NewSearcher(board, state).Search(side, depth).Move
}

// Search runs the root search. An immediate mate is returned without a full
// depth search; otherwise every root move is searched with the full window and
// the first move with the highest score wins.
func (s *Searcher) Search(side chess.Color, depth int) Result {
	if depth < 1 {
		depth = 1
	}
	moves := rules.GenerateLegalMoves(s.board, s.state, side)
	if len(moves) == 0 {
		return Result{Nodes: s.nodes}
	}

	opponent := side.Opponent()
	for i := range moves {
		record := rules.Make(s.board, moves[i], s.state)
		s.nodes++
		mate := len(rules.GenerateLegalMoves(s.board, s.state, opponent)) == 0 && rules.IsInCheck(s.board, opponent)
		rules.Undo(s.board, record, s.state)
		if mate {
			move := moves[i]
			return Result{Move: &move, Score: -MateScore(1), Nodes: s.nodes, MateInOne: true}
		}
	}

	OrderMoves(s.board, moves)

	colour := side.Sign()
	bestScore := -Infinity
	var best *chess.Move
	for i := range moves {
		record := rules.Make(s.board, moves[i], s.state)
		s.ply++
		score := -s.NegaMax(depth-1, -Infinity, Infinity, -colour)
		s.ply--
		rules.Undo(s.board, record, s.state)

		if score > bestScore {
			bestScore = score
			move := moves[i]
			best = &move
		}
	}
	return Result{Move: best, Score: bestScore, Nodes: s.nodes}
}
