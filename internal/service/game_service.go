package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/model"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
	"github.com/benbeisheim/chessbot-backend/internal/search"
	"github.com/benbeisheim/chessbot-backend/internal/ws"
	"github.com/google/uuid"
)

var ErrInvalidSquare = errors.New("invalid square")

type CreateGameRequest struct {
	VsEngine    bool        `json:"vsEngine"`
	EngineDepth int         `json:"engineDepth"`
	Color       chess.Color `json:"color"` // the creator's colour in engine games
	FEN         string      `json:"fen"`
}

type AnalysisResult struct {
	Move      *chess.Move  `json:"move"`
	Notation  string       `json:"notation"`
	Score     int          `json:"score"`
	Nodes     uint64       `json:"nodes"`
	Depth     int          `json:"depth"`
	MateInOne bool         `json:"mateInOne"`
	Status    rules.Status `json:"status"`
}

type GameService struct {
	gameManager  *GameManager
	defaultDepth int
	maxDepth     int
	// dispatch runs engine replies; tests swap in a synchronous runner.
	dispatch func(func())
}

func NewGameService(gameManager *GameManager, defaultDepth, maxDepth int) *GameService {
	return &GameService{
		gameManager:  gameManager,
		defaultDepth: defaultDepth,
		maxDepth:     maxDepth,
		dispatch:     func(f func()) { go f() },
	}
}

func (gs *GameService) clampDepth(depth int) int {
	if depth <= 0 {
		depth = gs.defaultDepth
	}
	if depth > gs.maxDepth {
		depth = gs.maxDepth
	}
	return depth
}

func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (string, error) {
	gameID := uuid.New().String()

	opts := model.GameOptions{
		VsEngine:    req.VsEngine,
		EngineDepth: gs.clampDepth(req.EngineDepth),
		FEN:         req.FEN,
	}
	if req.VsEngine {
		opts.EngineColor = chess.Black
		if req.Color == chess.Black {
			opts.EngineColor = chess.White
		}
	}

	game, err := gs.gameManager.CreateGame(gameID, opts)
	if err != nil {
		return "", err
	}
	if req.VsEngine && playerID != "" {
		if _, err := game.AddPlayer(playerID); err != nil {
			return "", fmt.Errorf("failed to seat player: %w", err)
		}
	}
	gs.maybeEngineReply(game)

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameView, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return game.GetView(), nil
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]chess.Move, error) {
	from, err := chess.ParsePosition(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquare, err)
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMovesFrom(from), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gs.maybeEngineReply(game)
	return nil
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) maybeEngineReply(game *model.Game) {
	if !game.EngineToMove() {
		return
	}
	gs.dispatch(func() {
		move, err := game.PlayEngineMove()
		if err != nil {
			log.Printf("game %s: engine move failed: %v", game.ID, err)
			return
		}
		log.Printf("game %s: engine played %s", game.ID, move)
	})
}

// Analyze searches an arbitrary position without creating a game.
func (gs *GameService) Analyze(fen string, depth int) (AnalysisResult, error) {
	if fen == "" {
		fen = chess.StartFEN
	}
	setup, err := chess.ParseFEN(fen)
	if err != nil {
		return AnalysisResult{}, err
	}
	depth = gs.clampDepth(depth)

	board, state := setup.Board, setup.State
	result := search.NewSearcher(&board, &state).Search(setup.SideToMove, depth)
	analysis := AnalysisResult{
		Move:      result.Move,
		Score:     result.Score,
		Nodes:     result.Nodes,
		Depth:     depth,
		MateInOne: result.MateInOne,
		Status:    rules.GameStatus(&board, &state, setup.SideToMove),
	}
	if result.Move != nil {
		analysis.Notation = sanFor(&board, &state, *result.Move)
	}
	return analysis, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// Send writes msg to a connection of the game, serialised with the game's
// own broadcasts.
func (gs *GameService) Send(gameID string, conn model.Conn, msg ws.Message) error {
	return gs.gameManager.Send(gameID, conn, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
