package model

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/notation"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
	"github.com/benbeisheim/chessbot-backend/internal/search"
	"github.com/benbeisheim/chessbot-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

const (
	ResultCheckmate   = "checkmate"
	ResultStalemate   = "stalemate"
	ResultResignation = "resignation"
	ResultTimeout     = "timeout"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	// writeMu serialises every write to a game connection; a websocket
	// allows one writer at a time.
	writeMu sync.Mutex
}

type GameOptions struct {
	VsEngine    bool
	EngineColor chess.Color
	EngineDepth int
	ClockTime   time.Duration
	// FEN is the starting position; empty means the standard setup.
	FEN string
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// Game owns one board and the bookkeeping around it. Board and state are
// only touched with mu held; engine searches run on copies.
type Game struct {
	ID          string
	mu          sync.Mutex
	opts        GameOptions
	board       chess.Board
	state       chess.GameState
	toMove      chess.Color
	startFEN    string
	fullMove    int
	history     []Move
	played      []chess.Move
	material    notation.MaterialTracker
	isCheck     bool
	resolve     *string
	winner      chess.Color
	sound       string
	lastMove    *SimpleMove
	players     Players
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

// GameView is the JSON snapshot sent to clients.
type GameView struct {
	ID              string                   `json:"id"`
	Sound           string                   `json:"sound"`
	Board           chess.Board              `json:"board"`
	FEN             string                   `json:"fen"`
	ToMove          chess.Color              `json:"toMove"`
	MoveHistory     []Move                   `json:"moveHistory"`
	CapturedPieces  notation.MaterialTracker `json:"capturedPieces"`
	IsCheck         bool                     `json:"isCheck"`
	LegalMoves      []chess.Move             `json:"legalMoves"`
	EnPassantTarget *chess.Position          `json:"enPassantTarget"`
	Castling        chess.CastlingFlags      `json:"castling"`
	Resolve         *string                  `json:"resolve"`
	Winner          chess.Color              `json:"winner,omitempty"`
	Players         Players                  `json:"players"`
	LastMove        *SimpleMove              `json:"lastMove"`
	VsEngine        bool                     `json:"vsEngine"`
}

func NewGame(id string, opts GameOptions) (*Game, error) {
	fen := opts.FEN
	if fen == "" {
		fen = chess.StartFEN
	}
	setup, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if opts.ClockTime <= 0 {
		opts.ClockTime = 600 * time.Second
	}
	if opts.EngineColor == "" {
		opts.EngineColor = chess.Black
	}

	g := &Game{
		ID:          id,
		opts:        opts,
		board:       setup.Board,
		state:       setup.State,
		toMove:      setup.SideToMove,
		startFEN:    setup.FEN(),
		fullMove:    setup.FullMove,
		history:     make([]Move, 0),
		played:      make([]chess.Move, 0),
		material:    notation.NewMaterialTracker(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(opts.ClockTime),
		blackClock:  NewClock(opts.ClockTime),
	}
	tenths := int(opts.ClockTime.Milliseconds() / 100)
	g.players.White.TimeLeft = tenths
	g.players.Black.TimeLeft = tenths
	if opts.VsEngine {
		g.seat(opts.EngineColor, EnginePlayerID)
	}
	g.isCheck = rules.IsInCheck(&g.board, g.toMove)
	g.updateResult()
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func (g *Game) seat(color chess.Color, playerID string) {
	p := &g.players.White
	if color == chess.Black {
		p = &g.players.Black
	}
	p.ID = playerID
	p.Color = color
	p.IsEngine = playerID == EnginePlayerID
}

func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.seat(chess.White, playerID)
		return chess.White, nil
	}
	if g.players.Black.ID == "" {
		g.seat(chess.Black, playerID)
		return chess.Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) colorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return "", false
	}
	if g.players.White.ID == playerID {
		return chess.White, true
	}
	if g.players.Black.ID == playerID {
		return chess.Black, true
	}
	return "", false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) IsVsEngine() bool {
	return g.opts.VsEngine
}

// EngineToMove reports whether the computer should move now.
func (g *Game) EngineToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.opts.VsEngine && g.resolve == nil && g.toMove == g.opts.EngineColor
}

func (g *Game) GetView() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.view()
}

func (g *Game) view() GameView {
	g.players.White.TimeLeft = g.whiteClock.Tenths()
	g.players.Black.TimeLeft = g.blackClock.Tenths()

	var legal []chess.Move
	if g.resolve == nil {
		legal = rules.GenerateLegalMoves(&g.board, &g.state, g.toMove)
	}
	history := make([]Move, len(g.history))
	copy(history, g.history)
	state := g.state.Clone()
	return GameView{
		ID:              g.ID,
		Sound:           g.sound,
		Board:           g.board,
		FEN:             g.fen(),
		ToMove:          g.toMove,
		MoveHistory:     history,
		CapturedPieces:  g.material,
		IsCheck:         g.isCheck,
		LegalMoves:      legal,
		EnPassantTarget: state.EnPassant,
		Castling:        state.Castling,
		Resolve:         g.resolve,
		Winner:          g.winner,
		Players:         g.players,
		LastMove:        g.lastMove,
		VsEngine:        g.opts.VsEngine,
	}
}

func (g *Game) fen() string {
	return chess.Setup{Board: g.board, State: g.state, SideToMove: g.toMove, FullMove: g.fullMove}.FEN()
}

// LegalMovesFrom lists the legal moves of the piece on from when it belongs
// to the side to move.
func (g *Game) LegalMovesFrom(from chess.Position) []chess.Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil || !from.InBounds() || g.board.At(from).Color != g.toMove {
		return []chess.Move{}
	}
	return rules.LegalMovesFrom(&g.board, &g.state, from)
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.toMove {
		return ErrNotYourTurn
	}

	legal, err := g.validateMove(move)
	if err != nil {
		return err
	}
	if err := g.playMove(legal); err != nil {
		return err
	}

	go g.broadcastState()
	return nil
}

func (g *Game) validateMove(move WSMove) (chess.Move, error) {
	if !move.From.InBounds() || !move.To.InBounds() {
		return chess.Move{}, ErrOutOfBounds
	}
	piece := g.board.At(move.From)
	if piece.IsEmpty() {
		return chess.Move{}, ErrNoPiece
	}
	if piece.Color != g.toMove {
		return chess.Move{}, ErrNotYourTurn
	}
	legal, ok := rules.FindLegalMove(&g.board, &g.state, move.From, move.To, move.Promotion)
	if !ok {
		return chess.Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, move.From, move.To)
	}
	return legal, nil
}

// playMove runs the clocks around executeMove. mu must be held.
func (g *Game) playMove(move chess.Move) error {
	clock, next := g.whiteClock, g.blackClock
	if g.toMove == chess.Black {
		clock, next = g.blackClock, g.whiteClock
	}
	clock.Stop()
	if clock.Expired() {
		result := ResultTimeout
		g.resolve = &result
		g.winner = g.toMove.Opponent()
		return ErrGameOver
	}

	g.executeMove(move)

	if g.resolve == nil {
		next.Start()
	}
	return nil
}

// PlayEngineMove searches the current position on a copy and plays the
// result if nothing changed in the meantime.
func (g *Game) PlayEngineMove() (*chess.Move, error) {
	g.mu.Lock()
	if g.resolve != nil {
		g.mu.Unlock()
		return nil, ErrGameOver
	}
	if !g.opts.VsEngine || g.toMove != g.opts.EngineColor {
		g.mu.Unlock()
		return nil, ErrEngineNotToMove
	}
	board := g.board
	state := g.state.Clone()
	side := g.toMove
	depth := g.opts.EngineDepth
	plies := len(g.played)
	g.mu.Unlock()

	started := time.Now()
	result := search.NewSearcher(&board, &state).Search(side, depth)
	log.Printf("game %s: engine searched depth %d, %d nodes in %s, score %d", g.ID, depth, result.Nodes, time.Since(started), result.Score)
	if result.Move == nil {
		return nil, ErrGameOver
	}

	g.mu.Lock()
	if g.resolve != nil || len(g.played) != plies {
		g.mu.Unlock()
		return nil, ErrGameOver
	}
	err := g.playMove(*result.Move)
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go g.broadcastState()
	return result.Move, nil
}

// executeMove applies a legal move and updates history, material, check and
// result. mu must be held.
func (g *Game) executeMove(move chess.Move) {
	san, info := notation.Algebraic(&g.board, &g.state, move)
	record := rules.Make(&g.board, move, &g.state)
	g.material.Record(info)

	ply := &Ply{
		Piece:     record.Moved,
		From:      move.From,
		To:        move.To,
		Promotion: info.Promotion,
		Notation:  san,
		UCI:       move.String(),
	}
	if info.Capture {
		captured := record.Captured
		ply.CapturedPiece = &captured
	}
	if record.RookFrom != nil && record.RookTo != nil {
		ply.CastleRookMove = &CastleRookMove{From: *record.RookFrom, To: *record.RookTo}
	}

	if g.toMove == chess.White {
		g.history = append(g.history, Move{Number: g.fullMove, WhitePly: ply})
	} else {
		last := len(g.history) - 1
		if last >= 0 && g.history[last].Number == g.fullMove && g.history[last].BlackPly == nil {
			g.history[last].BlackPly = ply
		} else {
			g.history = append(g.history, Move{Number: g.fullMove, BlackPly: ply})
		}
		g.fullMove++
	}
	g.played = append(g.played, move)

	switch {
	case info.Check:
		g.sound = "check"
	case move.Castle:
		g.sound = "castle"
	case info.Capture:
		g.sound = "capture"
	default:
		g.sound = "move"
	}
	g.lastMove = &SimpleMove{From: move.From, To: move.To}

	g.switchTurn()
	g.isCheck = info.Check
	g.updateResult()
}

// updateResult marks checkmate or stalemate for the side to move.
func (g *Game) updateResult() {
	switch rules.GameStatus(&g.board, &g.state, g.toMove) {
	case rules.Checkmate:
		result := ResultCheckmate
		g.resolve = &result
		g.winner = g.toMove.Opponent()
	case rules.Stalemate:
		result := ResultStalemate
		g.resolve = &result
	}
	if g.resolve != nil {
		g.whiteClock.Stop()
		g.blackClock.Stop()
	}
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if g.resolve != nil {
		return ErrGameOver
	}
	result := ResultResignation
	g.resolve = &result
	g.winner = color.Opponent()
	g.whiteClock.Stop()
	g.blackClock.Stop()

	go g.broadcastState()
	return nil
}

func (g *Game) switchTurn() {
	g.toMove = g.toMove.Opponent()
}

// Record is the data needed to export the game score.
type Record struct {
	StartFEN string
	Moves    []chess.Move
	Result   string
	// Reason is one of the Result* constants, empty while the game is on.
	Reason   string
	White    string
	Black    string
}

func (g *Game) Record() Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, reason := "*", ""
	if g.resolve != nil {
		reason = *g.resolve
		switch g.winner {
		case chess.White:
			result = "1-0"
		case chess.Black:
			result = "0-1"
		default:
			result = "1/2-1/2"
		}
	}
	moves := make([]chess.Move, len(g.played))
	copy(moves, g.played)
	return Record{
		StartFEN: g.startFEN,
		Moves:    moves,
		Result:   result,
		Reason:   reason,
		White:    g.players.White.ID,
		Black:    g.players.Black.ID,
	}
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, inGame := g.colorOf(playerID)
	isAuthorized := inGame || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the duplicate
		g.connections.mu.Unlock()
		g.connections.writeMu.Lock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		g.connections.writeMu.Unlock()
		conn.Close()
		return nil
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	// only drop the connection if it is still the current one
	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Printf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

// Send writes msg to conn, serialised with state broadcasts. conn does not
// have to be registered with the game.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState() {
	payload, err := json.Marshal(g.GetView())
	if err != nil {
		log.Printf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	activeConnections := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}
