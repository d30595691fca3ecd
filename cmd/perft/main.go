// Command perft counts move-generator leaf nodes for a position and can
// compare every root move against dragontoothmg.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/chess"
	"github.com/benbeisheim/chessbot-backend/internal/rules"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		fen     = flag.String("fen", chess.StartFEN, "position in FEN")
		depth   = flag.Int("depth", 4, "perft depth")
		divide  = flag.Bool("divide", false, "print the count below each root move")
		verify  = flag.Bool("verify", false, "compare counts with dragontoothmg")
		workers = flag.Int("workers", runtime.NumCPU(), "root moves counted concurrently")
	)
	flag.Parse()

	setup, err := chess.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	counts, err := divideParallel(context.Background(), setup, *depth, *workers)
	if err != nil {
		log.Fatal(err)
	}
	var total uint64
	moves := make([]string, 0, len(counts))
	for m, n := range counts {
		moves = append(moves, m)
		total += n
	}
	sort.Strings(moves)

	var reference map[string]uint64
	if *verify {
		reference = dragonDivide(*fen, *depth)
	}

	mismatches := 0
	for _, m := range moves {
		line := fmt.Sprintf("%s: %d", m, counts[m])
		if reference != nil && reference[m] != counts[m] {
			line += fmt.Sprintf("  (dragontoothmg %d)", reference[m])
			mismatches++
		}
		if *divide || reference != nil && reference[m] != counts[m] {
			fmt.Println(line)
		}
	}
	for m := range reference {
		if _, ok := counts[m]; !ok {
			fmt.Printf("%s: missing (dragontoothmg %d)\n", m, reference[m])
			mismatches++
		}
	}
	fmt.Printf("depth %d nodes %d time %s\n", *depth, total, time.Since(start).Round(time.Millisecond))
	if mismatches > 0 {
		fmt.Printf("%d root moves disagree with dragontoothmg\n", mismatches)
		os.Exit(1)
	}
}

// divideParallel runs perft below each root move on its own copy of the
// position. Board is an array so each copy is independent.
func divideParallel(ctx context.Context, setup chess.Setup, depth, workers int) (map[string]uint64, error) {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result, nil
	}
	if workers < 1 {
		workers = 1
	}

	board, state := setup.Board, setup.State
	roots := rules.GenerateLegalMoves(&board, &state, setup.SideToMove)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, move := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, s := setup.Board, setup.State.Clone()
			rules.Make(&b, move, &s)
			n := rules.Perft(&b, &s, setup.SideToMove.Opponent(), depth-1)
			mu.Lock()
			result[move.String()] = n
			mu.Unlock()
			return nil
		})
	}
	return result, g.Wait()
}

func dragonDivide(fen string, depth int) map[string]uint64 {
	board := dragontoothmg.ParseFen(fen)
	result := make(map[string]uint64)
	for _, move := range board.GenerateLegalMoves() {
		unapply := board.Apply(move)
		result[move.String()] = dragonPerft(&board, depth-1)
		unapply()
	}
	return result
}

func dragonPerft(board *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := board.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, move := range moves {
		unapply := board.Apply(move)
		nodes += dragonPerft(board, depth-1)
		unapply()
	}
	return nodes
}
