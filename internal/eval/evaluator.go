// Package eval scores resulting positions with an external UCI engine.
// Scores are centipawn-equivalents from the perspective of the side that
// just moved: higher is better for the mover. Every evaluation in a run
// uses the same engine configuration, so scores across methods for the
// same position are directly comparable.
package eval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"

	"chessbench/internal/board"
)

// MateScale maps forced mates onto the centipawn scale: a mate in N scores
// ±(MateScale − N), so any mate outranks any centipawn advantage and
// faster mates outrank slower ones.
const MateScale = 100000.0

// Evaluator scores a resulting position from the mover's perspective.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) (float64, error)
	Close() error
}

// Func adapts a function to the Evaluator interface. Used by tests to
// inject deterministic evaluators.
type Func func(ctx context.Context, pos *board.Position) (float64, error)

// Evaluate implements Evaluator.
func (f Func) Evaluate(ctx context.Context, pos *board.Position) (float64, error) {
	return f(ctx, pos)
}

// Close implements Evaluator.
func (f Func) Close() error { return nil }

// Engine evaluates positions with a UCI engine process (Stockfish by
// default). It is safe for concurrent use; calls are serialized onto the
// single engine process.
type Engine struct {
	mu      sync.Mutex
	path    string
	eng     *uci.Engine
	depth   int
	timeout time.Duration
}

// NewEngine starts the engine process at path and performs the UCI
// handshake. depth is the fixed search depth for every evaluation.
func NewEngine(path string, depth int, timeout time.Duration) (*Engine, error) {
	eng, err := startEngine(path)
	if err != nil {
		return nil, err
	}
	return &Engine{path: path, eng: eng, depth: depth, timeout: timeout}, nil
}

// startEngine launches the engine process and performs the UCI handshake.
func startEngine(path string) (*uci.Engine, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine %q: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("engine handshake failed: %w", err)
	}
	return eng, nil
}

// Evaluate implements Evaluator. A call exceeding the configured timeout
// returns an error; the caller treats that as an evaluation failure for
// this position, never a crash.
func (e *Engine) Evaluate(ctx context.Context, pos *board.Position) (float64, error) {
	// Terminal positions need no engine: the mover just ended the game.
	if score, terminal := terminalScore(pos); terminal {
		return score, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- e.eng.Run(
			uci.CmdPosition{Position: pos.Inner()},
			uci.CmdGo{Depth: e.depth},
		)
	}()

	select {
	case <-ctx.Done():
		// The abandoned search would stall every later evaluation
		// behind it, so replace the engine process.
		if rerr := e.restart(); rerr != nil {
			return 0, fmt.Errorf("evaluation timed out after %s, engine restart failed: %w", e.timeout, rerr)
		}
		return 0, fmt.Errorf("evaluation timed out after %s: %w", e.timeout, ctx.Err())
	case err := <-done:
		if err != nil {
			return 0, fmt.Errorf("engine search failed: %w", err)
		}
	}

	return resultScore(e.eng.SearchResults()), nil
}

// restart swaps in a fresh engine process. Caller holds e.mu.
func (e *Engine) restart() error {
	e.eng.Close()
	eng, err := startEngine(e.path)
	if err != nil {
		return err
	}
	e.eng = eng
	return nil
}

// Close shuts down the engine process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eng.Close()
	return nil
}

// resultScore converts finished search results into a mover-perspective
// score. A search that produced no score line reads as the zero value,
// which normalizes to dead equal.
func resultScore(results uci.SearchResults) float64 {
	return normalize(results.Info.Score.CP, results.Info.Score.Mate)
}

// terminalScore handles positions where the game is already over after the
// mover's move: checkmate is the best possible score for the mover,
// stalemate is dead equal.
func terminalScore(pos *board.Position) (float64, bool) {
	switch pos.Inner().Status() {
	case chess.Checkmate:
		return MateScale, true
	case chess.Stalemate:
		return 0, true
	default:
		return 0, false
	}
}

// normalize converts an engine score, reported from the perspective of the
// side to move in the resulting position (the mover's opponent), into the
// mover's perspective.
func normalize(cp, mate int) float64 {
	if mate != 0 {
		if mate > 0 {
			// The opponent mates in N: the worse outcome for the mover,
			// softened slightly by mate distance.
			return -(MateScale - float64(mate))
		}
		// The mover mates in N.
		return MateScale - float64(-mate)
	}
	return -float64(cp)
}
