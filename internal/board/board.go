// Package board wraps the chess rules library behind the small surface the
// experiment needs: parse a FEN into an immutable position, enumerate legal
// moves, and apply a proposed move or report that it is illegal.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a proposed move is not legal in the
// position it was proposed for.
var ErrIllegalMove = errors.New("illegal move")

// StartingFEN is the standard chess starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is an immutable board snapshot. All methods return new values;
// the underlying position is never mutated after construction.
type Position struct {
	pos *chess.Position
	fen string
}

// FromFEN parses a FEN string into a Position. The FEN is standardized by
// the rules library, so the FEN returned by FEN() may differ textually from
// the input while describing the same position.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	game := chess.NewGame(opt)
	pos := game.Position()
	return &Position{pos: pos, fen: pos.String()}, nil
}

// FEN returns the standardized FEN for this position.
func (p *Position) FEN() string { return p.fen }

// WhiteToMove reports whether White is the side to move.
func (p *Position) WhiteToMove() bool { return p.pos.Turn() == chess.White }

// SideToMove returns "white" or "black".
func (p *Position) SideToMove() string {
	if p.WhiteToMove() {
		return "white"
	}
	return "black"
}

// LegalMoves returns every legal move in UCI notation, in the move
// generator's order. The slice is freshly allocated on each call.
func (p *Position) LegalMoves() []string {
	valid := p.pos.ValidMoves()
	moves := make([]string, 0, len(valid))
	notation := chess.UCINotation{}
	for _, m := range valid {
		moves = append(moves, notation.Encode(p.pos, m))
	}
	return moves
}

// IsLegal reports whether the UCI move is legal in this position.
func (p *Position) IsLegal(uci string) bool {
	_, err := p.parseLegal(uci)
	return err == nil
}

// Apply plays the UCI move and returns the resulting position. It returns
// ErrIllegalMove (wrapped) if the move is malformed or not legal here.
func (p *Position) Apply(uci string) (*Position, error) {
	move, err := p.parseLegal(uci)
	if err != nil {
		return nil, err
	}
	next := p.pos.Update(move)
	return &Position{pos: next, fen: next.String()}, nil
}

// Inner exposes the underlying library position for collaborators that
// speak the library's types directly (the UCI engine adapter).
func (p *Position) Inner() *chess.Position { return p.pos }

func (p *Position) parseLegal(uci string) (*chess.Move, error) {
	uci = NormalizeUCI(uci)
	move, err := chess.UCINotation{}.Decode(p.pos, uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrIllegalMove, uci, p.fen)
	}
	for _, valid := range p.pos.ValidMoves() {
		if valid.S1() == move.S1() && valid.S2() == move.S2() && valid.Promo() == move.Promo() {
			return move, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrIllegalMove, uci, p.fen)
}

// NormalizeUCI trims whitespace and lowercases the promotion letter, which
// language models frequently emit uppercase (e.g. "e7e8Q").
func NormalizeUCI(uci string) string {
	uci = strings.TrimSpace(uci)
	if len(uci) == 5 {
		return uci[:4] + strings.ToLower(uci[4:])
	}
	return uci
}
