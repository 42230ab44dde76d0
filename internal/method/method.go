// Package method implements the move-selection methods under benchmark.
// Each method consumes the proposer capability and the board oracle, runs
// its internal protocol, and yields exactly one proposed move or a declared
// rejection per position. The set of methods is closed: the architectures
// are the research variable, not an extensibility surface.
package method

import (
	"context"
	"fmt"

	"chessbench/internal/board"
)

// RejectReason classifies why a method failed to produce a legal move.
type RejectReason int

const (
	// ReasonNone marks an accepted outcome.
	ReasonNone RejectReason = iota
	// ReasonIllegalMove: the proposed move is not legal in the position.
	ReasonIllegalMove
	// ReasonMalformed: the proposer's output contained no usable move.
	ReasonMalformed
	// ReasonProposerFailure: a proposer call failed (timeout, provider error).
	ReasonProposerFailure
	// ReasonNonTermination: the protocol exhausted its step cap without
	// resolving.
	ReasonNonTermination
)

// String returns the reason as a short report label.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonIllegalMove:
		return "illegal move"
	case ReasonMalformed:
		return "malformed output"
	case ReasonProposerFailure:
		return "proposer failure"
	case ReasonNonTermination:
		return "protocol non-termination"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is a method's resolution for one position: either an accepted
// move with the resulting position, or a rejection with a reason.
type Outcome struct {
	// Move is the accepted UCI move. Empty when rejected.
	Move string
	// Result is the position after Move. Nil when rejected.
	Result *board.Position
	// Reason is ReasonNone when accepted.
	Reason RejectReason
	// Detail carries human-readable context for a rejection.
	Detail string
}

// Accepted reports whether the outcome carries a legal move.
func (o Outcome) Accepted() bool { return o.Reason == ReasonNone }

func accepted(move string, result *board.Position) Outcome {
	return Outcome{Move: move, Result: result}
}

func rejected(reason RejectReason, detail string) Outcome {
	return Outcome{Reason: reason, Detail: detail}
}

// Method is one agent architecture under benchmark. Resolve must return
// within a bounded number of proposer calls and must not mutate pos.
// Non-determinism across runs is expected; non-termination is a defect.
type Method interface {
	// Name identifies the method in reports and logs.
	Name() string
	// Resolve runs the method's protocol for one position.
	Resolve(ctx context.Context, pos *board.Position) Outcome
}

// finalize legality-checks a candidate UCI move against the oracle and
// turns it into the final outcome. Every variant funnels its move through
// here, so the oracle is uniformly authoritative.
func finalize(pos *board.Position, uci string) Outcome {
	uci = board.NormalizeUCI(uci)
	result, err := pos.Apply(uci)
	if err != nil {
		return rejected(ReasonIllegalMove, fmt.Sprintf("move %q: %v", uci, err))
	}
	return accepted(uci, result)
}
