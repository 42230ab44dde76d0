package method

import (
	"context"
	"errors"

	"chessbench/internal/board"
	"chessbench/internal/llm"
	"chessbench/internal/logging"
)

// SingleAgent asks one move-proposing agent for one move. No retries: a
// failed or illegal proposal is the method's answer for that position.
type SingleAgent struct {
	agent *llm.MoveAgent
	log   *logging.Logger
}

// NewSingleAgent creates the single-agent method.
func NewSingleAgent(client llm.Client, model string, log *logging.Logger) *SingleAgent {
	return &SingleAgent{
		agent: llm.NewMoveAgent(client, model),
		log:   log.WithMethod("single"),
	}
}

// Name implements Method.
func (s *SingleAgent) Name() string { return "single" }

// Resolve implements Method.
func (s *SingleAgent) Resolve(ctx context.Context, pos *board.Position) Outcome {
	move, err := s.agent.Propose(ctx, pos.FEN(), pos.LegalMoves())
	if err != nil {
		s.log.Warn("proposal failed", "error", err)
		if errors.Is(err, llm.ErrMalformed) {
			return rejected(ReasonMalformed, err.Error())
		}
		return rejected(ReasonProposerFailure, err.Error())
	}

	s.log.Debug("agent proposed", "move", move)
	return finalize(pos, move)
}
