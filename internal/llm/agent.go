package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a proposer reply contained no usable move.
// Callers use it to distinguish unusable output from transport failures.
var ErrMalformed = errors.New("malformed proposer output")

// MoveAgent is the move-proposing capability: given a position and its
// legal moves, ask the model for a single best move as a structured JSON
// reply and extract it.
type MoveAgent struct {
	client Client
	model  string
}

// NewMoveAgent creates a MoveAgent backed by the given client and model.
func NewMoveAgent(client Client, model string) *MoveAgent {
	return &MoveAgent{client: client, model: model}
}

const moveAgentSystemPrompt = "You are an AI chess assistant and a chess grandmaster. " +
	"You propose the single best chess move for the position you are given. " +
	"You MUST respond ONLY with a single JSON object of the form {\"move\": \"<uci>\"} " +
	"where <uci> is the move in UCI format (e.g. e2e4, or e7e8q for promotion). " +
	"The move MUST be one of the legal moves listed. No other text."

// Propose asks for the best move in the position. The returned move is
// normalized but not legality-checked; that is the caller's concern.
func (a *MoveAgent) Propose(ctx context.Context, fen string, legalMoves []string) (string, error) {
	user := fmt.Sprintf(
		"FEN: %s\nLegal moves: %s\nDetermine the single best legal move. "+
			"Start by analyzing the board so you understand it, then answer with only the JSON object.",
		fen, strings.Join(legalMoves, " "))

	reply, err := a.client.Complete(ctx, Request{
		Model: a.model,
		Messages: []Message{
			{Role: RoleSystem, Content: moveAgentSystemPrompt},
			{Role: RoleUser, Content: user},
		},
		ForceJSON: true,
	})
	if err != nil {
		return "", fmt.Errorf("move proposal failed: %w", err)
	}

	var parsed struct {
		Move string `json:"move"`
	}
	if err := json.Unmarshal([]byte(SanitizeJSON(reply)), &parsed); err == nil && parsed.Move != "" {
		return strings.TrimSpace(parsed.Move), nil
	}

	// Fall back to scanning the raw reply for a move-shaped token.
	if move := ExtractUCIMove(reply); move != "" {
		return move, nil
	}
	return "", fmt.Errorf("%w: %q", ErrMalformed, truncate(reply, 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
