package method

import (
	"context"
	"errors"
	"testing"

	"chessbench/internal/board"
	"chessbench/internal/llm"
	"chessbench/internal/logging"
)

func startingPosition(t *testing.T) *board.Position {
	t.Helper()
	pos, err := board.FromFEN(board.StartingFEN)
	if err != nil {
		t.Fatalf("FromFEN failed: %v", err)
	}
	return pos
}

// fixedReply returns a client that always answers with the same statement.
func fixedReply(reply string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return reply, nil
	})
}

func TestSingleAgent_LegalMove(t *testing.T) {
	m := NewSingleAgent(fixedReply(`{"move": "e2e4"}`), "model", logging.Nop())

	outcome := m.Resolve(context.Background(), startingPosition(t))

	if !outcome.Accepted() {
		t.Fatalf("expected accepted outcome, got %s (%s)", outcome.Reason, outcome.Detail)
	}
	if outcome.Move != "e2e4" {
		t.Errorf("move = %q, want e2e4", outcome.Move)
	}
	if outcome.Result == nil || outcome.Result.WhiteToMove() {
		t.Error("resulting position should have Black to move")
	}
}

func TestSingleAgent_IllegalMove(t *testing.T) {
	m := NewSingleAgent(fixedReply(`{"move": "e2e5"}`), "model", logging.Nop())

	outcome := m.Resolve(context.Background(), startingPosition(t))

	if outcome.Accepted() {
		t.Fatal("illegal proposal must be rejected")
	}
	if outcome.Reason != ReasonIllegalMove {
		t.Errorf("reason = %s, want illegal move", outcome.Reason)
	}
}

func TestSingleAgent_ProposerFailure(t *testing.T) {
	failing := llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("provider down")
	})
	m := NewSingleAgent(failing, "model", logging.Nop())

	outcome := m.Resolve(context.Background(), startingPosition(t))

	if outcome.Accepted() {
		t.Fatal("proposer failure must be rejected")
	}
	if outcome.Reason != ReasonProposerFailure {
		t.Errorf("reason = %s, want proposer failure", outcome.Reason)
	}
}

func TestSingleAgent_MalformedOutput(t *testing.T) {
	m := NewSingleAgent(fixedReply("I have no idea."), "model", logging.Nop())

	outcome := m.Resolve(context.Background(), startingPosition(t))

	if outcome.Accepted() {
		t.Fatal("malformed output must be rejected")
	}
	if outcome.Reason != ReasonMalformed {
		t.Errorf("reason = %s, want malformed output", outcome.Reason)
	}
}

func TestSingleAgent_NoRetry(t *testing.T) {
	calls := 0
	counting := llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		return "", errors.New("provider down")
	})
	m := NewSingleAgent(counting, "model", logging.Nop())

	m.Resolve(context.Background(), startingPosition(t))

	if calls != 1 {
		t.Errorf("single agent made %d proposer calls, want exactly 1", calls)
	}
}
