package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMoveAgent_Propose(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{"json reply", `{"move": "e2e4"}`, "e2e4", false},
		{"fenced json", "```json\n{\"move\": \"g1f3\"}\n```", "g1f3", false},
		{"prose fallback", "The best move is d2d4.", "d2d4", false},
		{"no move at all", "I refuse to answer.", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := NewMoveAgent(ClientFunc(func(ctx context.Context, req Request) (string, error) {
				return tt.reply, nil
			}), "test-model")

			got, err := agent.Propose(context.Background(), "fen", []string{"e2e4", "d2d4", "g1f3"})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got move %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Propose failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Propose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveAgent_ProposerError(t *testing.T) {
	wantErr := errors.New("provider down")
	agent := NewMoveAgent(ClientFunc(func(ctx context.Context, req Request) (string, error) {
		return "", wantErr
	}), "test-model")

	if _, err := agent.Propose(context.Background(), "fen", []string{"e2e4"}); !errors.Is(err, wantErr) {
		t.Errorf("Propose error = %v, want wrapped %v", err, wantErr)
	}
}

func TestMoveAgent_PromptContents(t *testing.T) {
	var captured Request
	agent := NewMoveAgent(ClientFunc(func(ctx context.Context, req Request) (string, error) {
		captured = req
		return `{"move": "e2e4"}`, nil
	}), "test-model")

	if _, err := agent.Propose(context.Background(), "some-fen", []string{"e2e4", "d2d4"}); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %q, want test-model", captured.Model)
	}
	if !captured.ForceJSON {
		t.Error("Propose should request JSON response mode")
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(captured.Messages))
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "some-fen") {
		t.Error("user prompt should contain the FEN")
	}
	if !strings.Contains(user, "e2e4 d2d4") {
		t.Error("user prompt should list the legal moves")
	}
}
