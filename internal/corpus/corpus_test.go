package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"chessbench/internal/board"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fens.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write corpus file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCorpus(t, board.StartingFEN+"\n\n"+
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3\n")

	c, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if len(c.Skipped) != 0 {
		t.Errorf("expected no skipped lines, got %d", len(c.Skipped))
	}
	if c.Entries[0].Line != 1 || c.Entries[1].Line != 3 {
		t.Errorf("unexpected line numbers: %d, %d", c.Entries[0].Line, c.Entries[1].Line)
	}
}

func TestLoad_SkipsInvalidLines(t *testing.T) {
	path := writeCorpus(t, "garbage line\n"+board.StartingFEN+"\n")

	c, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	if len(c.Skipped) != 1 {
		t.Fatalf("expected 1 skipped line, got %d", len(c.Skipped))
	}
	if c.Skipped[0].Line != 1 {
		t.Errorf("expected skip on line 1, got %d", c.Skipped[0].Line)
	}
}

func TestLoad_Truncation(t *testing.T) {
	content := ""
	for i := 0; i < 5; i++ {
		content += board.StartingFEN + "\n"
	}
	path := writeCorpus(t, content)

	c, err := Load(path, 3)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("expected truncation to 3 entries, got %d", c.Len())
	}
}

func TestLoad_Empty(t *testing.T) {
	path := writeCorpus(t, "\n\n")

	c, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty corpus, got %d entries", c.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt"), 0); err == nil {
		t.Error("Load of missing file should fail")
	}
}
