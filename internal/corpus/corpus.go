// Package corpus loads the ordered sequence of starting positions the
// experiment runs against: a text file with one FEN per line.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"chessbench/internal/board"
)

// Entry is one corpus line that parsed into a playable position.
type Entry struct {
	// Line is the 1-based line number in the source file.
	Line int
	// Raw is the FEN exactly as it appeared in the file.
	Raw string
	// Position is the parsed, standardized position.
	Position *board.Position
}

// Skipped records a corpus line that could not be used.
type Skipped struct {
	Line   int
	Raw    string
	Reason string
}

// Corpus is the loaded position sequence, in file order.
type Corpus struct {
	Entries []Entry
	Skipped []Skipped
}

// Load reads FENs from path. Blank lines are ignored; lines that fail to
// parse are recorded in Skipped rather than aborting the load, so one bad
// line never costs the rest of the corpus. If max > 0 the result is
// truncated to the first max playable positions.
func Load(path string, max int) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	c := &Corpus{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if max > 0 && len(c.Entries) >= max {
			break
		}
		pos, err := board.FromFEN(raw)
		if err != nil {
			c.Skipped = append(c.Skipped, Skipped{Line: line, Raw: raw, Reason: err.Error()})
			continue
		}
		c.Entries = append(c.Entries, Entry{Line: line, Raw: raw, Position: pos})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return c, nil
}

// Len returns the number of playable positions.
func (c *Corpus) Len() int { return len(c.Entries) }
