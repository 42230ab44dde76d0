package internal

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGofmtCompliance verifies that every Go source file under internal/
// and cmd/ is gofmt-formatted.
//
// If this test fails, run: gofmt -w ./internal/ ./cmd/
func TestGofmtCompliance(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	// The test runs from internal/; the module root is one level up.
	moduleRoot := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		moduleRoot = wd
	}

	var unformatted []string
	for _, dir := range []string{
		filepath.Join(moduleRoot, "internal"),
		filepath.Join(moduleRoot, "cmd"),
	} {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == "vendor" || strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			formatted, err := format.Source(content)
			if err != nil {
				// Files that don't parse are someone else's failing test.
				return nil
			}
			if !bytes.Equal(content, formatted) {
				relPath, _ := filepath.Rel(moduleRoot, path)
				unformatted = append(unformatted, relPath)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to walk directory %s: %v", dir, err)
		}
	}

	if len(unformatted) > 0 {
		t.Errorf("The following files are not gofmt-formatted:\n")
		for _, f := range unformatted {
			t.Errorf("  - %s\n", f)
		}
		t.Errorf("\nRun 'gofmt -w ./internal/ ./cmd/' to fix them.")
	}
}
