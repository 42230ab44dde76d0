package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"chessbench/internal/board"
	"chessbench/internal/config"
	"chessbench/internal/logging"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "chessbench" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "chessbench")
	}

	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range []string{"run", "corpus", "version"} {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "chessbench") {
		t.Errorf("version output = %q, want it to name the binary", out)
	}
}

func TestCorpusCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.fen")
	data := board.StartingFEN + "\nnot a fen\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}

	out, err := executeCommand(rootCmd, "corpus", path)
	if err != nil {
		t.Fatalf("corpus failed: %v", err)
	}
	if !strings.Contains(out, "1 playable positions") || !strings.Contains(out, "1 skipped") {
		t.Errorf("corpus output = %q, want playable and skipped counts", out)
	}
}

func configWithMethods(methods ...string) *config.Config {
	cfg := config.Default()
	cfg.Experiment.Methods = methods
	return cfg
}

func TestBuildMethods_UnknownMethod(t *testing.T) {
	cfg := configWithMethods("single", "telepathy")
	if _, err := buildMethods(cfg, nil, logging.Nop()); err == nil {
		t.Error("expected error for unknown method name")
	}
}

func TestBuildMethods_ConfigOrder(t *testing.T) {
	cfg := configWithMethods("manager", "single", "debate")
	methods, err := buildMethods(cfg, nil, logging.Nop())
	if err != nil {
		t.Fatalf("buildMethods failed: %v", err)
	}
	var names []string
	for _, m := range methods {
		names = append(names, m.Name())
	}
	if got := strings.Join(names, ","); got != "manager,single,debate" {
		t.Errorf("method order = %s, want manager,single,debate", got)
	}
}
