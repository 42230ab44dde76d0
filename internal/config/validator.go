package config

import (
	"fmt"
	"strings"
)

// knownMethods is the closed set of benchmarkable method names.
var knownMethods = map[string]bool{
	"single":  true,
	"debate":  true,
	"manager": true,
}

// Validate checks the configuration for values the harness cannot run with.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Corpus.File) == "" {
		return fmt.Errorf("corpus.file must be set")
	}
	if c.Corpus.MaxPositions < 0 {
		return fmt.Errorf("corpus.max_positions must be >= 0, got %d", c.Corpus.MaxPositions)
	}

	if strings.TrimSpace(c.Engine.Path) == "" {
		return fmt.Errorf("engine.path must be set")
	}
	if c.Engine.Depth < 1 {
		return fmt.Errorf("engine.depth must be >= 1, got %d", c.Engine.Depth)
	}
	if c.Engine.EvalTimeout <= 0 {
		return fmt.Errorf("engine.eval_timeout must be positive, got %s", c.Engine.EvalTimeout)
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model must be set")
	}
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("llm.request_timeout must be positive, got %s", c.LLM.RequestTimeout)
	}

	if len(c.Experiment.Methods) == 0 {
		return fmt.Errorf("experiment.methods must name at least one method")
	}
	seen := map[string]bool{}
	for _, name := range c.Experiment.Methods {
		name = strings.ToLower(strings.TrimSpace(name))
		if !knownMethods[name] {
			return fmt.Errorf("experiment.methods contains unknown method %q (options: single, debate, manager)", name)
		}
		if seen[name] {
			return fmt.Errorf("experiment.methods lists %q twice", name)
		}
		seen[name] = true
	}
	if c.Experiment.DebateRounds < 1 {
		return fmt.Errorf("experiment.debate_rounds must be >= 1, got %d", c.Experiment.DebateRounds)
	}
	if c.Experiment.ManagerResubmits < 0 {
		return fmt.Errorf("experiment.manager_resubmits must be >= 0, got %d", c.Experiment.ManagerResubmits)
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR", "":
	default:
		return fmt.Errorf("logging.level must be DEBUG, INFO, WARN or ERROR, got %q", c.Logging.Level)
	}

	return nil
}
