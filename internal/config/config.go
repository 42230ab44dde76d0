// Package config defines the chessbench configuration, loaded via viper
// from a config file, environment variables, and defaults. Configuration is
// an explicitly constructed value handed to the harness at startup; nothing
// here is ambient mutable state.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the complete chessbench configuration.
type Config struct {
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Engine     EngineConfig     `mapstructure:"engine"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// CorpusConfig controls the FEN corpus source.
type CorpusConfig struct {
	// File is the path to the FEN corpus, one position per line.
	File string `mapstructure:"file"`
	// MaxPositions truncates the corpus to the first N positions (0 = all).
	MaxPositions int `mapstructure:"max_positions"`
}

// EngineConfig controls the external evaluation engine.
type EngineConfig struct {
	// Path is the engine executable ("stockfish" resolved on PATH by default).
	Path string `mapstructure:"path"`
	// Depth is the fixed search depth used for every evaluation, so scores
	// across methods stay directly comparable.
	Depth int `mapstructure:"depth"`
	// EvalTimeout bounds one evaluation call; exceeding it is an evaluator
	// failure for that call, never a crash of the run.
	EvalTimeout time.Duration `mapstructure:"eval_timeout"`
}

// LLMConfig controls the proposer backend.
type LLMConfig struct {
	// Backend selects the provider client. Options: "openai".
	Backend string `mapstructure:"backend"`
	// BaseURL overrides the provider endpoint (any OpenAI-compatible server).
	BaseURL string `mapstructure:"base_url"`
	// APIKey authenticates requests; falls back to OPENAI_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// Model is the default model for every role.
	Model string `mapstructure:"model"`
	// ManagerModel overrides Model for the manager role (empty = Model).
	ManagerModel string `mapstructure:"manager_model"`
	// AnalystModel overrides Model for analyst roles (empty = Model).
	AnalystModel string `mapstructure:"analyst_model"`
	// RequestTimeout bounds one completion call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ExperimentConfig controls which methods run and their protocol bounds.
type ExperimentConfig struct {
	// Methods lists the methods to benchmark.
	// Options: "single", "debate", "manager".
	Methods []string `mapstructure:"methods"`
	// DebateRounds is the fixed debate round count. The debate always runs
	// the full count; there is no early exit on agreement.
	DebateRounds int `mapstructure:"debate_rounds"`
	// ManagerResubmits caps how many times the manager may redraft after an
	// illegality verdict before the method gives up.
	ManagerResubmits int `mapstructure:"manager_resubmits"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// File is the log destination; empty logs to stderr.
	File string `mapstructure:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			File:         "positions.txt",
			MaxPositions: 0,
		},
		Engine: EngineConfig{
			Path:        "stockfish",
			Depth:       15,
			EvalTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Backend:        "openai",
			Model:          "gpt-4.1",
			RequestTimeout: 60 * time.Second,
		},
		Experiment: ExperimentConfig{
			Methods:          []string{"single", "debate", "manager"},
			DebateRounds:     4,
			ManagerResubmits: 2,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("corpus.file", defaults.Corpus.File)
	viper.SetDefault("corpus.max_positions", defaults.Corpus.MaxPositions)

	viper.SetDefault("engine.path", defaults.Engine.Path)
	viper.SetDefault("engine.depth", defaults.Engine.Depth)
	viper.SetDefault("engine.eval_timeout", defaults.Engine.EvalTimeout)

	viper.SetDefault("llm.backend", defaults.LLM.Backend)
	viper.SetDefault("llm.base_url", defaults.LLM.BaseURL)
	viper.SetDefault("llm.api_key", defaults.LLM.APIKey)
	viper.SetDefault("llm.model", defaults.LLM.Model)
	viper.SetDefault("llm.manager_model", defaults.LLM.ManagerModel)
	viper.SetDefault("llm.analyst_model", defaults.LLM.AnalystModel)
	viper.SetDefault("llm.request_timeout", defaults.LLM.RequestTimeout)

	viper.SetDefault("experiment.methods", defaults.Experiment.Methods)
	viper.SetDefault("experiment.debate_rounds", defaults.Experiment.DebateRounds)
	viper.SetDefault("experiment.manager_resubmits", defaults.Experiment.ManagerResubmits)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load unmarshals the current viper state into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvedManagerModel resolves the model for the manager role.
func (c *LLMConfig) ResolvedManagerModel() string {
	if c.ManagerModel != "" {
		return c.ManagerModel
	}
	return c.Model
}

// ResolvedAnalystModel resolves the model for analyst roles.
func (c *LLMConfig) ResolvedAnalystModel() string {
	if c.AnalystModel != "" {
		return c.AnalystModel
	}
	return c.Model
}
