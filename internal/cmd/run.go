package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chessbench/internal/config"
	"chessbench/internal/corpus"
	"chessbench/internal/eval"
	"chessbench/internal/event"
	"chessbench/internal/harness"
	"chessbench/internal/llm"
	"chessbench/internal/logging"
	"chessbench/internal/method"
	"chessbench/internal/score"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the method comparison over a FEN corpus",
	Long: `Run plays every configured method against every corpus position,
evaluates the surviving moves with the engine, and prints the
comparative score report.`,
	RunE: runExperiment,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("corpus", "", "path to the FEN corpus file")
	runCmd.Flags().Int("positions", 0, "truncate the corpus to the first N positions (0 = all)")
	runCmd.Flags().String("engine", "", "path to the UCI evaluation engine")
	runCmd.Flags().Int("depth", 0, "engine search depth per evaluation")
	runCmd.Flags().StringSlice("methods", nil, "methods to benchmark (single, debate, manager)")

	_ = viper.BindPFlag("corpus.file", runCmd.Flags().Lookup("corpus"))
	_ = viper.BindPFlag("corpus.max_positions", runCmd.Flags().Lookup("positions"))
	_ = viper.BindPFlag("engine.path", runCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("engine.depth", runCmd.Flags().Lookup("depth"))
	_ = viper.BindPFlag("experiment.methods", runCmd.Flags().Lookup("methods"))
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Close()

	client, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		return err
	}
	methods, err := buildMethods(cfg, client, log)
	if err != nil {
		return err
	}

	c, err := corpus.Load(cfg.Corpus.File, cfg.Corpus.MaxPositions)
	if err != nil {
		return err
	}
	for _, s := range c.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping corpus line %d: %s\n", s.Line, s.Reason)
	}
	if c.Len() == 0 {
		return fmt.Errorf("corpus %s contains no playable positions", cfg.Corpus.File)
	}

	evaluator, err := eval.NewEngine(cfg.Engine.Path, cfg.Engine.Depth, cfg.Engine.EvalTimeout)
	if err != nil {
		return err
	}
	defer evaluator.Close()

	bus := event.NewBus()
	bus.Subscribe("position.started", func(e event.Event) {
		ev := e.(event.PositionStartedEvent)
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", ev.Index+1, ev.Total, ev.FEN)
	})
	bus.Subscribe("method.resolved", func(e event.Event) {
		ev := e.(event.MethodResolvedEvent)
		if ev.Accepted {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %s\n", ev.Method, ev.Move)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-8s rejected (%s)\n", ev.Method, ev.Reason)
		}
	})

	res, err := harness.New(methods, evaluator, bus, log).Run(cmd.Context(), c)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), score.RenderReport(res.Totals, res.Positions, res.Elapsed))
	return nil
}

// buildMethods instantiates the configured methods in config order.
func buildMethods(cfg *config.Config, client llm.Client, log *logging.Logger) ([]method.Method, error) {
	methods := make([]method.Method, 0, len(cfg.Experiment.Methods))
	for _, name := range cfg.Experiment.Methods {
		switch name {
		case "single":
			methods = append(methods, method.NewSingleAgent(client, cfg.LLM.Model, log))
		case "debate":
			methods = append(methods, method.NewTwoAgentDebate(client, cfg.LLM.Model, cfg.Experiment.DebateRounds, log))
		case "manager":
			methods = append(methods, method.NewManagerAnalysts(
				client, cfg.LLM.ResolvedManagerModel(), cfg.LLM.ResolvedAnalystModel(),
				cfg.Experiment.ManagerResubmits, log))
		default:
			return nil, fmt.Errorf("unknown method %q", name)
		}
	}
	return methods, nil
}
