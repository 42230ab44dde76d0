package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chessbench/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus [file]",
	Short: "Validate a FEN corpus file",
	Long: `Corpus parses each line of a FEN file and reports which positions are
playable, without contacting any model or engine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
}

func runCorpus(cmd *cobra.Command, args []string) error {
	path := viper.GetString("corpus.file")
	if len(args) > 0 {
		path = args[0]
	}

	c, err := corpus.Load(path, 0)
	if err != nil {
		return err
	}

	for _, s := range c.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "line %d: unplayable (%s): %s\n", s.Line, s.Reason, s.Raw)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d playable positions, %d skipped\n",
		path, c.Len(), len(c.Skipped))
	if c.Len() == 0 {
		return fmt.Errorf("no playable positions in %s", path)
	}
	return nil
}
