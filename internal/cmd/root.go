package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chessbench/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "chessbench",
	Short: "Benchmark LLM agent architectures at chess move selection",
	Long: `Chessbench runs several LLM move-selection architectures over a corpus
of chess positions and compares them with a shared engine evaluation:
on each position, the method whose move the engine likes best earns
the point, and exact ties split it.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/chessbench/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.config/chessbench")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHESSBENCH")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CHESSBENCH_ENGINE_DEPTH for engine.depth
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
