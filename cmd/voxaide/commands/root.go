package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	globalConfig *Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxaide",
	Short: "Voice-first accessible news companion",
	Long: `voxaide is a voice-first dialogue companion for configuring reading
accessibility and listening to the news.

Without flags it opens a terminal session where typed text stands in for
the microphone. With --voice and a configured Deepgram key it listens and
speaks through the default audio devices.

Configuration lives in ~/.voxaide/config.yaml.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), sessionNews)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.voxaide/config.yaml)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(newsCmd)
}

// configErr stores the config load error for deferred reporting, so a broken
// config file surfaces on the command instead of aborting flag parsing.
var configErr error

func initConfig() {
	globalConfig, configErr = loadConfig(cfgFile)
	if globalConfig == nil {
		globalConfig = &Config{}
	}
}
