// Package cli implements the strategy-ai command line: an interactive chat
// loop plus read-only recommend and insights commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type wireFunc func(cmd *cobra.Command) (*app, error)

type globalFlags struct {
	configPath string
	logLevel   string
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Services are wired per command, after
// flags are parsed.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "strategy-ai",
		Short:         "Game strategy advisor that learns from your results",
		Long:          "strategy-ai gives strategy advice for a described game situation, remembers which strategies worked for you and personalizes later advice from that history.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $HOME/.game-strategy-ai/config.{toml,yaml})")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	wire := func(cmd *cobra.Command) (*app, error) {
		return wireApp(cmd.Context(), flags, cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(wire),
		newRecommendCmd(wire),
		newInsightsCmd(wire),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("strategy-ai " + Version + "\n"))
			return err
		},
	}
}
