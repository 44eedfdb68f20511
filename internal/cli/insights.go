package cli

import (
	"github.com/spf13/cobra"
)

func newInsightsCmd(wire wireFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print learning statistics across all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeJSON(cmd.OutOrStdout(), a.coach.Insights())
		},
	}
}
