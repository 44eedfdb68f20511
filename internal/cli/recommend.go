package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRecommendCmd(wire wireFunc) *cobra.Command {
	var userID, gameType string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the personalized recommendation for a player and game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeJSON(cmd.OutOrStdout(), a.coach.Recommend(userID, gameType))
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "player id")
	cmd.Flags().StringVar(&gameType, "game", "", "game")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
