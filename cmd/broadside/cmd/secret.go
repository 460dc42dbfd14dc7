package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broadside-press/broadside/internal/util"
)

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Generate a session signing secret",
	Long:  `Prints a freshly generated random value suitable for SESSION_SECRET.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := util.RandomHex(32)
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		fmt.Println(secret)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genSecretCmd)
}
