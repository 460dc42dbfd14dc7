package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "broadside",
	Short: "Broadside is a satirical publication server",
	Long: `The Broadside Press web server: serves the reader-facing site and the
admin session API behind it.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
