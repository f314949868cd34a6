// Command simpledi runs the container examples, prints resolution counters
// and serves the HTTP inspector.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// envFiles is shared by every command that builds an application.
var envFiles []string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simpledi",
		Short:         "Dependency injection container demo and inspector",
		Long:          "simpledi runs the container examples, prints resolution counters and serves the HTTP inspector.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(newExampleCmd())
	rootCmd.AddCommand(newCountsCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}
