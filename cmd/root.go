package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wwjtop/server"
)

var rootCmd = &cobra.Command{
	Use:   "wwjtop_server",
	Short: "wwjtop is the content backend for the woowonjae.top personal site.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
