package cmd

import (
	"github.com/spf13/cobra"

	"wwjtop/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the wwjtop HTTP server",
	Long:  `Start the HTTP server providing the auth and content API for the site.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
