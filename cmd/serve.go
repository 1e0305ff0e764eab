package cmd

import (
	"blog-service/config"
	"blog-service/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		server.StartServer(config.Load())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
