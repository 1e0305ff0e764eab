package cmd

import (
	"fmt"
	"os"

	"blog-service/config"
	"blog-service/server"

	"github.com/spf13/cobra"
)

// RootCmd starts the server when called without a subcommand
var RootCmd = &cobra.Command{
	Use:   "blog-service [command]",
	Short: "Blog backend: users, posts and comments over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		server.StartServer(config.Load())
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
