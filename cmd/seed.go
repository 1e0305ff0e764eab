package cmd

import (
	"context"
	"os"

	"blog-service/config"
	"blog-service/database"
	"blog-service/server"
	"blog-service/store"

	"github.com/spf13/cobra"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin user and sample posts if they are missing",
	Args:  cobra.NoArgs,
	Run:   seed,
}

func init() {
	RootCmd.AddCommand(seedCmd)
}

func seed(cmd *cobra.Command, args []string) {
	server.InitLogger()
	cfg := config.Load()

	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	if err := database.Seed(context.Background(), store.New(dbConn), cfg.BcryptCost); err != nil {
		logger.Error("Seed failed", zap.Error(err))
		dbConn.Close()
		os.Exit(1)
	}
}
