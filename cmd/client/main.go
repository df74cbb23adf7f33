package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/moodiary/internal/buildinfo"
	"github.com/dmitrijs2005/moodiary/internal/client/cli"
	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/config"
	"github.com/dmitrijs2005/moodiary/internal/client/state"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, "text", cfg.LogLevel)

	for _, w := range cfg.Warnings {
		logger.Warn(ctx, "configuration", "warning", w)
	}

	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer repos.DB.Close()

	apiClient, err := client.NewDiaryClient(ctx, cfg.ServiceURL, cfg.ServiceKey, client.NewMetadataTokenStore(repos.DB))
	if err != nil {
		log.Fatalf("error creating client: %v", err)
	}
	defer apiClient.Close()

	st := state.New(apiClient, cfg, cli.ToastPrinter(os.Stdout), logger)
	app := cli.NewApp(cfg, apiClient, st, repos.Metadata, logger, os.Stdin, os.Stdout)

	app.Run(ctx)

}
