package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/accountkeeper/internal/client/cli"
	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/client/services"
	"github.com/dmitrijs2005/accountkeeper/internal/client/storage"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	openCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	repo, closeRepo, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Warn(ctx, "failed to close store", "error", err)
		}
	}()
	logger.Info(ctx, "store opened", "backend", cfg.StoreBackend)

	manager := services.NewSessionManager(accounts.NewStore(repo, logger), repo, logger)
	return cli.NewApp(cfg, manager, os.Stdin, os.Stdout).Run(ctx)
}
