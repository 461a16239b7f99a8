package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/config"
	"github.com/vanshika/vizdash/internal/datasource"
	"github.com/vanshika/vizdash/internal/graph"
	"github.com/vanshika/vizdash/internal/logging"
	"github.com/vanshika/vizdash/internal/repository"
	"github.com/vanshika/vizdash/internal/server"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vizdash-server",
	Short: "Serve the aid and election dashboards",
	Long: `Serve the dashboard datasets under /data and hold one page session per
browser tab. Sessions load their data in the background and push change
topics over a websocket while the browser sends brush, select, hover and
zoom gestures back.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional config file (keys use the environment variable names)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	fetcher := datasource.NewFetcher(cfg.Data.BaseURL, cfg.Data.Dir, uint64(cfg.Data.FetchRetries), cfg.Data.FetchTimeout)
	fileAid := datasource.NewFileAidSource(fetcher)

	var (
		aidSource   datasource.AidSource = fileAid
		graphClient graph.Client
	)
	if cfg.Data.TransactionsSource == config.SourceGraph {
		graphClient, err = graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg.Graph))
		if err != nil {
			logger.Error("failed to connect to graph database", zap.Error(err))
			return err
		}
		defer func() {
			if cerr := graphClient.Close(context.Background()); cerr != nil {
				logger.Warn("failed to close graph client", zap.Error(cerr))
			}
		}()
		aidSource = datasource.NewGraphAidSource(fileAid, repository.New(graphClient))
		logger.Info("aid transactions served from graph database", zap.String("uri", cfg.Graph.URI))
	}

	sessions := server.NewSessions(server.Sources{
		Aid:      aidSource,
		Election: datasource.NewFileElectionSource(fetcher),
	}, logger)
	defer sessions.Close()

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.GraphHealthService{Client: graphClient},
		Sessions:       sessions,
		DataDir:        cfg.Data.Dir,
		AllowedOrigins: cfg.HTTP.AllowedOrigins(),
	})
	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", zap.Error(err))
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	logger.Info("server stopped")
	return nil
}
