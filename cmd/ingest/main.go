package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/config"
	"github.com/vanshika/vizdash/internal/datasource"
	"github.com/vanshika/vizdash/internal/graph"
	"github.com/vanshika/vizdash/internal/logging"
	"github.com/vanshika/vizdash/internal/repository"
	"github.com/vanshika/vizdash/internal/service"
)

var (
	configPath string
	inputFile  string
	workers    int
	chunkSize  int
	reset      bool
)

var rootCmd = &cobra.Command{
	Use:   "vizdash-ingest",
	Short: "Load aid transactions into the graph database",
	Long: `Read the aid transactions CSV, merge duplicate donor, recipient and year
rows, and upsert them as DONATED relationships between Entity nodes. The
server reads them back when AID_TRANSACTIONS_SOURCE=graph.`,
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional config file (keys use the environment variable names)")
	rootCmd.Flags().StringVar(&inputFile, "file", "", "aid transactions CSV (default <DATA_DIR>/"+datasource.PathAidTransactions+")")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent write workers")
	rootCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "transactions per write chunk")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "delete every entity and donation before ingesting")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("ingest")

	path := inputFile
	if path == "" {
		path = filepath.Join(cfg.Data.Dir, filepath.FromSlash(datasource.PathAidTransactions))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	txs, err := datasource.ParseAidTransactions(data)
	if err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	if len(txs) == 0 {
		return errors.Newf("%s holds no transactions", path)
	}

	ctx := cmd.Context()
	client, err := buildGraphClient(ctx, logger, cfg.Graph)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(context.Background()); cerr != nil {
			logger.Warn("closing graph client failed", zap.Error(cerr))
		}
	}()

	repo := repository.New(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if reset {
		if err := repo.Reset(ctx); err != nil {
			return err
		}
		logger.Info("graph reset")
	}

	start := time.Now()
	logger.Info("ingesting aid transactions", zap.String("path", path), zap.Int("rows", len(txs)), zap.Int("workers", workers))
	report, err := service.NewBulkIngestor(repo, workers, logger).WithChunkSize(chunkSize).Ingest(ctx, txs)
	fields := []zap.Field{
		zap.Int("read", report.Read),
		zap.Int("dropped", report.Dropped),
		zap.Int("merged", report.Merged),
		zap.Int("written", report.Written),
		zap.Int("chunks", report.Chunks),
		zap.Int("failed_chunks", report.Failed),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		logger.Error("ingestion failed", append(fields, zap.Error(err))...)
		return err
	}

	entities, donations, err := repo.Counts(ctx)
	if err != nil {
		logger.Warn("counting graph contents failed", zap.Error(err))
	} else {
		fields = append(fields, zap.Int("entities", entities), zap.Int("donations", donations))
	}
	logger.Info("ingestion complete", fields...)
	return nil
}

func buildGraphClient(ctx context.Context, logger *zap.Logger, cfg config.GraphConfig) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("GRAPH_URI is required for ingestion")
	}
	client, err := graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", zap.String("uri", cfg.URI), zap.String("database", cfg.Database))
	return client, nil
}
