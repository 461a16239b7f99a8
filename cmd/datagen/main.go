package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vanshika/vizdash/internal/config"
	"github.com/vanshika/vizdash/internal/generator"
)

var (
	genCfg     = generator.DefaultConfig()
	configPath string
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:   "vizdash-datagen",
	Short: "Generate synthetic dashboard datasets",
	Long: `Write a deterministic synthetic copy of every dashboard file: country
shapes and aid transactions for the aid page, constituency shapes,
constituency records and results for the election page. The layout matches
what the server serves under /data.`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "optional config file; DATA_DIR is the default output directory")
	f.StringVar(&outputDir, "output", "", "output directory (default DATA_DIR)")

	f.IntVar(&genCfg.Countries, "countries", genCfg.Countries, "number of countries")
	f.IntVar(&genCfg.Organizations, "organizations", genCfg.Organizations, "number of non-country donors")
	f.IntVar(&genCfg.Transactions, "transactions", genCfg.Transactions, "number of aid transactions")
	f.IntVar(&genCfg.StartYear, "start-year", genCfg.StartYear, "first aid year")
	f.IntVar(&genCfg.EndYear, "end-year", genCfg.EndYear, "last aid year")
	f.Float64Var(&genCfg.SentinelShare, "sentinel-share", genCfg.SentinelShare, "fraction of transactions with an unknown year")

	f.IntVar(&genCfg.States, "states", genCfg.States, "number of states")
	f.IntVar(&genCfg.UnionTerritories, "union-territories", genCfg.UnionTerritories, "number of union territories")
	f.IntVar(&genCfg.SeatsPerState, "seats-per-state", genCfg.SeatsPerState, "constituencies per state")
	f.IntVar(&genCfg.CandidatesPerSeat, "candidates-per-seat", genCfg.CandidatesPerSeat, "candidates contesting each seat")
	f.IntVar(&genCfg.MaxVotesPerSeat, "max-votes", genCfg.MaxVotesPerSeat, "upper bound of votes cast per seat")
	f.Float64Var(&genCfg.PostalVoteFraction, "postal-fraction", genCfg.PostalVoteFraction, "share of votes cast by post")

	f.Int64Var(&genCfg.Seed, "seed", genCfg.Seed, "random seed for deterministic generation")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	dir := outputDir
	if dir == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		dir = cfg.Data.Dir
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		return errors.Wrap(err, "generate dataset")
	}
	if err := generator.WriteDataset(dataset, dir); err != nil {
		return errors.Wrap(err, "write dataset")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d countries, %d transactions, %d constituencies and %d results into %s\n",
		len(dataset.Countries), len(dataset.Transactions), len(dataset.Constituencies), len(dataset.Results), dir)
	return nil
}
