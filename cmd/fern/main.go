package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/listing"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/linkage"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/pipeline"
	"github.com/Ramsey-B/fern/pkg/similarity"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

var (
	cfg    *config.Config
	logger ectologger.Logger
)

func main() {
	godotenv.Load()
	logger = newLogger()

	var err error
	cfg, err = config.Load()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	ctx := context.Background()
	shutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Exporter:    cfg.TracingExporter,
		OTLP:        otlpConfig(),
	})
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		os.Exit(1)
	}
	defer shutdown(ctx)

	rootCmd := &cobra.Command{
		Use:   "fern",
		Short: "Restaurant listing record linkage",
		Long:  `Classifies candidate pairs from two restaurant listings as matches, unmatches, or possible matches using labeled training pairs`,
	}

	rootCmd.AddCommand(createLinkCmd())
	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		shutdown(ctx)
		os.Exit(1)
	}
}

// newLogger builds the service logger with a JSON sink on stderr, keeping
// stdout free for result output
func newLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		line, err := json.Marshal(msg)
		if err != nil {
			return
		}
		fmt.Fprintln(os.Stderr, string(line))
	})
}

func otlpConfig() exporters.OTLPConfig {
	otlp := exporters.DefaultOTLPConfig()
	otlp.Endpoint = cfg.OTLPEndpoint
	otlp.Protocol = cfg.OTLPProtocol
	otlp.Insecure = cfg.OTLPInsecure
	return otlp
}

// openStore connects to the staging database and brings its schema current
func openStore(ctx context.Context) (database.DB, *listing.Repository, error) {
	db, err := database.Connect(cfg.DatabasePath, logger)
	if err != nil {
		return nil, nil, err
	}

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.MigrationFolderPath,
	})
	if err := migrations.Migrate(cfg.AppName, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, listing.NewRepository(db, logger), nil
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test staging database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.PingContext(ctx); err != nil {
				return err
			}
			fmt.Println("Staging database connection successful!")

			var listings, pairs int
			if err := db.GetContext(ctx, &listings, "SELECT COUNT(*) FROM listings"); err == nil {
				fmt.Printf("Listings staged: %d\n", listings)
			}
			if err := db.GetContext(ctx, &pairs, "SELECT COUNT(*) FROM training_pairs"); err == nil {
				fmt.Printf("Training pairs staged: %d\n", pairs)
			}
			return nil
		},
	}
}

func createImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import listings and training pairs into the staging store",
	}

	importCmd.AddCommand(createImportListingsCmd())
	importCmd.AddCommand(createImportPairsCmd())

	return importCmd
}

func createImportListingsCmd() *cobra.Command {
	var pathA, pathB string

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Import both listing CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, repo, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, in := range []struct {
				name string
				path string
			}{
				{cfg.DatasetAName, pathA},
				{cfg.DatasetBName, pathB},
			} {
				ds, err := dataset.LoadCSV(in.name, in.path)
				if err != nil {
					return err
				}
				if err := repo.ImportDataset(ctx, ds); err != nil {
					return err
				}
				fmt.Printf("Imported %d %s listings\n", ds.Len(), in.name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pathA, "dataset-a", cfg.DatasetAPath, "Path to the first listing CSV")
	cmd.Flags().StringVar(&pathB, "dataset-b", cfg.DatasetBPath, "Path to the second listing CSV")

	return cmd
}

func createImportPairsCmd() *cobra.Command {
	var matchesPath, unmatchesPath string

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Import the labeled training pair CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, repo, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, in := range []struct {
				class models.PairClass
				path  string
			}{
				{models.PairClassMatch, matchesPath},
				{models.PairClassUnmatch, unmatchesPath},
			} {
				pairs, err := dataset.LoadPairs(in.path)
				if err != nil {
					return err
				}
				if err := repo.ImportPairs(ctx, in.class, pairs); err != nil {
					return err
				}
				fmt.Printf("Imported %d %s pairs\n", len(pairs), in.class)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&matchesPath, "matches", cfg.KnownMatchesPath, "Path to the known-match pairs CSV")
	cmd.Flags().StringVar(&unmatchesPath, "unmatches", cfg.KnownUnmatchesPath, "Path to the known-unmatch pairs CSV")

	return cmd
}

func createLinkCmd() *cobra.Command {
	var (
		mu, lambda  float64
		blockOnCity bool
		workers     int
		outputPath  string
		fromDB      bool
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Train the label mapping and classify every candidate pair",
		Long:  `Estimates signature distributions from the labeled training pairs, assigns match/unmatch/possible-match labels under the mu and lambda error bounds, and writes one labeled row per candidate pair`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := loadRunRequest(ctx, fromDB)
			if err != nil {
				return err
			}
			req.Params = models.LinkageParams{Mu: mu, Lambda: lambda}

			out, closeOut, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			defer closeOut()

			engine := linkage.NewEngine(logger, similarity.NewScorer())
			driver := pipeline.NewDriver(logger, engine, pipeline.Config{
				BlockOnCity: blockOnCity,
				CityField:   cfg.CityField,
				WorkerCount: workers,
			})

			summary, err := driver.Run(ctx, req, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "\n=== Linkage Run %s ===\n", summary.RunID)
			fmt.Fprintf(os.Stderr, "Mu: %g  Lambda: %g\n", summary.Params.Mu, summary.Params.Lambda)
			fmt.Fprintf(os.Stderr, "Match signatures: %d\n", summary.MatchSignatures)
			fmt.Fprintf(os.Stderr, "Unmatch signatures: %d\n", summary.UnmatchSignatures)
			fmt.Fprintf(os.Stderr, "Ranked signatures: %d\n", summary.RankedSignatures)
			fmt.Fprintf(os.Stderr, "Labels: %d match, %d unmatch, %d possible\n",
				summary.LabelCounts[models.LabelMatch],
				summary.LabelCounts[models.LabelUnmatch],
				summary.LabelCounts[models.LabelPossible])
			return nil
		},
	}

	cmd.Flags().Float64Var(&mu, "mu", cfg.Mu, "Upper bound on false-positive probability mass")
	cmd.Flags().Float64Var(&lambda, "lambda", cfg.Lambda, "Upper bound on false-negative probability mass")
	cmd.Flags().BoolVar(&blockOnCity, "block-on-city", cfg.BlockOnCity, "Only classify pairs whose city fields match exactly")
	cmd.Flags().IntVar(&workers, "workers", cfg.LinkWorkerCount, "Number of parallel classification workers")
	cmd.Flags().StringVar(&outputPath, "output", cfg.OutputPath, "Result CSV path, or - for stdout")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Read listings and training pairs from the staging store instead of CSV files")

	return cmd
}

// loadRunRequest gathers datasets and training pairs from either the staging
// store or the configured CSV files
func loadRunRequest(ctx context.Context, fromDB bool) (linkage.RunRequest, error) {
	var req linkage.RunRequest

	if fromDB {
		db, repo, err := openStore(ctx)
		if err != nil {
			return req, err
		}
		defer db.Close()

		if req.DatasetA, err = repo.GetDataset(ctx, cfg.DatasetAName); err != nil {
			return req, err
		}
		if req.DatasetB, err = repo.GetDataset(ctx, cfg.DatasetBName); err != nil {
			return req, err
		}
		if req.KnownMatches, err = repo.GetPairs(ctx, models.PairClassMatch); err != nil {
			return req, err
		}
		if req.KnownUnmatches, err = repo.GetPairs(ctx, models.PairClassUnmatch); err != nil {
			return req, err
		}
		return req, nil
	}

	var err error
	if req.DatasetA, err = dataset.LoadCSV(cfg.DatasetAName, cfg.DatasetAPath); err != nil {
		return req, err
	}
	if req.DatasetB, err = dataset.LoadCSV(cfg.DatasetBName, cfg.DatasetBPath); err != nil {
		return req, err
	}
	if req.KnownMatches, err = dataset.LoadPairs(cfg.KnownMatchesPath); err != nil {
		return req, err
	}
	if req.KnownUnmatches, err = dataset.LoadPairs(cfg.KnownUnmatchesPath); err != nil {
		return req, err
	}
	return req, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
