package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"vegtrend/adapters/excel"
	"vegtrend/adapters/postgres"
	"vegtrend/app"
	"vegtrend/domain/core"
	"vegtrend/domain/report"
	"vegtrend/internal"
	"vegtrend/internal/config"
	"vegtrend/internal/testkit"
	"vegtrend/ports"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "vegtrend",
		Short: "Trend and spatial analysis for vegetation index rasters",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze synthetic index stacks and export the results",
		Long: `Run the full statistic suite over seeded synthetic stacks, write the
workbook named by OUTPUT_XLSX, and persist to DATABASE_URL when set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full run result as JSON")
	return cmd
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [index]",
		Short: "Print the trend suite for one declining synthetic index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			key := core.IndexKey("ndvi")
			if len(args) == 1 {
				key, err = core.ParseIndexKey(args[0])
				if err != nil {
					return err
				}
			}

			provider := testkit.NewMemoryProvider()
			stack, err := testkit.TrendStack(12, 12, 24, 15, 0.62, -0.0012, 0.01, 7)
			if err != nil {
				return err
			}
			provider.Add(key, stack)

			service := app.NewAnalysisService(cfg.Service, provider, internal.DefaultLogger)
			rep := service.AnalyzeIndex(cmd.Context(), key)

			out, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func runAnalysis(ctx context.Context, jsonOut bool) error {
	logger := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider, err := buildProvider()
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(cfg.Service, provider, logger)
	result, err := service.Run(ctx)
	if err != nil {
		return err
	}

	writer := excel.NewWriter(cfg.Output.WorkbookPath)
	if err := writer.Export(ctx, result); err != nil {
		return err
	}
	logger.Info("workbook written to %s", cfg.Output.WorkbookPath)

	if cfg.Database.Enabled {
		if err := saveRun(ctx, cfg.Database.URL, result); err != nil {
			return err
		}
		logger.Info("run %s persisted", result.RunID)
	}

	if jsonOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, rep := range result.Reports {
		status := "ok"
		if len(rep.Failures) > 0 {
			status = fmt.Sprintf("%d failures", len(rep.Failures))
		}
		if rep.Trend != nil {
			fmt.Printf("%-8s %s  slope=%.6f/day  p=%.4f  (%s)\n",
				rep.Key, status, rep.Trend.Slope, rep.Trend.PValue, rep.Trend.Classification)
		} else {
			fmt.Printf("%-8s %s\n", rep.Key, status)
		}
	}
	return nil
}

// buildProvider seeds three synthetic index stacks with distinct regimes:
// a decline, a recovery, and a flat series with a hot block.
func buildProvider() (ports.GridProvider, error) {
	provider := testkit.NewMemoryProvider()

	declining, err := testkit.TrendStack(16, 16, 30, 12, 0.68, -0.0015, 0.008, 42)
	if err != nil {
		return nil, err
	}
	provider.Add(core.IndexKey("ndvi"), declining)

	recovering, err := testkit.TrendStack(16, 16, 30, 12, 0.35, 0.0011, 0.008, 43)
	if err != nil {
		return nil, err
	}
	provider.Add(core.IndexKey("savi"), recovering)

	stable, err := testkit.TrendStack(16, 16, 30, 12, 0.50, 0, 0.01, 44)
	if err != nil {
		return nil, err
	}
	provider.Add(core.IndexKey("evi"), stable)

	return provider, nil
}

func saveRun(ctx context.Context, url string, result *report.RunResult) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewRunRepository(db)
	return repo.SaveRun(ctx, result)
}
