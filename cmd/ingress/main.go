package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/analytics"
	"github.com/tastelab/recipe-ingress/pkg/charts"
	"github.com/tastelab/recipe-ingress/pkg/config"
	"github.com/tastelab/recipe-ingress/pkg/logging"
	"github.com/tastelab/recipe-ingress/pkg/pipeline"
	"github.com/tastelab/recipe-ingress/pkg/source"
	"github.com/tastelab/recipe-ingress/pkg/tabular"
	"github.com/tastelab/recipe-ingress/pkg/validator"
)

func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*source.Store, error) {
	store, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open document source: %w", err)
	}
	return store, nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	seeder, err := source.NewSeeder(store, cfg.Seed)
	if err != nil {
		return err
	}
	return seeder.Run(ctx)
}

func runETL(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Validate(); err != nil {
		return err
	}

	p, err := pipeline.New(store, cfg)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d rows to %s in %s\n", result.TotalRows(), result.OutputDir, result.Duration.Round(0))
	fmt.Printf("Quality report: %s (%d hard violations, %d warnings)\n",
		result.ReportPath, result.HardViolations, result.Warnings)
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tables, err := tabular.ReadTables(cfg.OutputDir)
	if err != nil {
		return err
	}

	report := validator.New().Validate(tables)
	rendered := report.Render(cfg.SampleLimit)
	if err := os.WriteFile(cfg.ReportFile, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}

	fmt.Print(rendered)
	return nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tables, err := tabular.ReadTables(cfg.OutputDir)
	if err != nil {
		return err
	}

	engine := analytics.New(cfg.TopN)
	fmt.Print(analytics.Render(engine.Insights(tables)))
	return nil
}

func runCharts(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tables, err := tabular.ReadTables(cfg.OutputDir)
	if err != nil {
		return err
	}

	renderer := charts.New(analytics.New(cfg.TopN))
	return renderer.RenderAll(cfg.ChartsDir, tables)
}

func main() {
	cmd := &cli.Command{
		Name:  "ingress",
		Usage: "Extract recipe documents, normalize them into flat tables, validate quality and compute insights",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("INGRESS_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Provision the document store and load the sample dataset",
				Action: runSeed,
			},
			{
				Name:   "run",
				Usage:  "Run the full pass: fetch, normalize, export CSVs and write the quality report",
				Action: runETL,
			},
			{
				Name:   "validate",
				Usage:  "Re-validate previously exported tables and rewrite the quality report",
				Action: runValidate,
			},
			{
				Name:   "analyze",
				Usage:  "Print the insight summary over previously exported tables",
				Action: runAnalyze,
			},
			{
				Name:   "charts",
				Usage:  "Render the chart set over previously exported tables",
				Action: runCharts,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ingress: %v\n", err)
		os.Exit(1)
	}
}
