package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/workdiary/backend/internal/config"
	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/internal/repository/postgres"
	"github.com/workdiary/backend/internal/service"
)

type runOptions struct {
	format         string
	workers        int
	onlyViolations bool
	input          string
}

func runCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every sheet and print the oversight report",
		Long: `Evaluate every stored sheet together with the driver's previous week.

Sheets are read from --input (a JSON array of sheets) when given,
otherwise from the database at DATABASE_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOversight(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format (json or yaml)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent evaluations (default OVERSIGHT_WORKERS)")
	cmd.Flags().BoolVar(&opts.onlyViolations, "only-violations", false, "omit sheets without violations")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "JSON file of sheets instead of the database")

	return cmd
}

func runOversight(ctx context.Context, out io.Writer, opts runOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", opts.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	workers := cfg.OversightWorkers
	if opts.workers > 0 {
		workers = opts.workers
	}

	repo, closeRepo, err := openRepository(ctx, cfg, opts.input)
	if err != nil {
		return err
	}
	defer closeRepo()

	complianceSvc := service.NewComplianceService(cfg.Location())
	report, err := service.NewOversightService(repo, complianceSvc, workers).Run(ctx, service.ReportOptions{
		OnlyViolations: opts.onlyViolations,
	})
	if err != nil {
		return err
	}

	return writeReport(out, opts.format, report)
}

func openRepository(ctx context.Context, cfg *config.Config, input string) (service.SheetRepository, func(), error) {
	if input != "" {
		sheets, err := readSheets(input)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewMockRepository(sheets...), func() {}, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is not set and no --input given")
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(dialCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewPostgresRepository(pool), pool.Close, nil
}

func readSheets(path string) ([]domain.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var sheets []domain.Sheet
	if err := json.Unmarshal(data, &sheets); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return sheets, nil
}

func writeReport(out io.Writer, format string, report domain.OversightReport) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
}
