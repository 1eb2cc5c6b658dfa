package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fleetrank/internal/config"
	"fleetrank/internal/exporter"
	"fleetrank/internal/infrastructure"
	"fleetrank/internal/ingest"
	"fleetrank/internal/ranking"
)

func main() {
	cpInput := flag.String("cp", "", "CSV with equipment telemetry records")
	hddInput := flag.String("hdd", "", "CSV with disk unit telemetry records")
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	outputDir := flag.String("out", "", "output directory (defaults to config paths.output_dir)")
	windowDays := flag.Int("window", 0, "override the observation window in days")
	writeXLSX := flag.Bool("xlsx", true, "also write an Excel workbook")
	flag.Parse()

	if *cpInput == "" && *hddInput == "" {
		fmt.Fprintln(os.Stderr, "at least one of -cp or -hdd is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *windowDays > 0 {
		cfg.Engine.WindowDays = *windowDays
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if *outputDir == "" {
		*outputDir = cfg.Paths.OutputDir
	}

	ctx := context.Background()

	var tables []*ranking.RankingTable
	if *cpInput != "" {
		table, err := runDomain(ctx, cfg, logger, ranking.DomainCP, *cpInput, *outputDir)
		if err != nil {
			logger.Error("CP ranking failed", "error", err)
			os.Exit(1)
		}
		tables = append(tables, table)
	}
	if *hddInput != "" {
		table, err := runDomain(ctx, cfg, logger, ranking.DomainHDD, *hddInput, *outputDir)
		if err != nil {
			logger.Error("HDD ranking failed", "error", err)
			os.Exit(1)
		}
		tables = append(tables, table)
	}

	var comparison *ranking.ComparisonResult
	if len(tables) == 2 {
		engineCfg, err := cfg.EngineConfigFor(tables[0].Domain)
		if err != nil {
			logger.Error("Failed to resolve comparison categories", "error", err)
			os.Exit(1)
		}
		result := ranking.Compare(tables[0], tables[1], engineCfg.CategoryNames())
		comparison = &result

		statsPath := filepath.Join(*outputDir, "comparison_stats.csv")
		matrixPath := filepath.Join(*outputDir, "comparison_categories.csv")
		if err := exporter.WriteComparisonCSV(result, statsPath, matrixPath); err != nil {
			logger.Error("Failed to write comparison CSV", "error", err)
			os.Exit(1)
		}
		logger.Info("Comparison written",
			"stats", statsPath,
			"matrix", matrixPath,
			"mean_delta", meanDelta(result),
		)
	}

	if *writeXLSX {
		workbookPath := filepath.Join(*outputDir, "rankings.xlsx")
		if err := exporter.WriteWorkbook(tables, comparison, workbookPath); err != nil {
			logger.Error("Failed to write workbook", "error", err)
			os.Exit(1)
		}
		logger.Info("Workbook written", "path", workbookPath)
	}
}

// runDomain loads one domain's records, runs the engine and writes the
// ranking plus per-slice CSV files.
func runDomain(ctx context.Context, cfg *config.Config, logger *slog.Logger, domain ranking.Domain, inputPath, outputDir string) (*ranking.RankingTable, error) {
	engineCfg, err := cfg.EngineConfigFor(domain)
	if err != nil {
		return nil, err
	}

	records, err := ingest.LoadRecords(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load records from %s: %w", inputPath, err)
	}
	logger.Info("Loaded records",
		"domain", domain,
		"path", inputPath,
		"records", len(records),
	)

	engine, err := ranking.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, err
	}

	table, err := engine.Run(ctx, records)
	if err != nil {
		return nil, err
	}

	suffix := strings.ToLower(string(domain))
	rankingPath := filepath.Join(outputDir, fmt.Sprintf("ranking_%s.csv", suffix))
	if err := exporter.WriteRankingCSV(table, rankingPath); err != nil {
		return nil, fmt.Errorf("write ranking CSV: %w", err)
	}
	subMetricsPath := filepath.Join(outputDir, fmt.Sprintf("submetrics_%s.csv", suffix))
	if err := exporter.WriteSubMetricsCSV(table, subMetricsPath); err != nil {
		return nil, fmt.Errorf("write sub-metrics CSV: %w", err)
	}

	summary := table.Summarize()
	logger.Info("Ranking written",
		"domain", domain,
		"path", rankingPath,
		"entities", summary.Stats.Count,
		"mean_score", summary.Stats.Mean,
		"categories", summary.Categories,
	)

	return table, nil
}

func meanDelta(result ranking.ComparisonResult) float64 {
	for _, stat := range result.Stats {
		if stat.Metric == "mean" {
			return stat.Delta
		}
	}
	return 0
}
