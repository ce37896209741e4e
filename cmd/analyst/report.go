package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/report"
)

func runReport(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")
	window, _ := cmd.Flags().GetInt("chart-window")

	opts := report.DefaultOptions()
	if cfg, err := loadConfig(cmd); err == nil {
		opts = cfg.AnalysisOptions()
	}
	if window > 0 {
		opts.ChartWindow = window
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	var doc model.CompanyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	r := report.Generate(&doc, opts)
	out := cmd.OutOrStdout()
	if !asJSON {
		_, err := fmt.Fprintln(out, r.SummaryText)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
