package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/roster"
)

var (
	batchInput       string
	batchOutput      string
	batchConcurrency int
	batchLLM         bool
	batchNoCache     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Verify a roster of providers from CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		contexts, err := roster.Read(batchInput)
		if err != nil {
			return err
		}
		if len(contexts) == 0 {
			return eris.Errorf("no providers found in %s", batchInput)
		}

		v, cleanup, err := buildVerifier(ctx, batchLLM, batchNoCache)
		if err != nil {
			return err
		}
		defer cleanup()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		zap.L().Info("batch starting",
			zap.String("input", batchInput),
			zap.Int("providers", len(contexts)),
			zap.Int("concurrency", concurrency),
		)

		results := v.RunBatch(ctx, contexts, concurrency)

		out := os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		w := csv.NewWriter(out)
		if err := w.Write([]string{"provider", "location", "best_match", "type", "score", "band", "recommendation", "error"}); err != nil {
			return eris.Wrap(err, "write csv header")
		}

		var failed int
		for _, r := range results {
			row := []string{r.Context.ProviderName, r.Context.Location, "", "", "", "", "", ""}
			if r.Err != nil {
				failed++
				row[7] = r.Err.Error()
			} else {
				row[6] = r.Decision.Recommendation
				if bm := r.Decision.BestMatch; bm != nil {
					row[2] = bm.URL
					row[3] = string(bm.Type)
					row[4] = fmt.Sprintf("%.0f", bm.Score)
					row[5] = string(bm.Band)
				}
			}
			if err := w.Write(row); err != nil {
				return eris.Wrap(err, "write csv row")
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "flush csv")
		}

		zap.L().Info("batch complete",
			zap.Int("providers", len(results)),
			zap.Int("failed", failed),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "roster file, .csv or .xlsx (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output CSV path (default stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent verifications (default from config)")
	batchCmd.Flags().BoolVar(&batchLLM, "llm", false, "rank candidates with Claude, heuristic fallback")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "skip the decision cache")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
