package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/pipeline"
	"github.com/reachpoint/provider-verify/internal/verify"
)

var (
	verifyProvider  string
	verifyPractice  string
	verifyLocation  string
	verifySpecialty string
	verifyJSON      bool
	verifyLLM       bool
	verifyNoCache   bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a single provider's practice website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		v, cleanup, err := buildVerifier(ctx, verifyLLM, verifyNoCache)
		if err != nil {
			return err
		}
		defer cleanup()

		vc := verify.Context{
			ProviderName: verifyProvider,
			PracticeName: verifyPractice,
			Location:     verifyLocation,
			Specialty:    verifySpecialty,
		}

		decision, err := v.Run(ctx, vc)
		if err != nil {
			if eris.Is(err, pipeline.ErrSearchUnavailable) {
				zap.L().Error("search unavailable", zap.Error(err))
				decision = verify.Decision{Ranked: []verify.Result{}, Recommendation: verify.RecommendNoResults}
			} else {
				return eris.Wrap(err, "verify")
			}
		}

		if verifyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(decision)
		}

		printDecision(decision)
		return nil
	},
}

func printDecision(d verify.Decision) {
	if d.BestMatch != nil {
		fmt.Printf("Best match: %s (%s, score %.0f, %s)\n",
			d.BestMatch.URL, d.BestMatch.Type, d.BestMatch.Score, d.BestMatch.Band)
	} else {
		fmt.Println("Best match: none")
	}
	fmt.Printf("Recommendation: %s\n\n", d.Recommendation)

	if len(d.Ranked) == 0 {
		return
	}
	fmt.Printf("%-5s %-9s %-12s %s\n", "SCORE", "BAND", "TYPE", "URL")
	for _, r := range d.Ranked {
		fmt.Printf("%-5.0f %-9s %-12s %s\n", r.Score, r.Band, r.Type, r.URL)
		if len(r.Rationale) > 0 {
			fmt.Printf("      %s\n", strings.Join(r.Rationale, "; "))
		}
	}
}

func init() {
	verifyCmd.Flags().StringVar(&verifyProvider, "provider", "", "provider name (required)")
	verifyCmd.Flags().StringVar(&verifyPractice, "practice", "", "practice name")
	verifyCmd.Flags().StringVar(&verifyLocation, "location", "", "city/state")
	verifyCmd.Flags().StringVar(&verifySpecialty, "specialty", "", "medical specialty")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print decision as JSON")
	verifyCmd.Flags().BoolVar(&verifyLLM, "llm", false, "rank candidates with Claude, heuristic fallback")
	verifyCmd.Flags().BoolVar(&verifyNoCache, "no-cache", false, "skip the decision cache")
	_ = verifyCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(verifyCmd)
}
