package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/config"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/storage"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

func newPromoteCmd() *cobra.Command {
	var (
		platformKey   string
		minConfidence float64
		batchSize     int
		dryRun        bool
	)
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote high-confidence learning insights into the knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-confidence") {
				minConfidence = cfg.PromotionMinConfidence
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = cfg.PromotionBatchSize
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			platformID, err := platformIDForKey(ctx, store, platformKey)
			if err != nil {
				return err
			}

			if dryRun {
				pending, err := store.Insights.PendingInsights(ctx, platformID, minConfidence, batchSize)
				if err != nil {
					return err
				}
				fmt.Printf("%d insight(s) would be promoted:\n", len(pending))
				for _, in := range pending {
					fmt.Printf("  - [%.2f] %s: %s\n", in.Confidence, in.InsightType, utils.Truncate(in.Content, 60))
				}
				return nil
			}

			promoted, err := learning.NewPromoter(store.Insights).Promote(ctx, learning.PromoteOptions{
				PlatformID:    platformID,
				MinConfidence: minConfidence,
				BatchSize:     batchSize,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Promoted %d insight(s) to knowledge\n", promoted)
			return nil
		},
	}
	cmd.Flags().StringVar(&platformKey, "platform", "", "Only promote insights of this platform key")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.7, "Minimum insight confidence (defaults to PROMOTION_MIN_CONFIDENCE)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 10, "Maximum insights per run (defaults to PROMOTION_BATCH_SIZE)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List candidate insights without promoting")
	return cmd
}

func newMatchCmd() *cobra.Command {
	var (
		platformKey string
		language    string
	)
	cmd := &cobra.Command{
		Use:   "match <query>",
		Short: "Find the learned query pattern that best matches a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			platformID, err := platformIDForKey(ctx, store, platformKey)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			match, ok, err := learning.NewMatcher(store.Patterns).BestMatch(ctx, query, platformID, language)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No matching pattern")
				return nil
			}
			fmt.Printf("Pattern:  %s\n", match.Pattern)
			fmt.Printf("Category: %s\n", match.Category)
			fmt.Printf("Score:    %.3f\n", match.Score)
			return nil
		},
	}
	cmd.Flags().StringVar(&platformKey, "platform", "", "Platform key (global patterns when empty)")
	cmd.Flags().StringVar(&language, "language", "en", "Pattern language")
	return cmd
}

// platformIDForKey maps a platform key to its id. An empty key selects the global scope.
func platformIDForKey(ctx context.Context, store *storage.Store, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	p, err := store.Platforms.GetActiveByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "platform %q not found\n", key)
		return "", fmt.Errorf("unknown platform %q", key)
	}
	return p.ID, nil
}
