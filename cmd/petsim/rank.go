package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"petmatch/internal/domain"
	"petmatch/internal/service"
)

var (
	rankLimit int
	rankJSON  bool
)

var rankCmd = &cobra.Command{
	Use:   "rank <pet-id>",
	Short: "List the pets most similar to a source pet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeFn, err := newSimilarPetService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		results, err := svc.Rank(ctx, args[0], rankLimit)
		if err != nil {
			return fmt.Errorf("rank %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if rankJSON {
			output := struct {
				SourceID string                   `json:"source_id"`
				Limit    int                      `json:"limit"`
				Results  []domain.ScoredCandidate `json:"results"`
			}{args[0], rankLimit, results}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		}

		if len(results) == 0 {
			fmt.Fprintf(out, "No similar pets found for %s.\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "Pets similar to %s:\n", args[0])
		for i, r := range results {
			fmt.Fprintf(out, "%3d. %-36s %3d\n", i+1, r.PetID, r.Score)
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", service.DefaultLimit, "Maximum number of results")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(rankCmd)
}
