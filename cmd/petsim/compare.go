package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"petmatch/internal/service"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <source-id> <candidate-id>",
	Short: "Show the per-attribute score between two stored pets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeFn, err := newSimilarPetService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		breakdown, err := svc.Compare(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		return printBreakdown(cmd.OutOrStdout(), breakdown, compareJSON)
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(compareCmd)
}

func printBreakdown(out io.Writer, b service.ScoreBreakdown, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	fmt.Fprintf(out, "%s vs %s\n", b.SourceID, b.CandidateID)
	for _, a := range b.Attributes {
		fmt.Fprintf(out, "  %-12s %5.2f / %4.2f\n", a.Attribute, a.Earned, a.Possible)
	}
	fmt.Fprintf(out, "  %-12s %5.2f / %4.2f\n", "total", b.Earned, b.Total)
	fmt.Fprintf(out, "Score: %d\n", b.Score)
	return nil
}
