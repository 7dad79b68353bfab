package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"petmatch/internal/domain"
	"petmatch/internal/service"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score <source.json> <candidate.json>",
	Short: "Score two pet profiles read from JSON files, no store needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readProfile(args[0])
		if err != nil {
			return err
		}
		candidate, err := readProfile(args[1])
		if err != nil {
			return err
		}
		breakdown := service.DefaultSimilarityScorer.Explain(source, candidate)
		return printBreakdown(cmd.OutOrStdout(), breakdown, scoreJSON)
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func readProfile(path string) (domain.PetProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.PetProfile{}, fmt.Errorf("read %s: %w", path, err)
	}
	var in domain.PetProfileInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return domain.PetProfile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	profile, err := domain.NewPetProfile(in)
	if err != nil {
		return domain.PetProfile{}, fmt.Errorf("%s: %w", path, err)
	}
	return profile, nil
}
