package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stereoset/internal/dataset"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "rules",
		Short:       "Show the source layouts and input files stereoset recognizes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(dataset.Pairs())*len(dataset.Models()))
			for _, pair := range dataset.Pairs() {
				for _, model := range dataset.Models() {
					rule, ok := dataset.RuleFor(pair.Category, model.Name)
					if !ok {
						continue
					}
					rows = append(rows, []string{
						pair.SourceDirName(),
						model.SourceDir,
						dataset.IdentityFor(pair.Dataset).String(),
						rule.Mode.String(),
						strings.Join(rule.Inputs(), ", "),
					})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Source Tree", "Model Dir", "Sample Names", "Mode", "Inputs"},
				rows,
			))
			return nil
		},
	}
}
