package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/betabot/internal/guidance"
	"github.com/jonathan/betabot/internal/observability"
	"github.com/jonathan/betabot/internal/types"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [request text...]",
	Short: "Parse a setter's request into hold-selection guidance",
	Long:  "Parse free text such as \"v5 crimpy, sit start\" into selection guidance and display notes.",
	RunE:  runParse,
}

var (
	parseJSON    bool
	parseMatches bool
)

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print JSON instead of formatted output")
	parseCmd.Flags().BoolVar(&parseMatches, "matches", false, "Include the matched rules")
	rootCmd.AddCommand(parseCmd)
}

type parseOutput struct {
	Guidance types.Guidance   `json:"guidance"`
	Matches  []guidance.Match `json:"matches,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	parser, err := newParser(appConfig.Rules)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	out := parseOutput{Guidance: parser.Parse(text)}
	if parseMatches {
		out.Matches = parser.Match(text)
	}

	w := cmd.OutOrStdout()
	if parseJSON {
		return writeJSON(w, out)
	}

	observability.NewPrinter(w).PrintGuidance(&out.Guidance)
	for _, m := range out.Matches {
		_, _ = fmt.Fprintf(w, "%-10s %-16s keyword=%q confidence=%.2f\n",
			m.Rule.Category, m.Rule.Name, m.Keyword, m.Confidence)
	}
	return nil
}
