package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cortivus/chat-api/internal/retrieval"
)

// rulesCmd prints the keyword rule tables for inspection.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the keyword retrieval rule tables",
	Run: func(cmd *cobra.Command, args []string) {
		rows := [][]string{}

		for _, mode := range []retrieval.Mode{retrieval.ModePolicy, retrieval.ModeSermon} {
			rules, _ := retrieval.RuleTable(mode)
			for _, rule := range rules {
				rows = append(rows, []string{
					string(mode),
					strings.Join(rule.Keywords, ", "),
					rule.Doc.Source,
					fmt.Sprintf("%.2f", rule.Doc.Relevance),
				})
			}
			if def, ok := retrieval.DefaultDocument(mode); ok {
				rows = append(rows, []string{
					string(mode),
					"(default)",
					def.Source,
					fmt.Sprintf("%.2f", def.Relevance),
				})
			}
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("Mode", "Keywords", "Source", "Relevance").
			Rows(rows...)

		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
