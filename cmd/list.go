package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/bank"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print questions matching the filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := stderrLogger(cfg)
		repo, err := newRepository(cfg, logger)
		if err != nil {
			return err
		}

		kinds, err := kindsFromFlag(cmd)
		if err != nil {
			return err
		}
		f := filterFromFlags(cmd)

		ctx := cmd.Context()
		var questions []*bank.Question
		for _, k := range kinds {
			questions = append(questions, bank.FilterQuestions(repo.LoadQuestions(ctx, k), f)...)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(questions)
		}

		if len(questions) == 0 {
			fmt.Println("No questions match.")
			return nil
		}
		fmt.Printf("%-22s  %-8s  %-20s  %-6s  %s\n", "ID", "Stack", "Topic", "Level", "Question")
		fmt.Println(strings.Repeat("─", 100))
		for _, q := range questions {
			fmt.Printf("%-22s  %-8s  %-20s  %-6s  %s\n",
				truncate(q.ID, 22), truncate(q.Stack, 8), truncate(q.Topic, 20),
				q.Difficulty, truncate(q.Question, 60))
		}
		fmt.Printf("\n%d questions\n", len(questions))
		return nil
	},
}

// kindsFromFlag parses --kind; "all" selects both documents.
func kindsFromFlag(cmd *cobra.Command) ([]bank.Kind, error) {
	s, _ := cmd.Flags().GetString("kind")
	if s == "" || s == "all" {
		return []bank.Kind{bank.KindTheory, bank.KindMCQ}, nil
	}
	k, ok := bank.ParseKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (want theory, mcqs or all)", s)
	}
	return []bank.Kind{k}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().String("kind", "all", "Question kind: theory, mcqs or all")
	listCmd.Flags().Bool("json", false, "Print the questions as JSON")
}
