package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/bank"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show topic-wise question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		repo, err := newRepository(cfg, stderrLogger(cfg))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		f := filterFromFlags(cmd)
		counts := bank.TopicCounts(
			bank.FilterQuestions(repo.LoadQuestions(ctx, bank.KindTheory), f),
			bank.FilterQuestions(repo.LoadQuestions(ctx, bank.KindMCQ), f),
		)
		if len(counts) == 0 {
			fmt.Println("No questions found.")
			return nil
		}

		fmt.Printf("%-10s  %-28s  %7s  %5s  %6s\n", "Stack", "Topic", "Theory", "MCQs", "Total")
		fmt.Println(strings.Repeat("─", 64))
		var theory, mcqs int
		for _, c := range counts {
			fmt.Printf("%-10s  %-28s  %7d  %5d  %6d\n",
				truncate(c.Stack, 10), truncate(c.Topic, 28), c.Theory, c.MCQ, c.Total())
			theory += c.Theory
			mcqs += c.MCQ
		}
		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-10s  %-28s  %7d  %5d  %6d\n", "TOTAL", "", theory, mcqs, theory+mcqs)
		return nil
	},
}

func init() {
	addFilterFlags(topicsCmd)
}
