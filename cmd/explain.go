package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/explain"
	"github.com/abhisek/stackprep/internal/llm"
)

var explainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Ask the configured LLM to explain a question",
	Long: "Explains one question by id (as printed by `stackprep list`, e.g. Spark/mcqs/12).\n" +
		"With --key the explanation also covers why that option is wrong.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.LLM.Enabled() {
			return errors.New("no LLM provider configured (set llm.provider or an *_API_KEY variable)")
		}
		logger := stderrLogger(cfg)

		repo, err := newRepository(cfg, logger)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		idx := bank.NewIndex(repo.LoadQuestions(ctx, bank.KindTheory), repo.LoadQuestions(ctx, bank.KindMCQ))
		q, ok := idx.Get(args[0])
		if !ok {
			return fmt.Errorf("question %q not found", args[0])
		}

		st, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		key, _ := cmd.Flags().GetString("key")
		ex, err := explain.NewService(provider, explain.DefaultConfig()).Explain(ctx, q, key)
		if err != nil {
			return err
		}

		fmt.Println(q.Question)
		fmt.Println()
		fmt.Println(ex.Summary)
		if ex.WhyCorrect != "" {
			fmt.Println()
			fmt.Println("Why it's right:", ex.WhyCorrect)
		}
		if ex.WhyWrong != "" {
			fmt.Println()
			fmt.Println("Why it's wrong:", ex.WhyWrong)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().String("key", "", "Option key you picked, for MCQs")
}
