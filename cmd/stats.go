package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent sessions and all-time topic accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		limit, _ := cmd.Flags().GetInt("limit")
		stack, _ := cmd.Flags().GetString("stack")

		sessions, err := repo.RecentSessions(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Println("Recent Sessions")
		fmt.Println(strings.Repeat("─", 72))
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
		}
		for _, s := range sessions {
			result := fmt.Sprintf("%3d%%  %d/%d correct", s.Score, s.Correct, s.Questions)
			if s.Mode == "survival" {
				result = fmt.Sprintf("streak %d", s.Score)
			}
			fmt.Printf("%-16s  %-10s  %-12s  %5s  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"), s.Mode, s.TimerMode,
				fmt.Sprintf("%d:%02d", s.DurationSecs/60, s.DurationSecs%60), result)
		}

		accuracy, err := repo.TopicAccuracy(ctx, stack)
		if err != nil {
			return err
		}
		if len(accuracy) > 0 {
			fmt.Println()
			fmt.Println("Topic Accuracy")
			fmt.Println(strings.Repeat("─", 72))
			fmt.Printf("%-10s  %-28s  %9s  %7s  %8s\n", "Stack", "Topic", "Attempted", "Correct", "Accuracy")
			for _, a := range accuracy {
				fmt.Printf("%-10s  %-28s  %9d  %7d  %7.0f%%\n",
					truncate(a.Stack, 10), truncate(a.Topic, 28), a.Attempted, a.Correct, a.Accuracy()*100)
			}
		}

		usage, err := repo.LLMUsage(ctx)
		if err != nil {
			return err
		}
		if usage.Requests > 0 {
			fmt.Println()
			fmt.Println("Explanations (LLM)")
			fmt.Println(strings.Repeat("─", 72))
			fmt.Printf("%d requests, %d failed, %d input / %d output tokens\n",
				usage.Requests, usage.Failures, usage.InputTokens, usage.OutputTokens)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of sessions to show")
	statsCmd.Flags().String("stack", "", "Only show topic accuracy for this stack")
}
