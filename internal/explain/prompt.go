package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/stackprep/internal/bank"
)

const systemPrompt = `You are a senior data engineer running technical interviews. Explain interview questions about Spark, PySpark, Airflow, Python, Java and SQL concisely and accurately. Prefer concrete behavior over generalities. Never invent APIs.`

func buildUserMessage(q *bank.Question, selectedKey string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stack: %s\n", q.Stack)
	fmt.Fprintf(&b, "Topic: %s\n", q.Topic)
	if q.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", q.Difficulty)
	}
	fmt.Fprintf(&b, "\nQuestion:\n%s\n", q.Question)

	if q.IsMCQ() {
		b.WriteString("\nOptions:\n")
		for _, k := range q.OptionKeys() {
			fmt.Fprintf(&b, "%s) %s\n", k, q.Options[k])
		}
		fmt.Fprintf(&b, "\nCorrect option: %s\n", q.Answer)
		if selectedKey != "" && !q.IsCorrect(selectedKey) {
			fmt.Fprintf(&b, "The candidate chose %s. Explain the misconception behind that choice in why_wrong.\n", selectedKey)
		} else {
			b.WriteString("Leave why_wrong empty.\n")
		}
	} else {
		if q.AnswerText != "" {
			fmt.Fprintf(&b, "\nReference answer:\n%s\n", q.AnswerText)
		}
		b.WriteString("This is a theory question. Use why_correct for the model answer and leave why_wrong empty.\n")
	}

	return b.String()
}
