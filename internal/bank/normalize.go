package bank

import (
	"fmt"
	"strings"
)

// DefaultTopic is assigned to records that carry no topic alias.
const DefaultTopic = "General"

// rawRecord is a question record as it appears in a stack document. The
// documents evolved by hand, so several fields have aliases.
type rawRecord struct {
	ID         any            `yaml:"id"`
	Question   string         `yaml:"question"`
	Type       string         `yaml:"type"`
	Stack      string         `yaml:"stack"`
	Source     string         `yaml:"source"`
	Stacks     []string       `yaml:"stacks"`
	Topic      string         `yaml:"topic"`
	Topics     []string       `yaml:"topics"`
	Tags       []string       `yaml:"tags"`
	Categories []string       `yaml:"categories"`
	Difficulty string         `yaml:"difficulty"`
	Options    map[string]any `yaml:"options"`
	Answer     any            `yaml:"answer"`

	AnswerText      string `yaml:"answer_text"`
	AnswerTextCamel string `yaml:"answerText"`
	Explanation     string `yaml:"explanation"`
}

// normalize resolves aliases into a Question. It returns nil for records
// that cannot be used, such as multiple-choice records without options.
func (r rawRecord) normalize(stackDir string, kind Kind, index int) *Question {
	rawID := strings.TrimSpace(scalarString(r.ID))
	if rawID == "" {
		rawID = fmt.Sprint(index + 1)
	}

	q := &Question{
		ID:         stackDir + "/" + string(kind) + "/" + rawID,
		Question:   strings.TrimSpace(r.Question),
		Type:       recordType(r.Type, kind),
		Difficulty: Difficulty(normalizeKey(r.Difficulty)),
		AnswerText: firstNonEmpty(r.AnswerText, r.AnswerTextCamel, r.Explanation),
	}

	stacks := append([]string{r.Stack, r.Source}, r.Stacks...)
	q.Stack, q.StackAliases = splitStacks(stacks, stackDir)

	aliases := make([]string, 0, 1+len(r.Topics)+len(r.Tags)+len(r.Categories))
	aliases = append(aliases, r.Topic)
	aliases = append(aliases, r.Topics...)
	aliases = append(aliases, r.Tags...)
	aliases = append(aliases, r.Categories...)
	q.Topic, q.Tags = splitTopics(aliases)

	if q.Type == TypeMCQ {
		if len(r.Options) == 0 {
			return nil
		}
		q.Options = make(map[string]string, len(r.Options))
		for k, v := range r.Options {
			q.Options[strings.TrimSpace(k)] = strings.TrimSpace(scalarString(v))
		}
		q.Answer = strings.TrimSpace(scalarString(r.Answer))
	}
	return q
}

func recordType(t string, kind Kind) QuestionType {
	switch normalizeKey(t) {
	case "mcq", "mcqs":
		return TypeMCQ
	case "theory":
		return TypeTheory
	}
	if kind == KindMCQ {
		return TypeMCQ
	}
	return TypeTheory
}

// splitTopics picks the first non-empty alias as the topic and keeps the
// remaining distinct aliases as tags.
func splitTopics(aliases []string) (string, []string) {
	topic := ""
	var tags []string
	seen := make(map[string]bool)
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		key := normalizeKey(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if topic == "" {
			topic = a
			continue
		}
		tags = append(tags, a)
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return topic, tags
}

// splitStacks picks the first non-empty stack alias, falling back to the
// stack directory, and keeps the other canonically distinct aliases.
func splitStacks(aliases []string, stackDir string) (string, []string) {
	stack := ""
	var rest []string
	seen := make(map[string]bool)
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		key := CanonicalStack(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if stack == "" {
			stack = a
			continue
		}
		rest = append(rest, a)
	}
	if stack == "" {
		stack = stackDir
	}
	return stack, rest
}

func scalarString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
