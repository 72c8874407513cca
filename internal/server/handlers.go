package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/abhisek/stackprep/internal/bank"
)

// questionJSON is the wire form of a bank.Question.
type questionJSON struct {
	ID           string            `json:"id"`
	Question     string            `json:"question"`
	Type         string            `json:"type"`
	Stack        string            `json:"stack"`
	StackAliases []string          `json:"stackAliases,omitempty"`
	Topic        string            `json:"topic"`
	Tags         []string          `json:"tags,omitempty"`
	Difficulty   string            `json:"difficulty,omitempty"`
	Options      map[string]string `json:"options,omitempty"`
	Answer       string            `json:"answer,omitempty"`
	AnswerText   string            `json:"answerText,omitempty"`
}

func toJSON(q *bank.Question) questionJSON {
	return questionJSON{
		ID:           q.ID,
		Question:     q.Question,
		Type:         string(q.Type),
		Stack:        q.Stack,
		StackAliases: q.StackAliases,
		Topic:        q.Topic,
		Tags:         q.Tags,
		Difficulty:   string(q.Difficulty),
		Options:      q.Options,
		Answer:       q.Answer,
		AnswerText:   q.AnswerText,
	}
}

// StacksHandler returns the manifest as a JSON array in manifest order.
func StacksHandler(repo *bank.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := repo.LoadManifest(r.Context())
		out := m.Stacks
		if out == nil {
			out = []bank.StackEntry{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// TopicsHandler returns the topics of the requested stacks (?stack=),
// or of every stack when none is given.
func TopicsHandler(repo *bank.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := repo.LoadManifest(r.Context())
		topics := m.TopicsFor(listParam(r.URL.Query(), "stack")...)
		if topics == nil {
			topics = []string{}
		}
		writeJSON(w, http.StatusOK, topics)
	}
}

// QuestionsHandler returns the filtered questions of one kind.
// Query: kind (theory|mcqs, default mcqs), difficulty, stack, topic; each
// filter may repeat or hold a comma separated list.
func QuestionsHandler(repo *bank.Repository, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		kind := bank.KindMCQ
		if raw := q.Get("kind"); raw != "" {
			k, ok := bank.ParseKind(raw)
			if !ok {
				http.Error(w, "kind must be theory or mcqs", http.StatusBadRequest)
				return
			}
			kind = k
		}

		filter := bank.Filter{
			Difficulties: listParam(q, "difficulty"),
			TechStacks:   listParam(q, "stack"),
			Topics:       listParam(q, "topic"),
		}

		questions := bank.FilterQuestions(repo.LoadQuestions(r.Context(), kind), filter)
		out := make([]questionJSON, len(questions))
		for i, question := range questions {
			out[i] = toJSON(question)
		}

		logger.Debug("questions served", "kind", kind, "count", len(out))
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":      kind,
			"count":     len(out),
			"questions": out,
		})
	}
}

// listParam collects repeated and comma separated values of key.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
