package explain

import "github.com/abhisek/stackprep/internal/llm"

// ExplanationSchema defines the JSON schema for a question explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Interview-style explanation of a data engineering question and its answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "The concept the question tests, in 1-2 sentences",
			},
			"why_correct": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is right (2-4 sentences, may include a short code snippet)",
			},
			"why_wrong": map[string]any{
				"type":        "string",
				"description": "Why the candidate's chosen option is wrong, or an empty string when nothing wrong was chosen",
			},
		},
		"required":             []any{"summary", "why_correct", "why_wrong"},
		"additionalProperties": false,
	},
}
