package questiongen

import "github.com/GopalOmotec/echolearn-updated/internal/llm"

// PoolSchema is the structured output requested from the model.
var PoolSchema = &llm.Schema{
	Name:        "viva-question-pool",
	Description: "Viva questions with model answers, grouped by difficulty level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"level": map[string]any{
							"type": "string",
							"enum": []any{"Basic", "Intermediate", "Advanced", "Expert"},
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The viva question, answerable aloud in a few sentences",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "A concise model answer",
						},
						"difficulty": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     20,
							"description": "Difficulty on the 1-20 scale inside the level's range, or 0 if unsure",
						},
					},
					"required":             []any{"level", "question", "answer", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// poolOutput is the decoded model reply before validation.
type poolOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Level      string `json:"level"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
}
