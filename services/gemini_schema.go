package services

import "google.golang.org/genai"

// questionResponseSchema constrains Gemini question generation to a single
// JSON object so the question can be read without parsing free text.
func questionResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {
				Type:        genai.TypeString,
				Description: "The generated question. Its answer must be the input sentence.",
			},
		},
		Required: []string{"question"},
	}
}

type questionResponse struct {
	Question string `json:"question"`
}
