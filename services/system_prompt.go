package services

import (
	"fmt"

	"google.golang.org/genai"
)

// QuestionPromptPrefix is prepended to every sentence sent to a question
// generator. The t5 question-generation models are trained on this prefix.
const QuestionPromptPrefix = "generate question: "

const questionInstructions = `You write study flashcards.

The input starts with "generate question:" followed by one sentence.
Write exactly one natural-language question whose complete answer is that sentence.

Rules:
- Ask about the core fact of the sentence, not about wording.
- Do not include the answer in the question.
- Use the same language as the sentence.
- Output only the question.`

// summarizationInstructions returns the instructions for chat-style models.
// Lengths are given to the model in words as an approximation of tokens.
func summarizationInstructions(maxLength, minLength int) string {
	return fmt.Sprintf(`Summarize the text provided by the user.

Rules:
- Write between %d and %d words.
- Keep the key facts, names, numbers and conclusions.
- Use complete sentences; no lists, headings or markdown.
- Do not add information that is not in the text.
- Output only the summary, in the same language as the text.`, minLength, maxLength)
}

// geminiInstruction wraps a prompt as a system instruction for Gemini.
func geminiInstruction(prompt string) *genai.Content {
	contents := genai.Text(prompt)
	if len(contents) == 0 {
		return nil
	}
	return contents[0]
}
