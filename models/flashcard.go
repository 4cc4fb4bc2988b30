package models

// Flashcard is a question/answer pair derived from one sentence of a summary.
type Flashcard struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer"   yaml:"answer"`
}

// Document is a rendered flashcard export ready to be sent as an attachment.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Pages       int    `json:"pages"`
	Data        []byte `json:"-"`
}
