package models

type SummaryResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

type FlashcardsResponse struct {
	Count      int         `json:"count"`
	Flashcards []Flashcard `json:"flashcards"`
	Error      string      `json:"error,omitempty"`
}

// StudyResult is the outcome of one handled action. Summary is nil when the
// action produced no summary; Document is set only for exports.
type StudyResult struct {
	Summary    *string     `json:"summary"`
	Flashcards []Flashcard `json:"flashcards"`
	Document   *Document   `json:"-"`
}
