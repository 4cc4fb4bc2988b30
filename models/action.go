package models

import "strings"

// Action names as posted by the form, either in the action field or as the
// name of the pressed submit button.
const (
	ActionSummarize   = "summarize"
	ActionFlashcards  = "flashcards"
	ActionDownloadPDF = "download_pdf"
	ActionNone        = "none"
)

// Action is the closed set of behaviors a study request can trigger.
// Only the types in this file implement it.
type Action interface {
	Name() string
	action()
}

type SummarizeAction struct {
	Text string
}

type GenerateFlashcardsAction struct {
	Summary string
}

type ExportDocumentAction struct {
	Questions []string
	Answers   []string
}

// NoAction is used for unrecognized actions and non-submission requests.
type NoAction struct{}

func (SummarizeAction) Name() string          { return ActionSummarize }
func (GenerateFlashcardsAction) Name() string { return ActionFlashcards }
func (ExportDocumentAction) Name() string     { return ActionDownloadPDF }
func (NoAction) Name() string                 { return ActionNone }

func (SummarizeAction) action()          {}
func (GenerateFlashcardsAction) action() {}
func (ExportDocumentAction) action()     {}
func (NoAction) action()                 {}

// ParseAction resolves the action of a submitted form. An explicit action
// field wins; otherwise buttons are checked in form order.
func ParseAction(form StudyForm) Action {
	name := strings.ToLower(strings.TrimSpace(form.Action))
	if name == "" {
		switch {
		case form.SummarizeButton != nil:
			name = ActionSummarize
		case form.FlashcardsButton != nil:
			name = ActionFlashcards
		case form.DownloadButton != nil:
			name = ActionDownloadPDF
		}
	}

	switch name {
	case ActionSummarize:
		return SummarizeAction{Text: form.Text}
	case ActionFlashcards:
		return GenerateFlashcardsAction{Summary: form.Summary}
	case ActionDownloadPDF:
		return ExportDocumentAction{Questions: form.Questions, Answers: form.Answers}
	default:
		return NoAction{}
	}
}
