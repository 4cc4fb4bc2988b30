package models

// StudyForm is the form-encoded payload posted by the home page.
//
// The action is taken from Action when present, otherwise from whichever
// submit button was pressed. Button fields are pointers so that an empty
// button value still counts as pressed.
type StudyForm struct {
	Action    string   `form:"action"`
	Text      string   `form:"text"`
	Summary   string   `form:"summary"`
	Questions []string `form:"questions[]"`
	Answers   []string `form:"answers[]"`

	SummarizeButton  *string `form:"summarize"`
	FlashcardsButton *string `form:"flashcards"`
	DownloadButton   *string `form:"download_pdf"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
}

type FlashcardsRequest struct {
	Summary string `json:"summary"`
}

type ExportRequest struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}
