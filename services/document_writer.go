package services

import (
	"bytes"
	"fmt"

	"github/itish2003/studyflash/models"

	"github.com/go-pdf/fpdf"
)

const (
	DocumentTitle       = "AI-Generated Flashcards"
	DocumentFilename    = "flashcards.pdf"
	DocumentContentType = "application/pdf"
)

// Layout is the fixed geometry of a flashcard export. Vertical positions are
// in points measured up from the bottom edge of the page.
type Layout struct {
	PageSize   string
	FontFamily string
	FontSize   float64

	Top          float64
	BottomCutoff float64

	TitleX    float64
	TitleGap  float64
	QuestionX float64
	AnswerX   float64

	LineHeight   float64
	ParagraphGap float64
}

func DefaultLayout() Layout {
	return Layout{
		PageSize:     "Letter",
		FontFamily:   "Helvetica",
		FontSize:     12,
		Top:          750,
		BottomCutoff: 100,
		TitleX:       100,
		TitleGap:     30,
		QuestionX:    80,
		AnswerX:      100,
		LineHeight:   20,
		ParagraphGap: 10,
	}
}

// pageCursor is the layout state of a single Render call.
type pageCursor struct {
	y    float64
	page int
}

// DocumentWriter lays flashcards out on fixed-size pages and serializes them
// as an uncompressed PDF using a core font.
type DocumentWriter struct {
	layout Layout
}

func NewDocumentWriter(layout Layout) *DocumentWriter {
	return &DocumentWriter{layout: layout}
}

// Render writes the title and then one question line and one answer line per
// card. Overflow is checked after each answer: a card that ends below the
// cutoff stays where it is and the next card starts a new page. A page is
// only added when a card follows, so the document never ends on a blank page.
func (w *DocumentWriter) Render(cards []models.Flashcard) (*models.Document, error) {
	l := w.layout

	pdf := fpdf.New("P", "pt", l.PageSize, "")
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(DocumentTitle, true)
	pdf.SetCreator("studyflash", true)

	translate := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	draw := func(x, y float64, text string) {
		pdf.Text(x, pageHeight-y, translate(text))
	}

	cur := pageCursor{y: l.Top}
	pdf.AddPage()
	pdf.SetFont(l.FontFamily, "", l.FontSize)

	draw(l.TitleX, cur.y, DocumentTitle)
	cur.y -= l.TitleGap

	for i, card := range cards {
		if cur.y < l.BottomCutoff {
			pdf.AddPage()
			pdf.SetFont(l.FontFamily, "", l.FontSize)
			cur.page++
			cur.y = l.Top
		}

		n := i + 1
		draw(l.QuestionX, cur.y, fmt.Sprintf("Q%d: %s", n, card.Question))
		cur.y -= l.LineHeight
		draw(l.AnswerX, cur.y, fmt.Sprintf("A%d: %s", n, card.Answer))
		cur.y -= l.LineHeight + l.ParagraphGap
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return &models.Document{
		Filename:    DocumentFilename,
		ContentType: DocumentContentType,
		Pages:       cur.page + 1,
		Data:        buf.Bytes(),
	}, nil
}
