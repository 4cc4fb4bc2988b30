package controller

import (
	"embed"
	"html/template"

	"github/itish2003/studyflash/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const homeTemplate = "home.html"

// LoadTemplates parses the pages served by the form controller.
func LoadTemplates() (*template.Template, error) {
	return template.New("").
		Funcs(template.FuncMap{
			"inc": func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/*.html")
}

// homePage is the data rendered by the home template.
type homePage struct {
	Text       string
	Summary    string
	Flashcards []models.Flashcard
	Error      string
}
