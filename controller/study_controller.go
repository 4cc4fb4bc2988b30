package controller

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github/itish2003/studyflash/models"
	"github/itish2003/studyflash/services"
)

// maxUploadBytes caps files posted to the summarize/file endpoint.
const maxUploadBytes = 20 << 20

// StudyController handles the HTTP requests for the form page and the JSON
// API. It depends on the StudyService to perform the actual business logic.
type StudyController struct {
	study services.StudyService
	log   *slog.Logger
}

func NewStudyController(study services.StudyService, log *slog.Logger) *StudyController {
	return &StudyController{
		study: study,
		log:   log,
	}
}

// Home is the Gin handler for GET /.
func (c *StudyController) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, homeTemplate, homePage{})
}

// Submit is the Gin handler for POST /. It performs the action picked by the
// form and renders the page again, or sends the PDF for exports.
func (c *StudyController) Submit(ctx *gin.Context) {
	var form models.StudyForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, homeTemplate, homePage{Error: "Invalid form: " + err.Error()})
		return
	}

	action := models.ParseAction(form)
	result, err := c.study.Handle(ctx.Request.Context(), action)
	if err != nil {
		c.log.ErrorContext(ctx.Request.Context(), "Failed to handle form action",
			"error", err,
			"action", action.Name())
		ctx.String(http.StatusInternalServerError, "Something went wrong while processing your request.")
		return
	}

	if result.Document != nil {
		sendDocument(ctx, result.Document)
		return
	}

	page := homePage{
		Text:       form.Text,
		Flashcards: result.Flashcards,
	}
	if result.Summary != nil {
		page.Summary = *result.Summary
	}
	ctx.HTML(http.StatusOK, homeTemplate, page)
}

// Summarize is the Gin handler for the POST /api/v1/summarize endpoint.
func (c *StudyController) Summarize(ctx *gin.Context) {
	var req models.SummarizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := c.study.Summarize(ctx.Request.Context(), req.Text)
	if err != nil {
		c.log.ErrorContext(ctx.Request.Context(), "Failed to summarize text", "error", err)
		ctx.JSON(http.StatusInternalServerError, models.SummaryResponse{Error: "Failed to summarize text"})
		return
	}

	ctx.JSON(http.StatusOK, models.SummaryResponse{Summary: summary})
}

// SummarizeFile is the Gin handler for the POST /api/v1/summarize/file
// endpoint. The document is sent as the multipart field "file".
func (c *StudyController) SummarizeFile(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if header.Size == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is empty"})
		return
	}
	if header.Size > maxUploadBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large"})
		return
	}

	data, err := readUpload(header)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file: " + err.Error()})
		return
	}

	summary, err := c.study.SummarizeFile(ctx.Request.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			ctx.JSON(http.StatusBadRequest, models.SummaryResponse{Error: "Unsupported file type, use .txt, .md or .pdf"})
			return
		}
		c.log.ErrorContext(ctx.Request.Context(), "Failed to summarize file",
			"error", err,
			"filename", header.Filename)
		ctx.JSON(http.StatusInternalServerError, models.SummaryResponse{Error: "Failed to summarize file"})
		return
	}

	ctx.JSON(http.StatusOK, models.SummaryResponse{Summary: summary})
}

// GenerateFlashcards is the Gin handler for the POST /api/v1/flashcards endpoint.
func (c *StudyController) GenerateFlashcards(ctx *gin.Context) {
	var req models.FlashcardsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	cards, err := c.study.GenerateFlashcards(ctx.Request.Context(), req.Summary)
	if err != nil {
		c.log.ErrorContext(ctx.Request.Context(), "Failed to generate flashcards", "error", err)
		ctx.JSON(http.StatusInternalServerError, models.FlashcardsResponse{
			Flashcards: []models.Flashcard{},
			Error:      "Failed to generate flashcards",
		})
		return
	}

	ctx.JSON(http.StatusOK, models.FlashcardsResponse{
		Count:      len(cards),
		Flashcards: cards,
	})
}

// ExportDocument is the Gin handler for the POST /api/v1/export endpoint.
func (c *StudyController) ExportDocument(ctx *gin.Context) {
	var req models.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	doc, err := c.study.ExportDocument(ctx.Request.Context(), req.Questions, req.Answers)
	if err != nil {
		c.log.ErrorContext(ctx.Request.Context(), "Failed to export flashcards", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export flashcards"})
		return
	}

	sendDocument(ctx, doc)
}

func sendDocument(ctx *gin.Context, doc *models.Document) {
	ctx.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	ctx.Header("X-Page-Count", strconv.Itoa(doc.Pages))
	ctx.Data(http.StatusOK, doc.ContentType, doc.Data)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes))
}
