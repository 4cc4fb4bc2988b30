package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/itish2003/studyflash/metrics"
	"github/itish2003/studyflash/models"
	"github/itish2003/studyflash/services"
)

type fakeStudyService struct {
	handled []models.Action
	err     error
}

func (f *fakeStudyService) Handle(_ context.Context, action models.Action) (*models.StudyResult, error) {
	f.handled = append(f.handled, action)
	if f.err != nil {
		return nil, f.err
	}

	switch a := action.(type) {
	case models.SummarizeAction:
		summary := services.EmptyTextPlaceholder
		if a.Text != "" {
			summary = "summary of " + a.Text
		}
		return &models.StudyResult{Summary: &summary, Flashcards: []models.Flashcard{}}, nil
	case models.GenerateFlashcardsAction:
		return &models.StudyResult{
			Summary:    &a.Summary,
			Flashcards: []models.Flashcard{{Question: "What is <b>bold</b>?", Answer: a.Summary}},
		}, nil
	case models.ExportDocumentAction:
		doc, _ := f.ExportDocument(context.Background(), a.Questions, a.Answers)
		return &models.StudyResult{Flashcards: []models.Flashcard{}, Document: doc}, nil
	default:
		return &models.StudyResult{Flashcards: []models.Flashcard{}}, nil
	}
}

func (f *fakeStudyService) Summarize(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + text, nil
}

func (f *fakeStudyService) SummarizeFile(_ context.Context, filename string, data []byte) (string, error) {
	if !strings.HasSuffix(filename, ".txt") {
		return "", fmt.Errorf("extract text from %s: %w", filename, services.ErrUnsupportedFileType)
	}
	return f.Summarize(context.Background(), string(data))
}

func (f *fakeStudyService) GenerateFlashcards(_ context.Context, summary string) ([]models.Flashcard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Flashcard{{Question: "Q?", Answer: summary}}, nil
}

func (f *fakeStudyService) ExportDocument(_ context.Context, questions, answers []string) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Document{
		Filename:    services.DocumentFilename,
		ContentType: services.DocumentContentType,
		Pages:       1,
		Data:        []byte(fmt.Sprintf("%%PDF-1.3 %d/%d", len(questions), len(answers))),
	}, nil
}

func newTestRouter(t *testing.T, study services.StudyService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.DiscardHandler)
	router, err := NewRouter(NewStudyController(study, log), metrics.NewRecorder(prometheus.NewRegistry()), log)
	require.NoError(t, err)
	return router
}

func postForm(router http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHome(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="summarize"`)
	assert.NotContains(t, w.Body.String(), "Download PDF")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSubmit_SummarizeEmptyRendersPlaceholder(t *testing.T) {
	study := &fakeStudyService{}
	router := newTestRouter(t, study)

	w := postForm(router, url.Values{"text": {""}, "summarize": {""}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter some text to summarize.")
	require.Len(t, study.handled, 1)
	assert.Equal(t, models.SummarizeAction{Text: ""}, study.handled[0])
}

func TestSubmit_FlashcardsAreRenderedEscaped(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := postForm(router, url.Values{"action": {"flashcards"}, "summary": {"Cells divide."}})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Q1:")
	assert.Contains(t, body, "What is &lt;b&gt;bold&lt;/b&gt;?")
	assert.Contains(t, body, `name="answers[]" value="Cells divide."`)
	assert.Contains(t, body, "Download PDF")
}

func TestSubmit_DownloadReturnsAttachment(t *testing.T) {
	study := &fakeStudyService{}
	router := newTestRouter(t, study)

	w := postForm(router, url.Values{
		"download_pdf": {"1"},
		"questions[]":  {"Q_A", "Q_B"},
		"answers[]":    {"A_A", "A_B"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="flashcards.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 2/2", w.Body.String())
	assert.Equal(t, models.ExportDocumentAction{
		Questions: []string{"Q_A", "Q_B"},
		Answers:   []string{"A_A", "A_B"},
	}, study.handled[0])
}

func TestSubmit_ServiceErrorIsGeneric500(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{err: errors.New("secret upstream detail")})

	w := postForm(router, url.Values{"action": {"summarize"}, "text": {"x"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret upstream detail")
}

func TestAPISummarize(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := postJSON(router, "/api/v1/summarize", `{"text":"cells"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "summary of cells", resp.Summary)

	w = postJSON(router, "/api/v1/summarize", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAPISummarizeFile(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/file", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := upload("notes.txt", "cells")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "summary of cells")

	w = upload("notes.docx", "cells")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported file type")

	w = upload("empty.txt", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIFlashcards(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := postJSON(router, "/api/v1/flashcards", `{"summary":"Cells divide."}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FlashcardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []models.Flashcard{{Question: "Q?", Answer: "Cells divide."}}, resp.Flashcards)
}

func TestAPIExport(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := postJSON(router, "/api/v1/export", `{"questions":["q1","q2"],"answers":["a1"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="flashcards.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 2/1", w.Body.String())

	w = postJSON(router, "/api/v1/export", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &fakeStudyService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/summarize", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
