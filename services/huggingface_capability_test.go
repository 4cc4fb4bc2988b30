package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) All() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

func newHuggingFaceServer(t *testing.T, status int, response string) (*httptest.Server, *requestLog) {
	t.Helper()

	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		log.mu.Lock()
		log.requests = append(log.requests, recordedRequest{
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		log.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, log
}

func TestHuggingFaceSummarizer_SendsParameters(t *testing.T) {
	server, requests := newHuggingFaceServer(t, http.StatusOK, `[{"summary_text":" Cells are small. "}]`)

	client := NewHuggingFaceClient(server.Client(), server.URL+"/", "secret", 0)
	summarizer := NewHuggingFaceSummarizer(client, "sshleifer/distilbart-cnn-6-6")

	summary, err := summarizer.Summarize(context.Background(), "Cells are the smallest unit of life.", 120, 25)
	require.NoError(t, err)
	assert.Equal(t, "Cells are small.", summary)

	all := requests.All()
	require.Len(t, all, 1)
	req := all[0]
	assert.Equal(t, "/sshleifer/distilbart-cnn-6-6", req.Path)
	assert.Equal(t, "Bearer secret", req.Authorization)
	assert.Equal(t, "Cells are the smallest unit of life.", req.Body["inputs"])
	assert.Equal(t, map[string]any{
		"max_length": float64(120),
		"min_length": float64(25),
		"do_sample":  false,
	}, req.Body["parameters"])
	assert.Equal(t, map[string]any{"wait_for_model": true}, req.Body["options"])
}

func TestHuggingFaceQuestionGenerator_ParsesGeneratedText(t *testing.T) {
	server, requests := newHuggingFaceServer(t, http.StatusOK, `[{"generated_text":"What are cells?"}]`)

	client := NewHuggingFaceClient(server.Client(), server.URL, "", 0)
	generator := NewHuggingFaceQuestionGenerator(client, "valhalla/t5-small-qg-hl")

	question, err := generator.GenerateQuestion(context.Background(), QuestionPromptPrefix+"Cells are small.")
	require.NoError(t, err)
	assert.Equal(t, "What are cells?", question)

	all := requests.All()
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Authorization)
	assert.Equal(t, "generate question: Cells are small.", all[0].Body["inputs"])
}

func TestHuggingFaceClient_Non200(t *testing.T) {
	server, _ := newHuggingFaceServer(t, http.StatusServiceUnavailable, `{"error":"Model is loading"}`)

	client := NewHuggingFaceClient(server.Client(), server.URL, "token", 0)
	_, err := NewHuggingFaceSummarizer(client, "m").Summarize(context.Background(), "text", 120, 25)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200 status: 503")
	assert.Contains(t, err.Error(), "Model is loading")
}

func TestHuggingFaceClient_EmptyOutput(t *testing.T) {
	server, _ := newHuggingFaceServer(t, http.StatusOK, `[]`)

	client := NewHuggingFaceClient(server.Client(), server.URL, "", 0)
	_, err := NewHuggingFaceSummarizer(client, "m").Summarize(context.Background(), "text", 120, 25)

	require.ErrorIs(t, err, ErrEmptyOutput)
}

func TestHuggingFaceClient_CancelledContext(t *testing.T) {
	server, requests := newHuggingFaceServer(t, http.StatusOK, `[{"generated_text":"q"}]`)

	client := NewHuggingFaceClient(server.Client(), server.URL, "", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHuggingFaceQuestionGenerator(client, "m").GenerateQuestion(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, requests.All())
}
