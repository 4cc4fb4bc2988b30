package controller

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github/itish2003/studyflash/metrics"
)

// NewRouter wires the form page, the JSON API and the operational endpoints.
func NewRouter(studyController *StudyController, recorder *metrics.Recorder, log *slog.Logger) (*gin.Engine, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), CORS())
	router.SetHTMLTemplate(templates)
	router.MaxMultipartMemory = maxUploadBytes

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "studyflash",
		})
	})
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	router.GET("/", studyController.Home)
	router.POST("/", studyController.Submit)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/summarize", studyController.Summarize)
		apiV1.POST("/summarize/file", studyController.SummarizeFile)
		apiV1.POST("/flashcards", studyController.GenerateFlashcards)
		apiV1.POST("/export", studyController.ExportDocument)
	}

	return router, nil
}
