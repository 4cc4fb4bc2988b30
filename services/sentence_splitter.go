package services

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter splits a block of text into ordered sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// PunktSplitter uses the pretrained English Punkt model.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunktSplitter() (*PunktSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &PunktSplitter{tokenizer: tokenizer}, nil
}

// Split returns the trimmed, non-empty sentences of text in source order.
func (s *PunktSplitter) Split(text string) []string {
	var out []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
