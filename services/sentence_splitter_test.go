package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunktSplitter_Split(t *testing.T) {
	splitter, err := NewPunktSplitter()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "The cell is the unit of life. Mitochondria produce energy.",
			want: []string{"The cell is the unit of life.", "Mitochondria produce energy."},
		},
		{
			name: "single sentence without period",
			text: "Water boils at 100 degrees",
			want: []string{"Water boils at 100 degrees"},
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitter.Split(tt.text))
		})
	}
}

func TestPunktSplitter_KeepsAllText(t *testing.T) {
	splitter, err := NewPunktSplitter()
	require.NoError(t, err)

	text := "The U.S. economy grew 3.5% in 2020. Mr. Jones said so."
	got := splitter.Split(text)
	require.NotEmpty(t, got)

	for _, sentence := range got {
		assert.Contains(t, text, sentence)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(strings.Join(got, " ")), " "))
}
