package scoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon(t *testing.T) {
	lex := Default()

	assert.Equal(t, "tr-v1", lex.Version)
	assert.Len(t, lex.EmojiRanges, 6)
	assert.Len(t, lex.ViralCategories, 7)
	assert.Equal(t, "controversial", lex.ViralCategories[0].Name)
	assert.True(t, lex.ViralCategories[6].CaseSensitive)
	assert.Equal(t, []string{"🧵", "1/", "1."}, lex.Markers.Thread)
}

func TestLexicon_IsEmoji(t *testing.T) {
	lex := Default()

	assert.True(t, lex.IsEmoji('😀'))
	assert.True(t, lex.IsEmoji('☀'))
	assert.True(t, lex.IsEmoji('✂'))
	assert.False(t, lex.IsEmoji('🧵'))
	assert.False(t, lex.IsEmoji('a'))
	assert.Equal(t, []string{"🚀", "🔥"}, lex.Emojis("a🚀b🔥c"))
}

func TestLexicon_Words(t *testing.T) {
	lex := Default()

	words := lex.Words("Bugün için yazılım öğrendim, çünkü kodlama güzel ve eğlenceli")

	assert.NotContains(t, words, "için")
	assert.NotContains(t, words, "ve")
	assert.Contains(t, words, "yazılım")
	assert.Contains(t, words, "öğrendim")
	assert.Contains(t, words, "çünkü")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"missing version", "emoji_ranges: [{from: 1, to: 2}]", ErrLexiconVersion},
		{"no ranges", "version: x", ErrLexiconRanges},
		{"inverted range", "version: x\nemoji_ranges: [{from: 5, to: 2}]", ErrLexiconRanges},
		{"bad category", "version: x\nemoji_ranges: [{from: 1, to: 2}]\nviral_categories: [{name: a, factor: 0, keywords: [b]}]", ErrLexiconCategory},
		{"duplicate category", "version: x\nemoji_ranges: [{from: 1, to: 2}]\nviral_categories: [{name: a, factor: 2, keywords: [b]}, {name: a, factor: 3, keywords: [c]}]", ErrLexiconCategory},
		{"bad pattern", "version: x\nemoji_ranges: [{from: 1, to: 2}]\nstyle: {word_pattern: '('}", ErrLexiconPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad_Override(t *testing.T) {
	data := strings.Join([]string{
		"version: en-test",
		"emoji_ranges: [{from: 0x1F600, to: 0x1F64F}]",
		"markers: {question: '?', link: 'http'}",
		"viral_categories:",
		"  - {name: hype, factor: 1.5, keywords: [breaking]}",
		"feedback:",
		"  analysis:",
		"    strengths: {question: 'Asks a question'}",
	}, "\n")
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en-test", lex.Version)

	e := New(lex, WithClock(FixedClock(neutralTime)), WithLocation(time.UTC))
	res := e.Score(Input{Text: "Breaking: is this real?"})

	assert.Equal(t, "en-test", res.LexiconVersion)
	assert.Equal(t, []string{"hype"}, res.Features.ViralMatches)
	assert.InDelta(t, 1.5, res.Breakdown.ViralBonus, 1e-9)
	assert.Equal(t, []string{"Asks a question"}, res.Strengths)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	assert.Equal(t, "3 post attın (optimal: 2)", Render("{count} post attın (optimal: 2)", map[string]any{"count": 3}))
	assert.Equal(t, "plain", Render("plain", nil))
}
