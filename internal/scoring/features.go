package scoring

import (
	"strings"
	"unicode/utf16"
)

// LongFormThreshold is the length above which a post counts as long-form
const LongFormThreshold = 150

// Features are the signals derived from a post body
type Features struct {
	Length        int      `json:"length"`
	HasQuestion   bool     `json:"has_question"`
	EmojiCount    int      `json:"emoji_count"`
	HasNewline    bool     `json:"has_newline"`
	HashtagCount  int      `json:"hashtag_count"`
	MentionCount  int      `json:"mention_count"`
	HasLink       bool     `json:"has_link"`
	IsLongForm    bool     `json:"is_long_form"`
	IsThread      bool     `json:"is_thread"`
	MentionsVideo bool     `json:"mentions_video"`
	HasHook       bool     `json:"has_hook"`
	ViralMatches  []string `json:"viral_matches"`
}

// Extract derives features from text in one pass over the lexicon tables.
// Length is counted in UTF-16 code units, the way the platform counts characters.
func Extract(lex *Lexicon, text string) Features {
	f := Features{ViralMatches: []string{}}
	if text == "" {
		return f
	}

	for _, r := range text {
		f.Length += utf16.RuneLen(r)
		if r == '\n' {
			f.HasNewline = true
		}
		if lex.IsEmoji(r) {
			f.EmojiCount++
		}
	}

	m := lex.Markers
	f.HasQuestion = m.Question != "" && strings.Contains(text, m.Question)
	f.HashtagCount = count(text, m.Hashtag)
	f.MentionCount = count(text, m.Mention)
	f.HasLink = m.Link != "" && strings.Contains(text, m.Link)
	f.IsLongForm = f.Length > LongFormThreshold || f.HasNewline
	f.IsThread = ContainsAny(text, m.Thread)

	lower := strings.ToLower(text)
	f.MentionsVideo = m.Video != "" && strings.Contains(lower, m.Video)
	f.HasHook = ContainsAny(lower, lex.HookKeywords)

	for _, c := range lex.ViralCategories {
		haystack := lower
		if c.CaseSensitive {
			haystack = text
		}
		if ContainsAny(haystack, c.Keywords) {
			f.ViralMatches = append(f.ViralMatches, c.Name)
		}
	}

	return f
}

func count(text, marker string) int {
	if marker == "" {
		return 0
	}
	return strings.Count(text, marker)
}
