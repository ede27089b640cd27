package scoring

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon_tr.yaml
var defaultLexicon []byte

// Lexicon errors
var (
	ErrLexiconVersion  = errors.New("lexicon version is required")
	ErrLexiconRanges   = errors.New("lexicon emoji ranges are invalid")
	ErrLexiconCategory = errors.New("lexicon viral category is invalid")
	ErrLexiconPattern  = errors.New("lexicon word pattern is invalid")
)

// RuneRange is an inclusive code point range
type RuneRange struct {
	From rune `yaml:"from"`
	To   rune `yaml:"to"`
}

// Markers are the literal substrings the feature extractor looks for
type Markers struct {
	Question string   `yaml:"question"`
	Hashtag  string   `yaml:"hashtag"`
	Mention  string   `yaml:"mention"`
	Link     string   `yaml:"link"`
	Video    string   `yaml:"video"`
	Thread   []string `yaml:"thread"`
}

// ViralCategory is a named keyword group with its reach multiplier
type ViralCategory struct {
	Name          string   `yaml:"name"`
	Factor        float64  `yaml:"factor"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	Keywords      []string `yaml:"keywords"`
}

// FeedbackSet holds the messages of one scoring mode. Empty messages are not emitted.
type FeedbackSet struct {
	Strengths struct {
		Question string `yaml:"question"`
		NoLink   string `yaml:"no_link"`
		Emoji    string `yaml:"emoji"`
		Readable string `yaml:"readable"`
		Viral    string `yaml:"viral"`
		Dwell    string `yaml:"dwell"`
	} `yaml:"strengths"`
	Weaknesses struct {
		Link            string `yaml:"link"`
		TooManyEmojis   string `yaml:"too_many_emojis"`
		TooManyHashtags string `yaml:"too_many_hashtags"`
		TooLong         string `yaml:"too_long"`
		Passive         string `yaml:"passive"`
		Empty           string `yaml:"empty"`
	} `yaml:"weaknesses"`
	Suggestions struct {
		LowScore    string `yaml:"low_score"`
		AddQuestion string `yaml:"add_question"`
		AddEmoji    string `yaml:"add_emoji"`
	} `yaml:"suggestions"`
}

// InsightMessages are the status lines of an analysis-mode result
type InsightMessages struct {
	GoldenHour     string `yaml:"golden_hour"`
	DiversityRisk  string `yaml:"diversity_risk"`
	DiversityOK    string `yaml:"diversity_ok"`
	ReputationCold string `yaml:"reputation_cold"`
	ReputationLow  string `yaml:"reputation_low"`
	ReputationOK   string `yaml:"reputation_ok"`
	DebtOpen       string `yaml:"debt_open"`
	DebtDone       string `yaml:"debt_done"`
}

// TimingMessages label posting windows
type TimingMessages struct {
	PeakLabel string `yaml:"peak_label"`
	GoodLabel string `yaml:"good_label"`
	Excellent string `yaml:"excellent"`
	Good      string `yaml:"good"`
	Low       string `yaml:"low"`
}

// KeywordGroup is an ordered classification bucket
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// StyleMessages are used by the style analyzer
type StyleMessages struct {
	PatternQuestions     string `yaml:"pattern_questions"`
	PatternLong          string `yaml:"pattern_long"`
	PatternEmoji         string `yaml:"pattern_emoji"`
	RecommendQuestions   string `yaml:"recommend_questions"`
	RecommendEmoji       string `yaml:"recommend_emoji"`
	RecommendLonger      string `yaml:"recommend_longer"`
	RecommendFewerLinks  string `yaml:"recommend_fewer_links"`
	PromptHeader         string `yaml:"prompt_header"`
	PromptShort          string `yaml:"prompt_short"`
	PromptMedium         string `yaml:"prompt_medium"`
	PromptLong           string `yaml:"prompt_long"`
	PromptEmojiFrequent  string `yaml:"prompt_emoji_frequent"`
	PromptEmojiSometimes string `yaml:"prompt_emoji_sometimes"`
	PromptEmojiNever     string `yaml:"prompt_emoji_never"`
	PromptQuestions      string `yaml:"prompt_questions"`
	PromptTone           string `yaml:"prompt_tone"`
	PromptWords          string `yaml:"prompt_words"`
}

// StyleLexicon holds the tables of the historical style heuristic
type StyleLexicon struct {
	WordPattern  string         `yaml:"word_pattern"`
	StopWords    []string       `yaml:"stop_words"`
	NeutralTone  string         `yaml:"neutral_tone"`
	DefaultTopic string         `yaml:"default_topic"`
	Tones        []KeywordGroup `yaml:"tones"`
	Topics       []KeywordGroup `yaml:"topics"`
	Messages     StyleMessages  `yaml:"messages"`

	wordRe    *regexp.Regexp
	stopWords map[string]struct{}
}

// Lexicon is a versioned set of keyword, emoji and message tables.
// It is read-only after Load and safe for concurrent use.
type Lexicon struct {
	Version         string          `yaml:"version"`
	EmojiRanges     []RuneRange     `yaml:"emoji_ranges"`
	Markers         Markers         `yaml:"markers"`
	ViralCategories []ViralCategory `yaml:"viral_categories"`
	HookKeywords    []string        `yaml:"hook_keywords"`
	Feedback        struct {
		Analysis   FeedbackSet `yaml:"analysis"`
		Generation FeedbackSet `yaml:"generation"`
	} `yaml:"feedback"`
	Warnings struct {
		AuthorDiversity string `yaml:"author_diversity"`
	} `yaml:"warnings"`
	Insights InsightMessages `yaml:"insights"`
	Timing   TimingMessages  `yaml:"timing"`
	Style    StyleLexicon    `yaml:"style"`
}

// Default returns the embedded lexicon
func Default() *Lexicon {
	lex, err := Parse(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return lex
}

// Load reads a lexicon from path, falling back to the embedded one when path is empty
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Parse(defaultLexicon)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML lexicon
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("decoding lexicon: %w", err)
	}

	if err := lex.Validate(); err != nil {
		return nil, err
	}

	return &lex, nil
}

// Validate checks the tables and prepares derived lookups
func (l *Lexicon) Validate() error {
	if l.Version == "" {
		return ErrLexiconVersion
	}
	if len(l.EmojiRanges) == 0 {
		return ErrLexiconRanges
	}
	for _, rr := range l.EmojiRanges {
		if rr.From <= 0 || rr.To < rr.From {
			return fmt.Errorf("%w: %X-%X", ErrLexiconRanges, rr.From, rr.To)
		}
	}
	seen := make(map[string]struct{}, len(l.ViralCategories))
	for _, c := range l.ViralCategories {
		if c.Name == "" || c.Factor <= 0 || len(c.Keywords) == 0 {
			return fmt.Errorf("%w: %q", ErrLexiconCategory, c.Name)
		}
		// viralBonus sums factors by name, a repeated name would count twice
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrLexiconCategory, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	pattern := l.Style.WordPattern
	if pattern == "" {
		pattern = `\p{L}{4,}`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLexiconPattern, err)
	}
	l.Style.wordRe = re

	l.Style.stopWords = make(map[string]struct{}, len(l.Style.StopWords))
	for _, w := range l.Style.StopWords {
		l.Style.stopWords[strings.ToLower(w)] = struct{}{}
	}

	return nil
}

// IsEmoji reports whether r falls in one of the emoji ranges
func (l *Lexicon) IsEmoji(r rune) bool {
	for _, rr := range l.EmojiRanges {
		if r >= rr.From && r <= rr.To {
			return true
		}
	}
	return false
}

// Emojis returns every emoji code point of text in order of appearance
func (l *Lexicon) Emojis(text string) []string {
	var out []string
	for _, r := range text {
		if l.IsEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// Words returns the lowercased words of text that pass the style filter
func (l *Lexicon) Words(text string) []string {
	if l.Style.wordRe == nil {
		return nil
	}
	var out []string
	for _, w := range l.Style.wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := l.Style.stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ContainsAny reports whether text contains any of the keywords
func ContainsAny(text string, keywords []string) bool {
	return CountHits(text, keywords) > 0
}

// CountHits returns how many keywords occur in text
func CountHits(text string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}

// Render substitutes {name} placeholders in a message template
func Render(tmpl string, vars map[string]any) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", formatVar(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func formatVar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
