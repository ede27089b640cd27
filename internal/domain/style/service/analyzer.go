package service

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vadim/tweetlab/internal/domain/style/entity"
	"github.com/vadim/tweetlab/internal/scoring"
)

const (
	topWords  = 10
	topEmojis = 5
)

// Analyzer derives a style profile from historical posts
type Analyzer struct {
	lex *scoring.Lexicon
}

// NewAnalyzer creates an analyzer over the given lexicon
func NewAnalyzer(lex *scoring.Lexicon) *Analyzer {
	if lex == nil {
		lex = scoring.Default()
	}
	return &Analyzer{lex: lex}
}

// Analyze summarizes samples. It is a pure function of its input.
func (a *Analyzer) Analyze(samples []entity.Sample) (*entity.Analysis, error) {
	if len(samples) == 0 {
		return nil, entity.ErrNoTweets
	}
	if len(samples) > entity.MaxSamples {
		return nil, entity.ErrTooManyTweets
	}

	var (
		n         = float64(len(samples))
		length    int
		breaks    int
		emojis    int
		questions int
		hashtags  int
		mentions  int
		links     int
		rates     []float64
		words     = newCounter()
		emojiSeen = newCounter()
		texts     = make([]string, 0, len(samples))
	)

	for _, s := range samples {
		f := scoring.Extract(a.lex, s.Text)
		length += f.Length
		breaks += strings.Count(s.Text, "\n")
		emojis += f.EmojiCount
		hashtags += f.HashtagCount
		mentions += f.MentionCount
		if f.HasQuestion {
			questions++
		}
		if f.HasLink {
			links++
		}

		for _, e := range a.lex.Emojis(s.Text) {
			emojiSeen.add(e)
		}
		for _, w := range a.lex.Words(s.Text) {
			words.add(w)
		}

		if rate := s.EngagementRate(); rate > 0 {
			rates = append(rates, rate)
		}
		texts = append(texts, s.Text)
	}

	avgLength := float64(length) / n
	emojiFreq := float64(emojis) / n
	questionFreq := float64(questions) / n
	linkFreq := float64(links) / n

	combined := strings.ToLower(strings.Join(texts, " "))

	out := &entity.Analysis{
		AvgLength:         int(round(avgLength, 0)),
		AvgLineBreaks:     round(float64(breaks)/n, 1),
		EmojiFrequency:    round(emojiFreq, 1),
		QuestionFrequency: round(questionFreq, 2),
		HashtagFrequency:  round(float64(hashtags)/n, 1),
		MentionFrequency:  round(float64(mentions)/n, 1),
		LinkFrequency:     round(linkFreq, 1),
		CommonWords:       words.top(topWords),
		CommonEmojis:      emojiSeen.top(topEmojis),
		Tone:              a.tone(combined),
		Topics:            a.topics(combined),
		AvgEngagementRate: round(mean(rates), 3),
	}

	msg := a.lex.Style.Messages
	out.BestPerformingPatterns = nonEmpty(
		when(questionFreq > 0.5, msg.PatternQuestions),
		when(avgLength > 200, msg.PatternLong),
		when(emojiFreq > 1, msg.PatternEmoji),
	)
	out.Recommendations = nonEmpty(
		when(questionFreq < 0.3, msg.RecommendQuestions),
		when(emojis == 0, msg.RecommendEmoji),
		when(avgLength < 100, msg.RecommendLonger),
		when(linkFreq > 0.5, msg.RecommendFewerLinks),
	)
	out.StylePromptAddition = a.prompt(avgLength, emojiFreq, questionFreq, out.Tone, out.CommonEmojis, out.CommonWords)

	return out, nil
}

// tone picks the group with the most keyword hits; the first group wins ties
func (a *Analyzer) tone(text string) string {
	best, bestHits := a.lex.Style.NeutralTone, 0
	for _, g := range a.lex.Style.Tones {
		if hits := scoring.CountHits(text, g.Keywords); hits > bestHits {
			best, bestHits = g.Name, hits
		}
	}
	return best
}

func (a *Analyzer) topics(text string) []string {
	var out []string
	for _, g := range a.lex.Style.Topics {
		if scoring.ContainsAny(text, g.Keywords) {
			out = append(out, groupLabel(g))
		}
	}
	if len(out) == 0 {
		return []string{a.lex.Style.DefaultTopic}
	}
	return out
}

func (a *Analyzer) toneLabel(name string) string {
	for _, g := range a.lex.Style.Tones {
		if g.Name == name {
			return groupLabel(g)
		}
	}
	return name
}

// prompt renders the style block appended to generation prompts
func (a *Analyzer) prompt(avgLength, emojiFreq, questionFreq float64, tone string, emojis, words []string) string {
	msg := a.lex.Style.Messages
	parts := []string{msg.PromptHeader}

	switch {
	case avgLength < 150:
		parts = append(parts, msg.PromptShort)
	case avgLength < 300:
		parts = append(parts, msg.PromptMedium)
	default:
		parts = append(parts, msg.PromptLong)
	}

	switch {
	case emojiFreq > 1:
		parts = append(parts, scoring.Render(msg.PromptEmojiFrequent, map[string]any{
			"emojis": strings.Join(head(emojis, 3), " "),
		}))
	case emojiFreq > 0:
		parts = append(parts, msg.PromptEmojiSometimes)
	default:
		parts = append(parts, msg.PromptEmojiNever)
	}

	if questionFreq > 0.5 {
		parts = append(parts, msg.PromptQuestions)
	}
	if tone != a.lex.Style.NeutralTone {
		parts = append(parts, scoring.Render(msg.PromptTone, map[string]any{"tone": a.toneLabel(tone)}))
	}
	if len(words) > 0 {
		parts = append(parts, scoring.Render(msg.PromptWords, map[string]any{
			"words": strings.Join(head(words, 5), ", "),
		}))
	}

	return strings.Join(nonEmpty(parts...), "\n")
}

func groupLabel(g scoring.KeywordGroup) string {
	if g.Label != "" {
		return g.Label
	}
	r, size := utf8.DecodeRuneInString(g.Name)
	return string(unicode.ToUpper(r)) + g.Name[size:]
}

// counter counts occurrences and remembers first-seen order for stable ranking
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return head(keys, n)
}

func head(s []string, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < len(s) && i < n; i++ {
		out = append(out, s[i])
	}
	return out
}

func when(cond bool, msg string) string {
	if cond {
		return msg
	}
	return ""
}

func nonEmpty(msgs ...string) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
