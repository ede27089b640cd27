package scoring

import "fmt"

// Feedback is the human-readable explanation of a score
type Feedback struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

type feedbackBuilder struct {
	Feedback
}

func newFeedback() *feedbackBuilder {
	return &feedbackBuilder{Feedback{
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: []string{},
	}}
}

func (b *feedbackBuilder) strength(ok bool, msg string) {
	if ok && msg != "" {
		b.Strengths = append(b.Strengths, msg)
	}
}

func (b *feedbackBuilder) weakness(ok bool, msg string) {
	if ok && msg != "" {
		b.Weaknesses = append(b.Weaknesses, msg)
	}
}

func (b *feedbackBuilder) suggestion(ok bool, msg string) {
	if ok && msg != "" {
		b.Suggestions = append(b.Suggestions, msg)
	}
}

func feedbackSet(lex *Lexicon, m Mode) FeedbackSet {
	if m == ModeGeneration {
		return lex.Feedback.Generation
	}
	return lex.Feedback.Analysis
}

// buildFeedback applies the threshold rules in a fixed order
func buildFeedback(st Strategy, lex *Lexicon, f Features, c composition) Feedback {
	msg := feedbackSet(lex, st.Mode)
	b := newFeedback()

	b.strength(f.HasQuestion, msg.Strengths.Question)
	b.strength(!f.HasLink, msg.Strengths.NoLink)
	b.strength(f.EmojiCount >= st.EmojiMin && f.EmojiCount <= st.EmojiMax, msg.Strengths.Emoji)
	b.strength(f.HasNewline, msg.Strengths.Readable)
	b.strength(c.breakdown.ViralBonus > 1, msg.Strengths.Viral)
	b.strength(f.IsLongForm, msg.Strengths.Dwell)

	b.weakness(f.HasLink, msg.Weaknesses.Link)
	b.weakness(f.EmojiCount > st.EmojiLimit, msg.Weaknesses.TooManyEmojis)
	b.weakness(f.HashtagCount > st.HashtagLimit, msg.Weaknesses.TooManyHashtags)
	b.weakness(f.Length > MaxPostLength, msg.Weaknesses.TooLong)
	b.weakness(!f.HasQuestion && !f.HasNewline, msg.Weaknesses.Passive)

	b.suggestion(c.final < 50, msg.Suggestions.LowScore)
	b.suggestion(!f.HasQuestion, msg.Suggestions.AddQuestion)
	b.suggestion(f.EmojiCount == 0, msg.Suggestions.AddEmoji)

	return b.Feedback
}

// emptyFeedback is returned for a post without content
func emptyFeedback(lex *Lexicon, m Mode) Feedback {
	msg := feedbackSet(lex, m)
	b := newFeedback()
	b.weakness(true, msg.Weaknesses.Empty)
	b.suggestion(true, msg.Suggestions.AddQuestion)
	b.suggestion(true, msg.Suggestions.AddEmoji)
	return b.Feedback
}

// Insights summarize the author-level signals of an analysis
type Insights struct {
	CandidateIsolationReady bool   `json:"candidate_isolation_ready"`
	GoldenHour              string `json:"golden_hour"`
	AuthorDiversity         string `json:"author_diversity"`
	TweetCred               string `json:"tweetcred"`
	EngagementDebt          string `json:"engagement_debt"`
}

func buildInsights(lex *Lexicon, p *AuthorProfile) *Insights {
	msg := lex.Insights
	in := &Insights{
		CandidateIsolationReady: true,
		GoldenHour:              msg.GoldenHour,
		AuthorDiversity:         msg.DiversityOK,
		EngagementDebt:          msg.DebtDone,
	}

	if p != nil && p.RecentPostCount > OptimalRecentPosts {
		in.AuthorDiversity = msg.DiversityRisk
	}

	rep := p.ReputationOrDefault()
	vars := map[string]any{"reputation": formatReputation(rep)}
	switch {
	case p == nil || p.Reputation == nil:
		in.TweetCred = Render(msg.ReputationCold, vars)
	case rep < 0:
		in.TweetCred = Render(msg.ReputationLow, vars)
	default:
		in.TweetCred = msg.ReputationOK
	}

	total := 0
	if p != nil {
		total = p.TotalPosts
	}
	if total < EngagementDebtPosts {
		in.EngagementDebt = Render(msg.DebtOpen, map[string]any{"count": total})
	}

	return in
}

func formatReputation(rep float64) string {
	if rep == float64(int64(rep)) {
		return fmt.Sprintf("%d", int64(rep))
	}
	return fmt.Sprintf("%.1f", rep)
}
