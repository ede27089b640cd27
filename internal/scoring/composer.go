package scoring

import (
	"encoding/json"
	"math"
	"time"
)

// AuthorProfile is the read-only author context of a scoring call
type AuthorProfile struct {
	// Reputation is the author trust score. Nil means unknown and is
	// treated as the cold-start value.
	Reputation      *float64 `json:"reputation_score,omitempty"`
	Verified        bool     `json:"verified"`
	RecentPostCount int      `json:"recent_post_count"`
	TotalPosts      int      `json:"total_posts"`
}

// UnmarshalJSON also accepts the legacy "tweetcred_score" key for the
// reputation. "reputation_score" wins when both are present.
func (p *AuthorProfile) UnmarshalJSON(data []byte) error {
	type plain AuthorProfile
	var aux struct {
		plain
		TweetCred *float64 `json:"tweetcred_score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = AuthorProfile(aux.plain)
	if p.Reputation == nil {
		p.Reputation = aux.TweetCred
	}
	return nil
}

// ReputationOrDefault returns the reputation or the cold-start constant
func (p *AuthorProfile) ReputationOrDefault() float64 {
	if p == nil || p.Reputation == nil {
		return ColdStartReputation
	}
	return *p.Reputation
}

// Penalty is a flat score delta with the rule that produced it
type Penalty struct {
	Reason string  `json:"reason"`
	Delta  float64 `json:"delta"`
}

// Breakdown explains how the final score was composed
type Breakdown struct {
	BaseScore              float64   `json:"base_score"`
	ProfileBoost           float64   `json:"profile_boost"`
	ContentBonus           float64   `json:"content_bonus"`
	TimingBonus            float64   `json:"timing_bonus"`
	ViralBonus             float64   `json:"viral_bonus"`
	AuthorDiversityPenalty float64   `json:"author_diversity_penalty"`
	Penalties              []Penalty `json:"penalties"`
}

// Multiplier returns the product of every multiplier in the breakdown
func (b Breakdown) Multiplier() float64 {
	return b.ProfileBoost * b.ContentBonus * b.TimingBonus * b.ViralBonus * b.AuthorDiversityPenalty
}

// PenaltyTotal sums the flat deltas
func (b Breakdown) PenaltyTotal() float64 {
	var sum float64
	for _, p := range b.Penalties {
		sum += p.Delta
	}
	return sum
}

// composition is the numeric part of a result
type composition struct {
	breakdown    Breakdown
	final        float64
	maxScore     float64
	distribution float64
}

func neutralBreakdown() Breakdown {
	return Breakdown{
		BaseScore:              BaseScore,
		ProfileBoost:           1,
		ContentBonus:           1,
		TimingBonus:            1,
		ViralBonus:             1,
		AuthorDiversityPenalty: 1,
		Penalties:              []Penalty{},
	}
}

// compose applies one strategy to the extracted features
func compose(st Strategy, lex *Lexicon, f Features, p *AuthorProfile, now time.Time) composition {
	b := neutralBreakdown()
	b.BaseScore = BaseScore + bonuses(st, f)
	b.Penalties = penalties(st, f)

	if p != nil && p.Verified {
		b.ProfileBoost += st.VerifiedBoost
	}
	if st.ApplyContent {
		b.ContentBonus = contentBonus(st, f)
	}
	if st.ApplyViral {
		b.ViralBonus = viralBonus(lex, f)
	}
	if st.ApplyDiversity {
		b.AuthorDiversityPenalty = diversityPenalty(st, p)
	}
	if st.ApplyTiming {
		b.TimingBonus = TimingBonus(now)
	}

	additive := b.BaseScore + b.PenaltyTotal()
	if st.ClampBeforeMultipliers {
		additive = clamp(additive, 0, MaxScore)
	}

	return composition{
		breakdown:    b,
		final:        clamp(additive*b.Multiplier(), 0, MaxScore),
		maxScore:     MaxScore * b.ProfileBoost * b.ContentBonus * b.ViralBonus * b.TimingBonus,
		distribution: distributionRate(st, p),
	}
}

func bonuses(st Strategy, f Features) float64 {
	var sum float64
	for _, band := range st.LengthBands {
		if f.Length >= band.Min && f.Length <= band.Max {
			sum += band.Bonus
			break
		}
	}
	if f.HasQuestion {
		sum += st.QuestionBonus
	}
	if f.EmojiCount >= st.EmojiMin && f.EmojiCount <= st.EmojiMax {
		sum += st.EmojiBonus
	}
	if f.HasNewline {
		sum += st.NewlineBonus
	}
	if !f.HasLink {
		sum += st.NoLinkBonus
	}
	if f.IsLongForm {
		sum += st.LongFormBonus
	}
	if f.HasHook {
		sum += st.HookBonus
	}
	return sum
}

func penalties(st Strategy, f Features) []Penalty {
	out := []Penalty{}
	add := func(reason string, delta float64) {
		if delta != 0 {
			out = append(out, Penalty{Reason: reason, Delta: delta})
		}
	}

	if f.Length > MaxPostLength {
		add("over_length", st.OverLengthDelta)
	}
	if f.HasLink {
		add("external_link", st.LinkPenalty)
	}
	if f.EmojiCount > st.EmojiLimit {
		add("emoji_spam", st.EmojiPenalty)
	}
	if f.HashtagCount > st.HashtagLimit {
		add("hashtag_spam", st.HashtagPenalty)
	}
	if !f.HasQuestion && !f.HasNewline {
		add("passive_text", st.PassivePenalty)
	}
	return out
}

func contentBonus(st Strategy, f Features) float64 {
	switch {
	case f.HasLink:
		return st.LinkContentBonus
	case f.IsThread:
		return st.ThreadBonus
	default:
		return 1
	}
}

func viralBonus(lex *Lexicon, f Features) float64 {
	bonus := 1.0
	for _, name := range f.ViralMatches {
		for _, c := range lex.ViralCategories {
			if c.Name == name {
				bonus += c.Factor - 1
			}
		}
	}
	return bonus
}

func diversityPenalty(st Strategy, p *AuthorProfile) float64 {
	if p == nil || p.RecentPostCount <= OptimalRecentPosts {
		return 1
	}
	excess := float64(p.RecentPostCount - OptimalRecentPosts)
	return math.Max(st.DiversityFloor, 1-excess*st.DiversityStep)
}

// DistributionFromReputation maps an author trust score to the reachable audience share
func DistributionFromReputation(rep float64) float64 {
	switch {
	case rep >= 17:
		return 1.0
	case rep <= -50:
		return 0.10
	default:
		return 0.3 + (rep+50)/150
	}
}

func distributionRate(st Strategy, p *AuthorProfile) float64 {
	if p == nil {
		return 0.5
	}
	if st.ProfileDistribution > 0 {
		return st.ProfileDistribution
	}
	return DistributionFromReputation(p.ReputationOrDefault())
}

// TimingBonus returns the posting-time multiplier for t in its own location
func TimingBonus(t time.Time) float64 {
	bonus := 1.0
	h := t.Hour()
	switch {
	case (h >= 18 && h <= 21) || (h >= 12 && h <= 13):
		bonus = 1.2
	case h <= 6:
		bonus = 0.7
	}

	switch wd := t.Weekday(); {
	case wd >= time.Monday && wd <= time.Thursday:
		bonus *= 1.1
	case wd == time.Sunday:
		bonus *= 0.8
	}
	return bonus
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
