// Package scoring implements the heuristic reach score of a short post.
// The engine is pure apart from the injected clock and is safe for concurrent use.
package scoring

import (
	"math"
	"time"
)

// Input is one scoring request
type Input struct {
	Text    string
	Profile *AuthorProfile
	Mode    Mode
}

// Result is the full outcome of a scoring call
type Result struct {
	Mode             Mode       `json:"mode"`
	LexiconVersion   string     `json:"lexicon_version"`
	Score            int        `json:"score"`
	RawScore         float64    `json:"raw_score"`
	MaxScore         float64    `json:"max_score"`
	DistributionRate float64    `json:"distribution_rate"`
	Features         Features   `json:"features"`
	Breakdown        Breakdown  `json:"breakdown"`
	Engagement       Engagement `json:"engagement_predictions"`
	Feedback
	Warnings []string  `json:"warnings,omitempty"`
	Insights *Insights `json:"insights,omitempty"`
}

// Observer is notified of every completed scoring call
type Observer interface {
	ObserveScore(mode Mode, score int)
}

// Engine scores posts against a lexicon
type Engine struct {
	lex      *Lexicon
	clock    Clock
	loc      *time.Location
	observer Observer
}

// Option configures the Engine
type Option func(*Engine)

// WithClock sets the time source of the timing multiplier
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLocation sets the timezone the timing multiplier is evaluated in
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithObserver registers a scoring observer
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// New creates an engine. A nil lexicon selects the embedded default.
func New(lex *Lexicon, opts ...Option) *Engine {
	if lex == nil {
		lex = Default()
	}
	e := &Engine{
		lex:   lex,
		clock: SystemClock{},
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lexicon returns the tables the engine scores with
func (e *Engine) Lexicon() *Lexicon {
	return e.lex
}

// Now returns the engine clock in the engine timezone
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

// Score computes the result for one post. It never fails.
func (e *Engine) Score(in Input) *Result {
	st := StrategyFor(in.Mode)
	f := Extract(e.lex, in.Text)

	var (
		c  composition
		fb Feedback
	)
	if in.Text == "" {
		c = composition{
			breakdown:    neutralBreakdown(),
			final:        BaseScore,
			maxScore:     MaxScore,
			distribution: distributionRate(st, in.Profile),
		}
		fb = emptyFeedback(e.lex, st.Mode)
	} else {
		c = compose(st, e.lex, f, in.Profile, e.Now())
		fb = buildFeedback(st, e.lex, f, c)
	}

	res := &Result{
		Mode:             st.Mode,
		LexiconVersion:   e.lex.Version,
		Score:            int(math.Round(c.final)),
		RawScore:         c.final,
		MaxScore:         c.maxScore,
		DistributionRate: c.distribution,
		Features:         f,
		Breakdown:        c.breakdown,
		Engagement:       Predict(st.Engagement, c.final, f, in.Profile),
		Feedback:         fb,
	}

	if st.ApplyDiversity && in.Profile != nil && in.Profile.RecentPostCount > OptimalRecentPosts {
		res.Warnings = append(res.Warnings, Render(e.lex.Warnings.AuthorDiversity, map[string]any{
			"count": in.Profile.RecentPostCount,
		}))
	}
	if st.Insights {
		res.Insights = buildInsights(e.lex, in.Profile)
	}

	if e.observer != nil {
		e.observer.ObserveScore(st.Mode, res.Score)
	}

	return res
}

// OptimalTimes rates the current moment in the engine timezone
func (e *Engine) OptimalTimes() PostingWindow {
	return OptimalTimes(e.lex, e.Now())
}
