package scoring

import "fmt"

// Mode selects which scoring heuristic is applied
type Mode string

const (
	// ModeAnalysis scores user-written text with the full multiplier set
	ModeAnalysis Mode = "analysis"
	// ModeGeneration scores freshly generated text with the additive formula
	ModeGeneration Mode = "generation"
)

// ParseMode parses a mode name, defaulting to analysis
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeAnalysis):
		return ModeAnalysis, nil
	case string(ModeGeneration):
		return ModeGeneration, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

// Constants shared by both heuristics
const (
	BaseScore           = 50.0
	MaxScore            = 100.0
	MaxPostLength       = 25000
	ColdStartReputation = -128.0
	OptimalRecentPosts  = 2
	EngagementDebtPosts = 100
)

// LengthBand awards a bonus when the post length falls in [Min, Max]
type LengthBand struct {
	Min   int
	Max   int
	Bonus float64
}

// Strategy holds the constants of one scoring heuristic.
// Both heuristics run through the same compose function.
type Strategy struct {
	Mode Mode

	// Bonuses. The first matching length band wins.
	LengthBands   []LengthBand
	QuestionBonus float64
	EmojiMin      int
	EmojiMax      int
	EmojiBonus    float64
	NewlineBonus  float64
	NoLinkBonus   float64
	LongFormBonus float64
	HookBonus     float64

	// Penalties, stored as negative deltas.
	EmojiLimit      int
	EmojiPenalty    float64
	HashtagLimit    int
	HashtagPenalty  float64
	LinkPenalty     float64
	OverLengthDelta float64
	PassivePenalty  float64

	// Multipliers.
	VerifiedBoost    float64
	ThreadBonus      float64
	LinkContentBonus float64
	DiversityStep    float64
	DiversityFloor   float64
	ApplyContent     bool
	ApplyViral       bool
	ApplyDiversity   bool
	ApplyTiming      bool

	// ClampBeforeMultipliers clamps the additive score before the profile boost.
	ClampBeforeMultipliers bool

	// ProfileDistribution, when non-zero, replaces the reputation mapping for
	// callers that supply a profile.
	ProfileDistribution float64

	Engagement []ActionModel
	Insights   bool
}

// Analysis is the heuristic applied to text a user wrote
var Analysis = Strategy{
	Mode: ModeAnalysis,

	LengthBands: []LengthBand{
		{Min: 60, Max: 220, Bonus: 15},
		{Min: 40, Max: 280, Bonus: 10},
	},
	QuestionBonus: 15,
	EmojiMin:      1,
	EmojiMax:      3,
	EmojiBonus:    8,
	NewlineBonus:  5,
	NoLinkBonus:   12,
	LongFormBonus: 10,

	EmojiLimit:      5,
	EmojiPenalty:    -20,
	HashtagLimit:    3,
	HashtagPenalty:  -15,
	LinkPenalty:     -15,
	OverLengthDelta: -25,
	PassivePenalty:  -10,

	VerifiedBoost:    1.2,
	ThreadBonus:      1.25,
	LinkContentBonus: 0.7,
	DiversityStep:    0.15,
	DiversityFloor:   0.4,
	ApplyContent:     true,
	ApplyViral:       true,
	ApplyDiversity:   true,
	ApplyTiming:      true,

	Engagement: analysisEngagement,
	Insights:   true,
}

// Generation is the heuristic applied to LLM output before it is returned
var Generation = Strategy{
	Mode: ModeGeneration,

	LengthBands: []LengthBand{
		{Min: 60, Max: 220, Bonus: 15},
		{Min: 40, Max: 280, Bonus: 10},
	},
	QuestionBonus: 15,
	EmojiMin:      1,
	EmojiMax:      3,
	EmojiBonus:    10,
	NewlineBonus:  10,
	NoLinkBonus:   15,
	HookBonus:     10,

	EmojiLimit:      5,
	EmojiPenalty:    -15,
	HashtagLimit:    3,
	HashtagPenalty:  -15,
	LinkPenalty:     -20,
	OverLengthDelta: -10,

	VerifiedBoost: 0.2,

	ClampBeforeMultipliers: true,
	ProfileDistribution:    0.8,

	Engagement: generationEngagement,
}

// StrategyFor returns the heuristic registered for mode
func StrategyFor(m Mode) Strategy {
	if m == ModeGeneration {
		return Generation
	}
	return Analysis
}
