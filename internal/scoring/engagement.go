package scoring

// Action is a user interaction the predictor estimates a likelihood for
type Action string

const (
	ActionFavorite      Action = "favorite"
	ActionReply         Action = "reply"
	ActionRepost        Action = "repost"
	ActionQuote         Action = "quote"
	ActionFollow        Action = "follow"
	ActionClick         Action = "click"
	ActionProfileClick  Action = "profile_click"
	ActionVideoView     Action = "video_view"
	ActionPhotoExpand   Action = "photo_expand"
	ActionShare         Action = "share"
	ActionDwell         Action = "dwell"
	ActionNotInterested Action = "not_interested"
	ActionBlock         Action = "block"
	ActionMute          Action = "mute"
	ActionReport        Action = "report"
)

// Condition gates a term or offset on a feature of the post or author
type Condition int

const (
	Always Condition = iota
	IfQuestion
	IfNoQuestion
	IfVerified
	IfVideo
	IfLongForm
	IfShortForm
)

// Offset adds Value to an action when its condition holds
type Offset struct {
	When  Condition
	Value float64
}

// ActionModel is a linear estimate base + slope*score/100.
// Inverse models subtract the slope so that likelihood falls as score rises.
// An action with several models takes the first whose Requires holds;
// when none holds the action is reported as 0.
type ActionModel struct {
	Action   Action
	Requires Condition
	Base     float64
	Slope    float64
	Inverse  bool
	Offsets  []Offset
}

// Engagement maps each predicted action to an independent likelihood in [0,1].
// Values are not normalized and may sum above 1.
type Engagement map[Action]float64

var analysisEngagement = []ActionModel{
	{Action: ActionFavorite, Base: 0.02, Slope: 0.08},
	{Action: ActionReply, Base: 0.005, Slope: 0.04, Offsets: []Offset{{IfQuestion, 0.025}, {IfNoQuestion, 0.005}}},
	{Action: ActionRepost, Base: 0.003, Slope: 0.03},
	{Action: ActionQuote, Base: 0.002, Slope: 0.025},
	{Action: ActionFollow, Slope: 0.025, Offsets: []Offset{{IfVerified, 0.01}}},
	{Action: ActionClick, Base: 0.01, Slope: 0.05},
	{Action: ActionProfileClick, Base: 0.005, Slope: 0.02},
	{Action: ActionVideoView, Requires: IfVideo, Base: 0.05, Slope: 0.15},
	{Action: ActionPhotoExpand, Base: 0.01, Slope: 0.04},
	{Action: ActionShare, Base: 0.002, Slope: 0.015},
	{Action: ActionDwell, Requires: IfLongForm, Base: 0.1, Slope: 0.2},
	{Action: ActionDwell, Requires: IfShortForm, Base: 0.05, Slope: 0.1},
	{Action: ActionNotInterested, Base: 0.05, Slope: 0.03, Inverse: true},
	{Action: ActionBlock, Base: 0.005, Slope: 0.003, Inverse: true},
	{Action: ActionMute, Base: 0.01, Slope: 0.008, Inverse: true},
	{Action: ActionReport, Base: 0.001, Slope: 0.0005, Inverse: true},
}

var generationEngagement = []ActionModel{
	{Action: ActionFavorite, Base: 0.02, Slope: 0.08},
	{Action: ActionReply, Base: 0.005, Slope: 0.03, Offsets: []Offset{{IfQuestion, 0.025}, {IfNoQuestion, 0.005}}},
	{Action: ActionRepost, Base: 0.003, Slope: 0.02},
	{Action: ActionQuote, Base: 0.002, Slope: 0.015},
	{Action: ActionFollow, Slope: 0.02, Offsets: []Offset{{IfVerified, 0.01}}},
}

// NegativeActions are the actions whose likelihood falls as the score rises
var NegativeActions = []Action{ActionNotInterested, ActionBlock, ActionMute, ActionReport}

// Predict evaluates the action models for a final score in [0,100]
func Predict(models []ActionModel, score float64, f Features, p *AuthorProfile) Engagement {
	s := score / MaxScore
	out := make(Engagement, len(models))
	applied := make(map[Action]bool, len(models))
	for _, m := range models {
		if applied[m.Action] {
			continue
		}
		if !holds(m.Requires, f, p) {
			if _, ok := out[m.Action]; !ok {
				out[m.Action] = 0
			}
			continue
		}
		applied[m.Action] = true

		v := m.Base
		if m.Inverse {
			v -= m.Slope * s
		} else {
			v += m.Slope * s
		}
		for _, o := range m.Offsets {
			if holds(o.When, f, p) {
				v += o.Value
			}
		}
		out[m.Action] = clamp(v, 0, 1)
	}
	return out
}

func holds(c Condition, f Features, p *AuthorProfile) bool {
	switch c {
	case IfQuestion:
		return f.HasQuestion
	case IfNoQuestion:
		return !f.HasQuestion
	case IfVerified:
		return p != nil && p.Verified
	case IfVideo:
		return f.MentionsVideo
	case IfLongForm:
		return f.IsLongForm
	case IfShortForm:
		return !f.IsLongForm
	default:
		return true
	}
}
