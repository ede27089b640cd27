package scoring

import (
	"math"
	"sort"
	"time"
)

// hourlyEngagement is the relative audience activity for each local hour
var hourlyEngagement = [24]float64{
	0.4, 0.3, 0.2, 0.2, 0.2, 0.3, 0.5, 0.7, 0.9, 1.1, 1.2, 1.3,
	1.4, 1.3, 1.1, 1.0, 1.0, 1.1, 1.3, 1.4, 1.3, 1.2, 0.9, 0.6,
}

const maxBestHours = 10

// HourSlot is one recommended posting hour
type HourSlot struct {
	Hour       int     `json:"hour"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// PostingWindow describes how good the current moment is for posting
type PostingWindow struct {
	Timezone       string     `json:"timezone"`
	CurrentHour    int        `json:"current_hour"`
	CurrentScore   int        `json:"current_score"`
	Quality        string     `json:"quality"`
	Recommendation string     `json:"recommendation"`
	TimingBonus    float64    `json:"timing_bonus"`
	BestHours      []HourSlot `json:"best_hours"`
}

// HourlyEngagement returns the activity multiplier of an hour of day
func HourlyEngagement(hour int) float64 {
	if hour < 0 || hour > 23 {
		return 0
	}
	return hourlyEngagement[hour]
}

// OptimalTimes rates t and lists the best posting hours of the day
func OptimalTimes(lex *Lexicon, t time.Time) PostingWindow {
	msg := lex.Timing
	current := HourlyEngagement(t.Hour())

	w := PostingWindow{
		Timezone:     t.Location().String(),
		CurrentHour:  t.Hour(),
		CurrentScore: int(math.Round(current * 100)),
		TimingBonus:  TimingBonus(t),
		BestHours:    []HourSlot{},
	}

	switch {
	case current >= 1.3:
		w.Quality, w.Recommendation = "excellent", msg.Excellent
	case current >= 1.0:
		w.Quality, w.Recommendation = "good", msg.Good
	default:
		w.Quality, w.Recommendation = "low", msg.Low
	}

	for h, m := range hourlyEngagement {
		if m < 1.0 {
			continue
		}
		label := msg.GoodLabel
		if m >= 1.2 {
			label = msg.PeakLabel
		}
		w.BestHours = append(w.BestHours, HourSlot{Hour: h, Multiplier: m, Label: label})
	}

	sort.SliceStable(w.BestHours, func(i, j int) bool {
		return w.BestHours[i].Multiplier > w.BestHours[j].Multiplier
	})
	if len(w.BestHours) > maxBestHours {
		w.BestHours = w.BestHours[:maxBestHours]
	}

	return w
}
