package service

import (
	"strconv"
	"strings"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
	"github.com/vadim/tweetlab/internal/scoring"
)

// PromptBuilder renders generation prompts from the catalog
type PromptBuilder struct {
	catalog *Catalog
}

// NewPromptBuilder creates a builder. A nil catalog uses the embedded one.
func NewPromptBuilder(c *Catalog) *PromptBuilder {
	if c == nil {
		c = DefaultCatalog()
	}
	return &PromptBuilder{catalog: c}
}

// Tweet renders the single-tweet prompt. styleAddition is appended verbatim.
func (b *PromptBuilder) Tweet(req entity.TweetRequest, styleAddition string) entity.Prompt {
	req = req.WithDefaults()
	g := b.catalog.guide(req.Language)

	var sb strings.Builder
	sb.WriteString(g.Intro)
	sb.WriteString("\n\n")
	sb.WriteString(g.Labels.Topic + ": " + req.Topic + "\n")
	sb.WriteString(g.Labels.Style + ": " + req.Style + " - " + lookup(g.Styles, req.Style) + "\n")
	sb.WriteString(g.Labels.Tone + ": " + req.Tone + " - " + lookup(g.Tones, req.Tone) + "\n")
	sb.WriteString(g.Labels.Length + ": " + lookup(g.Lengths, req.Length) + "\n")

	if req.Profile != nil {
		sb.WriteString("\n" + tierText(g.Tiers, req.Profile.Followers))
		if req.Profile.Verified {
			sb.WriteString("\n" + g.Verified)
		}
	}
	if styleAddition != "" {
		sb.WriteString(styleAddition + "\n")
	}

	sb.WriteString("\n" + g.Body)
	if *req.IncludeCTA {
		sb.WriteString("\n" + g.CTA)
	}

	final := scoring.Render(g.Final, map[string]any{"language": b.catalog.languageName(req.Language)})
	sb.WriteString("\n" + final + "\n\n" + g.OutputOnly)

	return entity.Prompt{
		User:      sb.String(),
		MaxTokens: b.catalog.tokensFor(req.Length),
	}
}

// Thread renders the thread prompt pair
func (b *PromptBuilder) Thread(req entity.ThreadRequest, styleAddition string) entity.Prompt {
	req = req.WithDefaults()
	t := b.catalog.Thread

	system := scoring.Render(t.System, map[string]any{"style_guide": lookup(t.Styles, req.Style)})
	if styleAddition != "" {
		system += styleAddition + "\n"
	}

	language := "English"
	if req.Language == "tr" {
		language = "Türkçe"
	} else if name, ok := b.catalog.Languages[req.Language]; ok {
		language = name.Name
	}

	user := scoring.Render(t.User, map[string]any{
		"topic":     req.Topic,
		"count":     strconv.Itoa(req.TweetCount),
		"last_body": strconv.Itoa(req.TweetCount - 1),
		"language":  language,
		"style":     req.Style,
	})

	temp := t.Temperature
	return entity.Prompt{
		System:      system,
		User:        user,
		MaxTokens:   req.TweetCount * t.TokensPerTweet,
		Temperature: &temp,
	}
}

// tierText picks the first bracket the follower count falls under
func tierText(tiers []Tier, followers int) string {
	for _, t := range tiers {
		if t.MaxFollowers == 0 || followers < t.MaxFollowers {
			return t.Text
		}
	}
	return ""
}

// lookup returns the guide entry or the key itself
func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}
