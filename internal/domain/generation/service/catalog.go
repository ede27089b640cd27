package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultCatalog []byte

// Language names a target language and its instruction line
type Language struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`
}

// Tier is a follower bracket; MaxFollowers 0 is open-ended
type Tier struct {
	MaxFollowers int    `yaml:"max_followers"`
	Text         string `yaml:"text"`
}

// Guide holds the prompt text of one catalog language
type Guide struct {
	Intro  string `yaml:"intro"`
	Labels struct {
		Topic  string `yaml:"topic"`
		Style  string `yaml:"style"`
		Tone   string `yaml:"tone"`
		Length string `yaml:"length"`
	} `yaml:"labels"`
	Body       string            `yaml:"body"`
	CTA        string            `yaml:"cta"`
	Final      string            `yaml:"final"`
	OutputOnly string            `yaml:"output_only"`
	Tiers      []Tier            `yaml:"tiers"`
	Verified   string            `yaml:"verified"`
	Lengths    map[string]string `yaml:"lengths"`
	Styles     map[string]string `yaml:"styles"`
	Tones      map[string]string `yaml:"tones"`
}

// ThreadCatalog holds the thread prompts
type ThreadCatalog struct {
	TokensPerTweet int               `yaml:"tokens_per_tweet"`
	Temperature    float64           `yaml:"temperature"`
	Styles         map[string]string `yaml:"styles"`
	System         string            `yaml:"system"`
	User           string            `yaml:"user"`
}

// Catalog is the prompt catalog
type Catalog struct {
	DefaultLanguage  string              `yaml:"default_language"`
	Languages        map[string]Language `yaml:"languages"`
	MaxTokens        map[string]int      `yaml:"max_tokens"`
	DefaultMaxTokens int                 `yaml:"default_max_tokens"`
	Guides           map[string]Guide    `yaml:"guides"`
	Thread           ThreadCatalog       `yaml:"thread"`
}

// DefaultCatalog parses the embedded catalog. It panics on a broken build.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded prompt catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes and checks a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding prompt catalog: %w", err)
	}
	if _, ok := c.Guides["en"]; !ok {
		return nil, fmt.Errorf("prompt catalog has no \"en\" guide")
	}
	if c.DefaultMaxTokens <= 0 {
		return nil, fmt.Errorf("prompt catalog needs default_max_tokens")
	}
	if c.Thread.TokensPerTweet <= 0 {
		return nil, fmt.Errorf("prompt catalog needs thread.tokens_per_tweet")
	}
	return &c, nil
}

// guide returns the guide of a language, falling back to English
func (c *Catalog) guide(lang string) Guide {
	if g, ok := c.Guides[lang]; ok {
		return g
	}
	return c.Guides["en"]
}

func (c *Catalog) languageName(lang string) string {
	if l, ok := c.Languages[lang]; ok {
		return l.Name
	}
	return c.Languages["en"].Name
}

// tokensFor maps a length name to max_tokens
func (c *Catalog) tokensFor(length string) int {
	if n, ok := c.MaxTokens[length]; ok {
		return n
	}
	return c.DefaultMaxTokens
}
