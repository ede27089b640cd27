package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
)

func TestPromptBuilder_Tweet(t *testing.T) {
	b := NewPromptBuilder(nil)

	p := b.Tweet(entity.TweetRequest{Topic: "yazılım kariyeri"}, "")

	assert.Contains(t, p.User, "KONU: yazılım kariyeri")
	assert.Contains(t, p.User, "STİL: casual - Samimi ve rahat, arkadaşça")
	assert.Contains(t, p.User, "UZUNLUK: 300-600 karakter")
	assert.Contains(t, p.User, "TÜRKÇE YAZ")
	assert.NotContains(t, p.User, "PROFİL")
	assert.Equal(t, 2000, p.MaxTokens)
	assert.Nil(t, p.Temperature)
	assert.Empty(t, p.System)
}

func TestPromptBuilder_TweetProfileTiers(t *testing.T) {
	b := NewPromptBuilder(nil)

	tests := []struct {
		name      string
		followers int
		want      string
	}{
		{"starter", 999, "BÜYÜME AŞAMASI"},
		{"growing", 1000, "GELİŞME AŞAMASI"},
		{"mid tier", 50000, "MID-TIER"},
		{"large", 100000, "BÜYÜK HESAP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := b.Tweet(entity.TweetRequest{
				Topic:   "x",
				Profile: &entity.Profile{Followers: tt.followers},
			}, "")
			assert.Contains(t, p.User, tt.want)
			assert.NotContains(t, p.User, "VERİFİED")
		})
	}
}

func TestPromptBuilder_TweetOptions(t *testing.T) {
	b := NewPromptBuilder(nil)
	noCTA := false

	p := b.Tweet(entity.TweetRequest{
		Topic:      "x",
		Length:     "epic",
		Language:   "de",
		IncludeCTA: &noCTA,
		Profile:    &entity.Profile{Followers: 5, Verified: true},
	}, "\nKULLANICI STİLİ: kısa\n")

	assert.Contains(t, p.User, "Write in Deutsch.")
	assert.Contains(t, p.User, "KULLANICI STİLİ: kısa")
	assert.Equal(t, 8000, p.MaxTokens)

	withCTA := b.Tweet(entity.TweetRequest{Topic: "x", Language: "de"}, "")
	assert.Greater(t, len(withCTA.User), len(b.Tweet(entity.TweetRequest{Topic: "x", Language: "de", IncludeCTA: &noCTA}, "").User))
}

func TestPromptBuilder_Thread(t *testing.T) {
	b := NewPromptBuilder(nil)

	p := b.Thread(entity.ThreadRequest{Topic: "Go", TweetCount: 4, Style: "storytelling"}, "EXTRA")

	assert.Contains(t, p.System, "STİL: Hikaye anlatımı, kişisel deneyim, akıcı")
	assert.Contains(t, p.System, "EXTRA")
	assert.Contains(t, p.User, "Konu: Go")
	assert.Contains(t, p.User, "Tweet Sayısı: 4")
	assert.Contains(t, p.User, "Tweet 2-3: İçerik")
	assert.Contains(t, p.User, "Dil: Türkçe")
	assert.Equal(t, 2000, p.MaxTokens)
	require.NotNil(t, p.Temperature)
	assert.InDelta(t, 0.9, *p.Temperature, 1e-9)

	def := b.Thread(entity.ThreadRequest{Topic: "Go", Language: "en"}, "")
	assert.Contains(t, def.User, "Dil: English")
	assert.Equal(t, 2500, def.MaxTokens)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "guides: ["},
		{"no english guide", "default_max_tokens: 10\nthread: {tokens_per_tweet: 5}\nguides: {tr: {intro: x}}"},
		{"no default tokens", "thread: {tokens_per_tweet: 5}\nguides: {en: {intro: x}}"},
		{"no thread tokens", "default_max_tokens: 10\nguides: {en: {intro: x}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_GuideFallback(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, c.Guides["en"].Intro, c.guide("ja").Intro)
	assert.Equal(t, "English", c.languageName("xx"))
	assert.Equal(t, 2000, c.tokensFor("unknown"))
}
