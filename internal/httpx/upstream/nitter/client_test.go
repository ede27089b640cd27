package nitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timelineHTML = `<html><body>
<div class="timeline">
  <div class="timeline-item">
    <a class="tweet-link" href="/ali/status/1"></a>
    <span class="tweet-date"><a title="Oct 14, 2026 · 7:15 PM UTC">2h</a></span>
    <div class="tweet-content media-body">Yapay zeka hakkında uzun bir düşünce &amp; soru?</div>
    <div class="tweet-stats">
      <span class="tweet-stat"><div class="icon-container"><span class="icon-comment"></span> 12</div></span>
      <span class="tweet-stat"><div class="icon-container"><span class="icon-retweet"></span> 3</div></span>
      <span class="tweet-stat"><div class="icon-container"><span class="icon-heart"></span> 1,204</div></span>
      <span class="tweet-stat"><div class="icon-container"><span class="icon-views"></span> 15,000</div></span>
    </div>
  </div>
  <div class="timeline-item">
    <div class="tweet-content media-body">kısa</div>
  </div>
  <div class="timeline-item">
    <div class="tweet-content media-body">İkinci gönderi <a href="/x">@veli</a> ile birlikte</div>
  </div>
</div>
</body></html>`

func TestScrape(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		assert.Equal(t, "/ali", r.URL.Path)
		_, _ = w.Write([]byte(timelineHTML))
	}))
	defer srv.Close()

	c := New(WithInstances(srv.URL + "/"))
	res, err := c.Scrape(context.Background(), ScrapeInput{Username: "@ali"})
	require.NoError(t, err)

	assert.NotEmpty(t, agent)
	assert.Equal(t, "ali", res.Username)
	assert.Equal(t, srv.URL, res.Source)
	assert.Empty(t, res.Error)
	require.Len(t, res.Tweets, 2)

	first := res.Tweets[0]
	assert.Equal(t, "Yapay zeka hakkında uzun bir düşünce & soru?", first.Text)
	assert.Equal(t, 12, first.Replies)
	assert.Equal(t, 3, first.Retweets)
	assert.Equal(t, 1204, first.Likes)
	assert.Equal(t, 15000, first.Views)
	assert.Equal(t, srv.URL+"/ali/status/1", first.URL)
	assert.Equal(t, time.Date(2026, 10, 14, 19, 15, 0, 0, time.UTC), first.Date.UTC())

	assert.Equal(t, "İkinci gönderi @veli ile birlikte", res.Tweets[1].Text)
	assert.Equal(t, srv.URL+"/ali", res.Tweets[1].URL)
}

func TestScrape_Count(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(timelineHTML))
	}))
	defer srv.Close()

	res, err := New(WithInstances(srv.URL)).Scrape(context.Background(), ScrapeInput{Username: "ali", Count: 1})
	require.NoError(t, err)
	assert.Len(t, res.Tweets, 1)
}

func TestScrape_FallsThroughInstances(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>rate limited</body></html>"))
	}))
	defer empty.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(timelineHTML))
	}))
	defer up.Close()

	res, err := New(WithInstances(down.URL, empty.URL, up.URL)).Scrape(context.Background(), ScrapeInput{Username: "ali"})
	require.NoError(t, err)
	assert.Equal(t, up.URL, res.Source)
}

func TestScrape_DemoFallback(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	res, err := New(WithInstances(down.URL)).Scrape(context.Background(), ScrapeInput{Username: "ali", Count: 3})
	require.NoError(t, err)

	assert.Equal(t, SourceDemo, res.Source)
	assert.Equal(t, nitterFailedNote, res.Error)
	require.Len(t, res.Tweets, 3)
	assert.Equal(t, "https://x.com/ali", res.Tweets[0].URL)
	assert.Less(t, res.Tweets[0].Likes, 500)
}

func TestScrape_UseDemo(t *testing.T) {
	res, err := New().Scrape(context.Background(), ScrapeInput{Username: "ali", UseDemo: true})
	require.NoError(t, err)

	assert.Equal(t, SourceDemo, res.Source)
	assert.Empty(t, res.Error)
	assert.Len(t, res.Tweets, len(demoTemplates))
	assert.True(t, res.Tweets[0].Date.After(res.Tweets[1].Date))
}

func TestScrape_EmptyUsername(t *testing.T) {
	_, err := New().Scrape(context.Background(), ScrapeInput{Username: " @ "})
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 1204, parseCount(" 1,204 "))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("1.2K"))
}
