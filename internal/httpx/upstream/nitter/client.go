package nitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultCount     = 20
	maxCount         = 100
	minContentLength = 10
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	SourceDemo = "demo"

	nitterFailedNote = "Nitter failed, using demo data. Provide tweets manually for accurate analysis."
)

// ErrEmptyUsername is returned when no username is given
var ErrEmptyUsername = errors.New("username is required")

var demoTemplates = []string{
	"Teknoloji dünyasında çok şey değişiyor. Kimse geride kalmak istemiyor.",
	"Bugün öğrendiğim bir şey: Başarı tesadüf değil, tutarlı çabanın sonucu.",
	"Yapay zeka alanındaki gelişmeler inanılmaz. Sizce nereye gidiyoruz?",
	"Startup dünyasında 1 yıl = 10 yıl. Hız her şey.",
	"Kod yazarken müzik dinlemek üretkenliğimi artırıyor. Siz?",
}

// Client reads public timelines from Nitter front-ends
type Client struct {
	instances  []string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithInstances sets the instance base URLs, tried in order
func WithInstances(instances ...string) ClientOption {
	return func(c *Client) {
		c.instances = c.instances[:0]
		for _, in := range instances {
			if in = strings.TrimRight(strings.TrimSpace(in), "/"); in != "" {
				c.instances = append(c.instances, in)
			}
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-instance timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new Nitter client
func New(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tweet is one scraped post
type Tweet struct {
	Text     string    `json:"text"`
	Likes    int       `json:"likes"`
	Retweets int       `json:"retweets"`
	Replies  int       `json:"replies"`
	Views    int       `json:"views"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url"`
}

// Result is a scraped timeline
type Result struct {
	Username string  `json:"username"`
	Tweets   []Tweet `json:"tweets"`
	Source   string  `json:"source"`
	Error    string  `json:"error,omitempty"`
}

// ScrapeInput represents input for scraping a timeline
type ScrapeInput struct {
	Username string
	Count    int
	UseDemo  bool
}

// Scrape fetches up to Count posts of a user. When every instance fails or
// UseDemo is set, it returns demo posts instead of an error.
func (c *Client) Scrape(ctx context.Context, in ScrapeInput) (*Result, error) {
	username := strings.TrimPrefix(strings.TrimSpace(in.Username), "@")
	if username == "" {
		return nil, ErrEmptyUsername
	}

	count := in.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	if in.UseDemo {
		return c.demo(username, count), nil
	}

	for _, instance := range c.instances {
		tweets, err := c.fetch(ctx, instance, username, count)
		if err != nil {
			c.logger.Warn("nitter instance failed", "instance", instance, "error", err)
			continue
		}
		if len(tweets) > 0 {
			return &Result{Username: username, Tweets: tweets, Source: instance}, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := c.demo(username, count)
	res.Error = nitterFailedNote
	return res, nil
}

func (c *Client) fetch(ctx context.Context, instance, username string, count int) ([]Tweet, error) {
	profileURL := instance + "/" + username

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return c.parse(doc, instance, profileURL, count), nil
}

// parse walks .tweet-content blocks and reads counters from the enclosing timeline item
func (c *Client) parse(doc *goquery.Document, instance, profileURL string, count int) []Tweet {
	var tweets []Tweet

	doc.Find(".tweet-content").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) <= minContentLength {
			return true
		}

		t := Tweet{Text: text, Date: c.now().UTC(), URL: profileURL}

		item := s.Closest(".timeline-item")
		if item.Length() > 0 {
			if href, ok := item.Find("a.tweet-link").Attr("href"); ok && href != "" {
				t.URL = instance + href
			}
			if title, ok := item.Find(".tweet-date a").Attr("title"); ok {
				if d, err := parseDate(title); err == nil {
					t.Date = d
				}
			}
			item.Find(".tweet-stat").Each(func(_ int, stat *goquery.Selection) {
				n := parseCount(stat.Text())
				switch {
				case stat.Find(".icon-comment").Length() > 0:
					t.Replies = n
				case stat.Find(".icon-retweet").Length() > 0:
					t.Retweets = n
				case stat.Find(".icon-heart").Length() > 0:
					t.Likes = n
				case stat.Find(".icon-views").Length() > 0:
					t.Views = n
				}
			})
		}

		tweets = append(tweets, t)
		return len(tweets) < count
	})

	return tweets
}

// demo builds placeholder posts with random counters
func (c *Client) demo(username string, count int) *Result {
	n := min(count, len(demoTemplates))
	tweets := make([]Tweet, 0, n)
	now := c.now().UTC()
	for i := 0; i < n; i++ {
		tweets = append(tweets, Tweet{
			Text:     demoTemplates[i],
			Likes:    rand.IntN(500),
			Retweets: rand.IntN(100),
			Replies:  rand.IntN(50),
			Views:    rand.IntN(5000),
			Date:     now.Add(-time.Duration(i) * 24 * time.Hour),
			URL:      "https://x.com/" + username,
		})
	}
	return &Result{Username: username, Tweets: tweets, Source: SourceDemo}
}

// parseCount reads counters such as "1,234"
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseDate reads Nitter titles such as "Oct 14, 2026 · 7:15 PM UTC"
func parseDate(s string) (time.Time, error) {
	return time.Parse("Jan 2, 2006 · 3:04 PM MST", strings.TrimSpace(s))
}
