package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/httpx/response"
	"github.com/vadim/tweetlab/internal/httpx/upstream/nitter"
)

// Scraper fetches public timelines
type Scraper interface {
	Scrape(ctx context.Context, in nitter.ScrapeInput) (*nitter.Result, error)
}

// ScrapeHandler handles timeline scraping
type ScrapeHandler struct {
	scraper Scraper
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(s Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: s}
}

// RegisterRoutes registers scrape routes
func (h *ScrapeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/tweets/scrape", h.Scrape())
}

// ScrapeRequest is the body of POST /tweets/scrape
type ScrapeRequest struct {
	Username string `json:"username"`
	Count    int    `json:"count,omitempty"`
	UseDemo  bool   `json:"useDemo,omitempty"`
}

// Scrape handles POST /tweets/scrape
func (h *ScrapeHandler) Scrape() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScrapeRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.scraper.Scrape(r.Context(), nitter.ScrapeInput{
			Username: req.Username,
			Count:    req.Count,
			UseDemo:  req.UseDemo,
		})
		if errors.Is(err, nitter.ErrEmptyUsername) {
			response.BadRequest(w, "Username is required")
			return
		}
		if err != nil {
			response.InternalError(w, "scraping failed")
			return
		}

		response.OK(w, out)
	}
}
