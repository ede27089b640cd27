package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
)

// Generator adapts the client to the generation domain
type Generator struct {
	client *Client
}

// NewGenerator creates a new generator
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate sends one prompt as a single user turn
func (g *Generator) Generate(ctx context.Context, p entity.Prompt) (*entity.Completion, error) {
	out, err := g.client.Complete(ctx, Request{
		System:      p.System,
		Messages:    []Message{{Role: "user", Content: p.User}},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	})
	switch {
	case errors.Is(err, ErrNotConfigured):
		return nil, entity.ErrGeneratorDisabled
	case errors.Is(err, ErrUnavailable):
		return nil, entity.ErrGeneratorUnhealthy
	case err != nil:
		return nil, fmt.Errorf("%w: %w", entity.ErrGenerationFailed, err)
	}

	return &entity.Completion{Text: out.Text, TokensUsed: out.Usage.Total()}, nil
}
