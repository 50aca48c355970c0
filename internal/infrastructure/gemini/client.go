package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"

	"google.golang.org/genai"
)

var ErrNoCandidates = errors.New("gemini: response has no candidates")

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls GenerateContent with the Google Search tool enabled. A client
// that failed to initialise (for example with no API key) keeps the error and
// returns it from every call.
type Client struct {
	genai   *genai.Client
	model   string
	initErr error
}

var _ application.CompletionClient = (*Client)(nil)

func New(ctx context.Context, cfg Config) *Client {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return &Client{model: cfg.Model, initErr: fmt.Errorf("gemini: new client: %w", err)}
	}
	return &Client{genai: gc, model: cfg.Model}
}

// InitErr reports why the client cannot make calls, if it cannot.
func (c *Client) InitErr() error { return c.initErr }

func (c *Client) Complete(ctx context.Context, prompt string) (application.Completion, error) {
	if c.initErr != nil {
		return application.Completion{}, c.initErr
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return application.Completion{}, fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return application.Completion{}, ErrNoCandidates
	}
	cand := resp.Candidates[0]
	return application.Completion{
		Text:    candidateText(cand),
		Sources: groundingSources(cand),
	}, nil
}

func candidateText(c *genai.Candidate) string {
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func groundingSources(c *genai.Candidate) []domain.Source {
	out := []domain.Source{}
	if c.GroundingMetadata == nil {
		return out
	}
	for _, ch := range c.GroundingMetadata.GroundingChunks {
		if ch == nil || ch.Web == nil {
			continue
		}
		out = append(out, domain.Source{
			URI:    ch.Web.URI,
			Title:  ch.Web.Title,
			Domain: hostOf(ch.Web.URI),
		})
	}
	return out
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
