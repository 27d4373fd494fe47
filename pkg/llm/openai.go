package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/berita-banjir/pkg/httpclient"
)

// Completer sends one prompt to a language model and returns its text answer.
type Completer interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

const DefaultBaseURL = "https://api.openai.com/v1"

// Options configures the OpenAI Responses API client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout of zero leaves calls bounded only by ctx.
	Timeout time.Duration
	Poster  httpclient.JSONPoster
}

// Client calls the OpenAI Responses API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	poster  httpclient.JSONPoster
}

// NewClient validates opts and builds a client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is empty")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("openai model is empty")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	poster := opts.Poster
	if poster == nil {
		poster = httpclient.NewRestyClient(opts.Timeout)
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: base,
		model:   strings.TrimSpace(opts.Model),
		poster:  poster,
	}, nil
}

type responsesRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions,omitempty"`
	Input        string `json:"input"`
}

type responsesResp struct {
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Content []contentPart `json:"content,omitempty"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Complete posts a single request; failures are returned, never retried.
func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	resp, err := c.poster.PostJSON(ctx, c.baseURL+"/responses", headers, responsesRequest{
		Model:        c.model,
		Instructions: instructions,
		Input:        input,
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return "", fmt.Errorf("openai responses status %d: %s", code, snippet(body))
	}

	var r responsesResp
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	return r.text(), nil
}

// text joins every output_text part of message items. Some proxies return
// the SDK-style top-level output_text instead.
func (r responsesResp) text() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				b.WriteString(part.Text)
			}
		}
	}
	if b.Len() == 0 {
		return r.OutputText
	}
	return b.String()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}
