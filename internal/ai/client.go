package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nikbrunner/lp/internal/logging"
	"github.com/nikbrunner/lp/internal/model"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-3-flash-preview"
	DefaultTimeout = 30 * time.Second

	jsonMimeType = "application/json"
)

var (
	ErrNoAPIKey        = errors.New("GEMINI_API_KEY environment variable not set")
	ErrAPIRequest      = errors.New("API request failed")
	ErrInvalidResponse = errors.New("invalid API response")
)

// APIKeyFromEnv returns GEMINI_API_KEY, falling back to API_KEY.
func APIKeyFromEnv() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("API_KEY")
}

// Client handles communication with the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Params holds parameters for creating a Client.
type Params struct {
	APIKey     string
	Model      string        // optional, defaults to DefaultModel
	BaseURL    string        // optional, defaults to DefaultBaseURL
	Timeout    time.Duration // optional, defaults to DefaultTimeout
	Logger     *slog.Logger  // optional, discards if nil
	HTTPClient *http.Client  // optional, overrides Timeout
}

// NewClient creates a new AI client.
// Returns ErrNoAPIKey if no API key is given.
func NewClient(params Params) (*Client, error) {
	if params.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	c := &Client{
		apiKey:     params.APIKey,
		model:      params.Model,
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		httpClient: params.HTTPClient,
		logger:     params.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	return c, nil
}

// SuggestSlugs asks for five slug suggestions for url.
// It never fails: errors are logged and an empty list is returned.
func (c *Client) SuggestSlugs(ctx context.Context, url, description string) []string {
	slugs, err := c.FetchSlugs(ctx, url, description)
	if err != nil {
		c.logger.Error("error generating slugs", "url", url, "error", err)
		return []string{}
	}
	return slugs
}

// FetchSlugs is SuggestSlugs with errors returned to the caller.
// An empty url yields an empty list without a request.
func (c *Client) FetchSlugs(ctx context.Context, url, description string) ([]string, error) {
	if url == "" {
		return []string{}, nil
	}

	var slugs []string
	if err := c.generate(ctx, buildSlugPrompt(url, description), slugSchema, &slugs); err != nil {
		return nil, err
	}
	if slugs == nil {
		return nil, fmt.Errorf("%w: null slug list", ErrInvalidResponse)
	}

	return slugs, nil
}

// LinkInsights asks for marketing insights about link.
// It never fails: errors are logged and an empty list is returned.
func (c *Client) LinkInsights(ctx context.Context, link model.Link) []Insight {
	insights, err := c.FetchInsights(ctx, link)
	if err != nil {
		c.logger.Error("error generating insights", "link", link.ID, "error", err)
		return []Insight{}
	}
	return insights
}

// FetchInsights is LinkInsights with errors returned to the caller.
func (c *Client) FetchInsights(ctx context.Context, link model.Link) ([]Insight, error) {
	prompt, err := buildInsightPrompt(link)
	if err != nil {
		return nil, err
	}

	var payload insightsPayload
	if err := c.generate(ctx, prompt, insightSchema, &payload); err != nil {
		return nil, err
	}

	if payload.Insights == nil {
		return nil, fmt.Errorf("%w: missing insights", ErrInvalidResponse)
	}

	insights := make([]Insight, 0, len(*payload.Insights))
	for i, raw := range *payload.Insights {
		if raw.Title == nil || raw.Description == nil || raw.Severity == nil {
			return nil, fmt.Errorf("%w: insight %d is missing a required field", ErrInvalidResponse, i)
		}
		insights = append(insights, Insight{
			Title:       *raw.Title,
			Description: *raw.Description,
			Severity:    *raw.Severity,
		})
	}

	return insights, nil
}

// generate sends one structured-output request and decodes the JSON text into out.
func (c *Client) generate(ctx context.Context, prompt string, responseSchema *schema, out any) error {
	reqBody := apiRequest{
		Contents: []apiContent{
			{Role: "user", Parts: []apiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMimeType: jsonMimeType,
			ResponseSchema:   responseSchema,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", jsonMimeType)
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("generateContent", "model", c.model, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrAPIRequest, resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	text := apiResp.text()
	if text == "" {
		return ErrInvalidResponse
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("unmarshal AI response: %w", err)
	}

	return nil
}

// text joins the text parts of the first candidate.
func (r apiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}
