package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/papercomputeco/parley/pkg/llm"
	"github.com/papercomputeco/parley/pkg/utils"
)

const defaultTimeout = 5 * time.Minute

// Config holds everything the client needs to talk to an Ollama server.
// Passing the backend configuration explicitly at construction time keeps
// the process environment out of the picture.
type Config struct {
	// Target is the base URL of the Ollama server (e.g. http://localhost:11434).
	Target string

	// Model is the model tag requested on every call.
	Model string

	// ContextLength caps the model context window (num_ctx). Zero leaves
	// the server default in place.
	ContextLength int

	// Timeout bounds each HTTP request. Zero means defaultTimeout;
	// generation on small local models can still take minutes.
	Timeout time.Duration
}

// Client implements llm.Engine against Ollama's native HTTP API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

var _ llm.Engine = (*Client)(nil)

// New creates a client from an explicit config. The logger may be nil.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Model returns the configured model tag.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Load verifies the configured model is available on the server via
// /api/show. A failure here is fatal to the session: there is no retry and
// no degraded mode.
func (c *Client) Load(ctx context.Context) error {
	body, err := json.Marshal(showRequest{Model: c.cfg.Model})
	if err != nil {
		return fmt.Errorf("marshaling show request: %w", err)
	}

	resp, err := c.post(ctx, "/api/show", body)
	if err != nil {
		return fmt.Errorf("reaching %s: %w", c.cfg.Target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model %q not available: server returned status %d: %s",
			c.cfg.Model, resp.StatusCode, string(respBody))
	}

	c.logger.Debug("model loaded", "model", c.cfg.Model, "target", c.cfg.Target)
	return nil
}

// Generate sends one blocking, non-streaming completion request and returns
// the raw generated text. Sampling parameters are forwarded verbatim.
func (c *Client) Generate(ctx context.Context, prompt string, sampling llm.SamplingConfig) (string, error) {
	stream := false
	req := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: &stream,
		Options: &generateOptions{
			Temperature:   &sampling.Temperature,
			TopP:          &sampling.TopP,
			RepeatPenalty: &sampling.RepetitionPenalty,
		},
	}
	if sampling.MaxTokens > 0 {
		req.Options.NumPredict = &sampling.MaxTokens
	}
	if c.cfg.ContextLength > 0 {
		req.Options.NumCtx = &c.cfg.ContextLength
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	c.logger.Debug("sending generate request",
		"target", c.cfg.Target,
		"model", c.cfg.Model,
		"prompt", utils.Truncate(prompt, 80),
	)

	resp, err := c.post(ctx, "/api/generate", body)
	if err != nil {
		return "", fmt.Errorf("sending generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	c.logger.Debug("generation complete",
		"model", gen.Model,
		"eval_count", gen.EvalCount,
		"done_reason", gen.DoneReason,
	)

	return gen.Response, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Target+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}
