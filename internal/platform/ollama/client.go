package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/httpx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type Config struct {
	BaseURL     string
	Model       string
	EmbedModel  string
	MaxTokens   int
	Temperature float64
	// KeepAlive is how long the model stays loaded after a call ("5m", "-1" for forever).
	KeepAlive  string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to a local Ollama server.
type Client struct {
	log        *logger.Logger
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if strings.TrimSpace(cfg.Model) == "" && strings.TrimSpace(cfg.EmbedModel) == "" {
		return nil, fmt.Errorf("ollama: model or embed model required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Client{
		log:        log.With("service", "OllamaClient"),
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Model() string { return c.cfg.Model }

type generateOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Model     string           `json:"model"`
	Prompt    string           `json:"prompt,omitempty"`
	Stream    bool             `json:"stream"`
	KeepAlive any              `json:"keep_alive,omitempty"`
	Options   *generateOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: &generateOptions{
			NumPredict:  c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		},
	}
	if c.cfg.KeepAlive != "" {
		req.KeepAlive = c.cfg.KeepAlive
	}
	var resp generateResponse
	if err := c.do(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Load asks Ollama to pull the model into memory without generating anything.
func (c *Client) Load(ctx context.Context) error {
	keepAlive := c.cfg.KeepAlive
	if keepAlive == "" {
		keepAlive = "-1"
	}
	var resp generateResponse
	if err := c.do(ctx, "/api/generate", generateRequest{Model: c.cfg.Model, KeepAlive: keepAlive}, &resp); err != nil {
		return fmt.Errorf("load model %s: %w", c.cfg.Model, err)
	}
	c.log.Info("Ollama model loaded", "model", c.cfg.Model, "keep_alive", keepAlive)
	return nil
}

// Unload evicts the model from memory.
func (c *Client) Unload(ctx context.Context) error {
	var resp generateResponse
	if err := c.do(ctx, "/api/generate", generateRequest{Model: c.cfg.Model, KeepAlive: 0}, &resp); err != nil {
		return fmt.Errorf("unload model %s: %w", c.cfg.Model, err)
	}
	c.log.Info("Ollama model unloaded", "model", c.cfg.Model, "done_reason", resp.DoneReason)
	return nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns one vector per input using /api/embed.
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	var resp embedResponse
	if err := c.do(ctx, "/api/embed", embedRequest{Model: c.cfg.EmbedModel, Input: inputs}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("ollama embed: requested=%d returned=%d model=%s", len(inputs), len(resp.Embeddings), c.cfg.EmbedModel)
	}
	return resp.Embeddings, nil
}

func (c *Client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("calling Ollama: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode != http.StatusOK {
		body := string(raw)
		if len(body) > 512 {
			body = body[:512] + "..."
		}
		return resp, raw, &httpx.StatusError{Service: "ollama", StatusCode: resp.StatusCode, Body: body}
	}
	return resp, raw, nil
}

func (c *Client) do(ctx context.Context, path string, body any, out any) error {
	var raw []byte
	policy := httpx.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		OnRetry: func(attempt int, sleep time.Duration, err error) {
			c.log.Warn("Ollama request retrying", "path", path, "attempt", attempt, "sleep", sleep.String(), "error", err.Error())
		},
	}
	err := httpx.Do(ctx, policy, func() (*http.Response, error) {
		resp, b, err := c.doOnce(ctx, path, body)
		raw = b
		return resp, err
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
