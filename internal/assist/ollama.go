package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

// Defaults for OllamaGenerator.
const (
	DefaultOllamaHost = "http://localhost:11434"
	DefaultModel      = "qwen3:0.6b"
	DefaultTimeout    = 60 * time.Second
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaGenerator calls Ollama's /api/generate endpoint.
type OllamaGenerator struct {
	client  *http.Client
	host    string
	model   string
	timeout time.Duration
	retry   fterrors.RetryConfig
	logger  *slog.Logger
}

var _ Generator = (*OllamaGenerator)(nil)

// NewOllamaGenerator creates a generator from the assist configuration.
func NewOllamaGenerator(cfg config.AssistConfig, logger *slog.Logger) *OllamaGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	host := strings.TrimRight(cfg.OllamaHost, "/")
	if host == "" {
		host = DefaultOllamaHost
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := DefaultTimeout
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}
	retry := fterrors.DefaultRetryConfig()
	if cfg.MaxRetries >= 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	// No client timeout: each attempt gets its own context deadline.
	return &OllamaGenerator{
		client:  &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 4, IdleConnTimeout: 10 * time.Second}},
		host:    host,
		model:   model,
		timeout: timeout,
		retry:   retry,
		logger:  logger,
	}
}

// Model returns the model name sent with each request.
func (g *OllamaGenerator) Model() string {
	return g.model
}

// Generate sends prompt and returns the generated text. Connection failures
// and 5xx responses are retried with backoff.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	attempt := 0
	return fterrors.Retry(ctx, g.retry, func() (string, error) {
		attempt++
		start := time.Now()
		text, err := g.generateOnce(ctx, prompt)
		if err != nil {
			g.logger.Debug("generate attempt failed",
				slog.Int("attempt", attempt),
				slog.String("model", g.model),
				slog.String("error", err.Error()))
			return "", err
		}
		g.logger.Debug("generate complete",
			slog.Int("attempt", attempt),
			slog.String("model", g.model),
			slog.Int("prompt_bytes", len(prompt)),
			slog.Duration("duration", time.Since(start)))
		return text, nil
	})
}

func (g *OllamaGenerator) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: g.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fterrors.ConfigError(fmt.Sprintf("invalid ollama host %q", g.host), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", unavailable(g.host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return "", unavailable(g.host, cause)
		}
		return "", fterrors.ValidationError("generator rejected request", cause).
			WithDetail("model", g.model)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fterrors.InternalError("failed to decode generator response", err)
	}
	return out.Response, nil
}

func unavailable(host string, cause error) error {
	return fterrors.New(fterrors.ErrCodeGeneratorUnavailable,
		fmt.Sprintf("text generator unavailable at %s", host), cause).
		WithSuggestion("Start Ollama or set assist.ollama_host")
}
