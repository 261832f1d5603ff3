// Package genai provides generation operations backed by the OpenAI API.
//
// It wraps chat completions behind a small interface so the conversation
// engine can be tested with a mock backend, and exposes two model tiers:
// a cheap deterministic-leaning analysis model for classification and a
// primary model for user-facing reply generation.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default model and call configuration.
const (
	DefaultPrimaryModel   = openai.ChatModelGPT4oMini
	DefaultAnalysisModel  = openai.ChatModelGPT4oMini
	DefaultTimeout        = 30 * time.Second
	DefaultReplyMaxTokens = 1000
)

// ErrNoChoicesReturned indicates the backend returned an empty choice list.
var ErrNoChoicesReturned = errors.New("no choices returned")

// GenerationError wraps any failure of the generation backend so callers can
// distinguish backend faults (always recoverable via fallback) from their own.
type GenerationError struct {
	Op  string // operation that failed, e.g. "analysis" or "reply"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// chatService defines the minimal chat-completion surface used by Client.
// The concrete OpenAI completion service satisfies it directly.
type chatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Opts holds configuration for the GenAI client.
type Opts struct {
	APIKey         string
	BaseURL        string
	PrimaryModel   string
	AnalysisModel  string
	Timeout        time.Duration
	ReplyMaxTokens int
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL sets a custom API base URL (for proxies or compatible backends).
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithPrimaryModel overrides the model used for reply generation.
func WithPrimaryModel(model string) Option {
	return func(o *Opts) { o.PrimaryModel = model }
}

// WithAnalysisModel overrides the model used for intent classification.
func WithAnalysisModel(model string) Option {
	return func(o *Opts) { o.AnalysisModel = model }
}

// WithTimeout bounds each outbound completion call.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// WithReplyMaxTokens caps the token budget of reply completions.
func WithReplyMaxTokens(n int) Option {
	return func(o *Opts) { o.ReplyMaxTokens = n }
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	chat           chatService
	primaryModel   string
	analysisModel  string
	timeout        time.Duration
	replyMaxTokens int
}

// NewClient initializes a GenAI client. The API key is taken from options or
// the OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		slog.Error("genai.NewClient: API key not set")
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
		slog.Debug("genai.NewClient: using custom base URL", "base_url", cfg.BaseURL)
	}
	cli := openai.NewClient(reqOpts...)

	c := &Client{
		chat:           &cli.Chat.Completions,
		primaryModel:   cfg.PrimaryModel,
		analysisModel:  cfg.AnalysisModel,
		timeout:        cfg.Timeout,
		replyMaxTokens: cfg.ReplyMaxTokens,
	}
	if c.primaryModel == "" {
		c.primaryModel = DefaultPrimaryModel
	}
	if c.analysisModel == "" {
		c.analysisModel = DefaultAnalysisModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.replyMaxTokens <= 0 {
		c.replyMaxTokens = DefaultReplyMaxTokens
	}
	slog.Debug("genai.NewClient: client initialized", "primary_model", c.primaryModel, "analysis_model", c.analysisModel, "timeout", c.timeout)
	return c, nil
}

// GenerateOpts tunes one completion call.
type GenerateOpts struct {
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

// GenerateAnalysis runs a low-temperature classification completion on the
// analysis model. The returned error is always a *GenerationError.
func (c *Client) GenerateAnalysis(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := c.complete(ctx, c.analysisModel, systemPrompt, userPrompt, GenerateOpts{
		Temperature: 0.2,
		MaxTokens:   800,
	})
	if err != nil {
		return "", &GenerationError{Op: "analysis", Err: err}
	}
	return out, nil
}

// GenerateReply runs a higher-temperature completion on the primary model,
// favoring natural language variety. The returned error is always a
// *GenerationError.
func (c *Client) GenerateReply(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := c.complete(ctx, c.primaryModel, systemPrompt, userPrompt, GenerateOpts{
		Temperature:      0.7,
		MaxTokens:        c.replyMaxTokens,
		PresencePenalty:  0.6,
		FrequencyPenalty: 0.4,
	})
	if err != nil {
		return "", &GenerationError{Op: "reply", Err: err}
	}
	return out, nil
}

// complete executes one bounded chat completion call.
func (c *Client) complete(ctx context.Context, model, systemPrompt, userPrompt string, opts GenerateOpts) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(opts.PresencePenalty)
	}
	if opts.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(opts.FrequencyPenalty)
	}

	start := time.Now()
	resp, err := c.chat.New(ctx, params)
	if err != nil {
		slog.Error("genai.complete: completion call failed", "model", model, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		slog.Error("genai.complete: empty choice list", "model", model)
		return "", ErrNoChoicesReturned
	}
	slog.Debug("genai.complete: completion succeeded", "model", model, "duration", time.Since(start), "response_length", len(resp.Choices[0].Message.Content))
	return resp.Choices[0].Message.Content, nil
}
