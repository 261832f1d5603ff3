package genai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// mockChatService implements chatService for testing.
type mockChatService struct {
	resp       openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	return &m.resp, nil
}

func newTestClient(chat chatService) *Client {
	return &Client{
		chat:           chat,
		primaryModel:   DefaultPrimaryModel,
		analysisModel:  DefaultAnalysisModel,
		timeout:        DefaultTimeout,
		replyMaxTokens: DefaultReplyMaxTokens,
	}
}

func TestGenerateReply_Success(t *testing.T) {
	mock := &mockChatService{
		resp: openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "Hello World"}},
			},
		},
	}
	client := newTestClient(mock)
	out, err := client.GenerateReply(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Hello World" {
		t.Errorf("expected 'Hello World', got '%s'", out)
	}
	if mock.lastParams.Temperature.Value != 0.7 {
		t.Errorf("expected reply temperature 0.7, got %v", mock.lastParams.Temperature.Value)
	}
	if mock.lastParams.MaxTokens.Value != DefaultReplyMaxTokens {
		t.Errorf("expected default reply token cap %d, got %v", DefaultReplyMaxTokens, mock.lastParams.MaxTokens.Value)
	}
}

func TestGenerateReply_CustomTokenCap(t *testing.T) {
	mock := &mockChatService{
		resp: openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	client := newTestClient(mock)
	client.replyMaxTokens = 256
	if _, err := client.GenerateReply(context.Background(), "sys", "usr"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastParams.MaxTokens.Value != 256 {
		t.Errorf("expected reply token cap 256, got %v", mock.lastParams.MaxTokens.Value)
	}
}

func TestGenerateAnalysis_LowTemperature(t *testing.T) {
	mock := &mockChatService{
		resp: openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "{}"}},
			},
		},
	}
	client := newTestClient(mock)
	if _, err := client.GenerateAnalysis(context.Background(), "sys", "usr"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastParams.Temperature.Value != 0.2 {
		t.Errorf("expected analysis temperature 0.2, got %v", mock.lastParams.Temperature.Value)
	}
}

func TestGenerateReply_ServiceError(t *testing.T) {
	client := newTestClient(&mockChatService{err: errors.New("service failure")})
	_, err := client.GenerateReply(context.Background(), "sys", "usr")
	if err == nil || !strings.Contains(err.Error(), "service failure") {
		t.Errorf("expected service failure error, got %v", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected *GenerationError, got %T", err)
	}
}

func TestGenerateReply_NoChoices(t *testing.T) {
	client := newTestClient(&mockChatService{resp: openai.ChatCompletion{}})
	_, err := client.GenerateReply(context.Background(), "sys", "usr")
	if !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected no choices returned error, got %v", err)
	}
}

func TestNewClient_NoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error when API key not provided, got nil")
	}
}

func TestNewClient_WithKey(t *testing.T) {
	cli, err := NewClient(WithAPIKey("test-key"), WithPrimaryModel("gpt-test"), WithAnalysisModel("gpt-test-mini"))
	if err != nil {
		t.Fatalf("expected no error with API key, got %v", err)
	}
	if cli.primaryModel != "gpt-test" || cli.analysisModel != "gpt-test-mini" {
		t.Errorf("model overrides not applied: %s / %s", cli.primaryModel, cli.analysisModel)
	}
}
