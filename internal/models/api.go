// Package models: API request/response envelope types shared with handlers.
package models

import "time"

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

// SessionSnapshot is the conversational state echoed back after each turn.
type SessionSnapshot struct {
	Stage             ConversationStage `json:"stage"`
	EmotionalState    EmotionalState    `json:"emotional_state"`
	EngagementLevel   float64           `json:"engagement_level"`
	TrustLevel        float64           `json:"trust_level"`
	PurchaseReadiness float64           `json:"purchase_readiness"`
}

// TurnMetrics carries per-turn conversation metrics for the caller.
type TurnMetrics struct {
	MessageLength    int               `json:"message_length"`
	ResponseLength   int               `json:"response_length"`
	InteractionCount int               `json:"interaction_count"`
	Stage            ConversationStage `json:"conversation_stage"`
	EmotionalState   EmotionalState    `json:"emotional_state"`
	Confidence       float64           `json:"confidence"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply              string          `json:"response"`
	SessionID          string          `json:"session_id"`
	Timestamp          time.Time       `json:"timestamp"`
	Context            SessionSnapshot `json:"conversation_context"`
	Metrics            TurnMetrics     `json:"metrics"`
	HasWebContext      bool            `json:"has_web_context"`
	KnowledgeItemsUsed int             `json:"knowledge_items_used"`
}

// ExtractRequest is the body of POST /extract-url.
type ExtractRequest struct {
	URL          string `json:"url"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
}

// KnowledgeSearchRequest is the body of POST /knowledge/search.
type KnowledgeSearchRequest struct {
	Query      string   `json:"query"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"context_tags,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// KnowledgeSnippet is the wire shape of a knowledge search hit.
type KnowledgeSnippet struct {
	Content   string  `json:"content"`
	Category  string  `json:"category"`
	Relevance float64 `json:"relevance_score"`
}

// TranscriptEntry is one persisted turn of a conversation.
type TranscriptEntry struct {
	ID          int64             `json:"id,omitempty"`
	SessionID   string            `json:"session_id"`
	UserMessage string            `json:"user_message"`
	BotResponse string            `json:"bot_response"`
	Stage       ConversationStage `json:"stage"`
	Emotion     EmotionalState    `json:"emotional_state"`
	Engagement  float64           `json:"engagement_level"`
	Trust       float64           `json:"trust_level"`
	Readiness   float64           `json:"purchase_readiness"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AnalyticsReport aggregates stored transcripts for the analytics endpoint.
type AnalyticsReport struct {
	TotalTurns            int            `json:"total_turns"`
	UniqueSessions        int            `json:"unique_sessions"`
	StageCounts           map[string]int `json:"conversation_stages"`
	HighReadinessSessions int            `json:"high_readiness_sessions"`
	ConversionRate        float64        `json:"conversion_rate"`
}
