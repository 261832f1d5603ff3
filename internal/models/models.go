// Package models defines the core data structures for SalesPipe.
//
// It includes the sales-funnel conversation state (stages, emotional states,
// user profiles) and the transcript/envelope types shared across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// ConversationStage represents the sales-funnel phase a session occupies.
type ConversationStage string

const (
	StageAwareness     ConversationStage = "awareness"
	StageInterest      ConversationStage = "interest"
	StageConsideration ConversationStage = "consideration"
	StageIntent        ConversationStage = "intent"
	StageEvaluation    ConversationStage = "evaluation"
	StagePurchase      ConversationStage = "purchase"
	StageRetention     ConversationStage = "retention"
)

// IsValidStage checks if the given stage is a member of the stage enum.
func IsValidStage(s ConversationStage) bool {
	switch s {
	case StageAwareness, StageInterest, StageConsideration, StageIntent,
		StageEvaluation, StagePurchase, StageRetention:
		return true
	default:
		return false
	}
}

// EmotionalState represents the classified affect of the user's latest message.
type EmotionalState string

const (
	EmotionExcited    EmotionalState = "excited"
	EmotionCurious    EmotionalState = "curious"
	EmotionSkeptical  EmotionalState = "skeptical"
	EmotionConfused   EmotionalState = "confused"
	EmotionFrustrated EmotionalState = "frustrated"
	EmotionConfident  EmotionalState = "confident"
	EmotionHesitant   EmotionalState = "hesitant"
	EmotionUrgent     EmotionalState = "urgent"
)

// IsValidEmotion checks if the given emotional state is a member of the enum.
func IsValidEmotion(e EmotionalState) bool {
	switch e {
	case EmotionExcited, EmotionCurious, EmotionSkeptical, EmotionConfused,
		EmotionFrustrated, EmotionConfident, EmotionHesitant, EmotionUrgent:
		return true
	default:
		return false
	}
}

// Limits enforced on conversation state.
const (
	// MaxHistoryLength is the cap on stored interactions per session; oldest
	// entries are evicted first once the cap is reached.
	MaxHistoryLength = 50
	// MaxMessageLength is the maximum accepted chat message length.
	MaxMessageLength = 8192
)

// Error variables for request validation and testability.
var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrEmptySessionID  = errors.New("session id cannot be empty")
	ErrInvalidStage    = errors.New("invalid conversation stage")
	ErrInvalidEmotion  = errors.New("invalid emotional state")
	ErrSessionNotFound = errors.New("session not found")
)

// UserProfile accumulates what the engine has learned about one session's user.
// The three level scores are always clamped to [0.0, 1.0] and are nudged
// incrementally by the intent analyzer; they are never reset within a session.
type UserProfile struct {
	SessionID          string   `json:"session_id"`
	Name               string   `json:"name,omitempty"`
	Interests          []string `json:"interests"`
	PainPoints         []string `json:"pain_points"`
	BudgetRange        string   `json:"budget_range,omitempty"`
	DecisionTimeline   string   `json:"decision_timeline,omitempty"`
	CommunicationStyle string   `json:"communication_style,omitempty"`
	PreviousObjections []string `json:"previous_objections"`
	EngagementLevel    float64  `json:"engagement_level"`
	TrustLevel         float64  `json:"trust_level"`
	PurchaseReadiness  float64  `json:"purchase_readiness"`
}

// NewUserProfile creates a profile with the default score levels.
func NewUserProfile(sessionID string) *UserProfile {
	return &UserProfile{
		SessionID:          sessionID,
		Interests:          []string{},
		PainPoints:         []string{},
		PreviousObjections: []string{},
		EngagementLevel:    0.5,
		TrustLevel:         0.5,
		PurchaseReadiness:  0.0,
	}
}

// ClampScores forces the three level scores back into [0.0, 1.0].
func (p *UserProfile) ClampScores() {
	p.EngagementLevel = clamp01(p.EngagementLevel)
	p.TrustLevel = clamp01(p.TrustLevel)
	p.PurchaseReadiness = clamp01(p.PurchaseReadiness)
}

// AddInterest appends an interest tag, deduplicating by exact string match.
func (p *UserProfile) AddInterest(tag string) {
	p.Interests = appendUnique(p.Interests, tag)
}

// AddPainPoint appends a pain-point tag, deduplicating by exact string match.
func (p *UserProfile) AddPainPoint(tag string) {
	p.PainPoints = appendUnique(p.PainPoints, tag)
}

// AddObjection appends a raised objection, deduplicating by exact string match.
func (p *UserProfile) AddObjection(tag string) {
	p.PreviousObjections = appendUnique(p.PreviousObjections, tag)
}

func appendUnique(list []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return list
	}
	for _, existing := range list {
		if existing == tag {
			return list
		}
	}
	return append(list, tag)
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// Interaction is one stored turn of a conversation.
type Interaction struct {
	Timestamp      time.Time         `json:"timestamp"`
	UserMessage    string            `json:"user_message"`
	BotResponse    string            `json:"bot_response"`
	Stage          ConversationStage `json:"stage"`
	EmotionalState EmotionalState    `json:"emotional_state"`
	Intent         string            `json:"intent,omitempty"`
}

// ConversationContext is the full per-session conversation state. One instance
// exists per session, owned by the session manager; all mutation happens under
// the manager's per-session lock.
type ConversationContext struct {
	SessionID       string            `json:"session_id"`
	CurrentStage    ConversationStage `json:"current_stage"`
	EmotionalState  EmotionalState    `json:"emotional_state"`
	Profile         *UserProfile      `json:"user_profile"`
	History         []Interaction     `json:"conversation_history"`
	WebData         *PageData         `json:"web_data,omitempty"`
	CurrentIntent   string            `json:"current_intent,omitempty"`
	ConfidenceScore float64           `json:"confidence_score"`
	LastInteraction time.Time         `json:"last_interaction"`
}

// NewConversationContext creates a context with the first-contact defaults:
// awareness stage, curious emotional state, empty history.
func NewConversationContext(sessionID string) *ConversationContext {
	return &ConversationContext{
		SessionID:      sessionID,
		CurrentStage:   StageAwareness,
		EmotionalState: EmotionCurious,
		Profile:        NewUserProfile(sessionID),
		History:        []Interaction{},
	}
}

// AppendInteraction records a turn, evicting the oldest entry once the history
// cap is reached, and bumps the last-interaction timestamp.
func (c *ConversationContext) AppendInteraction(in Interaction) {
	c.History = append(c.History, in)
	if len(c.History) > MaxHistoryLength {
		c.History = c.History[len(c.History)-MaxHistoryLength:]
	}
	c.LastInteraction = in.Timestamp
}

// RecentHistory returns up to the last n interactions in order.
func (c *ConversationContext) RecentHistory(n int) []Interaction {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}
