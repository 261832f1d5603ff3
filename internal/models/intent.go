// Package models: intent classification report produced once per turn.
package models

// Intent is the primary intent label vocabulary.
type Intent string

const (
	IntentGreeting      Intent = "greeting"
	IntentQuestion      Intent = "question"
	IntentObjection     Intent = "objection"
	IntentInterest      Intent = "interest"
	IntentReadyToBuy    Intent = "ready_to_buy"
	IntentPriceInquiry  Intent = "price_inquiry"
	IntentComparison    Intent = "comparison"
	IntentClarification Intent = "clarification"
	IntentComplaint     Intent = "complaint"
	IntentOther         Intent = "other"
)

// IsValidIntent checks membership in the fixed intent vocabulary.
func IsValidIntent(i Intent) bool {
	switch i {
	case IntentGreeting, IntentQuestion, IntentObjection, IntentInterest,
		IntentReadyToBuy, IntentPriceInquiry, IntentComparison,
		IntentClarification, IntentComplaint, IntentOther:
		return true
	default:
		return false
	}
}

// NextAction is the recommended next move for the response strategy.
type NextAction string

const (
	ActionAskQuestion      NextAction = "ask_question"
	ActionProvideInfo      NextAction = "provide_info"
	ActionAddressObjection NextAction = "address_objection"
	ActionPresentSolution  NextAction = "present_solution"
	ActionClose            NextAction = "close"
	ActionNurture          NextAction = "nurture"
)

// IsValidNextAction checks membership in the fixed next-action vocabulary.
func IsValidNextAction(a NextAction) bool {
	switch a {
	case ActionAskQuestion, ActionProvideInfo, ActionAddressObjection,
		ActionPresentSolution, ActionClose, ActionNurture:
		return true
	default:
		return false
	}
}

// Technique names a persuasion technique the enricher may apply.
type Technique string

const (
	TechniqueReciprocity Technique = "reciprocity"
	TechniqueSocialProof Technique = "social_proof"
	TechniqueAuthority   Technique = "authority"
	TechniqueScarcity    Technique = "scarcity"
	TechniqueCommitment  Technique = "commitment"
	TechniqueLiking      Technique = "liking"
)

// PersonalityIndicators carries the classifier's read on the user's style.
type PersonalityIndicators struct {
	CommunicationStyle string `json:"communication_style"`
	DecisionMaking     string `json:"decision_making"`
	RiskTolerance      string `json:"risk_tolerance"`
}

// IntentReport is the structured output of one classification pass. It is
// produced fresh each turn, folded into the session context and profile, and
// then discarded; it is never persisted on its own.
type IntentReport struct {
	PrimaryIntent        Intent                `json:"primary_intent"`
	SecondaryIntents     []string              `json:"secondary_intents,omitempty"`
	EmotionalState       EmotionalState        `json:"emotional_state"`
	Stage                ConversationStage     `json:"conversation_stage"`
	UrgencyLevel         int                   `json:"urgency_level"`
	EngagementLevel      int                   `json:"engagement_level"`
	TrustIndicators      []string              `json:"trust_indicators,omitempty"`
	ObjectionSignals     []string              `json:"objection_signals,omitempty"`
	BuyingSignals        []string              `json:"buying_signals,omitempty"`
	PainPointsMentioned  []string              `json:"pain_points_mentioned,omitempty"`
	ValueDrivers         []string              `json:"value_drivers,omitempty"`
	NextBestAction       NextAction            `json:"next_best_action"`
	ConfidenceScore      float64               `json:"confidence_score"`
	RecommendedTechnique []Technique           `json:"recommended_persuasion_techniques,omitempty"`
	Personality          PersonalityIndicators `json:"personality_indicators"`
}

// FallbackIntentReport is the deterministic report used whenever intent
// classification fails; analyze must never propagate an error.
func FallbackIntentReport() *IntentReport {
	return &IntentReport{
		PrimaryIntent:        IntentOther,
		EmotionalState:       EmotionCurious,
		Stage:                StageConsideration,
		UrgencyLevel:         5,
		EngagementLevel:      5,
		NextBestAction:       ActionProvideInfo,
		ConfidenceScore:      0.3,
		RecommendedTechnique: []Technique{TechniqueLiking},
		Personality: PersonalityIndicators{
			CommunicationStyle: "expressive",
			DecisionMaking:     "deliberate",
			RiskTolerance:      "medium",
		},
	}
}

// Normalize coerces out-of-vocabulary labels back to safe defaults so a
// partially malformed classifier response still yields a usable report.
func (r *IntentReport) Normalize() {
	if !IsValidIntent(r.PrimaryIntent) {
		r.PrimaryIntent = IntentOther
	}
	if !IsValidEmotion(r.EmotionalState) {
		r.EmotionalState = EmotionCurious
	}
	if !IsValidStage(r.Stage) {
		r.Stage = StageConsideration
	}
	if !IsValidNextAction(r.NextBestAction) {
		r.NextBestAction = ActionProvideInfo
	}
	if r.UrgencyLevel < 1 {
		r.UrgencyLevel = 1
	} else if r.UrgencyLevel > 10 {
		r.UrgencyLevel = 10
	}
	if r.EngagementLevel < 1 {
		r.EngagementLevel = 1
	} else if r.EngagementLevel > 10 {
		r.EngagementLevel = 10
	}
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	} else if r.ConfidenceScore > 1 {
		r.ConfidenceScore = 1
	}
}
