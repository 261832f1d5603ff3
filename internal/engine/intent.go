package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vendalab/salespipe/internal/models"
)

// analysisSystemPrompt frames the classification call. The backend is asked
// for bare JSON; anything else is treated as a classification failure.
const analysisSystemPrompt = "Você é um especialista em análise de comportamento de clientes e psicologia de vendas. Retorne apenas JSON válido."

// analysisHistoryWindow is how many recent interactions are embedded in the
// classification request.
const analysisHistoryWindow = 3

// IntentAnalyzer classifies incoming messages into structured intent reports
// and folds the discovered signals into the session's user profile.
type IntentAnalyzer struct {
	gen Generator
}

// NewIntentAnalyzer creates an analyzer backed by the given generator.
func NewIntentAnalyzer(gen Generator) *IntentAnalyzer {
	return &IntentAnalyzer{gen: gen}
}

// Analyze classifies one message in the context of its conversation. It never
// fails: any backend or parse error yields the deterministic fallback report.
// On a successful classification the session profile is updated as a side
// effect (tag folding plus bounded score nudges).
func (a *IntentAnalyzer) Analyze(ctx context.Context, message string, convo *models.ConversationContext) *models.IntentReport {
	prompt, err := a.buildAnalysisPrompt(message, convo)
	if err != nil {
		slog.Error("IntentAnalyzer.Analyze: failed to build analysis prompt", "session_id", convo.SessionID, "error", err)
		return models.FallbackIntentReport()
	}

	raw, err := a.gen.GenerateAnalysis(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		slog.Warn("IntentAnalyzer.Analyze: classification call failed, using fallback report", "session_id", convo.SessionID, "error", err)
		return models.FallbackIntentReport()
	}

	report, err := parseIntentReport(raw)
	if err != nil {
		slog.Warn("IntentAnalyzer.Analyze: unparseable classification output, using fallback report", "session_id", convo.SessionID, "error", err, "output_length", len(raw))
		return models.FallbackIntentReport()
	}
	report.Normalize()

	updateProfile(convo.Profile, report)

	slog.Debug("IntentAnalyzer.Analyze: classification succeeded",
		"session_id", convo.SessionID,
		"primary_intent", report.PrimaryIntent,
		"stage", report.Stage,
		"emotional_state", report.EmotionalState,
		"confidence", report.ConfidenceScore)
	return report
}

// buildAnalysisPrompt embeds the message, the recent history window and the
// current session state into the classification request.
func (a *IntentAnalyzer) buildAnalysisPrompt(message string, convo *models.ConversationContext) (string, error) {
	recent := convo.RecentHistory(analysisHistoryWindow)
	historyJSON, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal history: %w", err)
	}
	profileJSON, err := json.Marshal(convo.Profile)
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}

	return fmt.Sprintf(`Analise esta mensagem do cliente considerando o contexto da conversa.

Mensagem atual: %q

Contexto da conversa:
- Estágio atual: %s
- Estado emocional anterior: %s
- Histórico recente: %s
- Perfil do usuário: %s

Retorne um JSON com:
{
    "primary_intent": "greeting|question|objection|interest|ready_to_buy|price_inquiry|comparison|clarification|complaint|other",
    "secondary_intents": ["lista de intenções secundárias"],
    "emotional_state": "excited|curious|skeptical|confused|frustrated|confident|hesitant|urgent",
    "conversation_stage": "awareness|interest|consideration|intent|evaluation|purchase|retention",
    "urgency_level": 1-10,
    "engagement_level": 1-10,
    "trust_indicators": ["lista de indicadores de confiança"],
    "objection_signals": ["lista de sinais de objeção"],
    "buying_signals": ["lista de sinais de compra"],
    "pain_points_mentioned": ["lista de dores mencionadas"],
    "value_drivers": ["lista de valores importantes para o cliente"],
    "next_best_action": "ask_question|provide_info|address_objection|present_solution|close|nurture",
    "confidence_score": 0.0-1.0,
    "recommended_persuasion_techniques": ["lista de técnicas recomendadas"],
    "personality_indicators": {
        "communication_style": "direct|analytical|expressive|amiable",
        "decision_making": "quick|deliberate|collaborative|research_heavy",
        "risk_tolerance": "high|medium|low"
    }
}`, message, convo.CurrentStage, convo.EmotionalState, historyJSON, profileJSON), nil
}

// parseIntentReport decodes the classifier's JSON output, tolerating markdown
// code fences some models wrap around it.
func parseIntentReport(raw string) (*models.IntentReport, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	var report models.IntentReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("failed to decode intent report: %w", err)
	}
	return &report, nil
}

// Profile score nudge sizes. These are monotone per-turn adjustments that
// accumulate over a session, clamped to [0, 1].
const (
	engagementNudge = 0.1
	trustNudge      = 0.05
	readinessNudge  = 0.1
)

// updateProfile folds the classified signals into the user profile.
func updateProfile(profile *models.UserProfile, report *models.IntentReport) {
	for _, painPoint := range report.PainPointsMentioned {
		profile.AddPainPoint(painPoint)
	}
	for _, driver := range report.ValueDrivers {
		profile.AddInterest(driver)
	}
	for _, objection := range report.ObjectionSignals {
		profile.AddObjection(objection)
	}
	if report.Personality.CommunicationStyle != "" {
		profile.CommunicationStyle = report.Personality.CommunicationStyle
	}

	buying := len(report.BuyingSignals)
	trust := len(report.TrustIndicators)
	objections := len(report.ObjectionSignals)

	if buying > 0 {
		profile.EngagementLevel += engagementNudge * float64(buying)
		profile.PurchaseReadiness += readinessNudge * float64(buying)
	}
	profile.TrustLevel += trustNudge * float64(trust-objections)
	profile.ClampScores()

	slog.Debug("engine.updateProfile: profile nudged",
		"session_id", profile.SessionID,
		"buying_signals", buying,
		"trust_indicators", trust,
		"objection_signals", objections,
		"engagement_level", profile.EngagementLevel,
		"trust_level", profile.TrustLevel,
		"purchase_readiness", profile.PurchaseReadiness)
}
