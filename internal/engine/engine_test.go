package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vendalab/salespipe/internal/models"
)

type mockGenerator struct {
	analysisOut      string
	analysisErr      error
	replyOut         string
	replyErr         error
	analysisCalls    int
	replyCalls       int
	lastSystemPrompt string
}

func (m *mockGenerator) GenerateAnalysis(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.analysisCalls++
	return m.analysisOut, m.analysisErr
}

func (m *mockGenerator) GenerateReply(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.replyCalls++
	m.lastSystemPrompt = systemPrompt
	return m.replyOut, m.replyErr
}

const greetingAnalysis = `{
	"primary_intent": "greeting",
	"emotional_state": "curious",
	"conversation_stage": "awareness",
	"urgency_level": 2,
	"engagement_level": 5,
	"next_best_action": "provide_info",
	"confidence_score": 0.9,
	"recommended_persuasion_techniques": ["liking"],
	"personality_indicators": {
		"communication_style": "expressive",
		"decision_making": "deliberate",
		"risk_tolerance": "medium"
	}
}`

func TestAdvanceGreetingTurn(t *testing.T) {
	gen := &mockGenerator{
		analysisOut: greetingAnalysis,
		replyOut:    "Olá! Seja bem-vindo. Como posso te ajudar?",
	}
	eng := New(WithGenerator(gen))
	convo := models.NewConversationContext("sess-greeting")

	result := eng.Advance(context.Background(), "Olá, boa tarde!", convo)

	if result.UsedFallback {
		t.Error("Advance() used fallback on a healthy backend")
	}
	if convo.CurrentStage != models.StageAwareness {
		t.Errorf("stage = %s, want awareness", convo.CurrentStage)
	}
	if convo.EmotionalState != models.EmotionCurious {
		t.Errorf("emotional state = %s, want curious", convo.EmotionalState)
	}
	if convo.CurrentIntent != "greeting" {
		t.Errorf("current intent = %q, want greeting", convo.CurrentIntent)
	}
	if !strings.HasPrefix(result.Reply, gen.replyOut) {
		t.Errorf("reply %q does not start with generated text", result.Reply)
	}
	if len(convo.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(convo.History))
	}
	if convo.History[0].UserMessage != "Olá, boa tarde!" {
		t.Errorf("recorded user message = %q", convo.History[0].UserMessage)
	}
	if convo.History[0].BotResponse != result.Reply {
		t.Error("recorded bot response differs from returned reply")
	}
	// The awareness-stage persona goes through the consultative seller.
	if !strings.Contains(gen.lastSystemPrompt, personaDescriptions[PersonaConsultativeSeller]) {
		t.Error("system prompt missing consultative seller persona description")
	}
}

func TestAdvanceLowTrustSelectsTrustedAdvisor(t *testing.T) {
	gen := &mockGenerator{analysisOut: greetingAnalysis, replyOut: "Certo."}
	eng := New(WithGenerator(gen))
	convo := models.NewConversationContext("sess-lowtrust")
	convo.Profile.TrustLevel = 0.3

	eng.Advance(context.Background(), "Não confio nesse tipo de ferramenta", convo)

	if !strings.Contains(gen.lastSystemPrompt, personaDescriptions[PersonaTrustedAdvisor]) {
		t.Error("system prompt missing trusted advisor persona for low-trust session")
	}
}

func TestAdvanceGenerationFailureFallsBack(t *testing.T) {
	gen := &mockGenerator{
		analysisOut: greetingAnalysis,
		replyErr:    errors.New("backend unavailable"),
	}
	eng := New(WithGenerator(gen))
	convo := models.NewConversationContext("sess-fallback")

	result := eng.Advance(context.Background(), "Olá, boa tarde!", convo)

	if !result.UsedFallback {
		t.Fatal("Advance() did not report fallback")
	}
	if !strings.HasPrefix(result.Reply, fallbackReplies["greeting"]) {
		t.Errorf("fallback reply = %q, want greeting fallback", result.Reply)
	}
	if len(convo.History) != 1 {
		t.Errorf("history length = %d, fallback turns must still be recorded", len(convo.History))
	}
}

func TestAdvanceAnalysisFailureUsesFallbackReport(t *testing.T) {
	gen := &mockGenerator{
		analysisErr: errors.New("classification down"),
		replyOut:    "Entendi, me conte mais.",
	}
	eng := New(WithGenerator(gen))
	convo := models.NewConversationContext("sess-analysis-down")

	result := eng.Advance(context.Background(), "Quanto custa o plano anual?", convo)

	want := models.FallbackIntentReport()
	if result.Report.PrimaryIntent != want.PrimaryIntent {
		t.Errorf("intent = %s, want %s", result.Report.PrimaryIntent, want.PrimaryIntent)
	}
	if result.Report.ConfidenceScore != want.ConfidenceScore {
		t.Errorf("confidence = %v, want %v", result.Report.ConfidenceScore, want.ConfidenceScore)
	}
	if convo.CurrentStage != models.StageConsideration {
		t.Errorf("stage = %s, want consideration from the fallback report", convo.CurrentStage)
	}
	if result.UsedFallback {
		t.Error("reply generation succeeded, turn must not count as fallback")
	}
}

func TestAdvanceHistoryCap(t *testing.T) {
	gen := &mockGenerator{analysisOut: greetingAnalysis, replyOut: "Ok."}
	eng := New(WithGenerator(gen))
	convo := models.NewConversationContext("sess-cap")

	for i := 0; i < models.MaxHistoryLength+5; i++ {
		eng.Advance(context.Background(), fmt.Sprintf("mensagem %d", i), convo)
	}

	if len(convo.History) != models.MaxHistoryLength {
		t.Fatalf("history length = %d, want %d", len(convo.History), models.MaxHistoryLength)
	}
	if convo.History[0].UserMessage != "mensagem 5" {
		t.Errorf("oldest retained message = %q, want mensagem 5 (FIFO eviction)", convo.History[0].UserMessage)
	}
	last := convo.History[len(convo.History)-1]
	if last.UserMessage != fmt.Sprintf("mensagem %d", models.MaxHistoryLength+4) {
		t.Errorf("newest message = %q", last.UserMessage)
	}
}

func TestFallbackReplyClassification(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"greeting", "Oi, tudo bem?", fallbackReplies["greeting"]},
		{"question", "Qual o preço?", fallbackReplies["question"]},
		{"objection", "Mas isso parece complicado", fallbackReplies["objection"]},
		{"other", "Quero aumentar minhas vendas", fallbackReplies["other"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fallbackReply(tt.message); got != tt.want {
				t.Errorf("fallbackReply(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
