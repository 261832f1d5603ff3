package engine

import (
	"strings"
	"testing"

	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/models"
)

func newTestContext(sessionID string) *models.ConversationContext {
	return models.NewConversationContext(sessionID)
}

func reportWith(techniques ...models.Technique) *models.IntentReport {
	report := models.FallbackIntentReport()
	report.RecommendedTechnique = techniques
	return report
}

func TestEnrichSocialProofAppendedWhenTrustLow(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-sp")
	convo.Profile.TrustLevel = 0.4

	got := e.Enrich("Posso te explicar como funciona.", convo, reportWith(models.TechniqueSocialProof), nil)

	want := pickForSession("sess-sp", socialProofStatements)
	if !strings.Contains(got, want) {
		t.Errorf("enriched reply missing social proof statement %q:\n%s", want, got)
	}
}

func TestEnrichSocialProofSkippedWhenTrustHigh(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-sp-high")
	convo.Profile.TrustLevel = 0.8

	draft := "Posso te explicar como funciona."
	if got := e.Enrich(draft, convo, reportWith(models.TechniqueSocialProof), nil); got != draft {
		t.Errorf("reply changed for high-trust session: %q", got)
	}
}

func TestEnrichSocialProofSkippedWhenAlreadyPresent(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-sp-dup")
	convo.Profile.TrustLevel = 0.4

	draft := "Nossos clientes têm ótimos resultados com essa abordagem."
	if got := e.Enrich(draft, convo, reportWith(models.TechniqueSocialProof), nil); got != draft {
		t.Errorf("social proof appended to a draft that already has it: %q", got)
	}
}

func TestEnrichScarcityOnlyInClosingStages(t *testing.T) {
	e := NewEnricher()
	report := reportWith(models.TechniqueScarcity)

	awareness := newTestContext("sess-scarcity")
	awareness.CurrentStage = models.StageAwareness
	draft := "Faz sentido para você."
	if got := e.Enrich(draft, awareness, report, nil); got != draft {
		t.Errorf("urgency appended outside closing stages: %q", got)
	}

	intent := newTestContext("sess-scarcity")
	intent.CurrentStage = models.StageIntent
	got := e.Enrich(draft, intent, report, nil)
	want := pickForSession("sess-scarcity", urgencyStatements)
	if !strings.Contains(got, want) {
		t.Errorf("urgency statement %q not appended in intent stage:\n%s", want, got)
	}
}

func TestEnrichReciprocityOnlyInAwareness(t *testing.T) {
	e := NewEnricher()
	report := reportWith(models.TechniqueReciprocity)

	convo := newTestContext("sess-recip")
	convo.CurrentStage = models.StageAwareness
	got := e.Enrich("Entendo seu cenário.", convo, report, nil)
	want := pickForSession("sess-recip", valueOfferStatements)
	if !strings.Contains(got, want) {
		t.Errorf("value offer %q not appended in awareness stage:\n%s", want, got)
	}

	later := newTestContext("sess-recip")
	later.CurrentStage = models.StageConsideration
	draft := "Entendo seu cenário."
	if got := e.Enrich(draft, later, report, nil); got != draft {
		t.Errorf("value offer appended outside awareness: %q", got)
	}
}

func TestEnrichDeterministicPerSession(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-deterministic")
	convo.Profile.TrustLevel = 0.2

	first := e.Enrich("Resposta base.", convo, reportWith(models.TechniqueSocialProof), nil)
	second := e.Enrich("Resposta base.", convo, reportWith(models.TechniqueSocialProof), nil)
	if first != second {
		t.Errorf("same session produced different enrichment:\n%q\n%q", first, second)
	}
}

func TestEnrichCTATiers(t *testing.T) {
	tests := []struct {
		name      string
		readiness float64
		trust     float64
		want      string
	}{
		{"direct on high readiness", 0.8, 0.2, ctaDirect},
		{"soft on high trust", 0.5, 0.7, ctaSoft},
		{"low effort otherwise", 0.5, 0.5, ctaLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnricher()
			convo := newTestContext("sess-cta")
			convo.CurrentStage = models.StageIntent
			convo.Profile.PurchaseReadiness = tt.readiness
			convo.Profile.TrustLevel = tt.trust

			got := e.Enrich("Perfeito, isso resolve seu problema.", convo, reportWith(), nil)
			if !strings.Contains(got, tt.want) {
				t.Errorf("reply missing CTA %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestEnrichCTASkippedWhenPresent(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-cta-dup")
	convo.CurrentStage = models.StageIntent

	draft := "Vamos agendar uma conversa para o próximo passo?"
	if got := e.Enrich(draft, convo, reportWith(), nil); got != draft {
		t.Errorf("CTA appended to a draft that already has one: %q", got)
	}
}

func TestEnrichStrategicQuestion(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-question")
	convo.CurrentStage = models.StageAwareness

	report := reportWith()
	report.NextBestAction = models.ActionAskQuestion

	got := e.Enrich("Entendi.", convo, report, nil)
	want := pickForSession("sess-question", stageQuestions[models.StageAwareness])
	if !strings.Contains(got, want) {
		t.Errorf("strategic question %q not appended:\n%s", want, got)
	}
}

func TestEnrichKnowledgeExcerpts(t *testing.T) {
	e := NewEnricher()
	convo := newTestContext("sess-kb")

	hits := []knowledge.SearchResult{
		{Item: knowledge.Item{Category: knowledge.CategoryTestimonials, Content: "Depoimento de cliente satisfeito."}, Relevance: 0.9},
		{Item: knowledge.Item{Category: knowledge.CategoryFAQs, Title: "Prazo", Content: "Em até 24 horas."}, Relevance: 0.8},
		{Item: knowledge.Item{Category: knowledge.CategoryCustomerStories, Content: "História que não deve entrar."}, Relevance: 0.7},
	}

	got := e.Enrich("Base.", convo, reportWith(), hits)
	if !strings.Contains(got, "💬 Depoimento de cliente satisfeito.") {
		t.Errorf("testimonial excerpt missing:\n%s", got)
	}
	if !strings.Contains(got, "❓ Prazo: Em até 24 horas.") {
		t.Errorf("FAQ excerpt missing:\n%s", got)
	}
	if strings.Contains(got, "História que não deve entrar.") {
		t.Errorf("more than two knowledge excerpts appended:\n%s", got)
	}
}

func TestPickForSessionStable(t *testing.T) {
	candidates := []string{"a", "b", "c"}
	first := pickForSession("stable-session", candidates)
	for i := 0; i < 10; i++ {
		if got := pickForSession("stable-session", candidates); got != first {
			t.Fatalf("pickForSession not stable: %q then %q", first, got)
		}
	}
	if pickForSession("any", nil) != "" {
		t.Error("pickForSession(nil candidates) should return empty string")
	}
}
