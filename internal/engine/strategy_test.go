package engine

import (
	"testing"

	"github.com/vendalab/salespipe/internal/models"
)

func TestSelectPersonaPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		trust     float64
		stage     models.ConversationStage
		commStyle string
		want      Persona
	}{
		{"low trust wins over everything", 0.3, models.StageEvaluation, "analytical", PersonaTrustedAdvisor},
		{"awareness stage", 0.5, models.StageAwareness, "", PersonaConsultativeSeller},
		{"interest stage", 0.5, models.StageInterest, "analytical", PersonaConsultativeSeller},
		{"analytical style", 0.5, models.StageConsideration, "analytical", PersonaSolutionExpert},
		{"evaluation stage", 0.5, models.StageEvaluation, "", PersonaSolutionExpert},
		{"default", 0.5, models.StageConsideration, "expressive", PersonaConsultativeSeller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convo := models.NewConversationContext("sess-persona")
			convo.CurrentStage = tt.stage
			convo.Profile.TrustLevel = tt.trust

			report := models.FallbackIntentReport()
			report.Personality.CommunicationStyle = tt.commStyle

			if got := selectPersona(convo, report); got != tt.want {
				t.Errorf("selectPersona() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectStrategy(t *testing.T) {
	convo := models.NewConversationContext("sess-strategy")
	convo.CurrentStage = models.StageConsideration
	convo.EmotionalState = models.EmotionSkeptical

	report := models.FallbackIntentReport()
	report.NextBestAction = models.ActionAddressObjection

	strategy := selectStrategy(convo, report)
	if strategy.PrimaryObjective != models.ActionAddressObjection {
		t.Errorf("objective = %s, want address_objection", strategy.PrimaryObjective)
	}
	if strategy.Tone != toneByEmotion[models.EmotionSkeptical] {
		t.Errorf("tone = %q, want skeptical tone", strategy.Tone)
	}
	if strategy.Structure != structureByStage[models.StageConsideration] {
		t.Errorf("structure = %q", strategy.Structure)
	}
}

func TestSelectStrategyDefaults(t *testing.T) {
	convo := models.NewConversationContext("sess-strategy-default")
	convo.CurrentStage = models.StageRetention
	convo.EmotionalState = models.EmotionConfident

	strategy := selectStrategy(convo, models.FallbackIntentReport())
	if strategy.Tone == "" || strategy.Structure == "" || strategy.PersuasionFocus == "" {
		t.Errorf("strategy has empty defaults: %+v", strategy)
	}
}
