package engine

import (
	"log/slog"

	"github.com/vendalab/salespipe/internal/models"
)

// Strategy is the derived response plan for one turn.
type Strategy struct {
	PrimaryObjective models.NextAction
	Tone             string
	Structure        string
	PersuasionFocus  string
}

// selectPersona chooses the behavioral template for prompt construction.
// Precedence: trust-based override, then stage-based forcing, then
// communication-style choice, then the consultative default.
func selectPersona(convo *models.ConversationContext, report *models.IntentReport) Persona {
	style := report.Personality.CommunicationStyle
	stage := convo.CurrentStage
	trust := convo.Profile.TrustLevel

	var persona Persona
	switch {
	case trust < 0.4:
		persona = PersonaTrustedAdvisor
	case stage == models.StageAwareness || stage == models.StageInterest:
		persona = PersonaConsultativeSeller
	case style == "analytical" || stage == models.StageEvaluation:
		persona = PersonaSolutionExpert
	default:
		persona = PersonaConsultativeSeller
	}
	slog.Debug("engine.selectPersona: persona selected", "session_id", convo.SessionID, "persona", persona, "trust_level", trust, "stage", stage, "communication_style", style)
	return persona
}

// toneByEmotion maps the user's emotional state to the reply tone.
var toneByEmotion = map[models.EmotionalState]string{
	models.EmotionExcited:    "entusiasmado mas profissional",
	models.EmotionSkeptical:  "confiante e transparente",
	models.EmotionConfused:   "paciente e didático",
	models.EmotionFrustrated: "empático e solucionador",
	models.EmotionUrgent:     "responsivo e eficiente",
}

const defaultTone = "profissional e amigável"

// structureByStage maps the funnel stage to the reply structure.
var structureByStage = map[models.ConversationStage]string{
	models.StageAwareness:     "pergunta-descoberta-educação",
	models.StageInterest:      "validação-conceito-benefício",
	models.StageConsideration: "diferenciação-prova-urgência",
}

const defaultStructure = "confirmação-simplificação-ação"

// persuasionFocusByStage maps the funnel stage to the persuasion emphasis.
var persuasionFocusByStage = map[models.ConversationStage]string{
	models.StageAwareness:     "construção de rapport e identificação de necessidades",
	models.StageInterest:      "demonstração de valor e criação de visão",
	models.StageConsideration: "diferenciação e redução de risco",
	models.StageIntent:        "simplificação e facilitação da decisão",
}

const defaultPersuasionFocus = "construção de valor"

// selectStrategy derives the response strategy from the session's stage and
// emotional state. The objective is copied straight from the classifier's
// recommended next action.
func selectStrategy(convo *models.ConversationContext, report *models.IntentReport) Strategy {
	tone, ok := toneByEmotion[convo.EmotionalState]
	if !ok {
		tone = defaultTone
	}
	structure, ok := structureByStage[convo.CurrentStage]
	if !ok {
		structure = defaultStructure
	}
	focus, ok := persuasionFocusByStage[convo.CurrentStage]
	if !ok {
		focus = defaultPersuasionFocus
	}
	return Strategy{
		PrimaryObjective: report.NextBestAction,
		Tone:             tone,
		Structure:        structure,
		PersuasionFocus:  focus,
	}
}
