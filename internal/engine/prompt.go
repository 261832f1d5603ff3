package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vendalab/salespipe/internal/models"
)

// promptHistoryWindow is how many recent interactions are embedded in the
// generation prompt.
const promptHistoryWindow = 3

// buildDynamicPrompt assembles the generation instruction block in fixed
// order: persona, stage guidance, emotional guidance, profile summary,
// optional extracted-page summary, recent history, strategy fields.
func buildDynamicPrompt(persona Persona, strategy Strategy, convo *models.ConversationContext, report *models.IntentReport, web *models.PageData) string {
	var b strings.Builder

	b.WriteString(personaDescriptions[persona])
	b.WriteString("\n\nCONTEXTO DA CONVERSA:\n")
	b.WriteString(stageGuidance[convo.CurrentStage])

	b.WriteString("\n\nESTADO EMOCIONAL:\n")
	if guidance, ok := emotionGuidance[convo.EmotionalState]; ok {
		b.WriteString(guidance)
	} else {
		b.WriteString(defaultEmotionGuidance)
	}

	b.WriteString("\n\n")
	b.WriteString(profileSummary(convo.Profile, report))

	if web != nil {
		b.WriteString("\n\n")
		b.WriteString(webSummary(web))
	}

	if recent := convo.RecentHistory(promptHistoryWindow); len(recent) > 0 {
		if historyJSON, err := json.Marshal(recent); err == nil {
			b.WriteString("\n\nHistórico recente: ")
			b.Write(historyJSON)
		}
	}

	fmt.Fprintf(&b, `

ESTRATÉGIA DE RESPOSTA:
- Objetivo principal: %s
- Tom: %s
- Estrutura: %s
- Foco de persuasão: %s

INSTRUÇÕES ESPECÍFICAS:
1. Seja genuíno e autêntico, nunca robótico
2. Adapte sua linguagem ao estilo de comunicação do cliente
3. Use as informações do contexto para personalizar sua resposta
4. Mantenha o foco no valor para o cliente
5. Faça perguntas estratégicas quando apropriado
6. Use storytelling quando relevante
7. Seja específico e evite generalidades`,
		strategy.PrimaryObjective, strategy.Tone, strategy.Structure, strategy.PersuasionFocus)

	return b.String()
}

// profileSummary serializes the client profile block of the prompt.
func profileSummary(profile *models.UserProfile, report *models.IntentReport) string {
	style := report.Personality.CommunicationStyle
	if style == "" {
		style = "não identificado"
	}
	return fmt.Sprintf(`Perfil do Cliente:
- Interesses: %s
- Pontos de dor: %s
- Nível de engajamento: %.1f/1.0
- Nível de confiança: %.1f/1.0
- Prontidão para compra: %.1f/1.0
- Estilo de comunicação: %s`,
		strings.Join(profile.Interests, ", "),
		strings.Join(profile.PainPoints, ", "),
		profile.EngagementLevel,
		profile.TrustLevel,
		profile.PurchaseReadiness,
		style)
}

// webSummary serializes the extracted-page block of the prompt.
func webSummary(web *models.PageData) string {
	var b strings.Builder
	b.WriteString("Informações do Produto/Serviço:\n")
	fmt.Fprintf(&b, "- Título: %s\n", orNA(web.Title))
	fmt.Fprintf(&b, "- Descrição: %s", orNA(web.Description))
	if web.Pricing.HasPricing {
		fmt.Fprintf(&b, "\n- Preços: %s", strings.Join(web.Pricing.Prices, ", "))
	}
	if web.Reviews.HasReviews && len(web.Reviews.Samples) > 0 {
		fmt.Fprintf(&b, "\n- Depoimentos: %s", strings.Join(web.Reviews.Samples, " | "))
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
