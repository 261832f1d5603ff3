package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/models"
)

// Enricher post-processes generated replies: it conditionally applies
// persuasion techniques, appends a call-to-action and a strategic follow-up
// question, and weaves in knowledge excerpts. It only ever appends; the draft
// text is never rewritten or truncated.
type Enricher struct{}

// NewEnricher creates a response enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// maxKnowledgeExcerpts bounds how many knowledge snippets one reply absorbs.
const maxKnowledgeExcerpts = 2

// enrichState tracks which elements this enrichment pass has itself appended.
// Keyword heuristics are only consulted for the backend-produced draft, where
// no such flag can exist.
type enrichState struct {
	socialProof bool
	urgency     bool
	valueOffer  bool
	cta         bool
}

// Enrich applies the recommended techniques and contextual elements to a
// draft reply and returns the final text.
func (e *Enricher) Enrich(draft string, convo *models.ConversationContext, report *models.IntentReport, snippets []knowledge.SearchResult) string {
	reply := draft
	var added enrichState

	for _, technique := range report.RecommendedTechnique {
		reply = e.applyTechnique(reply, technique, convo, &added)
	}

	reply = e.appendCallToAction(reply, convo, &added)
	reply = e.appendStrategicQuestion(reply, convo, report)
	reply = e.appendKnowledge(reply, snippets)

	if reply != draft {
		slog.Debug("Enricher.Enrich: reply enriched",
			"session_id", convo.SessionID,
			"draft_length", len(draft),
			"final_length", len(reply),
			"social_proof", added.socialProof,
			"urgency", added.urgency,
			"value_offer", added.valueOffer,
			"cta", added.cta)
	}
	return reply
}

// applyTechnique applies one persuasion technique if its precondition holds
// and the element is not already present. Techniques outside the appendable
// set (authority, commitment, liking) shape generation only and are no-ops
// here.
func (e *Enricher) applyTechnique(reply string, technique models.Technique, convo *models.ConversationContext, added *enrichState) string {
	switch technique {
	case models.TechniqueSocialProof:
		if convo.Profile.TrustLevel < 0.6 && !added.socialProof && !containsAny(reply, socialProofIndicators) {
			added.socialProof = true
			return reply + "\n\n" + pickForSession(convo.SessionID, socialProofStatements)
		}
	case models.TechniqueScarcity:
		if (convo.CurrentStage == models.StageIntent || convo.CurrentStage == models.StageEvaluation) &&
			!added.urgency && !containsAny(reply, urgencyIndicators) {
			added.urgency = true
			return reply + "\n\n" + pickForSession(convo.SessionID, urgencyStatements)
		}
	case models.TechniqueReciprocity:
		if convo.CurrentStage == models.StageAwareness && !added.valueOffer && !containsAny(reply, valueOfferIndicators) {
			added.valueOffer = true
			return reply + "\n\n" + pickForSession(convo.SessionID, valueOfferStatements)
		}
	}
	return reply
}

// appendCallToAction appends a readiness-tiered CTA when the session is in a
// closing stage and the reply does not already carry one.
func (e *Enricher) appendCallToAction(reply string, convo *models.ConversationContext, added *enrichState) string {
	if convo.CurrentStage != models.StageIntent && convo.CurrentStage != models.StageEvaluation {
		return reply
	}
	if added.cta || containsAny(reply, ctaIndicators) {
		return reply
	}
	added.cta = true

	var cta string
	switch {
	case convo.Profile.PurchaseReadiness > 0.7:
		cta = ctaDirect
	case convo.Profile.TrustLevel > 0.6:
		cta = ctaSoft
	default:
		cta = ctaLow
	}
	return reply + "\n\n" + cta
}

// appendStrategicQuestion appends a stage-appropriate follow-up question when
// the classifier recommends asking one.
func (e *Enricher) appendStrategicQuestion(reply string, convo *models.ConversationContext, report *models.IntentReport) string {
	if report.NextBestAction != models.ActionAskQuestion {
		return reply
	}
	question := pickForSession(convo.SessionID, stageQuestions[convo.CurrentStage])
	if question == "" {
		question = fallbackQuestion
	}
	return reply + "\n\n" + question
}

// appendKnowledge appends up to maxKnowledgeExcerpts knowledge snippets with
// a category-specific prefix.
func (e *Enricher) appendKnowledge(reply string, snippets []knowledge.SearchResult) string {
	count := 0
	for _, result := range snippets {
		if count >= maxKnowledgeExcerpts {
			break
		}
		item := result.Item
		switch item.Category {
		case knowledge.CategoryCustomerStories, knowledge.CategoryCaseStudies:
			reply += fmt.Sprintf("\n\n📈 %s", truncate(item.Content, 200))
		case knowledge.CategoryTestimonials:
			reply += fmt.Sprintf("\n\n💬 %s", truncate(item.Content, 150))
		case knowledge.CategoryFAQs:
			reply += fmt.Sprintf("\n\n❓ %s: %s", item.Title, truncate(item.Content, 200))
		default:
			continue
		}
		count++
	}
	return reply
}

// containsAny reports whether text contains any of the indicators,
// case-insensitively.
func containsAny(text string, indicators []string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary to avoid splitting multibyte characters.
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
