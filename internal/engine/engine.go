// Package engine implements the sales conversation engine: intent
// classification, stage and persona strategy, prompt assembly, reply
// generation with deterministic fallback and response enrichment.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/models"
	"github.com/vendalab/salespipe/internal/observability"
)

// Generator produces text from a system and user prompt pair. Implemented by
// genai.Client; tests substitute their own.
type Generator interface {
	// GenerateAnalysis runs a low-temperature call for structured
	// classification output.
	GenerateAnalysis(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// GenerateReply runs a higher-temperature call for conversational text.
	GenerateReply(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// minKnowledgeRelevance filters search hits before they reach a reply.
const minKnowledgeRelevance = 0.3

// TurnResult is the outcome of one processed conversation turn.
type TurnResult struct {
	Reply         string
	Report        *models.IntentReport
	UsedFallback  bool
	KnowledgeUsed []string
	HasWebContext bool
}

// Opts holds the engine's dependencies.
type Opts struct {
	gen Generator
	kb  *knowledge.Base
}

// Option configures the engine.
type Option func(*Opts)

// WithGenerator sets the generation backend.
func WithGenerator(gen Generator) Option {
	return func(o *Opts) { o.gen = gen }
}

// WithKnowledgeBase sets the knowledge base consulted during enrichment.
func WithKnowledgeBase(kb *knowledge.Base) Option {
	return func(o *Opts) { o.kb = kb }
}

// Engine advances sales conversations one turn at a time. It is stateless;
// all conversation state lives in the ConversationContext it is handed, so
// the caller must serialize turns per session.
type Engine struct {
	gen      Generator
	analyzer *IntentAnalyzer
	enricher *Enricher
	kb       *knowledge.Base
}

// New creates a conversation engine.
func New(options ...Option) *Engine {
	var opts Opts
	for _, opt := range options {
		opt(&opts)
	}
	return &Engine{
		gen:      opts.gen,
		analyzer: NewIntentAnalyzer(opts.gen),
		enricher: NewEnricher(),
		kb:       opts.kb,
	}
}

// Advance processes one user message against its conversation context. The
// context is mutated in place: stage, emotional state and profile are updated
// from the classification, and the turn is appended to history. Advance never
// fails; every error path degrades to a canned reply.
func (e *Engine) Advance(ctx context.Context, message string, convo *models.ConversationContext) TurnResult {
	report := e.analyzer.Analyze(ctx, message, convo)

	// The classifier's view wins outright. There is no transition table;
	// a session may jump backward or skip stages as the user does.
	convo.CurrentStage = report.Stage
	convo.EmotionalState = report.EmotionalState
	convo.CurrentIntent = string(report.PrimaryIntent)
	convo.ConfidenceScore = report.ConfidenceScore

	persona := selectPersona(convo, report)
	strategy := selectStrategy(convo, report)
	systemPrompt := buildDynamicPrompt(persona, strategy, convo, report, convo.WebData)

	start := time.Now()
	reply, err := e.gen.GenerateReply(ctx, systemPrompt, message)
	observability.GenerationDuration.Observe(time.Since(start).Seconds())

	usedFallback := false
	if err != nil || reply == "" {
		usedFallback = true
		observability.GenerationFallbacksTotal.Inc()
		slog.Warn("Engine.Advance: generation failed, using fallback reply",
			"session_id", convo.SessionID, "error", err)
		reply = fallbackReply(message)
	}

	var knowledgeUsed []string
	var snippets []knowledge.SearchResult
	if !usedFallback && e.kb != nil {
		snippets = e.relevantKnowledge(message, convo)
		if !shouldIncludeKnowledge(convo, snippets) {
			snippets = nil
		}
		for _, result := range snippets {
			knowledgeUsed = append(knowledgeUsed, result.Item.ID)
		}
	}

	reply = e.enricher.Enrich(reply, convo, report, snippets)

	for _, id := range knowledgeUsed {
		e.kb.UpdateUsage(id, true)
	}

	// Record the turn even when the backend failed; the fallback reply is
	// part of the conversation the user saw.
	convo.AppendInteraction(models.Interaction{
		Timestamp:      time.Now(),
		UserMessage:    message,
		BotResponse:    reply,
		Stage:          convo.CurrentStage,
		EmotionalState: convo.EmotionalState,
		Intent:         string(report.PrimaryIntent),
	})

	observability.TurnsTotal.WithLabelValues(string(convo.CurrentStage)).Inc()

	return TurnResult{
		Reply:         reply,
		Report:        report,
		UsedFallback:  usedFallback,
		KnowledgeUsed: knowledgeUsed,
		HasWebContext: convo.WebData != nil,
	}
}

// stageContextTags maps funnel stages to the knowledge context tags worth
// surfacing at that point of the conversation.
var stageContextTags = map[models.ConversationStage][]string{
	models.StageAwareness:     {"product_overview", "introduction", "capabilities"},
	models.StageInterest:      {"benefits", "features", "value_proposition"},
	models.StageConsideration: {"competitive_advantage", "social_proof", "case_studies"},
	models.StageIntent:        {"pricing", "implementation", "next_steps"},
}

// relevantKnowledge searches the knowledge base for material matching the
// message and the current stage, keeping only confident hits.
func (e *Engine) relevantKnowledge(message string, convo *models.ConversationContext) []knowledge.SearchResult {
	results := e.kb.Search(message, "", stageContextTags[convo.CurrentStage], 3)
	relevant := results[:0]
	for _, result := range results {
		if result.Relevance > minKnowledgeRelevance {
			relevant = append(relevant, result)
		}
	}
	return relevant
}

// shouldIncludeKnowledge gates knowledge excerpts: early-stage sessions and
// low-trust users get supporting material, as does anyone whose hits cover
// objections or testimonials.
func shouldIncludeKnowledge(convo *models.ConversationContext, hits []knowledge.SearchResult) bool {
	if len(hits) == 0 {
		return false
	}
	if convo.CurrentStage == models.StageAwareness || convo.CurrentStage == models.StageInterest {
		return true
	}
	if convo.Profile.TrustLevel < 0.6 {
		return true
	}
	for _, hit := range hits {
		if hit.Item.Category == knowledge.CategoryObjectionHandling || hit.Item.Category == knowledge.CategoryTestimonials {
			return true
		}
	}
	return false
}
