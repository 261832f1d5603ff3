// Package api: HTTP handlers for the sales conversation endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/models"
	"github.com/vendalab/salespipe/internal/observability"
	"github.com/vendalab/salespipe/internal/webextract"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", map[string]interface{}{
		"active_sessions": s.sessions.Len(),
		"knowledge_items": s.kb.GetStats().TotalItems,
	}))
}

// chatHandler processes one conversation turn.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	// Validation happens before any session is created or touched, so a bad
	// request cannot leave half-initialized state behind.
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Mensagem é obrigatória"))
		return
	}
	if len(message) > models.MaxMessageLength {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Mensagem excede o tamanho máximo"))
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var resp models.ChatResponse
	err := s.sessions.WithTurn(sessionID, func(convo *models.ConversationContext) error {
		if req.URL != "" {
			s.attachWebContext(r, convo, req.URL)
		}

		result := s.engine.Advance(r.Context(), message, convo)

		entry := models.TranscriptEntry{
			SessionID:   sessionID,
			UserMessage: message,
			BotResponse: result.Reply,
			Stage:       convo.CurrentStage,
			Emotion:     convo.EmotionalState,
			Engagement:  convo.Profile.EngagementLevel,
			Trust:       convo.Profile.TrustLevel,
			Readiness:   convo.Profile.PurchaseReadiness,
			CreatedAt:   time.Now(),
		}
		if err := s.store.AddTranscript(entry); err != nil {
			// Persistence trouble must not break the conversation.
			slog.Error("Server.chatHandler: failed to persist transcript", "session_id", sessionID, "error", err)
		}

		resp = models.ChatResponse{
			Reply:     result.Reply,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
			Context: models.SessionSnapshot{
				Stage:             convo.CurrentStage,
				EmotionalState:    convo.EmotionalState,
				EngagementLevel:   convo.Profile.EngagementLevel,
				TrustLevel:        convo.Profile.TrustLevel,
				PurchaseReadiness: convo.Profile.PurchaseReadiness,
			},
			Metrics: models.TurnMetrics{
				MessageLength:    len(message),
				ResponseLength:   len(result.Reply),
				InteractionCount: len(convo.History),
				Stage:            convo.CurrentStage,
				EmotionalState:   convo.EmotionalState,
				Confidence:       convo.ConfidenceScore,
			},
			HasWebContext:      result.HasWebContext,
			KnowledgeItemsUsed: len(result.KnowledgeUsed),
		}
		return nil
	})
	if err != nil {
		slog.Error("Server.chatHandler: turn failed", "session_id", sessionID, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Erro interno do servidor"))
		return
	}

	observability.ActiveSessions.Set(float64(s.sessions.Len()))
	writeJSONResponse(w, http.StatusOK, models.Success(resp))
}

// attachWebContext loads page context for a turn, preferring a fresh cache
// entry over a live fetch. Extraction failures leave existing context alone.
func (s *Server) attachWebContext(r *http.Request, convo *models.ConversationContext, url string) {
	cached, err := s.store.GetCachedWebData(url, DefaultChatCacheTTL)
	if err != nil {
		slog.Error("Server.attachWebContext: web cache lookup failed", "url", url, "error", err)
	}
	if cached != nil {
		convo.WebData = cached
		return
	}

	result := s.extractor.Extract(r.Context(), url)
	if !result.Success {
		slog.Warn("Server.attachWebContext: extraction failed", "url", url, "error", result.Error)
		return
	}
	convo.WebData = result.Data
	if err := s.store.CacheWebData(url, result.Data); err != nil {
		slog.Error("Server.attachWebContext: failed to cache web data", "url", url, "error", err)
	}
}

// extractResponse is the payload of POST /extract-url.
type extractResponse struct {
	models.ExtractionResult
	SalesInsights models.SalesInsights `json:"sales_insights"`
}

func (s *Server) extractURLHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("URL é obrigatória"))
		return
	}

	if !req.ForceRefresh {
		cached, err := s.store.GetCachedWebData(req.URL, DefaultExtractCacheTTL)
		if err != nil {
			slog.Error("Server.extractURLHandler: web cache lookup failed", "url", req.URL, "error", err)
		}
		if cached != nil {
			writeJSONResponse(w, http.StatusOK, models.Success(extractResponse{
				ExtractionResult: models.ExtractionResult{Success: true, Data: cached, Cached: true},
				SalesInsights:    webextract.Insights(cached),
			}))
			return
		}
	}

	result := s.extractor.Extract(r.Context(), req.URL)
	if !result.Success {
		writeJSONResponse(w, http.StatusBadGateway, models.Error(result.Error))
		return
	}
	if err := s.store.CacheWebData(req.URL, result.Data); err != nil {
		slog.Error("Server.extractURLHandler: failed to cache web data", "url", req.URL, "error", err)
	}
	writeJSONResponse(w, http.StatusOK, models.Success(extractResponse{
		ExtractionResult: result,
		SalesInsights:    webextract.Insights(result.Data),
	}))
}

func (s *Server) knowledgeSearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req models.KnowledgeSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Query é obrigatória"))
		return
	}
	category := knowledge.Category(req.Category)
	if req.Category != "" && !knowledge.IsValidCategory(category) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Categoria inválida"))
		return
	}

	results := s.kb.Search(req.Query, category, req.Tags, req.MaxResults)
	snippets := make([]models.KnowledgeSnippet, 0, len(results))
	for _, result := range results {
		snippets = append(snippets, result.Snippet())
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"results": snippets,
		"total":   len(snippets),
	}))
}

// knowledgeAddRequest is the body of POST /knowledge.
type knowledgeAddRequest struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Keywords    []string `json:"keywords,omitempty"`
	ContextTags []string `json:"context_tags,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Confidence  float64  `json:"confidence_score,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func (s *Server) knowledgeAddHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req knowledgeAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Title == "" || req.Content == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Título e conteúdo são obrigatórios"))
		return
	}
	category := knowledge.Category(req.Category)
	if !knowledge.IsValidCategory(category) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Categoria inválida"))
		return
	}
	priority := req.Priority
	if priority < 1 || priority > 10 {
		priority = 5
	}

	id := s.kb.Add(knowledge.Item{
		Category:    category,
		Title:       req.Title,
		Content:     req.Content,
		Keywords:    req.Keywords,
		ContextTags: req.ContextTags,
		Priority:    priority,
		Confidence:  req.Confidence,
		Source:      req.Source,
	})
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Item adicionado", map[string]string{"id": id}))
}

func (s *Server) profileGetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.sessions.Get(sessionID); err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Sessão não encontrada"))
			return
		}
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Erro interno do servidor"))
		return
	}

	var profile models.UserProfile
	s.sessions.WithTurn(sessionID, func(convo *models.ConversationContext) error {
		profile = *convo.Profile
		return nil
	})
	writeJSONResponse(w, http.StatusOK, models.Success(profile))
}

// profileUpdateRequest carries the caller-editable profile fields. Scores and
// objection history stay engine-owned.
type profileUpdateRequest struct {
	Name               string   `json:"name,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	PainPoints         []string `json:"pain_points,omitempty"`
	BudgetRange        string   `json:"budget_range,omitempty"`
	DecisionTimeline   string   `json:"decision_timeline,omitempty"`
	CommunicationStyle string   `json:"communication_style,omitempty"`
}

func (s *Server) profilePutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.sessions.Get(sessionID); err != nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Sessão não encontrada"))
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	var profile models.UserProfile
	s.sessions.WithTurn(sessionID, func(convo *models.ConversationContext) error {
		p := convo.Profile
		if req.Name != "" {
			p.Name = req.Name
		}
		for _, interest := range req.Interests {
			p.AddInterest(interest)
		}
		for _, painPoint := range req.PainPoints {
			p.AddPainPoint(painPoint)
		}
		if req.BudgetRange != "" {
			p.BudgetRange = req.BudgetRange
		}
		if req.DecisionTimeline != "" {
			p.DecisionTimeline = req.DecisionTimeline
		}
		if req.CommunicationStyle != "" {
			p.CommunicationStyle = req.CommunicationStyle
		}
		profile = *p
		return nil
	})
	writeJSONResponse(w, http.StatusOK, models.Success(profile))
}

func (s *Server) analyticsHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Analytics()
	if err != nil {
		slog.Error("Server.analyticsHandler: analytics query failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Erro interno do servidor"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(report))
}
