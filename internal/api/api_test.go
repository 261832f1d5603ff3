package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vendalab/salespipe/internal/engine"
	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/models"
	"github.com/vendalab/salespipe/internal/session"
	"github.com/vendalab/salespipe/internal/store"
)

type stubGenerator struct {
	analysis string
	reply    string
}

func (g *stubGenerator) GenerateAnalysis(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.analysis, nil
}

func (g *stubGenerator) GenerateReply(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.reply, nil
}

const stubAnalysis = `{
	"primary_intent": "question",
	"emotional_state": "curious",
	"conversation_stage": "interest",
	"urgency_level": 3,
	"engagement_level": 6,
	"next_best_action": "provide_info",
	"confidence_score": 0.85,
	"recommended_persuasion_techniques": ["liking"],
	"personality_indicators": {
		"communication_style": "expressive",
		"decision_making": "deliberate",
		"risk_tolerance": "medium"
	}
}`

func newTestServer(t *testing.T) (*Server, *store.InMemoryStore) {
	t.Helper()
	gen := &stubGenerator{
		analysis: stubAnalysis,
		reply:    "O LinkMágico automatiza seu atendimento com IA conversacional.",
	}
	kb := knowledge.NewBase()
	st := store.NewInMemoryStore()
	srv := NewServer(
		WithEngine(engine.New(engine.WithGenerator(gen), engine.WithKnowledgeBase(kb))),
		WithSessionManager(session.NewManager()),
		WithKnowledgeBase(kb),
		WithStore(st),
	)
	return srv, st
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return envelope
}

func TestChatTurn(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "Como funciona o produto de vocês?",
		SessionID: "sess-chat",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Status != string(models.APIStatusOK) {
		t.Fatalf("status = %q, want ok", envelope.Status)
	}

	raw, err := json.Marshal(envelope.Result)
	if err != nil {
		t.Fatalf("re-marshal result: %v", err)
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if resp.SessionID != "sess-chat" {
		t.Errorf("session_id = %q, want sess-chat", resp.SessionID)
	}
	if resp.Reply == "" {
		t.Error("expected non-empty reply")
	}
	if resp.Context.Stage != models.StageInterest {
		t.Errorf("stage = %q, want %q", resp.Context.Stage, models.StageInterest)
	}
	if resp.Context.EmotionalState != models.EmotionCurious {
		t.Errorf("emotional_state = %q, want %q", resp.Context.EmotionalState, models.EmotionCurious)
	}
	if resp.Metrics.InteractionCount != 1 {
		t.Errorf("interaction_count = %d, want 1", resp.Metrics.InteractionCount)
	}

	transcripts, err := st.GetTranscripts("sess-chat")
	if err != nil {
		t.Fatalf("GetTranscripts: %v", err)
	}
	if len(transcripts) != 1 {
		t.Fatalf("persisted transcripts = %d, want 1", len(transcripts))
	}
	if transcripts[0].UserMessage != "Como funciona o produto de vocês?" {
		t.Errorf("persisted message = %q", transcripts[0].UserMessage)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/chat", models.ChatRequest{Message: "Olá!"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	raw, _ := json.Marshal(envelope.Result)
	var resp models.ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session_id")
	}
}

func TestChatEmptyMessageRejectedBeforeSessionCreation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "   ",
		SessionID: "sess-empty",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != string(models.APIStatusError) {
		t.Errorf("status = %q, want error", envelope.Status)
	}
	if srv.sessions.Len() != 0 {
		t.Errorf("sessions created = %d, want 0", srv.sessions.Len())
	}
}

func TestChatExtractionFailureStillReplies(t *testing.T) {
	srv, _ := newTestServer(t)

	// The page fetch fails, so the turn must proceed without web context.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "offline", http.StatusInternalServerError)
	}))
	defer broken.Close()

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "O que vocês oferecem?",
		SessionID: "sess-badurl",
		URL:       broken.URL,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	raw, _ := json.Marshal(envelope.Result)
	var resp models.ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if resp.Reply == "" {
		t.Error("expected a reply despite the failed extraction")
	}
	if resp.HasWebContext {
		t.Error("has_web_context = true, want false after failed extraction")
	}

	convo, err := srv.sessions.Get("sess-badurl")
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if convo.WebData != nil {
		t.Error("expected no web data attached to the session")
	}
}

func TestChatInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestKnowledgeSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/knowledge/search", models.KnowledgeSearchRequest{
		Query: "isso é muito caro",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	raw, err := json.Marshal(envelope.Result)
	if err != nil {
		t.Fatalf("re-marshal result: %v", err)
	}
	var result struct {
		Results []models.KnowledgeSnippet `json:"results"`
		Total   int                       `json:"total"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode search result: %v", err)
	}
	if result.Total < 1 || len(result.Results) != result.Total {
		t.Fatalf("total = %d with %d results, want at least 1 hit", result.Total, len(result.Results))
	}
	top := result.Results[0]
	if top.Category != string(knowledge.CategoryObjectionHandling) {
		t.Errorf("top category = %q, want objection_handling", top.Category)
	}
	if top.Content == "" {
		t.Error("expected snippet content")
	}
	if top.Relevance <= 0 {
		t.Errorf("relevance = %v, want > 0", top.Relevance)
	}
}

func TestKnowledgeSearchValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/knowledge/search", models.KnowledgeSearchRequest{Query: ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/knowledge/search", models.KnowledgeSearchRequest{
		Query:    "preço",
		Category: "not_a_category",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad category status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestKnowledgeAddEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/knowledge", knowledgeAddRequest{
		Category: string(knowledge.CategoryPricing),
		Title:    "Plano empresarial",
		Content:  "O plano empresarial inclui atendimento dedicado e SLA de resposta.",
		Keywords: []string{"plano", "empresarial"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	result, ok := envelope.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result type = %T", envelope.Result)
	}
	id, _ := result["id"].(string)
	if id == "" {
		t.Fatal("expected an item id")
	}
	if _, ok := srv.kb.Get(id); !ok {
		t.Errorf("added item %q not retrievable", id)
	}
}

func TestKnowledgeAddRejectsInvalidCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/knowledge", knowledgeAddRequest{
		Category: "mistério",
		Title:    "t",
		Content:  "c",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestProfileNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/v1/sessions/missing/profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestProfileGetAndUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "Oi, quero saber mais",
		SessionID: "sess-profile",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/sess-profile/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/sessions/sess-profile/profile", profileUpdateRequest{
		Name:        "Maria",
		Interests:   []string{"automação", "automação"},
		BudgetRange: "alto",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put profile status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	raw, _ := json.Marshal(envelope.Result)
	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Name != "Maria" {
		t.Errorf("name = %q, want Maria", profile.Name)
	}
	if len(profile.Interests) != 1 || profile.Interests[0] != "automação" {
		t.Errorf("interests = %v, want deduplicated [automação]", profile.Interests)
	}
	if profile.BudgetRange != "alto" {
		t.Errorf("budget_range = %q, want alto", profile.BudgetRange)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	now := time.Now()
	entries := []models.TranscriptEntry{
		{SessionID: "a", Stage: models.StageAwareness, Readiness: 0.2, CreatedAt: now},
		{SessionID: "a", Stage: models.StageIntent, Readiness: 0.9, CreatedAt: now},
		{SessionID: "b", Stage: models.StageAwareness, Readiness: 0.1, CreatedAt: now},
	}
	for _, entry := range entries {
		if err := st.AddTranscript(entry); err != nil {
			t.Fatalf("AddTranscript: %v", err)
		}
	}

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/v1/analytics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	raw, _ := json.Marshal(envelope.Result)
	var report models.AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalTurns != 3 {
		t.Errorf("total_turns = %d, want 3", report.TotalTurns)
	}
	if report.UniqueSessions != 2 {
		t.Errorf("unique_sessions = %d, want 2", report.UniqueSessions)
	}
	if report.HighReadinessSessions != 1 {
		t.Errorf("high_readiness_sessions = %d, want 1", report.HighReadinessSessions)
	}
	if report.ConversionRate != 0.5 {
		t.Errorf("conversion_rate = %v, want 0.5", report.ConversionRate)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != string(models.APIStatusOK) {
		t.Errorf("status = %q, want ok", envelope.Status)
	}
}
