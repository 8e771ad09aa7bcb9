package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/agent"
	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/domain/llm"
	"pulse-server/services/advisor-api/internal/domain/metric"
	"pulse-server/services/advisor-api/internal/domain/tool"
	"pulse-server/services/advisor-api/internal/domain/user"
	"pulse-server/services/advisor-api/internal/interfaces/httpserver/handlers"
)

// MockProvider is a function-field mock of llm.Provider.
type MockProvider struct {
	CreateFunc func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
}

func (m *MockProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return m.CreateFunc(ctx, req)
}

type discardSink struct{}

func (discardSink) Submit(*interaction.Log) {}

type stubDevices struct{}

func (stubDevices) DailySleep(context.Context, string, string, string) ([]byte, error) {
	return nil, errors.New("not wired")
}
func (stubDevices) DailyStress(context.Context, string, string, string) ([]byte, error) {
	return nil, errors.New("not wired")
}
func (stubDevices) HeartRate(context.Context, string, string, string) ([]byte, error) {
	return nil, errors.New("not wired")
}
func (stubDevices) SleepPeriods(context.Context, string, string, string) ([]byte, error) {
	return nil, errors.New("not wired")
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedQuery(context.Context, string) ([]float64, error) {
	return []float64{0.1}, nil
}

type stubIndex struct{}

func (stubIndex) Query(context.Context, knowledge.Partition, []float64, int) ([]knowledge.Hit, error) {
	return nil, nil
}

func setupAdvisorRouter(provider llm.Provider, requestTimeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	extractor := metric.NewExtractor(stubDevices{}, zerolog.Nop())
	retriever := knowledge.NewRetriever(stubEmbedder{}, stubIndex{}, 3, zerolog.Nop())
	catalog := tool.NewCatalog(extractor, retriever, "podcast-transcripts", "medical-reference", zerolog.Nop())
	store := &MockUserStore{
		DeviceCredentialFunc: func(context.Context, string, user.DeviceKind) (string, error) {
			return "secret-token", nil
		},
	}
	orchestrator := agent.NewOrchestrator(provider, catalog, store, discardSink{}, "gpt-4.1", 8, time.Second, zerolog.Nop())
	handler := handlers.NewAdvisorHandler(orchestrator, requestTimeout, zerolog.Nop())
	engine := gin.New()
	engine.POST("/v1/advisor/query", handler.Query)
	return engine
}

func TestAdvisorHandler_Query_AppliesRequestDeadline(t *testing.T) {
	var deadlineSet bool
	provider := &MockProvider{
		CreateFunc: func(ctx context.Context, _ llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			_, deadlineSet = ctx.Deadline()
			return &llm.ChatCompletionResponse{
				Choices: []llm.ChatCompletionChoice{
					{Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: "ok"}},
				},
			}, nil
		},
	}
	engine := setupAdvisorRouter(provider, time.Minute)

	body := bytes.NewBufferString(`{"query": "How did I sleep?", "user_identity": "alex"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/advisor/query", body)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !deadlineSet {
		t.Error("agent run context has no deadline, want the configured request timeout applied")
	}
}

func TestAdvisorHandler_Query_MissingFields(t *testing.T) {
	engine := setupAdvisorRouter(&MockProvider{}, time.Minute)

	body := bytes.NewBufferString(`{"query": "no identity"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/advisor/query", body)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
