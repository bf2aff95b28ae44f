package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	"ideaforge-backend/infrastructure/persistence/memory"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
)

type scriptedAnalyzer struct {
	result ports.AnalysisResult
}

func (a *scriptedAnalyzer) Analyze(ctx context.Context, req ports.AnalysisRequest) (*ports.AnalysisResult, error) {
	r := a.result
	return &r, nil
}

type discardPublisher struct{}

func (discardPublisher) Publish(ctx context.Context, event events.DomainEvent) error { return nil }

func (discardPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return nil
}

type analysisHandlerFixture struct {
	router   chi.Router
	analyzer *scriptedAnalyzer
}

func newAnalysisHandlerFixture(t *testing.T) *analysisHandlerFixture {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()
	analyzer := &scriptedAnalyzer{result: ports.AnalysisResult{RawScore: 72}}

	credits := services.NewCreditService(memory.NewLedgerRepository(store), discardPublisher{}, logger)
	analyses := services.NewAnalysisService(memory.NewAnalysisRepository(store), credits, analyzer, discardPublisher{}, logger)

	ownerID, err := valueobjects.NewUserID("user-1")
	require.NoError(t, err)
	_, err = credits.GrantCredits(context.Background(), ownerID, 100, "test grant")
	require.NoError(t, err)

	handler := NewAnalysisHandler(analyses, logger)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), "user-1")))
		})
	})
	router.Post("/analyses/idea", handler.AnalyzeIdea)
	router.Post("/analyses/{analysisID}/rescore", handler.RescoreAnalysis)
	router.Get("/analyses", handler.ListAnalyses)

	return &analysisHandlerFixture{router: router, analyzer: analyzer}
}

func (f *analysisHandlerFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// analyzeWithScore creates one analysis through the endpoint and returns its ID
func (f *analysisHandlerFixture) analyzeWithScore(t *testing.T, rawScore int, text string) string {
	t.Helper()
	f.analyzer.result = ports.AnalysisResult{RawScore: rawScore}
	rec := f.do(t, http.MethodPost, "/analyses/idea", `{"text":"`+text+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data dto.Analysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data.ID
}

func TestListAnalysesMinScoreFilter(t *testing.T) {
	f := newAnalysisHandlerFixture(t)
	f.analyzeWithScore(t, 40, "low scorer")
	f.analyzeWithScore(t, 72, "mid scorer")
	f.analyzeWithScore(t, 90, "high scorer")

	rec := f.do(t, http.MethodGet, "/analyses?min_score=70", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data common.Page[dto.Analysis] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 2)
	for _, item := range envelope.Data.Items {
		assert.GreaterOrEqual(t, item.Score, 70)
	}
}

func TestListAnalysesMinScoreRejectsBadValues(t *testing.T) {
	f := newAnalysisHandlerFixture(t)
	f.analyzeWithScore(t, 72, "only one")

	rec := f.do(t, http.MethodGet, "/analyses?min_score=high", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/analyses?min_score=150", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRescoreAnalysisEndpoint(t *testing.T) {
	f := newAnalysisHandlerFixture(t)
	id := f.analyzeWithScore(t, 72, "first pass")

	f.analyzer.result = ports.AnalysisResult{RawScore: 91}
	rec := f.do(t, http.MethodPost, "/analyses/"+id+"/rescore", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data dto.Analysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, id, envelope.Data.ID)
	assert.Equal(t, 91, envelope.Data.Score)
}

func TestRescoreAnalysisEndpointRejectsBadIDs(t *testing.T) {
	f := newAnalysisHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/analyses/not-a-uuid/rescore", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/analyses/"+valueobjects.NewAnalysisID().String()+"/rescore", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
