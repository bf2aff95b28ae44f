package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	"ideaforge-backend/infrastructure/persistence/memory"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

type fakeAnalyzer struct {
	result *ports.AnalysisResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req ports.AnalysisRequest) (*ports.AnalysisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePublisher struct {
	published []events.DomainEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	f.published = append(f.published, evts...)
	return nil
}

// conflictOnceDocRepo simulates a racer: before the first save goes through,
// a competing document claims the same version slot
type conflictOnceDocRepo struct {
	ports.DocumentRepository
	fired bool
}

func (r *conflictOnceDocRepo) SaveVersion(ctx context.Context, doc *entities.Document) error {
	if !r.fired {
		r.fired = true
		competitor, err := entities.NewDocument(doc.IdeaID(), doc.UserID(), doc.Type(), "racer", nil)
		if err != nil {
			return err
		}
		if err := r.DocumentRepository.SaveVersion(ctx, competitor); err != nil {
			return err
		}
	}
	return r.DocumentRepository.SaveVersion(ctx, doc)
}

type serviceFixture struct {
	store     *memory.Store
	ideas     *IdeaService
	documents *DocumentService
	credits   *CreditService
	analyzer  *fakeAnalyzer
	analyses  *AnalysisService
	publisher *fakePublisher
}

func newServiceFixture() *serviceFixture {
	store := memory.NewStore()
	logger := zap.NewNop()
	publisher := &fakePublisher{}
	analyzer := &fakeAnalyzer{result: &ports.AnalysisResult{RawScore: 72}}

	ideaRepo := memory.NewIdeaRepository(store)
	docRepo := memory.NewDocumentRepository(store)
	analysisRepo := memory.NewAnalysisRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)

	credits := NewCreditService(ledgerRepo, publisher, logger)
	return &serviceFixture{
		store:     store,
		ideas:     NewIdeaService(ideaRepo, publisher, logger),
		documents: NewDocumentService(docRepo, ideaRepo, publisher, logger),
		credits:   credits,
		analyzer:  analyzer,
		analyses:  NewAnalysisService(analysisRepo, credits, analyzer, publisher, logger),
		publisher: publisher,
	}
}

func owner(t *testing.T) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID("user-1")
	require.NoError(t, err)
	return id
}

func TestAnalyzeIdeaDeductsAndPersists(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 20, "signup grant")
	require.NoError(t, err)

	analysis, err := f.analyses.AnalyzeIdea(ctx, user, "robot barista", valueobjects.DefaultLocale())
	require.NoError(t, err)
	assert.Equal(t, 72, analysis.Score().Value())
	assert.Equal(t, entities.AnalysisKindIdea, analysis.Kind())

	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 20-AnalysisCost, balance)

	got, err := f.analyses.GetAnalysis(ctx, analysis.ID(), user)
	require.NoError(t, err)
	assert.Equal(t, analysis.SubjectText(), got.SubjectText())
}

func TestAnalyzeIdeaNormalizesLegacyScaleResult(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)
	f.analyzer.result = &ports.AnalysisResult{RawScore: 4}

	_, err := f.credits.GrantCredits(ctx, user, 10, "grant")
	require.NoError(t, err)

	analysis, err := f.analyses.AnalyzeIdea(ctx, user, "tiny score", valueobjects.DefaultLocale())
	require.NoError(t, err)
	assert.Equal(t, 80, analysis.Score().Value())
}

func TestAnalyzeIdeaRefundsWhenAnalyzerFails(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)
	f.analyzer.err = pkgerrors.NewUnavailableError("analyzer", assert.AnError)

	_, err := f.credits.GrantCredits(ctx, user, 20, "grant")
	require.NoError(t, err)

	_, err = f.analyses.AnalyzeIdea(ctx, user, "doomed idea", valueobjects.DefaultLocale())
	require.Error(t, err)

	// The deduction was compensated: net balance is unchanged
	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 20, balance)

	unmatched, err := f.credits.UnrefundedDeductions(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, unmatched)
}

func TestAnalyzeIdeaRequiresSufficientCredits(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, AnalysisCost-1, "too little")
	require.NoError(t, err)

	_, err = f.analyses.AnalyzeIdea(ctx, user, "expensive idea", valueobjects.DefaultLocale())
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Zero(t, f.analyzer.calls)

	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, AnalysisCost-1, balance)
}

func TestAnalyzeHackathonProjectCarriesTrack(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 10, "grant")
	require.NoError(t, err)

	analysis, err := f.analyses.AnalyzeHackathonProject(ctx, user, "AR campus tour", valueobjects.DefaultLocale(), valueobjects.TrackMobile)
	require.NoError(t, err)

	category, ok := analysis.Category()
	require.True(t, ok)
	track, ok := category.Track()
	require.True(t, ok)
	assert.Equal(t, valueobjects.TrackMobile, track)
}

func TestRescoreAnalysisChargesAndUpdatesInPlace(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 20, "grant")
	require.NoError(t, err)

	analysis, err := f.analyses.AnalyzeIdea(ctx, user, "robot barista", valueobjects.DefaultLocale())
	require.NoError(t, err)

	f.analyzer.result = &ports.AnalysisResult{RawScore: 91}
	rescored, err := f.analyses.RescoreAnalysis(ctx, analysis.ID(), user)
	require.NoError(t, err)
	assert.True(t, rescored.ID().Equals(analysis.ID()))
	assert.Equal(t, 91, rescored.Score().Value())

	// Two paid calls, two deductions
	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 20-2*AnalysisCost, balance)

	got, err := f.analyses.GetAnalysis(ctx, analysis.ID(), user)
	require.NoError(t, err)
	assert.Equal(t, 91, got.Score().Value())
}

func TestRescoreAnalysisRefundsWhenAnalyzerFails(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 20, "grant")
	require.NoError(t, err)

	analysis, err := f.analyses.AnalyzeIdea(ctx, user, "doomed rescore", valueobjects.DefaultLocale())
	require.NoError(t, err)

	f.analyzer.err = pkgerrors.NewUnavailableError("analyzer", assert.AnError)
	_, err = f.analyses.RescoreAnalysis(ctx, analysis.ID(), user)
	require.Error(t, err)

	// The re-score deduction was compensated; only the first call is paid
	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 20-AnalysisCost, balance)

	// The stored evaluation is the original one
	got, err := f.analyses.GetAnalysis(ctx, analysis.ID(), user)
	require.NoError(t, err)
	assert.Equal(t, 72, got.Score().Value())
}

func TestRescoreAnalysisUnknownIDChargesNothing(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 20, "grant")
	require.NoError(t, err)

	_, err = f.analyses.RescoreAnalysis(ctx, valueobjects.NewAnalysisID(), user)
	assert.True(t, pkgerrors.IsNotFound(err))

	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 20, balance)
}

func TestRefundActionIsIdempotent(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	_, err := f.credits.GrantCredits(ctx, user, 10, "grant")
	require.NoError(t, err)
	require.NoError(t, f.credits.DeductForAction(ctx, user, 5, "action-1", "analysis"))

	require.NoError(t, f.credits.RefundAction(ctx, user, "action-1", "failed"))
	err = f.credits.RefundAction(ctx, user, "action-1", "failed again")
	assert.True(t, pkgerrors.IsConflict(err))

	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestAdminAdjustRequiresAdmin(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	regular, err := entities.NewUser(user, entities.TierPaid)
	require.NoError(t, err)
	_, err = f.credits.AdminAdjust(ctx, regular, user, -3, "correction")
	assert.True(t, pkgerrors.IsUnauthorized(err))

	adminID, err := valueobjects.NewUserID("admin-1")
	require.NoError(t, err)
	admin, err := entities.NewUser(adminID, entities.TierAdmin)
	require.NoError(t, err)

	_, err = f.credits.AdminAdjust(ctx, admin, user, -3, "correction")
	require.NoError(t, err)

	balance, err := f.credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, -3, balance)
}

func TestDocumentEditCreatesNextVersion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	idea, err := f.ideas.CreateIdea(ctx, user, "base idea", entities.IdeaSourceManual)
	require.NoError(t, err)

	doc, err := f.documents.CreateDocument(ctx, idea.ID(), user, valueobjects.DocumentTypePRD, "PRD", entities.DocumentContent{"body": "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version().Value())

	edited, err := f.documents.EditDocument(ctx, idea.ID(), user, valueobjects.DocumentTypePRD, nil, entities.DocumentContent{"body": "v2"})
	require.NoError(t, err)
	assert.Equal(t, 2, edited.Version().Value())
	assert.Equal(t, "PRD", edited.Title())

	history, err := f.documents.GetVersionHistory(ctx, idea.ID(), valueobjects.DocumentTypePRD, user)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entities.DocumentContent{"body": "v1"}, history[1].Content())
}

func TestDocumentEditRetriesAfterVersionConflict(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	idea, err := f.ideas.CreateIdea(ctx, user, "racy idea", entities.IdeaSourceManual)
	require.NoError(t, err)

	store := f.store
	realRepo := memory.NewDocumentRepository(store)
	racy := &conflictOnceDocRepo{DocumentRepository: realRepo}
	docs := NewDocumentService(racy, memory.NewIdeaRepository(store), f.publisher, zap.NewNop())

	first, err := docs.CreateDocument(ctx, idea.ID(), user, valueobjects.DocumentTypeRoadmap, "Roadmap", nil)
	require.NoError(t, err)
	assert.True(t, racy.fired)
	assert.Equal(t, 2, first.Version().Value())
}

func TestRestoreVersionCreatesNewLatest(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	idea, err := f.ideas.CreateIdea(ctx, user, "restorable", entities.IdeaSourceManual)
	require.NoError(t, err)

	_, err = f.documents.CreateDocument(ctx, idea.ID(), user, valueobjects.DocumentTypePRD, "PRD", entities.DocumentContent{"body": "original"})
	require.NoError(t, err)
	_, err = f.documents.EditDocument(ctx, idea.ID(), user, valueobjects.DocumentTypePRD, nil, entities.DocumentContent{"body": "edited"})
	require.NoError(t, err)

	restored, err := f.documents.RestoreVersion(ctx, idea.ID(), user, valueobjects.DocumentTypePRD, valueobjects.FirstDocumentVersion())
	require.NoError(t, err)
	assert.Equal(t, 3, restored.Version().Value())
	assert.Equal(t, entities.DocumentContent{"body": "original"}, restored.Content())

	history, err := f.documents.GetVersionHistory(ctx, idea.ID(), valueobjects.DocumentTypePRD, user)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestDeleteIdeaPublishesEventWithDocumentCount(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	idea, err := f.ideas.CreateIdea(ctx, user, "short-lived", entities.IdeaSourceManual)
	require.NoError(t, err)
	_, err = f.documents.CreateDocument(ctx, idea.ID(), user, valueobjects.DocumentTypeAnalysis, "Analysis", nil)
	require.NoError(t, err)

	removed, err := f.ideas.DeleteIdea(ctx, idea.ID(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var deleted *events.IdeaDeleted
	for i := range f.publisher.published {
		if e, ok := f.publisher.published[i].(events.IdeaDeleted); ok {
			deleted = &e
			break
		}
	}
	require.NotNil(t, deleted)
	assert.Equal(t, 1, deleted.DocumentsRemoved)
}

func TestUpdateIdeaAppliesPartialChanges(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	idea, err := f.ideas.CreateIdea(ctx, user, "original text", entities.IdeaSourceManual)
	require.NoError(t, err)

	notes := "remember to validate"
	updated, err := f.ideas.UpdateIdea(ctx, idea.ID(), user, IdeaUpdate{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "original text", updated.Text())
	assert.Equal(t, notes, updated.Notes())

	status := entities.IdeaStatusArchived
	_, err = f.ideas.UpdateIdea(ctx, idea.ID(), user, IdeaUpdate{Status: &status})
	require.NoError(t, err)

	text := "new text"
	_, err = f.ideas.UpdateIdea(ctx, idea.ID(), user, IdeaUpdate{Text: &text})
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestListIdeasPagination(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	user := owner(t)

	for i := 0; i < 7; i++ {
		_, err := f.ideas.CreateIdea(ctx, user, "idea", entities.IdeaSourceManual)
		require.NoError(t, err)
	}

	page, err := f.ideas.ListIdeas(ctx, user, ports.IdeaFilter{}, common.PaginationParams{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}
