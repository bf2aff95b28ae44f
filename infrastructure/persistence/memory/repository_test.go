package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

type fixture struct {
	store     *Store
	ideas     *IdeaRepository
	documents *DocumentRepository
	analyses  *AnalysisRepository
	ledger    *LedgerRepository
	users     *UserRepository
}

func newFixture() *fixture {
	store := NewStore()
	return &fixture{
		store:     store,
		ideas:     NewIdeaRepository(store),
		documents: NewDocumentRepository(store),
		analyses:  NewAnalysisRepository(store),
		ledger:    NewLedgerRepository(store),
		users:     NewUserRepository(store),
	}
}

func userID(t *testing.T, s string) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID(s)
	require.NoError(t, err)
	return id
}

func newIdea(t *testing.T, owner valueobjects.UserID, text string) *entities.Idea {
	t.Helper()
	idea, err := entities.NewIdea(owner, text, entities.IdeaSourceManual)
	require.NoError(t, err)
	return idea
}

func TestIdeaSaveAndFindByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	idea := newIdea(t, owner, "solar-powered bike lights")
	require.NoError(t, f.ideas.Save(ctx, idea))

	got, err := f.ideas.FindByID(ctx, idea.ID(), owner)
	require.NoError(t, err)
	assert.Equal(t, idea.Text(), got.Text())
}

func TestIdeaOwnershipIsolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := userID(t, "alice")
	bob := userID(t, "bob")

	idea := newIdea(t, alice, "private idea")
	require.NoError(t, f.ideas.Save(ctx, idea))

	// A foreign read is indistinguishable from an absent record
	_, err := f.ideas.FindByID(ctx, idea.ID(), bob)
	assert.True(t, pkgerrors.IsNotFound(err))

	// A foreign mutation is an authorization failure
	_, err = f.ideas.Delete(ctx, idea.ID(), bob)
	assert.True(t, pkgerrors.IsUnauthorized(err))

	// The owner still sees the idea untouched
	_, err = f.ideas.FindByID(ctx, idea.ID(), alice)
	assert.NoError(t, err)
}

func TestIdeaUpdateForeignOwnerUnauthorized(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := userID(t, "alice")
	bob := userID(t, "bob")

	idea := newIdea(t, alice, "original")
	require.NoError(t, f.ideas.Save(ctx, idea))

	impostor, err := entities.ReconstructIdea(
		idea.ID(), bob, "stolen", entities.IdeaSourceManual, entities.IdeaStatusIdea,
		"", nil, idea.CreatedAt(), idea.UpdatedAt(),
	)
	require.NoError(t, err)

	err = f.ideas.Update(ctx, impostor)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestDeleteIdeaCascadesDocuments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	idea := newIdea(t, owner, "meal kit for climbers")
	require.NoError(t, f.ideas.Save(ctx, idea))

	prd, err := entities.NewDocument(idea.ID(), owner, valueobjects.DocumentTypePRD, "PRD", nil)
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, prd))
	require.NoError(t, f.documents.SaveVersion(ctx, prd.NextVersion(nil, nil)))

	roadmap, err := entities.NewDocument(idea.ID(), owner, valueobjects.DocumentTypeRoadmap, "Roadmap", nil)
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, roadmap))

	removed, err := f.ideas.Delete(ctx, idea.ID(), owner)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	_, err = f.ideas.FindByID(ctx, idea.ID(), owner)
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = f.documents.FindLatestVersion(ctx, idea.ID(), valueobjects.DocumentTypePRD, owner)
	assert.True(t, pkgerrors.IsNotFound(err))

	// Second delete is a no-op
	removed, err = f.ideas.Delete(ctx, idea.ID(), owner)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestIdeaExistsIsOwnerScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := userID(t, "alice")
	bob := userID(t, "bob")

	idea := newIdea(t, alice, "pocket greenhouse")
	require.NoError(t, f.ideas.Save(ctx, idea))

	ok, err := f.ideas.Exists(ctx, idea.ID(), alice)
	require.NoError(t, err)
	assert.True(t, ok)

	// A foreign idea reads as absent, same as FindByID
	ok, err = f.ideas.Exists(ctx, idea.ID(), bob)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.ideas.Exists(ctx, valueobjects.NewIdeaID(), alice)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBulkDeleteCascadesAndSkipsAbsent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	first := newIdea(t, owner, "first")
	second := newIdea(t, owner, "second")
	require.NoError(t, f.ideas.Save(ctx, first))
	require.NoError(t, f.ideas.Save(ctx, second))

	doc, err := entities.NewDocument(first.ID(), owner, valueobjects.DocumentTypePRD, "PRD", nil)
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, doc))

	removed, err := f.ideas.BulkDelete(ctx, []valueobjects.IdeaID{first.ID(), second.ID(), valueobjects.NewIdeaID()}, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.ideas.FindByID(ctx, first.ID(), owner)
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = f.ideas.FindByID(ctx, second.ID(), owner)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestBulkDeleteForeignIdeaFailsWholeBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := userID(t, "alice")
	bob := userID(t, "bob")

	mine := newIdea(t, alice, "mine")
	theirs := newIdea(t, bob, "theirs")
	require.NoError(t, f.ideas.Save(ctx, mine))
	require.NoError(t, f.ideas.Save(ctx, theirs))

	_, err := f.ideas.BulkDelete(ctx, []valueobjects.IdeaID{mine.ID(), theirs.ID()}, alice)
	assert.True(t, pkgerrors.IsUnauthorized(err))

	// Nothing was removed, including the caller's own idea
	ok, err := f.ideas.Exists(ctx, mine.ID(), alice)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = f.ideas.FindByID(ctx, theirs.ID(), bob)
	assert.NoError(t, err)
}

func TestDocumentVersionsAreContiguousAndImmutable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")
	ideaID := valueobjects.NewIdeaID()

	doc, err := entities.NewDocument(ideaID, owner, valueobjects.DocumentTypePRD, "PRD", entities.DocumentContent{"v": 1.0})
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, doc))

	v2 := doc.NextVersion(nil, entities.DocumentContent{"v": 2.0})
	require.NoError(t, f.documents.SaveVersion(ctx, v2))

	// Re-claiming a taken slot is a retryable conflict
	err = f.documents.SaveVersion(ctx, doc.NextVersion(nil, nil))
	assert.True(t, pkgerrors.IsConflict(err))
	assert.True(t, pkgerrors.IsRetryable(err))

	versions, err := f.documents.FindAllVersions(ctx, ideaID, valueobjects.DocumentTypePRD, owner)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version().Value())
	assert.Equal(t, 1, versions[1].Version().Value())

	latest, err := f.documents.FindLatestVersion(ctx, ideaID, valueobjects.DocumentTypePRD, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version().Value())
	assert.Equal(t, entities.DocumentContent{"v": 2.0}, latest.Content())

	// The old version is still readable, unchanged
	v1 := valueobjects.FirstDocumentVersion()
	old, err := f.documents.FindVersion(ctx, ideaID, valueobjects.DocumentTypePRD, v1, owner)
	require.NoError(t, err)
	assert.Equal(t, entities.DocumentContent{"v": 1.0}, old.Content())
}

func TestFindByIdeaReturnsLatestPerType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")
	ideaID := valueobjects.NewIdeaID()

	prd, err := entities.NewDocument(ideaID, owner, valueobjects.DocumentTypePRD, "PRD", nil)
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, prd))
	require.NoError(t, f.documents.SaveVersion(ctx, prd.NextVersion(nil, nil)))

	arch, err := entities.NewDocument(ideaID, owner, valueobjects.DocumentTypeArchitecture, "Arch", nil)
	require.NoError(t, err)
	require.NoError(t, f.documents.SaveVersion(ctx, arch))

	docs, err := f.documents.FindByIdea(ctx, ideaID, owner)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byType := map[valueobjects.DocumentType]int{}
	for _, d := range docs {
		byType[d.Type()] = d.Version().Value()
	}
	assert.Equal(t, 2, byType[valueobjects.DocumentTypePRD])
	assert.Equal(t, 1, byType[valueobjects.DocumentTypeArchitecture])
}

func TestLedgerBalanceIsSumOfAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	amounts := []struct {
		amount int
		txType valueobjects.TransactionType
	}{
		{50, valueobjects.TransactionTypeAdd},
		{-5, valueobjects.TransactionTypeDeduct},
		{-10, valueobjects.TransactionTypeDeduct},
		{-3, valueobjects.TransactionTypeAdminAdjustment},
	}
	for _, a := range amounts {
		tx, err := entities.NewCreditTransaction(owner, a.amount, a.txType, "test", nil)
		require.NoError(t, err)
		require.NoError(t, f.ledger.Record(ctx, tx))
	}

	balance, err := f.ledger.Balance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 32, balance)

	// Another user's ledger is untouched
	balance, err = f.ledger.Balance(ctx, userID(t, "bob"))
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedgerIsAppendOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	tx, err := entities.NewCreditTransaction(owner, 10, valueobjects.TransactionTypeAdd, "signup grant", nil)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Record(ctx, tx))

	assert.True(t, pkgerrors.IsImmutableRecord(f.ledger.Update(ctx, tx)))
	assert.True(t, pkgerrors.IsImmutableRecord(f.ledger.Delete(ctx, tx.ID(), owner)))

	got, err := f.ledger.FindByID(ctx, tx.ID(), owner)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Amount())
}

func TestRefundIsIdempotentPerAction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")
	meta := map[string]string{entities.MetadataActionID: "action-7"}

	deduct, err := entities.NewCreditTransaction(owner, -5, valueobjects.TransactionTypeDeduct, "analysis", meta)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Record(ctx, deduct))

	refund, err := entities.NewCreditTransaction(owner, 5, valueobjects.TransactionTypeRefund, "analysis failed", meta)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Record(ctx, refund))

	// A second refund for the same action is rejected
	again, err := entities.NewCreditTransaction(owner, 5, valueobjects.TransactionTypeRefund, "analysis failed", meta)
	require.NoError(t, err)
	err = f.ledger.Record(ctx, again)
	assert.True(t, pkgerrors.IsConflict(err))

	// Net effect of a refunded action is zero
	entries, err := f.ledger.FindByAction(ctx, owner, "action-7")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	balance, err := f.ledger.Balance(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedgerFindByUserNewestFirstPaged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	for i := 0; i < 5; i++ {
		tx, err := entities.NewCreditTransaction(owner, 1, valueobjects.TransactionTypeAdd, "grant", nil)
		require.NoError(t, err)
		require.NoError(t, f.ledger.Record(ctx, tx))
	}

	page, err := f.ledger.FindByUser(ctx, owner, ports.LedgerFilter{}, common.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)

	for i := 1; i < len(page.Items); i++ {
		assert.False(t, page.Items[i-1].Timestamp().Before(page.Items[i].Timestamp()))
	}
}

func TestFindByUserRejectsInvalidPagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	_, err := f.ideas.FindByUser(ctx, owner, ports.IdeaFilter{}, common.PaginationParams{Page: 0, Limit: 10})
	assert.True(t, pkgerrors.IsInvalidValue(err))

	_, err = f.ledger.FindByUser(ctx, owner, ports.LedgerFilter{}, common.PaginationParams{Page: 1, Limit: 0})
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestIdeaFindByUserFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	active := newIdea(t, owner, "active idea")
	require.NoError(t, active.AddTag("fintech"))
	require.NoError(t, f.ideas.Save(ctx, active))

	archived := newIdea(t, owner, "archived idea")
	require.NoError(t, archived.ChangeStatus(entities.IdeaStatusArchived))
	require.NoError(t, f.ideas.Save(ctx, archived))

	status := entities.IdeaStatusArchived
	page, err := f.ideas.FindByUser(ctx, owner, ports.IdeaFilter{Status: &status}, common.DefaultPaginationParams())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "archived idea", page.Items[0].Text())

	tag := "fintech"
	page, err = f.ideas.FindByUser(ctx, owner, ports.IdeaFilter{Tag: &tag}, common.DefaultPaginationParams())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "active idea", page.Items[0].Text())
}

func TestBulkSaveAllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	existing := newIdea(t, owner, "already there")
	require.NoError(t, f.ideas.Save(ctx, existing))

	fresh := newIdea(t, owner, "new one")
	err := f.ideas.BulkSave(ctx, []*entities.Idea{fresh, existing})
	assert.True(t, pkgerrors.IsConflict(err))

	// The fresh idea must not have been written
	_, err = f.ideas.FindByID(ctx, fresh.ID(), owner)
	assert.True(t, pkgerrors.IsNotFound(err))

	count, err := f.ideas.CountByUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalysisLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := userID(t, "alice")

	score, err := valueobjects.NewScore(64)
	require.NoError(t, err)
	analysis, err := entities.NewIdeaAnalysis(owner, "dog-walking marketplace", score, valueobjects.DefaultLocale(), nil, []string{"validate demand"})
	require.NoError(t, err)
	require.NoError(t, f.analyses.Save(ctx, analysis))

	rescored, err := valueobjects.NewScore(80)
	require.NoError(t, err)
	feedback := "improved after pivot"
	analysis.Rescore(rescored, &feedback, nil)
	require.NoError(t, f.analyses.Update(ctx, analysis))

	got, err := f.analyses.FindByID(ctx, analysis.ID(), owner)
	require.NoError(t, err)
	assert.Equal(t, 80, got.Score().Value())
	gotFeedback, ok := got.Feedback()
	require.True(t, ok)
	assert.Equal(t, feedback, gotFeedback)
	assert.Empty(t, got.Suggestions())

	require.NoError(t, f.analyses.Delete(ctx, analysis.ID(), owner))
	_, err = f.analyses.FindByID(ctx, analysis.ID(), owner)
	assert.True(t, pkgerrors.IsNotFound(err))

	// Deleting again is still fine
	assert.NoError(t, f.analyses.Delete(ctx, analysis.ID(), owner))
}

func TestUserLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := userID(t, "alice")

	user, err := entities.NewUser(id, entities.TierFree)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, user))

	err = f.users.Save(ctx, user)
	assert.True(t, pkgerrors.IsConflict(err))

	require.NoError(t, user.ChangeTier(entities.TierPaid))
	locale, err := valueobjects.NewLocale("es")
	require.NoError(t, err)
	user.UpdatePreferences(entities.UserPreferences{Locale: locale, EmailNotifications: false, AnalysisReminders: true})
	require.NoError(t, f.users.Update(ctx, user))

	got, err := f.users.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.TierPaid, got.Tier())
	assert.Equal(t, "es", got.Preferences().Locale.Code())
	assert.True(t, got.Preferences().AnalysisReminders)
}
