package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

func mustUserID(t *testing.T, s string) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID(s)
	require.NoError(t, err)
	return id
}

func mustScore(t *testing.T, value int) valueobjects.Score {
	t.Helper()
	score, err := valueobjects.NewScore(value)
	require.NoError(t, err)
	return score
}

func TestNewIdeaDefaults(t *testing.T) {
	owner := mustUserID(t, "user-1")
	idea, err := NewIdea(owner, "an app that waters plants", IdeaSourceManual)
	require.NoError(t, err)

	assert.Equal(t, IdeaStatusIdea, idea.Status())
	assert.Empty(t, idea.Tags())
	assert.Empty(t, idea.Notes())

	raised := idea.GetUncommittedEvents()
	require.Len(t, raised, 1)
	_, ok := raised[0].(events.IdeaCreated)
	assert.True(t, ok)

	idea.MarkEventsAsCommitted()
	assert.Empty(t, idea.GetUncommittedEvents())
}

func TestNewIdeaValidation(t *testing.T) {
	owner := mustUserID(t, "user-1")

	_, err := NewIdea(valueobjects.UserID{}, "text", IdeaSourceManual)
	assert.True(t, pkgerrors.IsInvalidValue(err))

	_, err = NewIdea(owner, "", IdeaSourceManual)
	assert.True(t, pkgerrors.IsInvalidValue(err))

	_, err = NewIdea(owner, "text", IdeaSource("scraped"))
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestIdeaArchivedBlocksTextEdits(t *testing.T) {
	owner := mustUserID(t, "user-1")
	idea, err := NewIdea(owner, "original", IdeaSourceManual)
	require.NoError(t, err)

	require.NoError(t, idea.ChangeStatus(IdeaStatusArchived))
	err = idea.UpdateText("rewritten")
	assert.True(t, pkgerrors.IsInvalidValue(err))
	assert.Equal(t, "original", idea.Text())

	// Unarchiving makes the idea editable again
	require.NoError(t, idea.ChangeStatus(IdeaStatusInProgress))
	require.NoError(t, idea.UpdateText("rewritten"))
	assert.Equal(t, "rewritten", idea.Text())
}

func TestIdeaTags(t *testing.T) {
	owner := mustUserID(t, "user-1")
	idea, err := NewIdea(owner, "text", IdeaSourceManual)
	require.NoError(t, err)

	require.NoError(t, idea.AddTag("saas"))
	require.NoError(t, idea.AddTag("saas")) // duplicate is a no-op
	assert.Equal(t, []string{"saas"}, idea.Tags())

	err = idea.RemoveTag("missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	require.NoError(t, idea.RemoveTag("saas"))
	assert.Empty(t, idea.Tags())
}

func TestDocumentVersionChain(t *testing.T) {
	owner := mustUserID(t, "user-1")
	ideaID := valueobjects.NewIdeaID()

	v1, err := NewDocument(ideaID, owner, valueobjects.DocumentTypePRD, "PRD", DocumentContent{"summary": "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version().Value())

	v2 := v1.NextVersion(nil, DocumentContent{"summary": "v2"})
	assert.Equal(t, 2, v2.Version().Value())
	assert.Equal(t, "PRD", v2.Title())
	assert.False(t, v2.ID().Equals(v1.ID()))

	// The predecessor is untouched
	assert.Equal(t, "v1", v1.Content()["summary"])
	assert.Equal(t, 1, v1.Version().Value())

	title := "PRD (final)"
	v3 := v2.NextVersion(&title, nil)
	assert.Equal(t, 3, v3.Version().Value())
	assert.Equal(t, "PRD (final)", v3.Title())
	assert.Equal(t, "v2", v3.Content()["summary"]) // carried forward
}

func TestDocumentContentIsCopied(t *testing.T) {
	owner := mustUserID(t, "user-1")
	content := DocumentContent{"a": 1}
	doc, err := NewDocument(valueobjects.NewIdeaID(), owner, valueobjects.DocumentTypeRoadmap, "Roadmap", content)
	require.NoError(t, err)

	content["a"] = 2
	assert.Equal(t, 1, doc.Content()["a"])
}

func TestDocumentWithVersion(t *testing.T) {
	owner := mustUserID(t, "user-1")
	doc, err := NewDocument(valueobjects.NewIdeaID(), owner, valueobjects.DocumentTypePRD, "PRD", DocumentContent{"a": 1})
	require.NoError(t, err)

	claimed, err := valueobjects.NewDocumentVersion(4)
	require.NoError(t, err)
	reclaimed := doc.WithVersion(claimed)
	assert.Equal(t, 4, reclaimed.Version().Value())
	assert.True(t, reclaimed.ID().Equals(doc.ID()))
	assert.Equal(t, 1, doc.Version().Value())
}

func TestAnalysisVariants(t *testing.T) {
	owner := mustUserID(t, "user-1")
	feedback := "solid premise"

	idea, err := NewIdeaAnalysis(owner, "a subscription for socks", mustScore(t, 72), valueobjects.DefaultLocale(), &feedback, []string{"narrow the niche"})
	require.NoError(t, err)
	assert.Equal(t, AnalysisKindIdea, idea.Kind())
	_, ok := idea.Category()
	assert.False(t, ok)

	category, err := valueobjects.NewHackathonCategory(valueobjects.TrackGame)
	require.NoError(t, err)
	hackathon, err := NewHackathonAnalysis(owner, "a roguelike deckbuilder", mustScore(t, 85), valueobjects.DefaultLocale(), nil, nil, category)
	require.NoError(t, err)
	assert.Equal(t, AnalysisKindHackathon, hackathon.Kind())
	got, ok := hackathon.Category()
	require.True(t, ok)
	track, ok := got.Track()
	require.True(t, ok)
	assert.Equal(t, valueobjects.TrackGame, track)
}

func TestHackathonAnalysisRejectsGeneralCategory(t *testing.T) {
	owner := mustUserID(t, "user-1")
	general, err := valueobjects.NewGeneralCategory("misc")
	require.NoError(t, err)

	_, err = NewHackathonAnalysis(owner, "text", mustScore(t, 50), valueobjects.DefaultLocale(), nil, nil, general)
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestCreditTransactionSignEnforcement(t *testing.T) {
	owner := mustUserID(t, "user-1")

	_, err := NewCreditTransaction(owner, 5, valueobjects.TransactionTypeDeduct, "bad deduct", nil)
	assert.True(t, pkgerrors.IsInvalidValue(err))

	_, err = NewCreditTransaction(owner, -5, valueobjects.TransactionTypeRefund, "bad refund", nil)
	assert.True(t, pkgerrors.IsInvalidValue(err))

	tx, err := NewCreditTransaction(owner, -5, valueobjects.TransactionTypeDeduct, "analysis", map[string]string{
		MetadataActionID: "action-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "action-1", tx.ActionID())
	assert.Equal(t, -5, tx.Amount())
}

func TestCreditTransactionMetadataIsCopied(t *testing.T) {
	owner := mustUserID(t, "user-1")
	meta := map[string]string{MetadataActionID: "action-1"}
	tx, err := NewCreditTransaction(owner, -5, valueobjects.TransactionTypeDeduct, "analysis", meta)
	require.NoError(t, err)

	meta[MetadataActionID] = "tampered"
	assert.Equal(t, "action-1", tx.ActionID())

	got := tx.Metadata()
	got[MetadataActionID] = "tampered-again"
	assert.Equal(t, "action-1", tx.ActionID())
}

func TestUserDefaultsAndTier(t *testing.T) {
	id := mustUserID(t, "user-1")
	user, err := NewUser(id, TierFree)
	require.NoError(t, err)

	prefs := user.Preferences()
	assert.Equal(t, "en", prefs.Locale.Code())
	assert.True(t, prefs.EmailNotifications)
	assert.False(t, prefs.AnalysisReminders)
	assert.False(t, user.IsAdmin())

	require.NoError(t, user.ChangeTier(TierAdmin))
	assert.True(t, user.IsAdmin())

	err = user.ChangeTier(UserTier("vip"))
	assert.True(t, pkgerrors.IsInvalidValue(err))

	raised := user.GetUncommittedEvents()
	require.Len(t, raised, 1)
	assert.Equal(t, "user.registered", raised[0].GetEventType())
}

func TestUserPreferencesLocaleDefaulted(t *testing.T) {
	id := mustUserID(t, "user-1")
	user, err := NewUser(id, TierPaid)
	require.NoError(t, err)

	user.UpdatePreferences(UserPreferences{EmailNotifications: false, AnalysisReminders: true})
	prefs := user.Preferences()
	assert.Equal(t, "en", prefs.Locale.Code())
	assert.False(t, prefs.EmailNotifications)
	assert.True(t, prefs.AnalysisReminders)
}
