package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

func mustUserID(t *testing.T, s string) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID(s)
	require.NoError(t, err)
	return id
}

func TestIdeaRoundTrip(t *testing.T) {
	owner := mustUserID(t, "user-123")
	idea, err := entities.NewIdea(owner, "a marketplace for vintage synths", entities.IdeaSourceManual)
	require.NoError(t, err)
	require.NoError(t, idea.AddTag("music"))
	idea.SetNotes("check competitor pricing")

	rec := IdeaToRecord(idea)
	assert.Equal(t, "USER#user-123", rec.PK)
	assert.Equal(t, "IDEA#"+idea.ID().String(), rec.SK)
	assert.Equal(t, EntityTypeIdea, rec.EntityType)

	got, err := IdeaFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(idea.ID()))
	assert.Equal(t, idea.Text(), got.Text())
	assert.Equal(t, idea.Source(), got.Source())
	assert.Equal(t, idea.Status(), got.Status())
	assert.Equal(t, idea.Notes(), got.Notes())
	assert.Equal(t, idea.Tags(), got.Tags())
}

func TestIdeaFromRecordRejectsWrongEntityType(t *testing.T) {
	owner := mustUserID(t, "user-123")
	idea, err := entities.NewIdea(owner, "some idea", entities.IdeaSourceManual)
	require.NoError(t, err)

	rec := IdeaToRecord(idea)
	rec.EntityType = EntityTypeDocument

	_, err = IdeaFromRecord(rec)
	assert.True(t, pkgerrors.IsCorruptRecord(err))
}

func TestDocumentRoundTrip(t *testing.T) {
	owner := mustUserID(t, "user-123")
	ideaID := valueobjects.NewIdeaID()

	doc, err := entities.NewDocument(ideaID, owner, valueobjects.DocumentTypePRD, "Launch PRD", entities.DocumentContent{
		"sections": []interface{}{"problem", "solution"},
	})
	require.NoError(t, err)

	rec := DocumentToRecord(doc)
	assert.Equal(t, "IDEA#"+ideaID.String(), rec.PK)
	assert.Equal(t, "DOC#prd#v000001", rec.SK)
	assert.Equal(t, 1, rec.Version)

	got, err := DocumentFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(doc.ID()))
	assert.Equal(t, doc.Title(), got.Title())
	assert.True(t, got.Version().Equals(doc.Version()))
	assert.Equal(t, doc.Content(), got.Content())
}

func TestDocumentSortKeyOrdersVersionsLexicographically(t *testing.T) {
	v1, err := valueobjects.NewDocumentVersion(9)
	require.NoError(t, err)
	v2, err := valueobjects.NewDocumentVersion(10)
	require.NoError(t, err)

	sk1 := DocumentSK(valueobjects.DocumentTypeRoadmap, v1)
	sk2 := DocumentSK(valueobjects.DocumentTypeRoadmap, v2)
	assert.Less(t, sk1, sk2)
}

func TestAnalysisRoundTripIdeaVariant(t *testing.T) {
	owner := mustUserID(t, "user-123")
	score, err := valueobjects.NewScore(72)
	require.NoError(t, err)
	feedback := "strong differentiation, weak distribution plan"

	analysis, err := entities.NewIdeaAnalysis(owner, "AI meal planner", score, valueobjects.DefaultLocale(), &feedback, []string{"narrow the ICP"})
	require.NoError(t, err)

	rec := AnalysisToRecord(analysis)
	assert.Equal(t, "idea", rec.Kind)
	assert.Nil(t, rec.Track)
	assert.Equal(t, 72, rec.Score)

	got, err := AnalysisFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, entities.AnalysisKindIdea, got.Kind())
	assert.Equal(t, 72, got.Score().Value())
	gotFeedback, ok := got.Feedback()
	require.True(t, ok)
	assert.Equal(t, feedback, gotFeedback)
	_, hasCategory := got.Category()
	assert.False(t, hasCategory)
}

func TestAnalysisRoundTripHackathonVariant(t *testing.T) {
	owner := mustUserID(t, "user-123")
	score, err := valueobjects.NewScore(88)
	require.NoError(t, err)
	category, err := valueobjects.NewHackathonCategory(valueobjects.TrackAI)
	require.NoError(t, err)

	analysis, err := entities.NewHackathonAnalysis(owner, "realtime sign-language translator", score, valueobjects.DefaultLocale(), nil, nil, category)
	require.NoError(t, err)

	rec := AnalysisToRecord(analysis)
	require.NotNil(t, rec.Track)
	assert.Equal(t, "ai", *rec.Track)

	got, err := AnalysisFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, entities.AnalysisKindHackathon, got.Kind())
	gotCategory, ok := got.Category()
	require.True(t, ok)
	track, isTrack := gotCategory.Track()
	require.True(t, isTrack)
	assert.Equal(t, valueobjects.TrackAI, track)
}

func TestAnalysisFromRecordNormalizesLegacyScores(t *testing.T) {
	tests := []struct {
		name   string
		stored int
		want   int
	}{
		{"legacy zero", 0, 0},
		{"legacy three", 3, 60},
		{"legacy five", 5, 100},
		{"modern boundary", 6, 6},
		{"modern mid", 72, 72},
		{"modern max", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validAnalysisRecord(t)
			rec.Score = tt.stored

			got, err := AnalysisFromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Score().Value())
		})
	}
}

func TestAnalysisRecordCanonicalizesLegacyScoreOnWrite(t *testing.T) {
	owner := mustUserID(t, "user-123")
	score, err := valueobjects.NewScore(3)
	require.NoError(t, err)

	analysis, err := entities.NewIdeaAnalysis(owner, "subject", score, valueobjects.DefaultLocale(), nil, nil)
	require.NoError(t, err)

	// The write already lands on the 0-100 scale, so the first read yields
	// the same value every later cycle will.
	rec := AnalysisToRecord(analysis)
	assert.Equal(t, 60, rec.Score)

	got, err := AnalysisFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Score().Value())

	again, err := AnalysisFromRecord(AnalysisToRecord(got))
	require.NoError(t, err)
	assert.Equal(t, 60, again.Score().Value())
}

func TestAnalysisFromRecordRejectsDiscriminatorMismatch(t *testing.T) {
	t.Run("idea record with track", func(t *testing.T) {
		rec := validAnalysisRecord(t)
		track := "web"
		rec.Track = &track

		_, err := AnalysisFromRecord(rec)
		assert.True(t, pkgerrors.IsCorruptRecord(err))
	})

	t.Run("hackathon record without track", func(t *testing.T) {
		rec := validAnalysisRecord(t)
		rec.Kind = "hackathon"
		rec.Track = nil

		_, err := AnalysisFromRecord(rec)
		assert.True(t, pkgerrors.IsCorruptRecord(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := validAnalysisRecord(t)
		rec.Kind = "pitch"

		_, err := AnalysisFromRecord(rec)
		assert.True(t, pkgerrors.IsCorruptRecord(err))
	})
}

func TestTransactionRoundTrip(t *testing.T) {
	owner := mustUserID(t, "user-123")
	tx, err := entities.NewCreditTransaction(owner, -5, valueobjects.TransactionTypeDeduct, "idea analysis", map[string]string{
		entities.MetadataActionID: "action-42",
	})
	require.NoError(t, err)

	rec := TransactionToRecord(tx)
	assert.Equal(t, "USER#user-123", rec.PK)
	assert.Equal(t, "action-42", rec.ActionID)
	assert.Equal(t, -5, rec.Amount)

	got, err := TransactionFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(tx.ID()))
	assert.Equal(t, tx.Amount(), got.Amount())
	assert.Equal(t, tx.Type(), got.Type())
	assert.Equal(t, "action-42", got.ActionID())
}

func TestTransactionFromRecordRejectsSignMismatch(t *testing.T) {
	owner := mustUserID(t, "user-123")
	tx, err := entities.NewCreditTransaction(owner, -5, valueobjects.TransactionTypeDeduct, "idea analysis", nil)
	require.NoError(t, err)

	rec := TransactionToRecord(tx)
	rec.Amount = 5

	_, err = TransactionFromRecord(rec)
	assert.True(t, pkgerrors.IsCorruptRecord(err))
}

func TestTransactionSortKeysOrderChronologically(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC)

	sk1 := TransactionSK(earlier, valueobjects.NewTransactionID())
	sk2 := TransactionSK(later, valueobjects.NewTransactionID())
	assert.Less(t, sk1, sk2)

	// A whole-second timestamp must still sort before sub-second entries in
	// the same second; a trimmed-nanosecond encoding would invert these.
	wholeSecond := time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC)
	subSecond := time.Date(2026, 3, 1, 10, 0, 1, 500_000_000, time.UTC)
	assert.Less(t,
		TransactionSK(wholeSecond, valueobjects.NewTransactionID()),
		TransactionSK(subSecond, valueobjects.NewTransactionID()),
	)
}

func TestUserRoundTrip(t *testing.T) {
	owner := mustUserID(t, "user-123")
	user, err := entities.NewUser(owner, entities.TierPaid)
	require.NoError(t, err)

	rec := UserToRecord(user)
	assert.Equal(t, "USER#user-123", rec.PK)
	assert.Equal(t, "PROFILE", rec.SK)

	got, err := UserFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(user.ID()))
	assert.Equal(t, entities.TierPaid, got.Tier())
	assert.Equal(t, user.Preferences(), got.Preferences())
}

func TestUserFromRecordDefaultsUnknownLocale(t *testing.T) {
	owner := mustUserID(t, "user-123")
	user, err := entities.NewUser(owner, entities.TierFree)
	require.NoError(t, err)

	rec := UserToRecord(user)
	rec.Locale = "tlh"

	got, err := UserFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.DefaultLocale(), got.Preferences().Locale)
}

func validAnalysisRecord(t *testing.T) *AnalysisRecord {
	t.Helper()
	owner := mustUserID(t, "user-123")
	score, err := valueobjects.NewScore(50)
	require.NoError(t, err)

	analysis, err := entities.NewIdeaAnalysis(owner, "subject", score, valueobjects.DefaultLocale(), nil, nil)
	require.NoError(t, err)
	return AnalysisToRecord(analysis)
}
