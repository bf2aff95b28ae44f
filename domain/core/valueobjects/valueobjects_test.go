package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "ideaforge-backend/pkg/errors"
)

func TestNewScoreBounds(t *testing.T) {
	for _, value := range []int{0, 1, 50, 100} {
		score, err := NewScore(value)
		require.NoError(t, err)
		assert.Equal(t, value, score.Value())
	}
	for _, value := range []int{-1, 101, 500} {
		_, err := NewScore(value)
		assert.True(t, pkgerrors.IsInvalidValue(err), "value %d", value)
	}
}

func TestNormalizeScore(t *testing.T) {
	// Values on the old 0-5 scale are rescaled; everything else passes
	// through untouched.
	cases := []struct {
		raw  int
		want int
	}{
		{0, 0},
		{3, 60},
		{5, 100},
		{6, 6},
		{72, 72},
		{100, 100},
	}
	for _, tc := range cases {
		score, err := NormalizeScore(tc.raw)
		require.NoError(t, err, "raw %d", tc.raw)
		assert.Equal(t, tc.want, score.Value(), "raw %d", tc.raw)
	}

	_, err := NormalizeScore(-1)
	assert.True(t, pkgerrors.IsInvalidValue(err))
	_, err = NormalizeScore(101)
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestNormalizeScoreIsStableOnReRead(t *testing.T) {
	// Normalizing an already-normalized value must not rescale it again.
	first, err := NormalizeScore(4)
	require.NoError(t, err)
	assert.Equal(t, 80, first.Value())

	again, err := NormalizeScore(first.Value())
	require.NoError(t, err)
	assert.Equal(t, 80, again.Value())
}

func TestLocale(t *testing.T) {
	locale, err := NewLocale("es")
	require.NoError(t, err)
	assert.Equal(t, "es", locale.Code())

	_, err = NewLocale("fr")
	assert.True(t, pkgerrors.IsInvalidValue(err))
	_, err = NewLocale("")
	assert.True(t, pkgerrors.IsInvalidValue(err))

	assert.Equal(t, "en", DefaultLocale().Code())
	assert.True(t, Locale{}.IsZero())
	assert.False(t, DefaultLocale().IsZero())
}

func TestCategoryVariants(t *testing.T) {
	general, err := NewGeneralCategory("fintech")
	require.NoError(t, err)
	assert.Equal(t, CategoryKindGeneral, general.Kind())
	assert.Equal(t, "fintech", general.Name())
	_, ok := general.Track()
	assert.False(t, ok)

	hackathon, err := NewHackathonCategory(TrackAI)
	require.NoError(t, err)
	assert.Equal(t, CategoryKindHackathon, hackathon.Kind())
	track, ok := hackathon.Track()
	require.True(t, ok)
	assert.Equal(t, TrackAI, track)

	_, err = NewGeneralCategory("")
	assert.True(t, pkgerrors.IsInvalidValue(err))
	_, err = NewHackathonCategory("blockchain")
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestTransactionTypeSignRules(t *testing.T) {
	assert.True(t, TransactionTypeDeduct.AllowsAmount(-5))
	assert.False(t, TransactionTypeDeduct.AllowsAmount(5))
	assert.False(t, TransactionTypeDeduct.AllowsAmount(0))

	assert.True(t, TransactionTypeAdd.AllowsAmount(10))
	assert.False(t, TransactionTypeAdd.AllowsAmount(-10))

	assert.True(t, TransactionTypeRefund.AllowsAmount(5))
	assert.False(t, TransactionTypeRefund.AllowsAmount(-5))

	assert.True(t, TransactionTypeAdminAdjustment.AllowsAmount(-3))
	assert.True(t, TransactionTypeAdminAdjustment.AllowsAmount(3))
	assert.False(t, TransactionTypeAdminAdjustment.AllowsAmount(0))
}

func TestParseTransactionType(t *testing.T) {
	parsed, err := ParseTransactionType("refund")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeRefund, parsed)

	_, err = ParseTransactionType("chargeback")
	assert.True(t, pkgerrors.IsInvalidValue(err))
}

func TestDocumentVersion(t *testing.T) {
	first := FirstDocumentVersion()
	assert.Equal(t, 1, first.Value())

	second := first.Next()
	assert.Equal(t, 2, second.Value())
	assert.True(t, first.Before(second))
	assert.False(t, second.Before(first))

	_, err := NewDocumentVersion(0)
	assert.True(t, pkgerrors.IsInvalidValue(err))
	_, err = NewDocumentVersion(-1)
	assert.True(t, pkgerrors.IsInvalidValue(err))

	restored, err := NewDocumentVersion(7)
	require.NoError(t, err)
	assert.Equal(t, 7, restored.Value())
}

func TestParseDocumentType(t *testing.T) {
	parsed, err := ParseDocumentType("technical_design")
	require.NoError(t, err)
	assert.Equal(t, DocumentTypeTechnicalDesign, parsed)
	assert.True(t, parsed.IsValid())

	_, err = ParseDocumentType("pitch_deck")
	assert.True(t, pkgerrors.IsInvalidValue(err))
	assert.False(t, DocumentType("pitch_deck").IsValid())
}

func TestIDParsing(t *testing.T) {
	ideaID := NewIdeaID()
	parsed, err := NewIdeaIDFromString(ideaID.String())
	require.NoError(t, err)
	assert.True(t, ideaID.Equals(parsed))

	_, err = NewIdeaIDFromString("")
	assert.True(t, pkgerrors.IsInvalidValue(err))

	userID, err := NewUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID.String())
	assert.False(t, userID.IsZero())

	_, err = NewUserID("")
	assert.True(t, pkgerrors.IsInvalidValue(err))
}
