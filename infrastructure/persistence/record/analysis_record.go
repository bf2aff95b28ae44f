package record

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// AnalysisRecord is the stored shape of an analysis item. Kind is the
// persisted discriminator; mapping back rejects any record whose kind and
// payload disagree rather than guessing.
type AnalysisRecord struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	EntityType  string    `dynamodbav:"EntityType"`
	AnalysisID  string    `dynamodbav:"AnalysisID"`
	UserID      string    `dynamodbav:"UserID"`
	Kind        string    `dynamodbav:"Kind"`
	SubjectText string    `dynamodbav:"SubjectText"`
	Score       int       `dynamodbav:"Score"`
	Locale      string    `dynamodbav:"Locale"`
	Feedback    *string   `dynamodbav:"Feedback,omitempty"`
	Suggestions []string  `dynamodbav:"Suggestions,omitempty"`
	Track       *string   `dynamodbav:"Track,omitempty"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
}

// AnalysisToRecord maps an analysis entity to its stored shape. The score is
// canonicalized on write, so stored items only ever carry 0-100 values and a
// read never rescales what a prior write produced.
func AnalysisToRecord(a *entities.Analysis) *AnalysisRecord {
	rec := &AnalysisRecord{
		PK:          UserPK(a.UserID()),
		SK:          AnalysisSK(a.ID()),
		EntityType:  EntityTypeAnalysis,
		AnalysisID:  a.ID().String(),
		UserID:      a.UserID().String(),
		Kind:        string(a.Kind()),
		SubjectText: a.SubjectText(),
		Score:       a.Score().Canonical().Value(),
		Locale:      a.Locale().Code(),
		Suggestions: a.Suggestions(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
	if feedback, ok := a.Feedback(); ok {
		rec.Feedback = &feedback
	}
	if category, ok := a.Category(); ok {
		if track, isTrack := category.Track(); isTrack {
			t := string(track)
			rec.Track = &t
		}
	}
	return rec
}

// AnalysisFromRecord rebuilds an analysis from its stored shape. Score
// normalization runs here so legacy 0-5 records surface on the 0-100 scale.
func AnalysisFromRecord(rec *AnalysisRecord) (*entities.Analysis, error) {
	if rec.EntityType != EntityTypeAnalysis {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "item is not an analysis record").
			WithDetail("entity_type", rec.EntityType)
	}

	id, err := valueobjects.NewAnalysisIDFromString(rec.AnalysisID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored analysis ID is invalid").WithCause(err)
	}
	userID, err := valueobjects.NewUserID(rec.UserID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored user ID is invalid").WithCause(err)
	}
	score, err := valueobjects.NormalizeScore(rec.Score)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored score is out of range").WithCause(err)
	}
	locale, err := valueobjects.NewLocale(rec.Locale)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored locale is unsupported").WithCause(err)
	}

	kind := entities.AnalysisKind(rec.Kind)
	var category valueobjects.Category
	switch kind {
	case entities.AnalysisKindIdea:
		if rec.Track != nil {
			return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "idea analysis record carries a hackathon track").
				WithDetail("track", *rec.Track)
		}
	case entities.AnalysisKindHackathon:
		if rec.Track == nil {
			return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "hackathon analysis record is missing its track")
		}
		category, err = valueobjects.NewHackathonCategory(valueobjects.HackathonTrack(*rec.Track))
		if err != nil {
			return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored track is not a known hackathon track").WithCause(err)
		}
	default:
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "unknown analysis kind").
			WithDetail("kind", rec.Kind)
	}

	analysis, err := entities.ReconstructAnalysis(
		id,
		userID,
		kind,
		rec.SubjectText,
		score,
		locale,
		rec.Feedback,
		rec.Suggestions,
		category,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.AnalysisID, "stored analysis fails validation").WithCause(err)
	}
	return analysis, nil
}

// AnalysesFromRecords maps a batch, short-circuiting on the first corrupt
// record
func AnalysesFromRecords(recs []*AnalysisRecord) ([]*entities.Analysis, error) {
	analyses := make([]*entities.Analysis, 0, len(recs))
	for _, rec := range recs {
		a, err := AnalysisFromRecord(rec)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}
