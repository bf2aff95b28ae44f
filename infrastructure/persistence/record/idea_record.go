package record

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// IdeaRecord is the stored shape of an idea item
type IdeaRecord struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	GSI1PK     string    `dynamodbav:"GSI1PK"`
	GSI1SK     string    `dynamodbav:"GSI1SK"`
	EntityType string    `dynamodbav:"EntityType"`
	IdeaID     string    `dynamodbav:"IdeaID"`
	UserID     string    `dynamodbav:"UserID"`
	Text       string    `dynamodbav:"Text"`
	Source     string    `dynamodbav:"Source"`
	Status     string    `dynamodbav:"Status"`
	Notes      string    `dynamodbav:"Notes,omitempty"`
	Tags       []string  `dynamodbav:"Tags,omitempty"`
	CreatedAt  time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt  time.Time `dynamodbav:"UpdatedAt"`
}

// IdeaToRecord maps an idea entity to its stored shape
func IdeaToRecord(idea *entities.Idea) *IdeaRecord {
	return &IdeaRecord{
		PK:         UserPK(idea.UserID()),
		SK:         IdeaSK(idea.ID()),
		GSI1PK:     IdeaGSI1PK(idea.ID()),
		GSI1SK:     UserPK(idea.UserID()),
		EntityType: EntityTypeIdea,
		IdeaID:     idea.ID().String(),
		UserID:     idea.UserID().String(),
		Text:       idea.Text(),
		Source:     string(idea.Source()),
		Status:     string(idea.Status()),
		Notes:      idea.Notes(),
		Tags:       idea.Tags(),
		CreatedAt:  idea.CreatedAt(),
		UpdatedAt:  idea.UpdatedAt(),
	}
}

// IdeaFromRecord rebuilds an idea entity from its stored shape
func IdeaFromRecord(rec *IdeaRecord) (*entities.Idea, error) {
	if rec.EntityType != EntityTypeIdea {
		return nil, pkgerrors.NewCorruptRecordError(rec.IdeaID, "item is not an idea record").
			WithDetail("entity_type", rec.EntityType)
	}

	id, err := valueobjects.NewIdeaIDFromString(rec.IdeaID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.IdeaID, "stored idea ID is invalid").WithCause(err)
	}
	userID, err := valueobjects.NewUserID(rec.UserID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.IdeaID, "stored user ID is invalid").WithCause(err)
	}

	idea, err := entities.ReconstructIdea(
		id,
		userID,
		rec.Text,
		entities.IdeaSource(rec.Source),
		entities.IdeaStatus(rec.Status),
		rec.Notes,
		rec.Tags,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.IdeaID, "stored idea fails validation").WithCause(err)
	}
	return idea, nil
}

// IdeasFromRecords maps a batch, short-circuiting on the first corrupt
// record so callers surface the failing item instead of a partial page
func IdeasFromRecords(recs []*IdeaRecord) ([]*entities.Idea, error) {
	ideas := make([]*entities.Idea, 0, len(recs))
	for _, rec := range recs {
		idea, err := IdeaFromRecord(rec)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}
