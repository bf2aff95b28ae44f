package record

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// UserRecord is the stored shape of a user profile item
type UserRecord struct {
	PK                 string    `dynamodbav:"PK"`
	SK                 string    `dynamodbav:"SK"`
	EntityType         string    `dynamodbav:"EntityType"`
	UserID             string    `dynamodbav:"UserID"`
	Tier               string    `dynamodbav:"Tier"`
	Locale             string    `dynamodbav:"Locale"`
	EmailNotifications bool      `dynamodbav:"EmailNotifications"`
	AnalysisReminders  bool      `dynamodbav:"AnalysisReminders"`
	CreatedAt          time.Time `dynamodbav:"CreatedAt"`
}

// UserToRecord maps a user entity to its stored shape
func UserToRecord(user *entities.User) *UserRecord {
	prefs := user.Preferences()
	return &UserRecord{
		PK:                 UserPK(user.ID()),
		SK:                 UserProfileSK(),
		EntityType:         EntityTypeUser,
		UserID:             user.ID().String(),
		Tier:               string(user.Tier()),
		Locale:             prefs.Locale.Code(),
		EmailNotifications: prefs.EmailNotifications,
		AnalysisReminders:  prefs.AnalysisReminders,
		CreatedAt:          user.CreatedAt(),
	}
}

// UserFromRecord rebuilds a user entity from its stored shape. A missing or
// unknown stored locale falls back to the default instead of failing; the
// profile stays usable while the preference self-heals on next save.
func UserFromRecord(rec *UserRecord) (*entities.User, error) {
	if rec.EntityType != EntityTypeUser {
		return nil, pkgerrors.NewCorruptRecordError(rec.UserID, "item is not a user record").
			WithDetail("entity_type", rec.EntityType)
	}

	id, err := valueobjects.NewUserID(rec.UserID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.UserID, "stored user ID is invalid").WithCause(err)
	}

	locale, err := valueobjects.NewLocale(rec.Locale)
	if err != nil {
		locale = valueobjects.DefaultLocale()
	}

	user, err := entities.ReconstructUser(id, entities.UserTier(rec.Tier), entities.UserPreferences{
		Locale:             locale,
		EmailNotifications: rec.EmailNotifications,
		AnalysisReminders:  rec.AnalysisReminders,
	}, rec.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.UserID, "stored user fails validation").WithCause(err)
	}
	return user, nil
}
