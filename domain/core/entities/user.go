package entities

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// UserTier represents the account's subscription level
type UserTier string

const (
	TierFree  UserTier = "free"
	TierPaid  UserTier = "paid"
	TierAdmin UserTier = "admin"
)

var userTiers = map[UserTier]bool{
	TierFree:  true,
	TierPaid:  true,
	TierAdmin: true,
}

// UserPreferences holds per-user defaults. All fields have sane zero-state
// defaults so preferences are never required at account creation.
type UserPreferences struct {
	Locale             valueobjects.Locale
	EmailNotifications bool
	AnalysisReminders  bool
}

// DefaultPreferences returns the preferences a fresh account starts with
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Locale:             valueobjects.DefaultLocale(),
		EmailNotifications: true,
		AnalysisReminders:  false,
	}
}

// User is an account with a tier and derived preferences
type User struct {
	id          valueobjects.UserID
	tier        UserTier
	preferences UserPreferences
	createdAt   time.Time
	events      []events.DomainEvent
}

// NewUser creates a user account with default preferences
func NewUser(id valueobjects.UserID, tier UserTier) (*User, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !userTiers[tier] {
		return nil, pkgerrors.NewInvalidValueError("unknown user tier: " + string(tier))
	}

	user := &User{
		id:          id,
		tier:        tier,
		preferences: DefaultPreferences(),
		createdAt:   time.Now(),
	}
	user.events = append(user.events, events.NewUserRegistered(id, string(tier), user.createdAt))
	return user, nil
}

// ReconstructUser rebuilds a user from repository data
func ReconstructUser(id valueobjects.UserID, tier UserTier, preferences UserPreferences, createdAt time.Time) (*User, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !userTiers[tier] {
		return nil, pkgerrors.NewInvalidValueError("unknown user tier: " + string(tier))
	}
	if preferences.Locale.IsZero() {
		preferences.Locale = valueobjects.DefaultLocale()
	}

	return &User{
		id:          id,
		tier:        tier,
		preferences: preferences,
		createdAt:   createdAt,
	}, nil
}

// ID returns the account identifier
func (u *User) ID() valueobjects.UserID {
	return u.id
}

// Tier returns the account's subscription level
func (u *User) Tier() UserTier {
	return u.tier
}

// Preferences returns the user's preferences
func (u *User) Preferences() UserPreferences {
	return u.preferences
}

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// ChangeTier moves the account to a new tier
func (u *User) ChangeTier(tier UserTier) error {
	if !userTiers[tier] {
		return pkgerrors.NewInvalidValueError("unknown user tier: " + string(tier))
	}
	u.tier = tier
	return nil
}

// UpdatePreferences replaces the user's preferences
func (u *User) UpdatePreferences(preferences UserPreferences) {
	if preferences.Locale.IsZero() {
		preferences.Locale = valueobjects.DefaultLocale()
	}
	u.preferences = preferences
}

// IsAdmin reports whether the account may perform admin adjustments
func (u *User) IsAdmin() bool {
	return u.tier == TierAdmin
}

// GetUncommittedEvents returns events raised since the last commit
func (u *User) GetUncommittedEvents() []events.DomainEvent {
	return u.events
}

// MarkEventsAsCommitted clears the uncommitted event list
func (u *User) MarkEventsAsCommitted() {
	u.events = nil
}
