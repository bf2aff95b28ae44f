package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

// CategoryKind discriminates the two category variants
type CategoryKind string

const (
	// CategoryKindGeneral is a free-form grouping for regular ideas
	CategoryKindGeneral CategoryKind = "general"
	// CategoryKindHackathon is a fixed competition track
	CategoryKindHackathon CategoryKind = "hackathon"
)

// HackathonTrack is one of the fixed competition tracks
type HackathonTrack string

const (
	TrackWeb          HackathonTrack = "web"
	TrackMobile       HackathonTrack = "mobile"
	TrackAI           HackathonTrack = "ai"
	TrackGame         HackathonTrack = "game"
	TrackSocialImpact HackathonTrack = "social_impact"
	TrackOpen         HackathonTrack = "open"
)

var hackathonTracks = map[HackathonTrack]bool{
	TrackWeb:          true,
	TrackMobile:       true,
	TrackAI:           true,
	TrackGame:         true,
	TrackSocialImpact: true,
	TrackOpen:         true,
}

// Category is a tagged value distinguishing general groupings from hackathon
// competition tracks. Callers branch on Kind, never on raw string comparison.
type Category struct {
	kind  CategoryKind
	value string
}

// NewGeneralCategory creates a general category with a free-form name
func NewGeneralCategory(name string) (Category, error) {
	if name == "" {
		return Category{}, pkgerrors.NewInvalidValueError("category name cannot be empty").
			WithCode("INVALID_CATEGORY")
	}
	return Category{kind: CategoryKindGeneral, value: name}, nil
}

// NewHackathonCategory creates a hackathon category for a fixed track
func NewHackathonCategory(track HackathonTrack) (Category, error) {
	if !hackathonTracks[track] {
		return Category{}, pkgerrors.NewInvalidValueError("unknown hackathon track: " + string(track)).
			WithCode("INVALID_CATEGORY").
			WithDetail("track", string(track))
	}
	return Category{kind: CategoryKindHackathon, value: string(track)}, nil
}

// Kind returns the category's variant tag
func (c Category) Kind() CategoryKind {
	return c.kind
}

// Name returns the category's name (the track name for hackathon categories)
func (c Category) Name() string {
	return c.value
}

// Track returns the hackathon track and whether this is a hackathon category
func (c Category) Track() (HackathonTrack, bool) {
	if c.kind != CategoryKindHackathon {
		return "", false
	}
	return HackathonTrack(c.value), true
}

// Equals checks if two Categories are equal
func (c Category) Equals(other Category) bool {
	return c.kind == other.kind && c.value == other.value
}

// IsZero checks if the Category is the zero value
func (c Category) IsZero() bool {
	return c.kind == "" && c.value == ""
}
