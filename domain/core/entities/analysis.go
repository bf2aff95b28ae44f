package entities

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// AnalysisKind discriminates the two analysis variants. It is persisted as
// the record discriminator; the mapping layer rejects records whose kind and
// payload shape disagree.
type AnalysisKind string

const (
	// AnalysisKindIdea is a scored evaluation of a startup idea
	AnalysisKindIdea AnalysisKind = "idea"
	// AnalysisKindHackathon is a scored evaluation of a hackathon project,
	// carrying the competition track it was judged in
	AnalysisKindHackathon AnalysisKind = "hackathon"
)

// Analysis is a scored evaluation produced by the external analyzer. It is a
// single entity type with a closed variant tag rather than two classes: the
// hackathon variant adds a category, the idea variant adds nothing.
// Immutable once created except for re-scoring via Rescore.
type Analysis struct {
	id          valueobjects.AnalysisID
	userID      valueobjects.UserID
	kind        AnalysisKind
	subjectText string
	score       valueobjects.Score
	locale      valueobjects.Locale
	feedback    *string
	suggestions []string
	category    valueobjects.Category // set only for the hackathon variant
	createdAt   time.Time
	updatedAt   time.Time

	events []events.DomainEvent
}

// NewIdeaAnalysis creates an analysis of a startup idea
func NewIdeaAnalysis(
	userID valueobjects.UserID,
	subjectText string,
	score valueobjects.Score,
	locale valueobjects.Locale,
	feedback *string,
	suggestions []string,
) (*Analysis, error) {
	return newAnalysis(userID, AnalysisKindIdea, subjectText, score, locale, feedback, suggestions, valueobjects.Category{})
}

// NewHackathonAnalysis creates an analysis of a hackathon project judged in
// a competition track
func NewHackathonAnalysis(
	userID valueobjects.UserID,
	subjectText string,
	score valueobjects.Score,
	locale valueobjects.Locale,
	feedback *string,
	suggestions []string,
	category valueobjects.Category,
) (*Analysis, error) {
	if category.Kind() != valueobjects.CategoryKindHackathon {
		return nil, pkgerrors.NewInvalidValueError("hackathon analysis requires a hackathon category")
	}
	return newAnalysis(userID, AnalysisKindHackathon, subjectText, score, locale, feedback, suggestions, category)
}

func newAnalysis(
	userID valueobjects.UserID,
	kind AnalysisKind,
	subjectText string,
	score valueobjects.Score,
	locale valueobjects.Locale,
	feedback *string,
	suggestions []string,
	category valueobjects.Category,
) (*Analysis, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if subjectText == "" {
		return nil, pkgerrors.NewInvalidValueError("subject text cannot be empty")
	}
	if locale.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("locale cannot be empty")
	}

	now := time.Now()
	a := &Analysis{
		id:          valueobjects.NewAnalysisID(),
		userID:      userID,
		kind:        kind,
		subjectText: subjectText,
		score:       score,
		locale:      locale,
		feedback:    copyFeedback(feedback),
		suggestions: copyStrings(suggestions),
		category:    category,
		createdAt:   now,
		updatedAt:   now,
		events:      []events.DomainEvent{},
	}

	a.addEvent(events.NewAnalysisCompleted(a.id, userID, string(kind), score, now))

	return a, nil
}

// ReconstructAnalysis rebuilds an analysis from repository data. The variant
// invariant (hackathon implies category, idea implies none) is still
// enforced so a corrupt record cannot become a live entity.
func ReconstructAnalysis(
	id valueobjects.AnalysisID,
	userID valueobjects.UserID,
	kind AnalysisKind,
	subjectText string,
	score valueobjects.Score,
	locale valueobjects.Locale,
	feedback *string,
	suggestions []string,
	category valueobjects.Category,
	createdAt, updatedAt time.Time,
) (*Analysis, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	switch kind {
	case AnalysisKindIdea:
		if !category.IsZero() {
			return nil, pkgerrors.NewInvalidValueError("idea analysis cannot carry a category")
		}
	case AnalysisKindHackathon:
		if category.Kind() != valueobjects.CategoryKindHackathon {
			return nil, pkgerrors.NewInvalidValueError("hackathon analysis requires a hackathon category")
		}
	default:
		return nil, pkgerrors.NewInvalidValueError("unknown analysis kind: " + string(kind))
	}

	return &Analysis{
		id:          id,
		userID:      userID,
		kind:        kind,
		subjectText: subjectText,
		score:       score,
		locale:      locale,
		feedback:    copyFeedback(feedback),
		suggestions: copyStrings(suggestions),
		category:    category,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the analysis's unique identifier
func (a *Analysis) ID() valueobjects.AnalysisID {
	return a.id
}

// UserID returns the owner's ID
func (a *Analysis) UserID() valueobjects.UserID {
	return a.userID
}

// Kind returns the variant tag
func (a *Analysis) Kind() AnalysisKind {
	return a.kind
}

// SubjectText returns the text that was analyzed
func (a *Analysis) SubjectText() string {
	return a.subjectText
}

// Score returns the bounded evaluation score
func (a *Analysis) Score() valueobjects.Score {
	return a.score
}

// Locale returns the locale the analysis was produced in
func (a *Analysis) Locale() valueobjects.Locale {
	return a.locale
}

// Feedback returns the analyzer's narrative feedback and whether it is set
func (a *Analysis) Feedback() (string, bool) {
	if a.feedback == nil {
		return "", false
	}
	return *a.feedback, true
}

// Suggestions returns a copy of the analyzer's improvement suggestions
func (a *Analysis) Suggestions() []string {
	return copyStrings(a.suggestions)
}

// Category returns the competition track and whether this is a hackathon
// analysis. Callers branch on the boolean, never on field presence.
func (a *Analysis) Category() (valueobjects.Category, bool) {
	if a.kind != AnalysisKindHackathon {
		return valueobjects.Category{}, false
	}
	return a.category, true
}

// CreatedAt returns when the analysis was created
func (a *Analysis) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the analysis was last re-scored
func (a *Analysis) UpdatedAt() time.Time {
	return a.updatedAt
}

// Rescore replaces the evaluation wholesale. There is no partial-field
// patch: a re-score always carries a complete new result.
func (a *Analysis) Rescore(score valueobjects.Score, feedback *string, suggestions []string) {
	a.score = score
	a.feedback = copyFeedback(feedback)
	a.suggestions = copyStrings(suggestions)
	a.updatedAt = time.Now()

	a.addEvent(events.NewAnalysisCompleted(a.id, a.userID, string(a.kind), score, a.updatedAt))
}

// GetUncommittedEvents returns all uncommitted domain events
func (a *Analysis) GetUncommittedEvents() []events.DomainEvent {
	return a.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (a *Analysis) MarkEventsAsCommitted() {
	a.events = []events.DomainEvent{}
}

func (a *Analysis) addEvent(event events.DomainEvent) {
	a.events = append(a.events, event)
}

func copyFeedback(feedback *string) *string {
	if feedback == nil {
		return nil
	}
	f := *feedback
	return &f
}

func copyStrings(values []string) []string {
	if values == nil {
		return nil
	}
	copied := make([]string, len(values))
	copy(copied, values)
	return copied
}
