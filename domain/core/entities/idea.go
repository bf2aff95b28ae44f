package entities

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// IdeaStatus represents where an idea sits in its lifecycle
type IdeaStatus string

const (
	IdeaStatusIdea       IdeaStatus = "idea"
	IdeaStatusInProgress IdeaStatus = "in_progress"
	IdeaStatusCompleted  IdeaStatus = "completed"
	IdeaStatusArchived   IdeaStatus = "archived"
)

var ideaStatuses = map[IdeaStatus]bool{
	IdeaStatusIdea:       true,
	IdeaStatusInProgress: true,
	IdeaStatusCompleted:  true,
	IdeaStatusArchived:   true,
}

// IdeaSource records how an idea entered the system
type IdeaSource string

const (
	IdeaSourceManual    IdeaSource = "manual"
	IdeaSourceGenerated IdeaSource = "generated"
)

const maxIdeaTags = 20

// Idea is the aggregate root for a user's concept. It owns the lifecycle of
// every Document scoped to it: deleting an idea removes its documents.
type Idea struct {
	id        valueobjects.IdeaID
	userID    valueobjects.UserID
	text      string
	source    IdeaSource
	status    IdeaStatus
	notes     string
	tags      []string
	createdAt time.Time
	updatedAt time.Time

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewIdea creates a new idea with full business rule validation
func NewIdea(userID valueobjects.UserID, text string, source IdeaSource) (*Idea, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if text == "" {
		return nil, pkgerrors.NewInvalidValueError("idea text cannot be empty")
	}
	if source != IdeaSourceManual && source != IdeaSourceGenerated {
		return nil, pkgerrors.NewInvalidValueError("unknown idea source: " + string(source))
	}

	now := time.Now()
	idea := &Idea{
		id:        valueobjects.NewIdeaID(),
		userID:    userID,
		text:      text,
		source:    source,
		status:    IdeaStatusIdea,
		tags:      []string{},
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}

	idea.addEvent(events.NewIdeaCreated(idea.id, userID, string(source), now))

	return idea, nil
}

// ReconstructIdea rebuilds an idea from repository data with preserved timestamps
func ReconstructIdea(
	id valueobjects.IdeaID,
	userID valueobjects.UserID,
	text string,
	source IdeaSource,
	status IdeaStatus,
	notes string,
	tags []string,
	createdAt, updatedAt time.Time,
) (*Idea, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if text == "" {
		return nil, pkgerrors.NewInvalidValueError("idea text cannot be empty")
	}
	if !ideaStatuses[status] {
		return nil, pkgerrors.NewInvalidValueError("unknown idea status: " + string(status))
	}

	copied := make([]string, len(tags))
	copy(copied, tags)

	return &Idea{
		id:        id,
		userID:    userID,
		text:      text,
		source:    source,
		status:    status,
		notes:     notes,
		tags:      copied,
		createdAt: createdAt,
		updatedAt: updatedAt,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the idea's unique identifier
func (i *Idea) ID() valueobjects.IdeaID {
	return i.id
}

// UserID returns the owner's ID
func (i *Idea) UserID() valueobjects.UserID {
	return i.userID
}

// Text returns the submitted idea text
func (i *Idea) Text() string {
	return i.text
}

// Source returns how the idea entered the system
func (i *Idea) Source() IdeaSource {
	return i.source
}

// Status returns the idea's current lifecycle status
func (i *Idea) Status() IdeaStatus {
	return i.status
}

// Notes returns the user's free-form notes
func (i *Idea) Notes() string {
	return i.notes
}

// Tags returns a copy of the idea's tags
func (i *Idea) Tags() []string {
	tags := make([]string, len(i.tags))
	copy(tags, i.tags)
	return tags
}

// CreatedAt returns when the idea was created
func (i *Idea) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns when the idea was last updated
func (i *Idea) UpdatedAt() time.Time {
	return i.updatedAt
}

// UpdateText replaces the idea text with validation
func (i *Idea) UpdateText(text string) error {
	if i.status == IdeaStatusArchived {
		return pkgerrors.NewInvalidValueError("cannot update archived idea")
	}
	if text == "" {
		return pkgerrors.NewInvalidValueError("idea text cannot be empty")
	}
	if text == i.text {
		return nil
	}

	i.text = text
	i.updatedAt = time.Now()
	return nil
}

// ChangeStatus moves the idea to a new lifecycle status
func (i *Idea) ChangeStatus(status IdeaStatus) error {
	if !ideaStatuses[status] {
		return pkgerrors.NewInvalidValueError("unknown idea status: " + string(status))
	}
	if status == i.status {
		return nil
	}

	i.status = status
	i.updatedAt = time.Now()
	return nil
}

// SetNotes replaces the user's notes
func (i *Idea) SetNotes(notes string) {
	if notes == i.notes {
		return
	}
	i.notes = notes
	i.updatedAt = time.Now()
}

// AddTag adds a tag to the idea
func (i *Idea) AddTag(tag string) error {
	if tag == "" {
		return pkgerrors.NewInvalidValueError("tag cannot be empty")
	}
	for _, t := range i.tags {
		if t == tag {
			return nil // Tag already exists
		}
	}
	if len(i.tags) >= maxIdeaTags {
		return pkgerrors.NewInvalidValueError("maximum tags reached").
			WithDetail("limit", maxIdeaTags)
	}

	i.tags = append(i.tags, tag)
	i.updatedAt = time.Now()
	return nil
}

// RemoveTag removes a tag from the idea
func (i *Idea) RemoveTag(tag string) error {
	newTags := []string{}
	found := false

	for _, t := range i.tags {
		if t != tag {
			newTags = append(newTags, t)
		} else {
			found = true
		}
	}

	if !found {
		return pkgerrors.NewNotFoundError("tag")
	}

	i.tags = newTags
	i.updatedAt = time.Now()
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (i *Idea) GetUncommittedEvents() []events.DomainEvent {
	return i.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (i *Idea) MarkEventsAsCommitted() {
	i.events = []events.DomainEvent{}
}

func (i *Idea) addEvent(event events.DomainEvent) {
	i.events = append(i.events, event)
}
