package events

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
)

// SourceBackend identifies this service as the event source on the bus
const SourceBackend = "ideaforge.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Idea Events

// IdeaCreated is raised when a user submits a new idea
type IdeaCreated struct {
	BaseEvent
	IdeaID valueobjects.IdeaID `json:"idea_id"`
	UserID valueobjects.UserID `json:"user_id"`
	Source string              `json:"source"`
}

// NewIdeaCreated creates an IdeaCreated event
func NewIdeaCreated(ideaID valueobjects.IdeaID, userID valueobjects.UserID, source string, timestamp time.Time) IdeaCreated {
	return IdeaCreated{
		BaseEvent: BaseEvent{
			AggregateID: ideaID.String(),
			EventType:   "idea.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		IdeaID: ideaID,
		UserID: userID,
		Source: source,
	}
}

// IdeaDeleted is raised when an idea and its documents are removed
type IdeaDeleted struct {
	BaseEvent
	IdeaID           valueobjects.IdeaID `json:"idea_id"`
	UserID           valueobjects.UserID `json:"user_id"`
	DocumentsRemoved int                 `json:"documents_removed"`
}

// NewIdeaDeleted creates an IdeaDeleted event
func NewIdeaDeleted(ideaID valueobjects.IdeaID, userID valueobjects.UserID, documentsRemoved int, timestamp time.Time) IdeaDeleted {
	return IdeaDeleted{
		BaseEvent: BaseEvent{
			AggregateID: ideaID.String(),
			EventType:   "idea.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		IdeaID:           ideaID,
		UserID:           userID,
		DocumentsRemoved: documentsRemoved,
	}
}

// Document Events

// DocumentVersionCreated is raised for every new document version, including v1
type DocumentVersionCreated struct {
	BaseEvent
	DocumentID   valueobjects.DocumentID   `json:"document_id"`
	IdeaID       valueobjects.IdeaID       `json:"idea_id"`
	UserID       valueobjects.UserID       `json:"user_id"`
	DocumentType valueobjects.DocumentType `json:"document_type"`
	VersionNum   int                       `json:"version_num"`
}

// NewDocumentVersionCreated creates a DocumentVersionCreated event
func NewDocumentVersionCreated(
	documentID valueobjects.DocumentID,
	ideaID valueobjects.IdeaID,
	userID valueobjects.UserID,
	documentType valueobjects.DocumentType,
	version valueobjects.DocumentVersion,
	timestamp time.Time,
) DocumentVersionCreated {
	return DocumentVersionCreated{
		BaseEvent: BaseEvent{
			AggregateID: documentID.String(),
			EventType:   "document.version_created",
			Timestamp:   timestamp,
			Version:     1,
		},
		DocumentID:   documentID,
		IdeaID:       ideaID,
		UserID:       userID,
		DocumentType: documentType,
		VersionNum:   version.Value(),
	}
}

// Analysis Events

// AnalysisCompleted is raised when an analysis is persisted
type AnalysisCompleted struct {
	BaseEvent
	AnalysisID valueobjects.AnalysisID `json:"analysis_id"`
	UserID     valueobjects.UserID     `json:"user_id"`
	Kind       string                  `json:"kind"`
	Score      int                     `json:"score"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event
func NewAnalysisCompleted(analysisID valueobjects.AnalysisID, userID valueobjects.UserID, kind string, score valueobjects.Score, timestamp time.Time) AnalysisCompleted {
	return AnalysisCompleted{
		BaseEvent: BaseEvent{
			AggregateID: analysisID.String(),
			EventType:   "analysis.completed",
			Timestamp:   timestamp,
			Version:     1,
		},
		AnalysisID: analysisID,
		UserID:     userID,
		Kind:       kind,
		Score:      score.Value(),
	}
}

// Credit Events

// CreditsDeducted is raised when a deduction is durably recorded
type CreditsDeducted struct {
	BaseEvent
	TransactionID valueobjects.TransactionID `json:"transaction_id"`
	UserID        valueobjects.UserID        `json:"user_id"`
	Amount        int                        `json:"amount"`
	ActionID      string                     `json:"action_id"`
}

// NewCreditsDeducted creates a CreditsDeducted event
func NewCreditsDeducted(txID valueobjects.TransactionID, userID valueobjects.UserID, amount int, actionID string, timestamp time.Time) CreditsDeducted {
	return CreditsDeducted{
		BaseEvent: BaseEvent{
			AggregateID: txID.String(),
			EventType:   "credits.deducted",
			Timestamp:   timestamp,
			Version:     1,
		},
		TransactionID: txID,
		UserID:        userID,
		Amount:        amount,
		ActionID:      actionID,
	}
}

// CreditsRefunded is raised when a failed action's deduction is compensated
type CreditsRefunded struct {
	BaseEvent
	TransactionID valueobjects.TransactionID `json:"transaction_id"`
	UserID        valueobjects.UserID        `json:"user_id"`
	Amount        int                        `json:"amount"`
	ActionID      string                     `json:"action_id"`
}

// NewCreditsRefunded creates a CreditsRefunded event
func NewCreditsRefunded(txID valueobjects.TransactionID, userID valueobjects.UserID, amount int, actionID string, timestamp time.Time) CreditsRefunded {
	return CreditsRefunded{
		BaseEvent: BaseEvent{
			AggregateID: txID.String(),
			EventType:   "credits.refunded",
			Timestamp:   timestamp,
			Version:     1,
		},
		TransactionID: txID,
		UserID:        userID,
		Amount:        amount,
		ActionID:      actionID,
	}
}

// User Events

// UserRegistered is raised when a new account profile is created
type UserRegistered struct {
	BaseEvent
	UserID valueobjects.UserID `json:"user_id"`
	Tier   string              `json:"tier"`
}

// NewUserRegistered creates a UserRegistered event
func NewUserRegistered(userID valueobjects.UserID, tier string, timestamp time.Time) UserRegistered {
	return UserRegistered{
		BaseEvent: BaseEvent{
			AggregateID: userID.String(),
			EventType:   "user.registered",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		Tier:   tier,
	}
}
