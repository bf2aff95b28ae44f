package entities

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentContent is the opaque structured payload of a document version.
// The domain treats it as a black box; only the generation pipeline
// interprets its shape.
type DocumentContent map[string]interface{}

// Copy returns a shallow copy so callers cannot mutate stored content
func (c DocumentContent) Copy() DocumentContent {
	if c == nil {
		return nil
	}
	copied := make(DocumentContent, len(c))
	for k, v := range c {
		copied[k] = v
	}
	return copied
}

// Document is a single immutable version of a generated artifact scoped to
// one idea. Edits never touch an existing version; they produce a new
// Document with version = latest+1. "Latest" is a query, not a stored flag.
type Document struct {
	id           valueobjects.DocumentID
	ideaID       valueobjects.IdeaID
	userID       valueobjects.UserID
	documentType valueobjects.DocumentType
	title        string
	content      DocumentContent
	version      valueobjects.DocumentVersion
	createdAt    time.Time
	updatedAt    time.Time

	events []events.DomainEvent
}

// NewDocument creates version 1 of a document for an idea
func NewDocument(
	ideaID valueobjects.IdeaID,
	userID valueobjects.UserID,
	documentType valueobjects.DocumentType,
	title string,
	content DocumentContent,
) (*Document, error) {
	if ideaID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("ideaID cannot be empty")
	}
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !documentType.IsValid() {
		return nil, pkgerrors.NewInvalidValueError("unknown document type: " + documentType.String())
	}
	if title == "" {
		return nil, pkgerrors.NewInvalidValueError("document title cannot be empty")
	}

	now := time.Now()
	doc := &Document{
		id:           valueobjects.NewDocumentID(),
		ideaID:       ideaID,
		userID:       userID,
		documentType: documentType,
		title:        title,
		content:      content.Copy(),
		version:      valueobjects.FirstDocumentVersion(),
		createdAt:    now,
		updatedAt:    now,
		events:       []events.DomainEvent{},
	}

	doc.addEvent(events.NewDocumentVersionCreated(doc.id, ideaID, userID, documentType, doc.version, now))

	return doc, nil
}

// NextVersion produces the successor version of this document. Fields the
// caller does not override are carried forward; the receiver is untouched.
func (d *Document) NextVersion(title *string, content DocumentContent) *Document {
	newTitle := d.title
	if title != nil && *title != "" {
		newTitle = *title
	}
	newContent := d.content
	if content != nil {
		newContent = content
	}

	now := time.Now()
	next := &Document{
		id:           valueobjects.NewDocumentID(),
		ideaID:       d.ideaID,
		userID:       d.userID,
		documentType: d.documentType,
		title:        newTitle,
		content:      newContent.Copy(),
		version:      d.version.Next(),
		createdAt:    now,
		updatedAt:    now,
		events:       []events.DomainEvent{},
	}

	next.addEvent(events.NewDocumentVersionCreated(next.id, d.ideaID, d.userID, d.documentType, next.version, now))

	return next
}

// WithVersion returns a copy of the document claiming a specific version
// number. Used when a version conflict forces a retry at latest+1.
func (d *Document) WithVersion(version valueobjects.DocumentVersion) *Document {
	copied := *d
	copied.version = version
	copied.content = d.content.Copy()
	copied.events = []events.DomainEvent{}
	copied.addEvent(events.NewDocumentVersionCreated(copied.id, d.ideaID, d.userID, d.documentType, version, copied.createdAt))
	return &copied
}

// ReconstructDocument rebuilds a document from repository data
func ReconstructDocument(
	id valueobjects.DocumentID,
	ideaID valueobjects.IdeaID,
	userID valueobjects.UserID,
	documentType valueobjects.DocumentType,
	title string,
	content DocumentContent,
	version valueobjects.DocumentVersion,
	createdAt, updatedAt time.Time,
) (*Document, error) {
	if ideaID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("ideaID cannot be empty")
	}
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !documentType.IsValid() {
		return nil, pkgerrors.NewInvalidValueError("unknown document type: " + documentType.String())
	}

	return &Document{
		id:           id,
		ideaID:       ideaID,
		userID:       userID,
		documentType: documentType,
		title:        title,
		content:      content.Copy(),
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		events:       []events.DomainEvent{},
	}, nil
}

// ID returns the document's unique identifier
func (d *Document) ID() valueobjects.DocumentID {
	return d.id
}

// IdeaID returns the owning idea's ID
func (d *Document) IdeaID() valueobjects.IdeaID {
	return d.ideaID
}

// UserID returns the owner's ID
func (d *Document) UserID() valueobjects.UserID {
	return d.userID
}

// Type returns the document type
func (d *Document) Type() valueobjects.DocumentType {
	return d.documentType
}

// Title returns the document title
func (d *Document) Title() string {
	return d.title
}

// Content returns a copy of the document's content payload
func (d *Document) Content() DocumentContent {
	return d.content.Copy()
}

// Version returns the document's version number
func (d *Document) Version() valueobjects.DocumentVersion {
	return d.version
}

// CreatedAt returns when this version was created
func (d *Document) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when this version was last touched
func (d *Document) UpdatedAt() time.Time {
	return d.updatedAt
}

// GetUncommittedEvents returns all uncommitted domain events
func (d *Document) GetUncommittedEvents() []events.DomainEvent {
	return d.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (d *Document) MarkEventsAsCommitted() {
	d.events = []events.DomainEvent{}
}

func (d *Document) addEvent(event events.DomainEvent) {
	d.events = append(d.events, event)
}
