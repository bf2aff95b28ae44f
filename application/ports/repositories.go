package ports

import (
	"context"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/pkg/common"
)

// Each aggregate's persistence port is split into a command (write) interface
// and a query (read) interface. Use cases depend on the side they need; one
// implementation typically satisfies both, and the combined interface exists
// for wiring.
//
// Every lookup is ownership-checked: fetching another user's record returns a
// not-found error, never the record, so resource existence does not leak
// across accounts.

// IdeaFilter narrows idea queries. Zero-value fields are ignored.
type IdeaFilter struct {
	Status *entities.IdeaStatus
	Source *entities.IdeaSource
	Tag    *string
}

// IdeaCommandRepository is the write side of idea persistence
type IdeaCommandRepository interface {
	// Save persists a new idea
	Save(ctx context.Context, idea *entities.Idea) error

	// Update persists changes to an existing idea. Updating an idea the
	// caller does not own fails with an unauthorized error.
	Update(ctx context.Context, idea *entities.Idea) error

	// Delete removes an idea and every document scoped to it in one
	// all-or-nothing operation. Returns the number of documents removed.
	// Deleting an already-absent idea succeeds with zero removals.
	Delete(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (int, error)

	// BulkSave persists multiple ideas atomically; one invalid idea fails
	// the whole batch
	BulkSave(ctx context.Context, ideas []*entities.Idea) error

	// BulkDelete removes multiple ideas, cascading each one's documents.
	// Returns the total number of documents removed. A partial failure is
	// reported as an error; callers must not assume surviving ideas were
	// deleted unless re-read.
	BulkDelete(ctx context.Context, ids []valueobjects.IdeaID, owner valueobjects.UserID) (int, error)
}

// IdeaQueryRepository is the read side of idea persistence
type IdeaQueryRepository interface {
	// FindByID retrieves an idea scoped to its owner
	FindByID(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (*entities.Idea, error)

	// FindByUser retrieves a page of the owner's ideas, newest first
	FindByUser(ctx context.Context, owner valueobjects.UserID, filter IdeaFilter, params common.PaginationParams) (common.Page[*entities.Idea], error)

	// Exists reports whether the owner has an idea with this ID
	Exists(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (bool, error)

	// CountByUser returns how many ideas the owner has
	CountByUser(ctx context.Context, owner valueobjects.UserID) (int, error)
}

// IdeaRepository combines both sides for implementations and wiring
type IdeaRepository interface {
	IdeaCommandRepository
	IdeaQueryRepository
}

// DocumentCommandRepository is the write side of versioned document
// persistence. Versions are immutable and contiguous from 1; writing a
// version that already exists fails with a constraint violation so the
// caller can retry at latest+1.
type DocumentCommandRepository interface {
	// SaveVersion persists one document version. The write is conditional
	// on the (idea, type, version) slot being unclaimed.
	SaveVersion(ctx context.Context, doc *entities.Document) error
}

// DocumentQueryRepository is the read side of versioned document persistence
type DocumentQueryRepository interface {
	// FindByID retrieves a single version by its document ID
	FindByID(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (*entities.Document, error)

	// FindLatestVersion retrieves the highest version of a document type
	// for an idea
	FindLatestVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) (*entities.Document, error)

	// FindVersion retrieves a specific version of a document type
	FindVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, version valueobjects.DocumentVersion, owner valueobjects.UserID) (*entities.Document, error)

	// FindAllVersions retrieves every version of a document type for an
	// idea, newest first
	FindAllVersions(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) ([]*entities.Document, error)

	// FindByIdea retrieves the latest version of each document type the
	// idea has
	FindByIdea(ctx context.Context, ideaID valueobjects.IdeaID, owner valueobjects.UserID) ([]*entities.Document, error)

	// Exists reports whether the owner has a document version with this ID
	Exists(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (bool, error)
}

// DocumentRepository combines both sides for implementations and wiring
type DocumentRepository interface {
	DocumentCommandRepository
	DocumentQueryRepository
}

// AnalysisFilter narrows analysis queries. Zero-value fields are ignored.
type AnalysisFilter struct {
	Kind     *entities.AnalysisKind
	MinScore *valueobjects.Score
}

// AnalysisCommandRepository is the write side of analysis persistence
type AnalysisCommandRepository interface {
	// Save persists a new analysis
	Save(ctx context.Context, analysis *entities.Analysis) error

	// Update persists a re-scored analysis
	Update(ctx context.Context, analysis *entities.Analysis) error

	// Delete removes an analysis. Idempotent.
	Delete(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) error
}

// AnalysisQueryRepository is the read side of analysis persistence
type AnalysisQueryRepository interface {
	// FindByID retrieves an analysis scoped to its owner
	FindByID(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (*entities.Analysis, error)

	// FindByUser retrieves a page of the owner's analyses, newest first
	FindByUser(ctx context.Context, owner valueobjects.UserID, filter AnalysisFilter, params common.PaginationParams) (common.Page[*entities.Analysis], error)

	// Exists reports whether the owner has an analysis with this ID
	Exists(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (bool, error)
}

// AnalysisRepository combines both sides for implementations and wiring
type AnalysisRepository interface {
	AnalysisCommandRepository
	AnalysisQueryRepository
}

// LedgerFilter narrows ledger queries. Zero-value fields are ignored.
type LedgerFilter struct {
	Type     *valueobjects.TransactionType
	ActionID *string
}

// LedgerCommandRepository is the write side of the append-only credit
// ledger. Entries are immutable: the port exposes no update or delete, and
// implementations reject mutation of stored entries with an immutable-record
// error.
type LedgerCommandRepository interface {
	// Record appends a ledger entry. Appending a refund whose action ID
	// already has a refund recorded fails with a constraint violation,
	// making refunds idempotent per action.
	Record(ctx context.Context, tx *entities.CreditTransaction) error
}

// LedgerQueryRepository is the read side of the credit ledger
type LedgerQueryRepository interface {
	// FindByID retrieves a ledger entry scoped to its owner
	FindByID(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) (*entities.CreditTransaction, error)

	// FindByUser retrieves a page of the owner's entries, newest first
	FindByUser(ctx context.Context, owner valueobjects.UserID, filter LedgerFilter, params common.PaginationParams) (common.Page[*entities.CreditTransaction], error)

	// FindByAction retrieves every entry recorded for a logical action
	FindByAction(ctx context.Context, owner valueobjects.UserID, actionID string) ([]*entities.CreditTransaction, error)

	// Exists reports whether the owner has a ledger entry with this ID
	Exists(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) (bool, error)

	// Balance returns the sum of the owner's entry amounts
	Balance(ctx context.Context, owner valueobjects.UserID) (int, error)
}

// LedgerRepository combines both sides for implementations and wiring
type LedgerRepository interface {
	LedgerCommandRepository
	LedgerQueryRepository
}

// UserCommandRepository is the write side of account persistence
type UserCommandRepository interface {
	// Save persists a new user account
	Save(ctx context.Context, user *entities.User) error

	// Update persists tier or preference changes
	Update(ctx context.Context, user *entities.User) error
}

// UserQueryRepository is the read side of account persistence
type UserQueryRepository interface {
	// FindByID retrieves a user account
	FindByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error)

	// Exists reports whether an account with this ID has been registered
	Exists(ctx context.Context, id valueobjects.UserID) (bool, error)
}

// UserRepository combines both sides for implementations and wiring
type UserRepository interface {
	UserCommandRepository
	UserQueryRepository
}
