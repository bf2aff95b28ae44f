package memory

import (
	"context"
	"strings"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentRepository implements ports.DocumentRepository against the
// in-memory store
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new in-memory DocumentRepository
func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// SaveVersion persists one document version, failing when its slot is taken
func (r *DocumentRepository) SaveVersion(ctx context.Context, doc *entities.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.DocumentToRecord(doc)
	if !r.store.putIfAbsent(rec.PK, rec.SK, rec) {
		return pkgerrors.NewConflictError("document version already claimed").
			WithDetail("idea_id", doc.IdeaID().String()).
			WithDetail("doc_type", doc.Type().String()).
			WithDetail("version", doc.Version().Value())
	}
	return nil
}

// FindByID retrieves a single version by its document ID
func (r *DocumentRepository) FindByID(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (*entities.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var found *record.DocumentRecord
	r.store.scanPartitions(func(pk string, partition map[string]interface{}) bool {
		if !strings.HasPrefix(pk, "IDEA#") {
			return true
		}
		for _, v := range partition {
			rec, ok := v.(*record.DocumentRecord)
			if ok && rec.DocumentID == id.String() {
				found = rec
				return false
			}
		}
		return true
	})

	if found == nil || found.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document")
	}
	return record.DocumentFromRecord(found)
}

// FindLatestVersion retrieves the highest version of a document type
func (r *DocumentRepository) FindLatestVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) (*entities.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.DocumentPK(ideaID), record.DocumentSKPrefix(docType))
	if len(values) == 0 {
		return nil, pkgerrors.NewNotFoundError("document")
	}

	rec := values[len(values)-1].(*record.DocumentRecord)
	if rec.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document")
	}
	return record.DocumentFromRecord(rec)
}

// FindVersion retrieves a specific version of a document type
func (r *DocumentRepository) FindVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, version valueobjects.DocumentVersion, owner valueobjects.UserID) (*entities.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	value, ok := r.store.get(record.DocumentPK(ideaID), record.DocumentSK(docType, version))
	if !ok {
		return nil, pkgerrors.NewNotFoundError("document version")
	}

	rec := value.(*record.DocumentRecord)
	if rec.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document version")
	}
	return record.DocumentFromRecord(rec)
}

// FindAllVersions retrieves a document type's whole history, newest first
func (r *DocumentRepository) FindAllVersions(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) ([]*entities.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.DocumentPK(ideaID), record.DocumentSKPrefix(docType))
	recs := make([]*record.DocumentRecord, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		rec := values[i].(*record.DocumentRecord)
		if rec.UserID != owner.String() {
			return nil, pkgerrors.NewNotFoundError("document")
		}
		recs = append(recs, rec)
	}
	return record.DocumentsFromRecords(recs)
}

// FindByIdea retrieves the latest version of each document type the idea has
func (r *DocumentRepository) FindByIdea(ctx context.Context, ideaID valueobjects.IdeaID, owner valueobjects.UserID) ([]*entities.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.DocumentPK(ideaID), record.DocumentSKAllPrefix())

	latest := make(map[string]*record.DocumentRecord)
	order := make([]string, 0)
	for _, v := range values {
		rec := v.(*record.DocumentRecord)
		if rec.UserID != owner.String() {
			return nil, pkgerrors.NewNotFoundError("document")
		}
		if _, seen := latest[rec.DocType]; !seen {
			order = append(order, rec.DocType)
		}
		latest[rec.DocType] = rec
	}

	recs := make([]*record.DocumentRecord, 0, len(order))
	for _, docType := range order {
		recs = append(recs, latest[docType])
	}
	return record.DocumentsFromRecords(recs)
}

// Exists reports whether the owner has a document version with this ID
func (r *DocumentRepository) Exists(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (bool, error) {
	_, err := r.FindByID(ctx, id, owner)
	if pkgerrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
