package memory

import (
	"context"
	"sort"
	"strings"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// IdeaRepository implements ports.IdeaRepository against the in-memory store
type IdeaRepository struct {
	store *Store
}

// NewIdeaRepository creates a new in-memory IdeaRepository
func NewIdeaRepository(store *Store) *IdeaRepository {
	return &IdeaRepository{store: store}
}

// Save persists a new idea
func (r *IdeaRepository) Save(ctx context.Context, idea *entities.Idea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.IdeaToRecord(idea)
	if !r.store.putIfAbsent(rec.PK, rec.SK, rec) {
		return pkgerrors.NewConflictError("idea already exists").
			WithDetail("idea_id", idea.ID().String())
	}
	return nil
}

// FindByID retrieves an idea scoped to its owner
func (r *IdeaRepository) FindByID(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (*entities.Idea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	value, ok := r.store.get(record.UserPK(owner), record.IdeaSK(id))
	if !ok {
		return nil, pkgerrors.NewNotFoundError("idea")
	}
	return record.IdeaFromRecord(value.(*record.IdeaRecord))
}

// FindByUser retrieves a page of the owner's ideas, newest first
func (r *IdeaRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.IdeaFilter, params common.PaginationParams) (common.Page[*entities.Idea], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.Idea]{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.UserPK(owner), record.IdeaSKPrefix())
	recs := make([]*record.IdeaRecord, 0, len(values))
	for _, v := range values {
		recs = append(recs, v.(*record.IdeaRecord))
	}

	ideas, err := record.IdeasFromRecords(recs)
	if err != nil {
		return common.Page[*entities.Idea]{}, err
	}

	filtered := make([]*entities.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if matchesIdeaFilter(idea, filter) {
			filtered = append(filtered, idea)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt().After(filtered[j].CreatedAt())
	})

	return common.SlicePage(filtered, params), nil
}

// Update persists changes to an existing idea
func (r *IdeaRepository) Update(ctx context.Context, idea *entities.Idea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing := r.lookupByIdeaID(idea.ID())
	if existing == nil {
		return pkgerrors.NewNotFoundError("idea")
	}
	if existing.UserID != idea.UserID().String() {
		return pkgerrors.NewUnauthorizedError("idea belongs to another user")
	}

	rec := record.IdeaToRecord(idea)
	rec.CreatedAt = existing.CreatedAt
	r.store.put(rec.PK, rec.SK, rec)
	return nil
}

// Delete removes an idea and every document scoped to it. Idempotent for an
// absent idea.
func (r *IdeaRepository) Delete(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing := r.lookupByIdeaID(id)
	if existing == nil {
		return 0, nil
	}
	if existing.UserID != owner.String() {
		return 0, pkgerrors.NewUnauthorizedError("idea belongs to another user")
	}

	docs := r.store.queryPrefix(record.DocumentPK(id), record.DocumentSKAllPrefix())
	for _, v := range docs {
		rec := v.(*record.DocumentRecord)
		r.store.delete(rec.PK, rec.SK)
	}
	r.store.delete(record.UserPK(owner), record.IdeaSK(id))

	return len(docs), nil
}

// BulkSave persists multiple ideas atomically: validation runs before any
// write so one duplicate fails the whole batch
func (r *IdeaRepository) BulkSave(ctx context.Context, ideas []*entities.Idea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recs := make([]*record.IdeaRecord, 0, len(ideas))
	for _, idea := range ideas {
		rec := record.IdeaToRecord(idea)
		if _, exists := r.store.get(rec.PK, rec.SK); exists {
			return pkgerrors.NewConflictError("one or more ideas already exist").
				WithDetail("idea_id", idea.ID().String())
		}
		recs = append(recs, rec)
	}
	for _, rec := range recs {
		r.store.put(rec.PK, rec.SK, rec)
	}
	return nil
}

// BulkDelete removes multiple ideas and their documents. Ownership of every
// present idea is checked before anything is removed, so one foreign idea
// fails the whole batch. Absent ideas are skipped.
func (r *IdeaRepository) BulkDelete(ctx context.Context, ids []valueobjects.IdeaID, owner valueobjects.UserID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range ids {
		if existing := r.lookupByIdeaID(id); existing != nil && existing.UserID != owner.String() {
			return 0, pkgerrors.NewUnauthorizedError("idea belongs to another user").
				WithDetail("idea_id", id.String())
		}
	}

	removed := 0
	for _, id := range ids {
		if r.lookupByIdeaID(id) == nil {
			continue
		}
		docs := r.store.queryPrefix(record.DocumentPK(id), record.DocumentSKAllPrefix())
		for _, v := range docs {
			rec := v.(*record.DocumentRecord)
			r.store.delete(rec.PK, rec.SK)
		}
		r.store.delete(record.UserPK(owner), record.IdeaSK(id))
		removed += len(docs)
	}
	return removed, nil
}

// Exists reports whether the owner has an idea with this ID
func (r *IdeaRepository) Exists(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.get(record.UserPK(owner), record.IdeaSK(id))
	return ok, nil
}

// CountByUser returns how many ideas the owner has
func (r *IdeaRepository) CountByUser(ctx context.Context, owner valueobjects.UserID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.queryPrefix(record.UserPK(owner), record.IdeaSKPrefix())), nil
}

// lookupByIdeaID finds an idea record across all owners. Caller holds the
// store lock.
func (r *IdeaRepository) lookupByIdeaID(id valueobjects.IdeaID) *record.IdeaRecord {
	sk := record.IdeaSK(id)
	var found *record.IdeaRecord
	r.store.scanPartitions(func(pk string, partition map[string]interface{}) bool {
		if !strings.HasPrefix(pk, "USER#") {
			return true
		}
		if v, ok := partition[sk]; ok {
			found = v.(*record.IdeaRecord)
			return false
		}
		return true
	})
	return found
}

func matchesIdeaFilter(idea *entities.Idea, filter ports.IdeaFilter) bool {
	if filter.Status != nil && idea.Status() != *filter.Status {
		return false
	}
	if filter.Source != nil && idea.Source() != *filter.Source {
		return false
	}
	if filter.Tag != nil {
		found := false
		for _, tag := range idea.Tags() {
			if tag == *filter.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
