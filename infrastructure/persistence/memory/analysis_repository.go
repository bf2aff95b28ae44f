package memory

import (
	"context"
	"sort"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// AnalysisRepository implements ports.AnalysisRepository against the
// in-memory store
type AnalysisRepository struct {
	store *Store
}

// NewAnalysisRepository creates a new in-memory AnalysisRepository
func NewAnalysisRepository(store *Store) *AnalysisRepository {
	return &AnalysisRepository{store: store}
}

// Save persists a new analysis
func (r *AnalysisRepository) Save(ctx context.Context, analysis *entities.Analysis) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.AnalysisToRecord(analysis)
	if !r.store.putIfAbsent(rec.PK, rec.SK, rec) {
		return pkgerrors.NewConflictError("analysis already exists").
			WithDetail("analysis_id", analysis.ID().String())
	}
	return nil
}

// FindByID retrieves an analysis scoped to its owner
func (r *AnalysisRepository) FindByID(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (*entities.Analysis, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	value, ok := r.store.get(record.UserPK(owner), record.AnalysisSK(id))
	if !ok {
		return nil, pkgerrors.NewNotFoundError("analysis")
	}
	return record.AnalysisFromRecord(value.(*record.AnalysisRecord))
}

// FindByUser retrieves a page of the owner's analyses, newest first
func (r *AnalysisRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.AnalysisFilter, params common.PaginationParams) (common.Page[*entities.Analysis], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.Analysis]{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.UserPK(owner), record.AnalysisSKPrefix())
	recs := make([]*record.AnalysisRecord, 0, len(values))
	for _, v := range values {
		recs = append(recs, v.(*record.AnalysisRecord))
	}

	analyses, err := record.AnalysesFromRecords(recs)
	if err != nil {
		return common.Page[*entities.Analysis]{}, err
	}

	filtered := make([]*entities.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if matchesAnalysisFilter(a, filter) {
			filtered = append(filtered, a)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt().After(filtered[j].CreatedAt())
	})

	return common.SlicePage(filtered, params), nil
}

// Update persists a re-scored analysis
func (r *AnalysisRepository) Update(ctx context.Context, analysis *entities.Analysis) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.AnalysisToRecord(analysis)
	if _, exists := r.store.get(rec.PK, rec.SK); !exists {
		return pkgerrors.NewNotFoundError("analysis")
	}
	r.store.put(rec.PK, rec.SK, rec)
	return nil
}

// Delete removes an analysis. Idempotent.
func (r *AnalysisRepository) Delete(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.delete(record.UserPK(owner), record.AnalysisSK(id))
	return nil
}

func matchesAnalysisFilter(a *entities.Analysis, filter ports.AnalysisFilter) bool {
	if filter.Kind != nil && a.Kind() != *filter.Kind {
		return false
	}
	if filter.MinScore != nil && a.Score().Value() < filter.MinScore.Value() {
		return false
	}
	return true
}

// Exists reports whether the owner has an analysis with this ID
func (r *AnalysisRepository) Exists(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.get(record.UserPK(owner), record.AnalysisSK(id))
	return ok, nil
}
