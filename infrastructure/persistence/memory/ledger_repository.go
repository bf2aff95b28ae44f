package memory

import (
	"context"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// LedgerRepository implements ports.LedgerRepository against the in-memory
// store. Entries are append-only; Update and Delete refuse every call.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new in-memory LedgerRepository
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Record appends a ledger entry. A refund reserves its action's marker slot
// first; a taken slot means the refund was already recorded.
func (r *LedgerRepository) Record(ctx context.Context, tx *entities.CreditTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.TransactionToRecord(tx)

	if tx.Type() == valueobjects.TransactionTypeRefund {
		if tx.ActionID() == "" {
			return pkgerrors.NewInvalidValueError("refund requires an action ID in metadata")
		}
		marker := record.NewRefundMarker(tx)
		if !r.store.putIfAbsent(marker.PK, marker.SK, marker) {
			return pkgerrors.NewConflictError("refund already recorded for action").
				WithDetail("action_id", tx.ActionID())
		}
	}

	if !r.store.putIfAbsent(rec.PK, rec.SK, rec) {
		return pkgerrors.NewConflictError("ledger entry already recorded").
			WithDetail("transaction_id", tx.ID().String())
	}
	return nil
}

// FindByID retrieves a ledger entry scoped to its owner
func (r *LedgerRepository) FindByID(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) (*entities.CreditTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, v := range r.store.queryPrefix(record.UserPK(owner), record.TransactionSKPrefix()) {
		rec := v.(*record.TransactionRecord)
		if rec.TransactionID == id.String() {
			return record.TransactionFromRecord(rec)
		}
	}
	return nil, pkgerrors.NewNotFoundError("transaction")
}

// FindByUser retrieves a page of the owner's entries, newest first
func (r *LedgerRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.LedgerFilter, params common.PaginationParams) (common.Page[*entities.CreditTransaction], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.CreditTransaction]{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	values := r.store.queryPrefix(record.UserPK(owner), record.TransactionSKPrefix())
	recs := make([]*record.TransactionRecord, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		recs = append(recs, values[i].(*record.TransactionRecord))
	}

	txs, err := record.TransactionsFromRecords(recs)
	if err != nil {
		return common.Page[*entities.CreditTransaction]{}, err
	}

	filtered := make([]*entities.CreditTransaction, 0, len(txs))
	for _, tx := range txs {
		if matchesLedgerFilter(tx, filter) {
			filtered = append(filtered, tx)
		}
	}

	return common.SlicePage(filtered, params), nil
}

// FindByAction retrieves every entry recorded for a logical action
func (r *LedgerRepository) FindByAction(ctx context.Context, owner valueobjects.UserID, actionID string) ([]*entities.CreditTransaction, error) {
	if actionID == "" {
		return nil, pkgerrors.NewInvalidValueError("action ID cannot be empty")
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*record.TransactionRecord, 0)
	for _, v := range r.store.queryPrefix(record.UserPK(owner), record.TransactionSKPrefix()) {
		rec := v.(*record.TransactionRecord)
		if rec.ActionID == actionID {
			matched = append(matched, rec)
		}
	}
	return record.TransactionsFromRecords(matched)
}

// Balance returns the sum of the owner's entry amounts
func (r *LedgerRepository) Balance(ctx context.Context, owner valueobjects.UserID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balance := 0
	for _, v := range r.store.queryPrefix(record.UserPK(owner), record.TransactionSKPrefix()) {
		balance += v.(*record.TransactionRecord).Amount
	}
	return balance, nil
}

// Update always fails: ledger entries are append-only
func (r *LedgerRepository) Update(ctx context.Context, tx *entities.CreditTransaction) error {
	return pkgerrors.NewImmutableRecordError("ledger entry")
}

// Delete always fails: ledger entries are append-only
func (r *LedgerRepository) Delete(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) error {
	return pkgerrors.NewImmutableRecordError("ledger entry")
}

func matchesLedgerFilter(tx *entities.CreditTransaction, filter ports.LedgerFilter) bool {
	if filter.Type != nil && tx.Type() != *filter.Type {
		return false
	}
	if filter.ActionID != nil && tx.ActionID() != *filter.ActionID {
		return false
	}
	return true
}

// Exists reports whether the owner has a ledger entry with this ID
func (r *LedgerRepository) Exists(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) (bool, error) {
	_, err := r.FindByID(ctx, id, owner)
	if pkgerrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
