package memory

import (
	"context"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository against the in-memory store
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new in-memory UserRepository
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Save persists a new user account
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.UserToRecord(user)
	if !r.store.putIfAbsent(rec.PK, rec.SK, rec) {
		return pkgerrors.NewConflictError("user already exists").
			WithDetail("user_id", user.ID().String())
	}
	return nil
}

// FindByID retrieves a user account
func (r *UserRepository) FindByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	value, ok := r.store.get(record.UserPK(id), record.UserProfileSK())
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	return record.UserFromRecord(value.(*record.UserRecord))
}

// Update persists tier or preference changes
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := record.UserToRecord(user)
	if _, exists := r.store.get(rec.PK, rec.SK); !exists {
		return pkgerrors.NewNotFoundError("user")
	}
	r.store.put(rec.PK, rec.SK, rec)
	return nil
}

// Exists reports whether an account with this ID has been registered
func (r *UserRepository) Exists(ctx context.Context, id valueobjects.UserID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.get(record.UserPK(id), record.UserProfileSK())
	return ok, nil
}
