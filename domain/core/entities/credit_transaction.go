package entities

import (
	"time"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// MetadataActionID is the metadata key pairing a deduct with its refund.
// Every deduction for a paid action and the refund compensating its failure
// carry the same action identifier under this key.
const MetadataActionID = "action_id"

// CreditTransaction is an immutable ledger entry. The type has no mutators:
// once recorded, an entry is never updated or deleted, and a user's balance
// is the running sum of their entries' amounts.
type CreditTransaction struct {
	id          valueobjects.TransactionID
	userID      valueobjects.UserID
	amount      int
	txType      valueobjects.TransactionType
	description string
	metadata    map[string]string
	timestamp   time.Time
	createdAt   time.Time

	events []events.DomainEvent
}

// NewCreditTransaction creates a ledger entry, enforcing the sign rule for
// its type: deduct is negative, add and refund positive, admin_adjustment
// any non-zero amount.
func NewCreditTransaction(
	userID valueobjects.UserID,
	amount int,
	txType valueobjects.TransactionType,
	description string,
	metadata map[string]string,
) (*CreditTransaction, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, pkgerrors.NewInvalidValueError("unknown transaction type: " + txType.String())
	}
	if !txType.AllowsAmount(amount) {
		return nil, pkgerrors.NewInvalidValueError("amount sign not allowed for transaction type").
			WithDetail("type", txType.String()).
			WithDetail("amount", amount)
	}

	now := time.Now()
	tx := &CreditTransaction{
		id:          valueobjects.NewTransactionID(),
		userID:      userID,
		amount:      amount,
		txType:      txType,
		description: description,
		metadata:    copyMetadata(metadata),
		timestamp:   now,
		createdAt:   now,
		events:      []events.DomainEvent{},
	}

	actionID := tx.ActionID()
	switch txType {
	case valueobjects.TransactionTypeDeduct:
		tx.addEvent(events.NewCreditsDeducted(tx.id, userID, amount, actionID, now))
	case valueobjects.TransactionTypeRefund:
		tx.addEvent(events.NewCreditsRefunded(tx.id, userID, amount, actionID, now))
	}

	return tx, nil
}

// ReconstructCreditTransaction rebuilds a ledger entry from repository data
func ReconstructCreditTransaction(
	id valueobjects.TransactionID,
	userID valueobjects.UserID,
	amount int,
	txType valueobjects.TransactionType,
	description string,
	metadata map[string]string,
	timestamp, createdAt time.Time,
) (*CreditTransaction, error) {
	if userID.IsZero() {
		return nil, pkgerrors.NewInvalidValueError("userID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, pkgerrors.NewInvalidValueError("unknown transaction type: " + txType.String())
	}

	return &CreditTransaction{
		id:          id,
		userID:      userID,
		amount:      amount,
		txType:      txType,
		description: description,
		metadata:    copyMetadata(metadata),
		timestamp:   timestamp,
		createdAt:   createdAt,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the transaction's unique identifier
func (t *CreditTransaction) ID() valueobjects.TransactionID {
	return t.id
}

// UserID returns the account the entry belongs to
func (t *CreditTransaction) UserID() valueobjects.UserID {
	return t.userID
}

// Amount returns the signed amount in whole credits
func (t *CreditTransaction) Amount() int {
	return t.amount
}

// Type returns the transaction type
func (t *CreditTransaction) Type() valueobjects.TransactionType {
	return t.txType
}

// Description returns the human-readable reason for the entry
func (t *CreditTransaction) Description() string {
	return t.description
}

// Metadata returns a copy of the entry's opaque key/value metadata
func (t *CreditTransaction) Metadata() map[string]string {
	return copyMetadata(t.metadata)
}

// ActionID returns the logical action this entry belongs to, empty when the
// entry is not tied to a paid action
func (t *CreditTransaction) ActionID() string {
	return t.metadata[MetadataActionID]
}

// Timestamp returns the ledger-ordering timestamp
func (t *CreditTransaction) Timestamp() time.Time {
	return t.timestamp
}

// CreatedAt returns when the entry was written
func (t *CreditTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// GetUncommittedEvents returns all uncommitted domain events
func (t *CreditTransaction) GetUncommittedEvents() []events.DomainEvent {
	return t.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (t *CreditTransaction) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
}

func (t *CreditTransaction) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

func copyMetadata(metadata map[string]string) map[string]string {
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}
