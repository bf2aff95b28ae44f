package record

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// TransactionRecord is the stored shape of one append-only ledger entry.
// The timestamp leads the sort key so a partition query walks the ledger in
// chronological order.
type TransactionRecord struct {
	PK            string            `dynamodbav:"PK"`
	SK            string            `dynamodbav:"SK"`
	EntityType    string            `dynamodbav:"EntityType"`
	TransactionID string            `dynamodbav:"TransactionID"`
	UserID        string            `dynamodbav:"UserID"`
	Amount        int               `dynamodbav:"Amount"`
	TxType        string            `dynamodbav:"TxType"`
	Description   string            `dynamodbav:"Description,omitempty"`
	Metadata      map[string]string `dynamodbav:"Metadata,omitempty"`
	ActionID      string            `dynamodbav:"ActionID,omitempty"`
	Timestamp     time.Time         `dynamodbav:"Timestamp"`
	CreatedAt     time.Time         `dynamodbav:"CreatedAt"`
}

// TransactionToRecord maps a ledger entry to its stored shape
func TransactionToRecord(tx *entities.CreditTransaction) *TransactionRecord {
	return &TransactionRecord{
		PK:            UserPK(tx.UserID()),
		SK:            TransactionSK(tx.Timestamp(), tx.ID()),
		EntityType:    EntityTypeTransaction,
		TransactionID: tx.ID().String(),
		UserID:        tx.UserID().String(),
		Amount:        tx.Amount(),
		TxType:        tx.Type().String(),
		Description:   tx.Description(),
		Metadata:      tx.Metadata(),
		ActionID:      tx.ActionID(),
		Timestamp:     tx.Timestamp(),
		CreatedAt:     tx.CreatedAt(),
	}
}

// TransactionFromRecord rebuilds a ledger entry from its stored shape
func TransactionFromRecord(rec *TransactionRecord) (*entities.CreditTransaction, error) {
	if rec.EntityType != EntityTypeTransaction {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "item is not a transaction record").
			WithDetail("entity_type", rec.EntityType)
	}

	id, err := valueobjects.NewTransactionIDFromString(rec.TransactionID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "stored transaction ID is invalid").WithCause(err)
	}
	userID, err := valueobjects.NewUserID(rec.UserID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "stored user ID is invalid").WithCause(err)
	}
	txType, err := valueobjects.ParseTransactionType(rec.TxType)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "stored transaction type is invalid").WithCause(err)
	}
	if !txType.AllowsAmount(rec.Amount) {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "stored amount sign disagrees with transaction type").
			WithDetail("type", rec.TxType).
			WithDetail("amount", rec.Amount)
	}

	tx, err := entities.ReconstructCreditTransaction(
		id,
		userID,
		rec.Amount,
		txType,
		rec.Description,
		rec.Metadata,
		rec.Timestamp,
		rec.CreatedAt,
	)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.TransactionID, "stored transaction fails validation").WithCause(err)
	}
	return tx, nil
}

// TransactionsFromRecords maps a batch, short-circuiting on the first
// corrupt record
func TransactionsFromRecords(recs []*TransactionRecord) ([]*entities.CreditTransaction, error) {
	txs := make([]*entities.CreditTransaction, 0, len(recs))
	for _, rec := range recs {
		tx, err := TransactionFromRecord(rec)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// RefundMarkerRecord reserves an action ID's refund slot. Its conditional
// write is what makes refunds idempotent per action.
type RefundMarkerRecord struct {
	PK            string    `dynamodbav:"PK"`
	SK            string    `dynamodbav:"SK"`
	EntityType    string    `dynamodbav:"EntityType"`
	ActionID      string    `dynamodbav:"ActionID"`
	TransactionID string    `dynamodbav:"TransactionID"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt"`
}

// NewRefundMarker builds the marker item paired with a refund entry
func NewRefundMarker(tx *entities.CreditTransaction) *RefundMarkerRecord {
	return &RefundMarkerRecord{
		PK:            UserPK(tx.UserID()),
		SK:            RefundMarkerSK(tx.ActionID()),
		EntityType:    EntityTypeTransaction,
		ActionID:      tx.ActionID(),
		TransactionID: tx.ID().String(),
		CreatedAt:     tx.CreatedAt(),
	}
}
