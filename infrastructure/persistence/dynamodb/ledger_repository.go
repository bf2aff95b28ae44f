package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// LedgerRepository implements ports.LedgerRepository on the single table.
// The ledger is append-only: entries are written once with a not-exists
// condition, and the type deliberately refuses every mutation path.
type LedgerRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.LedgerRepository {
	return &LedgerRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Record appends a ledger entry. Refunds ride in a transaction with a
// per-action marker item so a second refund for the same action loses the
// marker's not-exists condition and surfaces as a conflict.
func (r *LedgerRepository) Record(ctx context.Context, tx *entities.CreditTransaction) error {
	av, err := attributevalue.MarshalMap(record.TransactionToRecord(tx))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal transaction record").WithCause(err)
	}

	if tx.Type() == valueobjects.TransactionTypeRefund {
		if tx.ActionID() == "" {
			return pkgerrors.NewInvalidValueError("refund requires an action ID in metadata")
		}
		return r.recordRefund(ctx, tx, av)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("ledger entry already recorded").
				WithDetail("transaction_id", tx.ID().String())
		}
		return mapStoreError("ledger.record", err)
	}

	r.logger.Debug("recorded ledger entry",
		zap.String("transactionID", tx.ID().String()),
		zap.String("type", tx.Type().String()),
		zap.Int("amount", tx.Amount()),
	)
	return nil
}

func (r *LedgerRepository) recordRefund(ctx context.Context, tx *entities.CreditTransaction, entryItem map[string]types.AttributeValue) error {
	markerItem, err := attributevalue.MarshalMap(record.NewRefundMarker(tx))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal refund marker").WithCause(err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                markerItem,
					ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                entryItem,
					ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("refund already recorded for action").
				WithDetail("action_id", tx.ActionID())
		}
		return mapStoreError("ledger.record_refund", err)
	}

	r.logger.Info("recorded refund",
		zap.String("transactionID", tx.ID().String()),
		zap.String("actionID", tx.ActionID()),
		zap.Int("amount", tx.Amount()),
	)
	return nil
}

// FindByID retrieves a ledger entry scoped to its owner. Entry sort keys
// embed the write timestamp, so lookup by ID filters a partition query.
func (r *LedgerRepository) FindByID(ctx context.Context, id valueobjects.TransactionID, owner valueobjects.UserID) (*entities.CreditTransaction, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.UserPK(owner))).
		And(expression.Key("SK").BeginsWith(record.TransactionSKPrefix()))
	filter := expression.Name("TransactionID").Equal(expression.Value(id.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build ledger lookup expression").WithCause(err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapStoreError("ledger.find_by_id", err)
		}
		if len(out.Items) == 0 {
			continue
		}
		var rec record.TransactionRecord
		if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
			return nil, pkgerrors.NewCorruptRecordError(id.String(), "transaction item failed to unmarshal").WithCause(err)
		}
		return record.TransactionFromRecord(&rec)
	}
	return nil, pkgerrors.NewNotFoundError("transaction")
}

// FindByUser retrieves a page of the owner's entries, newest first
func (r *LedgerRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.LedgerFilter, params common.PaginationParams) (common.Page[*entities.CreditTransaction], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.CreditTransaction]{}, err
	}

	recs, err := r.queryLedger(ctx, owner, false)
	if err != nil {
		return common.Page[*entities.CreditTransaction]{}, err
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

	recs, err := r.queryLedger(ctx, owner, true)
	if err != nil {
		return nil, err
	}

	matched := make([]*record.TransactionRecord, 0)
	for _, rec := range recs {
		if rec.ActionID == actionID {
			matched = append(matched, rec)
		}
	}
	return record.TransactionsFromRecords(matched)
}

// Balance returns the sum of the owner's entry amounts. An empty ledger is a
// zero balance, not an error.
func (r *LedgerRepository) Balance(ctx context.Context, owner valueobjects.UserID) (int, error) {
	recs, err := r.queryLedger(ctx, owner, true)
	if err != nil {
		return 0, err
	}

	balance := 0
	for _, rec := range recs {
		balance += rec.Amount
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

func (r *LedgerRepository) queryLedger(ctx context.Context, owner valueobjects.UserID, ascending bool) ([]*record.TransactionRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.UserPK(owner))).
		And(expression.Key("SK").BeginsWith(record.TransactionSKPrefix()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build ledger query expression").WithCause(err)
	}

	var recs []*record.TransactionRecord
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(ascending),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapStoreError("ledger.query", err)
		}
		for _, item := range out.Items {
			var rec record.TransactionRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, pkgerrors.NewCorruptRecordError("", "transaction item failed to unmarshal").WithCause(err)
			}
			recs = append(recs, &rec)
		}
	}
	return recs, nil
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
