package dynamodb

import (
	"context"
	"sort"

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

// IdeaRepository implements ports.IdeaRepository on the single table
type IdeaRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.IdeaRepository {
	return &IdeaRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a new idea. The write is conditional on the key slot being
// empty so a duplicate ID surfaces as a constraint violation.
func (r *IdeaRepository) Save(ctx context.Context, idea *entities.Idea) error {
	av, err := attributevalue.MarshalMap(record.IdeaToRecord(idea))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal idea record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("idea already exists").
				WithDetail("idea_id", idea.ID().String())
		}
		return mapStoreError("idea.save", err)
	}

	r.logger.Debug("saved idea",
		zap.String("ideaID", idea.ID().String()),
		zap.String("userID", idea.UserID().String()),
	)
	return nil
}

// FindByID retrieves an idea scoped to its owner. A foreign or absent idea
// is indistinguishable to the caller: both are not-found.
func (r *IdeaRepository) FindByID(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (*entities.Idea, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
			"SK": &types.AttributeValueMemberS{Value: record.IdeaSK(id)},
		},
	})
	if err != nil {
		return nil, mapStoreError("idea.find_by_id", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("idea")
	}

	var rec record.IdeaRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError(id.String(), "idea item failed to unmarshal").WithCause(err)
	}
	return record.IdeaFromRecord(&rec)
}

// FindByUser retrieves a page of the owner's ideas, newest first
func (r *IdeaRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.IdeaFilter, params common.PaginationParams) (common.Page[*entities.Idea], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.Idea]{}, err
	}

	recs, err := r.queryIdeaRecords(ctx, owner)
	if err != nil {
		return common.Page[*entities.Idea]{}, err
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

// Update persists changes to an existing idea. A mismatched owner is an
// authorization failure, not a silent upsert.
func (r *IdeaRepository) Update(ctx context.Context, idea *entities.Idea) error {
	existing, err := r.findRecordByIdeaID(ctx, idea.ID())
	if err != nil {
		return err
	}
	if existing == nil {
		return pkgerrors.NewNotFoundError("idea")
	}
	if existing.UserID != idea.UserID().String() {
		return pkgerrors.NewUnauthorizedError("idea belongs to another user")
	}

	rec := record.IdeaToRecord(idea)
	rec.CreatedAt = existing.CreatedAt

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal idea record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_exists(PK) AND attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("idea")
		}
		return mapStoreError("idea.update", err)
	}
	return nil
}

// Delete removes an idea together with every document version scoped to it.
// Deleting an absent idea is a no-op so retries are safe.
func (r *IdeaRepository) Delete(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (int, error) {
	existing, err := r.findRecordByIdeaID(ctx, id)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, nil
	}
	if existing.UserID != owner.String() {
		return 0, pkgerrors.NewUnauthorizedError("idea belongs to another user")
	}

	docKeys, err := r.queryDocumentKeys(ctx, id)
	if err != nil {
		return 0, err
	}

	// The idea item rides in the same transaction as its documents whenever
	// they fit; oversized histories fall back to document-first chunks so a
	// partial failure never strands documents without their idea.
	deletes := make([]types.TransactWriteItem, 0, len(docKeys)+1)
	for _, key := range docKeys {
		deletes = append(deletes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       key,
			},
		})
	}
	deletes = append(deletes, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
				"SK": &types.AttributeValueMemberS{Value: record.IdeaSK(id)},
			},
		},
	})

	for start := 0; start < len(deletes); start += transactWriteLimit {
		end := start + transactWriteLimit
		if end > len(deletes) {
			end = len(deletes)
		}
		_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: deletes[start:end],
		})
		if err != nil {
			return 0, mapStoreError("idea.delete", err)
		}
	}

	r.logger.Info("deleted idea and its documents",
		zap.String("ideaID", id.String()),
		zap.String("userID", owner.String()),
		zap.Int("documentsRemoved", len(docKeys)),
	)
	return len(docKeys), nil
}

// BulkSave persists multiple ideas atomically
func (r *IdeaRepository) BulkSave(ctx context.Context, ideas []*entities.Idea) error {
	if len(ideas) == 0 {
		return nil
	}
	if len(ideas) > transactWriteLimit {
		return pkgerrors.NewInvalidValueError("bulk save exceeds transaction limit").
			WithDetail("limit", transactWriteLimit).
			WithDetail("count", len(ideas))
	}

	items := make([]types.TransactWriteItem, 0, len(ideas))
	for _, idea := range ideas {
		av, err := attributevalue.MarshalMap(record.IdeaToRecord(idea))
		if err != nil {
			return pkgerrors.NewInternalError("failed to marshal idea record").WithCause(err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                av,
				ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}

	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("one or more ideas already exist")
		}
		return mapStoreError("idea.bulk_save", err)
	}
	return nil
}

// BulkDelete removes multiple ideas, cascading each one's documents. Every
// idea is checked for foreign ownership before the first delete, then each
// cascade runs as its own transaction; a mid-batch store failure is reported
// with the documents removed so far.
func (r *IdeaRepository) BulkDelete(ctx context.Context, ids []valueobjects.IdeaID, owner valueobjects.UserID) (int, error) {
	for _, id := range ids {
		existing, err := r.findRecordByIdeaID(ctx, id)
		if err != nil {
			return 0, err
		}
		if existing != nil && existing.UserID != owner.String() {
			return 0, pkgerrors.NewUnauthorizedError("idea belongs to another user").
				WithDetail("idea_id", id.String())
		}
	}

	removed := 0
	for i, id := range ids {
		n, err := r.Delete(ctx, id, owner)
		removed += n
		if err != nil {
			return removed, pkgerrors.Wrapf(err, "bulk delete stopped after %d of %d ideas", i, len(ids))
		}
	}
	return removed, nil
}

// Exists reports whether the owner has an idea with this ID. A projection on
// the key alone keeps this cheaper than a full read.
func (r *IdeaRepository) Exists(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
			"SK": &types.AttributeValueMemberS{Value: record.IdeaSK(id)},
		},
		ProjectionExpression: strPtr("PK"),
	})
	if err != nil {
		return false, mapStoreError("idea.exists", err)
	}
	return out.Item != nil, nil
}

// CountByUser returns how many ideas the owner has
func (r *IdeaRepository) CountByUser(ctx context.Context, owner valueobjects.UserID) (int, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.UserPK(owner))).
		And(expression.Key("SK").BeginsWith(record.IdeaSKPrefix()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, pkgerrors.NewInternalError("failed to build idea count expression").WithCause(err)
	}

	total := 0
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, mapStoreError("idea.count_by_user", err)
		}
		total += int(out.Count)
	}
	return total, nil
}

func (r *IdeaRepository) queryIdeaRecords(ctx context.Context, owner valueobjects.UserID) ([]*record.IdeaRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.UserPK(owner))).
		And(expression.Key("SK").BeginsWith(record.IdeaSKPrefix()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build idea query expression").WithCause(err)
	}

	var recs []*record.IdeaRecord
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapStoreError("idea.find_by_user", err)
		}
		for _, item := range out.Items {
			var rec record.IdeaRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, pkgerrors.NewCorruptRecordError("", "idea item failed to unmarshal").WithCause(err)
			}
			recs = append(recs, &rec)
		}
	}
	return recs, nil
}

// findRecordByIdeaID resolves an idea regardless of owner via GSI1. Used to
// tell "absent" apart from "owned by someone else".
func (r *IdeaRepository) findRecordByIdeaID(ctx context.Context, id valueobjects.IdeaID) (*record.IdeaRecord, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(record.IdeaGSI1PK(id)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build idea lookup expression").WithCause(err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(gsi1IndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, mapStoreError("idea.lookup", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var rec record.IdeaRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError(id.String(), "idea item failed to unmarshal").WithCause(err)
	}
	return &rec, nil
}

func (r *IdeaRepository) queryDocumentKeys(ctx context.Context, ideaID valueobjects.IdeaID) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.DocumentPK(ideaID))).
		And(expression.Key("SK").BeginsWith(record.DocumentSKAllPrefix()))
	proj := expression.NamesList(expression.Name("PK"), expression.Name("SK"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build document key expression").WithCause(err)
	}

	var keys []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapStoreError("idea.delete.list_documents", err)
		}
		for _, item := range out.Items {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": item["PK"],
				"SK": item["SK"],
			})
		}
	}
	return keys, nil
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
