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

// AnalysisRepository implements ports.AnalysisRepository on the single table
type AnalysisRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAnalysisRepository creates a new AnalysisRepository
func NewAnalysisRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AnalysisRepository {
	return &AnalysisRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a new analysis
func (r *AnalysisRepository) Save(ctx context.Context, analysis *entities.Analysis) error {
	av, err := attributevalue.MarshalMap(record.AnalysisToRecord(analysis))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal analysis record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("analysis already exists").
				WithDetail("analysis_id", analysis.ID().String())
		}
		return mapStoreError("analysis.save", err)
	}

	r.logger.Debug("saved analysis",
		zap.String("analysisID", analysis.ID().String()),
		zap.String("kind", string(analysis.Kind())),
		zap.Int("score", analysis.Score().Value()),
	)
	return nil
}

// FindByID retrieves an analysis scoped to its owner
func (r *AnalysisRepository) FindByID(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (*entities.Analysis, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
			"SK": &types.AttributeValueMemberS{Value: record.AnalysisSK(id)},
		},
	})
	if err != nil {
		return nil, mapStoreError("analysis.find_by_id", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("analysis")
	}

	var rec record.AnalysisRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError(id.String(), "analysis item failed to unmarshal").WithCause(err)
	}
	return record.AnalysisFromRecord(&rec)
}

// FindByUser retrieves a page of the owner's analyses, newest first
func (r *AnalysisRepository) FindByUser(ctx context.Context, owner valueobjects.UserID, filter ports.AnalysisFilter, params common.PaginationParams) (common.Page[*entities.Analysis], error) {
	if err := params.Validate(); err != nil {
		return common.Page[*entities.Analysis]{}, err
	}

	keyCond := expression.Key("PK").Equal(expression.Value(record.UserPK(owner))).
		And(expression.Key("SK").BeginsWith(record.AnalysisSKPrefix()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return common.Page[*entities.Analysis]{}, pkgerrors.NewInternalError("failed to build analysis query expression").WithCause(err)
	}

	var recs []*record.AnalysisRecord
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return common.Page[*entities.Analysis]{}, mapStoreError("analysis.find_by_user", err)
		}
		for _, item := range out.Items {
			var rec record.AnalysisRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return common.Page[*entities.Analysis]{}, pkgerrors.NewCorruptRecordError("", "analysis item failed to unmarshal").WithCause(err)
			}
			recs = append(recs, &rec)
		}
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

// Update persists a re-scored analysis. The write is conditional on the item
// existing so a delete racing an update does not resurrect the record.
func (r *AnalysisRepository) Update(ctx context.Context, analysis *entities.Analysis) error {
	av, err := attributevalue.MarshalMap(record.AnalysisToRecord(analysis))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal analysis record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_exists(PK) AND attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("analysis")
		}
		return mapStoreError("analysis.update", err)
	}
	return nil
}

// Delete removes an analysis. Idempotent: deleting an absent analysis
// succeeds.
func (r *AnalysisRepository) Delete(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
			"SK": &types.AttributeValueMemberS{Value: record.AnalysisSK(id)},
		},
	})
	if err != nil {
		return mapStoreError("analysis.delete", err)
	}
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
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(owner)},
			"SK": &types.AttributeValueMemberS{Value: record.AnalysisSK(id)},
		},
		ProjectionExpression: strPtr("PK"),
	})
	if err != nil {
		return false, mapStoreError("analysis.exists", err)
	}
	return out.Item != nil, nil
}
