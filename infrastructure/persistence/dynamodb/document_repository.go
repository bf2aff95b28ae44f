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
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentRepository implements ports.DocumentRepository on the single table.
// Document versions are immutable items; the only write is the conditional
// claim of a version slot.
type DocumentRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.DocumentRepository {
	return &DocumentRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// SaveVersion persists one document version. Two writers racing for the same
// version number resolve by condition: the loser gets a retryable conflict
// and re-claims at latest+1.
func (r *DocumentRepository) SaveVersion(ctx context.Context, doc *entities.Document) error {
	av, err := attributevalue.MarshalMap(record.DocumentToRecord(doc))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal document record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("document version already claimed").
				WithDetail("idea_id", doc.IdeaID().String()).
				WithDetail("doc_type", doc.Type().String()).
				WithDetail("version", doc.Version().Value())
		}
		return mapStoreError("document.save_version", err)
	}

	r.logger.Debug("saved document version",
		zap.String("documentID", doc.ID().String()),
		zap.String("ideaID", doc.IdeaID().String()),
		zap.String("docType", doc.Type().String()),
		zap.Int("version", doc.Version().Value()),
	)
	return nil
}

// FindByID retrieves a single version by document ID via GSI1
func (r *DocumentRepository) FindByID(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (*entities.Document, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(record.DocumentGSI1PK(id)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build document lookup expression").WithCause(err)
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
		return nil, mapStoreError("document.find_by_id", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("document")
	}

	var rec record.DocumentRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError(id.String(), "document item failed to unmarshal").WithCause(err)
	}
	if rec.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document")
	}
	return record.DocumentFromRecord(&rec)
}

// FindLatestVersion retrieves the highest version of a document type. The
// zero-padded sort key makes "latest" a reverse query with limit 1.
func (r *DocumentRepository) FindLatestVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) (*entities.Document, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.DocumentPK(ideaID))).
		And(expression.Key("SK").BeginsWith(record.DocumentSKPrefix(docType)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build latest version expression").WithCause(err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, mapStoreError("document.find_latest", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("document")
	}

	var rec record.DocumentRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError("", "document item failed to unmarshal").WithCause(err)
	}
	if rec.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document")
	}
	return record.DocumentFromRecord(&rec)
}

// FindVersion retrieves a specific version of a document type
func (r *DocumentRepository) FindVersion(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, version valueobjects.DocumentVersion, owner valueobjects.UserID) (*entities.Document, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.DocumentPK(ideaID)},
			"SK": &types.AttributeValueMemberS{Value: record.DocumentSK(docType, version)},
		},
	})
	if err != nil {
		return nil, mapStoreError("document.find_version", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("document version")
	}

	var rec record.DocumentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError("", "document item failed to unmarshal").WithCause(err)
	}
	if rec.UserID != owner.String() {
		return nil, pkgerrors.NewNotFoundError("document version")
	}
	return record.DocumentFromRecord(&rec)
}

// FindAllVersions retrieves a document type's whole history, newest first
func (r *DocumentRepository) FindAllVersions(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) ([]*entities.Document, error) {
	recs, err := r.queryDocumentRecords(ctx, ideaID, record.DocumentSKPrefix(docType), false)
	if err != nil {
		return nil, err
	}
	return r.ownedDocuments(recs, owner)
}

// FindByIdea retrieves the latest version of each document type the idea has
func (r *DocumentRepository) FindByIdea(ctx context.Context, ideaID valueobjects.IdeaID, owner valueobjects.UserID) ([]*entities.Document, error) {
	recs, err := r.queryDocumentRecords(ctx, ideaID, record.DocumentSKAllPrefix(), true)
	if err != nil {
		return nil, err
	}

	// Ascending walk: the last version seen per type is the latest
	latest := make(map[string]*record.DocumentRecord)
	order := make([]string, 0)
	for _, rec := range recs {
		if _, seen := latest[rec.DocType]; !seen {
			order = append(order, rec.DocType)
		}
		latest[rec.DocType] = rec
	}

	picked := make([]*record.DocumentRecord, 0, len(order))
	for _, docType := range order {
		picked = append(picked, latest[docType])
	}
	return r.ownedDocuments(picked, owner)
}

func (r *DocumentRepository) queryDocumentRecords(ctx context.Context, ideaID valueobjects.IdeaID, skPrefix string, ascending bool) ([]*record.DocumentRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(record.DocumentPK(ideaID))).
		And(expression.Key("SK").BeginsWith(skPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build document query expression").WithCause(err)
	}

	var recs []*record.DocumentRecord
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
			return nil, mapStoreError("document.query", err)
		}
		for _, item := range out.Items {
			var rec record.DocumentRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, pkgerrors.NewCorruptRecordError("", "document item failed to unmarshal").WithCause(err)
			}
			recs = append(recs, &rec)
		}
	}
	return recs, nil
}

func (r *DocumentRepository) ownedDocuments(recs []*record.DocumentRecord, owner valueobjects.UserID) ([]*entities.Document, error) {
	for _, rec := range recs {
		if rec.UserID != owner.String() {
			return nil, pkgerrors.NewNotFoundError("document")
		}
	}
	return record.DocumentsFromRecords(recs)
}

// Exists reports whether the owner has a document version with this ID. The
// lookup rides the same index as FindByID; only the outcome differs.
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
