package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/infrastructure/persistence/record"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository on the single table
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a new user account
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(record.UserToRecord(user))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal user record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("user already exists").
				WithDetail("user_id", user.ID().String())
		}
		return mapStoreError("user.save", err)
	}

	r.logger.Debug("saved user", zap.String("userID", user.ID().String()))
	return nil
}

// FindByID retrieves a user account
func (r *UserRepository) FindByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(id)},
			"SK": &types.AttributeValueMemberS{Value: record.UserProfileSK()},
		},
	})
	if err != nil {
		return nil, mapStoreError("user.find_by_id", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var rec record.UserRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, pkgerrors.NewCorruptRecordError(id.String(), "user item failed to unmarshal").WithCause(err)
	}
	return record.UserFromRecord(&rec)
}

// Update persists tier or preference changes
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(record.UserToRecord(user))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal user record").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: strPtr("attribute_exists(PK) AND attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("user")
		}
		return mapStoreError("user.update", err)
	}
	return nil
}

// Exists reports whether an account with this ID has been registered
func (r *UserRepository) Exists(ctx context.Context, id valueobjects.UserID) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: record.UserPK(id)},
			"SK": &types.AttributeValueMemberS{Value: record.UserProfileSK()},
		},
		ProjectionExpression: strPtr("PK"),
	})
	if err != nil {
		return false, mapStoreError("user.exists", err)
	}
	return out.Item != nil, nil
}
