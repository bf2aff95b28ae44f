package di

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/infrastructure/analyzer"
	"ideaforge-backend/infrastructure/config"
	"ideaforge-backend/infrastructure/messaging"
	"ideaforge-backend/infrastructure/messaging/eventbridge"
	"ideaforge-backend/infrastructure/persistence/dynamodb"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideIdeaRepository creates an idea repository
func ProvideIdeaRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.IdeaRepository {
	return dynamodb.NewIdeaRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideDocumentRepository creates a document repository
func ProvideDocumentRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DocumentRepository {
	return dynamodb.NewDocumentRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideAnalysisRepository creates an analysis repository
func ProvideAnalysisRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AnalysisRepository {
	return dynamodb.NewAnalysisRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideLedgerRepository creates a credit ledger repository
func ProvideLedgerRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.LedgerRepository {
	return dynamodb.NewLedgerRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the event publisher. Without a configured
// bus, events are logged and dropped.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return messaging.NewNoopPublisher(logger)
	}
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideAnalyzer creates the scoring service client
func ProvideAnalyzer(cfg *config.Config, logger *zap.Logger) ports.IdeaAnalyzer {
	timeout := time.Duration(cfg.AnalyzerTimeout) * time.Millisecond
	return analyzer.NewHTTPAnalyzer(cfg.AnalyzerEndpoint, timeout, logger)
}

// ProvideIdeaService creates the idea service
func ProvideIdeaService(ideaRepo ports.IdeaRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.IdeaService {
	return services.NewIdeaService(ideaRepo, publisher, logger)
}

// ProvideDocumentService creates the document service
func ProvideDocumentService(docRepo ports.DocumentRepository, ideaRepo ports.IdeaRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.DocumentService {
	return services.NewDocumentService(docRepo, ideaRepo, publisher, logger)
}

// ProvideCreditService creates the credit service
func ProvideCreditService(ledger ports.LedgerRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.CreditService {
	return services.NewCreditService(ledger, publisher, logger)
}

// ProvideAnalysisService creates the analysis service
func ProvideAnalysisService(
	analysisRepo ports.AnalysisRepository,
	credits *services.CreditService,
	ideaAnalyzer ports.IdeaAnalyzer,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.AnalysisService {
	return services.NewAnalysisService(analysisRepo, credits, ideaAnalyzer, publisher, logger)
}

// ProvideUserService creates the user service
func ProvideUserService(userRepo ports.UserRepository, credits *services.CreditService, publisher ports.EventPublisher, logger *zap.Logger) *services.UserService {
	return services.NewUserService(userRepo, credits, publisher, logger)
}
