//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/infrastructure/config"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	IdeaRepo        ports.IdeaRepository
	DocumentRepo    ports.DocumentRepository
	AnalysisRepo    ports.AnalysisRepository
	LedgerRepo      ports.LedgerRepository
	UserRepo        ports.UserRepository
	EventPublisher  ports.EventPublisher
	Analyzer        ports.IdeaAnalyzer
	IdeaService     *services.IdeaService
	DocumentService *services.DocumentService
	CreditService   *services.CreditService
	AnalysisService *services.AnalysisService
	UserService     *services.UserService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideIdeaRepository,
	ProvideDocumentRepository,
	ProvideAnalysisRepository,
	ProvideLedgerRepository,
	ProvideUserRepository,
	ProvideEventPublisher,
	ProvideAnalyzer,
	ProvideIdeaService,
	ProvideDocumentService,
	ProvideCreditService,
	ProvideAnalysisService,
	ProvideUserService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
