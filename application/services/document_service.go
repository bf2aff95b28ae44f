package services

import (
	"context"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// versionClaimRetries bounds how often an edit re-reads latest and re-claims
// after losing a version race
const versionClaimRetries = 3

// DocumentService provides versioned document operations. Every write path
// funnels through saveWithRetry so concurrent writers converge on contiguous
// version numbers.
type DocumentService struct {
	docRepo   ports.DocumentRepository
	ideaRepo  ports.IdeaQueryRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDocumentService creates a new document service. Documents only ever
// read ideas, so the dependency is the query side alone.
func NewDocumentService(
	docRepo ports.DocumentRepository,
	ideaRepo ports.IdeaQueryRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		ideaRepo:  ideaRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateDocument stores the first generated artifact of a type for an idea.
// When versions already exist the new content lands as the next version
// instead of failing.
func (s *DocumentService) CreateDocument(
	ctx context.Context,
	ideaID valueobjects.IdeaID,
	owner valueobjects.UserID,
	docType valueobjects.DocumentType,
	title string,
	content entities.DocumentContent,
) (*entities.Document, error) {
	// The idea must exist and belong to the caller before any version is
	// written under its partition.
	ok, err := s.ideaRepo.Exists(ctx, ideaID, owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.NewNotFoundError("idea")
	}

	latest, err := s.docRepo.FindLatestVersion(ctx, ideaID, docType, owner)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	var doc *entities.Document
	if latest == nil {
		doc, err = entities.NewDocument(ideaID, owner, docType, title, content)
		if err != nil {
			return nil, err
		}
	} else {
		doc = latest.NextVersion(&title, content)
	}

	return s.saveWithRetry(ctx, doc, owner)
}

// EditDocument produces the next version of a document, carrying forward
// any field the caller leaves nil. The previous version is untouched.
func (s *DocumentService) EditDocument(
	ctx context.Context,
	ideaID valueobjects.IdeaID,
	owner valueobjects.UserID,
	docType valueobjects.DocumentType,
	title *string,
	content entities.DocumentContent,
) (*entities.Document, error) {
	latest, err := s.docRepo.FindLatestVersion(ctx, ideaID, docType, owner)
	if err != nil {
		return nil, err
	}

	return s.saveWithRetry(ctx, latest.NextVersion(title, content), owner)
}

// RestoreVersion republishes an old version's content as a brand-new latest
// version. History stays intact; nothing is rewound in place.
func (s *DocumentService) RestoreVersion(
	ctx context.Context,
	ideaID valueobjects.IdeaID,
	owner valueobjects.UserID,
	docType valueobjects.DocumentType,
	version valueobjects.DocumentVersion,
) (*entities.Document, error) {
	target, err := s.docRepo.FindVersion(ctx, ideaID, docType, version, owner)
	if err != nil {
		return nil, err
	}
	latest, err := s.docRepo.FindLatestVersion(ctx, ideaID, docType, owner)
	if err != nil {
		return nil, err
	}

	title := target.Title()
	restored := latest.NextVersion(&title, target.Content())
	doc, err := s.saveWithRetry(ctx, restored, owner)
	if err != nil {
		return nil, err
	}

	s.logger.Info("restored document version",
		zap.String("ideaID", ideaID.String()),
		zap.String("docType", docType.String()),
		zap.Int("restoredFrom", version.Value()),
		zap.Int("newVersion", doc.Version().Value()),
	)
	return doc, nil
}

// GetDocument retrieves a single version by document ID
func (s *DocumentService) GetDocument(ctx context.Context, id valueobjects.DocumentID, owner valueobjects.UserID) (*entities.Document, error) {
	return s.docRepo.FindByID(ctx, id, owner)
}

// GetLatest retrieves the current version of a document type for an idea
func (s *DocumentService) GetLatest(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) (*entities.Document, error) {
	return s.docRepo.FindLatestVersion(ctx, ideaID, docType, owner)
}

// GetVersionHistory retrieves every version of a document type, newest first
func (s *DocumentService) GetVersionHistory(ctx context.Context, ideaID valueobjects.IdeaID, docType valueobjects.DocumentType, owner valueobjects.UserID) ([]*entities.Document, error) {
	return s.docRepo.FindAllVersions(ctx, ideaID, docType, owner)
}

// ListIdeaDocuments retrieves the latest version of each document type an
// idea has
func (s *DocumentService) ListIdeaDocuments(ctx context.Context, ideaID valueobjects.IdeaID, owner valueobjects.UserID) ([]*entities.Document, error) {
	return s.docRepo.FindByIdea(ctx, ideaID, owner)
}

// saveWithRetry claims a version slot, and on losing the race re-reads the
// latest version and re-claims at latest+1 up to versionClaimRetries times
func (s *DocumentService) saveWithRetry(ctx context.Context, doc *entities.Document, owner valueobjects.UserID) (*entities.Document, error) {
	var err error
	for attempt := 0; attempt <= versionClaimRetries; attempt++ {
		err = s.docRepo.SaveVersion(ctx, doc)
		if err == nil {
			publishEvents(ctx, s.publisher, s.logger, doc)
			return doc, nil
		}
		if !pkgerrors.IsConflict(err) {
			return nil, err
		}

		latest, findErr := s.docRepo.FindLatestVersion(ctx, doc.IdeaID(), doc.Type(), owner)
		if findErr != nil {
			return nil, findErr
		}
		doc = doc.WithVersion(latest.Version().Next())

		s.logger.Debug("retrying version claim",
			zap.String("ideaID", doc.IdeaID().String()),
			zap.String("docType", doc.Type().String()),
			zap.Int("version", doc.Version().Value()),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, err
}
