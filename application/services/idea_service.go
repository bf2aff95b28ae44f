package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
	"ideaforge-backend/pkg/common"
)

// eventCarrier is satisfied by every aggregate that collects domain events
type eventCarrier interface {
	GetUncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

// IdeaService provides idea lifecycle operations
type IdeaService struct {
	ideaRepo  ports.IdeaRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewIdeaService creates a new idea service
func NewIdeaService(ideaRepo ports.IdeaRepository, publisher ports.EventPublisher, logger *zap.Logger) *IdeaService {
	return &IdeaService{
		ideaRepo:  ideaRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateIdea submits a new idea for a user
func (s *IdeaService) CreateIdea(ctx context.Context, owner valueobjects.UserID, text string, source entities.IdeaSource) (*entities.Idea, error) {
	idea, err := entities.NewIdea(owner, text, source)
	if err != nil {
		return nil, err
	}

	if err := s.ideaRepo.Save(ctx, idea); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, idea)

	s.logger.Info("idea created",
		zap.String("ideaID", idea.ID().String()),
		zap.String("userID", owner.String()),
		zap.String("source", string(source)),
	)
	return idea, nil
}

// ImportIdeas saves a batch of generated ideas atomically
func (s *IdeaService) ImportIdeas(ctx context.Context, owner valueobjects.UserID, texts []string) ([]*entities.Idea, error) {
	ideas := make([]*entities.Idea, 0, len(texts))
	for _, text := range texts {
		idea, err := entities.NewIdea(owner, text, entities.IdeaSourceGenerated)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}

	if err := s.ideaRepo.BulkSave(ctx, ideas); err != nil {
		return nil, err
	}

	for _, idea := range ideas {
		s.publishEvents(ctx, idea)
	}

	s.logger.Info("imported ideas",
		zap.String("userID", owner.String()),
		zap.Int("count", len(ideas)),
	)
	return ideas, nil
}

// GetIdea retrieves an idea scoped to its owner
func (s *IdeaService) GetIdea(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (*entities.Idea, error) {
	return s.ideaRepo.FindByID(ctx, id, owner)
}

// ListIdeas retrieves a page of the owner's ideas
func (s *IdeaService) ListIdeas(ctx context.Context, owner valueobjects.UserID, filter ports.IdeaFilter, params common.PaginationParams) (common.Page[*entities.Idea], error) {
	return s.ideaRepo.FindByUser(ctx, owner, filter, params)
}

// IdeaUpdate carries the optional fields of an idea update. Nil fields are
// left untouched.
type IdeaUpdate struct {
	Text   *string
	Notes  *string
	Status *entities.IdeaStatus
}

// UpdateIdea applies changes to an idea and persists the result
func (s *IdeaService) UpdateIdea(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID, update IdeaUpdate) (*entities.Idea, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if err := idea.ChangeStatus(*update.Status); err != nil {
			return nil, err
		}
	}
	if update.Text != nil {
		if err := idea.UpdateText(*update.Text); err != nil {
			return nil, err
		}
	}
	if update.Notes != nil {
		idea.SetNotes(*update.Notes)
	}

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// TagIdea adds a tag to an idea
func (s *IdeaService) TagIdea(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID, tag string) (*entities.Idea, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := idea.AddTag(tag); err != nil {
		return nil, err
	}
	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// UntagIdea removes a tag from an idea
func (s *IdeaService) UntagIdea(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID, tag string) (*entities.Idea, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := idea.RemoveTag(tag); err != nil {
		return nil, err
	}
	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// DeleteIdea removes an idea and its documents, reporting how many document
// versions went with it
func (s *IdeaService) DeleteIdea(ctx context.Context, id valueobjects.IdeaID, owner valueobjects.UserID) (int, error) {
	removed, err := s.ideaRepo.Delete(ctx, id, owner)
	if err != nil {
		return 0, err
	}

	if s.publisher != nil {
		event := events.NewIdeaDeleted(id, owner, removed, time.Now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish idea deleted event",
				zap.Error(err),
				zap.String("ideaID", id.String()),
			)
		}
	}

	s.logger.Info("idea deleted",
		zap.String("ideaID", id.String()),
		zap.String("userID", owner.String()),
		zap.Int("documentsRemoved", removed),
	)
	return removed, nil
}

// publishEvents flushes an aggregate's uncommitted events. Publish failures
// are logged, not surfaced: the write already happened.
func (s *IdeaService) publishEvents(ctx context.Context, carrier eventCarrier) {
	publishEvents(ctx, s.publisher, s.logger, carrier)
}

func publishEvents(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, carrier eventCarrier) {
	evts := carrier.GetUncommittedEvents()
	if len(evts) == 0 {
		return
	}
	if publisher != nil {
		if err := publisher.PublishBatch(ctx, evts); err != nil {
			logger.Warn("failed to publish domain events",
				zap.Error(err),
				zap.Int("count", len(evts)),
			)
		}
	}
	carrier.MarkEventsAsCommitted()
}
