package services

import (
	"context"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// SignupCredits is the starting balance granted to every new account
const SignupCredits = 25

// UserService manages account profiles and their preferences
type UserService struct {
	userRepo  ports.UserRepository
	credits   *CreditService
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, credits *CreditService, publisher ports.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		credits:   credits,
		publisher: publisher,
		logger:    logger,
	}
}

// RegisterUser creates a profile for a newly authenticated identity and
// grants the signup credit allowance. Registering an existing user returns
// the stored profile unchanged.
func (s *UserService) RegisterUser(ctx context.Context, id valueobjects.UserID, tier entities.UserTier) (*entities.User, error) {
	user, err := entities.NewUser(id, tier)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if pkgerrors.IsConflict(err) {
			return s.userRepo.FindByID(ctx, id)
		}
		return nil, err
	}

	if _, err := s.credits.GrantCredits(ctx, id, SignupCredits, "signup grant"); err != nil {
		// The profile exists but the grant failed; log for reconciliation
		// rather than failing the registration.
		s.logger.Error("failed to grant signup credits",
			zap.Error(err),
			zap.String("userID", id.String()),
		)
	}

	publishEvents(ctx, s.publisher, s.logger, user)

	s.logger.Info("registered user",
		zap.String("userID", id.String()),
		zap.String("tier", string(tier)),
	)
	return user, nil
}

// GetProfile retrieves a user's profile
func (s *UserService) GetProfile(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdatePreferences replaces a user's preferences
func (s *UserService) UpdatePreferences(ctx context.Context, id valueobjects.UserID, preferences entities.UserPreferences) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdatePreferences(preferences)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeTier moves a user between tiers. Only admin accounts may call it.
func (s *UserService) ChangeTier(ctx context.Context, actor *entities.User, target valueobjects.UserID, tier entities.UserTier) (*entities.User, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, pkgerrors.NewUnauthorizedError("tier changes require an admin account")
	}

	user, err := s.userRepo.FindByID(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeTier(tier); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("changed user tier",
		zap.String("targetUserID", target.String()),
		zap.String("adminUserID", actor.ID().String()),
		zap.String("tier", string(tier)),
	)
	return user, nil
}
