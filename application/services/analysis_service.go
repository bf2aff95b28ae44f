package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// AnalysisCost is the credit price of one analysis
const AnalysisCost = 5

// AnalysisService coordinates the paid analysis flow: deduct credits, call
// the external analyzer, persist the result, and refund the deduction when
// anything after it fails. The refund is keyed by action ID so retries never
// double-compensate.
type AnalysisService struct {
	analysisRepo ports.AnalysisRepository
	credits      *CreditService
	analyzer     ports.IdeaAnalyzer
	publisher    ports.EventPublisher
	logger       *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	analysisRepo ports.AnalysisRepository,
	credits *CreditService,
	analyzer ports.IdeaAnalyzer,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		analysisRepo: analysisRepo,
		credits:      credits,
		analyzer:     analyzer,
		publisher:    publisher,
		logger:       logger,
	}
}

// AnalyzeIdea scores a startup idea
func (s *AnalysisService) AnalyzeIdea(ctx context.Context, owner valueobjects.UserID, text string, locale valueobjects.Locale) (*entities.Analysis, error) {
	return s.analyze(ctx, owner, text, locale, nil)
}

// AnalyzeHackathonProject scores a hackathon project within its track
func (s *AnalysisService) AnalyzeHackathonProject(ctx context.Context, owner valueobjects.UserID, text string, locale valueobjects.Locale, track valueobjects.HackathonTrack) (*entities.Analysis, error) {
	category, err := valueobjects.NewHackathonCategory(track)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, owner, text, locale, &category)
}

func (s *AnalysisService) analyze(ctx context.Context, owner valueobjects.UserID, text string, locale valueobjects.Locale, category *valueobjects.Category) (*entities.Analysis, error) {
	if text == "" {
		return nil, pkgerrors.NewInvalidValueError("text to analyze cannot be empty")
	}

	actionID := uuid.New().String()
	if err := s.credits.DeductForAction(ctx, owner, AnalysisCost, actionID, "analysis"); err != nil {
		return nil, err
	}

	req := ports.AnalysisRequest{UserID: owner, Text: text, Locale: locale}
	if category != nil {
		if track, ok := category.Track(); ok {
			req.Track = &track
		}
	}

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.refund(ctx, owner, actionID)
		return nil, pkgerrors.Wrap(err, "analyzer call failed")
	}

	// The analyzer may emit either scale; normalization pins the result to
	// 0-100 before the entity ever sees it.
	score, err := valueobjects.NormalizeScore(result.RawScore)
	if err != nil {
		s.refund(ctx, owner, actionID)
		return nil, pkgerrors.Wrap(err, "analyzer returned an out-of-range score")
	}

	var analysis *entities.Analysis
	if category != nil {
		analysis, err = entities.NewHackathonAnalysis(owner, text, score, locale, result.Feedback, result.Suggestions, *category)
	} else {
		analysis, err = entities.NewIdeaAnalysis(owner, text, score, locale, result.Feedback, result.Suggestions)
	}
	if err != nil {
		s.refund(ctx, owner, actionID)
		return nil, err
	}

	if err := s.analysisRepo.Save(ctx, analysis); err != nil {
		s.refund(ctx, owner, actionID)
		return nil, err
	}

	publishEvents(ctx, s.publisher, s.logger, analysis)

	s.logger.Info("analysis completed",
		zap.String("analysisID", analysis.ID().String()),
		zap.String("userID", owner.String()),
		zap.String("kind", string(analysis.Kind())),
		zap.Int("score", analysis.Score().Value()),
	)
	return analysis, nil
}

// RescoreAnalysis re-runs the analyzer over an existing analysis and
// replaces its evaluation wholesale. A re-score is a fresh paid action with
// the same deduct-then-refund discipline as the first scoring.
func (s *AnalysisService) RescoreAnalysis(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (*entities.Analysis, error) {
	analysis, err := s.analysisRepo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	actionID := uuid.New().String()
	if err := s.credits.DeductForAction(ctx, owner, AnalysisCost, actionID, "analysis re-score"); err != nil {
		return nil, err
	}

	req := ports.AnalysisRequest{UserID: owner, Text: analysis.SubjectText(), Locale: analysis.Locale()}
	if category, ok := analysis.Category(); ok {
		if track, isTrack := category.Track(); isTrack {
			req.Track = &track
		}
	}

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.refund(ctx, owner, actionID)
		return nil, pkgerrors.Wrap(err, "analyzer call failed")
	}
	score, err := valueobjects.NormalizeScore(result.RawScore)
	if err != nil {
		s.refund(ctx, owner, actionID)
		return nil, pkgerrors.Wrap(err, "analyzer returned an out-of-range score")
	}

	analysis.Rescore(score, result.Feedback, result.Suggestions)
	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		s.refund(ctx, owner, actionID)
		return nil, err
	}

	publishEvents(ctx, s.publisher, s.logger, analysis)

	s.logger.Info("analysis re-scored",
		zap.String("analysisID", analysis.ID().String()),
		zap.String("userID", owner.String()),
		zap.Int("score", analysis.Score().Value()),
	)
	return analysis, nil
}

// refund compensates the action's deduction. An already-recorded refund is
// success, not failure; any other error is logged and left for ledger
// reconciliation.
func (s *AnalysisService) refund(ctx context.Context, owner valueobjects.UserID, actionID string) {
	if err := s.credits.RefundAction(ctx, owner, actionID, "analysis failed"); err != nil && !pkgerrors.IsConflict(err) {
		s.logger.Error("failed to refund analysis deduction",
			zap.Error(err),
			zap.String("userID", owner.String()),
			zap.String("actionID", actionID),
		)
	}
}

// GetAnalysis retrieves an analysis scoped to its owner
func (s *AnalysisService) GetAnalysis(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) (*entities.Analysis, error) {
	return s.analysisRepo.FindByID(ctx, id, owner)
}

// ListAnalyses retrieves a page of the owner's analyses
func (s *AnalysisService) ListAnalyses(ctx context.Context, owner valueobjects.UserID, filter ports.AnalysisFilter, params common.PaginationParams) (common.Page[*entities.Analysis], error) {
	return s.analysisRepo.FindByUser(ctx, owner, filter, params)
}

// DeleteAnalysis removes an analysis
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id valueobjects.AnalysisID, owner valueobjects.UserID) error {
	return s.analysisRepo.Delete(ctx, id, owner)
}
