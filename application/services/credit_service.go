package services

import (
	"context"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// CreditService manages the append-only credit ledger. A balance is never
// stored; it is always the sum of a user's entries.
type CreditService struct {
	ledger    ports.LedgerRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewCreditService creates a new credit service
func NewCreditService(ledger ports.LedgerRepository, publisher ports.EventPublisher, logger *zap.Logger) *CreditService {
	return &CreditService{
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// Balance returns the user's current credit balance
func (s *CreditService) Balance(ctx context.Context, owner valueobjects.UserID) (int, error) {
	return s.ledger.Balance(ctx, owner)
}

// History retrieves a page of the user's ledger, newest first
func (s *CreditService) History(ctx context.Context, owner valueobjects.UserID, filter ports.LedgerFilter, params common.PaginationParams) (common.Page[*entities.CreditTransaction], error) {
	return s.ledger.FindByUser(ctx, owner, filter, params)
}

// GrantCredits adds credits to a user's balance
func (s *CreditService) GrantCredits(ctx context.Context, owner valueobjects.UserID, amount int, description string) (*entities.CreditTransaction, error) {
	tx, err := entities.NewCreditTransaction(owner, amount, valueobjects.TransactionTypeAdd, description, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, tx)
	return tx, nil
}

// DeductForAction spends credits for a paid action, refusing to overdraw.
// The deduction carries the action ID so a later refund can pair with it.
func (s *CreditService) DeductForAction(ctx context.Context, owner valueobjects.UserID, cost int, actionID, description string) error {
	if cost <= 0 {
		return pkgerrors.NewInvalidValueError("cost must be positive")
	}
	if actionID == "" {
		return pkgerrors.NewInvalidValueError("action ID cannot be empty")
	}

	balance, err := s.ledger.Balance(ctx, owner)
	if err != nil {
		return err
	}
	if balance < cost {
		err := pkgerrors.NewConflictError("insufficient credits").
			WithCode("INSUFFICIENT_CREDITS").
			WithDetail("balance", balance).
			WithDetail("cost", cost)
		err.Retryable = false
		return err
	}

	tx, err := entities.NewCreditTransaction(owner, -cost, valueobjects.TransactionTypeDeduct, description, map[string]string{
		entities.MetadataActionID: actionID,
	})
	if err != nil {
		return err
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, tx)

	s.logger.Debug("deducted credits",
		zap.String("userID", owner.String()),
		zap.String("actionID", actionID),
		zap.Int("cost", cost),
	)
	return nil
}

// RefundAction compensates the deduction recorded for an action. The refund
// amount mirrors what was deducted; a second refund for the same action
// fails with a conflict, which callers treat as already-done.
func (s *CreditService) RefundAction(ctx context.Context, owner valueobjects.UserID, actionID, description string) error {
	entries, err := s.ledger.FindByAction(ctx, owner, actionID)
	if err != nil {
		return err
	}

	deducted := 0
	for _, entry := range entries {
		if entry.Type() == valueobjects.TransactionTypeDeduct {
			deducted += -entry.Amount()
		}
	}
	if deducted <= 0 {
		return pkgerrors.NewNotFoundError("deduction for action")
	}

	tx, err := entities.NewCreditTransaction(owner, deducted, valueobjects.TransactionTypeRefund, description, map[string]string{
		entities.MetadataActionID: actionID,
	})
	if err != nil {
		return err
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, tx)

	s.logger.Info("refunded action",
		zap.String("userID", owner.String()),
		zap.String("actionID", actionID),
		zap.Int("amount", deducted),
	)
	return nil
}

// AdminAdjust applies a manual correction to a user's balance. Only admin
// accounts may call it.
func (s *CreditService) AdminAdjust(ctx context.Context, actor *entities.User, target valueobjects.UserID, amount int, description string) (*entities.CreditTransaction, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, pkgerrors.NewUnauthorizedError("admin adjustments require an admin account")
	}

	tx, err := entities.NewCreditTransaction(target, amount, valueobjects.TransactionTypeAdminAdjustment, description, map[string]string{
		"adjusted_by": actor.ID().String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("admin adjustment",
		zap.String("targetUserID", target.String()),
		zap.String("adminUserID", actor.ID().String()),
		zap.Int("amount", amount),
	)
	return tx, nil
}

// UnrefundedDeductions lists deductions whose action has no matching refund.
// Used by reconciliation to find actions that failed without compensation.
func (s *CreditService) UnrefundedDeductions(ctx context.Context, owner valueobjects.UserID) ([]*entities.CreditTransaction, error) {
	page, err := s.ledger.FindByUser(ctx, owner, ports.LedgerFilter{}, common.PaginationParams{Page: 1, Limit: maxReconcileEntries})
	if err != nil {
		return nil, err
	}

	refunded := make(map[string]bool)
	for _, entry := range page.Items {
		if entry.Type() == valueobjects.TransactionTypeRefund && entry.ActionID() != "" {
			refunded[entry.ActionID()] = true
		}
	}

	var unmatched []*entities.CreditTransaction
	for _, entry := range page.Items {
		if entry.Type() == valueobjects.TransactionTypeDeduct && entry.ActionID() != "" && !refunded[entry.ActionID()] {
			unmatched = append(unmatched, entry)
		}
	}
	return unmatched, nil
}

// maxReconcileEntries bounds how much ledger history reconciliation scans
const maxReconcileEntries = 1000
