package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
	"ideaforge-backend/pkg/utils"
)

// CreditHandler handles credit-ledger HTTP requests
type CreditHandler struct {
	credits *services.CreditService
	users   *services.UserService
	logger  *zap.Logger
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(credits *services.CreditService, users *services.UserService, logger *zap.Logger) *CreditHandler {
	return &CreditHandler{credits: credits, users: users, logger: logger}
}

// AdminAdjustRequest represents the request body for a manual balance
// correction
type AdminAdjustRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Amount      int    `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,min=1,max=500"`
}

// GetBalance handles GET /credits/balance
func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	balance, err := h.credits.Balance(r.Context(), owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"balance": balance})
}

// GetHistory handles GET /credits/transactions
func (h *CreditHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	filter := ports.LedgerFilter{}
	if txType := r.URL.Query().Get("type"); txType != "" {
		parsed, err := valueobjects.ParseTransactionType(txType)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		filter.Type = &parsed
	}
	if actionID := r.URL.Query().Get("action_id"); actionID != "" {
		filter.ActionID = &actionID
	}

	page, err := h.credits.History(r.Context(), owner, filter, common.ExtractPaginationParams(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.PageOf(page, dto.TransactionFromEntity))
}

// AdminAdjust handles POST /credits/adjustments. The caller's own profile
// decides whether they may adjust other accounts.
func (h *CreditHandler) AdminAdjust(w http.ResponseWriter, r *http.Request) {
	callerID, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AdminAdjustRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	target, err := valueobjects.NewUserID(req.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	actor, err := h.users.GetProfile(r.Context(), callerID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	tx, err := h.credits.AdminAdjust(r.Context(), actor, target, req.Amount, req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.TransactionFromEntity(tx))
}
