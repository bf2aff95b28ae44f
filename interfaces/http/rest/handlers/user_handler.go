package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
	"ideaforge-backend/pkg/utils"
)

// UserHandler handles account-profile HTTP requests
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// UpdatePreferencesRequest represents the request body for replacing the
// caller's preferences
type UpdatePreferencesRequest struct {
	Locale             string `json:"locale,omitempty"`
	EmailNotifications bool   `json:"email_notifications"`
	AnalysisReminders  bool   `json:"analysis_reminders"`
}

// ChangeTierRequest represents the request body for moving an account
// between tiers
type ChangeTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free paid admin"`
}

// Register handles POST /users/me. The identity comes from the token; the
// call is idempotent for existing accounts.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	callerID, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	user, err := h.users.RegisterUser(r.Context(), callerID, entities.TierFree)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.UserFromEntity(user))
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	user, err := h.users.GetProfile(r.Context(), callerID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.UserFromEntity(user))
}

// UpdatePreferences handles PUT /users/me/preferences
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	callerID, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}

	prefs := entities.UserPreferences{
		EmailNotifications: req.EmailNotifications,
		AnalysisReminders:  req.AnalysisReminders,
	}
	if req.Locale != "" {
		locale, err := valueobjects.NewLocale(req.Locale)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		prefs.Locale = locale
	}

	user, err := h.users.UpdatePreferences(r.Context(), callerID, prefs)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.UserFromEntity(user))
}

// ChangeTier handles PUT /users/{userID}/tier. Admin only.
func (h *UserHandler) ChangeTier(w http.ResponseWriter, r *http.Request) {
	callerID, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req ChangeTierRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	target, err := valueobjects.NewUserID(chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	actor, err := h.users.GetProfile(r.Context(), callerID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	user, err := h.users.ChangeTier(r.Context(), actor, target, entities.UserTier(req.Tier))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.UserFromEntity(user))
}
