package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
	"ideaforge-backend/pkg/utils"
)

// IdeaHandler handles idea-related HTTP requests
type IdeaHandler struct {
	ideas  *services.IdeaService
	logger *zap.Logger
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideas *services.IdeaService, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, logger: logger}
}

// CreateIdeaRequest represents the request body for submitting an idea
type CreateIdeaRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=10000"`
	Source string `json:"source,omitempty" validate:"omitempty,oneof=manual generated"`
}

// UpdateIdeaRequest represents the request body for a partial idea update
type UpdateIdeaRequest struct {
	Text   *string `json:"text,omitempty" validate:"omitempty,min=1,max=10000"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=idea in_progress completed archived"`
}

// ImportIdeasRequest represents the request body for a bulk import
type ImportIdeasRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,max=100,dive,min=1,max=10000"`
}

// TagRequest represents the request body for adding a tag
type TagRequest struct {
	Tag string `json:"tag" validate:"required,min=1,max=50"`
}

// CreateIdea handles POST /ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req CreateIdeaRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	source := entities.IdeaSource(req.Source)
	if req.Source == "" {
		source = entities.IdeaSourceManual
	}

	idea, err := h.ideas.CreateIdea(r.Context(), owner, req.Text, source)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, dto.IdeaFromEntity(idea))
}

// ImportIdeas handles POST /ideas/import
func (h *IdeaHandler) ImportIdeas(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req ImportIdeasRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	ideas, err := h.ideas.ImportIdeas(r.Context(), owner, req.Texts)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]dto.Idea, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, dto.IdeaFromEntity(idea))
	}
	common.RespondJSON(w, http.StatusCreated, out)
}

// GetIdea handles GET /ideas/{ideaID}
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	idea, err := h.ideas.GetIdea(r.Context(), id, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.IdeaFromEntity(idea))
}

// ListIdeas handles GET /ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	filter := ports.IdeaFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := entities.IdeaStatus(status)
		filter.Status = &s
	}
	if source := r.URL.Query().Get("source"); source != "" {
		s := entities.IdeaSource(source)
		filter.Source = &s
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter.Tag = &tag
	}

	page, err := h.ideas.ListIdeas(r.Context(), owner, filter, common.ExtractPaginationParams(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.PageOf(page, dto.IdeaFromEntity))
}

// UpdateIdea handles PATCH /ideas/{ideaID}
func (h *IdeaHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req UpdateIdeaRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	update := services.IdeaUpdate{Text: req.Text, Notes: req.Notes}
	if req.Status != nil {
		status := entities.IdeaStatus(*req.Status)
		update.Status = &status
	}

	idea, err := h.ideas.UpdateIdea(r.Context(), id, owner, update)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.IdeaFromEntity(idea))
}

// AddTag handles POST /ideas/{ideaID}/tags
func (h *IdeaHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req TagRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	idea, err := h.ideas.TagIdea(r.Context(), id, owner, req.Tag)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.IdeaFromEntity(idea))
}

// RemoveTag handles DELETE /ideas/{ideaID}/tags/{tag}
func (h *IdeaHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	idea, err := h.ideas.UntagIdea(r.Context(), id, owner, chi.URLParam(r, "tag"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.IdeaFromEntity(idea))
}

// DeleteIdea handles DELETE /ideas/{ideaID}. Deleting an idea that does not
// exist succeeds; the response reports how many documents went with it.
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	removed, err := h.ideas.DeleteIdea(r.Context(), id, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Debug("idea deleted",
		zap.String("ideaID", id.String()),
		zap.Int("documentsRemoved", removed),
	)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents_removed": removed,
	})
}
