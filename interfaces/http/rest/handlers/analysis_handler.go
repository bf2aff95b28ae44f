package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
	"ideaforge-backend/pkg/utils"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	analyses *services.AnalysisService
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyses *services.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses, logger: logger}
}

// AnalyzeIdeaRequest represents the request body for scoring a startup idea
type AnalyzeIdeaRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=10000"`
	Locale string `json:"locale,omitempty"`
}

// AnalyzeHackathonRequest represents the request body for scoring a
// hackathon project within its track
type AnalyzeHackathonRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=10000"`
	Locale string `json:"locale,omitempty"`
	Track  string `json:"track" validate:"required"`
}

func localeOrDefault(code string) (valueobjects.Locale, error) {
	if code == "" {
		return valueobjects.DefaultLocale(), nil
	}
	return valueobjects.NewLocale(code)
}

// AnalyzeIdea handles POST /analyses/idea
func (h *AnalysisHandler) AnalyzeIdea(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AnalyzeIdeaRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	locale, err := localeOrDefault(req.Locale)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	analysis, err := h.analyses.AnalyzeIdea(r.Context(), owner, req.Text, locale)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.AnalysisFromEntity(analysis))
}

// AnalyzeHackathon handles POST /analyses/hackathon
func (h *AnalysisHandler) AnalyzeHackathon(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req AnalyzeHackathonRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	locale, err := localeOrDefault(req.Locale)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	analysis, err := h.analyses.AnalyzeHackathonProject(r.Context(), owner, req.Text, locale, valueobjects.HackathonTrack(req.Track))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.AnalysisFromEntity(analysis))
}

// RescoreAnalysis handles POST /analyses/{analysisID}/rescore
func (h *AnalysisHandler) RescoreAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewAnalysisIDFromString(chi.URLParam(r, "analysisID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	analysis, err := h.analyses.RescoreAnalysis(r.Context(), id, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.AnalysisFromEntity(analysis))
}

// GetAnalysis handles GET /analyses/{analysisID}
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewAnalysisIDFromString(chi.URLParam(r, "analysisID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	analysis, err := h.analyses.GetAnalysis(r.Context(), id, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.AnalysisFromEntity(analysis))
}

// ListAnalyses handles GET /analyses
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	filter := ports.AnalysisFilter{}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := entities.AnalysisKind(kind)
		filter.Kind = &k
	}
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			common.RespondAppError(w, pkgerrors.NewInvalidValueError("min_score must be an integer").
				WithDetail("min_score", raw))
			return
		}
		minScore, scoreErr := valueobjects.NewScore(value)
		if scoreErr != nil {
			common.RespondAppError(w, scoreErr)
			return
		}
		filter.MinScore = &minScore
	}

	page, err := h.analyses.ListAnalyses(r.Context(), owner, filter, common.ExtractPaginationParams(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.PageOf(page, dto.AnalysisFromEntity))
}

// DeleteAnalysis handles DELETE /analyses/{analysisID}
func (h *AnalysisHandler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewAnalysisIDFromString(chi.URLParam(r, "analysisID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.analyses.DeleteAnalysis(r.Context(), id, owner); err != nil {
		common.RespondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
