package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaforge-backend/application/services"
	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/interfaces/http/rest/dto"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
	"ideaforge-backend/pkg/utils"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documents *services.DocumentService
	logger    *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, logger: logger}
}

// CreateDocumentRequest represents the request body for storing a document
type CreateDocumentRequest struct {
	Type    string                 `json:"type" validate:"required"`
	Title   string                 `json:"title" validate:"required,min=1,max=200"`
	Content map[string]interface{} `json:"content" validate:"required"`
}

// EditDocumentRequest represents the request body for editing a document.
// A nil title keeps the current one.
type EditDocumentRequest struct {
	Title   *string                `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content map[string]interface{} `json:"content" validate:"required"`
}

func ideaAndType(r *http.Request) (valueobjects.IdeaID, valueobjects.DocumentType, error) {
	ideaID, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		return valueobjects.IdeaID{}, "", err
	}
	docType, err := valueobjects.ParseDocumentType(chi.URLParam(r, "docType"))
	if err != nil {
		return valueobjects.IdeaID{}, "", err
	}
	return ideaID, docType, nil
}

// CreateDocument handles POST /ideas/{ideaID}/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req CreateDocumentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	docType, err := valueobjects.ParseDocumentType(req.Type)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), ideaID, owner, docType, req.Title, entities.DocumentContent(req.Content))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.DocumentFromEntity(doc))
}

// ListIdeaDocuments handles GET /ideas/{ideaID}/documents, returning the
// latest version of each type the idea has
func (h *DocumentHandler) ListIdeaDocuments(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, err := valueobjects.NewIdeaIDFromString(chi.URLParam(r, "ideaID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	docs, err := h.documents.ListIdeaDocuments(r.Context(), ideaID, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	out := make([]dto.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, dto.DocumentFromEntity(doc))
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// GetLatest handles GET /ideas/{ideaID}/documents/{docType}
func (h *DocumentHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, docType, err := ideaAndType(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	doc, err := h.documents.GetLatest(r.Context(), ideaID, docType, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.DocumentFromEntity(doc))
}

// EditDocument handles PUT /ideas/{ideaID}/documents/{docType}
func (h *DocumentHandler) EditDocument(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, docType, err := ideaAndType(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req EditDocumentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	doc, err := h.documents.EditDocument(r.Context(), ideaID, owner, docType, req.Title, entities.DocumentContent(req.Content))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.DocumentFromEntity(doc))
}

// GetVersionHistory handles GET /ideas/{ideaID}/documents/{docType}/versions
func (h *DocumentHandler) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, docType, err := ideaAndType(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	versions, err := h.documents.GetVersionHistory(r.Context(), ideaID, docType, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	out := make([]dto.Document, 0, len(versions))
	for _, doc := range versions {
		out = append(out, dto.DocumentFromEntity(doc))
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// RestoreVersion handles POST /ideas/{ideaID}/documents/{docType}/versions/{version}/restore
func (h *DocumentHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	ideaID, docType, err := ideaAndType(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	versionNum, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewInvalidValueError("version must be a number"))
		return
	}
	version, err := valueobjects.NewDocumentVersion(versionNum)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	doc, err := h.documents.RestoreVersion(r.Context(), ideaID, owner, docType, version)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, dto.DocumentFromEntity(doc))
}

// GetDocument handles GET /documents/{documentID}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	owner, err := requestOwner(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	id, err := valueobjects.NewDocumentIDFromString(chi.URLParam(r, "documentID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), id, owner)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, dto.DocumentFromEntity(doc))
}
