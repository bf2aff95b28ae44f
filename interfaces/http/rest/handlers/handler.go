package handlers

import (
	"net/http"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/pkg/common"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// maxBodyBytes caps request bodies; document content is the largest payload
const maxBodyBytes = 1 << 20

// requestOwner resolves the authenticated caller's user ID from the request
// context. Routes behind the auth middleware always have one.
func requestOwner(r *http.Request) (valueobjects.UserID, error) {
	raw, ok := common.GetUserID(r.Context())
	if !ok {
		return valueobjects.UserID{}, pkgerrors.NewUnauthorizedError("missing authenticated user")
	}
	return valueobjects.NewUserID(raw)
}
