package handlers

import (
	"net/http"

	"ifn-backend/pkg/auth"
	"ifn-backend/pkg/errors"
)

// Request body limits
const (
	maxEventBytes  = 4 << 10
	maxImportBytes = 8 << 20
)

// currentUser returns the authenticated user. The auth middleware guarantees
// one on every /api route, so a miss is reported as unauthorized.
func currentUser(r *http.Request) (*auth.UserContext, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil, errors.NewUnauthorizedError("").WithCause(err)
	}
	return user, nil
}
