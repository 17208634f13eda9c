package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ifn-backend/pkg/auth"
	apperrors "ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

// Headers carrying the identity that API Gateway's JWT authorizer verified.
// cmd/lambda sets them from the authorizer context after discarding any
// values the client sent.
const (
	HeaderGatewayAuthorized = "X-API-Gateway-Authorized"
	HeaderUserID            = "X-User-ID"
	HeaderUserEmail         = "X-User-Email"
	HeaderUserRoles         = "X-User-Roles"
)

// Authenticator turns request credentials into an auth.UserContext
type Authenticator struct {
	validator *auth.JWTValidator
	limiter   *auth.UserRateLimiter
	trustGW   bool
	errs      *apperrors.ErrorHandler
	logger    *zap.Logger
}

// NewAuthenticator creates an authenticator. With trustGateway set it accepts
// identities forwarded by API Gateway instead of validating tokens itself.
// limiter may be nil.
func NewAuthenticator(
	validator *auth.JWTValidator,
	limiter *auth.UserRateLimiter,
	trustGateway bool,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *Authenticator {
	return &Authenticator{
		validator: validator,
		limiter:   limiter,
		trustGW:   trustGateway,
		errs:      errs,
		logger:    logger,
	}
}

// Middleware authenticates every request and rejects anonymous ones
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.identify(r)
		if err != nil {
			a.logger.Debug("Authentication failed",
				zap.Error(err),
				zap.String("path", r.URL.Path),
			)
			a.errs.Handle(w, r, apperrors.NewUnauthorizedError(unauthorizedMessage(err)).WithCause(err))
			return
		}

		if a.limiter != nil {
			allowed, err := a.limiter.Allow(r.Context(), user.UserID)
			if err != nil {
				a.errs.Handle(w, r, apperrors.NewInternalError("rate limiter failed").WithCause(err))
				return
			}
			if !allowed {
				a.errs.HandleStatus(w, r, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

func (a *Authenticator) identify(r *http.Request) (*auth.UserContext, error) {
	if a.trustGW {
		if r.Header.Get(HeaderGatewayAuthorized) != "true" {
			return nil, errors.New("request not authorized by API Gateway")
		}
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			return nil, errors.New("missing user context from API Gateway")
		}
		return &auth.UserContext{
			UserID: userID,
			Email:  r.Header.Get(HeaderUserEmail),
			Roles:  splitRoles(r.Header.Get(HeaderUserRoles)),
		}, nil
	}

	claims, err := a.validator.ValidateToken(extractToken(r))
	if err != nil {
		return nil, err
	}
	return auth.FromClaims(claims), nil
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Missing authentication token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}

// extractToken reads the bearer token from the Authorization header or the auth_token cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return header
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// RequireRole creates middleware that requires one of roles
func RequireRole(errs *apperrors.ErrorHandler, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				errs.Handle(w, r, apperrors.NewUnauthorizedError(""))
				return
			}
			if !user.HasAnyRole(roles...) {
				errs.Handle(w, r, apperrors.NewForbiddenError("Insufficient permissions").
					WithDetails(map[string]interface{}{"required_roles": roles}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
