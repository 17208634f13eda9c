package main

import (
	"strings"

	"ifn-backend/interfaces/http/rest/middleware"

	"github.com/aws/aws-lambda-go/events"
)

var gatewayHeader = strings.ToLower(middleware.HeaderGatewayAuthorized)

var identityHeaders = []string{
	middleware.HeaderGatewayAuthorized,
	middleware.HeaderUserID,
	middleware.HeaderUserEmail,
	middleware.HeaderUserRoles,
}

// forwardIdentity drops identity headers sent by the client and sets them
// from the claims the API Gateway JWT authorizer verified. Without claims the
// request stays anonymous.
func forwardIdentity(headers map[string]string, authorizer *events.APIGatewayV2HTTPRequestContextAuthorizerDescription) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	for key := range headers {
		for _, h := range identityHeaders {
			if strings.EqualFold(key, h) {
				delete(headers, key)
			}
		}
	}

	if authorizer == nil || authorizer.JWT == nil {
		return headers
	}
	claims := authorizer.JWT.Claims
	sub := claims["sub"]
	if sub == "" {
		return headers
	}

	headers[gatewayHeader] = "true"
	headers[strings.ToLower(middleware.HeaderUserID)] = sub
	if email := claims["email"]; email != "" {
		headers[strings.ToLower(middleware.HeaderUserEmail)] = email
	}
	roles := claims["roles"]
	if roles == "" {
		roles = claims["custom:roles"]
	}
	if roles = normalizeRoles(roles); roles != "" {
		headers[strings.ToLower(middleware.HeaderUserRoles)] = roles
	}
	return headers
}

// normalizeRoles turns the authorizer's rendering of a list claim,
// "[brigadista encargado]", into "brigadista,encargado"
func normalizeRoles(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '"'
	})
	return strings.Join(fields, ",")
}
