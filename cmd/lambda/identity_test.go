package main

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestForwardIdentity_StripsClientHeaders(t *testing.T) {
	headers := map[string]string{
		"x-user-id":                "intruder",
		"X-User-Roles":             "encargado",
		"x-api-gateway-authorized": "true",
		"accept":                   "application/json",
	}

	got := forwardIdentity(headers, nil)

	assert.Equal(t, map[string]string{"accept": "application/json"}, got)
}

func TestForwardIdentity_FromClaims(t *testing.T) {
	authorizer := &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
		JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
			Claims: map[string]string{
				"sub":          "user-7",
				"email":        "ana@ifn.example",
				"custom:roles": "[brigadista encargado]",
			},
		},
	}

	got := forwardIdentity(map[string]string{"x-user-id": "intruder"}, authorizer)

	assert.Equal(t, "true", got["x-api-gateway-authorized"])
	assert.Equal(t, "user-7", got["x-user-id"])
	assert.Equal(t, "ana@ifn.example", got["x-user-email"])
	assert.Equal(t, "brigadista,encargado", got["x-user-roles"])
}

func TestForwardIdentity_NoSubject(t *testing.T) {
	authorizer := &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
		JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
			Claims: map[string]string{"email": "ana@ifn.example"},
		},
	}

	got := forwardIdentity(nil, authorizer)

	assert.Empty(t, got)
}

func TestNormalizeRoles(t *testing.T) {
	tests := map[string]string{
		"":                           "",
		"encargado":                  "encargado",
		"brigadista,encargado":       "brigadista,encargado",
		"[brigadista encargado]":     "brigadista,encargado",
		`["brigadista","encargado"]`: "brigadista,encargado",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeRoles(in), in)
	}
}
