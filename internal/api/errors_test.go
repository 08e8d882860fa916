package api_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatery/realty-client/internal/api"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind api.Kind
		want string
	}{
		{api.KindValidation, "validation"},
		{api.KindTransport, "transport"},
		{api.KindUnauthorized, "unauthorized"},
		{api.KindServer, "server"},
		{api.KindUnknown, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestError_ErrorFormat(t *testing.T) {
	withStatus := &api.Error{
		Kind:    api.KindServer,
		Method:  "GET",
		Path:    "/properties",
		Status:  500,
		Message: "boom",
	}
	assert.Equal(t, "GET /properties: boom (status 500)", withStatus.Error())

	noStatus := &api.Error{
		Kind:    api.KindTransport,
		Method:  "POST",
		Path:    "/contact",
		Message: "request failed",
	}
	assert.Equal(t, "POST /contact: request failed", noStatus.Error())
}

func TestAsError_ThroughWrapping(t *testing.T) {
	apiErr := &api.Error{Kind: api.KindUnauthorized, Method: "GET", Path: "/auth/me", Status: 401, Message: "nope"}
	wrapped := fmt.Errorf("session.Store.Login: %w", apiErr)

	got, ok := api.AsError(wrapped)
	require.True(t, ok)
	assert.Same(t, apiErr, got)
	assert.True(t, api.IsUnauthorized(wrapped))
}

func TestMessage(t *testing.T) {
	apiErr := &api.Error{Kind: api.KindServer, Message: "boom"}
	assert.Equal(t, "boom", api.Message(fmt.Errorf("op: %w", apiErr)))

	plain := errors.New("plain failure")
	assert.Equal(t, "plain failure", api.Message(plain))

	assert.Empty(t, api.Message(nil))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	apiErr := &api.Error{Kind: api.KindTransport, Message: "no response", Err: cause}

	assert.ErrorIs(t, apiErr, cause)
}
