package contact_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/config"
	"github.com/estatery/realty-client/internal/services/contact"
	"github.com/estatery/realty-client/internal/testutil"
)

func newService(t *testing.T) (*contact.Service, *testutil.Server) {
	t.Helper()
	server := testutil.NewServer()
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(config.APIClient{BaseURL: server.URL, Timeout: 5 * time.Second}, log)
	return contact.New(client), server
}

func TestSubmit_Valid(t *testing.T) {
	svc, server := newService(t)

	id, err := svc.Submit(context.Background(), contact.Request{
		Name:       "Ivan Petrov",
		Email:      "ivan@example.com",
		Phone:      "+966501234567",
		Message:    "I would like to schedule a viewing of this property.",
		PropertyID: "42",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	contacts := server.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "ivan@example.com", contacts[0]["email"])
	assert.Equal(t, "42", contacts[0]["property_id"])
}

func TestSubmit_InvalidPayloadNeverHitsNetwork(t *testing.T) {
	svc, server := newService(t)

	tests := []struct {
		name string
		req  contact.Request
	}{
		{
			name: "missing email",
			req:  contact.Request{Name: "Ivan", Message: "A long enough message here."},
		},
		{
			name: "bad email",
			req:  contact.Request{Name: "Ivan", Email: "not-an-email", Message: "A long enough message here."},
		},
		{
			name: "message too short",
			req:  contact.Request{Name: "Ivan", Email: "ivan@example.com", Message: "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			require.Error(t, err)

			apiErr, ok := api.AsError(err)
			require.True(t, ok)
			assert.Equal(t, api.KindValidation, apiErr.Kind)
		})
	}

	// Ни одна невалидная заявка до сервера не дошла.
	assert.Empty(t, server.Contacts())
}
