package campaigns_test

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
	"github.com/estatery/realty-client/internal/models"
	"github.com/estatery/realty-client/internal/services/campaigns"
	"github.com/estatery/realty-client/internal/testutil"
)

func newService(t *testing.T) (*campaigns.Service, *testutil.Server) {
	t.Helper()
	server := testutil.NewServer()
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(config.APIClient{BaseURL: server.URL, Timeout: 5 * time.Second}, log)

	var resp struct {
		Token string `json:"token"`
	}
	err := client.Post(context.Background(), "/auth/login", map[string]string{
		"email":    testutil.AdminEmail,
		"password": testutil.AdminPassword,
	}, &resp)
	require.NoError(t, err)
	client.SetToken(resp.Token)

	return campaigns.New(client), server
}

func TestListAndGet(t *testing.T) {
	ctx := context.Background()
	svc, server := newService(t)

	id := server.AddCampaign(models.Campaign{
		PropertyID: "7",
		Name:       "Summer promo",
		Channel:    "social",
		Active:     true,
	})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Summer promo", list[0].Name)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "social", got.Channel)
}

func TestGet_Missing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Get(context.Background(), "no-such-campaign")
	require.Error(t, err)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindServer, apiErr.Kind)
}

func TestTrack(t *testing.T) {
	ctx := context.Background()
	svc, server := newService(t)
	id := server.AddCampaign(models.Campaign{Name: "Promo"})

	err := svc.Track(ctx, models.CampaignEvent{CampaignID: id, Kind: "click"})
	require.NoError(t, err)

	events := server.Events()
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].CampaignID)
	assert.Equal(t, "click", events[0].Kind)
}
