package properties_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/config"
	"github.com/estatery/realty-client/internal/models"
	"github.com/estatery/realty-client/internal/services/properties"
	"github.com/estatery/realty-client/internal/testutil"
)

func newService(t *testing.T) (*properties.Service, *testutil.Server, *api.Client) {
	t.Helper()
	server := testutil.NewServer()
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(config.APIClient{BaseURL: server.URL, Timeout: 5 * time.Second}, log)
	return properties.New(client), server, client
}

func loginAs(t *testing.T, client *api.Client, email, password string) {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	err := client.Post(context.Background(), "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	require.NoError(t, err)
	client.SetToken(resp.Token)
}

func seed(server *testutil.Server) (riyadhID, jeddahID string) {
	riyadhID = server.AddProperty(models.Property{
		Title:    "Modern apartment in Olaya",
		Price:    850000,
		Currency: "SAR",
		Type:     "apartment",
		Status:   models.PropertyStatusActive,
		Bedrooms: 3,
		City:     "Riyadh",
	})
	jeddahID = server.AddProperty(models.Property{
		Title:    "Seafront villa",
		Price:    2400000,
		Currency: "SAR",
		Type:     "villa",
		Status:   models.PropertyStatusActive,
		Bedrooms: 5,
		City:     "Jeddah",
	})
	return riyadhID, jeddahID
}

func TestList_NoFilterReturnsAll(t *testing.T) {
	svc, server, _ := newService(t)
	seed(server)

	got, err := svc.List(context.Background(), models.PropertyFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestList_FilterByCityAndPrice(t *testing.T) {
	svc, server, _ := newService(t)
	riyadhID, _ := seed(server)

	maxPrice := int64(1000000)
	got, err := svc.List(context.Background(), models.PropertyFilter{
		City:     "Riyadh",
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, riyadhID, got[0].ID)
}

func TestList_FilterByBedrooms(t *testing.T) {
	svc, server, _ := newService(t)
	_, jeddahID := seed(server)

	rooms := 5
	got, err := svc.List(context.Background(), models.PropertyFilter{Bedrooms: &rooms})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jeddahID, got[0].ID)
}

func TestSearch(t *testing.T) {
	svc, server, _ := newService(t)
	_, jeddahID := seed(server)

	got, err := svc.Search(context.Background(), "seafront")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jeddahID, got[0].ID)
}

func TestGet_Existing(t *testing.T) {
	svc, server, _ := newService(t)
	riyadhID, _ := seed(server)

	got, err := svc.Get(context.Background(), riyadhID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Modern apartment in Olaya", got.Title)
}

func TestGet_Missing(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Get(context.Background(), "no-such-id")
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "property not found", apiErr.Message)
}

func TestCreateUpdateDelete_AsAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, client := newService(t)
	loginAs(t, client, testutil.AdminEmail, testutil.AdminPassword)

	created, err := svc.Create(ctx, models.PropertyDraft{
		Title:    "Office space downtown",
		Price:    500000,
		Currency: "SAR",
		Type:     "office",
		City:     "Riyadh",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.PropertyStatusActive, created.Status)

	updated, err := svc.Update(ctx, created.ID, models.PropertyDraft{
		Title:    "Office space downtown",
		Price:    450000,
		Currency: "SAR",
		Type:     "office",
		Status:   models.PropertyStatusSold,
		City:     "Riyadh",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(450000), updated.Price)
	assert.Equal(t, models.PropertyStatusSold, updated.Status)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.Error(t, err)
}

func TestCreate_ForbiddenForRegularUser(t *testing.T) {
	svc, _, client := newService(t)
	loginAs(t, client, testutil.UserEmail, testutil.UserPassword)

	_, err := svc.Create(context.Background(), models.PropertyDraft{Title: "Sneaky listing"})
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
