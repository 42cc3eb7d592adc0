package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditfeed-io/feedctl/internal/client"
	internalhttp "github.com/auditfeed-io/feedctl/internal/http"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

func newSubscriptionsClient(t *testing.T, handler http.HandlerFunc) *client.SubscriptionsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := internalhttp.NewClient(server.URL, &fakeTokenManager{token: "test-token"})

	return client.NewSubscriptionsClient(httpClient, "test-tenant")
}

func TestSubscriptionsClient_List(t *testing.T) {
	t.Run("returns subscriptions", func(t *testing.T) {
		calls := 0

		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++

			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/api/v1.0/test-tenant/activity/feed/subscriptions/list", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`[
				{"contentType":"Audit.AzureActiveDirectory","status":"enabled","webhook":null},
				{"contentType":"Audit.SharePoint","status":"disabled","webhook":{"status":"enabled","address":"https://hook.example.com"}}
			]`))
		})

		subscriptions, err := subsClient.List(context.Background())
		require.NoError(t, err)
		require.Len(t, subscriptions, 2)
		assert.Equal(t, 1, calls)

		assert.Equal(t, "Audit.AzureActiveDirectory", subscriptions[0].ContentType)
		assert.Equal(t, "enabled", subscriptions[0].Status)
		assert.Nil(t, subscriptions[0].Webhook)

		assert.Equal(t, "Audit.SharePoint", subscriptions[1].ContentType)
		require.NotNil(t, subscriptions[1].Webhook)
		assert.Equal(t, "https://hook.example.com", subscriptions[1].Webhook.Address)
	})

	t.Run("empty list", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		subscriptions, err := subsClient.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, subscriptions)
	})

	t.Run("maps API errors", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"AF10001","message":"Authorization has been denied"}}`))
		})

		subscriptions, err := subsClient.List(context.Background())
		require.Error(t, err)
		assert.True(t, o365.IsAPIError(err))
		assert.Equal(t, o365.ExitAPI, o365.ExitCode(err))
		assert.Contains(t, err.Error(), "Authorization has been denied")
		assert.Nil(t, subscriptions)
	})
}

func TestSubscriptionsClient_Start(t *testing.T) {
	t.Run("starts a subscription", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/api/v1.0/test-tenant/activity/feed/subscriptions/start", r.URL.Path)
			assert.Equal(t, "Audit.AzureActiveDirectory", r.URL.Query().Get("contentType"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(body))

			_, _ = w.Write([]byte(`{"contentType":"Audit.AzureActiveDirectory","status":"enabled","webhook":null}`))
		})

		subscription, err := subsClient.Start(context.Background(), "Audit.AzureActiveDirectory", nil)
		require.NoError(t, err)
		require.NotNil(t, subscription)
		assert.Equal(t, "Audit.AzureActiveDirectory", subscription.ContentType)
		assert.Equal(t, "enabled", subscription.Status)
	})

	t.Run("sends webhook registration", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Webhook *o365.Webhook `json:"webhook"`
			}

			err := json.NewDecoder(r.Body).Decode(&payload)
			require.NoError(t, err)
			require.NotNil(t, payload.Webhook)
			assert.Equal(t, "https://hook.example.com", payload.Webhook.Address)

			_, _ = w.Write([]byte(`{"contentType":"Audit.SharePoint","status":"enabled","webhook":{"status":"enabled","address":"https://hook.example.com"}}`))
		})

		subscription, err := subsClient.Start(context.Background(), "Audit.SharePoint", &client.StartOptions{
			Webhook: &o365.Webhook{Address: "https://hook.example.com"},
		})
		require.NoError(t, err)
		require.NotNil(t, subscription.Webhook)
		assert.Equal(t, "https://hook.example.com", subscription.Webhook.Address)
	})

	t.Run("requires content type", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})

		subscription, err := subsClient.Start(context.Background(), "", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, o365.ErrContentTypeRequired)
		assert.Nil(t, subscription)
	})
}

func TestSubscriptionsClient_Stop(t *testing.T) {
	t.Run("stops a subscription", func(t *testing.T) {
		calls := 0

		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++

			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/api/v1.0/test-tenant/activity/feed/subscriptions/stop", r.URL.Path)
			assert.Equal(t, "Audit.AzureActiveDirectory", r.URL.Query().Get("contentType"))

			w.WriteHeader(http.StatusNoContent)
		})

		err := subsClient.Stop(context.Background(), "Audit.AzureActiveDirectory")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("requires content type", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})

		err := subsClient.Stop(context.Background(), "")
		require.Error(t, err)
		require.ErrorIs(t, err, o365.ErrContentTypeRequired)
	})

	t.Run("maps API errors", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"AF20023","message":"The subscription is disabled"}}`))
		})

		err := subsClient.Stop(context.Background(), "Audit.AzureActiveDirectory")
		require.Error(t, err)
		assert.True(t, o365.IsAPIError(err))
		assert.Contains(t, err.Error(), "The subscription is disabled")
	})
}

func TestSubscriptionsClient_Content(t *testing.T) {
	t.Run("lists content blobs", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/api/v1.0/test-tenant/activity/feed/subscriptions/content", r.URL.Path)
			assert.Equal(t, "Audit.AzureActiveDirectory", r.URL.Query().Get("contentType"))

			_, _ = w.Write([]byte(`[
				{
					"contentUri":"https://manage.office.com/api/v1.0/test-tenant/activity/feed/audit/blob-1",
					"contentId":"blob-1",
					"contentType":"Audit.AzureActiveDirectory",
					"contentCreated":"2024-01-01T10:00:00.000Z",
					"contentExpiration":"2024-01-08T10:00:00.000Z"
				}
			]`))
		})

		blobs, err := subsClient.Content(context.Background(), "Audit.AzureActiveDirectory", nil)
		require.NoError(t, err)
		require.Len(t, blobs, 1)
		assert.Equal(t, "blob-1", blobs[0].ContentID)
		assert.Equal(t, "2024-01-01T10:00:00.000Z", blobs[0].ContentCreated)
		assert.Contains(t, blobs[0].ContentURI, "blob-1")
	})

	t.Run("passes time window", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2024-01-01T00:00:00", r.URL.Query().Get("startTime"))
			assert.Equal(t, "2024-01-02T00:00:00", r.URL.Query().Get("endTime"))

			_, _ = w.Write([]byte(`[]`))
		})

		blobs, err := subsClient.Content(context.Background(), "Audit.AzureActiveDirectory", &client.ContentOptions{
			StartTime: "2024-01-01T00:00:00",
			EndTime:   "2024-01-02T00:00:00",
		})
		require.NoError(t, err)
		assert.Empty(t, blobs)
	})

	t.Run("requires content type", func(t *testing.T) {
		subsClient := newSubscriptionsClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})

		blobs, err := subsClient.Content(context.Background(), "", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, o365.ErrContentTypeRequired)
		assert.Nil(t, blobs)
	})
}
