package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditfeed-io/feedctl/internal/client"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

var errAPIDown = errors.New("service unavailable")

// fakeSubscriptionAPI counts calls per operation and returns canned results.
type fakeSubscriptionAPI struct {
	listCalls    int
	startCalls   int
	stopCalls    int
	contentCalls int

	listErr    error
	startErr   error
	stopErr    error
	contentErr error
}

func (f *fakeSubscriptionAPI) List(ctx context.Context) ([]o365.Subscription, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	return []o365.Subscription{{ContentType: "Audit.AzureActiveDirectory", Status: "enabled"}}, nil
}

func (f *fakeSubscriptionAPI) Start(ctx context.Context, contentType string, opts *client.StartOptions) (*o365.Subscription, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}

	return &o365.Subscription{ContentType: contentType, Status: "enabled"}, nil
}

func (f *fakeSubscriptionAPI) Stop(ctx context.Context, contentType string) error {
	f.stopCalls++

	return f.stopErr
}

func (f *fakeSubscriptionAPI) Content(ctx context.Context, contentType string, opts *client.ContentOptions) ([]o365.ContentBlob, error) {
	f.contentCalls++
	if f.contentErr != nil {
		return nil, f.contentErr
	}

	return []o365.ContentBlob{{ContentID: "blob-1", ContentType: contentType}}, nil
}

func (f *fakeSubscriptionAPI) totalCalls() int {
	return f.listCalls + f.startCalls + f.stopCalls + f.contentCalls
}

func runMenu(t *testing.T, api SubscriptionAPI, input string) (*Menu, string) {
	t.Helper()

	var out bytes.Buffer

	menu := NewMenu(api, strings.NewReader(input), &out, "Audit.AzureActiveDirectory", nil)

	err := menu.Run(context.Background())
	require.NoError(t, err)

	return menu, out.String()
}

func TestMenu_Run(t *testing.T) {
	t.Run("choice 1 lists subscriptions once", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		_, output := runMenu(t, api, "1\n5\n")
		assert.Equal(t, 1, api.listCalls)
		assert.Equal(t, 1, api.totalCalls())
		assert.Contains(t, output, "Content Type: Audit.AzureActiveDirectory")
	})

	t.Run("choice 2 stops subscription once", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		_, output := runMenu(t, api, "2\n5\n")
		assert.Equal(t, 1, api.stopCalls)
		assert.Contains(t, output, "Stopped subscription for Audit.AzureActiveDirectory")
	})

	t.Run("choice 3 starts subscription once", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		_, output := runMenu(t, api, "3\n5\n")
		assert.Equal(t, 1, api.startCalls)
		assert.Contains(t, output, "Subscription started:")
	})

	t.Run("choice 4 lists content once", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		_, output := runMenu(t, api, "4\n5\n")
		assert.Equal(t, 1, api.contentCalls)
		assert.Contains(t, output, "Content ID:         blob-1")
	})

	t.Run("choice 5 exits without API calls", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		menu, output := runMenu(t, api, "5\n")
		assert.Equal(t, 0, api.totalCalls())
		assert.Equal(t, StateExited, menu.State())
		assert.Contains(t, output, "Bye")
	})

	t.Run("invalid choice issues no call and continues", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		menu, output := runMenu(t, api, "9\n1\n5\n")
		assert.Contains(t, output, `Invalid choice "9", enter 1-5`)
		assert.Equal(t, 1, api.listCalls)
		assert.Equal(t, StateExited, menu.State())
	})

	t.Run("whitespace around choice is trimmed", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		_, _ = runMenu(t, api, "  1  \n5\n")
		assert.Equal(t, 1, api.listCalls)
	})

	t.Run("API error warns and continues", func(t *testing.T) {
		api := &fakeSubscriptionAPI{listErr: errAPIDown}

		menu, output := runMenu(t, api, "1\n4\n5\n")
		assert.Contains(t, output, "[!] listing subscriptions: service unavailable")
		assert.Equal(t, 1, api.contentCalls)
		assert.Equal(t, StateExited, menu.State())
	})

	t.Run("auth failure ends the session", func(t *testing.T) {
		authErr := fmt.Errorf("getting token: %w", &o365.AuthError{Message: "token acquisition failed", Err: o365.ErrTokenLiteralNull})
		api := &fakeSubscriptionAPI{listErr: authErr}

		var out bytes.Buffer

		menu := NewMenu(api, strings.NewReader("1\n4\n5\n"), &out, "Audit.AzureActiveDirectory", nil)

		err := menu.Run(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, o365.ErrTokenLiteralNull)
		assert.Equal(t, o365.ExitAuth, o365.ExitCode(err))
		assert.Equal(t, StateExited, menu.State())
		assert.Equal(t, 0, api.contentCalls)
		assert.NotContains(t, out.String(), "[!]")
	})

	t.Run("null token from the grant ends the session", func(t *testing.T) {
		login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "null"})
		}))
		defer login.Close()

		apiClient, err := client.New(&o365.Config{
			TenantID:      "test-tenant",
			ClientID:      "client-id",
			ClientSecret:  "client-secret",
			LoginEndpoint: login.URL,
			APIEndpoint:   "http://api.invalid",
		})
		require.NoError(t, err)

		var out bytes.Buffer

		menu := NewMenu(apiClient.Subscriptions(), strings.NewReader("1\n5\n"), &out, "Audit.AzureActiveDirectory", nil)

		err = menu.Run(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, o365.ErrTokenLiteralNull)
		assert.Equal(t, o365.ExitAuth, o365.ExitCode(err))
		assert.Equal(t, StateExited, menu.State())
	})

	t.Run("end of input exits the loop", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		menu, _ := runMenu(t, api, "1\n")
		assert.Equal(t, 1, api.listCalls)
		assert.Equal(t, StateExited, menu.State())
	})

	t.Run("prompt names the configured content type", func(t *testing.T) {
		api := &fakeSubscriptionAPI{}

		var out bytes.Buffer

		menu := NewMenu(api, strings.NewReader("5\n"), &out, "Audit.Exchange", nil)

		err := menu.Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Audit subscription menu (Audit.Exchange)")
		assert.Contains(t, out.String(), "5) Exit")
		assert.Equal(t, StateExited, menu.State())
	})
}
