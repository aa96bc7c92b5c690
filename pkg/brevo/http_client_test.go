package brevo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientFetchContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointContacts {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"contacts":[{"email":"a@example.com","id":7,"createdAt":"2026-10-01T10:00:00.000+02:00"}],"count":12}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	resp, err := client.FetchContacts(context.Background(), dashboard.DefaultPage)
	require.NoError(t, err)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "a@example.com", resp.Contacts[0].Email)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 12, *resp.Count)
}

func TestHTTPClientFetchCampaignsPartialStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointCampaigns {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"count":2,"campaigns":[{"id":1,"name":"Launch","status":"sent","statistics":{"globalStats":{"sent":10}}},{"id":2,"name":"Draft","status":"draft"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/", APIKey: "secret"})
	require.NoError(t, err)

	resp, err := client.FetchCampaigns(context.Background(), dashboard.Page{Limit: 10, Offset: 20})
	require.NoError(t, err)
	rows := dashboard.ParseCampaigns(resp)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(10), rows[0].Sent)
	assert.Zero(t, rows[1].Delivered)
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "bad"})
	require.NoError(t, err)

	_, err = client.FetchContacts(context.Background(), dashboard.DefaultPage)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Equal(t, EndpointContacts, remote.Endpoint)
	assert.Contains(t, remote.Body, "Key not found")
}

func TestHTTPClientRequiresKey(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{BaseURL: "http://localhost"})
	require.Error(t, err)
}

func TestHTTPClientDefaults(t *testing.T) {
	client, err := NewHTTPClient(HTTPConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.client.Timeout)
}
