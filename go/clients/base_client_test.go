package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRequest_nonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	_, err := c.Get(context.Background(), "/admin")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Forbidden")
}

func TestMakeRequest_transportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewBaseClient(url)
	_, err := c.Get(context.Background(), "/leagues")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "failed to make request")
}

func TestWithBasicAuth(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	creds := &models.AdminCredentials{Username: "admin", Password: "secret"}

	_, err := c.Get(context.Background(), "/", WithBasicAuth(creds))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/", WithBasicAuth(nil))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", got[0])
	assert.Empty(t, got[1])
}

func TestSendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	var out struct {
		Message string `json:"message"`
	}
	err := c.SendJSON(context.Background(), http.MethodPut, "/x", map[string]int{"a": 1}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
}
