package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/errors"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "sheetsync-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,name\n1,Alice\n"))
	}))
	defer server.Close()

	client := New(&BearerAuth{}, WithToken("secret"), WithUserAgent("sheetsync-test"))
	body, err := client.Download(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Alice\n", string(body))
}

func TestDownloadWithoutTokenSkipsAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("id\n"))
	}))
	defer server.Close()

	_, err := New(&BearerAuth{}).Download(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestDownloadStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"not found", http.StatusNotFound, "no such export", errors.ErrNotFound},
		{"forbidden", http.StatusForbidden, "", errors.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, "slow down", errors.ErrRateLimited},
		{"server error", http.StatusBadGateway, "upstream", errors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(nil).Download(context.Background(), server.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, server.URL, apiErr.Endpoint)
			if tt.body == "" {
				assert.Equal(t, http.StatusText(tt.status), apiErr.Message)
			}
		})
	}
}

func TestDownloadCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("id\n"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Download(ctx, server.URL)
	assert.True(t, errors.IsCanceled(err))
}

func TestDownloadUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(nil).Download(context.Background(), url)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "download", apiErr.Service)
	assert.Equal(t, 0, apiErr.StatusCode)
}
