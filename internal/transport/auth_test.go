package transport

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/errors"
)

func newRequest(t *testing.T, raw string) *http.Request {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return &http.Request{URL: u, Header: make(http.Header)}
}

func TestNoAuth(t *testing.T) {
	req := newRequest(t, "https://example.com/data.csv")
	(&NoAuth{}).Apply(req, "secret")
	assert.Empty(t, req.Header)
	assert.Empty(t, req.URL.RawQuery)
}

func TestBearerAuth(t *testing.T) {
	req := newRequest(t, "https://example.com/data.csv")
	(&BearerAuth{}).Apply(req, "secret")
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := newRequest(t, "https://example.com/data.csv")
	(&HeaderAuth{Header: "X-Api-Key"}).Apply(req, "secret")
	assert.Equal(t, "secret", req.Header.Get("X-Api-Key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestQueryAuth(t *testing.T) {
	auth := &QueryAuth{Param: "token"}

	req := newRequest(t, "https://example.com/export?format=csv")
	auth.Apply(req, "secret")
	assert.Equal(t, "secret", req.URL.Query().Get("token"))
	assert.Equal(t, "csv", req.URL.Query().Get("format"), "existing parameters are kept")

	assert.NotPanics(t, func() {
		auth.Apply(&http.Request{Header: make(http.Header)}, "secret")
	})
}

func TestParseAuthenticator(t *testing.T) {
	tests := []struct {
		scheme  string
		want    Authenticator
		wantErr bool
	}{
		{scheme: "", want: &NoAuth{}},
		{scheme: "none", want: &NoAuth{}},
		{scheme: "Bearer", want: &BearerAuth{}},
		{scheme: "header:X-Token", want: &HeaderAuth{Header: "X-Token"}},
		{scheme: "query:key", want: &QueryAuth{Param: "key"}},
		{scheme: "header:", wantErr: true},
		{scheme: "query", wantErr: true},
		{scheme: "basic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			got, err := ParseAuthenticator(tt.scheme)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
