package transport

import (
	"net/http"
	"strings"

	"github.com/agentstation/sheetsync/pkg/errors"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// QueryAuth implements token as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, token string) {
	if req.URL == nil {
		return
	}
	query := req.URL.Query()
	query.Set(a.Param, token)
	req.URL.RawQuery = query.Encode()
}

// ParseAuthenticator builds an Authenticator from a scheme string:
// "" or "none", "bearer", "header:<name>" or "query:<param>".
func ParseAuthenticator(scheme string) (Authenticator, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(scheme), ":")
	switch strings.ToLower(kind) {
	case "", "none":
		return &NoAuth{}, nil
	case "bearer":
		return &BearerAuth{}, nil
	case "header":
		if arg == "" {
			return nil, &errors.ValidationError{Field: "endpoint_auth", Value: scheme, Message: "header scheme needs a header name"}
		}
		return &HeaderAuth{Header: arg}, nil
	case "query":
		if arg == "" {
			return nil, &errors.ValidationError{Field: "endpoint_auth", Value: scheme, Message: "query scheme needs a parameter name"}
		}
		return &QueryAuth{Param: arg}, nil
	}
	return nil, &errors.ValidationError{Field: "endpoint_auth", Value: scheme, Message: "unknown scheme " + kind}
}
