// Package adc locates and validates Google credentials for the
// spreadsheet store: an explicitly configured file, or Application
// Default Credentials.
package adc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/sheetsync/pkg/errors"
)

const (
	// TypeAuthorizedUser represents user credentials from gcloud auth.
	TypeAuthorizedUser = "authorized_user"
	// TypeServiceAccount represents service account credentials.
	TypeServiceAccount = "service_account"
)

// Source names where a credentials file was found.
const (
	SourceConfigured = "configured"
	SourceEnv        = "env (GOOGLE_APPLICATION_CREDENTIALS)"
	SourceGcloud     = "gcloud default"
)

// File represents a Google credentials JSON file.
type File struct {
	Type           string `json:"type"`
	QuotaProjectID string `json:"quota_project_id"`
	ProjectID      string `json:"project_id"`
	Account        string `json:"account"`
	ClientEmail    string `json:"client_email"`
	ClientID       string `json:"client_id"`
	UniverseDomain string `json:"universe_domain"`
}

// FindFile locates a credentials file. Returns empty strings if none exists.
//
// Search order:
//  1. The configured path, when it exists
//  2. GOOGLE_APPLICATION_CREDENTIALS environment variable
//  3. Default location: ~/.config/gcloud/application_default_credentials.json
func FindFile(configured string) (path, source string) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, SourceConfigured
		}
	}

	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, SourceEnv
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	defaultPath := filepath.Join(home, ".config/gcloud/application_default_credentials.json")
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, SourceGcloud
	}

	return "", ""
}

// ParseFile reads and validates a credentials JSON file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- Reading a credential file chosen by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &errors.AuthenticationError{Service: "sheets", Method: "credentials_file", Message: "invalid JSON", Err: err}
	}

	switch file.Type {
	case "":
		return nil, &errors.AuthenticationError{Service: "sheets", Method: "credentials_file", Message: "missing 'type' field"}
	case TypeAuthorizedUser, TypeServiceAccount:
		return &file, nil
	}
	return nil, &errors.AuthenticationError{Service: "sheets", Method: file.Type, Message: "unknown credential type"}
}

// Resolve finds and validates the credentials to use, returning the path.
func Resolve(configured string) (string, *File, error) {
	path, _ := FindFile(configured)
	if path == "" {
		message := "no credentials found"
		if configured != "" {
			message = "credentials file " + configured + " not found and no default credentials available"
		}
		return "", nil, &errors.AuthenticationError{Service: "sheets", Method: "credentials_file", Message: message}
	}
	file, err := ParseFile(path)
	if err != nil {
		return path, nil, err
	}
	return path, file, nil
}
