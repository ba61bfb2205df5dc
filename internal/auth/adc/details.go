package adc

import (
	"fmt"
	"os"
	"time"
)

// State represents the credential state.
type State int

const (
	// StateConfigured means credentials are configured.
	StateConfigured State = iota
	// StateMissing means no credentials were found.
	StateMissing
	// StateInvalid means credentials were found but are malformed.
	StateInvalid
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	}
	return "invalid"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Details describes the credentials the store would use.
type Details struct {
	State         State     `json:"state" yaml:"state"`
	Type          string    `json:"type,omitempty" yaml:"type,omitempty"`       // "User Credentials" | "Service Account"
	Account       string    `json:"account,omitempty" yaml:"account,omitempty"` // Email address or client ID
	Project       string    `json:"project,omitempty" yaml:"project,omitempty"`
	ProjectSource string    `json:"project_source,omitempty" yaml:"project_source,omitempty"`
	Path          string    `json:"path,omitempty" yaml:"path,omitempty"`
	Source        string    `json:"source,omitempty" yaml:"source,omitempty"`
	LastModified  time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	ErrorMessage  string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// BuildDetails inspects the credentials that Resolve would pick.
// Performs local inspection only; no network calls are made.
func BuildDetails(configured string) *Details {
	path, source := FindFile(configured)
	if path == "" {
		return &Details{
			State:        StateMissing,
			ErrorMessage: "No credentials found. Set credentials_file or run: gcloud auth application-default login",
		}
	}

	file, err := ParseFile(path)
	if err != nil {
		return &Details{
			State:        StateInvalid,
			Path:         path,
			Source:       source,
			ErrorMessage: fmt.Sprintf("credentials file invalid: %v", err),
		}
	}

	details := &Details{
		State:        StateConfigured,
		Type:         credentialType(file.Type),
		Account:      accountIdentifier(file),
		Path:         path,
		Source:       source,
		LastModified: fileModTime(path),
	}
	details.Project, details.ProjectSource = resolveProject(file)
	return details
}

func credentialType(adcType string) string {
	if adcType == TypeServiceAccount {
		return "Service Account"
	}
	return "User Credentials"
}

// accountIdentifier prefers an email address and falls back to the client ID.
func accountIdentifier(file *File) string {
	switch {
	case file.ClientEmail != "":
		return file.ClientEmail
	case file.Account != "":
		return file.Account
	case file.ClientID != "":
		return "(client ID: " + file.ClientID + ")"
	}
	return ""
}

func fileModTime(path string) time.Time {
	if stat, err := os.Stat(path); err == nil {
		return stat.ModTime()
	}
	return time.Time{}
}

// resolveProject determines the project ID.
//
// Priority order:
//  1. quota_project_id
//  2. project_id
//  3. gcloud config (core.project)
func resolveProject(file *File) (project, source string) {
	if file.QuotaProjectID != "" {
		return file.QuotaProjectID, "credentials (quota_project_id)"
	}
	if file.ProjectID != "" {
		return file.ProjectID, "credentials (project_id)"
	}
	if configProject := ReadConfig("project"); configProject != "" {
		return configProject, "gcloud config"
	}
	return "", "not set"
}

// FormatBrief creates a one-line summary of the credential status.
func FormatBrief(d *Details) string {
	if d.State != StateConfigured {
		return d.ErrorMessage
	}
	project := "no project set"
	if d.Project != "" {
		project = "project " + d.Project
	}
	return fmt.Sprintf("%s %s (%s), %s", d.Type, d.Account, d.Source, project)
}
