package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gemini-proxy-go/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth scope requested for upstream calls.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// State holds the one-time service identity bootstrap outcome. It is written
// exactly once at process start and read-only afterwards; every request in
// service identity mode consults it before touching the upstream.
type State struct {
	projectID string
	source    oauth2.TokenSource
	err       error

	mu sync.Mutex // guards token fetches through the source
}

// Bootstrap resolves the ambient Google identity (application default
// credentials). A failure is captured in the returned State rather than
// aborting startup: the service runs degraded and reports the failure per
// request until restarted.
func Bootstrap(ctx context.Context, cfg *config.Config) *State {
	st := &State{projectID: cfg.GoogleProjectID}

	creds, err := google.FindDefaultCredentials(ctx, CloudPlatformScope)
	if err != nil {
		st.err = fmt.Errorf("resolve application default credentials: %w", err)
		log.WithError(err).Error("service identity bootstrap failed; requests will fail with CONFIG_ERROR")
		return st
	}

	if st.projectID == "" {
		st.projectID = creds.ProjectID
	}
	if strings.TrimSpace(st.projectID) == "" {
		st.err = fmt.Errorf("no Google Cloud project configured and none found in credentials")
		log.Error("service identity bootstrap failed: missing project ID")
		return st
	}

	// Verify the identity can actually mint a token before declaring success.
	st.source = oauth2.ReuseTokenSource(nil, creds.TokenSource)
	if _, err := st.source.Token(); err != nil {
		st.source = nil
		st.err = fmt.Errorf("mint initial access token: %w", err)
		log.WithError(err).Error("service identity bootstrap failed; requests will fail with CONFIG_ERROR")
		return st
	}

	log.WithField("project_id", st.projectID).Info("service identity bootstrapped")
	return st
}

// NewStaticState builds a State from an explicit token source; used in tests
// and by deployments that inject a token source directly.
func NewStaticState(projectID string, source oauth2.TokenSource) *State {
	return &State{projectID: projectID, source: source}
}

// NewFailedState builds a State carrying a bootstrap error.
func NewFailedState(err error) *State {
	return &State{err: err}
}

// Err returns the captured bootstrap failure, if any.
func (s *State) Err() error {
	if s == nil {
		return fmt.Errorf("service identity not initialized")
	}
	return s.err
}

// ProjectID returns the resolved Google Cloud project.
func (s *State) ProjectID() string {
	if s == nil {
		return ""
	}
	return s.projectID
}

// AccessToken returns a currently valid access token, refreshing through the
// token source when needed. Safe for concurrent use.
func (s *State) AccessToken(ctx context.Context) (string, error) {
	if err := s.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.source.Token()
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	return tok.AccessToken, nil
}
