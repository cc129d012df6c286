/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	token string

	appID          int64
	installationID int64
	privateKeyPath string

	httpClient *http.Client
}

// WithToken authenticates with a personal access token.
func WithToken(token string) Option {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithAppCredentials authenticates as a GitHub App installation using a
// private key on disk.
func WithAppCredentials(appID, installationID int64, privateKeyPath string) Option {
	return func(c *clientConfig) {
		c.appID = appID
		c.installationID = installationID
		c.privateKeyPath = privateKeyPath
	}
}

// WithHTTPClient supplies a pre-authenticated HTTP client, bypassing token
// and App auth. Tests use this to point the client at a fixture server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// Client talks to one repository and one classic project board.
type Client struct {
	gh  *github.Client
	gql *githubv4.Client

	owner         string
	repo          string
	projectNumber int
}

// NewClient constructs a Client for owner/repo and the given project board
// number. Exactly one authentication option must be provided.
func NewClient(ctx context.Context, owner, repo string, projectNumber int, opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := cfg.httpClient
	switch {
	case hc != nil:
		// pre-built transport, nothing to do
	case cfg.token != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.token}))
	case cfg.appID != 0:
		tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.appID, cfg.installationID, cfg.privateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("creating app installation transport: %w", err)
		}
		hc = &http.Client{Transport: tr}
	default:
		return nil, errors.New("either a token or GitHub App credentials are required")
	}

	gh := github.NewClient(hc)
	return &Client{
		gh:            gh,
		gql:           githubv4.NewClient(gh.Client()),
		owner:         owner,
		repo:          repo,
		projectNumber: projectNumber,
	}, nil
}
