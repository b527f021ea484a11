package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
	"github.com/custodia-labs/gdp-connector/internal/logger"
)

// Ensure InstalledAppFlow implements the interface.
var _ driven.Authorizer = (*InstalledAppFlow)(nil)

// ErrNoReceiver is returned by Grant when no callback receiver is configured.
var ErrNoReceiver = errors.New("oauth: no callback receiver configured")

// Receiver receives the authorisation code from the browser redirect.
type Receiver interface {
	// RedirectURI is the URI Google redirects to after consent.
	RedirectURI() string
	// WaitForCode blocks until the code arrives or the wait ends.
	WaitForCode(ctx context.Context, timeout time.Duration) (string, error)
	// Stop releases the receiver.
	Stop() error
}

// ListenFunc starts a Receiver that accepts only callbacks carrying state.
type ListenFunc func(state string) (Receiver, error)

// InstalledAppFlow runs the OAuth installed-app flow against the client
// described by a credentials file.
type InstalledAppFlow struct {
	credentialsFile string
	timeout         time.Duration
	listen          ListenFunc
	openBrowser     func(url string) error
	out             io.Writer
	httpClient      *http.Client
}

// Option configures an InstalledAppFlow.
type Option func(*InstalledAppFlow)

// WithListener sets how the callback receiver is started.
func WithListener(listen ListenFunc) Option {
	return func(f *InstalledAppFlow) {
		f.listen = listen
	}
}

// WithBrowser sets the function used to open the consent page.
// Without it the URL is only printed.
func WithBrowser(open func(url string) error) Option {
	return func(f *InstalledAppFlow) {
		f.openBrowser = open
	}
}

// WithOutput sets where the consent URL is printed. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(f *InstalledAppFlow) {
		f.out = w
	}
}

// WithTimeout bounds how long Grant waits for the redirect.
func WithTimeout(d time.Duration) Option {
	return func(f *InstalledAppFlow) {
		f.timeout = d
	}
}

// WithHTTPClient sets the client used to reach the token endpoint.
func WithHTTPClient(c *http.Client) Option {
	return func(f *InstalledAppFlow) {
		f.httpClient = c
	}
}

// NewInstalledAppFlow creates a flow for the client in credentialsFile.
func NewInstalledAppFlow(credentialsFile string, opts ...Option) *InstalledAppFlow {
	f := &InstalledAppFlow{
		credentialsFile: credentialsFile,
		timeout:         domain.DefaultCallbackTimeout,
		out:             os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Grant runs the interactive consent flow and exchanges the resulting code.
func (f *InstalledAppFlow) Grant(ctx context.Context, scopes []string) (*domain.Token, error) {
	cfg, err := f.loadConfig(scopes)
	if err != nil {
		return nil, err
	}
	if f.listen == nil {
		return nil, ErrNoReceiver
	}

	state := uuid.NewString()
	receiver, err := f.listen(state)
	if err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() {
		if err := receiver.Stop(); err != nil {
			logger.Debug("Failed to stop callback server: %v", err)
		}
	}()

	cfg.RedirectURL = receiver.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	_, _ = fmt.Fprintf(f.out, "Please visit this URL to authorize this application: %s\n", authURL)
	if f.openBrowser != nil {
		if err := f.openBrowser(authURL); err != nil {
			logger.Warn("Could not open browser: %v", err)
		}
	}

	code, err := receiver.WaitForCode(ctx, f.timeout)
	if err != nil {
		return nil, fmt.Errorf("wait for authorization code: %w", err)
	}

	tok, err := cfg.Exchange(f.context(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	result := fromOAuth2(tok, scopes)
	result.ClientID = cfg.ClientID
	result.ClientSecret = cfg.ClientSecret
	result.TokenURI = cfg.Endpoint.TokenURL
	return result, nil
}

// Refresh exchanges token.RefreshToken for a new access token. The client
// recorded in the token is used when present, otherwise the credentials file.
func (f *InstalledAppFlow) Refresh(ctx context.Context, token domain.Token) (*domain.Token, error) {
	if !token.HasRefreshToken() {
		return nil, domain.ErrNoRefreshToken
	}

	cfg, err := f.refreshConfig(token)
	if err != nil {
		return nil, err
	}

	src := cfg.TokenSource(f.context(ctx), &oauth2.Token{RefreshToken: token.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	return fromOAuth2(tok, nil), nil
}

func (f *InstalledAppFlow) loadConfig(scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(f.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file %s: %w", f.credentialsFile, err)
	}
	return cfg, nil
}

func (f *InstalledAppFlow) refreshConfig(token domain.Token) (*oauth2.Config, error) {
	if token.ClientID == "" {
		return f.loadConfig(token.Scopes)
	}

	endpoint := google.Endpoint
	if token.TokenURI != "" {
		endpoint.TokenURL = token.TokenURI
	}
	return &oauth2.Config{
		ClientID:     token.ClientID,
		ClientSecret: token.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       token.Scopes,
	}, nil
}

// context attaches the configured HTTP client for oauth2 requests.
func (f *InstalledAppFlow) context(ctx context.Context) context.Context {
	if f.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

// fromOAuth2 converts an oauth2 token. Granted scopes come from the "scope"
// field of the token response, falling back to requested.
func fromOAuth2(tok *oauth2.Token, requested []string) *domain.Token {
	result := &domain.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if granted, ok := tok.Extra("scope").(string); ok && granted != "" {
		result.Scopes = strings.Fields(granted)
	} else if len(requested) > 0 {
		result.Scopes = append([]string(nil), requested...)
	}
	return result
}
