// Package oauth implements driven.Authorizer with Google's installed-app
// OAuth flow.
//
// Grant sends the user to Google's consent page, receives the authorisation
// code on a loopback redirect and exchanges it using PKCE. Refresh exchanges
// a refresh token for a new access token. Both use golang.org/x/oauth2.
//
// The loopback listener and the browser opener are injected, so the flow can
// run headless in tests and print the URL when no browser is available.
package oauth
