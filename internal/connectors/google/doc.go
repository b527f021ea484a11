// Package google provides the Google API side of the connector.
//
// It contains:
//   - Factory, which builds one API client per configured service
//   - ScriptClient, which runs Apps Script functions through the Execution API
//   - TokenSource adapter to bridge the connector's TokenProvider to oauth2.TokenSource
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - An optional rate limiter for script executions
//
// # Usage
//
//	factory := google.NewFactory(google.WithRateLimit(cfg.RateLimit))
//	client, err := factory.NewClient(ctx, domain.ServiceScript, "v1", connector)
//
// # Services
//
// Only the API version each Go client package implements can be built:
//   - script v1 (google.golang.org/api/script/v1)
//   - drive v3 (google.golang.org/api/drive/v3)
//   - sheets v4 (google.golang.org/api/sheets/v4)
//   - forms v1 (google.golang.org/api/forms/v1)
package google
