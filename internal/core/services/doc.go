// Package services implements the driving port interfaces.
// Services contain the core logic of the connector and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. They reach infrastructure only
// through the driven ports.
package services
