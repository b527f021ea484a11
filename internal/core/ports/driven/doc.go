// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TokenStore: Token bundle persistence
//   - Authorizer: Token refresh and the interactive OAuth grant
//   - ServiceFactory: Builds one API client per configured service
//   - ConfigStore: Connector configuration persistence
//
// # Client Interfaces
//
//   - ServiceClient: An initialised client held in the service registry
//   - ScriptRunner: Implemented by the "script" client to run functions
//   - TokenProvider: Supplies access tokens to clients, refreshing as needed
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
