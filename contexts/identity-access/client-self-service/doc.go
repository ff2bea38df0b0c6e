// Package clientselfservice implements delegated self-service management of
// OAuth/OIDC clients for end users of the platform.
//
// Layering:
// - domain: client entity, manager ACL rules, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for the client directory, identity directory,
//   token authority, and audit stream
// - adapters: concrete HTTP, memory, postgres, token, and event publisher
//   implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Do not import other context adapters into domain/application.
package clientselfservice
