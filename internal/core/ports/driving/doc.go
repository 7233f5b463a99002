// Package driving defines interfaces that external actors (CLI, HTTP
// handlers) use to interact with core services. These are the "driving"
// ports in hexagonal architecture terminology - they drive the application.
//
// The transport itself (HTTP routing, request validation) is outside
// this repository; adapters pass an opaque session identifier per call
// and the core never trusts ownership claims beyond that identifier.
//
// Implementations of these interfaces live in internal/core/services.
package driving
