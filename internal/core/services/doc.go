// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Registry owns session lifecycle and hands each session its own
// document store and vector index; IngestService and QAService operate
// on sessions through it, and the Sweeper expires idle sessions in the
// background.
package services
