// Package model defines the core data structures shared across adoperator.
//
// This package contains the following main types:
//   - Analysis: one product's pass through the five-stage pipeline
//   - Status and Step: the backend-owned stage marker and the wizard step it maps to
//   - Product: the free-text product record submitted by the user
//   - StrategicAnalysis, AdVariations, AudienceSimulation, Decision: stage payloads
//
// Design decision: Payloads returned by the backend are produced by a language model
// and their shapes drift between schema versions. Every payload keeps the verbatim
// JSON it was decoded from and exposes only the fields the client renders, decoded
// through the tolerant Text type. Shape differences are normalized here, at the
// network boundary, so the wizard and report layers never branch on schema versions.
package model
