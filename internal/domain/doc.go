// Package domain defines the core domain types for the SEBX blueprint toolkit.
//
// This package contains the value objects shared by the mapping registry,
// conversion engine, and analytics engine, plus the typed error taxonomy
// the engines report through.
//
// # Core Types
//
// CostRecord describes what a single block costs to build: its category,
// PCU, mass, and component bill.
//
// AnalyticsResult is the per-blueprint aggregate produced by one analysis
// pass: block and category counts, component/ingot/ore totals, PCU, mass,
// and any health issues found.
//
// ConversionComparison pairs the before and after aggregates of a
// hypothetical or applied mapping, with per-key deltas.
//
// HealthIssue is a heuristic structural finding with an optional fix
// identifier the analytics engine can apply automatically.
//
// BlueprintInfo is the lightweight metadata record the library scanner
// extracts per blueprint folder.
//
// # Errors
//
// Failure kinds are typed (ValidationError, NotFoundError, AmbiguousError,
// ConflictError, ParseError) so callers can match with errors.As instead
// of inspecting strings.
//
// # Design Principles
//
// - Immutable value objects; results are never mutated after construction
// - No file, database, or XML dependencies
// - Aggregates hold no back-references into registries or documents
package domain
