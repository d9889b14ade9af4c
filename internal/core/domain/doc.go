// Package domain defines the core business entities for Pssst.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: A single catalog entry (text, author, timestamp, language)
//   - Catalog: The append-only per-language message document
//   - ChangeRequest: A proposed contribution in flight (a pull request)
//   - Verdict: The moderation decision for one proposed message
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
