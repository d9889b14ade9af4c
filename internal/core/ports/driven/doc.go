// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RepoService: The versioned repository hosting the catalog
//     (branches, file contents, pull requests). Bound to the GitHub API
//     in production and to an in-memory fake in tests.
//   - ConfigStore: Application configuration.
//
// # Required for writes only
//
//   - TokenProvider: Access token for authenticated repository calls.
//     The read path works unauthenticated.
//   - ContentModerator: The LLM-backed moderation decision-maker. Only
//     the moderation run needs it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
