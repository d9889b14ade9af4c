// Package github binds the versioned repository port to the GitHub API.
//
// The catalog lives as JSON documents in a public repository. This
// adapter maps the port's operations onto the contents, git-refs and
// pull-request APIs:
//
//   - BranchTip / CreateBranch: git references
//   - GetFile / PutFile: repository contents, with the blob SHA as the
//     optimistic version token
//   - change request operations: pull requests and issue comments
//
// # Authentication
//
// Reads work unauthenticated (60 requests/hour). Contribution and
// moderation need a token with 'repo' scope, provided by a
// driven.TokenProvider.
//
// # Rate Limiting
//
// A dual-strategy limiter throttles proactively with a token bucket and
// reacts to the X-RateLimit-* response headers, waiting for the reset
// when the remaining quota runs low.
package github
