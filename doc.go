// Package authgate is a request authentication and authorization gate for
// HTTP APIs: it verifies bearer tokens, resolves the caller against a user
// store, enforces role membership per route, and issues renewed token pairs.
//
// Pipeline:
//   - Protected is the authentication gate. It extracts the Authorization
//     header, verifies the access token, resolves the identity, and attaches
//     both the raw token and the sanitized identity to the request before
//     handing off to the next handler. Any failure short circuits the request
//     with a structured rejection.
//   - RequireRoles is the authorization gate. It is constructed with its
//     required role set at route registration time and accepts any identity
//     whose role is a member of that set.
//   - AuthController exposes the credential lifecycle routes: login,
//     register, an explicit refresh endpoint that mints a fresh access and
//     refresh token pair, and a current-identity route.
//
// Tokens come in two kinds, access and refresh, signed with independent
// secrets and independent lifetimes. The secrets live in an immutable Config
// built once at startup; nothing in the package mutates shared state after
// construction, so gates can serve concurrent requests without
// synchronization.
//
// Rejections are a closed set of tagged errors (see errors.go). Expected
// outcomes such as a missing header or an expired token are never logged as
// faults; unexpected failures are logged with full detail and reported to
// the caller with a generic body. An uncertain identity is always treated as
// unauthenticated.
package authgate
