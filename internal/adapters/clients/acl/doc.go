// Package acl translates between external service representations and
// domain types. It is the anti-corruption layer: external DTOs, status
// codes and error bodies stop here and only domain types cross into the
// rest of the application.
//
// The package provides:
//
//   - [Wikipedia]: an adapter for the MediaWiki action API that fetches
//     plain-text author biography summaries
//   - [MapHTTPError]: HTTP status code to domain error mapping
//   - [ParseErrorResponse]: best-effort JSON error body parsing
//
// # Error Handling Strategy
//
// External services fail in several shapes: HTTP status codes, error
// response bodies, and transport errors. All of them are translated to
// domain errors before leaving this package:
//
//   - 404 Not Found becomes [domain.ErrNotFound]
//   - 409 Conflict becomes [domain.ErrConflict]
//   - 400/422 becomes [domain.ErrValidation]
//   - 401/403 becomes [domain.ErrForbidden]
//   - 5xx and transport failures become [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// are also translated to [domain.ErrUnavailable] with appropriate context.
package acl
