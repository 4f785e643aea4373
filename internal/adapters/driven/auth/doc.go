// Package auth provides the TokenProvider implementations that carry the
// bearer token supplied by the host.
//
// None of the providers refresh tokens. An expired token is still handed to
// Graph; callers use IsTokenValid to warn about it.
package auth
