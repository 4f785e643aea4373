// Package graph implements driven.GraphClient over the Microsoft Graph v1.0
// REST API.
//
// Requests carry the host-supplied bearer token through an oauth2 transport,
// are paced by a token-bucket limiter and tagged with a client-request-id.
// Graph error bodies are decoded into *APIError, which unwraps to the
// matching domain sentinel so callers can use errors.Is.
//
// Collections are followed through @odata.nextLink. Files above the simple
// upload limit are sent through an upload session.
package graph
