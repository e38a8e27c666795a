// Package drive implements the walker.Source interface on top of the Google
// Drive v3 REST API. Authentication is either an API key (shared trees) or a
// pre-obtained OAuth access token; the client performs no OAuth flows itself.
package drive
