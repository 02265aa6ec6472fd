// Package server holds the HTTP server configuration.
//
// The start command reads it to bind the listener, protect the API with a key,
// and restrict which local directories may be uploaded through the API.
package server
