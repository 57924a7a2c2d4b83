// Package http runs a single HTTP endpoint.
//
// A Server is built from an endpoint descriptor and mounts up to two
// route groups.  The southbound group serves a static file tree with
// directory listings.  The northbound group serves a bundled UI from
// the gui directory of the same tree and mounts an externally
// supplied API router at the root.  Cross-origin requests are allowed
// everywhere.
//
// Start binds the listener and serves in the background.  Stop closes
// the listener and then closes every connection that is still open
// instead of waiting for clients to go idle.
package http
