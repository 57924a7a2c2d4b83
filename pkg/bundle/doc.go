// Package bundle installs pre-built UI bundles into the directory the
// northbound routes serve them from.
package bundle
