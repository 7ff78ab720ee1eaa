// Package resolve turns stored image references into fetchable URLs.
//
// A reference is either a root-relative path ("/uploads/x.jpg") hosted by
// this backend, or an absolute URL hosted externally. Every place a
// reference is rendered or reported must go through URL so the expansion
// rule lives in exactly one spot.
package resolve

import "strings"

// URL resolves a stored reference against the backend's public base
// address. References starting with "/" get the base prepended; anything
// else (already-absolute URLs, empty strings) is returned unchanged.
//
// Callers must not feed an already-resolved URL back in as a bare
// reference; absolute URLs pass through untouched, so the function is only
// idempotent as long as references keep their original classification.
func URL(ref, base string) string {
	if strings.HasPrefix(ref, "/") {
		return base + ref
	}
	return ref
}
