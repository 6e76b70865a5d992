package wire

import "regexp"

// ID is an integer identifier in the range [0, 2^53].  Router-assigned
// IDs (session, subscription, registration, publication) are opaque; only
// equality is meaningful.
type ID uint64

// URI is a dot-separated name identifying a realm, topic, procedure, or
// error.
type URI string

var (
	// Loose check: components may contain anything except whitespace,
	// dots, and the reserved '#'.
	looseURI = regexp.MustCompile(`^([^\s.#]+\.)*([^\s.#]+)$`)
	// Strict check: components limited to lowercase letters, digits, and
	// underscore.
	strictURI = regexp.MustCompile(`^([0-9a-z_]+\.)*([0-9a-z_]+)$`)
)

// Valid reports whether the URI is well formed, with no empty components.
// When strict, components are limited to [0-9a-z_].
func (u URI) Valid(strict bool) bool {
	if strict {
		return strictURI.MatchString(string(u))
	}
	return looseURI.MatchString(string(u))
}
