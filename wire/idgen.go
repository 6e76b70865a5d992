package wire

import "math/rand"

// maxID is 2^53, the largest integer exactly representable in an IEEE-754
// double.  Peers in environments whose only number type is a double must
// be able to hold any ID.
const maxID int64 = 1 << 53

// GlobalID returns a random ID from the uniform global range.
func GlobalID() ID {
	return ID(rand.Int63n(maxID))
}

// IDGen generates the sequential request IDs used to correlate a request
// with its response.  IDs start at 1 and wrap at 2^53.  Not safe for
// concurrent use; each session owns its generator and serializes access.
type IDGen struct {
	next int64
}

// Next returns the next request ID.
func (g *IDGen) Next() ID {
	g.next++
	if g.next > maxID {
		g.next = 1
	}
	return ID(g.next)
}
