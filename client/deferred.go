package client

import (
	"sync"

	"github.com/kestrelworks/viaduct/wire"
)

// InvokeResult is the outcome of an invocation.  A non-empty Err makes
// the result an error response; otherwise Args and Kwargs are yielded to
// the caller.
type InvokeResult struct {
	Args   wire.List
	Kwargs wire.Dict
	Err    wire.URI

	deferred *Deferred
}

// Deferred is the completion handle for an invocation whose result is
// not available when the handler returns.  The session holds the
// invocation open until the handle settles; Resolve and Reject settle it
// exactly once, in any order relative to other outstanding invocations.
type Deferred struct {
	done   chan struct{}
	once   sync.Once
	result InvokeResult
}

// NewDeferred creates an unsettled completion handle.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Result returns the InvokeResult an invocation handler must return to
// hand this deferred to the session.
func (d *Deferred) Result() InvokeResult {
	return InvokeResult{deferred: d}
}

// Resolve settles the deferred with a successful result.  Calls after
// the first settle are ignored.
func (d *Deferred) Resolve(args wire.List, kwargs wire.Dict) {
	d.once.Do(func() {
		d.result = InvokeResult{Args: args, Kwargs: kwargs}
		close(d.done)
	})
}

// Reject settles the deferred with an error.  Calls after the first
// settle are ignored.
func (d *Deferred) Reject(reason wire.URI, args wire.List, kwargs wire.Dict) {
	d.once.Do(func() {
		d.result = InvokeResult{Args: args, Kwargs: kwargs, Err: reason}
		close(d.done)
	})
}

// Done is closed once the deferred has settled.
func (d *Deferred) Done() <-chan struct{} { return d.done }
