package client

import (
	"errors"
	"fmt"

	"github.com/kestrelworks/viaduct/wire"
)

var (
	// ErrSessionClosed is returned for every operation pending or issued
	// after the session has been torn down.
	ErrSessionClosed = errors.New("session closed")

	// ErrAlreadyClosed is returned by Close on a session that was
	// already closed.
	ErrAlreadyClosed = errors.New("already closed")

	// ErrNotConn is returned for operations attempted before the session
	// is established.
	ErrNotConn = errors.New("not connected")

	// ErrAlreadyRegistered is returned by Register when the procedure
	// name is already registered on this session.  The check is local;
	// no message is sent.
	ErrAlreadyRegistered = errors.New("procedure already registered")

	// ErrNotSubscribed is returned by Unsubscribe when the subscription
	// is not active on this session.
	ErrNotSubscribed = errors.New("not subscribed to topic")

	// ErrNotRegistered is returned by Unregister when the registration
	// is not active on this session.
	ErrNotRegistered = errors.New("not registered for procedure")

	// ErrReplyTimeout is returned when the router does not answer a
	// request within the response timeout.
	ErrReplyTimeout = errors.New("timeout waiting for reply")
)

// RPCError wraps the router ERROR message that answered a Call, giving
// the application access to the error URI and payload from the callee.
type RPCError struct {
	Err       *wire.Error
	Procedure string
}

func (e RPCError) Error() string {
	s := fmt.Sprintf("error calling procedure '%s': %v", e.Procedure,
		e.Err.Error)
	if len(e.Err.Arguments) != 0 {
		s += fmt.Sprintf(": %v", e.Err.Arguments)
	}
	if len(e.Err.ArgumentsKw) != 0 {
		s += fmt.Sprintf(": %v", e.Err.ArgumentsKw)
	}
	return s
}

// RouterError reports a router rejection of a subscribe, unsubscribe,
// register, unregister, or publish request.  It is local to the failed
// operation; the session remains usable.
type RouterError struct {
	// Request is the message type of the rejected request.
	Request wire.MessageType
	// Reason is the error URI reported by the router.
	Reason wire.URI
	// Target is the topic or procedure the request named.
	Target wire.URI
}

func (e RouterError) Error() string {
	return fmt.Sprintf("router rejected %s of '%s': %s", e.Request, e.Target,
		e.Reason)
}

// unexpectedMsgError describes a reply of the wrong type, including any
// reason carried by an Abort or Goodbye.
func unexpectedMsgError(msg wire.Message, expected wire.MessageType) error {
	s := fmt.Sprint("received unexpected ", msg.MessageType(),
		" message when expecting ", expected)
	switch m := msg.(type) {
	case *wire.Abort:
		s = fmt.Sprint(s, ": ", m.Reason)
	case *wire.Goodbye:
		s = fmt.Sprint(s, ": ", m.Reason)
	}
	return errors.New(s)
}
