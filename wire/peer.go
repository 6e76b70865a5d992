package wire

import (
	"errors"
	"time"
)

// ErrPeerClosed is returned by Send when the peer connection has been
// closed.
var ErrPeerClosed = errors.New("peer closed")

// Peer is one end of an established message channel.  Implementations
// must deliver messages reliably and in order in both directions; how the
// channel is framed, secured, or established is the transport's concern.
type Peer interface {
	// Send queues a message for delivery to the remote peer.
	Send(Message) error

	// Recv returns the channel of inbound messages.  The channel is
	// closed when the connection is lost or closed.
	Recv() <-chan Message

	// Close tears down the connection.  Readers of Recv are released.
	Close()
}

// RecvTimeout waits up to t for the next message from p.
func RecvTimeout(p Peer, t time.Duration) (Message, error) {
	select {
	case msg, ok := <-p.Recv():
		if !ok {
			return nil, ErrPeerClosed
		}
		return msg, nil
	case <-time.After(t):
		return nil, errors.New("timeout waiting for message")
	}
}
