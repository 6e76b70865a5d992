package transport

import (
	"sync"

	"github.com/kestrelworks/viaduct/wire"
)

const defaultLinkedQueueSize = 64

// LinkedPeers returns two connected in-process peers.  A message sent to
// one appears on the other's Recv channel.  Used to attach a session to
// an embedded or scripted remote without a network.
func LinkedPeers() (wire.Peer, wire.Peer) {
	return LinkedPeersQSize(defaultLinkedQueueSize)
}

// LinkedPeersQSize is LinkedPeers with an explicit queue size for each
// direction.  Size 0 uses the default.
func LinkedPeersQSize(queueSize int) (wire.Peer, wire.Peer) {
	if queueSize == 0 {
		queueSize = defaultLinkedQueueSize
	}

	// Buffered in both directions so that neither side blocks the other
	// during normal request/response exchanges.
	aToB := make(chan wire.Message, queueSize)
	bToA := make(chan wire.Message, queueSize)

	a := &localPeer{rd: bToA, wr: aToB, closed: make(chan struct{})}
	b := &localPeer{rd: aToB, wr: bToA, closed: make(chan struct{})}
	return a, b
}

type localPeer struct {
	rd <-chan wire.Message
	wr chan<- wire.Message

	closed    chan struct{}
	closeOnce sync.Once
}

func (p *localPeer) Recv() <-chan wire.Message { return p.rd }

func (p *localPeer) Send(msg wire.Message) error {
	select {
	case <-p.closed:
		return wire.ErrPeerClosed
	default:
	}
	select {
	case p.wr <- msg:
		return nil
	case <-p.closed:
		return wire.ErrPeerClosed
	}
}

// Close closes the outbound channel, releasing any reader waiting on the
// other end.
func (p *localPeer) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		close(p.wr)
	})
}
