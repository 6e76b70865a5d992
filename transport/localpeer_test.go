package transport

import (
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/viaduct/wire"
)

func TestLinkedPeers(t *testing.T) {
	defer leaktest.Check(t)()

	a, b := LinkedPeers()
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Send(&wire.Hello{Realm: "test.realm"}))
	msg, err := wire.RecvTimeout(b, time.Second)
	require.NoError(t, err)
	hello, ok := msg.(*wire.Hello)
	require.True(t, ok, "expected HELLO, got %s", msg.MessageType())
	require.Equal(t, wire.URI("test.realm"), hello.Realm)

	require.NoError(t, b.Send(&wire.Welcome{ID: 123}))
	msg, err = wire.RecvTimeout(a, time.Second)
	require.NoError(t, err)
	welcome, ok := msg.(*wire.Welcome)
	require.True(t, ok, "expected WELCOME, got %s", msg.MessageType())
	require.Equal(t, wire.ID(123), welcome.ID)
}

func TestLinkedPeersClose(t *testing.T) {
	defer leaktest.Check(t)()

	a, b := LinkedPeers()
	a.Close()

	// Closing a releases b's reader.
	select {
	case _, open := <-b.Recv():
		require.False(t, open, "expected closed recv channel")
	case <-time.After(time.Second):
		require.FailNow(t, "close did not release the reader")
	}

	require.ErrorIs(t, a.Send(&wire.Hello{}), wire.ErrPeerClosed)
	a.Close() // idempotent

	// b's own direction still works until b closes.
	require.NoError(t, b.Send(&wire.Goodbye{}))
	b.Close()
	require.ErrorIs(t, b.Send(&wire.Goodbye{}), wire.ErrPeerClosed)
}

func TestLinkedPeersQueueFull(t *testing.T) {
	defer leaktest.Check(t)()

	a, b := LinkedPeersQSize(2)
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Send(&wire.Publish{Request: 1}))
	require.NoError(t, a.Send(&wire.Publish{Request: 2}))

	// Queue is full; a further send blocks until the remote drains.
	done := make(chan error, 1)
	go func() { done <- a.Send(&wire.Publish{Request: 3}) }()
	select {
	case <-done:
		require.FailNow(t, "send should block on a full queue")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := wire.RecvTimeout(b, time.Second)
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "send did not complete after drain")
	}
}

func TestRecvTimeout(t *testing.T) {
	defer leaktest.Check(t)()

	a, b := LinkedPeers()
	defer a.Close()
	defer b.Close()

	_, err := wire.RecvTimeout(a, 10*time.Millisecond)
	require.Error(t, err)
}
