package transport

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/viaduct/transport/serialize"
	"github.com/kestrelworks/viaduct/wire"
)

var logger = log.New(os.Stdout, "", log.LstdFlags)

// echoWebsocketServer upgrades each request and writes every frame it
// reads straight back.
func echoWebsocketServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		Subprotocols: []string{
			jsonWebsocketProtocol,
			msgpackWebsocketProtocol,
			cborWebsocketProtocol,
		},
	}
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				t.Error("upgrade failed:", err)
				return
			}
			defer conn.Close()
			for {
				msgType, b, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if err = conn.WriteMessage(msgType, b); err != nil {
					return
				}
			}
		}))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebsocketPeerSendRecv(t *testing.T) {
	t.Cleanup(leaktest.Check(t))
	server := echoWebsocketServer(t)

	for _, serialization := range []serialize.Serialization{
		serialize.JSON, serialize.MSGPACK, serialize.CBOR,
	} {
		peer, err := ConnectWebsocketPeer(wsURL(server), serialization, nil,
			nil, logger)
		require.NoError(t, err)

		require.NoError(t, peer.Send(&wire.Hello{
			Realm:   "test.realm",
			Details: wire.Dict{"agent": "viaduct"},
		}))

		// The echo server reflects the frame; it comes back through the
		// deserializer as the same message.
		msg, err := wire.RecvTimeout(peer, time.Second)
		require.NoError(t, err)
		hello, ok := msg.(*wire.Hello)
		require.True(t, ok, "expected HELLO, got %s", msg.MessageType())
		require.Equal(t, wire.URI("test.realm"), hello.Realm)
		agent, _ := wire.AsString(hello.Details["agent"])
		require.Equal(t, "viaduct", agent)

		peer.Close()
	}
}

func TestWebsocketPeerClose(t *testing.T) {
	t.Cleanup(leaktest.Check(t))
	server := echoWebsocketServer(t)

	peer, err := ConnectWebsocketPeer(wsURL(server), serialize.JSON, nil,
		nil, logger)
	require.NoError(t, err)
	peer.Close()

	select {
	case _, open := <-peer.Recv():
		require.False(t, open, "expected closed recv channel")
	case <-time.After(time.Second):
		require.FailNow(t, "close did not release the reader")
	}
	// Close is idempotent and later sends fail cleanly.
	peer.Close()
	require.ErrorIs(t, peer.Send(&wire.Hello{}), wire.ErrPeerClosed)
}

func TestWebsocketPeerServerDrop(t *testing.T) {
	defer leaktest.Check(t)()

	// A server that accepts the upgrade and immediately hangs up.
	upgrader := websocket.Upgrader{
		Subprotocols: []string{jsonWebsocketProtocol},
	}
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			conn.Close()
		}))
	defer server.Close()

	peer, err := ConnectWebsocketPeer(wsURL(server), serialize.JSON, nil,
		nil, logger)
	require.NoError(t, err)
	defer peer.Close()

	select {
	case _, open := <-peer.Recv():
		require.False(t, open, "expected recv channel closed on server drop")
	case <-time.After(time.Second):
		require.FailNow(t, "server drop did not release the reader")
	}
}

func TestConnectWebsocketPeerBadURL(t *testing.T) {
	defer leaktest.Check(t)()
	_, err := ConnectWebsocketPeer("ws://127.0.0.1:1/ws", serialize.JSON,
		nil, nil, logger)
	require.Error(t, err)
}

func TestSerializerFor(t *testing.T) {
	s, protocol, payloadType, err := serializerFor(serialize.JSON)
	require.NoError(t, err)
	require.IsType(t, &serialize.JSONSerializer{}, s)
	require.Equal(t, jsonWebsocketProtocol, protocol)
	require.Equal(t, websocket.TextMessage, payloadType)

	_, _, _, err = serializerFor(serialize.Serialization(99))
	require.Error(t, err)
}
