package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kestrelworks/viaduct/stdlog"
	"github.com/kestrelworks/viaduct/transport/serialize"
	"github.com/kestrelworks/viaduct/wire"
)

// Websocket subprotocol identifiers for each serialization.
const (
	jsonWebsocketProtocol    = "wamp.2.json"
	msgpackWebsocketProtocol = "wamp.2.msgpack"
	cborWebsocketProtocol    = "wamp.2.cbor"

	defaultOutQueueSize = 160
	ctrlTimeout         = 5 * time.Second
)

// DialFunc dials the network connection a websocket is layered on.
type DialFunc func(network, addr string) (net.Conn, error)

// websocketPeer adapts a websocket connection to the wire.Peer
// interface.  Reading and writing each run on their own goroutine; Send
// only queues.
type websocketPeer struct {
	conn  *websocket.Conn
	codec serialize.Serializer
	// Websocket frame type carrying the payload, text for JSON and
	// binary for the rest.
	frameType int

	in  chan wire.Message
	out chan wire.Message

	// localClose marks that Close was called on this side, making the
	// read error that follows expected.
	localClose chan struct{}
	// writerStop ends the writer without touching the out channel, so a
	// late Send cannot panic.
	writerStop chan struct{}

	log stdlog.StdLog
}

// serializerFor returns the serializer, websocket subprotocol name, and
// websocket frame type for a serialization.
func serializerFor(serialization serialize.Serialization) (serialize.Serializer, string, int, error) {
	switch serialization {
	case serialize.JSON:
		return &serialize.JSONSerializer{}, jsonWebsocketProtocol,
			websocket.TextMessage, nil
	case serialize.MSGPACK:
		return &serialize.MessagePackSerializer{}, msgpackWebsocketProtocol,
			websocket.BinaryMessage, nil
	case serialize.CBOR:
		return &serialize.CBORSerializer{}, cborWebsocketProtocol,
			websocket.BinaryMessage, nil
	}
	return nil, "", 0, fmt.Errorf("unsupported serialization: %v", serialization)
}

// ConnectWebsocketPeer dials the websocket server at url and returns a
// connected peer using the requested serialization.  tlsConfig and dial
// may be nil to use defaults.
func ConnectWebsocketPeer(url string, serialization serialize.Serialization, tlsConfig *tls.Config, dial DialFunc, logger stdlog.StdLog) (wire.Peer, error) {
	codec, protocol, frameType, err := serializerFor(serialization)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Subprotocols:    []string{protocol},
		TLSClientConfig: tlsConfig,
		Proxy:           http.ProxyFromEnvironment,
		NetDial:         dial,
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewWebsocketPeer(conn, codec, frameType, 0, logger), nil
}

// NewWebsocketPeer wraps an existing websocket connection in a peer.
// outQueueSize bounds the number of messages queued for writing before
// Send blocks; a value < 1 uses the default.
func NewWebsocketPeer(conn *websocket.Conn, codec serialize.Serializer, frameType int, outQueueSize int, logger stdlog.StdLog) wire.Peer {
	if outQueueSize < 1 {
		outQueueSize = defaultOutQueueSize
	}
	w := &websocketPeer{
		conn:      conn,
		codec:     codec,
		frameType: frameType,

		// Inbound messages are handed to the session as they arrive, so
		// depth 1 suffices.
		in: make(chan wire.Message, 1),
		// Outbound messages queue here while a slow socket drains.
		out: make(chan wire.Message, outQueueSize),

		localClose: make(chan struct{}),
		writerStop: make(chan struct{}),

		log: logger,
	}
	go w.reader()
	go w.writer()
	return w
}

func (w *websocketPeer) Recv() <-chan wire.Message { return w.in }

func (w *websocketPeer) Send(msg wire.Message) error {
	select {
	case <-w.localClose:
		return wire.ErrPeerClosed
	case w.out <- msg:
		return nil
	}
}

func (w *websocketPeer) Close() {
	select {
	case <-w.localClose:
		return
	default:
	}
	// Tell the remote end this is a normal close before dropping the
	// connection; best effort only.
	frame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "goodbye")
	deadline := time.Now().Add(ctrlTimeout)
	if err := w.conn.WriteControl(websocket.CloseMessage, frame, deadline); err != nil {
		w.log.Println("error sending websocket close message:", err)
	}
	close(w.localClose)
	if err := w.conn.Close(); err != nil {
		w.log.Println("error closing websocket connection:", err)
	}
}

// writer drains the out queue onto the websocket until told to stop.
func (w *websocketPeer) writer() {
	for {
		select {
		case msg := <-w.out:
			w.writeMessage(msg)
		case <-w.writerStop:
			return
		}
	}
}

func (w *websocketPeer) writeMessage(msg wire.Message) {
	b, err := w.codec.Serialize(msg)
	if err != nil {
		w.log.Println("cannot serialize message:", err)
		return
	}
	if err = w.conn.WriteMessage(w.frameType, b); err != nil {
		// The Goodbye ack often races the remote hangup; not worth
		// logging.
		if !wire.IsGoodbyeAck(msg) {
			w.log.Println("error writing to websocket:", err)
		}
	}
}

// reader feeds inbound messages to the in channel until the connection
// drops, then wakes the session's receive loop and stops the writer.
func (w *websocketPeer) reader() {
	defer func() {
		close(w.in)
		close(w.writerStop)
	}()
	for {
		frameType, b, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.localClose:
				// Close already shut the connection down; the read error
				// is the expected wakeup.
			default:
				w.log.Println("error reading from websocket:", err)
				w.conn.Close()
			}
			return
		}
		if frameType == websocket.CloseMessage {
			w.conn.Close()
			return
		}

		msg, err := w.codec.Deserialize(b)
		if err != nil {
			// One bad payload does not end the connection; the session
			// decides when a peer has misbehaved enough to hang up.
			w.log.Println("cannot decode peer message:", err)
			continue
		}
		w.in <- msg
	}
}
