package client

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/kestrelworks/viaduct/transport"
	"github.com/kestrelworks/viaduct/wire"
)

// ConnectNet dials a router over a websocket and joins the realm in cfg.
//
// routerURL has the form "ws://host:port/" or "wss://host:port/" for
// websocket with TLS; "http" and "https" are accepted as synonyms.
func ConnectNet(routerURL string, cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	u, err := url.Parse(routerURL)
	if err != nil {
		return nil, err
	}

	var p wire.Peer
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
		fallthrough
	case "ws":
		p, err = transport.ConnectWebsocketPeer(u.String(), cfg.Serialization,
			cfg.TlsCfg, nil, cfg.Logger)
	case "https":
		u.Scheme = "wss"
		fallthrough
	case "wss":
		p, err = transport.ConnectWebsocketPeer(u.String(), cfg.Serialization,
			cfg.TlsCfg, nil, cfg.Logger)
	default:
		err = fmt.Errorf("invalid url scheme: %s", routerURL)
	}
	if err != nil {
		return nil, err
	}
	return NewSession(p, cfg)
}
