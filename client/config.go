package client

import (
	"crypto/tls"
	"time"

	"github.com/kestrelworks/viaduct/stdlog"
	"github.com/kestrelworks/viaduct/transport/serialize"
	"github.com/kestrelworks/viaduct/wire"
)

const defaultResponseTimeout = 5 * time.Second

// AuthFunc answers a router CHALLENGE during session establishment.  It
// returns the signature and any extra details to include in the
// AUTHENTICATE message.  The signing scheme itself is supplied by the
// application; the session only relays the exchange.
//
// A Challenge must always be answered, so AuthFunc returns no error; on
// internal failure return an empty signature.
type AuthFunc func(challenge *wire.Challenge) (signature string, extra wire.Dict)

// Config carries everything needed to open a session on a router.
type Config struct {
	// Realm is the URI of the realm to attach to.
	Realm string

	// HelloDetails are details announced to the router.  The client
	// fills in its roles unless already present.
	HelloDetails wire.Dict

	// AuthHandlers maps authmethod names to challenge handlers.  The
	// keys are announced in HelloDetails["authmethods"].
	AuthHandlers map[string]AuthFunc

	// ResponseTimeout bounds how long an operation waits for the
	// router's response.  Zero uses the default of 5 seconds.
	ResponseTimeout time.Duration

	// Serialization selects the wire encoding for transports that are
	// dialed from this config.  Default is JSON.
	Serialization serialize.Serialization

	// TlsCfg configures TLS for dialed transports.  Nil disables TLS.
	TlsCfg *tls.Config

	// Logger receives session log output.  Nil logs to os.Stderr.
	Logger stdlog.StdLog

	// Debug enables verbose session logging.
	Debug bool
}

// Features announced to the router in the Hello details.
var clientRoles = wire.Dict{
	"publisher": wire.Dict{
		"features": wire.Dict{},
	},
	"subscriber": wire.Dict{
		"features": wire.Dict{},
	},
	"callee": wire.Dict{
		"features": wire.Dict{
			"call_canceling": true,
			"call_timeout":   true,
		},
	},
	"caller": wire.Dict{
		"features": wire.Dict{
			"call_canceling": true,
			"call_timeout":   true,
		},
	},
}
