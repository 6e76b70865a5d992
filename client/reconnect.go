package client

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/kestrelworks/viaduct/wire"
)

// TransportFactory opens a new channel to the router.  The Connector
// calls it for the initial connection and for every reconnect.
type TransportFactory func() (wire.Peer, error)

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
)

// Connector keeps a session open across connection loss.  It dials with
// the TransportFactory, joins the realm, hands the established session
// to OnOpen, and redials with exponential backoff whenever the session
// ends.  The session layer itself never retries; this wrapper owns the
// whole retry policy.
type Connector struct {
	// TransportFactory opens each connection.  Required.
	TransportFactory TransportFactory

	// Config used to establish each session.
	Config Config

	// OnOpen is called with every newly established session, before any
	// messages are dispatched by the caller.  Applications re-establish
	// their subscriptions and registrations here.  Required.
	OnOpen func(*Session)

	// MaxRetries bounds consecutive failed connection attempts before
	// Run gives up.  Zero means retry forever.
	MaxRetries int

	// InitialBackoff is the delay after the first failure; it doubles
	// per consecutive failure up to MaxBackoff.  Zero values use
	// defaults.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Run connects and reconnects until ctx is canceled or the retry budget
// is exhausted.  The session open when ctx is canceled is closed before
// Run returns.  Run returns ctx.Err on cancellation, or the last
// connection error when retries are exhausted.
func (c *Connector) Run(ctx context.Context) error {
	logger := c.Config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	initial := c.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	max := c.MaxBackoff
	if max <= 0 {
		max = defaultMaxBackoff
	}

	backoff := initial
	failures := 0
	for {
		sess, err := c.connect()
		if err != nil {
			failures++
			if c.MaxRetries > 0 && failures >= c.MaxRetries {
				return err
			}
			logger.Println("Connect failed, retrying in", backoff, ":", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff *= 2; backoff > max {
				backoff = max
			}
			continue
		}
		backoff = initial
		failures = 0

		c.OnOpen(sess)

		select {
		case <-sess.Done():
			logger.Println("Session ended, reconnecting")
		case <-ctx.Done():
			sess.Close()
			return ctx.Err()
		}
	}
}

// connect opens one transport and establishes one session on it.
func (c *Connector) connect() (*Session, error) {
	p, err := c.TransportFactory()
	if err != nil {
		return nil, err
	}
	// NewSession closes the peer on handshake failure.
	return NewSession(p, c.Config)
}
