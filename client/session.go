package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/kestrelworks/viaduct/stdlog"
	"github.com/kestrelworks/viaduct/wire"
)

// State identifies where a session is in its lifecycle.
type State int32

const (
	// Closed: no connection; terminal until a new session is opened.
	Closed State = iota
	// Connecting: Hello sent, awaiting Welcome.
	Connecting
	// Authenticating: Challenge received, answering it.
	Authenticating
	// Established: attached to the realm; operations are accepted.
	Established
	// Closing: Goodbye sent, awaiting the router's ack.
	Closing
)

var stateNames = map[State]string{
	Closed:         "closed",
	Connecting:     "connecting",
	Authenticating: "authenticating",
	Established:    "established",
	Closing:        "closing",
}

func (st State) String() string { return stateNames[st] }

// EventHandler is called for each event delivered to a subscription.
// Handlers for one session run serially, in delivery order.
type EventHandler func(event *wire.Event)

// InvocationHandler services one invocation of a registered procedure.
//
// The handler runs in the session's dispatch path, so its result is
// yielded before any later inbound message is processed.  A handler must
// not block on operations of its own session; work whose result is not
// immediately available should be started in the background and reported
// through a Deferred:
//
//	func slow(ctx context.Context, inv *wire.Invocation) client.InvokeResult {
//		d := client.NewDeferred()
//		go func() { d.Resolve(compute(inv.Arguments), nil) }()
//		return d.Result()
//	}
//
// ctx is canceled if the router interrupts the invocation or the session
// closes.
type InvocationHandler func(ctx context.Context, inv *wire.Invocation) InvokeResult

// Subscription is an active topic subscription.  The ID is assigned by
// the router.
type Subscription struct {
	ID    wire.ID
	Topic wire.URI

	handler EventHandler
}

// Registration is an active procedure registration.  The ID is assigned
// by the router.
type Registration struct {
	ID        wire.ID
	Procedure wire.URI

	handler InvocationHandler
}

type pendingYield struct {
	deferred *Deferred
	cancel   context.CancelFunc
}

// Session is an attachment to a realm on a router.  It owns all
// subscription, registration, and call-correlation state; every mutation
// runs on a single internal loop, and inbound messages are dispatched
// one at a time in arrival order.
type Session struct {
	peer wire.Peer

	realm           string
	responseTimeout time.Duration
	log             stdlog.StdLog
	debug           bool

	state   int32
	closing int32

	id      wire.ID
	details wire.Dict

	// Owned by the action loop.
	idGen         wire.IDGen
	awaitingReply map[wire.ID]chan wire.Message
	subscriptions map[wire.ID]*Subscription
	registrations map[wire.ID]*Registration
	procNames     map[wire.URI]wire.ID
	pendingYields map[wire.ID]pendingYield
	torndown      bool

	actionChan chan func()
	done       chan struct{}
}

// NewSession attaches to the realm in cfg over the connected peer p and,
// on success, returns an established session.  On failure the peer is
// closed.
//
// Most applications use ConnectNet or a Connector instead and let them
// supply the peer.
func NewSession(p wire.Peer, cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = defaultResponseTimeout
	}

	s := &Session{
		peer: p,

		realm:           cfg.Realm,
		responseTimeout: cfg.ResponseTimeout,
		log:             cfg.Logger,
		debug:           cfg.Debug,

		state: int32(Connecting),

		awaitingReply: map[wire.ID]chan wire.Message{},
		subscriptions: map[wire.ID]*Subscription{},
		registrations: map[wire.ID]*Registration{},
		procNames:     map[wire.URI]wire.ID{},
		pendingYields: map[wire.ID]pendingYield{},

		actionChan: make(chan func()),
		done:       make(chan struct{}),
	}

	welcome, err := s.joinRealm(cfg)
	if err != nil {
		p.Close()
		s.setState(Closed)
		return nil, err
	}
	s.id = welcome.ID
	s.details = welcome.Details
	s.setState(Established)

	go s.run()
	go s.receive()
	return s, nil
}

// ID returns the session ID assigned by the router in the Welcome.
func (s *Session) ID() wire.ID { return s.id }

// RealmDetails returns the details the router sent in the Welcome.
func (s *Session) RealmDetails() wire.Dict { return s.details }

// State returns the session's current lifecycle state.
func (s *Session) State() State { return State(atomic.LoadInt32(&s.state)) }

// Done returns a channel that is closed once the session has been torn
// down, whether by Close, by the router, or by transport failure.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) setState(st State) { atomic.StoreInt32(&s.state, int32(st)) }

// joinRealm performs the opening handshake: Hello, an optional
// Challenge/Authenticate exchange, then Welcome or Abort.
func (s *Session) joinRealm(cfg Config) (*wire.Welcome, error) {
	if cfg.Realm == "" {
		return nil, errors.New("realm not specified")
	}
	if !wire.URI(cfg.Realm).Valid(false) {
		return nil, fmt.Errorf("invalid realm URI: %s", cfg.Realm)
	}

	details := cfg.HelloDetails
	if details == nil {
		details = wire.Dict{}
	}
	if _, ok := details["roles"]; !ok {
		details["roles"] = clientRoles
	}
	if len(cfg.AuthHandlers) > 0 {
		methods := make(wire.List, 0, len(cfg.AuthHandlers))
		for m := range cfg.AuthHandlers {
			methods = append(methods, m)
		}
		details["authmethods"] = methods
	}

	if err := s.peer.Send(&wire.Hello{Realm: wire.URI(cfg.Realm), Details: details}); err != nil {
		return nil, err
	}
	msg, err := wire.RecvTimeout(s.peer, cfg.ResponseTimeout)
	if err != nil {
		return nil, err
	}

	if challenge, ok := msg.(*wire.Challenge); ok {
		s.setState(Authenticating)
		msg, err = s.authenticate(challenge, cfg)
		if err != nil {
			return nil, err
		}
	}

	switch msg := msg.(type) {
	case *wire.Welcome:
		return msg, nil
	case *wire.Abort:
		reason := msg.Reason
		if reason == "" {
			reason = wire.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("router aborted session: %s", reason)
	}
	return nil, unexpectedMsgError(msg, wire.WELCOME)
}

// authenticate answers a Challenge using the configured handler for its
// authmethod.  A Challenge must always be answered, so an unknown
// authmethod gets an empty Authenticate.
func (s *Session) authenticate(challenge *wire.Challenge, cfg Config) (wire.Message, error) {
	authFunc, ok := cfg.AuthHandlers[challenge.AuthMethod]
	if !ok {
		s.peer.Send(&wire.Authenticate{})
	} else {
		signature, extra := authFunc(challenge)
		s.peer.Send(&wire.Authenticate{Signature: signature, Extra: extra})
	}
	msg, err := wire.RecvTimeout(s.peer, cfg.ResponseTimeout)
	if err != nil {
		return nil, err
	}
	if abort, ok := msg.(*wire.Abort); ok {
		reason := wire.OptionString(abort.Details, wire.OptError)
		if reason == "" {
			reason = string(abort.Reason)
		}
		if reason == "" {
			reason = "authentication failed"
		}
		return nil, errors.New(reason)
	}
	return msg, nil
}

// run executes queued actions until teardown.  All session state is
// mutated here and only here.
func (s *Session) run() {
	for {
		select {
		case action := <-s.actionChan:
			action()
		case <-s.done:
			return
		}
	}
}

// syncAction runs f on the action loop and waits for it to complete.
// Returns ErrSessionClosed if the session tore down first.
func (s *Session) syncAction(f func()) error {
	sync := make(chan struct{})
	select {
	case s.actionChan <- func() { f(); close(sync) }:
		<-sync
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// send transmits msg via the action loop, so that no send can race
// session teardown.
func (s *Session) send(msg wire.Message) error {
	var sendErr error
	if err := s.syncAction(func() { sendErr = s.peer.Send(msg) }); err != nil {
		return err
	}
	return sendErr
}

// expectReply allocates the next request ID and a reply slot for it.
func (s *Session) expectReply() (wire.ID, chan wire.Message, error) {
	if s.State() != Established {
		return 0, nil, ErrNotConn
	}
	var id wire.ID
	ch := make(chan wire.Message, 1)
	err := s.syncAction(func() {
		id = s.idGen.Next()
		s.awaitingReply[id] = ch
	})
	if err != nil {
		return 0, nil, err
	}
	return id, ch, nil
}

// waitForReply blocks until the correlated response arrives, the session
// closes, or the response timeout elapses.
func (s *Session) waitForReply(id wire.ID, ch chan wire.Message) (wire.Message, error) {
	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrSessionClosed
		}
		return msg, nil
	case <-time.After(s.responseTimeout):
		s.syncAction(func() { delete(s.awaitingReply, id) })
		return nil, ErrReplyTimeout
	}
}

// Subscribe subscribes handler to the topic and returns the resulting
// subscription once the router confirms it.  options may carry router
// extensions such as pattern matching; nil means no options.
func (s *Session) Subscribe(topic string, handler EventHandler, options wire.Dict) (*Subscription, error) {
	if options == nil {
		options = wire.Dict{}
	}
	id, ch, err := s.expectReply()
	if err != nil {
		return nil, err
	}
	if err = s.send(&wire.Subscribe{Request: id, Options: options, Topic: wire.URI(topic)}); err != nil {
		return nil, err
	}

	msg, err := s.waitForReply(id, ch)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *wire.Subscribed:
		sub := &Subscription{
			ID:      msg.Subscription,
			Topic:   wire.URI(topic),
			handler: handler,
		}
		if err = s.syncAction(func() { s.subscriptions[sub.ID] = sub }); err != nil {
			return nil, err
		}
		if s.debug {
			s.log.Printf("Subscribed to '%s' as subscription %v", topic, sub.ID)
		}
		return sub, nil
	case *wire.Error:
		return nil, RouterError{Request: wire.SUBSCRIBE, Reason: msg.Error,
			Target: wire.URI(topic)}
	}
	return nil, unexpectedMsgError(msg, wire.SUBSCRIBED)
}

// Unsubscribe withdraws the subscription.  The local handler is removed
// before the router round trip, so no events are delivered after this
// returns; an Unsubscribe of an already-removed subscription returns
// ErrNotSubscribed and changes nothing.
func (s *Session) Unsubscribe(sub *Subscription) error {
	var found bool
	err := s.syncAction(func() {
		if _, found = s.subscriptions[sub.ID]; found {
			delete(s.subscriptions, sub.ID)
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotSubscribed
	}

	id, ch, err := s.expectReply()
	if err != nil {
		return err
	}
	if err = s.send(&wire.Unsubscribe{Request: id, Subscription: sub.ID}); err != nil {
		return err
	}

	msg, err := s.waitForReply(id, ch)
	if err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *wire.Unsubscribed:
		return nil
	case *wire.Error:
		return RouterError{Request: wire.UNSUBSCRIBE, Reason: msg.Error,
			Target: sub.Topic}
	}
	return unexpectedMsgError(msg, wire.UNSUBSCRIBED)
}

// Publish publishes an event to the topic.  Publishing is
// fire-and-forget: delivery to zero subscribers is not an error and
// produces no response.  Setting options["acknowledge"] requests a
// Published confirmation and makes Publish wait for it.
func (s *Session) Publish(topic string, options wire.Dict, args wire.List, kwargs wire.Dict) error {
	if options == nil {
		options = wire.Dict{}
	}
	ack := wire.OptionFlag(options, wire.OptAcknowledge)

	id, ch, err := s.expectReply()
	if err != nil {
		return err
	}
	if !ack {
		// No response is coming; release the reply slot.
		defer s.syncAction(func() { delete(s.awaitingReply, id) })
	}
	err = s.send(&wire.Publish{
		Request:     id,
		Options:     options,
		Topic:       wire.URI(topic),
		Arguments:   args,
		ArgumentsKw: kwargs,
	})
	if err != nil || !ack {
		return err
	}

	msg, err := s.waitForReply(id, ch)
	if err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *wire.Published:
		return nil
	case *wire.Error:
		return RouterError{Request: wire.PUBLISH, Reason: msg.Error,
			Target: wire.URI(topic)}
	}
	return unexpectedMsgError(msg, wire.PUBLISHED)
}

// Register registers handler as the implementation of the procedure and
// returns the resulting registration once the router confirms it.
//
// A procedure name is unique within a session: if it is already
// registered locally, Register fails with ErrAlreadyRegistered before
// anything is sent to the router.
func (s *Session) Register(procedure string, handler InvocationHandler, options wire.Dict) (*Registration, error) {
	if options == nil {
		options = wire.Dict{}
	}
	if s.State() != Established {
		return nil, ErrNotConn
	}

	// Local duplicate check first, to avoid a wasted round trip.
	var dup bool
	err := s.syncAction(func() {
		_, dup = s.procNames[wire.URI(procedure)]
	})
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrAlreadyRegistered
	}

	id, ch, err := s.expectReply()
	if err != nil {
		return nil, err
	}
	if err = s.send(&wire.Register{Request: id, Options: options, Procedure: wire.URI(procedure)}); err != nil {
		return nil, err
	}

	msg, err := s.waitForReply(id, ch)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *wire.Registered:
		reg := &Registration{
			ID:        msg.Registration,
			Procedure: wire.URI(procedure),
			handler:   handler,
		}
		if err = s.syncAction(func() {
			s.registrations[reg.ID] = reg
			s.procNames[reg.Procedure] = reg.ID
		}); err != nil {
			return nil, err
		}
		if s.debug {
			s.log.Printf("Registered '%s' as registration %v", procedure, reg.ID)
		}
		return reg, nil
	case *wire.Error:
		return nil, RouterError{Request: wire.REGISTER, Reason: msg.Error,
			Target: wire.URI(procedure)}
	}
	return nil, unexpectedMsgError(msg, wire.REGISTERED)
}

// Unregister withdraws the registration.  As with Unsubscribe, the local
// entry is removed up front and a second Unregister of the same
// registration returns ErrNotRegistered.
func (s *Session) Unregister(reg *Registration) error {
	var found bool
	err := s.syncAction(func() {
		if _, found = s.registrations[reg.ID]; found {
			delete(s.registrations, reg.ID)
			delete(s.procNames, reg.Procedure)
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotRegistered
	}

	id, ch, err := s.expectReply()
	if err != nil {
		return err
	}
	if err = s.send(&wire.Unregister{Request: id, Registration: reg.ID}); err != nil {
		return err
	}

	msg, err := s.waitForReply(id, ch)
	if err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *wire.Unregistered:
		return nil
	case *wire.Error:
		return RouterError{Request: wire.UNREGISTER, Reason: msg.Error,
			Target: reg.Procedure}
	}
	return unexpectedMsgError(msg, wire.UNREGISTERED)
}

// Call invokes a remote procedure and blocks until its Result arrives.
// Responses are matched by request ID, so results may arrive in any
// order relative to other outstanding calls.
//
// If ctx is canceled or its deadline passes before the result arrives, a
// Cancel is sent to the router and the router's final answer for the
// call is awaited.  A ctx without a deadline gets the session's response
// timeout.
//
// A router ERROR response is returned as an RPCError, which carries the
// full error payload from the callee.
func (s *Session) Call(ctx context.Context, procedure string, options wire.Dict, args wire.List, kwargs wire.Dict) (*wire.Result, error) {
	if options == nil {
		options = wire.Dict{}
	}
	id, ch, err := s.expectReply()
	if err != nil {
		return nil, err
	}
	err = s.send(&wire.Call{
		Request:     id,
		Options:     options,
		Procedure:   wire.URI(procedure),
		Arguments:   args,
		ArgumentsKw: kwargs,
	})
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.responseTimeout)
		defer cancel()
	}

	var msg wire.Message
	select {
	case m, ok := <-ch:
		if !ok {
			return nil, ErrSessionClosed
		}
		msg = m
	case <-ctx.Done():
		// Ask the router to cancel, then wait for its final answer for
		// this call, which is an ERROR when the cancel is honored.
		s.send(&wire.Cancel{
			Request: id,
			Options: wire.SetOption(nil, wire.OptMode, wire.CancelModeKillNoWait),
		})
		select {
		case m, ok := <-ch:
			if !ok {
				return nil, ErrSessionClosed
			}
			msg = m
		case <-time.After(s.responseTimeout):
			s.syncAction(func() { delete(s.awaitingReply, id) })
			return nil, ErrReplyTimeout
		}
	}

	switch msg := msg.(type) {
	case *wire.Result:
		return msg, nil
	case *wire.Error:
		return nil, RPCError{Err: msg, Procedure: procedure}
	}
	return nil, unexpectedMsgError(msg, wire.RESULT)
}

// Close leaves the realm with a Goodbye exchange and tears the session
// down.  Every outstanding call and request fails with ErrSessionClosed;
// subscriptions and registrations are discarded without round trips.
func (s *Session) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return ErrAlreadyClosed
	}
	atomic.CompareAndSwapInt32(&s.state, int32(Established), int32(Closing))

	// Best effort; the peer may already be gone.
	s.send(&wire.Goodbye{Details: wire.Dict{}, Reason: wire.CloseRealm})

	// The router's Goodbye ack ends the receive loop, which tears down.
	// Force teardown if no ack arrives.
	select {
	case <-s.done:
	case <-time.After(s.responseTimeout):
		s.teardown()
	}
	return nil
}

// receive dispatches inbound messages until the session ends.  Messages
// are handled one at a time, which is what guarantees that handlers see
// events and invocations in delivery order.
func (s *Session) receive() {
	defer s.teardown()
	for msg := range s.peer.Recv() {
		if s.debug {
			s.log.Println("Session", s.id, "received", msg.MessageType())
		}
		switch msg := msg.(type) {
		case *wire.Event:
			s.handleEvent(msg)
		case *wire.Invocation:
			s.handleInvocation(msg)
		case *wire.Interrupt:
			s.handleInterrupt(msg)

		case *wire.Subscribed:
			s.signalReply(msg.Request, msg)
		case *wire.Unsubscribed:
			s.signalReply(msg.Request, msg)
		case *wire.Registered:
			s.signalReply(msg.Request, msg)
		case *wire.Unregistered:
			s.signalReply(msg.Request, msg)
		case *wire.Published:
			s.signalReply(msg.Request, msg)
		case *wire.Result:
			s.signalReply(msg.Request, msg)
		case *wire.Error:
			s.signalReply(msg.Request, msg)

		case *wire.Goodbye:
			if s.State() != Closing {
				// Router-initiated close; echo the ack.
				s.send(&wire.Goodbye{Details: wire.Dict{},
					Reason: wire.CloseGoodbyeAndOut})
			}
			return
		case *wire.Abort:
			s.log.Println("Router aborted session:", msg.Reason)
			return

		default:
			// Out-of-place message; drop it and keep the session alive.
			s.log.Println("Dropping unexpected", msg.MessageType(),
				"message from router")
		}
	}
}

// handleEvent delivers an event to its subscription's handler.  No
// handler means the subscription was concurrently removed; the event is
// dropped, which is a normal outcome and not an error.
func (s *Session) handleEvent(msg *wire.Event) {
	var handler EventHandler
	err := s.syncAction(func() {
		if sub, ok := s.subscriptions[msg.Subscription]; ok {
			handler = sub.handler
		}
	})
	if err != nil || handler == nil {
		if s.debug {
			s.log.Println("Dropping event for unknown subscription:",
				msg.Subscription)
		}
		return
	}
	handler(msg)
}

// handleInvocation runs the registered procedure for an invocation.  An
// immediate result is yielded before the next inbound message is
// dispatched.  A deferred result parks the invocation ID until the
// deferred settles, however many other invocations complete in between.
func (s *Session) handleInvocation(msg *wire.Invocation) {
	var handler InvocationHandler
	err := s.syncAction(func() {
		if reg, ok := s.registrations[msg.Registration]; ok {
			handler = reg.handler
		}
	})
	if err != nil {
		return
	}
	if handler == nil {
		// The router believes this session implements the procedure, but
		// the registration ID is not held here.  Report the bad argument
		// rather than an unregistered procedure.
		errMsg := fmt.Sprintf("no handler for registration: %v", msg.Registration)
		s.log.Print(errMsg)
		s.send(&wire.Error{
			Type:      wire.INVOCATION,
			Request:   msg.Request,
			Details:   wire.Dict{},
			Error:     wire.ErrInvalidArgument,
			Arguments: wire.List{errMsg},
		})
		return
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if timeout := wire.OptionInt64(msg.Details, wire.OptTimeout); timeout > 0 {
		// Caller requested a timeout, in milliseconds.
		ctx, cancel = context.WithTimeout(context.Background(),
			time.Duration(timeout)*time.Millisecond)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	result := handler(ctx, msg)

	if d := result.deferred; d != nil {
		err = s.syncAction(func() {
			s.pendingYields[msg.Request] = pendingYield{deferred: d, cancel: cancel}
		})
		if err != nil {
			cancel()
			return
		}
		go s.awaitDeferred(msg.Request, d)
		return
	}

	cancel()
	s.syncAction(func() { s.yieldResult(msg.Request, result) })
}

// awaitDeferred waits for a parked invocation's deferred result and
// yields it.  The invocation ID stays claimed until the deferred
// settles, so out-of-order completion across invocations is safe.
func (s *Session) awaitDeferred(invocationID wire.ID, d *Deferred) {
	select {
	case <-d.done:
		s.syncAction(func() {
			py, ok := s.pendingYields[invocationID]
			if !ok {
				// Removed by an interrupt; the router no longer wants an
				// answer.
				return
			}
			delete(s.pendingYields, invocationID)
			py.cancel()
			s.yieldResult(invocationID, d.result)
		})
	case <-s.done:
		// Session teardown abandons the invocation.
	}
}

// yieldResult sends the Yield or Error answering an invocation.  Must
// run on the action loop.
func (s *Session) yieldResult(invocationID wire.ID, result InvokeResult) {
	if result.Err != "" {
		s.peer.Send(&wire.Error{
			Type:        wire.INVOCATION,
			Request:     invocationID,
			Details:     wire.Dict{},
			Error:       result.Err,
			Arguments:   result.Args,
			ArgumentsKw: result.Kwargs,
		})
		return
	}
	s.peer.Send(&wire.Yield{
		Request:     invocationID,
		Options:     wire.Dict{},
		Arguments:   result.Args,
		ArgumentsKw: result.Kwargs,
	})
}

// handleInterrupt cancels a parked invocation.  In killnowait mode the
// router discards any response, so the pending entry is dropped and the
// eventual deferred settle goes unanswered.
func (s *Session) handleInterrupt(msg *wire.Interrupt) {
	s.syncAction(func() {
		py, ok := s.pendingYields[msg.Request]
		if !ok {
			return
		}
		if wire.OptionString(msg.Options, wire.OptMode) == wire.CancelModeKillNoWait {
			delete(s.pendingYields, msg.Request)
		}
		py.cancel()
	})
}

// signalReply hands a correlated response to the operation waiting on
// its request ID.  A reply nobody is waiting for is dropped; the waiter
// may have timed out or the ID may be stale.
func (s *Session) signalReply(requestID wire.ID, msg wire.Message) {
	s.syncAction(func() {
		ch, ok := s.awaitingReply[requestID]
		if !ok {
			if s.debug {
				s.log.Println("Dropping", msg.MessageType(), requestID,
					"that no operation is waiting for")
			}
			return
		}
		delete(s.awaitingReply, requestID)
		ch <- msg
	})
}

// teardown finishes the session: every waiting operation fails with
// ErrSessionClosed, parked invocations are canceled, the registries are
// discarded, and the peer is closed.  Idempotent; runs at most once.
func (s *Session) teardown() {
	s.syncAction(func() {
		if s.torndown {
			return
		}
		s.torndown = true

		for id, ch := range s.awaitingReply {
			delete(s.awaitingReply, id)
			close(ch)
		}
		for id, py := range s.pendingYields {
			delete(s.pendingYields, id)
			py.cancel()
		}
		// No unsubscribe or unregister round trips; the channel is gone.
		s.subscriptions = map[wire.ID]*Subscription{}
		s.registrations = map[wire.ID]*Registration{}
		s.procNames = map[wire.URI]wire.ID{}

		s.peer.Close()
		s.setState(Closed)
		close(s.done)
	})
}
