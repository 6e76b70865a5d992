/*
Package wire defines the message variants, identifier types, and peer
interface shared by every component that speaks the protocol.
*/
package wire

// MessageType is the numeric tag carried as the first element of every
// serialized message.
type MessageType int

// Message is implemented by all protocol message variants.
type Message interface {
	MessageType() MessageType
}

// Dict holds the keyword payload or option map of a message.
type Dict map[string]interface{}

// List holds the positional payload of a message.
type List []interface{}

// Message type tags.  The values are fixed by the wire protocol and must
// never change.
const (
	HELLO        MessageType = 1
	WELCOME      MessageType = 2
	ABORT        MessageType = 3
	CHALLENGE    MessageType = 4
	AUTHENTICATE MessageType = 5
	GOODBYE      MessageType = 6
	ERROR        MessageType = 8

	PUBLISH   MessageType = 16
	PUBLISHED MessageType = 17

	SUBSCRIBE    MessageType = 32
	SUBSCRIBED   MessageType = 33
	UNSUBSCRIBE  MessageType = 34
	UNSUBSCRIBED MessageType = 35
	EVENT        MessageType = 36

	CALL   MessageType = 48
	CANCEL MessageType = 49
	RESULT MessageType = 50

	REGISTER     MessageType = 64
	REGISTERED   MessageType = 65
	UNREGISTER   MessageType = 66
	UNREGISTERED MessageType = 67
	INVOCATION   MessageType = 68
	INTERRUPT    MessageType = 69
	YIELD        MessageType = 70
)

var msgTypeNames = map[MessageType]string{
	HELLO:        "HELLO",
	WELCOME:      "WELCOME",
	ABORT:        "ABORT",
	CHALLENGE:    "CHALLENGE",
	AUTHENTICATE: "AUTHENTICATE",
	GOODBYE:      "GOODBYE",
	ERROR:        "ERROR",
	PUBLISH:      "PUBLISH",
	PUBLISHED:    "PUBLISHED",
	SUBSCRIBE:    "SUBSCRIBE",
	SUBSCRIBED:   "SUBSCRIBED",
	UNSUBSCRIBE:  "UNSUBSCRIBE",
	UNSUBSCRIBED: "UNSUBSCRIBED",
	EVENT:        "EVENT",
	CALL:         "CALL",
	CANCEL:       "CANCEL",
	RESULT:       "RESULT",
	REGISTER:     "REGISTER",
	REGISTERED:   "REGISTERED",
	UNREGISTER:   "UNREGISTER",
	UNREGISTERED: "UNREGISTERED",
	INVOCATION:   "INVOCATION",
	INTERRUPT:    "INTERRUPT",
	YIELD:        "YIELD",
}

// String returns the protocol name for the message type, or empty string
// for an unknown tag.
func (t MessageType) String() string { return msgTypeNames[t] }

// NewMessage returns a zero message of the given type, or nil if the tag
// is not a known message type.
func NewMessage(t MessageType) Message {
	switch t {
	case HELLO:
		return &Hello{}
	case WELCOME:
		return &Welcome{}
	case ABORT:
		return &Abort{}
	case CHALLENGE:
		return &Challenge{}
	case AUTHENTICATE:
		return &Authenticate{}
	case GOODBYE:
		return &Goodbye{}
	case ERROR:
		return &Error{}
	case PUBLISH:
		return &Publish{}
	case PUBLISHED:
		return &Published{}
	case SUBSCRIBE:
		return &Subscribe{}
	case SUBSCRIBED:
		return &Subscribed{}
	case UNSUBSCRIBE:
		return &Unsubscribe{}
	case UNSUBSCRIBED:
		return &Unsubscribed{}
	case EVENT:
		return &Event{}
	case CALL:
		return &Call{}
	case CANCEL:
		return &Cancel{}
	case RESULT:
		return &Result{}
	case REGISTER:
		return &Register{}
	case REGISTERED:
		return &Registered{}
	case UNREGISTER:
		return &Unregister{}
	case UNREGISTERED:
		return &Unregistered{}
	case INVOCATION:
		return &Invocation{}
	case INTERRUPT:
		return &Interrupt{}
	case YIELD:
		return &Yield{}
	}
	return nil
}

// ----- Session lifecycle -----

// Hello opens a session, attaching to a realm on the router.
//
// [HELLO, Realm|uri, Details|dict]
type Hello struct {
	Realm   URI
	Details Dict
}

func (*Hello) MessageType() MessageType { return HELLO }

// Welcome is the router's acceptance of a Hello.  The session is open
// once this is received.
//
// [WELCOME, Session|id, Details|dict]
type Welcome struct {
	ID      ID
	Details Dict
}

func (*Welcome) MessageType() MessageType { return WELCOME }

// Abort rejects session establishment.  No response is expected.
//
// [ABORT, Details|dict, Reason|uri]
type Abort struct {
	Details Dict
	Reason  URI
}

func (*Abort) MessageType() MessageType { return ABORT }

// Challenge is sent by a router that requires authentication before
// admitting the session.
//
// [CHALLENGE, AuthMethod|string, Extra|dict]
type Challenge struct {
	AuthMethod string
	Extra      Dict
}

func (*Challenge) MessageType() MessageType { return CHALLENGE }

// Authenticate answers a Challenge with a signature.
//
// [AUTHENTICATE, Signature|string, Extra|dict]
type Authenticate struct {
	Signature string
	Extra     Dict
}

func (*Authenticate) MessageType() MessageType { return AUTHENTICATE }

// Goodbye closes an open session.  The receiving peer echoes it back.
//
// [GOODBYE, Details|dict, Reason|uri]
type Goodbye struct {
	Details Dict
	Reason  URI
}

func (*Goodbye) MessageType() MessageType { return GOODBYE }

// Error is the failure reply to any request carrying a request ID.  Type
// identifies the request message type the error answers.
//
// [ERROR, REQUEST.Type|int, REQUEST.Request|id, Details|dict, Error|uri,
//     Arguments|list, ArgumentsKw|dict]
type Error struct {
	Type        MessageType
	Request     ID
	Details     Dict
	Error       URI
	Arguments   List `wire:"omitempty"`
	ArgumentsKw Dict `wire:"omitempty"`
}

func (*Error) MessageType() MessageType { return ERROR }

// ----- Publish & Subscribe -----

// Publish submits an event to a topic.
//
// [PUBLISH, Request|id, Options|dict, Topic|uri, Arguments|list,
//     ArgumentsKw|dict]
type Publish struct {
	Request     ID
	Options     Dict
	Topic       URI
	Arguments   List `wire:"omitempty"`
	ArgumentsKw Dict `wire:"omitempty"`
}

func (*Publish) MessageType() MessageType { return PUBLISH }

// Published acknowledges a Publish that requested acknowledgement.
//
// [PUBLISHED, PUBLISH.Request|id, Publication|id]
type Published struct {
	Request     ID
	Publication ID
}

func (*Published) MessageType() MessageType { return PUBLISHED }

// Subscribe requests event delivery for a topic.
//
// [SUBSCRIBE, Request|id, Options|dict, Topic|uri]
type Subscribe struct {
	Request ID
	Options Dict
	Topic   URI
}

func (*Subscribe) MessageType() MessageType { return SUBSCRIBE }

// Subscribed confirms a Subscribe and assigns the subscription ID.
//
// [SUBSCRIBED, SUBSCRIBE.Request|id, Subscription|id]
type Subscribed struct {
	Request      ID
	Subscription ID
}

func (*Subscribed) MessageType() MessageType { return SUBSCRIBED }

// Unsubscribe withdraws a subscription.
//
// [UNSUBSCRIBE, Request|id, SUBSCRIBED.Subscription|id]
type Unsubscribe struct {
	Request      ID
	Subscription ID
}

func (*Unsubscribe) MessageType() MessageType { return UNSUBSCRIBE }

// Unsubscribed confirms an Unsubscribe.
//
// [UNSUBSCRIBED, UNSUBSCRIBE.Request|id]
type Unsubscribed struct {
	Request ID
}

func (*Unsubscribed) MessageType() MessageType { return UNSUBSCRIBED }

// Event delivers a published event to a subscriber.
//
// [EVENT, SUBSCRIBED.Subscription|id, PUBLISHED.Publication|id,
//     Details|dict, Arguments|list, ArgumentsKw|dict]
type Event struct {
	Subscription ID
	Publication  ID
	Details      Dict
	Arguments    List `wire:"omitempty"`
	ArgumentsKw  Dict `wire:"omitempty"`
}

func (*Event) MessageType() MessageType { return EVENT }

// ----- Remote procedure calls -----

// Register announces a callee endpoint for a procedure.
//
// [REGISTER, Request|id, Options|dict, Procedure|uri]
type Register struct {
	Request   ID
	Options   Dict
	Procedure URI
}

func (*Register) MessageType() MessageType { return REGISTER }

// Registered confirms a Register and assigns the registration ID.
//
// [REGISTERED, REGISTER.Request|id, Registration|id]
type Registered struct {
	Request      ID
	Registration ID
}

func (*Registered) MessageType() MessageType { return REGISTERED }

// Unregister withdraws a registration.
//
// [UNREGISTER, Request|id, REGISTERED.Registration|id]
type Unregister struct {
	Request      ID
	Registration ID
}

func (*Unregister) MessageType() MessageType { return UNREGISTER }

// Unregistered confirms an Unregister.
//
// [UNREGISTERED, UNREGISTER.Request|id]
type Unregistered struct {
	Request ID
}

func (*Unregistered) MessageType() MessageType { return UNREGISTERED }

// Call requests invocation of a registered procedure.
//
// [CALL, Request|id, Options|dict, Procedure|uri, Arguments|list,
//     ArgumentsKw|dict]
type Call struct {
	Request     ID
	Options     Dict
	Procedure   URI
	Arguments   List `wire:"omitempty"`
	ArgumentsKw Dict `wire:"omitempty"`
}

func (*Call) MessageType() MessageType { return CALL }

// Cancel asks the router to cancel a call in progress.
//
// [CANCEL, CALL.Request|id, Options|dict]
type Cancel struct {
	Request ID
	Options Dict
}

func (*Cancel) MessageType() MessageType { return CANCEL }

// Result carries the outcome of a call back to the caller.
//
// [RESULT, CALL.Request|id, Details|dict, YIELD.Arguments|list,
//     YIELD.ArgumentsKw|dict]
type Result struct {
	Request     ID
	Details     Dict
	Arguments   List `wire:"omitempty"`
	ArgumentsKw Dict `wire:"omitempty"`
}

func (*Result) MessageType() MessageType { return RESULT }

// Invocation is the router's request that a callee run a registered
// procedure.
//
// [INVOCATION, Request|id, REGISTERED.Registration|id, Details|dict,
//     CALL.Arguments|list, CALL.ArgumentsKw|dict]
type Invocation struct {
	Request      ID
	Registration ID
	Details      Dict
	Arguments    List `wire:"omitempty"`
	ArgumentsKw  Dict `wire:"omitempty"`
}

func (*Invocation) MessageType() MessageType { return INVOCATION }

// Interrupt asks a callee to abandon an invocation in progress.
//
// [INTERRUPT, INVOCATION.Request|id, Options|dict]
type Interrupt struct {
	Request ID
	Options Dict
}

func (*Interrupt) MessageType() MessageType { return INTERRUPT }

// Yield returns the outcome of an invocation from the callee.
//
// [YIELD, INVOCATION.Request|id, Options|dict, Arguments|list,
//     ArgumentsKw|dict]
type Yield struct {
	Request     ID
	Options     Dict
	Arguments   List `wire:"omitempty"`
	ArgumentsKw Dict `wire:"omitempty"`
}

func (*Yield) MessageType() MessageType { return YIELD }

// IsGoodbyeAck reports whether msg is the acknowledging half of a
// Goodbye exchange.  Transports use this to avoid logging a send failure
// when the remote peer did not wait for the ack.
func IsGoodbyeAck(msg Message) bool {
	gb, ok := msg.(*Goodbye)
	return ok && gb.Reason == CloseGoodbyeAndOut
}
