package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageTypeString(t *testing.T) {
	require.Equal(t, "HELLO", HELLO.String())
	require.Equal(t, "INVOCATION", INVOCATION.String())
	require.Equal(t, "YIELD", YIELD.String())
}

func TestNewMessage(t *testing.T) {
	for _, mt := range []MessageType{
		HELLO, WELCOME, ABORT, CHALLENGE, AUTHENTICATE, GOODBYE, ERROR,
		PUBLISH, PUBLISHED, SUBSCRIBE, SUBSCRIBED, UNSUBSCRIBE, UNSUBSCRIBED,
		EVENT, CALL, CANCEL, RESULT, REGISTER, REGISTERED, UNREGISTER,
		UNREGISTERED, INVOCATION, INTERRUPT, YIELD,
	} {
		msg := NewMessage(mt)
		require.NotNil(t, msg, "no message for type %d", mt)
		require.Equal(t, mt, msg.MessageType())
	}
	require.Nil(t, NewMessage(MessageType(1234)))
}

func TestIsGoodbyeAck(t *testing.T) {
	require.True(t, IsGoodbyeAck(&Goodbye{Reason: CloseGoodbyeAndOut}))
	require.False(t, IsGoodbyeAck(&Goodbye{Reason: CloseRealm}))
	require.False(t, IsGoodbyeAck(&Hello{}))
}

func TestURIValid(t *testing.T) {
	valid := []URI{"a.b.c", "com.myapp.topic1", "wamp.error.not_authorized", "a"}
	for _, uri := range valid {
		require.True(t, uri.Valid(false), "expected %q valid", uri)
		require.True(t, uri.Valid(true), "expected %q strictly valid", uri)
	}

	invalid := []URI{"", "a..b", ".a.b", "a.b.", "a b.c", "a.#.c"}
	for _, uri := range invalid {
		require.False(t, uri.Valid(false), "expected %q invalid", uri)
	}

	// Loose allows mixed case, strict does not.
	require.True(t, URI("com.myApp.Topic").Valid(false))
	require.False(t, URI("com.myApp.Topic").Valid(true))
}

func TestIDGen(t *testing.T) {
	var gen IDGen
	require.Equal(t, ID(1), gen.Next())
	require.Equal(t, ID(2), gen.Next())
	require.Equal(t, ID(3), gen.Next())

	// Wraps back to 1 past 2^53.
	gen.next = maxID - 1
	require.Equal(t, ID(maxID), gen.Next())
	require.Equal(t, ID(1), gen.Next())
}

func TestGlobalIDRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := GlobalID()
		require.LessOrEqual(t, uint64(id), uint64(maxID))
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := SetOption(nil, OptAcknowledge, true)
	opts = SetOption(opts, OptTimeout, 5000)
	opts = SetOption(opts, OptMatch, MatchPrefix)

	require.True(t, OptionFlag(opts, OptAcknowledge))
	require.Equal(t, int64(5000), OptionInt64(opts, OptTimeout))
	require.Equal(t, MatchPrefix, OptionString(opts, OptMatch))

	require.False(t, OptionFlag(opts, "missing"))
	require.Equal(t, int64(0), OptionInt64(opts, "missing"))
	require.Equal(t, "", OptionString(opts, "missing"))
	require.False(t, OptionFlag(nil, OptAcknowledge))
}

func TestAsInt64(t *testing.T) {
	for _, v := range []interface{}{int(7), int64(7), uint64(7), float64(7), ID(7)} {
		n, ok := AsInt64(v)
		require.True(t, ok, "AsInt64(%T) not ok", v)
		require.Equal(t, int64(7), n)
	}
	_, ok := AsInt64("7")
	require.False(t, ok)
}

func TestAsID(t *testing.T) {
	id, ok := AsID(uint64(99))
	require.True(t, ok)
	require.Equal(t, ID(99), id)
	_, ok = AsID("nope")
	require.False(t, ok)
}

func TestAsString(t *testing.T) {
	s, ok := AsString("hi")
	require.True(t, ok)
	require.Equal(t, "hi", s)

	s, ok = AsString([]byte("raw"))
	require.True(t, ok)
	require.Equal(t, "raw", s)

	u, ok := AsURI("a.b")
	require.True(t, ok)
	require.Equal(t, URI("a.b"), u)

	_, ok = AsString(3)
	require.False(t, ok)
}

func TestAsListAndDict(t *testing.T) {
	l, ok := AsList([]interface{}{1, 2})
	require.True(t, ok)
	require.Len(t, l, 2)

	l, ok = AsList(List{"x"})
	require.True(t, ok)
	require.Len(t, l, 1)

	d, ok := AsDict(map[string]interface{}{"k": "v"})
	require.True(t, ok)
	require.Equal(t, "v", d["k"])

	_, ok = AsDict("not a dict")
	require.False(t, ok)
}
