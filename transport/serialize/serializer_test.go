package serialize

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/viaduct/wire"
)

var serializers = map[string]Serializer{
	"json":    &JSONSerializer{},
	"msgpack": &MessagePackSerializer{},
	"cbor":    &CBORSerializer{},
}

// roundTrip encodes a message and decodes the result.  Codecs change the
// concrete types of numbers and maps along the way, so callers compare
// fields with the wire conversion helpers rather than deep equality.
func roundTrip(t *testing.T, s Serializer, msg wire.Message) wire.Message {
	t.Helper()
	data, err := s.Serialize(msg)
	require.NoError(t, err)
	out, err := s.Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize failed: %s\nmessage: %s", err, spew.Sdump(msg))
	}
	require.Equal(t, msg.MessageType(), out.MessageType())
	return out
}

func TestSerializeHello(t *testing.T) {
	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			in := &wire.Hello{
				Realm: "viaduct.test.realm",
				Details: wire.Dict{
					"authmethods": wire.List{"ticket"},
					"agent":       "viaduct",
				},
			}
			out := roundTrip(t, s, in).(*wire.Hello)
			require.Equal(t, in.Realm, out.Realm)

			agent, _ := wire.AsString(out.Details["agent"])
			require.Equal(t, "viaduct", agent)
			methods, ok := wire.AsList(out.Details["authmethods"])
			require.True(t, ok)
			got, _ := wire.AsString(methods[0])
			require.Equal(t, "ticket", got)
		})
	}
}

func TestSerializeEvent(t *testing.T) {
	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			in := &wire.Event{
				Subscription: 11,
				Publication:  22,
				Details:      wire.Dict{},
				Arguments:    wire.List{"hello", 42},
				ArgumentsKw:  wire.Dict{"color": "blue"},
			}
			out := roundTrip(t, s, in).(*wire.Event)
			require.Equal(t, in.Subscription, out.Subscription)
			require.Equal(t, in.Publication, out.Publication)

			str, _ := wire.AsString(out.Arguments[0])
			require.Equal(t, "hello", str)
			n, ok := wire.AsInt64(out.Arguments[1])
			require.True(t, ok)
			require.Equal(t, int64(42), n)
			color, _ := wire.AsString(out.ArgumentsKw["color"])
			require.Equal(t, "blue", color)
		})
	}
}

func TestSerializeCall(t *testing.T) {
	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			in := &wire.Call{
				Request:   77,
				Options:   wire.Dict{"timeout": 5000},
				Procedure: "test.proc",
				Arguments: wire.List{1, 2, 3},
			}
			out := roundTrip(t, s, in).(*wire.Call)
			require.Equal(t, in.Request, out.Request)
			require.Equal(t, in.Procedure, out.Procedure)
			require.Equal(t, int64(5000), wire.OptionInt64(out.Options, wire.OptTimeout))
			require.Len(t, out.Arguments, 3)
			require.Nil(t, out.ArgumentsKw)
		})
	}
}

func TestSerializeError(t *testing.T) {
	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			in := &wire.Error{
				Type:      wire.CALL,
				Request:   5,
				Details:   wire.Dict{},
				Error:     wire.ErrNoSuchProcedure,
				Arguments: wire.List{"no one home"},
			}
			out := roundTrip(t, s, in).(*wire.Error)
			require.Equal(t, wire.CALL, out.Type)
			require.Equal(t, in.Request, out.Request)
			require.Equal(t, in.Error, out.Error)
		})
	}
}

// Empty trailing payload fields are trimmed from the encoded list; a
// publish with no arguments is a 4-element array on the wire.
func TestOmitEmptyTrimsTail(t *testing.T) {
	s := &JSONSerializer{}
	data, err := s.Serialize(&wire.Publish{
		Request: 1,
		Options: wire.Dict{},
		Topic:   "test.topic",
	})
	require.NoError(t, err)
	require.JSONEq(t, `[16,1,{},"test.topic"]`, string(data))

	// Keyword arguments alone still force the positional slot.
	data, err = s.Serialize(&wire.Publish{
		Request:     1,
		Options:     wire.Dict{},
		Topic:       "test.topic",
		ArgumentsKw: wire.Dict{"k": "v"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `[16,1,{},"test.topic",null,{"k":"v"}]`, string(data))
}

func TestDeserializeBadPayloads(t *testing.T) {
	for name, data := range map[string][]byte{
		"malformed":    []byte("{[not json"),
		"empty list":   []byte("[]"),
		"string tag":   []byte(`["hello","realm1",{}]`),
		"unknown type": []byte("[9999,1,{}]"),
		"bad field":    []byte(`[48,"not-a-request-id",{},"test.proc"]`),
	} {
		t.Run(name, func(t *testing.T) {
			s := &JSONSerializer{}
			_, err := s.Deserialize(data)
			require.Error(t, err)
			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
		})
	}
}

func TestDeserializeBinaryPayloads(t *testing.T) {
	for name, s := range map[string]Serializer{
		"msgpack": &MessagePackSerializer{},
		"cbor":    &CBORSerializer{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Deserialize([]byte{0xff, 0x01, 0x02})
			require.Error(t, err)
			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
		})
	}
}

func TestBinaryDataJSON(t *testing.T) {
	in := BinaryData{0x01, 0x02, 0xfe, 0xff}
	enc, err := in.MarshalJSON()
	require.NoError(t, err)
	// NUL-prefixed base64 inside a JSON string.
	require.Equal(t, "\"\x00AQL+/w==\"", string(enc))

	var out BinaryData
	require.NoError(t, out.UnmarshalJSON(enc))
	require.Equal(t, in, out)

	require.Error(t, out.UnmarshalJSON([]byte(`"bm8tbnVs"`)),
		"expected error without NUL prefix")
}
