package serialize

import (
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/kestrelworks/viaduct/wire"
)

// MessagePackSerializer encodes messages as msgpack arrays.
type MessagePackSerializer struct{}

func msgpackHandle() *codec.MsgpackHandle {
	mph := &codec.MsgpackHandle{}
	mph.RawToString = true
	mph.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return mph
}

// Serialize encodes a message into a msgpack payload.
func (s *MessagePackSerializer) Serialize(msg wire.Message) ([]byte, error) {
	var b []byte
	return b, codec.NewEncoderBytes(&b, msgpackHandle()).Encode(msgToList(msg))
}

// Deserialize decodes a msgpack payload into a message.
func (s *MessagePackSerializer) Deserialize(data []byte) (wire.Message, error) {
	var v []interface{}
	if err := codec.NewDecoderBytes(data, msgpackHandle()).Decode(&v); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if len(v) == 0 {
		return nil, &DecodeError{Reason: "empty message"}
	}
	typ, ok := wire.AsInt64(v[0])
	if !ok {
		return nil, decodeErrorf("message type tag is %T, want integer", v[0])
	}
	return listToMsg(wire.MessageType(typ), v)
}
