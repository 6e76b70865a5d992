package serialize

import (
	"github.com/ugorji/go/codec"

	"github.com/kestrelworks/viaduct/wire"
)

// CBORSerializer encodes messages as CBOR arrays.
type CBORSerializer struct{}

// Serialize encodes a message into a CBOR payload.
func (s *CBORSerializer) Serialize(msg wire.Message) ([]byte, error) {
	var b []byte
	cbh := &codec.CborHandle{}
	return b, codec.NewEncoderBytes(&b, cbh).Encode(msgToList(msg))
}

// Deserialize decodes a CBOR payload into a message.
func (s *CBORSerializer) Deserialize(data []byte) (wire.Message, error) {
	var v []interface{}
	cbh := &codec.CborHandle{}
	if err := codec.NewDecoderBytes(data, cbh).Decode(&v); err != nil {
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
