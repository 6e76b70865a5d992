package serialize

import (
	"encoding/base64"

	"github.com/ugorji/go/codec"

	"github.com/kestrelworks/viaduct/wire"
)

// JSONSerializer encodes messages as JSON arrays.
type JSONSerializer struct{}

// Serialize encodes a message into a JSON payload.
func (s *JSONSerializer) Serialize(msg wire.Message) ([]byte, error) {
	var b []byte
	jsh := &codec.JsonHandle{}
	return b, codec.NewEncoderBytes(&b, jsh).Encode(msgToList(msg))
}

// Deserialize decodes a JSON payload into a message.
func (s *JSONSerializer) Deserialize(data []byte) (wire.Message, error) {
	var v []interface{}
	jsh := &codec.JsonHandle{}
	if err := codec.NewDecoderBytes(data, jsh).Decode(&v); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if len(v) == 0 {
		return nil, &DecodeError{Reason: "empty message"}
	}
	// The JSON decoder produces uint64 for non-negative numbers.
	typ, ok := v[0].(uint64)
	if !ok {
		return nil, decodeErrorf("message type tag is %T, want integer", v[0])
	}
	return listToMsg(wire.MessageType(typ), v)
}

// BinaryData is a byte slice that follows the convention for embedding
// binary values in JSON text: base64-encode the bytes and prefix the
// resulting string with a NUL character.
type BinaryData []byte

func (b BinaryData) MarshalJSON() ([]byte, error) {
	s := base64.StdEncoding.EncodeToString([]byte(b))
	var out []byte
	jsh := &codec.JsonHandle{}
	return out, codec.NewEncoderBytes(&out, jsh).Encode("\x00" + s)
}

func (b *BinaryData) UnmarshalJSON(v []byte) error {
	var s string
	jsh := &codec.JsonHandle{}
	if err := codec.NewDecoderBytes(v, jsh).Decode(&s); err != nil {
		return err
	}
	if len(s) == 0 || s[0] != '\x00' {
		return &DecodeError{Reason: "binary string does not start with NUL"}
	}
	data, err := base64.StdEncoding.DecodeString(s[1:])
	if err != nil {
		return err
	}
	*b = data
	return nil
}
