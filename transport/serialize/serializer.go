/*
Package serialize converts protocol messages to and from their wire
representations.

Every message is encoded as a list whose first element is the numeric
message type tag, followed by the message fields in fixed positions.
Trailing fields tagged `wire:"omitempty"` are dropped from the encoded
list when empty.  Serializers are pure transforms; a malformed payload
produces a *DecodeError and leaves nothing in an inconsistent state.
*/
package serialize

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kestrelworks/viaduct/wire"
)

// Serialization selects the encoding used on a connection.
type Serialization int

const (
	// JSON text encoding.
	JSON Serialization = iota
	// MSGPACK binary encoding.
	MSGPACK
	// CBOR binary encoding.
	CBOR
)

// Serializer encodes and decodes protocol messages.
type Serializer interface {
	Serialize(wire.Message) ([]byte, error)
	Deserialize([]byte) (wire.Message, error)
}

// DecodeError describes a payload that could not be decoded into a
// message.  The connection itself is unaffected; the caller decides
// whether to drop the message or abandon the session.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "cannot decode message: " + e.Reason
}

func decodeErrorf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// listToMsg populates a message of the given type from the decoded wire
// list.  list[0] is the type tag; field i of the message comes from
// list[i+1].
func listToMsg(msgType wire.MessageType, list []interface{}) (wire.Message, error) {
	msg := wire.NewMessage(msgType)
	if msg == nil {
		return nil, decodeErrorf("unknown message type: %d", msgType)
	}
	target := reflect.ValueOf(msg).Elem()
	n := target.NumField()
	if len(list)-1 < n {
		n = len(list) - 1
	}
	for i := 0; i < n; i++ {
		if list[i+1] == nil {
			continue
		}
		if err := setField(target.Field(i), reflect.ValueOf(list[i+1])); err != nil {
			return nil, decodeErrorf("%s field %d: %s", msgType, i+1, err)
		}
	}
	return msg, nil
}

// setField assigns a decoded value to one message field, converting it
// as needed.
func setField(field reflect.Value, item reflect.Value) error {
	if item.Kind() == reflect.Ptr {
		item = item.Elem()
	}
	if item.Type().AssignableTo(field.Type()) {
		field.Set(item)
		return nil
	}
	if item.Type().ConvertibleTo(field.Type()) {
		field.Set(item.Convert(field.Type()))
		return nil
	}
	// Not directly assignable or convertible; the only remaining legal
	// cases are map and slice fields whose element types need converting
	// one at a time.
	if item.Type().Kind() != field.Type().Kind() {
		return fmt.Errorf("has type %s, want %s", item.Type(), field.Type())
	}
	switch field.Type().Kind() {
	case reflect.Map:
		return assignMap(field, item)
	case reflect.Slice:
		return assignSlice(field, item)
	}
	// Message structs only contain scalar, map, and slice fields, so
	// reaching here is a programming error.
	panic(fmt.Sprintf("unhandled message field kind %s", field.Type().Kind()))
}

// convertValue converts val to typ when necessary and possible.
func convertValue(val reflect.Value, typ reflect.Type) (reflect.Value, error) {
	if val.Type().AssignableTo(typ) {
		return val, nil
	}
	if !val.Type().ConvertibleTo(typ) {
		return val, fmt.Errorf("type %s not convertible to %s",
			val.Type().Kind(), typ.Kind())
	}
	return val.Convert(typ), nil
}

// assignMap copies the entries of src into dst, converting keys and
// values to dst's key and element types.
func assignMap(dst reflect.Value, src reflect.Value) error {
	keyType := dst.Type().Key()
	elemType := dst.Type().Elem()

	dst.Set(reflect.MakeMap(dst.Type()))
	for _, key := range src.MapKeys() {
		entry := src.MapIndex(key)
		if key.Kind() == reflect.Interface {
			key = key.Elem()
		}
		key, err := convertValue(key, keyType)
		if err != nil {
			return fmt.Errorf("bad map key '%v': %s", key.Interface(), err)
		}
		entry, err = convertValue(entry, elemType)
		if err != nil {
			return fmt.Errorf("bad value for key '%v': %s", key.Interface(), err)
		}
		dst.SetMapIndex(key, entry)
	}
	return nil
}

// assignSlice copies the elements of src into dst, converting each to
// dst's element type.
func assignSlice(dst reflect.Value, src reflect.Value) error {
	dst.Set(reflect.MakeSlice(dst.Type(), src.Len(), src.Len()))
	elemType := dst.Type().Elem()
	for i := 0; i < src.Len(); i++ {
		entry, err := convertValue(src.Index(i), elemType)
		if err != nil {
			return fmt.Errorf("bad value at index %d: %s", i, err)
		}
		dst.Index(i).Set(entry)
	}
	return nil
}

// msgToList flattens a message into its wire list.  Empty trailing
// fields tagged omitempty are not included.
func msgToList(msg wire.Message) []interface{} {
	source := reflect.ValueOf(msg).Elem()

	last := source.Type().NumField() - 1
	for ; last > 0; last-- {
		tag := source.Type().Field(last).Tag.Get("wire")
		if !strings.Contains(tag, "omitempty") {
			break
		}
		if source.Field(last).Len() > 0 {
			break
		}
	}

	out := make([]interface{}, 0, last+2)
	out = append(out, int(msg.MessageType()))
	for i := 0; i <= last; i++ {
		out = append(out, source.Field(i).Interface())
	}
	return out
}
