package wire

// Extended type assertions.  Deserialized payloads carry whatever numeric
// and map types the codec produced, so handlers use these instead of bare
// type assertions.

// AsString converts v to a string if it holds string-like data.
func AsString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case URI:
		return string(v), true
	}
	return "", false
}

// AsURI converts v to a URI if it holds string-like data.
func AsURI(v interface{}) (URI, bool) {
	s, ok := AsString(v)
	return URI(s), ok
}

// AsInt64 converts any integer type to int64.
func AsInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case ID:
		return int64(v), true
	case MessageType:
		return int64(v), true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	}
	return 0, false
}

// AsID converts any integer type to an ID.
func AsID(v interface{}) (ID, bool) {
	if n, ok := AsInt64(v); ok {
		return ID(n), true
	}
	return 0, false
}

// AsFloat64 converts any numeric type to float64.
func AsFloat64(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		if n, ok := AsInt64(v); ok {
			return float64(n), true
		}
	}
	return 0, false
}

// AsList converts v to a List.
func AsList(v interface{}) (List, bool) {
	switch v := v.(type) {
	case List:
		return v, true
	case []interface{}:
		return List(v), true
	}
	return nil, false
}

// AsDict converts v to a Dict.
func AsDict(v interface{}) (Dict, bool) {
	switch v := v.(type) {
	case Dict:
		return v, true
	case map[string]interface{}:
		return Dict(v), true
	}
	return nil, false
}
