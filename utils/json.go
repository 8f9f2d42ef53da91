package utils

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// The ledger signs the exact bytes it is given, so every serialization in
// this library has to be canonical: struct keys in declared order, no
// insignificant whitespace. jsoniter in std-compatible mode gives exactly
// that while staying drop-in for encoding/json.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONMarshal serializes v to canonical JSON.
func JSONMarshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// JSONUnmarshal parses data into v.
func JSONUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// NewJSONDecoder returns a decoder reading from r.
func NewJSONDecoder(r io.Reader) *jsoniter.Decoder {
	return json.NewDecoder(r)
}

// ValidJSON reports whether data is syntactically valid JSON.
func ValidJSON(data []byte) bool {
	return json.Valid(data)
}
