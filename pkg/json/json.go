package json

import jsoniter "github.com/json-iterator/go"

// RawMessage is a raw encoded JSON value, decoded later.
type RawMessage = jsoniter.RawMessage

var (
	// JSON is the std-compatible jsoniter configuration used for node responses and metadata values.
	JSON = jsoniter.ConfigCompatibleWithStandardLibrary

	// Strict matches object keys case-sensitively; use it where field names are part of the contract.
	Strict = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		CaseSensitive:          true,
	}.Froze()

	Marshal       = JSON.Marshal
	MarshalIndent = JSON.MarshalIndent
	Unmarshal     = JSON.Unmarshal
	NewDecoder    = JSON.NewDecoder
	NewEncoder    = JSON.NewEncoder

	UnmarshalStrict = Strict.Unmarshal
)
