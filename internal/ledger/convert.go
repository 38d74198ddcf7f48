// Package ledger holds the Symbol ledger primitives the metadata pipeline relies on:
// strict hex/UTF-8 conversion and account address handling.
package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// HexToBytes decodes a hex string where every byte is two hex characters.
// Odd lengths and non-hex characters are rejected.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hex string has odd length %d", len(s))
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return out, nil
}

// BytesToHex renders bytes as upper-case hex, the form the node uses for keys and ids.
func BytesToHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// BytesToUTF8 converts bytes to a string, failing on any invalid UTF-8 sequence.
func BytesToUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("byte sequence is not valid UTF-8")
	}
	return string(b), nil
}

// IsHex reports whether s is non-empty and contains only hex digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
