// Package decoder turns encoded metadata values back into text.
// None of its functions fail: on bad input they degrade to a lossy rendering.
package decoder

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/kapu/symbol-social-metadata-go/internal/ledger"
	"golang.org/x/text/encoding/charmap"
)

const maxLatin1Rune = 0xFF

// HexToUTF8 decodes a hex encoded UTF-8 string.
//
// The strict ledger conversion is tried first. When it rejects the input the
// string is parsed two characters at a time, leniently, and the resulting
// bytes are read as UTF-8 or, failing that, one rune per byte.
func HexToUTF8(hex string) string {
	if raw, err := ledger.HexToBytes(hex); err == nil {
		if s, err := ledger.BytesToUTF8(raw); err == nil {
			return s
		}
	}
	return bytesToText(lenientHexBytes(hex))
}

// Base64ToUTF8 decodes base64 encoded UTF-8 text with the same fallback shape as HexToUTF8.
// Input that is not base64 at all yields an empty string.
func Base64ToUTF8(b64 string) string {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimSpace(b64))
		if err != nil {
			return ""
		}
	}
	if s, err := ledger.BytesToUTF8(raw); err == nil {
		return s
	}
	return latin1(raw)
}

// RepairLegacyName undoes a UTF-8 string that was stored after being read as Latin-1.
// It reports false, with the input unchanged, when the name cannot be reinterpreted.
func RepairLegacyName(name string) (string, bool) {
	for _, r := range name {
		if r > maxLatin1Rune {
			return name, false
		}
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(name)
	if err != nil {
		return name, false
	}
	if !utf8.ValidString(raw) {
		return name, false
	}
	return raw, true
}

// lenientHexBytes reads each two character chunk up to its first non-hex digit.
// A chunk without a leading hex digit becomes 0; a trailing single character is read alone.
func lenientHexBytes(hex string) []byte {
	out := make([]byte, 0, (len(hex)+1)/2)
	for i := 0; i < len(hex); i += 2 {
		end := min(i+2, len(hex))
		var v byte
		for j := i; j < end; j++ {
			d, ok := hexValue(hex[j])
			if !ok {
				break
			}
			v = v<<4 | d
		}
		out = append(out, v)
	}
	return out
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func bytesToText(raw []byte) string {
	if s, err := ledger.BytesToUTF8(raw); err == nil {
		return s
	}
	return latin1(raw)
}

func latin1(raw []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		runes := make([]rune, len(raw))
		for i, b := range raw {
			runes[i] = rune(b)
		}
		return string(runes)
	}
	return string(s)
}
