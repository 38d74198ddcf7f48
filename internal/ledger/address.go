package ledger

import (
	"bytes"
	"encoding/base32"
	"strings"

	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
	"golang.org/x/crypto/sha3"
)

const (
	AddressDecodedSize = 24
	AddressEncodedSize = AddressDecodedSize * 2
	AddressPlainSize   = 39

	addressChecksumSize = 3
	addressHashEnd      = AddressDecodedSize - addressChecksumSize
	prettyGroupSize     = 6
)

// NetworkType is the first byte of every decoded address.
type NetworkType byte

const (
	NetworkMainNet     NetworkType = 0x68
	NetworkTestNet     NetworkType = 0x98
	NetworkPrivate     NetworkType = 0x78
	NetworkPrivateTest NetworkType = 0xA8
)

func (n NetworkType) String() string {
	switch n {
	case NetworkMainNet:
		return "MAIN_NET"
	case NetworkTestNet:
		return "TEST_NET"
	case NetworkPrivate:
		return "PRIVATE"
	case NetworkPrivateTest:
		return "PRIVATE_TEST"
	default:
		return "UNKNOWN"
	}
}

// Known reports whether n is one of the supported network types.
func (n NetworkType) Known() bool {
	return n.String() != "UNKNOWN"
}

// Address is a decoded Symbol account address:
// network byte, 20 byte public key hash and a 3 byte checksum.
type Address struct {
	decoded [AddressDecodedSize]byte
}

// AddressFromEncoded builds an address from its 48 character hex form.
func AddressFromEncoded(encoded string) (*Address, error) {
	raw, err := HexToBytes(encoded)
	if err != nil {
		return nil, errors.NewAddressError("encoded address is not hex", encoded)
	}
	if len(raw) != AddressDecodedSize {
		return nil, errors.NewAddressError("encoded address must decode to 24 bytes", encoded)
	}
	return AddressFromRaw(encodeAddress(raw))
}

// AddressFromRaw builds an address from its plain or pretty (hyphenated) form.
// The checksum is not verified here; use IsValid for that.
func AddressFromRaw(raw string) (*Address, error) {
	plain := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), "-", "")
	if len(plain) != AddressPlainSize {
		return nil, errors.NewAddressError("address has to be 39 characters long", raw)
	}
	decoded, err := base32.StdEncoding.DecodeString(plain + "A")
	if err != nil {
		return nil, errors.NewAddressError("address is not base32", raw)
	}

	addr := &Address{}
	copy(addr.decoded[:], decoded[:AddressDecodedSize])
	if !addr.NetworkType().Known() {
		return nil, errors.NewAddressError("address network unsupported", raw)
	}
	return addr, nil
}

// IsEncodedAddress reports whether s looks like the 48 character hex form of an address.
func IsEncodedAddress(s string) bool {
	return len(s) == AddressEncodedSize && IsHex(s)
}

func encodeAddress(decoded []byte) string {
	padded := make([]byte, 0, AddressDecodedSize+1)
	padded = append(padded, decoded...)
	padded = append(padded, 0)
	encoded := base32.StdEncoding.EncodeToString(padded)
	return encoded[:len(encoded)-1]
}

func (a *Address) NetworkType() NetworkType {
	return NetworkType(a.decoded[0])
}

// Plain is the 39 character human readable form.
func (a *Address) Plain() string {
	return encodeAddress(a.decoded[:])
}

// Pretty splits the plain form into hyphen separated groups of six.
func (a *Address) Pretty() string {
	plain := a.Plain()
	var sb strings.Builder
	for i := 0; i < len(plain); i += prettyGroupSize {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := min(i+prettyGroupSize, len(plain))
		sb.WriteString(plain[i:end])
	}
	return sb.String()
}

// Encoded is the upper case hex form used by the REST gateway.
func (a *Address) Encoded() string {
	return BytesToHex(a.decoded[:])
}

func (a *Address) Bytes() []byte {
	out := make([]byte, AddressDecodedSize)
	copy(out, a.decoded[:])
	return out
}

// IsValid checks the trailing checksum against SHA3-256 of the network byte and hash.
func (a *Address) IsValid() bool {
	sum := sha3.Sum256(a.decoded[:addressHashEnd])
	return bytes.Equal(sum[:addressChecksumSize], a.decoded[addressHashEnd:])
}

func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.decoded == other.decoded
}

func (a *Address) String() string {
	return a.Plain()
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Plain())
}
