package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func testAddressBytes(network NetworkType, fill byte) []byte {
	out := make([]byte, 0, AddressDecodedSize)
	out = append(out, byte(network))
	for i := 0; i < 20; i++ {
		out = append(out, fill+byte(i))
	}
	sum := sha3.Sum256(out)
	return append(out, sum[:3]...)
}

func TestAddressFromEncodedRendersPlain(t *testing.T) {
	encoded := BytesToHex(testAddressBytes(NetworkTestNet, 0x10))
	require.True(t, IsEncodedAddress(encoded))

	addr, err := AddressFromEncoded(encoded)
	require.NoError(t, err)

	plain := addr.Plain()
	assert.Len(t, plain, AddressPlainSize)
	assert.True(t, strings.HasPrefix(plain, "T"))
	assert.NotEqual(t, encoded, plain)
	assert.Equal(t, encoded, addr.Encoded())
	assert.Equal(t, NetworkTestNet, addr.NetworkType())
	assert.True(t, addr.IsValid())
}

func TestAddressFromRawRoundTrip(t *testing.T) {
	addr, err := AddressFromEncoded(BytesToHex(testAddressBytes(NetworkMainNet, 0x42)))
	require.NoError(t, err)
	plain := addr.Plain()
	assert.True(t, strings.HasPrefix(plain, "N"))

	again, err := AddressFromRaw(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, again.Plain())
	assert.True(t, addr.Equal(again))

	lower, err := AddressFromRaw("  " + strings.ToLower(plain) + " ")
	require.NoError(t, err)
	assert.Equal(t, plain, lower.Plain())

	pretty := addr.Pretty()
	assert.Equal(t, 6, strings.Count(pretty, "-"))
	fromPretty, err := AddressFromRaw(pretty)
	require.NoError(t, err)
	assert.Equal(t, plain, fromPretty.Plain())
}

func TestAddressFromRawRejects(t *testing.T) {
	cases := map[string]string{
		"too short":       "TABC",
		"not base32":      strings.Repeat("1", AddressPlainSize),
		"unknown network": strings.Repeat("A", AddressPlainSize),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := AddressFromRaw(input)
			assert.Error(t, err)
		})
	}
}

func TestAddressFromEncodedRejects(t *testing.T) {
	_, err := AddressFromEncoded(strings.Repeat("Z", AddressEncodedSize))
	assert.Error(t, err)

	_, err = AddressFromEncoded("98AB")
	assert.Error(t, err)
}

func TestAddressChecksum(t *testing.T) {
	raw := testAddressBytes(NetworkPrivate, 0x01)
	raw[AddressDecodedSize-1] ^= 0xFF

	addr, err := AddressFromEncoded(BytesToHex(raw))
	require.NoError(t, err)
	assert.False(t, addr.IsValid())
}

func TestAddressMarshalJSON(t *testing.T) {
	addr, err := AddressFromEncoded(BytesToHex(testAddressBytes(NetworkTestNet, 0x20)))
	require.NoError(t, err)

	out, err := addr.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.Plain()+`"`, string(out))
}

func TestIsEncodedAddress(t *testing.T) {
	assert.False(t, IsEncodedAddress(""))
	assert.False(t, IsEncodedAddress(strings.Repeat("a", AddressEncodedSize-1)))
	assert.False(t, IsEncodedAddress(strings.Repeat("g", AddressEncodedSize)))
	assert.True(t, IsEncodedAddress(strings.Repeat("aF", AddressDecodedSize)))
}

func TestHexConversion(t *testing.T) {
	b, err := HexToBytes("e38182")
	require.NoError(t, err)
	s, err := BytesToUTF8(b)
	require.NoError(t, err)
	assert.Equal(t, "あ", s)

	_, err = HexToBytes("abc")
	assert.Error(t, err)
	_, err = BytesToUTF8([]byte{0xff, 0xfe})
	assert.Error(t, err)
}
