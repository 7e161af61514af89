package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []byte
	}{
		{"", []byte{}},
		{"0x", []byte{}},
		{"ef00", []byte{0xef, 0x00}},
		{"0xEF0001", []byte{0xef, 0x00, 0x01}},
		{"  0xf ", []byte{0x0f}},
		{"abc", []byte{0x0a, 0xbc}},
	} {
		got, err := DecodeString(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := DecodeString("0xzz")
	require.Error(t, err)
	assert.Panics(t, func() { MustDecodeString("qq") })
}

func TestBytesText(t *testing.T) {
	var b Bytes
	require.NoError(t, b.UnmarshalText([]byte("0xef00")))
	assert.Equal(t, Bytes{0xef, 0x00}, b)

	out, err := b.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0xef00", string(out))

	require.NoError(t, b.UnmarshalText(nil))
	assert.Empty(t, b)
}
