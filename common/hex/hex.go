package hex

import (
	"encoding/hex"
	"strings"
)

func MustDecodeString(s string) []byte {
	r, err := DecodeString(s)
	if err != nil {
		panic(err)
	}
	return r
}

// DecodeString is lenient about formatting: surrounding spaces, a 0x prefix
// and an odd number of digits are accepted.
func DecodeString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// Bytes is a byte slice that marshals as 0x-prefixed hex text, e.g. in
// JSON and TOML configs.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes) UnmarshalText(input []byte) error {
	dec, err := DecodeString(string(input))
	if err != nil {
		return err
	}
	*b = dec
	return nil
}

func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}
