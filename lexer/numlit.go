package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumLitText parses the literal text of a NumLit token (decimal
// or 0x-prefixed hex, per spec §4.3) into a uint64, reporting overflow
// as an error rather than silently wrapping.
func ParseNumLitText(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed or overflowing hexadecimal literal %q", text)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed or overflowing decimal literal %q", text)
	}
	return v, nil
}
