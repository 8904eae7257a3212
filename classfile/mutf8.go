package classfile

import (
	"strconv"
	"unicode/utf16"

	"github.com/wippyai/jvm-runtime/errors"
)

// DecodeMUTF8 decodes the modified UTF-8 used by class files. NUL is
// encoded in two bytes and supplementary characters arrive as surrogate
// pairs of three-byte sequences; unpaired surrogates become U+FFFD.
func DecodeMUTF8(data []byte) (string, error) {
	ascii := true
	for _, b := range data {
		if b == 0 || b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(data), nil
	}

	units := make([]uint16, 0, len(data))
	for i := 0; i < len(data); {
		c := data[i]
		switch c >> 4 {
		case 0, 1, 2, 3, 4, 5, 6, 7:
			units = append(units, uint16(c))
			i++
		case 12, 13:
			if i+2 > len(data) {
				return "", errors.MalformedString("partial character at end", data)
			}
			c2 := data[i+1]
			if c2&0xC0 != 0x80 {
				return "", errors.MalformedString("malformed input around byte "+strconv.Itoa(i+1), data)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(c2&0x3F))
			i += 2
		case 14:
			if i+3 > len(data) {
				return "", errors.MalformedString("partial character at end", data)
			}
			c2, c3 := data[i+1], data[i+2]
			if c2&0xC0 != 0x80 || c3&0xC0 != 0x80 {
				return "", errors.MalformedString("malformed input around byte "+strconv.Itoa(i+2), data)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(c2&0x3F)<<6|uint16(c3&0x3F))
			i += 3
		default:
			return "", errors.MalformedString("malformed input around byte "+strconv.Itoa(i), data)
		}
	}
	return string(utf16.Decode(units)), nil
}

// EncodeMUTF8 encodes s in modified UTF-8. Invalid UTF-8 in s is replaced
// with U+FFFD first.
func EncodeMUTF8(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units))
	for _, u := range units {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}
