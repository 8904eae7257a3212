package classfile_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/jvm-runtime/classfile"
	jerrors "github.com/wippyai/jvm-runtime/errors"
)

func TestDecodeMUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"ascii", []byte("java/lang/Object"), "java/lang/Object"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"nul", []byte{'a', 0xC0, 0x80, 'b'}, "a\x00b"},
		{"three byte", []byte{0xE2, 0x82, 0xAC}, "€"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
		{"unpaired surrogate", []byte{0xED, 0xA0, 0xBD, 'x'}, "�x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classfile.DecodeMUTF8(tt.in)
			if err != nil {
				t.Fatalf("DecodeMUTF8: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeMUTF8(%x) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeMUTF8Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"partial two byte", []byte{'a', 0xC3}},
		{"partial three byte", []byte{0xE2, 0x82}},
		{"bad continuation", []byte{0xC3, 0x29}},
		{"bad third byte", []byte{0xE2, 0x82, 0x2C}},
		{"lone continuation", []byte{0x80}},
		{"four byte lead", []byte{0xF0, 0x9F, 0x98, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classfile.DecodeMUTF8(tt.in)
			if !jerrors.IsKind(err, jerrors.KindMalformedString) {
				t.Errorf("err = %v, want malformed string", err)
			}
		})
	}
}

func TestEncodeMUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"abc", []byte("abc")},
		{"\x00", []byte{0xC0, 0x80}},
		{"é", []byte{0xC3, 0xA9}},
		{"€", []byte{0xE2, 0x82, 0xAC}},
		{"\U0001F600", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}

	for _, tt := range tests {
		got := classfile.EncodeMUTF8(tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeMUTF8(%q) = %x, want %x", tt.in, got, tt.want)
		}
		back, err := classfile.DecodeMUTF8(got)
		if err != nil || back != tt.in {
			t.Errorf("DecodeMUTF8(EncodeMUTF8(%q)) = %q, %v", tt.in, back, err)
		}
	}
}
