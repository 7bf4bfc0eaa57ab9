package datastream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

// Writer writes primitive values to an underlying writer.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteInt32 writes a signed 32 bit integer.
func (w *Writer) WriteInt32(n int32) error {
	return binary.Write(w.w, endianess, n)
}

// WriteInt64 writes a signed 64 bit integer.
func (w *Writer) WriteInt64(n int64) error {
	return binary.Write(w.w, endianess, n)
}

// WriteFloat32 writes an IEEE 754 single precision float.
func (w *Writer) WriteFloat32(f float32) error {
	return binary.Write(w.w, endianess, f)
}

// WriteBool writes true as 1 and false as 0.
func (w *Writer) WriteBool(b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return binary.Write(w.w, endianess, v)
}

// WriteCount writes an element count as int32.
func (w *Writer) WriteCount(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("element count %d exceeds format limit", n)
	}
	return w.WriteInt32(int32(n))
}

// WriteUTF writes s as length prefixed modified UTF-8.
//
// Strings that encode to more than 65535 bytes are rejected.
func (w *Writer) WriteUTF(s string) error {
	buf := encodeModifiedUTF8(s)
	if len(buf) > math.MaxUint16 {
		return fmt.Errorf("encoded text too long: %d bytes", len(buf))
	}

	err := binary.Write(w.w, endianess, uint16(len(buf)))
	if err != nil {
		return err
	}

	_, err = w.w.Write(buf)
	return err
}

func encodeModifiedUTF8(s string) []byte {
	buf := make([]byte, 0, len(s))
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			buf = append(buf, byte(u))
		case u < 0x800:
			// NUL is written in its two byte form
			buf = append(buf, byte(0xC0|u>>6), byte(0x80|u&0x3F))
		default:
			buf = append(buf, byte(0xE0|u>>12), byte(0x80|(u>>6)&0x3F), byte(0x80|u&0x3F))
		}
	}
	return buf
}
