// Package datastream reads and writes the primitive big-endian values used
// by the notebook file formats.
//
// The layout matches a Java DataOutputStream: fixed width big-endian
// numbers, one byte booleans and text as an unsigned 16 bit length followed
// by modified UTF-8.
package datastream

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

var endianess = binary.BigEndian

// Reader reads primitive values from an underlying reader.
type Reader struct {
	r io.Reader
}

// NewReader creates a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Int32 reads a signed 32 bit integer.
func (r *Reader) Int32() (int32, error) {
	var n int32
	err := binary.Read(r.r, endianess, &n)
	return n, err
}

// Int64 reads a signed 64 bit integer.
func (r *Reader) Int64() (int64, error) {
	var n int64
	err := binary.Read(r.r, endianess, &n)
	return n, err
}

// Float32 reads an IEEE 754 single precision float.
func (r *Reader) Float32() (float32, error) {
	var f float32
	err := binary.Read(r.r, endianess, &f)
	return f, err
}

// Bool reads a single byte, any non-zero value is true.
func (r *Reader) Bool() (bool, error) {
	var b uint8
	err := binary.Read(r.r, endianess, &b)
	return b != 0, err
}

// Count reads an int32 element count and rejects negative values.
func (r *Reader) Count() (int, error) {
	n, err := r.Int32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative element count %d", n)
	}
	return int(n), nil
}

// UTF reads a length prefixed modified UTF-8 string.
func (r *Reader) UTF() (string, error) {
	var size uint16
	err := binary.Read(r.r, endianess, &size)
	if err != nil {
		return "", err
	}

	buf := make([]byte, size)
	_, err = io.ReadFull(r.r, buf)
	if err != nil {
		return "", err
	}

	return decodeModifiedUTF8(buf)
}

func decodeModifiedUTF8(buf []byte) (string, error) {
	units := make([]uint16, 0, len(buf))
	for i := 0; i < len(buf); {
		c := buf[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(buf) || buf[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("malformed text at byte %d", i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(buf[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(buf) || buf[i+1]&0xC0 != 0x80 || buf[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("malformed text at byte %d", i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(buf[i+1]&0x3F)<<6|uint16(buf[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("malformed text at byte %d", i)
		}
	}

	return string(utf16.Decode(units)), nil
}
