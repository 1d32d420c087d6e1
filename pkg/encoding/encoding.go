package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// UnmarshalUint24BE decodes a 24-bit big-endian integer as used by the serial number slot of the patched routine.
func UnmarshalUint24BE(data []byte) (uint32, error) {
	if len(data) < 3 {
		return 0, io.ErrUnexpectedEOF
	}
	return uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2]), nil
}

// UnmarshalUint32BE decodes a 32-bit big-endian integer as used by tool and installer serial number fields.
func UnmarshalUint32BE(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint32(data[0:4]), nil
}

// WriteUint24BE writes the low 24 bits of value in big-endian order.
func WriteUint24BE(dst []byte, value uint32) error {
	if value > 0xFFFFFF {
		return fmt.Errorf("value %d does not fit in 24 bits", value)
	}
	_ = dst[2] // early bounds check to guarantee safety of writes below
	dst[0] = byte(value >> 16)
	dst[1] = byte(value >> 8)
	dst[2] = byte(value)
	return nil
}

// WriteUint32BE writes a 32-bit integer in big-endian order.
func WriteUint32BE(dst []byte, value uint32) {
	_ = dst[3] // early bounds check to guarantee safety of writes below
	binary.BigEndian.PutUint32(dst[0:4], value)
}

// UnmarshalTerminatedString decodes ASCII text that ends at the first terminator byte (or at the end of data). Bytes
// outside the 7-bit range are dropped.
func UnmarshalTerminatedString(data []byte, terminator byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b == terminator {
			break
		}
		if b < 0x80 {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}
