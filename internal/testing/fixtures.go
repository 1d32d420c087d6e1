package testing

import (
	"fmt"

	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/encoding"
	"github.com/bgrewell/los-kit/pkg/signature"
)

// DefaultImageSize is the size of a 400K Lisa floppy, large enough for every marker range.
const DefaultImageSize = 400 * 1024

// Tool describes the metadata record of a synthetic tool disk.
type Tool struct {
	Offset    int // offset of the short marker
	Number    string
	LowerCase bool
	Serial    uint32
	Bozo      [2]byte
}

// NewImage returns a zero-filled image of the given size.
func NewImage(size int) []byte {
	return make([]byte, size)
}

// PutTool writes a tool record: the "{T<number>}OBJ" tag at tool.Offset followed by the serial number and bozo bits.
// It returns the offset of the full marker.
func PutTool(buf []byte, tool Tool) int {
	tag := fmt.Sprintf("{T%s}OBJ", tool.Number)
	if tool.LowerCase {
		tag = fmt.Sprintf("{t%s}obj", tool.Number)
	}
	copy(buf[tool.Offset:], tag)
	encoding.WriteUint32BE(buf[tool.Offset+consts.TOOL_SERIAL_START:], tool.Serial)
	copy(buf[tool.Offset+consts.TOOL_BOZO_START:], tool.Bozo[:])
	return tool.Offset + len(tag) - len(signature.ToolMarkerUpper)
}

// PutInstaller writes the "Office System <disk>" banner at offset. Only disk 1 carries a serial number.
func PutInstaller(buf []byte, offset int, disk int, serial uint32) {
	copy(buf[offset:], fmt.Sprintf("Office System %d", disk))
	if disk == 1 {
		encoding.WriteUint32BE(buf[offset+consts.INSTALLER_SERIAL_START:], serial)
	}
}

// PutGuide writes the "LisaGuide" banner at offset.
func PutGuide(buf []byte, offset int) {
	copy(buf[offset:], signature.LisaGuide)
}

// PutOriginalRoutine writes the unpatched serial number routine at offset.
func PutOriginalRoutine(buf []byte, offset int) {
	copy(buf[offset:], signature.Original)
}

// PutPatchedRoutine writes a fixed-serial routine at offset.
func PutPatchedRoutine(buf []byte, offset int, serial uint32) {
	copy(buf[offset:], signature.Patched(serial))
}

// ToolDisk builds a complete tool disk image with an original routine at 0x400 and the record at 0x5000-15.
func ToolDisk(number string, serial uint32, bozo [2]byte) []byte {
	buf := NewImage(DefaultImageSize)
	PutOriginalRoutine(buf, 0x400)
	PutTool(buf, Tool{Offset: 0x5000 - consts.TOOL_SHORT_MARKER_BACKTRACK, Number: number, Serial: serial, Bozo: bozo})
	return buf
}
