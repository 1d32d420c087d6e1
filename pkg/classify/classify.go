package classify

import (
	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/encoding"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/scanner"
	"github.com/bgrewell/los-kit/pkg/signature"
	"github.com/go-logr/logr"
)

// Category identifies the kind of Lisa Office System disk an image holds.
type Category int

const (
	Unclassified Category = iota
	ToolDisk
	PrimaryInstaller
	SecondaryInstaller
	GuideDisk
)

func (c Category) String() string {
	switch c {
	case ToolDisk:
		return "tool disk"
	case PrimaryInstaller:
		return "installer disk 1"
	case SecondaryInstaller:
		return "installer disk 2+"
	case GuideDisk:
		return "LisaGuide disk"
	default:
		return "unclassified"
	}
}

// ToolRecord is the serialization record of a tool disk. Offset is the position of the short marker ("{T") and every
// field offset is relative to it.
type ToolRecord struct {
	Offset       int
	MarkerOffset int
	Number       string
	Serial       uint32
	BozoSet      bool
	Dictionary   bool
}

// InstallerRecord is the serialization record of the first installer disk. Offset is the position of the
// "Office System 1" banner.
type InstallerRecord struct {
	Offset int
	Serial uint32
}

// Classification is the result of Classify. At most one of Tool and Installer is set, matching Category.
type Classification struct {
	Category    Category
	Tool        *ToolRecord
	Installer   *InstallerRecord
	GuideOffset int
}

// HasSerial reports whether the disk carries an editable serial number field.
func (c Classification) HasSerial() bool {
	switch c.Category {
	case ToolDisk:
		return c.Tool != nil && !c.Tool.Dictionary
	case PrimaryInstaller:
		return c.Installer != nil
	}
	return false
}

// HasBozo reports whether the disk carries bozo bits.
func (c Classification) HasBozo() bool {
	return c.Category == ToolDisk && c.Tool != nil && !c.Tool.Dictionary
}

// SerialField returns the byte range of the serial number field, or ok=false when the disk has none.
func (c Classification) SerialField() (start, end int, ok bool) {
	if !c.HasSerial() {
		return 0, 0, false
	}
	if c.Category == ToolDisk {
		return c.Tool.Offset + consts.TOOL_SERIAL_START, c.Tool.Offset + consts.TOOL_SERIAL_END, true
	}
	return c.Installer.Offset + consts.INSTALLER_SERIAL_START, c.Installer.Offset + consts.INSTALLER_SERIAL_END, true
}

// BozoField returns the byte range of the bozo bits, or ok=false when the disk has none.
func (c Classification) BozoField() (start, end int, ok bool) {
	if !c.HasBozo() {
		return 0, 0, false
	}
	return c.Tool.Offset + consts.TOOL_BOZO_START, c.Tool.Offset + consts.TOOL_BOZO_END, true
}

// DecodeBozo interprets the bozo bits. 0x00 in the first byte means cleared and 0x01 0x01 means set. Any other pattern
// is read as cleared.
func DecodeBozo(field []byte) bool {
	if len(field) < 2 {
		return false
	}
	return field[0] == consts.BOZO_SET_VALUE && field[1] == consts.BOZO_SET_VALUE
}

// Classify runs the disk heuristics over buf. The result is always exactly one Category.
func Classify(buf []byte, logger logr.Logger) Classification {
	tool := findTool(buf, logger)
	if tool != nil && scanner.ContainsAny(buf, signature.InstallerBanners()...) {
		logger.V(logging.LEVEL_DEBUG).Info("installer banner present, ignoring tool record", "offset", tool.Offset)
		tool = nil
	}
	if tool != nil {
		return Classification{Category: ToolDisk, Tool: tool}
	}

	if idx := scanner.FirstInRange(buf, signature.OfficeSystemFirst, consts.INSTALLER_RANGE_LOW, consts.INSTALLER_RANGE_HIGH); idx != scanner.NotFound {
		serial, err := encoding.UnmarshalUint32BE(field(buf, idx+consts.INSTALLER_SERIAL_START, idx+consts.INSTALLER_SERIAL_END))
		if err == nil {
			logger.V(logging.LEVEL_DEBUG).Info("found first installer disk", "offset", idx, "serial", serial)
			return Classification{Category: PrimaryInstaller, Installer: &InstallerRecord{Offset: idx, Serial: serial}}
		}
		logger.V(logging.LEVEL_DEBUG).Info("installer serial number outside image", "offset", idx)
	}

	if idx := scanner.FirstInRange(buf, signature.OfficeSystem, consts.INSTALLER_RANGE_LOW, consts.INSTALLER_RANGE_HIGH); idx != scanner.NotFound {
		logger.V(logging.LEVEL_DEBUG).Info("found later installer disk", "offset", idx)
		return Classification{Category: SecondaryInstaller}
	}

	if idx := scanner.Index(buf, signature.LisaGuide, 0); idx > 0 && idx < consts.GUIDE_MAX_OFFSET {
		logger.V(logging.LEVEL_DEBUG).Info("found LisaGuide disk", "offset", idx)
		return Classification{Category: GuideDisk, GuideOffset: idx}
	}

	logger.V(logging.LEVEL_DEBUG).Info("no known markers found")
	return Classification{Category: Unclassified}
}

// findTool locates the tool record. The last full marker below the bound owns the record; the short marker that
// starts it is the nearest one at or after the full marker minus the backtrack distance.
func findTool(buf []byte, logger logr.Logger) *ToolRecord {
	marker := scanner.LastOf(buf, consts.TOOL_MARKER_MAX_OFFSET, signature.ToolMarkers()...)
	if marker == scanner.NotFound {
		return nil
	}

	start := scanner.NearestOf(buf, marker-consts.TOOL_SHORT_MARKER_BACKTRACK, signature.ToolShortMarkers()...)
	if start == scanner.NotFound {
		logger.V(logging.LEVEL_DEBUG).Info("tool marker without short marker", "marker", marker)
		return nil
	}
	if start+consts.TOOL_BOZO_END > len(buf) {
		logger.V(logging.LEVEL_DEBUG).Info("tool record truncated", "offset", start, "size", len(buf))
		return nil
	}

	serial, _ := encoding.UnmarshalUint32BE(buf[start+consts.TOOL_SERIAL_START : start+consts.TOOL_SERIAL_END])
	rec := &ToolRecord{
		Offset:       start,
		MarkerOffset: marker,
		Number:       encoding.UnmarshalTerminatedString(field(buf, start+consts.TOOL_NUMBER_START, start+consts.TOOL_NUMBER_END), '}'),
		Serial:       serial,
		BozoSet:      DecodeBozo(buf[start+consts.TOOL_BOZO_START : start+consts.TOOL_BOZO_END]),
	}

	next := scanner.NearestOf(buf, start+len(signature.ToolShortMarkerUpper), signature.ToolShortMarkers()...)
	if next != scanner.NotFound && next-start < consts.TOOL_DICTIONARY_THRESHOLD {
		rec.Dictionary = true
	}

	logger.V(logging.LEVEL_DEBUG).Info("found tool record",
		"offset", rec.Offset, "marker", rec.MarkerOffset, "tool", rec.Number,
		"serial", rec.Serial, "bozo", rec.BozoSet, "dictionary", rec.Dictionary)
	return rec
}

// field returns buf[start:end] clipped to the buffer.
func field(buf []byte, start, end int) []byte {
	if start > len(buf) {
		start = len(buf)
	}
	if end > len(buf) {
		end = len(buf)
	}
	return buf[start:end]
}
