package consts

// Every value below is a property of the Lisa Office System disk layout and must not be changed.
const (
	// Offset subtracted from a full tool marker ("}obj") to start the search for the short marker ("{T").
	TOOL_SHORT_MARKER_BACKTRACK = 15

	// Upper bound (inclusive) for full tool marker matches. Later occurrences hold no serialization record.
	TOOL_MARKER_MAX_OFFSET = 0xA000

	// Tool number text, relative to the short marker. It ends at the first '}'.
	TOOL_NUMBER_START = 2
	TOOL_NUMBER_END   = 22

	// Tool serial number field (32-bit big-endian), relative to the short marker.
	TOOL_SERIAL_START = 65
	TOOL_SERIAL_END   = 69

	// Tool bozo bits, relative to the short marker.
	TOOL_BOZO_START = 71
	TOOL_BOZO_END   = 73

	// A second short marker this close to the first one identifies the LisaWrite dictionary disk.
	TOOL_DICTIONARY_THRESHOLD = 130

	// Half-open range in which the installer "Office System" banner must start.
	INSTALLER_RANGE_LOW  = 0x3000
	INSTALLER_RANGE_HIGH = 0x4000

	// Installer serial number field (32-bit big-endian), relative to "Office System 1".
	INSTALLER_SERIAL_START = 191
	INSTALLER_SERIAL_END   = 195

	// Number of installer disks in an Office System set.
	INSTALLER_DISK_COUNT = 5

	// "LisaGuide" must start strictly between 0 and this offset.
	GUIDE_MAX_OFFSET = 0xE000

	// Serial number slot inside the patched routine, relative to the routine start.
	ROUTINE_SERIAL_START = 255
	ROUTINE_SERIAL_END   = 258

	// Serial numbers baked into the patched routine are 24 bits wide.
	ROUTINE_SERIAL_SIZE = 3
	MAX_ROUTINE_SERIAL  = 1<<24 - 1

	// Bozo bit values.
	BOZO_SET_VALUE   = 0x01
	BOZO_CLEAR_VALUE = 0x00

	// Disk image file extensions the batch runner acts on.
	EXTENSION_DC42  = "dc42"
	EXTENSION_IMAGE = "image"
)
