package signature

import (
	"encoding/hex"

	"github.com/bgrewell/los-kit/pkg/consts"
)

// Routine signatures. The patched routine is Prefix, a 24-bit big-endian serial number, then Suffix, and has the
// same length as Original.
var (
	// Original is the unmodified boot-time serial number routine.
	Original = mustDecode(
		"48E70F164E54FF00227C00FE800045EF00042EBC000000077C117202207C00FCF8014242427900FCE018427900FCE01A" +
			"03106708524266F87E064E754C9100FF489200FF508A508A4E714E71700853975FC8FFFE6EE62EBC00000007303C00AB" +
			"51C8FFFE4C9100FF489200FF508A508A4E714E71700853975FC8FFFE6EE67C137E00427900FCE018264A4DEF00042A4E" +
			"DBFC000000707C146100007A4A47660000627C15610000B87C162C4DDBFC00000070610000604A47660000487C176100" +
			"009E3C3C001841EF0004610000B44A47663041EF0004D1FC000000EC760274007000C0FC000A1418D04251CBFFF67604" +
			"7200C2FC000A1418D24251CBFFF64840300132074E5C4CDF68F04CDF0700228034814ED074024240361EE34B640A6100" +
			"00224A4466F26030321EE349E3500C0000FF670C6100000C4A4466EC6000001A4E75BBCE620A5342670A9DFC00000070" +
			"78014E7542444E753E3C00044E75343C000C76044240BBCE62049CFC0070321EE349E350534366EE16C0534266E44E75" +
			"D1FC00000070D1FC00000070424010280014343C0064C0C2424316280015343C000AC6C2D043424316280016D0432248" +
			"343C001442411619D243534266F816280017D243B04167043E3C00054E75")

	// Prefix is the part of the fixed-serial routine preceding the serial number slot.
	Prefix = mustDecode(
		"48E70F16600000F4227C00FE800045EF00042EBC000000077C117202207C00FCF8014242427900FCE018427900FCE01A" +
			"03106708524266F87E064E754C9100FF489200FF508A508A4E714E71700853975FC8FFFE6EE62EBC00000007303C00AB" +
			"51C8FFFE4C9100FF489200FF508A508A4E714E71700853975FC8FFFE6EE67C137E00427900FCE018264A4DEF00042A4E" +
			"DBFC000000707C146100007A4A47660000627C15610000B87C162C4DDBFC00000070610000604A47660000487C176100" +
			"009E3C3C001841EF0004610000B44A47663041EF0004D1FC000000EC760274007000C0FC000A1418D04251CBFFF67604" +
			"7200C2FC000A1418D2424287203C00")

	// Suffix is the part of the fixed-serial routine following the serial number slot.
	Suffix = mustDecode(
		"32074E714CDF68F04CDF0700228034814ED074024240361EE34B640A610000224A4466F26030321EE349E3500C0000FF" +
			"670C6100000C4A4466EC6000001A4E75BBCE620A5342670A9DFC0000007078014E7542444E753E3C00044E75343C000C" +
			"76044240BBCE62049CFC0070321EE349E350534366EE16C0534266E44E75D1FC00000070D1FC00000070424010280014" +
			"343C0064C0C2424316280015343C000AC6C2D043424316280016D0432248343C001442411619D243534266F816280017" +
			"D243B04167043E3C00054E75")
)

// Marker signatures.
var (
	ToolMarkerUpper      = []byte("}OBJ")
	ToolMarkerLower      = []byte("}obj")
	ToolShortMarkerUpper = []byte("{T")
	ToolShortMarkerLower = []byte("{t")
	OfficeSystemFirst    = []byte("Office System 1")
	OfficeSystem         = []byte("Office System ")
	LisaGuide            = []byte("LisaGuide")
)

// ToolMarkers returns both case variants of the full tool marker.
func ToolMarkers() [][]byte {
	return [][]byte{ToolMarkerUpper, ToolMarkerLower}
}

// ToolShortMarkers returns both case variants of the short tool marker.
func ToolShortMarkers() [][]byte {
	return [][]byte{ToolShortMarkerUpper, ToolShortMarkerLower}
}

// InstallerBanners returns "Office System 1" through "Office System 5".
func InstallerBanners() [][]byte {
	banners := make([][]byte, 0, consts.INSTALLER_DISK_COUNT)
	for n := 1; n <= consts.INSTALLER_DISK_COUNT; n++ {
		banner := append([]byte{}, OfficeSystem...)
		banners = append(banners, append(banner, byte('0'+n)))
	}
	return banners
}

// Patched returns the fixed-serial routine carrying the given serial number. Only the low 24 bits are used.
func Patched(serial uint32) []byte {
	routine := make([]byte, 0, PatchedLen())
	routine = append(routine, Prefix...)
	routine = append(routine, byte(serial>>16), byte(serial>>8), byte(serial))
	return append(routine, Suffix...)
}

// PatchedLen is the length of a fixed-serial routine.
func PatchedLen() int {
	return len(Prefix) + consts.ROUTINE_SERIAL_SIZE + len(Suffix)
}

func mustDecode(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
