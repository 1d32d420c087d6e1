package patch

import (
	"bytes"
	"fmt"

	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/encoding"
	"github.com/bgrewell/los-kit/pkg/scanner"
	"github.com/bgrewell/los-kit/pkg/signature"
)

// RoutineState is the state of the boot-time serial number routine found in an image.
type RoutineState int

const (
	RoutineMissing RoutineState = iota
	RoutineOriginal
	RoutinePatched
)

// RoutineInfo is the read-only view returned by InspectRoutine.
type RoutineInfo struct {
	State RoutineState
	// Count is the number of instances in the reported state.
	Count int
	// Serial is the serial number of the first fixed-serial routine when State is RoutinePatched.
	Serial uint32
}

// nextPatched returns the offset of the first fixed-serial routine at or after start. A candidate must carry the
// complete prefix, a serial number slot and the complete suffix.
func nextPatched(buf []byte, start int) int {
	for offset := range scanner.All(buf, signature.Prefix, start, scanner.NoLimit) {
		suffix := offset + consts.ROUTINE_SERIAL_END
		if suffix+len(signature.Suffix) > len(buf) {
			return scanner.NotFound
		}
		if bytes.Equal(buf[suffix:suffix+len(signature.Suffix)], signature.Suffix) {
			return offset
		}
	}
	return scanner.NotFound
}

func routineSerial(buf []byte, offset int) uint32 {
	serial, _ := encoding.UnmarshalUint24BE(buf[offset+consts.ROUTINE_SERIAL_START : offset+consts.ROUTINE_SERIAL_END])
	return serial
}

// InspectRoutine reports whether the image carries the original routine, a fixed-serial routine or neither. An
// original routine takes precedence when both are present.
func InspectRoutine(buf []byte) RoutineInfo {
	if n := scanner.Count(buf, signature.Original); n > 0 {
		return RoutineInfo{State: RoutineOriginal, Count: n}
	}
	info := RoutineInfo{State: RoutineMissing}
	for offset := nextPatched(buf, 0); offset != scanner.NotFound; offset = nextPatched(buf, offset+signature.PatchedLen()) {
		if info.Count == 0 {
			info.State = RoutinePatched
			info.Serial = routineSerial(buf, offset)
		}
		info.Count++
	}
	return info
}

// ApplyRoutine replaces every original serial number routine in buf with the fixed-serial routine carrying serial.
// When no original routine exists but fixed-serial routines with a different serial number do, their serial number
// slots are rewritten instead. buf is never modified; the returned buffer is buf itself unless something changed.
func ApplyRoutine(buf []byte, serial uint32) ([]byte, RoutineReport) {
	if serial > consts.MAX_ROUTINE_SERIAL {
		err := fmt.Errorf("%w: %d is not between 0 and %d", ErrSerialRange, serial, consts.MAX_ROUTINE_SERIAL)
		return buf, RoutineReport{Status: StatusError, NewSerial: serial, Reason: err.Error(), Err: err}
	}

	ed := &editor{buf: buf}
	patched := signature.Patched(serial)
	count := 0
	cursor := 0
	for {
		offset, _ := scanner.Next(ed.bytes(), signature.Original, cursor)
		if offset == scanner.NotFound {
			break
		}
		ed.splice(offset, len(signature.Original), patched)
		cursor = offset + len(patched)
		count++
	}
	if count > 0 {
		return ed.bytes(), RoutineReport{
			Status:    StatusChanged,
			Count:     count,
			NewSerial: serial,
			Reason:    fmt.Sprintf("patched %d instance(s) of original routine with serial number %d", count, serial),
		}
	}

	if scanner.Contains(buf, patched) {
		return buf, RoutineReport{
			Status:       StatusUnchanged,
			OldSerial:    serial,
			HasOldSerial: true,
			NewSerial:    serial,
			Reason:       fmt.Sprintf("already patched with serial number %d", serial),
		}
	}

	var slot [consts.ROUTINE_SERIAL_SIZE]byte
	_ = encoding.WriteUint24BE(slot[:], serial)
	var old uint32
	for offset := nextPatched(buf, 0); offset != scanner.NotFound; offset = nextPatched(buf, offset+len(patched)) {
		old = routineSerial(buf, offset)
		ed.write(offset+consts.ROUTINE_SERIAL_START, slot[:])
		count++
	}
	if count > 0 {
		return ed.bytes(), RoutineReport{
			Status:       StatusChanged,
			Count:        count,
			OldSerial:    old,
			HasOldSerial: true,
			NewSerial:    serial,
			Reason:       fmt.Sprintf("updated %d instance(s) of existing patch from serial number %d to %d", count, old, serial),
		}
	}

	return buf, RoutineReport{Status: StatusError, NewSerial: serial, Reason: ErrNoRoutine.Error(), Err: ErrNoRoutine}
}

// RevertRoutine replaces every fixed-serial routine in buf with the original routine and reports the serial number
// the last replaced routine carried.
func RevertRoutine(buf []byte) ([]byte, RoutineReport) {
	ed := &editor{buf: buf}
	count := 0
	var old uint32
	for offset := nextPatched(ed.bytes(), 0); offset != scanner.NotFound; offset = nextPatched(ed.bytes(), offset+len(signature.Original)) {
		old = routineSerial(ed.bytes(), offset)
		ed.splice(offset, signature.PatchedLen(), signature.Original)
		count++
	}
	if count > 0 {
		return ed.bytes(), RoutineReport{
			Status:       StatusChanged,
			Count:        count,
			OldSerial:    old,
			HasOldSerial: true,
			Reason:       fmt.Sprintf("reverted %d instance(s) of patched routine with serial number %d", count, old),
		}
	}

	if scanner.Contains(buf, signature.Original) {
		return buf, RoutineReport{Status: StatusUnchanged, Reason: "already unpatched"}
	}
	return buf, RoutineReport{Status: StatusError, Reason: ErrNoRoutine.Error(), Err: ErrNoRoutine}
}
