package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoutine means neither the original nor the fixed-serial routine occurs in the image.
	ErrNoRoutine = errors.New("no instances of a serial number routine found")

	// ErrNotRecognized means the image has no tool or installer record to edit.
	ErrNotRecognized = errors.New("no serialization record found")

	// ErrSerialRange means a routine serial number does not fit in 24 bits.
	ErrSerialRange = errors.New("serial number out of range")

	// ErrConflictingBozo means setting and clearing the bozo bits were requested together.
	ErrConflictingBozo = errors.New("bozo bits cannot be set and cleared at the same time")
)

// Status is the outcome of a single action on an image.
type Status int

const (
	// StatusUnchanged means the image was already in the requested state.
	StatusUnchanged Status = iota
	// StatusChanged means bytes were rewritten.
	StatusChanged
	// StatusNotApplicable means the image kind has no such field. It is informational, not an error.
	StatusNotApplicable
	// StatusError means the action could not be performed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	case StatusNotApplicable:
		return "not applicable"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// RoutineReport describes the result of ApplyRoutine or RevertRoutine.
type RoutineReport struct {
	Status Status
	// Count is the number of routine instances rewritten.
	Count int
	// OldSerial is the serial number a fixed-serial routine carried before the action. Valid when HasOldSerial.
	OldSerial    uint32
	HasOldSerial bool
	NewSerial    uint32
	Reason       string
	Err          error
}

// Field names an editable part of a serialization record.
type Field int

const (
	FieldSerial Field = iota
	FieldBozo
)

func (f Field) String() string {
	if f == FieldBozo {
		return "bozo bits"
	}
	return "serial number"
}

// FieldReport describes the result of one record edit. For FieldBozo the values are 1 (set) and 0 (cleared).
type FieldReport struct {
	Field    Field
	Status   Status
	OldValue uint32
	NewValue uint32
	Reason   string
	Err      error
}

// Changed reports whether any of the reports rewrote bytes.
func Changed(reports ...FieldReport) bool {
	for _, r := range reports {
		if r.Status == StatusChanged {
			return true
		}
	}
	return false
}

func bozoValue(set bool) uint32 {
	if set {
		return 1
	}
	return 0
}
