package batch

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/patch"
)

var (
	// ErrConflictingPatch means -patch and -unpatch were requested together.
	ErrConflictingPatch = errors.New("options -patch and -unpatch can't be used together")
	// ErrConflictingBozo means -setbozo and -clearbozo were requested together.
	ErrConflictingBozo = errors.New("options -setbozo and -clearbozo can't be used together")
)

// Plan is the set of actions applied to every image of a batch.
type Plan struct {
	Patch   bool
	Serial  uint32
	Unpatch bool
	Edits   patch.EditOptions
}

// ParseSerial parses a routine serial number argument.
func ParseSerial(s string) (uint32, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("serialNumber %q is not a number: %w", s, err)
	}
	if n < 0 || n > consts.MAX_ROUTINE_SERIAL {
		return 0, fmt.Errorf("%w: serialNumber %d is out of bounds, allowed range is 0 - %d", patch.ErrSerialRange, n, consts.MAX_ROUTINE_SERIAL)
	}
	return uint32(n), nil
}

// Validate rejects plans that must not touch any file.
func (p Plan) Validate() error {
	if p.Patch && p.Unpatch {
		return ErrConflictingPatch
	}
	if p.Edits.SetBozo && p.Edits.ClearBozo {
		return ErrConflictingBozo
	}
	if p.Patch && p.Serial > consts.MAX_ROUTINE_SERIAL {
		return fmt.Errorf("%w: serialNumber %d is out of bounds, allowed range is 0 - %d", patch.ErrSerialRange, p.Serial, consts.MAX_ROUTINE_SERIAL)
	}
	return nil
}

// RoutineAction reports whether the plan changes the serial number routine.
func (p Plan) RoutineAction() bool {
	return p.Patch || p.Unpatch
}

// ReportOnly reports whether the plan only inspects images.
func (p Plan) ReportOnly() bool {
	return !p.RoutineAction() && !p.Edits.Any()
}
