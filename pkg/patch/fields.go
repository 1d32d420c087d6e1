package patch

import (
	"fmt"

	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/encoding"
)

// EditOptions selects the record edits ApplyEdits performs.
type EditOptions struct {
	Deserialize bool
	SetBozo     bool
	ClearBozo   bool
}

// Any reports whether at least one edit is requested.
func (o EditOptions) Any() bool {
	return o.Deserialize || o.SetBozo || o.ClearBozo
}

// ApplyEdits performs the requested record edits on buf using the record located by class. It returns one report per
// requested edit, serial number first. buf is never modified; the returned buffer is buf itself unless a report has
// StatusChanged.
func ApplyEdits(buf []byte, class classify.Classification, opts EditOptions) ([]byte, []FieldReport) {
	if opts.SetBozo && opts.ClearBozo {
		return buf, []FieldReport{{Field: FieldBozo, Status: StatusError, Reason: ErrConflictingBozo.Error(), Err: ErrConflictingBozo}}
	}

	ed := &editor{buf: buf}
	var reports []FieldReport
	if opts.Deserialize {
		reports = append(reports, deserialize(ed, class))
	}
	if opts.SetBozo || opts.ClearBozo {
		reports = append(reports, setBozo(ed, class, opts.SetBozo))
	}
	return ed.bytes(), reports
}

// Inspect reports the current serial number and bozo state of the record located by class without changing anything.
func Inspect(class classify.Classification) []FieldReport {
	if r, ok := inapplicable(class, FieldSerial); ok {
		return []FieldReport{r}
	}
	serial := FieldReport{Field: FieldSerial, Status: StatusUnchanged}
	if class.Category == classify.ToolDisk {
		serial.OldValue = class.Tool.Serial
	} else {
		serial.OldValue = class.Installer.Serial
	}
	serial.NewValue = serial.OldValue
	serial.Reason = serialState(serial.OldValue)

	bozo, ok := inapplicable(class, FieldBozo)
	if !ok {
		v := bozoValue(class.Tool.BozoSet)
		bozo = FieldReport{Field: FieldBozo, Status: StatusUnchanged, OldValue: v, NewValue: v, Reason: bozoState(class.Tool.BozoSet)}
	}
	return []FieldReport{serial, bozo}
}

func serialState(serial uint32) string {
	if serial == 0 {
		return "deserialized"
	}
	return fmt.Sprintf("serialized with serial number %d", serial)
}

func bozoState(set bool) string {
	if set {
		return "bozo bits are set"
	}
	return "bozo bits are cleared"
}

// inapplicable returns the report for a field the classified disk does not have.
func inapplicable(class classify.Classification, field Field) (FieldReport, bool) {
	r := FieldReport{Field: field, Status: StatusNotApplicable}
	switch class.Category {
	case classify.Unclassified:
		r.Status = StatusError
		r.Err = ErrNotRecognized
		r.Reason = ErrNotRecognized.Error()
	case classify.ToolDisk:
		if class.Tool == nil {
			r.Status, r.Err, r.Reason = StatusError, ErrNotRecognized, ErrNotRecognized.Error()
		} else if class.Tool.Dictionary {
			r.Reason = "no serialization features on the LisaWrite dictionary disk"
		} else {
			return FieldReport{}, false
		}
	case classify.PrimaryInstaller:
		switch {
		case class.Installer == nil:
			r.Status, r.Err, r.Reason = StatusError, ErrNotRecognized, ErrNotRecognized.Error()
		case field == FieldSerial:
			return FieldReport{}, false
		default:
			r.Reason = "no bozo bits on installer disks"
		}
	case classify.SecondaryInstaller:
		if field == FieldSerial {
			r.Reason = "no serial number on installer disks 2 and onward"
		} else {
			r.Reason = "no bozo bits on installer disks"
		}
	case classify.GuideDisk:
		r.Reason = fmt.Sprintf("no %s on the LisaGuide disk", field)
	}
	return r, true
}

func deserialize(ed *editor, class classify.Classification) FieldReport {
	if r, ok := inapplicable(class, FieldSerial); ok {
		return r
	}
	start, end, _ := class.SerialField()
	if end > len(ed.bytes()) {
		err := fmt.Errorf("%w: serial number field at %d exceeds image size %d", ErrNotRecognized, start, len(ed.bytes()))
		return FieldReport{Field: FieldSerial, Status: StatusError, Reason: err.Error(), Err: err}
	}

	old, _ := encoding.UnmarshalUint32BE(ed.bytes()[start:end])
	if old == 0 {
		return FieldReport{Field: FieldSerial, Status: StatusUnchanged, Reason: "already deserialized"}
	}
	ed.putUint32(start, 0)
	return FieldReport{
		Field:    FieldSerial,
		Status:   StatusChanged,
		OldValue: old,
		Reason:   fmt.Sprintf("deserialized; previously serialized with serial number %d", old),
	}
}

func setBozo(ed *editor, class classify.Classification, set bool) FieldReport {
	if r, ok := inapplicable(class, FieldBozo); ok {
		return r
	}
	start, end, _ := class.BozoField()
	if end > len(ed.bytes()) {
		err := fmt.Errorf("%w: bozo bits at %d exceed image size %d", ErrNotRecognized, start, len(ed.bytes()))
		return FieldReport{Field: FieldBozo, Status: StatusError, Reason: err.Error(), Err: err}
	}

	current := classify.DecodeBozo(ed.bytes()[start:end])
	r := FieldReport{Field: FieldBozo, OldValue: bozoValue(current), NewValue: bozoValue(set)}
	switch {
	case current == set && set:
		r.Status, r.Reason = StatusUnchanged, "bozo bits already set"
	case current == set:
		r.Status, r.Reason = StatusUnchanged, "bozo bits already cleared"
	case set:
		ed.write(start, []byte{consts.BOZO_SET_VALUE, consts.BOZO_SET_VALUE})
		r.Status, r.Reason = StatusChanged, "bozo bits set"
	default:
		ed.write(start, []byte{consts.BOZO_CLEAR_VALUE})
		r.Status, r.Reason = StatusChanged, "bozo bits cleared"
	}
	return r
}
