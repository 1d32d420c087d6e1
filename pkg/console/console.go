package console

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/patch"
	"github.com/fatih/color"
)

// Printer renders per-image status lines. Everything printed for one image is assembled first and written with a
// single call, so lines of different images never interleave.
type Printer struct {
	w     io.Writer
	mutex sync.Mutex
	name  *color.Color
	good  *color.Color
	warn  *color.Color
	bad   *color.Color
}

// NewPrinter creates a Printer. If w is nil it defaults to os.Stdout.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{
		w:    w,
		name: color.New(color.FgHiBlue),
		good: color.New(color.FgHiGreen),
		warn: color.New(color.FgHiYellow),
		bad:  color.New(color.FgHiRed),
	}
	for _, c := range []*color.Color{p.name, p.good, p.warn, p.bad} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// line collects the colored segments of one image's output.
type line struct {
	p  *Printer
	sb strings.Builder
}

func (p *Printer) begin(image string) *line {
	l := &line{p: p}
	l.sb.WriteString(p.name.Sprint(image + ": "))
	return l
}

func (l *line) add(c *color.Color, format string, args ...interface{}) *line {
	l.sb.WriteString(c.Sprintf(format, args...))
	return l
}

func (l *line) flush() {
	l.sb.WriteString("\n")
	l.p.mutex.Lock()
	defer l.p.mutex.Unlock()
	io.WriteString(l.p.w, l.sb.String())
}

// Blank writes an empty separator line.
func (p *Printer) Blank() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	io.WriteString(p.w, "\n")
}

// Failure reports an image that could not be read or written.
func (p *Printer) Failure(image string, err error) {
	p.begin(image).add(p.bad, "ERROR - %v", err).flush()
}

// Patched reports the result of installing the fixed-serial routine.
func (p *Printer) Patched(image string, r patch.RoutineReport) {
	l := p.begin(image)
	switch r.Status {
	case patch.StatusChanged:
		if r.HasOldSerial {
			l.add(p.good, "Updated %d instance(s) of pre-existing patch from serial number %d to serial number %d.", r.Count, r.OldSerial, r.NewSerial)
		} else {
			l.add(p.good, "Successfully patched %d instance(s) of original SN routine with serial number %d.", r.Count, r.NewSerial)
		}
	case patch.StatusUnchanged:
		l.add(p.good, "Already patched with serial number %d!", r.NewSerial)
	default:
		p.routineError(l, r)
	}
	l.flush()
}

// Unpatched reports the result of restoring the original routine.
func (p *Printer) Unpatched(image string, r patch.RoutineReport) {
	l := p.begin(image)
	switch r.Status {
	case patch.StatusChanged:
		l.add(p.good, "Successfully reverted %d instance(s) of patched SN routine, which used serial number %d, to the original routine.", r.Count, r.OldSerial)
	case patch.StatusUnchanged:
		l.add(p.good, "Image is already unpatched!")
	default:
		p.routineError(l, r)
	}
	l.flush()
}

func (p *Printer) routineError(l *line, r patch.RoutineReport) {
	if errors.Is(r.Err, patch.ErrNoRoutine) {
		l.add(p.bad, "ERROR - No instances of a SN routine found. Are you sure this is an LOS disk?")
		return
	}
	l.add(p.bad, "ERROR - %s", r.Reason)
}

// Edited reports the results of record edits.
func (p *Printer) Edited(image string, class classify.Classification, opts patch.EditOptions, reports []patch.FieldReport) {
	l := p.begin(image)
	for _, r := range reports {
		if errors.Is(r.Err, patch.ErrConflictingBozo) {
			l.add(p.bad, "ERROR - %s", r.Reason).flush()
			return
		}
	}

	switch class.Category {
	case classify.ToolDisk:
		p.editedTool(l, class.Tool, reports)
	case classify.PrimaryInstaller:
		p.editedInstaller(l, opts, reports)
	case classify.SecondaryInstaller:
		if opts.Deserialize {
			l.add(p.good, "Nothing to %s on LOS install disks 2 and onward.", verb(opts))
		} else {
			l.add(p.good, "No bozo bits to %s on LOS install disks.", bozoVerb(opts))
		}
	case classify.GuideDisk:
		l.add(p.good, "Nothing to %s on the LisaGuide disk.", verb(opts))
	default:
		l.add(p.bad, "ERROR - Unable to find anything to %s. Are you sure this is an LOS installer or tool disk?", verb(opts))
	}
	l.flush()
}

func (p *Printer) editedTool(l *line, tool *classify.ToolRecord, reports []patch.FieldReport) {
	if tool.Dictionary {
		l.add(p.good, "There are no serialization features on the LisaWrite 2 (tool #%s) disk, so nothing to do here.", tool.Number)
		return
	}
	for _, r := range reports {
		switch {
		case r.Field == patch.FieldSerial && r.Status == patch.StatusUnchanged:
			l.add(p.good, "Tool #%s already deserialized! ", tool.Number)
		case r.Field == patch.FieldSerial && r.Status == patch.StatusChanged:
			l.add(p.good, "Tool #%s deserialized; previously serialized with SN %d. ", tool.Number, r.OldValue)
		case r.Field == patch.FieldBozo && r.Status == patch.StatusUnchanged:
			l.add(p.good, "Tool #%s's %s, so nothing to do here!", tool.Number, r.Reason)
		case r.Field == patch.FieldBozo && r.Status == patch.StatusChanged:
			l.add(p.good, "Tool #%s's %s!", tool.Number, r.Reason)
		case r.Status == patch.StatusError:
			l.add(p.bad, "ERROR - %s ", r.Reason)
		}
	}
}

func (p *Printer) editedInstaller(l *line, opts patch.EditOptions, reports []patch.FieldReport) {
	for _, r := range reports {
		switch {
		case r.Field == patch.FieldSerial && r.Status == patch.StatusUnchanged:
			l.add(p.good, "LOS installer already deserialized! ")
		case r.Field == patch.FieldSerial && r.Status == patch.StatusChanged:
			l.add(p.good, "LOS install disk 1 deserialized; previously serialized with SN %d. ", r.OldValue)
		case r.Field == patch.FieldBozo:
			l.add(p.good, "No bozo bits to %s on LOS install disks.", bozoVerb(opts))
		case r.Status == patch.StatusError:
			l.add(p.bad, "ERROR - %s ", r.Reason)
		}
	}
}

// Status reports the read-only view of an image: routine state first, then the record fields as returned by
// patch.Inspect.
func (p *Printer) Status(image string, routine patch.RoutineInfo, class classify.Classification, fields []patch.FieldReport) {
	l := p.begin(image)
	switch routine.State {
	case patch.RoutineOriginal:
		l.add(p.warn, "Image is not patched. ")
	case patch.RoutinePatched:
		l.add(p.good, "Patched with SN %d. ", routine.Serial)
	default:
		l.add(p.bad, "No instances of a SN routine found. Are you sure this is an LOS disk? ")
	}

	serial, bozo := report(fields, patch.FieldSerial), report(fields, patch.FieldBozo)
	switch {
	case serial == nil || serial.Status == patch.StatusError:
		l.add(p.bad, "Unable to find any serialization or bozo bit info. Are you sure this is an LOS installer or tool disk?")
	case serial.Status == patch.StatusNotApplicable:
		switch class.Category {
		case classify.ToolDisk:
			l.add(p.good, "No serialization or bozo bits on the LisaWrite 2 (tool #%s) disk.", class.Tool.Number)
		case classify.SecondaryInstaller:
			l.add(p.good, "No serialization or bozo bits on LOS install disks 2 and onward.")
		default:
			l.add(p.good, "No serialization or bozo bits on the LisaGuide disk.")
		}
	case class.Category == classify.ToolDisk:
		if serial.OldValue == 0 {
			l.add(p.good, "Tool #%s deserialized", class.Tool.Number)
		} else {
			l.add(p.warn, "Tool #%s serialized with SN %d", class.Tool.Number, serial.OldValue)
		}
		if bozo != nil && bozo.OldValue != 0 {
			l.add(p.warn, " and bozo bits are set.")
		} else {
			l.add(p.good, " and bozo bits are cleared.")
		}
	default:
		if serial.OldValue == 0 {
			l.add(p.good, "LOS install is deserialized. ")
		} else {
			l.add(p.warn, "Serialized with SN %d. ", serial.OldValue)
		}
		l.add(p.good, "No bozo bits on LOS install disk 1.")
	}
	l.flush()
}

// report returns the report for field, or nil when fields has none.
func report(fields []patch.FieldReport, field patch.Field) *patch.FieldReport {
	for n := range fields {
		if fields[n].Field == field {
			return &fields[n]
		}
	}
	return nil
}

// verb names the requested edits, e.g. "deserialize or debozoize".
func verb(opts patch.EditOptions) string {
	var parts []string
	if opts.Deserialize {
		parts = append(parts, "deserialize")
	}
	if opts.SetBozo {
		parts = append(parts, "bozoize")
	}
	if opts.ClearBozo {
		parts = append(parts, "debozoize")
	}
	return strings.Join(parts, " or ")
}

func bozoVerb(opts patch.EditOptions) string {
	if opts.SetBozo {
		return "set"
	}
	return "clear"
}
