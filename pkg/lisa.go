package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
)

// ErrReadOnly is returned by Save when the image was opened read-only.
var ErrReadOnly = errors.New("image opened read-only")

// LisaImage is a Lisa Office System disk image held in memory. All edits work on the in-memory copy; nothing reaches
// the file until Save.
type LisaImage struct {
	Options  option.OpenOptions
	location string
	contents []byte
	class    *classify.Classification
	dirty    bool
	logger   *logging.Logger
}

// Open reads the image file at location.
func (i *LisaImage) Open(location string) (err error) {
	i.init(location)
	i.contents, err = os.ReadFile(location)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	i.logger.Trace("Read image", "bytes", len(i.contents))
	return nil
}

// Load uses data as the image contents. location is only used for Save and for messages.
func (i *LisaImage) Load(location string, data []byte) {
	i.init(location)
	i.contents = data
}

func (i *LisaImage) init(location string) {
	i.location = location
	i.logger = i.Options.Logger
	if i.logger == nil {
		i.logger = logging.DefaultLogger()
	}
	i.logger = i.logger.WithValues("image", filepath.Base(location))
	i.class = nil
	i.dirty = false
}

// Name returns the base name of the image file.
func (i *LisaImage) Name() string {
	return filepath.Base(i.location)
}

// Bytes returns the current contents, including unsaved edits.
func (i *LisaImage) Bytes() []byte {
	return i.contents
}

// Dirty reports whether the contents differ from what was read.
func (i *LisaImage) Dirty() bool {
	return i.dirty
}

// Classification classifies the current contents. The result is cached until the next change.
func (i *LisaImage) Classification() classify.Classification {
	if i.class == nil {
		c := classify.Classify(i.contents, i.logger.Logr())
		i.class = &c
		i.logger.Debug("Classified image", "category", c.Category)
	}
	return *i.class
}

// Routine reports the state of the serial number routine.
func (i *LisaImage) Routine() patch.RoutineInfo {
	return patch.InspectRoutine(i.contents)
}

// Patch installs the fixed-serial routine with the given serial number.
func (i *LisaImage) Patch(serial uint32) patch.RoutineReport {
	out, report := patch.ApplyRoutine(i.contents, serial)
	i.update(out, report.Status == patch.StatusChanged)
	i.logger.Debug("Patch routine", "status", report.Status, "count", report.Count, "serial", serial)
	return report
}

// Unpatch restores the original serial number routine.
func (i *LisaImage) Unpatch() patch.RoutineReport {
	out, report := patch.RevertRoutine(i.contents)
	i.update(out, report.Status == patch.StatusChanged)
	i.logger.Debug("Unpatch routine", "status", report.Status, "count", report.Count)
	return report
}

// Edit applies record edits to the tool or installer record.
func (i *LisaImage) Edit(opts patch.EditOptions) []patch.FieldReport {
	out, reports := patch.ApplyEdits(i.contents, i.Classification(), opts)
	i.update(out, patch.Changed(reports...))
	for _, r := range reports {
		i.logger.Debug("Edit record", "field", r.Field, "status", r.Status, "reason", r.Reason)
	}
	return reports
}

// Inspect reports the record fields without changing anything.
func (i *LisaImage) Inspect() []patch.FieldReport {
	return patch.Inspect(i.Classification())
}

func (i *LisaImage) update(out []byte, changed bool) {
	if !changed {
		return
	}
	i.contents = out
	i.class = nil
	i.dirty = true
}

// Save writes the contents back to the file when they changed. The new contents go to a temporary file in the same
// directory first and replace the original with a rename, so a failed write leaves the original intact.
func (i *LisaImage) Save() error {
	if !i.dirty {
		return nil
	}
	if i.Options.ReadOnly {
		return ErrReadOnly
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(i.location); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(i.location), "."+filepath.Base(i.location)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(i.contents); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), i.location); err != nil {
		return fmt.Errorf("failed to replace image: %w", err)
	}

	i.dirty = false
	i.logger.Debug("Saved image", "bytes", len(i.contents))
	return nil
}

// String returns a one-line summary.
func (i *LisaImage) String() string {
	return fmt.Sprintf("%s: %s, %d bytes", i.Name(), i.Classification().Category, len(i.contents))
}
