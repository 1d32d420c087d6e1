package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	loskit "github.com/bgrewell/los-kit"
	"github.com/bgrewell/los-kit/pkg/console"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
)

// Summary counts what a run did.
type Summary struct {
	Images  int
	Changed int
	Failed  int
}

// FindImages returns the regular files in dir whose extension is one of extensions, sorted by name.
func FindImages(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		for _, want := range extensions {
			if ext == want {
				images = append(images, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(images)
	return images, nil
}

// Runner applies a Plan to every disk image in a directory, one image at a time.
type Runner struct {
	options option.RunOptions
	printer *console.Printer
}

// NewRunner creates a Runner.
func NewRunner(opts ...option.RunOption) *Runner {
	options := option.DefaultRunOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Runner{
		options: options,
		printer: console.NewPrinter(options.Output, options.UseColor),
	}
}

// Run validates plan and applies it to the images in dir. Only an invalid plan or an unreadable directory returns an
// error; problems with single images are printed and counted in the Summary.
func (r *Runner) Run(dir string, plan Plan) (Summary, error) {
	if err := plan.Validate(); err != nil {
		return Summary{}, err
	}

	images, err := FindImages(dir, r.options.Extensions)
	if err != nil {
		return Summary{}, err
	}
	r.options.Logger.Debug("Found images", "dir", dir, "count", len(images))

	summary := Summary{Images: len(images)}
	changed := make(map[string]bool)
	failed := make(map[string]bool)

	if plan.ReportOnly() {
		r.pass(images, func(img loskit.Image) bool {
			r.printer.Status(img.Name(), img.Routine(), img.Classification(), img.Inspect())
			return false
		}, changed, failed, true)
	}

	if plan.RoutineAction() {
		r.pass(images, func(img loskit.Image) bool {
			if plan.Patch {
				report := img.Patch(plan.Serial)
				r.printer.Patched(img.Name(), report)
				return report.Status == patch.StatusChanged
			}
			report := img.Unpatch()
			r.printer.Unpatched(img.Name(), report)
			return report.Status == patch.StatusChanged
		}, changed, failed, false)
	}

	if plan.Edits.Any() {
		if plan.RoutineAction() {
			r.printer.Blank()
		}
		r.pass(images, func(img loskit.Image) bool {
			reports := img.Edit(plan.Edits)
			r.printer.Edited(img.Name(), img.Classification(), plan.Edits, reports)
			return patch.Changed(reports...)
		}, changed, failed, false)
	}

	summary.Changed = len(changed)
	summary.Failed = len(failed)
	return summary, nil
}

// pass opens each image, runs action on it and saves it when action reports a change.
func (r *Runner) pass(images []string, action func(loskit.Image) bool, changed, failed map[string]bool, readOnly bool) {
	for n, location := range images {
		if r.options.ProgressCallback != nil {
			r.options.ProgressCallback(filepath.Base(location), n+1, len(images))
		}

		img, err := loskit.Open(location, option.WithReadOnly(readOnly), option.WithLogger(r.options.Logger))
		if err != nil {
			r.options.Logger.Error(err, "Failed to open image", "image", location)
			r.printer.Failure(filepath.Base(location), err)
			failed[location] = true
			continue
		}

		if !action(img) {
			continue
		}
		if err := img.Save(); err != nil {
			r.options.Logger.Error(err, "Failed to save image", "image", location)
			r.printer.Failure(img.Name(), err)
			failed[location] = true
			continue
		}
		changed[location] = true
	}
}
