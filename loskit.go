package loskit

import (
	"fmt"

	"github.com/bgrewell/los-kit/pkg"
	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
)

// Open reads an existing disk image file
func Open(location string, opts ...option.OpenOption) (Image, error) {
	options := defaultOptions(opts)
	img := &pkg.LisaImage{Options: options}
	if err := img.Open(location); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return img, nil
}

// Load wraps image contents that are already in memory. Save writes them to location.
func Load(location string, data []byte, opts ...option.OpenOption) Image {
	img := &pkg.LisaImage{Options: defaultOptions(opts)}
	img.Load(location, data)
	return img
}

func defaultOptions(opts []option.OpenOption) option.OpenOptions {
	options := option.OpenOptions{
		Logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Image represents a Lisa Office System disk image
type Image interface {
	Name() string
	Bytes() []byte
	Dirty() bool
	Classification() classify.Classification
	Routine() patch.RoutineInfo
	Patch(serial uint32) patch.RoutineReport
	Unpatch() patch.RoutineReport
	Edit(opts patch.EditOptions) []patch.FieldReport
	Inspect() []patch.FieldReport
	Save() error
	String() string
}
