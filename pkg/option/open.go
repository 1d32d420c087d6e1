package option

import (
	"github.com/bgrewell/los-kit/pkg/logging"
)

type OpenOptions struct {
	ReadOnly bool
	Logger   *logging.Logger
}

type OpenOption func(*OpenOptions)

// WithReadOnly prevents Save from writing the image back to disk.
func WithReadOnly(readOnly bool) OpenOption {
	return func(o *OpenOptions) {
		o.ReadOnly = readOnly
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}
