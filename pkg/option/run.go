package option

import (
	"io"

	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/logging"
)

// ProgressCallback is called before each image of a batch is processed.
// Parameters:
// - currentFilename: The name of the image about to be processed.
// - currentFileNumber: The 1-based index of the image within the current pass.
// - totalFileCount: The number of images in the current pass.
type ProgressCallback func(
	currentFilename string,
	currentFileNumber int,
	totalFileCount int,
)

type RunOptions struct {
	Extensions       []string
	Output           io.Writer
	UseColor         bool
	ProgressCallback ProgressCallback
	Logger           *logging.Logger
}

type RunOption func(*RunOptions)

// DefaultRunOptions returns the options a batch run starts from.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Extensions: []string{consts.EXTENSION_DC42, consts.EXTENSION_IMAGE},
		UseColor:   true,
		Logger:     logging.DefaultLogger(),
	}
}

// WithExtensions replaces the list of file extensions (without the dot) that are treated as disk images.
func WithExtensions(extensions ...string) RunOption {
	return func(o *RunOptions) {
		o.Extensions = extensions
	}
}

// WithOutput sets where per-image status lines are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) RunOption {
	return func(o *RunOptions) {
		o.Output = w
	}
}

// WithColor enables or disables colored status lines.
func WithColor(enabled bool) RunOption {
	return func(o *RunOptions) {
		o.UseColor = enabled
	}
}

// WithProgress sets a progress callback function that will be called with progress updates.
func WithProgress(callback ProgressCallback) RunOption {
	return func(o *RunOptions) {
		o.ProgressCallback = callback
	}
}

func WithRunLogger(logger *logging.Logger) RunOption {
	return func(o *RunOptions) {
		o.Logger = logger
	}
}
