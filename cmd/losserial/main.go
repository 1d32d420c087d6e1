package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bgrewell/los-kit/pkg/batch"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
	"github.com/bgrewell/usage"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

var (
	version = "dev"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// CreateProgressCallback returns a ProgressCallback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner) option.ProgressCallback {
	return func(currentFilename string, currentFileNumber int, totalFileCount int) {
		width, _, err := term.GetSize(int(os.Stderr.Fd()))
		if err != nil {
			width = 80
		}

		fixedPart := fmt.Sprintf(" [%d/%d] ", currentFileNumber, totalFileCount)
		availableSpace := width - len(fixedPart) - 6
		if availableSpace < 10 {
			availableSpace = 10
		}

		spinner.Message(fixedPart + truncateString(currentFilename, availableSpace))
	}
}

// InitializeSpinner sets up and starts the yacspin spinner on stderr.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Writer:            os.Stderr,
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return spinner, nil
}

// spinnerWriter pauses the spinner while status lines are written so the two never share a terminal line.
type spinnerWriter struct {
	spinner *yacspin.Spinner
	w       io.Writer
}

func (s *spinnerWriter) Write(p []byte) (int, error) {
	_ = s.spinner.Pause()
	defer s.spinner.Unpause()
	return s.w.Write(p)
}

func main() {
	u := usage.NewUsage(
		usage.WithApplicationName("losserial"),
		usage.WithApplicationDescription("losserial inspects and changes the serialization of Lisa Office System disk images (.dc42 and .image) in a directory. Without any action options it only reports the state of every image."),
	)
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	showVersion := u.AddBooleanOption("V", "version", false, "Print the version and exit", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "optional", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Enable trace logging", "optional", nil)
	serial := u.AddStringOption("p", "patch", "", "Patch the images to always report a fixed serial number between 0 and 16,777,215", "serialNumber", nil)
	unpatch := u.AddBooleanOption("u", "unpatch", false, "Unpatch previously-patched images", "optional", nil)
	deserialize := u.AddBooleanOption("d", "deserialize", false, "Deserialize the images", "optional", nil)
	setBozo := u.AddBooleanOption("s", "setbozo", false, "Set the bozo bits, enabling serialization", "optional", nil)
	clearBozo := u.AddBooleanOption("c", "clearbozo", false, "Clear the bozo bits, disabling serialization", "optional", nil)
	dir := u.AddStringOption("C", "directory", ".", "Directory containing the disk images", "path", nil)
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println("losserial v" + version)
		os.Exit(0)
	}

	plan := batch.Plan{
		Unpatch: *unpatch,
		Edits: patch.EditOptions{
			Deserialize: *deserialize,
			SetBozo:     *setBozo,
			ClearBozo:   *clearBozo,
		},
	}
	if serial != nil && *serial != "" {
		n, err := batch.ParseSerial(*serial)
		if err != nil {
			u.PrintError(err)
			os.Exit(1)
		}
		plan.Patch = true
		plan.Serial = n
	}
	if err := plan.Validate(); err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	stdoutTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LevelFromFlags(*verbose, *trace), stdoutTerminal))

	var output io.Writer = os.Stdout
	opts := []option.RunOption{
		option.WithColor(stdoutTerminal),
		option.WithRunLogger(logger),
	}

	// The spinner only makes sense when nobody is reading debug output from the same terminal.
	var spinner *yacspin.Spinner
	if term.IsTerminal(int(os.Stderr.Fd())) && !*verbose && !*trace {
		var err error
		spinner, err = InitializeSpinner()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
			fmt.Fprintf(os.Stderr, "Progress updates will be disabled.\n")
		} else {
			output = &spinnerWriter{spinner: spinner, w: os.Stdout}
			opts = append(opts, option.WithProgress(CreateProgressCallback(spinner)))
		}
	}
	opts = append(opts, option.WithOutput(output))

	summary, err := batch.NewRunner(opts...).Run(*dir, plan)
	if spinner != nil {
		if err != nil {
			spinner.StopFailMessage(" " + err.Error())
			_ = spinner.StopFail()
		} else {
			spinner.StopMessage(fmt.Sprintf(" %d image(s) processed, %d changed, %d failed", summary.Images, summary.Changed, summary.Failed))
			_ = spinner.Stop()
		}
	}
	if err != nil {
		if spinner == nil {
			u.PrintError(err)
		}
		os.Exit(1)
	}
	logger.Debug("Run complete", "images", summary.Images, "changed", summary.Changed, "failed", summary.Failed)
}
