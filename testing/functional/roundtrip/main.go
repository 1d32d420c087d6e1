package main

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"

	loskit "github.com/bgrewell/los-kit"
	lostest "github.com/bgrewell/los-kit/internal/testing"
	"github.com/bgrewell/los-kit/pkg/batch"
	"github.com/bgrewell/los-kit/pkg/consts"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
	"github.com/bgrewell/usage"
)

func generateFileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	hashBytes := hash.Sum(nil)
	return fmt.Sprintf("%x", hashBytes), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func observe(img loskit.Image) lostest.Observation {
	class := img.Classification()
	routine := img.Routine()
	o := lostest.Observation{Name: img.Name(), Category: class.Category.String()}
	switch routine.State {
	case patch.RoutineOriginal:
		o.Routine = "original"
	case patch.RoutinePatched:
		o.Routine = "patched"
		o.RoutineSerial = routine.Serial
	default:
		o.Routine = "missing"
	}
	if class.Tool != nil {
		o.Tool = class.Tool.Number
		o.Serial = class.Tool.Serial
		o.BozoSet = class.Tool.BozoSet
	}
	if class.Installer != nil {
		o.Serial = class.Installer.Serial
	}
	return o
}

// roundTrip patches and unpatches the image in place, restoring an existing fixed serial number afterwards.
func roundTrip(img loskit.Image, serial uint32) error {
	switch routine := img.Routine(); routine.State {
	case patch.RoutineOriginal:
		if r := img.Patch(serial); r.Status != patch.StatusChanged {
			return fmt.Errorf("patch: %s", r.Reason)
		}
		if r := img.Unpatch(); r.Status != patch.StatusChanged || r.OldSerial != serial {
			return fmt.Errorf("unpatch: %s", r.Reason)
		}
	case patch.RoutinePatched:
		if r := img.Unpatch(); r.Status != patch.StatusChanged {
			return fmt.Errorf("unpatch: %s", r.Reason)
		}
		if r := img.Patch(routine.Serial); r.Status != patch.StatusChanged {
			return fmt.Errorf("patch: %s", r.Reason)
		}
	}
	return img.Save()
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("roundtrip"),
		usage.WithApplicationDescription("roundtrip is a functional testing application that is part of los-kit and is designed to verify that patching and unpatching a directory of Lisa disk images restores every image byte for byte."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	rm := u.AddBooleanOption("rm", "remove-test-files", true, "Remove the working copies after running the tests", "", nil)
	serialArg := u.AddStringOption("s", "serial", "1234567", "Serial number to patch with", "", nil)
	groundTruth := u.AddStringOption("g", "ground-truth", "", "JSON file describing the expected classification of every image", "", nil)
	input := u.AddArgument(1, "input", "Directory holding the disk images to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the image directory <input> must be provided"))
		os.Exit(1)
	}

	serial, err := batch.ParseSerial(*serialArg)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_TRACE, true))

	images, err := batch.FindImages(*input, []string{consts.EXTENSION_DC42, consts.EXTENSION_IMAGE})
	if err != nil {
		fmt.Printf("Failed to list images: %s\n", err)
		os.Exit(1)
	}

	os.Exit(run(images, serial, *groundTruth, !*rm, logger))
}

// run copies images into a temporary working directory and round-trips every copy. The working directory is removed
// before returning unless keep is set.
func run(images []string, serial uint32, groundTruth string, keep bool, logger *logging.Logger) int {
	work, err := os.MkdirTemp("", "roundtrip_test_*")
	if err != nil {
		fmt.Printf("Failed to create temporary directory: %s\n", err)
		return 1
	}
	if keep {
		fmt.Printf("Working directory: %s\n", work)
	} else {
		defer os.RemoveAll(work)
	}

	var observations []lostest.Observation
	failures := 0
	for _, src := range images {
		dst := filepath.Join(work, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			fmt.Printf("Failed to copy %s: %s\n", src, err)
			return 1
		}

		img, err := loskit.Open(dst, option.WithLogger(logger))
		if err != nil {
			fmt.Printf("Failed to open image: %s\n", err)
			return 1
		}
		observations = append(observations, observe(img))

		if err := roundTrip(img, serial); err != nil {
			fmt.Printf("%s: round trip failed: %s\n", img.Name(), err)
			failures++
			continue
		}

		inputHash, err := generateFileMD5(src)
		if err != nil {
			fmt.Printf("Failed to generate MD5 hash for input file: %s\n", err)
			return 1
		}
		outputHash, err := generateFileMD5(dst)
		if err != nil {
			fmt.Printf("Failed to generate MD5 hash for output file: %s\n", err)
			return 1
		}
		if inputHash != outputHash {
			fmt.Printf("%s: MD5 hash of input file does not match MD5 hash of output file:\n  Input:  %s\n  Output: %s\n", img.Name(), inputHash, outputHash)
			failures++
		}
	}

	if groundTruth != "" {
		gt, err := lostest.LoadGroundTruth(groundTruth)
		if err != nil {
			fmt.Printf("Failed to load ground truth: %s\n", err)
			return 1
		}
		if err := lostest.Validate(os.Stdout, observations, gt); err != nil {
			failures++
		}
	}

	if failures > 0 {
		return 1
	}
	fmt.Printf("%d image(s) survived the round trip\n", len(images))
	return 0
}
