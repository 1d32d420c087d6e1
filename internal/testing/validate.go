package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Observation is what a run learned about one image, flattened for comparison with ground truth.
type Observation struct {
	Name          string
	Category      string
	Tool          string
	Serial        uint32
	BozoSet       bool
	Routine       string
	RoutineSerial uint32
}

// GroundTruthEntry represents a single record from the JSON.
type GroundTruthEntry struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Tool          string `json:"tool,omitempty"`
	Serial        uint32 `json:"serial"`
	BozoSet       bool   `json:"bozo_set"`
	Routine       string `json:"routine"`
	RoutineSerial uint32 `json:"routine_serial"`
}

// LoadGroundTruth reads the JSON from a file and unmarshals it into a slice.
func LoadGroundTruth(filePath string) ([]GroundTruthEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entries []GroundTruthEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return entries, nil
}

// Validate compares observations against ground truth, writes a summary to w and returns an error when anything is
// missing, unexpected or different.
func Validate(w io.Writer, observed []Observation, groundTruth []GroundTruthEntry) error {
	gtMap := make(map[string]GroundTruthEntry, len(groundTruth))
	for _, gt := range groundTruth {
		gtMap[gt.Name] = gt
	}
	seen := make(map[string]bool, len(observed))

	var problems []string
	for _, o := range observed {
		seen[o.Name] = true
		gt, ok := gtMap[o.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("extra image %s", o.Name))
			continue
		}
		want := Observation{
			Name:          gt.Name,
			Category:      gt.Category,
			Tool:          gt.Tool,
			Serial:        gt.Serial,
			BozoSet:       gt.BozoSet,
			Routine:       gt.Routine,
			RoutineSerial: gt.RoutineSerial,
		}
		if o != want {
			problems = append(problems, fmt.Sprintf("%s: got %+v, want %+v", o.Name, o, want))
		}
	}
	for name := range gtMap {
		if !seen[name] {
			problems = append(problems, fmt.Sprintf("missing image %s", name))
		}
	}
	sort.Strings(problems)

	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintln(w, "VALIDATION RESULTS")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	if len(problems) == 0 {
		fmt.Fprintln(w, "All images match the ground truth!")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	fmt.Fprintln(w, strings.Repeat("=", 40))
	return fmt.Errorf("%d image(s) differ from ground truth", len(problems))
}
