package testing

import (
	"bytes"
	"os"
	"path/filepath"
	stdtesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *stdtesting.T) {
	gtPath := filepath.Join(t.TempDir(), "ground_truth.json")
	require.NoError(t, os.WriteFile(gtPath, []byte(`[
		{"name": "tool.dc42", "category": "tool disk", "tool": "17", "serial": 5, "bozo_set": true, "routine": "original"},
		{"name": "guide.image", "category": "LisaGuide disk", "routine": "missing"}
	]`), 0o644))

	gt, err := LoadGroundTruth(gtPath)
	require.NoError(t, err)
	require.Len(t, gt, 2)

	out := &bytes.Buffer{}
	err = Validate(out, []Observation{
		{Name: "tool.dc42", Category: "tool disk", Tool: "17", Serial: 5, BozoSet: true, Routine: "original"},
		{Name: "guide.image", Category: "LisaGuide disk", Routine: "missing"},
	}, gt)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "All images match")

	out.Reset()
	err = Validate(out, []Observation{
		{Name: "tool.dc42", Category: "tool disk", Tool: "17", Serial: 0, BozoSet: true, Routine: "original"},
		{Name: "other.dc42", Category: "unclassified", Routine: "missing"},
	}, gt)
	assert.EqualError(t, err, "3 image(s) differ from ground truth")
	assert.Contains(t, out.String(), "extra image other.dc42")
	assert.Contains(t, out.String(), "missing image guide.image")
}

func TestLoadGroundTruth_Missing(t *stdtesting.T) {
	_, err := LoadGroundTruth(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFixtures(t *stdtesting.T) {
	buf := NewImage(0x6000)
	marker := PutTool(buf, Tool{Offset: 0x4FF1, Number: "17", LowerCase: true, Serial: 300, Bozo: [2]byte{1, 1}})
	assert.Equal(t, 0x4FF5, marker)
	assert.Equal(t, []byte("{t17}obj"), buf[0x4FF1:0x4FF9])
	assert.Equal(t, []byte{0, 0, 1, 0x2C}, buf[0x4FF1+65:0x4FF1+69])
	assert.Equal(t, []byte{1, 1}, buf[0x4FF1+71:0x4FF1+73])
}
