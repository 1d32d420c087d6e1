package patch

import (
	"testing"

	lostest "github.com/bgrewell/los-kit/internal/testing"
	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolImage(serial uint32, bozo [2]byte) ([]byte, classify.Classification) {
	buf := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutTool(buf, lostest.Tool{Offset: 0x4FF1, Number: "17", Serial: serial, Bozo: bozo})
	return buf, classify.Classify(buf, logr.Discard())
}

func TestApplyEdits_ToolAlreadyDeserialized(t *testing.T) {
	buf, class := toolImage(0, [2]byte{})
	require.Equal(t, classify.ToolDisk, class.Category)

	out, reports := ApplyEdits(buf, class, EditOptions{Deserialize: true})
	require.Len(t, reports, 1)
	assert.Equal(t, FieldSerial, reports[0].Field)
	assert.Equal(t, StatusUnchanged, reports[0].Status)
	assert.Equal(t, "already deserialized", reports[0].Reason)
	assert.Equal(t, buf, out)
	assert.False(t, Changed(reports...))
}

func TestApplyEdits_ToolDeserialize(t *testing.T) {
	buf, class := toolImage(0x00ABCDEF, [2]byte{1, 1})

	out, reports := ApplyEdits(buf, class, EditOptions{Deserialize: true})
	require.Len(t, reports, 1)
	assert.Equal(t, StatusChanged, reports[0].Status)
	assert.Equal(t, uint32(0x00ABCDEF), reports[0].OldValue)
	assert.Equal(t, uint32(0), reports[0].NewValue)
	assert.Equal(t, []byte{0, 0, 0, 0}, out[0x4FF1+65:0x4FF1+69])
	assert.Equal(t, []byte{0, 0xAB, 0xCD, 0xEF}, buf[0x4FF1+65:0x4FF1+69], "input must stay untouched")
	// Exactly the four serial number bytes are zeroed.
	assert.Equal(t, buf[:0x4FF1+65], out[:0x4FF1+65])
	assert.Equal(t, buf[0x4FF1+69:], out[0x4FF1+69:])
	assert.True(t, Changed(reports...))
}

func TestApplyEdits_PrimaryInstallerScenario(t *testing.T) {
	buf := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutInstaller(buf, 0x3500, 1, 300)
	class := classify.Classify(buf, logr.Discard())
	require.Equal(t, classify.PrimaryInstaller, class.Category)

	out, reports := ApplyEdits(buf, class, EditOptions{Deserialize: true, SetBozo: true})
	require.Len(t, reports, 2)
	assert.Equal(t, StatusChanged, reports[0].Status)
	assert.Equal(t, uint32(300), reports[0].OldValue)
	assert.Equal(t, uint32(0), reports[0].NewValue)
	assert.Equal(t, []byte{0, 0, 0, 0}, out[0x3500+191:0x3500+195])

	assert.Equal(t, FieldBozo, reports[1].Field)
	assert.Equal(t, StatusNotApplicable, reports[1].Status)
	assert.NoError(t, reports[1].Err)
}

func TestApplyEdits_SetBozoIdempotent(t *testing.T) {
	buf, class := toolImage(1, [2]byte{0, 0})

	once, reports := ApplyEdits(buf, class, EditOptions{SetBozo: true})
	require.Len(t, reports, 1)
	assert.Equal(t, StatusChanged, reports[0].Status)
	assert.Equal(t, uint32(0), reports[0].OldValue)
	assert.Equal(t, uint32(1), reports[0].NewValue)
	assert.Equal(t, []byte{1, 1}, once[0x4FF1+71:0x4FF1+73])

	twice, reports := ApplyEdits(once, classify.Classify(once, logr.Discard()), EditOptions{SetBozo: true})
	assert.Equal(t, StatusUnchanged, reports[0].Status)
	assert.Equal(t, "bozo bits already set", reports[0].Reason)
	assert.Equal(t, once, twice)
}

func TestApplyEdits_ClearBozoWritesFirstByteOnly(t *testing.T) {
	buf, class := toolImage(1, [2]byte{1, 1})

	out, reports := ApplyEdits(buf, class, EditOptions{ClearBozo: true})
	assert.Equal(t, StatusChanged, reports[0].Status)
	assert.Equal(t, []byte{0, 1}, out[0x4FF1+71:0x4FF1+73])

	_, reports = ApplyEdits(out, classify.Classify(out, logr.Discard()), EditOptions{ClearBozo: true})
	assert.Equal(t, StatusUnchanged, reports[0].Status)
	assert.Equal(t, "bozo bits already cleared", reports[0].Reason)
}

func TestApplyEdits_UnknownBozoPatternIsCleared(t *testing.T) {
	buf, class := toolImage(1, [2]byte{1, 2})
	assert.False(t, class.Tool.BozoSet)

	_, reports := ApplyEdits(buf, class, EditOptions{ClearBozo: true})
	assert.Equal(t, StatusUnchanged, reports[0].Status)

	out, reports := ApplyEdits(buf, class, EditOptions{SetBozo: true})
	assert.Equal(t, StatusChanged, reports[0].Status)
	assert.Equal(t, []byte{1, 1}, out[0x4FF1+71:0x4FF1+73])
}

func TestApplyEdits_ConflictingBozo(t *testing.T) {
	buf, class := toolImage(1, [2]byte{1, 1})
	out, reports := ApplyEdits(buf, class, EditOptions{Deserialize: true, SetBozo: true, ClearBozo: true})
	require.Len(t, reports, 1)
	assert.Equal(t, StatusError, reports[0].Status)
	assert.ErrorIs(t, reports[0].Err, ErrConflictingBozo)
	assert.Equal(t, buf, out)
}

func TestApplyEdits_NotApplicable(t *testing.T) {
	dictionary := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutTool(dictionary, lostest.Tool{Offset: 0x4000, Number: "92", Serial: 5})
	copy(dictionary[0x4000+90:], "{T93}")

	secondary := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutInstaller(secondary, 0x3100, 2, 0)

	guide := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutGuide(guide, 0x200)

	for name, buf := range map[string][]byte{"dictionary": dictionary, "secondary": secondary, "guide": guide} {
		class := classify.Classify(buf, logr.Discard())
		out, reports := ApplyEdits(buf, class, EditOptions{Deserialize: true, ClearBozo: true})
		require.Len(t, reports, 2, name)
		for _, r := range reports {
			assert.Equal(t, StatusNotApplicable, r.Status, name)
			assert.NotEmpty(t, r.Reason, name)
		}
		assert.Equal(t, buf, out, name)
	}
}

func TestApplyEdits_Unclassified(t *testing.T) {
	buf := lostest.NewImage(0x1000)
	_, reports := ApplyEdits(buf, classify.Classify(buf, logr.Discard()), EditOptions{Deserialize: true, SetBozo: true})
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, StatusError, r.Status)
		assert.ErrorIs(t, r.Err, ErrNotRecognized)
	}
}

func TestApplyEdits_StaleClassification(t *testing.T) {
	buf, class := toolImage(5, [2]byte{1, 1})
	_, reports := ApplyEdits(buf[:0x4FF1+60], class, EditOptions{Deserialize: true})
	assert.Equal(t, StatusError, reports[0].Status)
	assert.ErrorIs(t, reports[0].Err, ErrNotRecognized)
}

func TestApplyEdits_Nothing(t *testing.T) {
	buf, class := toolImage(5, [2]byte{1, 1})
	out, reports := ApplyEdits(buf, class, EditOptions{})
	assert.Empty(t, reports)
	assert.Equal(t, buf, out)
	assert.False(t, EditOptions{}.Any())
	assert.True(t, EditOptions{ClearBozo: true}.Any())
}

func TestInspect(t *testing.T) {
	_, class := toolImage(77, [2]byte{1, 1})
	reports := Inspect(class)
	require.Len(t, reports, 2)
	assert.Equal(t, uint32(77), reports[0].OldValue)
	assert.Equal(t, "serialized with serial number 77", reports[0].Reason)
	assert.Equal(t, uint32(1), reports[1].OldValue)
	assert.Equal(t, "bozo bits are set", reports[1].Reason)

	buf := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutInstaller(buf, 0x3500, 1, 0)
	reports = Inspect(classify.Classify(buf, logr.Discard()))
	require.Len(t, reports, 2)
	assert.Equal(t, "deserialized", reports[0].Reason)
	assert.Equal(t, StatusNotApplicable, reports[1].Status)

	reports = Inspect(classify.Classification{Category: classify.Unclassified})
	require.Len(t, reports, 1)
	assert.Equal(t, StatusError, reports[0].Status)
}
