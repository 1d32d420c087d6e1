package pkg

import (
	"os"
	"path/filepath"
	"testing"

	lostest "github.com/bgrewell/los-kit/internal/testing"
	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLisaImage_OpenEditSave(t *testing.T) {
	location := filepath.Join(t.TempDir(), "tool.dc42")
	require.NoError(t, os.WriteFile(location, lostest.ToolDisk("17", 5, [2]byte{0, 0}), 0o600))

	img := &LisaImage{}
	require.NoError(t, img.Open(location))
	assert.Equal(t, "tool.dc42", img.Name())
	assert.Equal(t, classify.ToolDisk, img.Classification().Category)
	assert.False(t, img.Dirty())

	report := img.Patch(7)
	assert.Equal(t, patch.StatusChanged, report.Status)
	reports := img.Edit(patch.EditOptions{SetBozo: true})
	assert.Equal(t, patch.StatusChanged, reports[0].Status)
	assert.True(t, img.Dirty())
	assert.True(t, img.Classification().Tool.BozoSet, "classification must follow edits")

	require.NoError(t, img.Save())
	assert.False(t, img.Dirty())

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, img.Bytes(), data)

	fi, err := os.Stat(location)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(location))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestLisaImage_ReadOnly(t *testing.T) {
	img := &LisaImage{Options: option.OpenOptions{ReadOnly: true}}
	img.Load(filepath.Join(t.TempDir(), "x.dc42"), lostest.ToolDisk("17", 5, [2]byte{1, 1}))

	assert.NoError(t, img.Save(), "an unchanged image needs no write")
	img.Edit(patch.EditOptions{Deserialize: true})
	assert.ErrorIs(t, img.Save(), ErrReadOnly)
}

func TestLisaImage_NoChangeNoWrite(t *testing.T) {
	location := filepath.Join(t.TempDir(), "junk.image")
	img := &LisaImage{}
	img.Load(location, lostest.NewImage(0x100))

	report := img.Unpatch()
	assert.Equal(t, patch.StatusError, report.Status)
	assert.False(t, img.Dirty())
	require.NoError(t, img.Save())
	_, err := os.Stat(location)
	assert.True(t, os.IsNotExist(err))
}

func TestLisaImage_OpenMissing(t *testing.T) {
	img := &LisaImage{}
	assert.Error(t, img.Open(filepath.Join(t.TempDir(), "missing.dc42")))
}

func TestLisaImage_String(t *testing.T) {
	img := &LisaImage{}
	img.Load("/tmp/guide.image", func() []byte {
		buf := lostest.NewImage(0x1000)
		lostest.PutGuide(buf, 0x10)
		return buf
	}())
	assert.Equal(t, "guide.image: LisaGuide disk, 4096 bytes", img.String())
	assert.Len(t, img.Inspect(), 1)
}
