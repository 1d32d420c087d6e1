package loskit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	lostest "github.com/bgrewell/los-kit/internal/testing"
	"github.com/bgrewell/los-kit/pkg/classify"
	"github.com/bgrewell/los-kit/pkg/logging"
	"github.com/bgrewell/los-kit/pkg/option"
	"github.com/bgrewell/los-kit/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	location := filepath.Join(t.TempDir(), "os1.dc42")
	buf := lostest.NewImage(lostest.DefaultImageSize)
	lostest.PutInstaller(buf, 0x3500, 1, 300)
	lostest.PutPatchedRoutine(buf, 0x200, 77)
	require.NoError(t, os.WriteFile(location, buf, 0o644))

	logs := &bytes.Buffer{}
	img, err := Open(location, option.WithLogger(logging.NewLogger(logging.NewSimpleLogger(logs, logging.LEVEL_DEBUG, false))))
	require.NoError(t, err)

	class := img.Classification()
	assert.Equal(t, classify.PrimaryInstaller, class.Category)
	assert.Equal(t, uint32(300), class.Installer.Serial)
	assert.Equal(t, patch.RoutineInfo{State: patch.RoutinePatched, Count: 1, Serial: 77}, img.Routine())
	assert.Contains(t, logs.String(), "image: os1.dc42")
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.image"))
	assert.Error(t, err)
}

func TestLoad_ReadOnly(t *testing.T) {
	img := Load(filepath.Join(t.TempDir(), "tool.image"), lostest.ToolDisk("3", 9, [2]byte{1, 1}), option.WithReadOnly(true))
	reports := img.Edit(patch.EditOptions{Deserialize: true})
	require.Len(t, reports, 1)
	assert.Equal(t, patch.StatusChanged, reports[0].Status)
	assert.True(t, img.Dirty())
	assert.Error(t, img.Save())
}
