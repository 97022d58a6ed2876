package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyDir(t *testing.T) {
	_, err := New("  ")
	assert.ErrorIs(t, err, ErrPathInvalid)
}

func TestWriter_Path(t *testing.T) {
	w, err := New("/out")
	require.NoError(t, err)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"core.yaml", filepath.Join("/out", "core.yaml"), false},
		{"nested/core.yaml", filepath.Join("/out", "core.yaml"), false},
		{"../../etc/core.yaml", filepath.Join("/out", "core.yaml"), false},
		{"..", "", true},
		{".", "", true},
		{"", "", true},
		{"/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Path(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Write(t *testing.T) {
	root := filepath.Join(t.TempDir(), "split")
	w, err := New(root)
	require.NoError(t, err)
	require.NoError(t, w.Probe())

	dest, err := w.Write(context.Background(), "core.yaml", "Resources:\n  A: 1\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "core.yaml"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Resources:\n  A: 1\n", string(data))

	// overwrite replaces the previous artifact
	_, err = w.Write(context.Background(), "core.yaml", "Resources:\n  B: 2\n")
	require.NoError(t, err)
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Resources:\n  B: 2\n", string(data))

	// no temp or probe files are left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "core.yaml", entries[0].Name())
}

func TestWriteFile_CreatesParents(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "template-optimized.yaml")
	require.NoError(t, WriteFile(context.Background(), dest, "x: 1\n"))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x: 1\n", string(data))
}

func TestWriteFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "out.yaml")
	err := WriteFile(ctx, dest, "x: 1\n")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dest)
}

func TestProbeDir_NotWritable(t *testing.T) {
	// a regular file cannot host an output directory
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := ProbeDir(filepath.Join(file, "split"))
	assert.ErrorIs(t, err, ErrNotWritable)
}
