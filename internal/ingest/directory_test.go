package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestScanDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.pdf":          "label one",
		"b.TXT":          "label two",
		"nested/c.pdf":   "label one",
		"notes.md":       "ignored",
		".hidden/d.pdf":  "hidden",
		".secret.txt":    "hidden",
		"nested/img.png": "ignored",
	})

	got, stats, err := ScanDirectory(context.Background(), root, true)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, filepath.Join(root, "a.pdf"), got[0].Path)
	assert.False(t, got[0].Duplicate)
	assert.Equal(t, int64(len("label one")), got[0].Size)
	assert.Len(t, got[0].HashHex, 64)

	assert.Equal(t, "txt", got[1].Ext)

	assert.Equal(t, filepath.Join(root, "nested", "c.pdf"), got[2].Path)
	assert.True(t, got[2].Duplicate)
	assert.Equal(t, got[0].Path, got[2].DuplicateOf)
	assert.Equal(t, got[0].HashHex, got[2].HashHex)

	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 1, stats.Duplicates)
	assert.Zero(t, stats.Failed)
}

func TestScanDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	root := writeTree(t, map[string]string{".hidden/d.pdf": "x", "e.txt": "y"})

	got, stats, err := ScanDirectory(context.Background(), root, false)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, 2, stats.Matched)
}

func TestScanDirectory_Errors(t *testing.T) {
	_, _, err := ScanDirectory(context.Background(), "  ", true)
	assert.Error(t, err)

	got, stats, err := ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].Err)
	assert.EqualValues(t, 1, stats.Failed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ScanDirectory(ctx, writeTree(t, map[string]string{"a.pdf": "x"}), true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAllowedExtAndHidden(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("txt"))
	assert.False(t, AllowedExt(".heic"))
	assert.True(t, IsHidden("/x/.git"))
	assert.False(t, IsHidden("/x/label.pdf"))
}

func TestStartWatcher_EmitsNewFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"existing.pdf": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, filepath.Join(root, "existing.pdf"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("initial scan not emitted")
	}

	newFile := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(newFile, []byte("Customer Address\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip.md"), []byte("x"), 0o644))

	select {
	case p := <-events:
		assert.Equal(t, newFile, p)
	case <-time.After(5 * time.Second):
		t.Fatal("new file not emitted")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
