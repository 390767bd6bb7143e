package nv

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ew, err := w.Create(name)
		require.NoError(t, err)
		_, err = ew.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestLocalFileSystemListImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.png"), "b")
	writeFile(t, filepath.Join(dir, "A.JPG"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")
	writeFile(t, filepath.Join(dir, ".hidden.png"), "h")
	writeFile(t, filepath.Join(dir, "sub", "c.png"), "c")

	fs := DefaultFileSystem()
	paths, err := fs.ListImagesInFolder(context.Background(), dir)
	require.NoError(t, err)
	sort.Strings(paths)
	assert.Equal(t, []string{filepath.Join(dir, "A.JPG"), filepath.Join(dir, "b.png")}, paths)

	_, err = fs.ListImagesInFolder(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLocalFileSystemPatterns(t *testing.T) {
	fs, err := NewLocalFileSystem([]string{"*.PNG", "page-*"})
	require.NoError(t, err)

	assert.Equal(t, []string{"*.PNG", "page-*"}, fs.Patterns())
	assert.True(t, fs.IsImageName("x.png"))
	assert.True(t, fs.IsImageName("/some/dir/Page-01"))
	assert.False(t, fs.IsImageName("x.jpg"))

	_, err = NewLocalFileSystem([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestLocalFileSystemArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "book.cbz")
	writeZip(t, archive, map[string]string{
		"p2.png":     "two",
		"sub/p1.png": "one",
		"readme.txt": "skip",
		"sub/":       "",
	})

	fs := DefaultFileSystem()
	ctx := context.Background()

	paths, err := fs.ListImagesInFolder(ctx, archive)
	require.NoError(t, err)
	sort.Strings(paths)
	assert.Equal(t, []string{
		ArchiveEntryPath(archive, "p2.png"),
		ArchiveEntryPath(archive, "sub/p1.png"),
	}, paths)

	entry := ArchiveEntryPath(archive, "sub/p1.png")
	name, err := fs.BaseName(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, "p1.png", name)

	parent, err := fs.DirName(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, archive, parent)

	folder, err := fs.FolderOf(entry)
	require.NoError(t, err)
	assert.Equal(t, archive, folder)

	rc, err := fs.Open(ctx, entry)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "one", string(data))

	_, err = fs.Open(ctx, ArchiveEntryPath(archive, "nope.png"))
	assert.ErrorIs(t, err, ErrEntryNotFound)

	u := fs.ResolveDisplayURL(entry)
	assert.True(t, strings.HasPrefix(u, ArchiveURLScheme+"://"), u)
	assert.True(t, strings.HasSuffix(u, "#sub/p1.png"), u)
}

func TestLocalFileSystemSiblings(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"vol1", "vol2", "vol10", ".git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	writeZip(t, filepath.Join(root, "extra.zip"), map[string]string{"a.png": "a"})
	writeFile(t, filepath.Join(root, "loose.png"), "x")

	fs := DefaultFileSystem()
	ctx := context.Background()

	paths, err := fs.ListSiblingFolderPaths(ctx, filepath.Join(root, "vol2"))
	require.NoError(t, err)
	sort.Strings(paths)
	assert.Equal(t, []string{
		filepath.Join(root, "extra.zip"),
		filepath.Join(root, "vol1"),
		filepath.Join(root, "vol10"),
		filepath.Join(root, "vol2"),
	}, paths)

	entries := ResolveSiblingEntries(ctx, filepath.Join(root, "vol2"), fs, nil)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"extra.zip", "vol1", "vol2", "vol10"}, names)
}

func TestLocalFileSystemPaths(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "x.png")
	writeFile(t, img, "x")

	fs := DefaultFileSystem()
	ctx := context.Background()

	folder, err := fs.FolderOf(img)
	require.NoError(t, err)
	assert.Equal(t, dir, folder)

	folder, err = fs.FolderOf(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, folder)

	_, err = fs.FolderOf(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	_, err = fs.BaseName(ctx, "")
	assert.Error(t, err)

	// Decomposed kana are normalised to NFC
	name, err := fs.BaseName(ctx, filepath.Join(dir, "が.png"))
	require.NoError(t, err)
	assert.Equal(t, "が.png", name)

	assert.True(t, strings.HasPrefix(fs.ResolveDisplayURL(img), "file://"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = fs.ListImagesInFolder(cancelled, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitArchiveEntryPath(t *testing.T) {
	tests := []struct {
		path    string
		archive string
		entry   string
		ok      bool
	}{
		{"/a/book.zip::p.png", "/a/book.zip", "p.png", true},
		{"/a/book.CB7::dir/p.png", "/a/book.CB7", "dir/p.png", true},
		{"/a/book.zip::", "", "", false},
		{"/a/dir::p.png", "", "", false},
		{"/a/p.png", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			archive, entry, ok := SplitArchiveEntryPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.archive, archive)
			assert.Equal(t, tt.entry, entry)
		})
	}

	assert.True(t, IsArchivePath("x.rar"))
	assert.True(t, IsArchivePath("x.cbr"))
	assert.False(t, IsArchivePath("x.tar"))
}
