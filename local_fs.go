package nv

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/unicode/norm"
)

// DefaultImagePatterns are the file name patterns treated as images
var DefaultImagePatterns = []string{"*.{png,jpg,jpeg,webp,bmp,gif}"}

// ArchiveURLScheme is the scheme ResolveDisplayURL uses for archive entries
const ArchiveURLScheme = "nv-archive"

// LocalFileSystem implements FileSystemService over the local disk. Zip, rar
// and 7z archives (and their comic-book aliases) behave like folders
type LocalFileSystem struct {
	patterns []glob.Glob
	sources  []string
}

// NewLocalFileSystem creates a LocalFileSystem recognising images by the given
// glob patterns (DefaultImagePatterns when empty). Matching is
// case-insensitive
func NewLocalFileSystem(patterns []string) (*LocalFileSystem, error) {
	if len(patterns) == 0 {
		patterns = DefaultImagePatterns
	}

	fs := &LocalFileSystem{}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid image pattern %q: %w", p, err)
		}
		fs.patterns = append(fs.patterns, g)
		fs.sources = append(fs.sources, p)
	}
	return fs, nil
}

// DefaultFileSystem returns a LocalFileSystem with DefaultImagePatterns
func DefaultFileSystem() *LocalFileSystem {
	fs, err := NewLocalFileSystem(nil)
	if err != nil {
		// The default patterns are constant; failing to compile them is a bug
		panic(err)
	}
	return fs
}

// Patterns returns the configured image patterns
func (fs *LocalFileSystem) Patterns() []string {
	return append([]string{}, fs.sources...)
}

// IsImageName reports whether a file name matches one of the image patterns
func (fs *LocalFileSystem) IsImageName(name string) bool {
	base := strings.ToLower(path.Base(filepath.ToSlash(name)))
	for _, g := range fs.patterns {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ListImagesInFolder returns image paths in folder, or image entries when
// folder is an archive. Order is unspecified
func (fs *LocalFileSystem) ListImagesInFolder(ctx context.Context, folderPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if IsArchivePath(folderPath) {
		entries, err := listArchiveEntries(folderPath, fs.IsImageName)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive %s: %w", folderPath, err)
		}
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = ArchiveEntryPath(folderPath, e)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", folderPath, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || isHiddenName(entry.Name()) {
			continue
		}
		if fs.IsImageName(entry.Name()) {
			paths = append(paths, filepath.Join(folderPath, entry.Name()))
		}
	}
	return paths, nil
}

// ListSiblingFolderPaths returns the directories and archives sharing the
// parent of folderPath, folderPath included. The file system root has no
// siblings
func (fs *LocalFileSystem) ListSiblingFolderPaths(ctx context.Context, folderPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(folderPath)
	parent := filepath.Dir(clean)
	if parent == clean {
		return nil, nil
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", parent, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if isHiddenName(name) {
			continue
		}
		full := filepath.Join(parent, name)
		if isFolderLike(full, entry) {
			paths = append(paths, full)
		}
	}
	return paths, nil
}

func isFolderLike(full string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink != 0 {
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			return true
		}
	}
	return entry.Type().IsRegular() && IsArchivePath(full)
}

// BaseName returns the NFC-normalised last element of p
func (fs *LocalFileSystem) BaseName(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if _, entry, ok := SplitArchiveEntryPath(p); ok {
		return norm.NFC.String(path.Base(entry)), nil
	}
	return norm.NFC.String(filepath.Base(p)), nil
}

// DirName returns the folder containing p. Entries at the top of an archive
// belong to the archive itself
func (fs *LocalFileSystem) DirName(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if archivePath, _, ok := SplitArchiveEntryPath(p); ok {
		return archivePath, nil
	}
	return filepath.Dir(p), nil
}

// ResolveDisplayURL returns a file:// URL, or an nv-archive:// URL with the
// entry as fragment for archive entries
func (fs *LocalFileSystem) ResolveDisplayURL(p string) string {
	if archivePath, entry, ok := SplitArchiveEntryPath(p); ok {
		u := url.URL{Scheme: ArchiveURLScheme, Path: toURLPath(archivePath), Fragment: entry}
		return u.String()
	}
	u := url.URL{Scheme: "file", Path: toURLPath(p)}
	return u.String()
}

func toURLPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// OpenDirectoryDialog is not supported by the local file system
func (fs *LocalFileSystem) OpenDirectoryDialog(ctx context.Context) (string, error) {
	return "", ErrDialogUnavailable
}

// OpenImageFileDialog is not supported by the local file system
func (fs *LocalFileSystem) OpenImageFileDialog(ctx context.Context, extensions []string) (string, error) {
	return "", ErrDialogUnavailable
}

// Open returns the bytes of an image file or archive entry
func (fs *LocalFileSystem) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if archivePath, entry, ok := SplitArchiveEntryPath(p); ok {
		return openArchiveEntry(archivePath, entry)
	}
	return os.Open(p)
}

// FolderOf returns the folder a viewer should open for path: the path itself
// for directories and archives, the parent for image files and archive
// entries
func (fs *LocalFileSystem) FolderOf(p string) (string, error) {
	if archivePath, _, ok := SplitArchiveEntryPath(p); ok {
		return archivePath, nil
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() || IsArchivePath(p) {
		return p, nil
	}
	return filepath.Dir(p), nil
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

var _ FileSystemService = (*LocalFileSystem)(nil)
