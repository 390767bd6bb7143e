package nv

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// archiveEntrySep joins an archive path and the path of an entry inside it
const archiveEntrySep = "::"

var (
	// ErrNotArchive is returned for paths without a supported archive extension
	ErrNotArchive = errors.New("not an archive")
	// ErrEntryNotFound is returned when an archive has no such entry
	ErrEntryNotFound = errors.New("entry not found")
)

// archiveKind identifies an archive format by extension
type archiveKind int

const (
	archiveNone archiveKind = iota
	archiveZip
	archiveRar
	archive7z
)

func archiveKindOf(path string) archiveKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".cbz":
		return archiveZip
	case ".rar", ".cbr":
		return archiveRar
	case ".7z", ".cb7":
		return archive7z
	default:
		return archiveNone
	}
}

// IsArchivePath reports whether path names a supported archive
func IsArchivePath(path string) bool {
	return archiveKindOf(path) != archiveNone
}

// ArchiveEntryPath joins an archive and an entry into one path
func ArchiveEntryPath(archivePath, entryPath string) string {
	return archivePath + archiveEntrySep + entryPath
}

// SplitArchiveEntryPath splits a path produced by ArchiveEntryPath
func SplitArchiveEntryPath(p string) (archivePath, entryPath string, ok bool) {
	i := strings.LastIndex(p, archiveEntrySep)
	if i < 0 {
		return "", "", false
	}
	archivePath, entryPath = p[:i], p[i+len(archiveEntrySep):]
	if entryPath == "" || !IsArchivePath(archivePath) {
		return "", "", false
	}
	return archivePath, entryPath, true
}

// listArchiveEntries returns the file entries of an archive accepted by keep
func listArchiveEntries(archivePath string, keep func(name string) bool) ([]string, error) {
	switch archiveKindOf(archivePath) {
	case archiveZip:
		return listZipEntries(archivePath, keep)
	case archiveRar:
		return listRarEntries(archivePath, keep)
	case archive7z:
		return list7zEntries(archivePath, keep)
	default:
		return nil, fmt.Errorf("%s: %w", archivePath, ErrNotArchive)
	}
}

func listZipEntries(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			entries = append(entries, f.Name)
		}
	}
	return entries, nil
}

func listRarEntries(archivePath string, keep func(string) bool) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var entries []string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && keep(header.Name) {
			entries = append(entries, header.Name)
		}
	}
	return entries, nil
}

func list7zEntries(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			entries = append(entries, f.Name)
		}
	}
	return entries, nil
}

// readArchiveEntry reads one entry fully into memory
func readArchiveEntry(archivePath, entryPath string) ([]byte, error) {
	switch archiveKindOf(archivePath) {
	case archiveZip:
		return readZipEntry(archivePath, entryPath)
	case archiveRar:
		return readRarEntry(archivePath, entryPath)
	case archive7z:
		return read7zEntry(archivePath, entryPath)
	default:
		return nil, fmt.Errorf("%s: %w", archivePath, ErrNotArchive)
	}
}

func readZipEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s in %s: %w", entryPath, archivePath, ErrEntryNotFound)
}

func readRarEntry(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("%s in %s: %w", entryPath, archivePath, ErrEntryNotFound)
}

func read7zEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s in %s: %w", entryPath, archivePath, ErrEntryNotFound)
}

// openArchiveEntry returns a reader over an entry's bytes
func openArchiveEntry(archivePath, entryPath string) (io.ReadCloser, error) {
	data, err := readArchiveEntry(archivePath, entryPath)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
