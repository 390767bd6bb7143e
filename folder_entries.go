package nv

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResolveSiblingEntries returns the folders next to currentPath, currentPath
// itself included, ordered by cmp (CompareFolderEntries when nil).
//
// Failure handling is asymmetric: if the current folder's own name cannot be
// resolved it is left out and the siblings are still returned, but a failed
// listing or any failed sibling name yields an empty result. Results are never
// cached
func ResolveSiblingEntries(ctx context.Context, currentPath string, fs FileSystemService, cmp func(a, b FolderEntry) int) []FolderEntry {
	if currentPath == "" {
		return []FolderEntry{}
	}
	if cmp == nil {
		cmp = CompareFolderEntries
	}

	log := logger.WithField("folder", currentPath)

	paths, err := fs.ListSiblingFolderPaths(ctx, currentPath)
	if err != nil {
		log.WithError(err).Warn("Failed to list sibling folders")
		return []FolderEntry{}
	}

	self := filepath.Clean(currentPath)
	siblings := make([]string, 0, len(paths))
	for _, p := range paths {
		// The current folder is resolved on its own below
		if filepath.Clean(p) == self {
			continue
		}
		siblings = append(siblings, p)
	}

	entries := make([]FolderEntry, len(siblings))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range siblings {
		g.Go(func() error {
			name, err := fs.BaseName(gctx, p)
			if err != nil {
				log.WithFields(logrus.Fields{"sibling": p, "error": err}).Warn("Failed to resolve sibling folder name")
				return err
			}
			entries[i] = FolderEntry{Name: name, Path: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return []FolderEntry{}
	}

	if name, err := fs.BaseName(ctx, currentPath); err != nil {
		log.WithError(err).Warn("Failed to resolve current folder name")
	} else {
		entries = append(entries, FolderEntry{Name: name, Path: currentPath})
	}

	slices.SortStableFunc(entries, cmp)
	debugLog("Resolved %d sibling entries for %s", len(entries), currentPath)
	return entries
}

// IndexOfFolder returns the position of path in entries or -1
func IndexOfFolder(entries []FolderEntry, path string) int {
	target := filepath.Clean(path)
	for i, e := range entries {
		if filepath.Clean(e.Path) == target {
			return i
		}
	}
	return -1
}
