package nv

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LoadImageEntries lists the images of folder through fs, wraps them into
// ImageEntry values and orders them with strategy (natural order when nil).
// Any collaborator failure is logged and yields an empty list
func LoadImageEntries(ctx context.Context, fs FileSystemService, folder string, strategy SortStrategy) []ImageEntry {
	if folder == "" {
		return []ImageEntry{}
	}
	if strategy == nil {
		strategy = &NaturalSortStrategy{}
	}

	log := logger.WithField("folder", folder)

	paths, err := fs.ListImagesInFolder(ctx, folder)
	if err != nil {
		log.WithError(err).Warn("Failed to list images")
		return []ImageEntry{}
	}

	images := make([]ImageEntry, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Debug("Image listing abandoned")
			return []ImageEntry{}
		}
		name, err := fs.BaseName(ctx, p)
		if err != nil {
			log.WithFields(logrus.Fields{"image": p, "error": err}).Warn("Failed to resolve image name")
			return []ImageEntry{}
		}
		images = append(images, ImageEntry{
			ID:       p,
			Name:     name,
			AssetURL: fs.ResolveDisplayURL(p),
		})
	}

	sorted := strategy.Sort(images)
	debugLog("Loaded %d images from %s (%s order)", len(sorted), folder, strategy.Name())
	return sorted
}

// IndexOfImage returns the position of the image with the given ID or -1
func IndexOfImage(images []ImageEntry, id string) int {
	for i, img := range images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// ClampIndex returns i limited to a valid position in a list of n items,
// or 0 for an empty list
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
