package nv

import (
	"context"
	"errors"
)

// ErrDialogUnavailable is returned by FileSystemService implementations that
// cannot show native pickers
var ErrDialogUnavailable = errors.New("dialog unavailable")

// ImageEntry is one navigable image of a viewer session
type ImageEntry struct {
	ID       string // Stable identity, the source path
	Name     string // Display name
	AssetURL string // Resolved displayable locator
}

// FolderEntry is one folder shown in sibling navigation
type FolderEntry struct {
	Name string
	Path string
}

// FileSystemService is the storage collaborator the core consumes. Calls that
// may block take a context; "" from a dialog means the user cancelled
type FileSystemService interface {
	// Listing
	ListImagesInFolder(ctx context.Context, folderPath string) ([]string, error)
	ListSiblingFolderPaths(ctx context.Context, folderPath string) ([]string, error)

	// Path helpers
	BaseName(ctx context.Context, path string) (string, error)
	DirName(ctx context.Context, path string) (string, error)
	ResolveDisplayURL(path string) string

	// Interactive pickers
	OpenDirectoryDialog(ctx context.Context) (string, error)
	OpenImageFileDialog(ctx context.Context, extensions []string) (string, error)
}

// ViewState provides read-only access to viewer state for a renderer
type ViewState interface {
	// Images
	CurrentIndex() int
	CurrentImage() (ImageEntry, bool)
	Images() []ImageEntry

	// Transformation state
	Settings() ViewerSettings
	IsFullscreen() bool

	// Overlay
	ControlsVisible() bool
}

// PickDirectory asks the collaborator for a directory and degrades any
// failure to "" with a log line
func PickDirectory(ctx context.Context, fs FileSystemService) string {
	dir, err := fs.OpenDirectoryDialog(ctx)
	if err != nil {
		logger.WithError(err).Warn("Directory dialog failed")
		return ""
	}
	return dir
}

// PickImageFile asks the collaborator for an image file and degrades any
// failure to ""
func PickImageFile(ctx context.Context, fs FileSystemService, extensions []string) string {
	path, err := fs.OpenImageFileDialog(ctx, extensions)
	if err != nil {
		logger.WithError(err).Warn("Image file dialog failed")
		return ""
	}
	return path
}
