package nv

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCallbacks are the host's hooks into a Session
type SessionCallbacks struct {
	// OnFolderOpened runs after a folder load has been applied, with the
	// viewer that now owns the image list
	OnFolderOpened func(folder string, viewer *Viewer)

	// OnSortMethodChange runs after CycleSortMethod re-ordered the images
	OnSortMethodChange func(strategy SortStrategy)

	// Viewer is passed to every viewer the session creates
	Viewer ViewerCallbacks
}

// SessionOption customises NewSession
type SessionOption func(*Session)

// WithScheduler drives the controls timer of every viewer from sched
func WithScheduler(sched Scheduler) SessionOption {
	return func(s *Session) { s.sched = sched }
}

// WithKeySource binds every viewer's dispatcher to source instead of the
// session's own KeyEventFeed
func WithKeySource(source KeySource) SessionOption {
	return func(s *Session) { s.source = source }
}

// Session owns the viewer for the folder being browsed. It loads folders in
// the background, moves between sibling folders and keeps the image list in
// sync with the disk when watching is enabled. Results of a load that was
// superseded, or that completes after Close, are discarded
type Session struct {
	id  string
	log *logrus.Entry
	fs  FileSystemService
	cfg Config
	cb  SessionCallbacks

	sched  Scheduler
	feed   *KeyEventFeed
	source KeySource
	order  *NaturalOrder

	mu       sync.Mutex
	gen      uint64
	closed   bool
	folder   string
	strategy SortStrategy
	viewer   *Viewer
	watcher  *FolderWatcher
}

// NewSession creates a session over fs configured by cfg
func NewSession(fs FileSystemService, cfg Config, callbacks SessionCallbacks, opts ...SessionOption) *Session {
	id := uuid.NewString()
	s := &Session{
		id:       id,
		log:      logger.WithField("session", id),
		fs:       fs,
		cfg:      cfg,
		cb:       callbacks,
		feed:     NewKeyEventFeed(),
		order:    cfg.NaturalOrder(),
		strategy: cfg.SortStrategy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = s.feed
	}
	s.log.WithField("sort", s.strategy.Name()).Debug("Session started")
	return s
}

// ID returns the session identifier carried on its log lines
func (s *Session) ID() string {
	return s.id
}

// Keys returns the feed hosts emit key events into
func (s *Session) Keys() *KeyEventFeed {
	return s.feed
}

// Viewer returns the current viewer, or nil before the first folder opened
func (s *Session) Viewer() *Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// Folder returns the folder currently shown
func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folder
}

// SortStrategy returns the strategy ordering the image list
func (s *Session) SortStrategy() SortStrategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// OpenFolder loads folder in the background and positions the viewer on
// startPath (the first image when empty or absent). Only the most recent
// request is applied. The returned channel is closed when the request has
// been applied or discarded
func (s *Session) OpenFolder(ctx context.Context, folder, startPath string) <-chan struct{} {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	strategy := s.strategy
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		images := LoadImageEntries(ctx, s.fs, folder, strategy)
		if ctx.Err() != nil {
			s.log.WithField("folder", folder).Debug("Folder load cancelled")
			return
		}
		s.apply(gen, folder, startPath, images)
	}()
	return done
}

// OpenFolderSync loads folder on the calling goroutine. It returns the new
// viewer, or false when the session was closed or a newer request won
func (s *Session) OpenFolderSync(ctx context.Context, folder, startPath string) (*Viewer, bool) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	strategy := s.strategy
	s.mu.Unlock()

	images := LoadImageEntries(ctx, s.fs, folder, strategy)
	if ctx.Err() != nil {
		return nil, false
	}
	return s.apply(gen, folder, startPath, images)
}

func (s *Session) apply(gen uint64, folder, startPath string, images []ImageEntry) (*Viewer, bool) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		s.log.WithField("folder", folder).Debug("Discarding stale folder load")
		return nil, false
	}

	index := 0
	if startPath != "" {
		if i := IndexOfImage(images, startPath); i >= 0 {
			index = i
		}
	}

	// Display settings survive folder changes
	patch := PatchFrom(s.cfg.ViewerSettings())
	fullscreen := s.cfg.Fullscreen
	old := s.viewer
	if old != nil {
		patch = PatchFrom(old.Settings())
		fullscreen = old.IsFullscreen()
	}

	viewer := NewViewer(images, index, patch, ViewerOptions{
		Callbacks: s.cb.Viewer,
		Shortcuts: s.cfg.ShortcutTable(),
		Scheduler: s.sched,
		KeySource: s.source,
	})
	viewer.SetFullscreen(fullscreen)

	oldWatcher := s.watcher
	s.watcher = nil
	s.viewer = viewer
	s.folder = folder
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if oldWatcher != nil {
		oldWatcher.Close()
	}
	s.startWatcher(gen, folder)

	s.log.WithFields(logrus.Fields{"folder": folder, "images": len(images)}).Info("Opened folder")
	if s.cb.OnFolderOpened != nil {
		s.cb.OnFolderOpened(folder, viewer)
	}
	return viewer, true
}

func (s *Session) startWatcher(gen uint64, folder string) {
	if !s.cfg.WatchFolder || folder == "" || IsArchivePath(folder) {
		return
	}
	w, err := WatchFolder(folder, 0, func(string) { s.reload(gen, folder) })
	if err != nil {
		s.log.WithField("folder", folder).WithError(err).Warn("Failed to watch folder")
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		w.Close()
		return
	}
	s.watcher = w
	s.mu.Unlock()
}

// reload re-lists the current folder, keeping the displayed image
func (s *Session) reload(gen uint64, folder string) {
	s.mu.Lock()
	strategy := s.strategy
	s.mu.Unlock()

	images := LoadImageEntries(context.Background(), s.fs, folder, strategy)

	s.mu.Lock()
	if s.closed || gen != s.gen || s.viewer == nil {
		s.mu.Unlock()
		return
	}
	viewer := s.viewer
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"folder": folder, "images": len(images)}).Debug("Folder changed, reloaded")
	viewer.ReplaceImages(images)
}

// Siblings returns the folders next to the current one in natural order
func (s *Session) Siblings(ctx context.Context) []FolderEntry {
	folder := s.Folder()
	return ResolveSiblingEntries(ctx, folder, s.fs, func(a, b FolderEntry) int {
		return s.order.Compare(a.Name, b.Name)
	})
}

// NextFolder opens the sibling after the current folder. It returns false
// at the last sibling or when siblings cannot be resolved
func (s *Session) NextFolder(ctx context.Context) bool {
	return s.stepFolder(ctx, 1)
}

// PreviousFolder opens the sibling before the current folder
func (s *Session) PreviousFolder(ctx context.Context) bool {
	return s.stepFolder(ctx, -1)
}

func (s *Session) stepFolder(ctx context.Context, delta int) bool {
	siblings := s.Siblings(ctx)
	i := IndexOfFolder(siblings, s.Folder())
	if i < 0 {
		return false
	}
	target := i + delta
	if target < 0 || target >= len(siblings) {
		return false
	}
	_, ok := s.OpenFolderSync(ctx, siblings[target].Path, "")
	return ok
}

// CycleSortMethod switches to the next sort strategy and re-lists the
// current folder with it, keeping the displayed image. The folder is listed
// again because entry order cannot be recovered from a sorted list
func (s *Session) CycleSortMethod(ctx context.Context) SortStrategy {
	s.mu.Lock()
	next := NextSortStrategy(s.strategy.ID())
	if natural, ok := next.(*NaturalSortStrategy); ok {
		natural.Order = s.order
	}
	s.strategy = next
	viewer := s.viewer
	folder := s.folder
	s.mu.Unlock()

	if viewer != nil {
		viewer.ReplaceImages(LoadImageEntries(ctx, s.fs, folder, next))
	}
	s.log.WithField("sort", next.Name()).Info("Sort method changed")
	if s.cb.OnSortMethodChange != nil {
		s.cb.OnSortMethodChange(next)
	}
	return next
}

// Close stops the watcher and the viewer. Loads still in flight are
// discarded when they complete. It is safe to call more than once
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	viewer := s.viewer
	watcher := s.watcher
	s.viewer = nil
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		watcher.Close()
	}
	if viewer != nil {
		viewer.Close()
	}
	s.log.Debug("Session closed")
}
