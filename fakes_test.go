package nv

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var errFake = errors.New("fake failure")

// fakeFS is an in-memory FileSystemService. Paths use forward slashes
type fakeFS struct {
	mu       sync.Mutex
	images   map[string][]string // folder -> image paths
	siblings map[string][]string // folder -> sibling folder paths
	listErr  map[string]error
	baseErr  map[string]error

	// block, when set, is waited on by ListImagesInFolder
	block chan struct{}

	siblingCalls atomic.Int32
	baseCalls    atomic.Int32
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		images:   map[string][]string{},
		siblings: map[string][]string{},
		listErr:  map[string]error{},
		baseErr:  map[string]error{},
	}
}

func (f *fakeFS) ListImagesInFolder(ctx context.Context, folder string) ([]string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[folder]; err != nil {
		return nil, err
	}
	return append([]string{}, f.images[folder]...), nil
}

func (f *fakeFS) ListSiblingFolderPaths(ctx context.Context, folder string) ([]string, error) {
	f.siblingCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr["siblings:"+folder]; err != nil {
		return nil, err
	}
	return append([]string{}, f.siblings[folder]...), nil
}

func (f *fakeFS) BaseName(ctx context.Context, p string) (string, error) {
	f.baseCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.baseErr[p]; err != nil {
		return "", err
	}
	return path.Base(p), nil
}

func (f *fakeFS) DirName(ctx context.Context, p string) (string, error) {
	return path.Dir(p), nil
}

func (f *fakeFS) ResolveDisplayURL(p string) string {
	return "asset://" + p
}

func (f *fakeFS) OpenDirectoryDialog(ctx context.Context) (string, error) {
	return "", ErrDialogUnavailable
}

func (f *fakeFS) OpenImageFileDialog(ctx context.Context, extensions []string) (string, error) {
	return "", ErrDialogUnavailable
}

var _ FileSystemService = (*fakeFS)(nil)

// fakeScheduler runs AfterFunc callbacks when virtual time is advanced past
// their deadline
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now.Add(d), f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Pending returns the number of timers that have neither fired nor stopped
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward, firing due timers in deadline order
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*fakeTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}
