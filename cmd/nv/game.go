package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nekomimist/nv"
)

// maxCacheSize is the number of decoded images kept on the GPU
const maxCacheSize = 4

// Game is the ebiten host around a viewer session
type Game struct {
	ctx        context.Context
	session    *nv.Session
	fs         *nv.LocalFileSystem
	config     nv.Config
	configPath string
	renderer   *Renderer
	fontSource *text.GoTextFaceSource

	imageCache *lru.Cache[string, *ebiten.Image]
	keyBuf     []ebiten.Key

	lastCursorX, lastCursorY int
	fullscreen               bool
	savedWinW, savedWinH     int
	status                   string
}

// NewGame creates the host. The session is attached with SetSession once it
// exists, since the session's callbacks refer back to the game
func NewGame(ctx context.Context, fs *nv.LocalFileSystem, config nv.Config, configPath string) (*Game, error) {
	cache, err := lru.NewWithEvict[string, *ebiten.Image](maxCacheSize, func(_ string, img *ebiten.Image) {
		img.Deallocate()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	fontSource, err := newFontSource()
	if err != nil {
		nv.Logger().WithError(err).Warn("Failed to load font, overlay text disabled")
	}

	return &Game{
		ctx:        ctx,
		fs:         fs,
		config:     config,
		configPath: configPath,
		renderer:   NewRenderer(fontSource),
		fontSource: fontSource,
		imageCache: cache,
	}, nil
}

// SetSession attaches the session the game drives
func (g *Game) SetSession(s *nv.Session) {
	g.session = s
}

// sessionCallbacks returns the hooks the game needs from the session
func (g *Game) sessionCallbacks() nv.SessionCallbacks {
	return nv.SessionCallbacks{
		OnFolderOpened: func(_ string, viewer *nv.Viewer) {
			g.updateTitle(viewer)
		},
		OnSortMethodChange: func(strategy nv.SortStrategy) {
			g.status = "Sort: " + strategy.Name()
			g.config.SortMethod = strategy.ID()
		},
		Viewer: nv.ViewerCallbacks{
			OnImageChange: func(int, nv.ImageEntry) {
				if viewer := g.viewer(); viewer != nil {
					g.updateTitle(viewer)
				}
			},
			OnFitModeChange: func(mode nv.FitMode) {
				g.status = "Fit: " + mode.String()
			},
		},
	}
}

func (g *Game) viewer() *nv.Viewer {
	if g.session == nil {
		return nil
	}
	return g.session.Viewer()
}

func (g *Game) updateTitle(viewer *nv.Viewer) {
	title := "nv"
	if img, ok := viewer.CurrentImage(); ok {
		title = fmt.Sprintf("nv - %s [%d/%d]", img.Name, viewer.CurrentIndex()+1, viewer.Len())
	}
	ebiten.SetWindowTitle(title)
}

// Update processes input for one frame
func (g *Game) Update() error {
	viewer := g.viewer()
	if viewer == nil {
		return nil
	}

	g.handleMouse(viewer)

	var events []*nv.KeyEvent
	events, g.keyBuf = pollKeyEvents(g.keyBuf)
	for _, ev := range events {
		g.session.Keys().Emit(ev)
		if ev.DefaultPrevented() {
			continue
		}
		if err := g.handleHostKey(ev); err != nil {
			return err
		}
	}

	// The session may have swapped viewers while handling keys
	if viewer = g.viewer(); viewer != nil {
		g.applyFullscreen(viewer.IsFullscreen())
	}
	return nil
}

// handleHostKey runs the keys the shortcut table did not claim
func (g *Game) handleHostKey(ev *nv.KeyEvent) error {
	if ev.Ctrl || ev.Alt || ev.Meta {
		return nil
	}
	switch ev.Key {
	case "Escape", "q":
		g.saveCurrentWindowSize()
		return ebiten.Termination
	case "[":
		if !g.session.PreviousFolder(g.ctx) {
			g.status = "No previous folder"
		}
	case "]":
		if !g.session.NextFolder(g.ctx) {
			g.status = "No next folder"
		}
	case "s":
		g.session.CycleSortMethod(g.ctx)
	case "t":
		g.cycleTheme()
	}
	return nil
}

func (g *Game) handleMouse(viewer *nv.Viewer) {
	x, y := ebiten.CursorPosition()
	moved := x != g.lastCursorX || y != g.lastCursorY
	g.lastCursorX, g.lastCursorY = x, y

	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	_, wheelY := ebiten.Wheel()
	switch {
	case wheelY > 0:
		viewer.Previous()
	case wheelY < 0:
		viewer.Next()
	}

	if moved || clicked || wheelY != 0 {
		viewer.Activity()
	}
}

func (g *Game) applyFullscreen(fullscreen bool) {
	if fullscreen == g.fullscreen {
		return
	}
	g.fullscreen = fullscreen
	if fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) cycleTheme() {
	themes := nv.ThemeFromContext(g.ctx)
	next := nv.ThemeDark
	switch g.theme() {
	case nv.ThemeDark:
		next = nv.ThemeLight
	case nv.ThemeLight:
		next = nv.ThemeDark
	}
	themes.Save(g.ctx, next)
	g.status = "Theme: " + string(next)
}

// theme returns the stored theme, or the configured one while the store
// says "system"
func (g *Game) theme() nv.Theme {
	theme := nv.ThemeFromContext(g.ctx).Current()
	if theme == nv.ThemeSystem {
		return g.config.Theme
	}
	return theme
}

// Draw renders the current image and overlay
func (g *Game) Draw(screen *ebiten.Image) {
	viewer := g.viewer()
	if viewer == nil {
		return
	}

	var img *ebiten.Image
	if entry, ok := viewer.CurrentImage(); ok {
		img = g.loadImage(entry)
	}
	g.renderer.Draw(screen, viewer, img, g.theme(), g.status)
}

// loadImage returns the decoded image, from the cache when possible. Decode
// failures produce an error placeholder, which is cached as well
func (g *Game) loadImage(entry nv.ImageEntry) *ebiten.Image {
	if img, ok := g.imageCache.Get(entry.ID); ok {
		return img
	}

	img, err := g.decode(entry)
	if err != nil {
		nv.Logger().WithFields(logrus.Fields{"image": entry.ID, "error": err}).Warn("Failed to load image")
		img = CreateErrorImage(g.fontSource, 400, 300, entry.Name, err.Error())
	}
	g.imageCache.Add(entry.ID, img)
	return img
}

func (g *Game) decode(entry nv.ImageEntry) (*ebiten.Image, error) {
	rc, err := g.fs.Open(g.ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", entry.Name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// Layout uses the window size as the screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// saveCurrentWindowSize persists the window size. Nothing is written when
// the config file was not loaded cleanly
func (g *Game) saveCurrentWindowSize() {
	if g.configPath == "" {
		return
	}
	if g.fullscreen {
		// Save the size from before fullscreen
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	if err := nv.SaveConfigToPath(g.config, g.configPath); err != nil {
		nv.Logger().WithError(err).Warn("Failed to save config")
	}
}
