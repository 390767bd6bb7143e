package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/nekomimist/nv"
)

// Common colors used in rendering
var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorGray  = color.RGBA{180, 180, 180, 255}
	colorBlack = color.RGBA{20, 20, 20, 255}

	// Semi-transparent overlay backgrounds
	bgColorDark  = color.RGBA{0, 0, 0, 180}
	bgColorLight = color.RGBA{255, 255, 255, 200}
)

const (
	overlayFontSize = 16.0
	overlayPadding  = 10.0
)

// overlayPalette returns the bar background, primary and secondary text
// colors for a theme
func overlayPalette(theme nv.Theme) (bg, fg, dim color.Color) {
	if theme == nv.ThemeLight {
		return bgColorLight, colorBlack, color.RGBA{90, 90, 90, 255}
	}
	return bgColorDark, colorWhite, colorGray
}

// backgroundColor parses a hex color, falling back to black
func backgroundColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// rotatedSize returns the image size after rotation
func rotatedSize(iw, ih, rotation int) (int, int) {
	if rotation == 90 || rotation == 270 {
		return ih, iw
	}
	return iw, ih
}

// fitScale returns the scale that fits an iw x ih image into sw x sh
func fitScale(mode nv.FitMode, iw, ih, sw, sh int) float64 {
	if iw <= 0 || ih <= 0 {
		return 1
	}
	wScale := float64(sw) / float64(iw)
	hScale := float64(sh) / float64(ih)
	switch mode {
	case nv.FitWidth:
		return wScale
	case nv.FitHeight:
		return hScale
	case nv.FitBoth:
		return math.Min(wScale, hScale)
	default:
		return 1
	}
}

// imageGeoM positions img centred on a sw x sh screen with the fit mode,
// zoom and rotation of settings applied
func imageGeoM(iw, ih, sw, sh int, settings nv.ViewerSettings) ebiten.GeoM {
	rotation := settings.NormalizedRotation()
	rw, rh := rotatedSize(iw, ih, rotation)
	scale := fitScale(settings.FitMode, rw, rh, sw, sh) * settings.Zoom

	var m ebiten.GeoM
	m.Translate(-float64(iw)/2, -float64(ih)/2)
	m.Rotate(float64(rotation) * math.Pi / 180)
	m.Scale(scale, scale)
	m.Translate(float64(sw)/2, float64(sh)/2)
	return m
}

// Renderer draws the current image and the controls overlay
type Renderer struct {
	fontSource *text.GoTextFaceSource
}

// NewRenderer creates a renderer. Without a font source the overlay is
// drawn without text
func NewRenderer(fontSource *text.GoTextFaceSource) *Renderer {
	return &Renderer{fontSource: fontSource}
}

// Draw renders one frame
func (r *Renderer) Draw(screen *ebiten.Image, state nv.ViewState, img *ebiten.Image, theme nv.Theme, status string) {
	settings := state.Settings()
	screen.Fill(backgroundColor(settings.BackgroundColor))

	if img != nil {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM = imageGeoM(img.Bounds().Dx(), img.Bounds().Dy(),
			screen.Bounds().Dx(), screen.Bounds().Dy(), settings)
		screen.DrawImage(img, op)
	}

	if state.ControlsVisible() {
		r.drawControls(screen, state, theme, status)
	}
}

func (r *Renderer) drawControls(screen *ebiten.Image, state nv.ViewState, theme nv.Theme, status string) {
	bg, fg, dim := overlayPalette(theme)
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())

	barHeight := overlayFontSize*2 + overlayPadding*3
	DrawFilledRect(screen, 0, h-barHeight, w, barHeight, bg)
	if r.fontSource == nil {
		return
	}

	font := &text.GoTextFace{Source: r.fontSource, Size: overlayFontSize}
	DrawText(screen, buildInfoLine(state), font, overlayPadding, h-barHeight+overlayPadding, fg)

	hint := "←/→ page  +/- zoom  r rotate  m fit  f fullscreen  [/] folder  c controls"
	if status != "" {
		hint = status + "  " + hint
	}
	DrawText(screen, hint, font, overlayPadding, h-barHeight+overlayPadding*2+overlayFontSize, dim)
}

// buildInfoLine renders "[3/10] name  120%  fit both  90°"
func buildInfoLine(state nv.ViewState) string {
	images := state.Images()
	if len(images) == 0 {
		return "No images"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d]", state.CurrentIndex()+1, len(images))
	if img, ok := state.CurrentImage(); ok {
		b.WriteString(" " + img.Name)
	}

	settings := state.Settings()
	fmt.Fprintf(&b, "  %d%%  fit %s", int(math.Round(settings.Zoom*100)), settings.FitMode)
	if rotation := settings.NormalizedRotation(); rotation != 0 {
		fmt.Fprintf(&b, "  %d°", rotation)
	}
	if state.IsFullscreen() {
		b.WriteString("  fullscreen")
	}
	return b.String()
}
