package main

import (
	"bytes"
	"image/color"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// newFontSource loads the bundled Go Regular face
func newFontSource() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

func drawBorder(img *ebiten.Image, width, height int, c color.Color) {
	DrawFilledRect(img, 0, 0, float64(width), 3, c)
	DrawFilledRect(img, 0, float64(height-3), float64(width), 3, c)
	DrawFilledRect(img, 0, 0, 3, float64(height), c)
	DrawFilledRect(img, float64(width-3), 0, 3, float64(height), c)
}

// CreateErrorImage creates a placeholder showing the image name and the
// reason it could not be decoded. Without a font only the frame is drawn
func CreateErrorImage(source *text.GoTextFaceSource, width, height int, name, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{120, 30, 30, 255})
	drawBorder(errorImg, width, height, colorWhite)
	if source == nil {
		return errorImg
	}

	errorFont := &text.GoTextFace{Source: source, Size: 20.0}

	fileText := truncate("File: "+path.Base(name), (width-20)/10)
	reasonText := truncate("Reason: "+errorMsg, (width-20)/10)

	DrawText(errorImg, "ERROR", errorFont, 10, 30, colorWhite)
	DrawText(errorImg, fileText, errorFont, 10, 60, colorWhite)
	DrawText(errorImg, reasonText, errorFont, 10, 90, colorWhite)
	return errorImg
}

// truncate shortens s to at most maxChars runes with an ellipsis
func truncate(s string, maxChars int) string {
	r := []rune(s)
	if maxChars < 4 || len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-3]) + "..."
}
