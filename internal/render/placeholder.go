package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderBg   = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	placeholderText = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// Placeholder writes a blank PNG with a centered caption. Views with nothing
// to draw use it instead of failing.
func Placeholder(w io.Writer, width, height int, caption string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBg), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(placeholderText), Face: face}
	tw := dr.MeasureString(caption).Ceil()
	x := (width - tw) / 2
	if x < 0 {
		x = 0
	}
	y := height/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(caption)

	return png.Encode(w, img)
}
