package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/atlaspack/internal/model"
)

var (
	pngBackground = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	pngOutline    = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	pngText       = color.RGBA{A: 255}
)

// RenderSheet draws a preview of one packed sheet at scale pixels per sheet
// pixel. Free regions are left as background.
func RenderSheet(sr model.SheetResult, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w := max(int(float64(sr.Sheet.Width)*scale), 1)
	h := max(int(float64(sr.Sheet.Height)*scale), 1)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pngBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for i, p := range sr.Placements {
		r := image.Rect(
			int(float64(p.Rect.Origin.X)*scale),
			int(float64(p.Rect.Origin.Y)*scale),
			int(float64(p.Rect.Right())*scale),
			int(float64(p.Rect.Bottom())*scale),
		)
		c := itemColors[i%len(itemColors)]
		draw.Draw(img, r, image.NewUniform(color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}), image.Point{}, draw.Src)
		strokeRect(img, r, pngOutline)

		label := fitLabel(face, p.Item.Label, r.Dx()-4)
		if label == "" || r.Dy() < face.Height+2 {
			continue
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(pngText),
			Face: face,
			Dot:  fixed.P(r.Min.X+2, r.Min.Y+face.Ascent+1),
		}
		d.DrawString(label)
	}
	return img
}

// fitLabel trims s until it renders within maxWidth pixels.
func fitLabel(face font.Face, s string, maxWidth int) string {
	for s != "" && font.MeasureString(face, s).Ceil() > maxWidth {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// ExportPNG writes one preview image per sheet. With a single sheet the
// image is written to path; otherwise files are numbered, e.g. atlas-1.png.
// It returns the paths written.
func ExportPNG(path string, result model.PackResult, scale float64) ([]string, error) {
	if len(result.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	var written []string
	for i, sr := range result.Sheets {
		out := path
		if len(result.Sheets) > 1 {
			out = numberedPath(path, i+1)
		}
		if err := writePNG(out, RenderSheet(sr, scale)); err != nil {
			return written, fmt.Errorf("sheet %d: %w", i+1, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func numberedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
