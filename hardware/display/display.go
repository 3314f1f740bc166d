// Package display drives the pod's framebuffer panel through a small
// surface API: character-cell text, filled rectangles, QR codes. Pixel
// layout beyond that is nobody else's business.
package display

import (
	"image"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/skip2/go-qrcode"

	"github.com/anelyubin/meteopod/hardware/display/framebuffer"
)

var (
	colorOff = color.RGBA{0, 0, 0, 0xff}
	colorOn  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

type Display struct {
	fb   *framebuffer.Framebuffer
	pix  []color.RGBA
	size image.Point
	tr   atomic.Value // charset.Translator
}

func NewFb(dev, codepage string) (*Display, error) {
	fb, err := framebuffer.New(dev)
	if err != nil {
		return nil, errors.Annotatef(err, "framebuffer device=%s", dev)
	}
	size := fb.Size()
	d := &Display{
		fb:   fb,
		pix:  newPix(size),
		size: size,
	}
	if codepage != "" {
		if err := d.SetCodepage(codepage); err != nil {
			fb.Close()
			return nil, errors.Trace(err)
		}
	}
	return d, nil
}

func NewMock(size image.Point) *Display {
	return &Display{
		pix:  newPix(size),
		size: size,
	}
}

// newPix allocates the surface pre-filled with colorOff, so untouched
// pixels equal cleared pixels.
func newPix(size image.Point) []color.RGBA {
	pix := make([]color.RGBA, size.X*size.Y)
	for i := range pix {
		pix[i] = colorOff
	}
	return pix
}

func (d *Display) SetCodepage(cp string) error {
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return errors.Annotatef(err, "codepage=%s", cp)
	}
	d.tr.Store(tr)
	return nil
}

func (d *Display) Size() image.Point { return d.size }

// TextSize is the surface in character cells.
func (d *Display) TextSize() image.Point {
	return image.Point{X: d.size.X / CellW, Y: d.size.Y / CellH}
}

func (d *Display) Clear() error {
	for i := range d.pix {
		d.pix[i] = colorOff
	}
	return d.Flush()
}

func (d *Display) Flush() error {
	if d.fb != nil {
		if err := d.fb.Update(d.pix); err != nil {
			return err
		}
		return d.fb.Flush()
	}
	return nil
}

// Fill sets the rectangle, in pixels, clipped to the surface.
func (d *Display) Fill(r image.Rectangle, on bool) {
	r = r.Intersect(image.Rectangle{Max: d.size})
	c := colorOff
	if on {
		c = colorOn
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.set(x, y, c)
		}
	}
}

// Text draws s at character cell (col,row). No wrapping, clipped at the
// right edge.
func (d *Display) Text(col, row int, s string) { d.text(col, row, s, false) }

// TextInvert draws s black-on-white, used for the highlighted cell.
func (d *Display) TextInvert(col, row int, s string) { d.text(col, row, s, true) }

func (d *Display) text(col, row int, s string, invert bool) {
	ts := d.TextSize()
	if row < 0 || row >= ts.Y {
		return
	}
	for _, b := range d.Translate(s) {
		if col >= ts.X {
			return
		}
		if col >= 0 {
			d.drawGlyph(col, row, b, invert)
		}
		col++
	}
}

// Translate converts UTF-8 to the configured single-byte codepage so
// column arithmetic matches what ends up on screen.
func (d *Display) Translate(s string) []byte {
	result := []byte(s)
	tr, ok := d.tr.Load().(charset.Translator)
	if ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			return result
		}
		// translator reuses single internal buffer, make a copy
		result = append([]byte(nil), tb...)
	}
	return result
}

func (d *Display) QR(text string, border bool, level qrcode.RecoveryLevel) error {
	qr, err := qrcode.New(text, level)
	if err != nil {
		return errors.Annotate(err, "QR")
	}
	qr.DisableBorder = !border
	minSize := minInt(d.size.X, d.size.Y)
	img := qr.Image(minSize).(*image.Paletted)
	if !img.Rect.In(image.Rectangle{Max: d.size}) {
		return errors.Errorf("QR image size=%s > display size=%s", img.Bounds().Max.String(), d.size.String())
	}
	d.paletted2(img)
	return d.Flush()
}

// String2 renders the buffer as text, two runes per pixel. Tests and the
// simulator look at this.
func (d *Display) String2() string {
	b := strings.Builder{}
	b.Grow((d.size.X*2 + 1) * d.size.Y)
	for y := 0; y < d.size.Y; y++ {
		for x := 0; x < d.size.X; x++ {
			c := d.get(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 {
				b.WriteString("  ")
			} else {
				b.WriteString("██")
			}
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (d *Display) drawGlyph(col, row int, b byte, invert bool) {
	g := glyph(b)
	x0 := col * CellW
	y0 := row * CellH
	for dx := 0; dx < CellW; dx++ {
		var bits byte
		if dx < len(g) {
			bits = g[dx]
		}
		for dy := 0; dy < CellH; dy++ {
			on := dy < 7 && bits&(1<<uint(dy)) != 0
			if invert {
				on = !on
			}
			c := colorOff
			if on {
				c = colorOn
			}
			d.set(x0+dx, y0+dy, c)
		}
	}
}

func (d *Display) paletted2(img *image.Paletted) {
	min, max := img.Bounds().Min, img.Bounds().Max
	bg := toRGBA(img.Palette[0])
	fg := toRGBA(img.Palette[1])
	for y := min.Y; y < max.Y; y++ {
		for x := min.X; x < max.X; x++ {
			palidx := img.Pix[img.PixOffset(x, y)]
			c := bg
			if palidx != 0 {
				c = fg
			}
			d.set(x, y, c)
		}
	}
}

func (d *Display) get(x, y int) color.RGBA    { return d.pix[y*d.size.X+x] }
func (d *Display) set(x, y int, c color.RGBA) { d.pix[y*d.size.X+x] = c }

func minInt(i1, i2 int) int {
	if i1 <= i2 {
		return i1
	}
	return i2
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}
}
