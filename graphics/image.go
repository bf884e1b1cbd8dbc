package graphics

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Image resolves indexed colors through the palette into an RGBA image of the given width.
func (p *Palette) Image(colors []IndexedColor, width int) (*image.RGBA, error) {
	if width <= 0 || len(colors)%width != 0 {
		return nil, fmt.Errorf("%w: %d pixels, width %d", ErrImageSize, len(colors), width)
	}
	height := len(colors) / width
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, ic := range colors {
		c := p.Color(ic)
		off := img.PixOffset(i%width, i/width)
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 0xFF
	}
	return img, nil
}

// Swatches draws the palette itself, one cell per color, one row per sub-palette.
func (p *Palette) Swatches() *image.RGBA {
	colors := make([]IndexedColor, 0, len(p.SubPalettes)*ColorsBySubPalette)
	for sp := range p.SubPalettes {
		for i := range ColorsBySubPalette {
			colors = append(colors, IndexedColor{SubPalette: uint8(sp), Index: uint8(i)})
		}
	}
	if len(colors) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	img, _ := p.Image(colors, ColorsBySubPalette)
	return img
}

// Scale enlarges src by an integer factor with nearest-neighbour sampling.
func Scale(src image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
