// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-zen.
//
// go-zen is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-zen is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-zen.  If not, see <https://www.gnu.org/licenses/>.

// Package graphics decodes SNES color palettes and 4bpp planar tile graphics.
package graphics

import (
	"errors"
	"image/color"

	"github.com/nbarena/gbarom/bgr555"
)

var (
	// ErrPaletteSize indicates palette data that is not a whole number of sub-palettes.
	ErrPaletteSize = errors.New("palette data is not a multiple of the sub-palette size")

	// ErrImageSize indicates an image width that does not divide the pixel count.
	ErrImageSize = errors.New("pixel count is not a multiple of the image width")
)

// Rgb888 is a color with 8 bits per channel.
type Rgb888 struct {
	R, G, B uint8
}

// Bgr555 is the SNES wire color: red in bits 0-4, green in 5-9, blue in 10-14.
type Bgr555 uint16

// Rgb888 expands c to 8 bits per channel. Bit 15 is ignored.
func (c Bgr555) Rgb888() Rgb888 {
	r, g, b, _ := bgr555.ToRGBA(uint16(c & 0x7FFF)).RGBA()
	return Rgb888{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Bgr555 keeps the top five bits of each channel, which is the inverse of
// Rgb888 for every expanded color. The low three bits are lost.
func (c Rgb888) Bgr555() Bgr555 {
	return Bgr555(c.R>>3) | Bgr555(c.G>>3)<<5 | Bgr555(c.B>>3)<<10
}

// Quantize returns the closest color that survives a round trip through the ROM.
func (c Rgb888) Quantize() Rgb888 {
	return c.Bgr555().Rgb888()
}

// RGBA implements color.Color.
func (c Rgb888) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// IndexedColor selects color Index of sub-palette SubPalette.
type IndexedColor struct {
	SubPalette uint8
	Index      uint8
}
