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

package graphics

import "fmt"

// Palette layout.
const (
	ColorsBySubPalette  = 16
	NumberOfSubPalettes = 8
	SubPaletteBytes     = ColorsBySubPalette * 2
	PaletteBytes        = NumberOfSubPalettes * SubPaletteBytes
)

// SubPalette is one 16-color row of a palette.
type SubPalette struct {
	Colors [ColorsBySubPalette]Rgb888
}

// Palette is an ordered list of sub-palettes, normally NumberOfSubPalettes long.
type Palette struct {
	SubPalettes []SubPalette
}

// ParsePalette decodes uncompressed BGR555 palette data.
func ParsePalette(b []byte) (*Palette, error) {
	if len(b)%SubPaletteBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPaletteSize, len(b))
	}

	p := &Palette{SubPalettes: make([]SubPalette, len(b)/SubPaletteBytes)}
	for i := range p.SubPalettes {
		for j := range ColorsBySubPalette {
			off := i*SubPaletteBytes + j*2
			p.SubPalettes[i].Colors[j] = Bgr555(uint16(b[off]) | uint16(b[off+1])<<8).Rgb888()
		}
	}
	return p, nil
}

// Serialize encodes the palette back to BGR555 bytes.
func (p *Palette) Serialize() []byte {
	out := make([]byte, 0, len(p.SubPalettes)*SubPaletteBytes)
	for _, sp := range p.SubPalettes {
		for _, c := range sp.Colors {
			v := c.Bgr555()
			out = append(out, byte(v), byte(v>>8))
		}
	}
	return out
}

// Color resolves an indexed color. Out of range references resolve to black.
func (p *Palette) Color(ic IndexedColor) Rgb888 {
	if int(ic.SubPalette) >= len(p.SubPalettes) || int(ic.Index) >= ColorsBySubPalette {
		return Rgb888{}
	}
	return p.SubPalettes[ic.SubPalette].Colors[ic.Index]
}

// SetColor replaces one color. It reports false when the reference is out of range.
func (p *Palette) SetColor(ic IndexedColor, c Rgb888) bool {
	if int(ic.SubPalette) >= len(p.SubPalettes) || int(ic.Index) >= ColorsBySubPalette {
		return false
	}
	p.SubPalettes[ic.SubPalette].Colors[ic.Index] = c
	return true
}

// Colors returns every color, row by row.
func (p *Palette) Colors() []Rgb888 {
	out := make([]Rgb888, 0, len(p.SubPalettes)*ColorsBySubPalette)
	for _, sp := range p.SubPalettes {
		out = append(out, sp.Colors[:]...)
	}
	return out
}

// Clone returns a deep copy.
func (p *Palette) Clone() *Palette {
	return &Palette{SubPalettes: append([]SubPalette(nil), p.SubPalettes...)}
}
