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

import (
	"fmt"

	"github.com/ZaparooProject/go-zen/compression"
)

// Tile geometry.
const (
	GfxTileWidth  = 8
	GfxTileBytes  = 32
	gfxTilePixels = GfxTileWidth * GfxTileWidth
)

// Tile is an 8x8 block of 4-bit color indices, row-major.
type Tile [gfxTilePixels]uint8

// At returns the index at column x, row y.
func (t *Tile) At(x, y int) uint8 {
	return t[y*GfxTileWidth+x]
}

// Flipped returns t mirrored horizontally and/or vertically.
func (t *Tile) Flipped(h, v bool) Tile {
	var out Tile
	for y := range GfxTileWidth {
		sy := y
		if v {
			sy = GfxTileWidth - 1 - y
		}
		for x := range GfxTileWidth {
			sx := x
			if h {
				sx = GfxTileWidth - 1 - x
			}
			out[y*GfxTileWidth+x] = t.At(sx, sy)
		}
	}
	return out
}

// Gfx is a sequence of decoded tiles. Trailing holds bytes after the last whole tile.
type Gfx struct {
	Tiles    []Tile
	Trailing []byte
}

// ParseGraphics decompresses and decodes graphics stored in the ROM.
func ParseGraphics(compressed []byte) (*Gfx, error) {
	raw, err := compression.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress graphics: %w", err)
	}
	return ParseTiles(raw), nil
}

// ParseTiles decodes uncompressed 4bpp planar tile data.
func ParseTiles(raw []byte) *Gfx {
	n := len(raw) / GfxTileBytes
	g := &Gfx{Tiles: make([]Tile, n)}
	for i := range n {
		g.Tiles[i] = decodeTile(raw[i*GfxTileBytes : (i+1)*GfxTileBytes])
	}
	if rest := raw[n*GfxTileBytes:]; len(rest) > 0 {
		g.Trailing = append([]byte(nil), rest...)
	}
	return g
}

// Bit planes 0 and 1 are interleaved in bytes 0-15, planes 2 and 3 in bytes 16-31.
func decodeTile(b []byte) Tile {
	var t Tile
	for y := range GfxTileWidth {
		p0, p1 := b[2*y], b[2*y+1]
		p2, p3 := b[16+2*y], b[16+2*y+1]
		for x := range GfxTileWidth {
			bit := uint(7 - x)
			t[y*GfxTileWidth+x] = (p0>>bit)&1 | (p1>>bit)&1<<1 | (p2>>bit)&1<<2 | (p3>>bit)&1<<3
		}
	}
	return t
}

func encodeTile(t *Tile) []byte {
	b := make([]byte, GfxTileBytes)
	for y := range GfxTileWidth {
		for x := range GfxTileWidth {
			v := t.At(x, y)
			bit := byte(1) << uint(7-x)
			if v&1 != 0 {
				b[2*y] |= bit
			}
			if v&2 != 0 {
				b[2*y+1] |= bit
			}
			if v&4 != 0 {
				b[16+2*y] |= bit
			}
			if v&8 != 0 {
				b[16+2*y+1] |= bit
			}
		}
	}
	return b
}

// Serialize encodes the tiles back to 4bpp planar data. Only the low four bits
// of each index are stored.
func (g *Gfx) Serialize() []byte {
	out := make([]byte, 0, len(g.Tiles)*GfxTileBytes+len(g.Trailing))
	for i := range g.Tiles {
		out = append(out, encodeTile(&g.Tiles[i])...)
	}
	return append(out, g.Trailing...)
}

// Tile returns tile n, or false if the graphics hold fewer tiles.
func (g *Gfx) Tile(n int) (Tile, bool) {
	if n < 0 || n >= len(g.Tiles) {
		return Tile{}, false
	}
	return g.Tiles[n], true
}

// Clone returns a deep copy.
func (g *Gfx) Clone() *Gfx {
	c := &Gfx{Tiles: append([]Tile(nil), g.Tiles...)}
	if g.Trailing != nil {
		c.Trailing = append([]byte(nil), g.Trailing...)
	}
	return c
}

// IndexedColors lays the tiles out as a sheet tilesPerRow tiles wide, all drawn
// with one sub-palette.
func (g *Gfx) IndexedColors(subPalette uint8, tilesPerRow int) []IndexedColor {
	if tilesPerRow <= 0 || len(g.Tiles) == 0 {
		return nil
	}
	rows := (len(g.Tiles) + tilesPerRow - 1) / tilesPerRow
	width := tilesPerRow * GfxTileWidth
	out := make([]IndexedColor, width*rows*GfxTileWidth)
	for i := range g.Tiles {
		ox := (i % tilesPerRow) * GfxTileWidth
		oy := (i / tilesPerRow) * GfxTileWidth
		for y := range GfxTileWidth {
			for x := range GfxTileWidth {
				out[(oy+y)*width+ox+x] = IndexedColor{SubPalette: subPalette, Index: g.Tiles[i].At(x, y)}
			}
		}
	}
	return out
}
