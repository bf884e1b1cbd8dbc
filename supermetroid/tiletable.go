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

package supermetroid

import (
	"fmt"

	"github.com/ZaparooProject/go-zen/graphics"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// BlockSize is the edge of a block in pixels.
const BlockSize = 16

// Tile table geometry.
const (
	TilesPerBlock  = 4
	BlockTileBytes = TilesPerBlock * 2
)

// TileRef is one tile table word: tile number in bits 0-9, sub-palette in
// 10-12, priority in 13, horizontal flip in 14 and vertical flip in 15.
type TileRef uint16

// NewTileRef packs a tile table word.
func NewTileRef(tile uint16, subPalette uint8, priority, hflip, vflip bool) TileRef {
	r := TileRef(tile&0x3FF) | TileRef(subPalette&7)<<10
	if priority {
		r |= 1 << 13
	}
	if hflip {
		r |= 1 << 14
	}
	if vflip {
		r |= 1 << 15
	}
	return r
}

func (r TileRef) Tile() uint16      { return uint16(r) & 0x3FF }
func (r TileRef) SubPalette() uint8 { return uint8(r>>10) & 7 }
func (r TileRef) Priority() bool    { return r&(1<<13) != 0 }
func (r TileRef) HFlip() bool       { return r&(1<<14) != 0 }
func (r TileRef) VFlip() bool       { return r&(1<<15) != 0 }

// BlockTiles holds the top-left, top-right, bottom-left and bottom-right tiles of a block.
type BlockTiles [TilesPerBlock]TileRef

// TileTable maps block numbers to their four tiles.
type TileTable struct {
	Blocks []BlockTiles
}

// ParseTileTable decodes uncompressed tile table data.
func ParseTileTable(raw []byte) (*TileTable, error) {
	if len(raw)%BlockTileBytes != 0 {
		return nil, fmt.Errorf("%w: tile table of %d bytes", ErrInvalidFormat, len(raw))
	}
	r := binary.NewReader(raw)
	tt := &TileTable{Blocks: make([]BlockTiles, len(raw)/BlockTileBytes)}
	for i := range tt.Blocks {
		for q := range TilesPerBlock {
			v, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			tt.Blocks[i][q] = TileRef(v)
		}
	}
	return tt, nil
}

// Serialize encodes the table back to raw bytes.
func (tt *TileTable) Serialize() []byte {
	out := make([]byte, 0, len(tt.Blocks)*BlockTileBytes)
	for _, b := range tt.Blocks {
		for _, ref := range b {
			out = binary.AppendUint16(out, uint16(ref))
		}
	}
	return out
}

// Clone returns a deep copy.
func (tt *TileTable) Clone() *TileTable {
	return &TileTable{Blocks: append([]BlockTiles(nil), tt.Blocks...)}
}

// Block returns block n, or false past the end of the table.
func (tt *TileTable) Block(n int) (BlockTiles, bool) {
	if n < 0 || n >= len(tt.Blocks) {
		return BlockTiles{}, false
	}
	return tt.Blocks[n], true
}

// IndexedColors renders every block in table order onto a sheet blocksPerRow
// blocks wide. Tiles missing from gfx render as color 0.
func (tt *TileTable) IndexedColors(gfx *graphics.Gfx, blocksPerRow int) []graphics.IndexedColor {
	if blocksPerRow <= 0 || len(tt.Blocks) == 0 {
		return nil
	}
	rows := (len(tt.Blocks) + blocksPerRow - 1) / blocksPerRow
	width := blocksPerRow * BlockSize
	out := make([]graphics.IndexedColor, width*rows*BlockSize)
	for i, b := range tt.Blocks {
		drawBlock(out, width, (i%blocksPerRow)*BlockSize, (i/blocksPerRow)*BlockSize, b, gfx, false, false)
	}
	return out
}

// drawBlock paints one block at (x0, y0) of a buffer width pixels wide. The
// block level flips mirror the quadrant order as well as each tile.
func drawBlock(out []graphics.IndexedColor, width, x0, y0 int, b BlockTiles, gfx *graphics.Gfx, hflip, vflip bool) {
	const tw = graphics.GfxTileWidth
	for q, ref := range b {
		qx, qy := q%2, q/2
		if hflip {
			qx = 1 - qx
		}
		if vflip {
			qy = 1 - qy
		}

		var tile graphics.Tile
		if gfx != nil {
			tile, _ = gfx.Tile(int(ref.Tile()))
		}
		tile = tile.Flipped(ref.HFlip() != hflip, ref.VFlip() != vflip)

		sp := ref.SubPalette()
		for y := range tw {
			row := (y0+qy*tw+y)*width + x0 + qx*tw
			for x := range tw {
				out[row+x] = graphics.IndexedColor{SubPalette: sp, Index: tile.At(x, y)}
			}
		}
	}
}
