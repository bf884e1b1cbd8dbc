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

	"github.com/ZaparooProject/go-zen/internal/binary"
)

// BlockType is the collision type in the top four bits of a layer 1 block.
type BlockType uint8

// Block types.
const (
	Air BlockType = iota
	Slope
	SpikeAir
	Treadmill
	ShootableAir
	HorizontalExtension
	UnusedAir
	BombableAir
	Solid
	DoorBlock
	Spike
	Crumble
	Shot
	VerticalExtension
	Grapple
	Bomb
)

var blockTypeNames = [...]string{
	"air", "slope", "spike air", "treadmill", "shootable air", "horizontal extension",
	"unused air", "bombable air", "solid", "door", "spike", "crumble", "shot",
	"vertical extension", "grapple", "bomb",
}

func (t BlockType) String() string {
	if int(t) < len(blockTypeNames) {
		return blockTypeNames[t]
	}
	return fmt.Sprintf("BlockType(%d)", uint8(t))
}

// Block is a layer word: block number in bits 0-9, horizontal flip in 10,
// vertical flip in 11 and the block type in 12-15.
type Block uint16

// NewBlock packs a layer word.
func NewBlock(number uint16, typ BlockType, hflip, vflip bool) Block {
	b := Block(number&0x3FF) | Block(typ&0xF)<<12
	if hflip {
		b |= 1 << 10
	}
	if vflip {
		b |= 1 << 11
	}
	return b
}

func (b Block) Number() uint16  { return uint16(b) & 0x3FF }
func (b Block) HFlip() bool     { return b&(1<<10) != 0 }
func (b Block) VFlip() bool     { return b&(1<<11) != 0 }
func (b Block) Type() BlockType { return BlockType(b >> 12) }

// BtsBlock is the per-block behaviour byte. For slopes, bits 0-4 select the
// shape, bit 6 flips it horizontally and bit 7 vertically.
type BtsBlock uint8

// Slope orientation bits.
const (
	BtsHFlip BtsBlock = 0b01_0_00000
	BtsVFlip BtsBlock = 0b10_0_00000
)

func (b BtsBlock) Shape() uint8 { return uint8(b) & 0x1F }
func (b BtsBlock) HFlip() bool  { return b&BtsHFlip != 0 }
func (b BtsBlock) VFlip() bool  { return b&BtsVFlip != 0 }

// Mirrored returns the slope byte flipped along the requested axes.
func (b BtsBlock) Mirrored(h, v bool) BtsBlock {
	if h {
		b ^= BtsHFlip
	}
	if v {
		b ^= BtsVFlip
	}
	return b
}

// Cell is the layer 1 block and BTS byte at one position.
type Cell struct {
	Block Block
	Bts   BtsBlock
}

// Rect is a rectangle of blocks.
type Rect struct {
	X, Y, W, H int
}

// Selection is a rectangle of cells copied out of a level, row-major.
type Selection struct {
	Cells []Cell
	W, H  int
}

// LevelData is the decompressed block data of a room. Width and Height are in blocks.
type LevelData struct {
	Layer1   []Block
	Bts      []BtsBlock
	Layer2   []Block
	Trailing []byte
	Width    int
	Height   int
}

// ParseLevelData decodes decompressed level data for a room of the given size
// in screens.
func ParseLevelData(raw []byte, width, height int) (*LevelData, error) {
	w, h := width*BlocksPerScreen, height*BlocksPerScreen
	blocks := w * h
	if blocks == 0 {
		return nil, fmt.Errorf("%w: level of %dx%d screens", ErrInvalidFormat, width, height)
	}

	r := binary.NewReader(raw)
	size, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(size) != 2*blocks {
		return nil, fmt.Errorf("%w: layer 1 is %d bytes, want %d for %dx%d screens",
			ErrInvalidFormat, size, 2*blocks, width, height)
	}

	ld := &LevelData{Width: w, Height: h}
	if ld.Layer1, err = readLayer(r, blocks); err != nil {
		return nil, err
	}
	bts, err := r.ReadBytes(blocks)
	if err != nil {
		return nil, err
	}
	ld.Bts = make([]BtsBlock, blocks)
	for i, v := range bts {
		ld.Bts[i] = BtsBlock(v)
	}
	if r.Remaining() >= 2*blocks {
		if ld.Layer2, err = readLayer(r, blocks); err != nil {
			return nil, err
		}
	}
	if r.Remaining() > 0 {
		rest, _ := r.ReadBytes(r.Remaining())
		ld.Trailing = append([]byte(nil), rest...)
	}
	return ld, nil
}

func readLayer(r *binary.Reader, n int) ([]Block, error) {
	out := make([]Block, n)
	for i := range out {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		out[i] = Block(v)
	}
	return out, nil
}

// Serialize encodes the level data uncompressed.
func (ld *LevelData) Serialize() []byte {
	n := len(ld.Layer1)
	out := make([]byte, 0, 2+5*n+len(ld.Trailing))
	out = binary.AppendUint16(out, uint16(2*n))
	for _, b := range ld.Layer1 {
		out = binary.AppendUint16(out, uint16(b))
	}
	for _, b := range ld.Bts {
		out = append(out, byte(b))
	}
	for _, b := range ld.Layer2 {
		out = binary.AppendUint16(out, uint16(b))
	}
	return append(out, ld.Trailing...)
}

// Clone returns a deep copy.
func (ld *LevelData) Clone() *LevelData {
	c := *ld
	c.Layer1 = append([]Block(nil), ld.Layer1...)
	c.Bts = append([]BtsBlock(nil), ld.Bts...)
	if ld.Layer2 != nil {
		c.Layer2 = append([]Block(nil), ld.Layer2...)
	}
	if ld.Trailing != nil {
		c.Trailing = append([]byte(nil), ld.Trailing...)
	}
	return &c
}

func (ld *LevelData) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < ld.Width && y < ld.Height
}

// At returns the cell at block (x, y).
func (ld *LevelData) At(x, y int) (Cell, bool) {
	if !ld.contains(x, y) {
		return Cell{}, false
	}
	i := y*ld.Width + x
	return Cell{Block: ld.Layer1[i], Bts: ld.Bts[i]}, true
}

// Set replaces the cell at block (x, y) and reports whether it was in range.
func (ld *LevelData) Set(x, y int, c Cell) bool {
	if !ld.contains(x, y) {
		return false
	}
	i := y*ld.Width + x
	ld.Layer1[i], ld.Bts[i] = c.Block, c.Bts
	return true
}

// Extract copies the cells inside rect.
func (ld *LevelData) Extract(rect Rect) (Selection, error) {
	if rect.W <= 0 || rect.H <= 0 || !ld.contains(rect.X, rect.Y) || !ld.contains(rect.X+rect.W-1, rect.Y+rect.H-1) {
		return Selection{}, fmt.Errorf("%w: selection %+v outside %dx%d level",
			binary.ErrOutOfBounds, rect, ld.Width, ld.Height)
	}
	sel := Selection{W: rect.W, H: rect.H, Cells: make([]Cell, 0, rect.W*rect.H)}
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			c, _ := ld.At(x, y)
			sel.Cells = append(sel.Cells, c)
		}
	}
	return sel, nil
}

// Apply pastes sel with its top-left corner at block (x, y). Cells that fall
// outside the level are dropped. It returns the number of cells written.
func (ld *LevelData) Apply(x, y int, sel Selection) int {
	n := 0
	for i, c := range sel.Cells {
		if sel.W <= 0 {
			break
		}
		if ld.Set(x+i%sel.W, y+i/sel.W, c) {
			n++
		}
	}
	return n
}

// Mirrored returns sel flipped along the requested axes, with every block's
// flip bits and every slope's orientation toggled to match.
func (sel Selection) Mirrored(h, v bool) Selection {
	out := Selection{W: sel.W, H: sel.H, Cells: make([]Cell, len(sel.Cells))}
	if sel.W <= 0 || len(sel.Cells) != sel.W*sel.H {
		copy(out.Cells, sel.Cells)
		return out
	}
	for i, c := range sel.Cells {
		x, y := i%sel.W, i/sel.W
		if h {
			x = sel.W - 1 - x
			c.Block ^= 1 << 10
		}
		if v {
			y = sel.H - 1 - y
			c.Block ^= 1 << 11
		}
		if c.Block.Type() == Slope {
			c.Bts = c.Bts.Mirrored(h, v)
		}
		out.Cells[y*sel.W+x] = c
	}
	return out
}
