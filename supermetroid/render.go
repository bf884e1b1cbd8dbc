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

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/graphics"
)

// VRAM arrangement of the common room elements.
const (
	// CREGfxTileOffset is the first tile the CRE graphics occupy.
	CREGfxTileOffset = 0x280

	// CRETileTableBlocks is the number of block numbers reserved for CRE blocks.
	CRETileTableBlocks = 0x100
)

// StateData joins a state to everything needed to draw it.
type StateData struct {
	Level     *LevelData
	Room      *Room
	Tileset   *Tileset
	Palette   *graphics.Palette
	Gfx       *graphics.Gfx
	TileTable *TileTable
}

// Tileset returns the tileset record for a tileset index.
func (sm *SuperMetroid) Tileset(index int) (*Tileset, error) {
	if index < 0 || index >= len(sm.TilesetTable) {
		return nil, fmt.Errorf("%w: tileset index %d", ErrNotFound, index)
	}
	addr := sm.TilesetTable[index]
	ts, ok := sm.Tilesets[addr]
	if !ok {
		return nil, fmt.Errorf("%w: tileset %s", ErrNotFound, addr)
	}
	return ts, nil
}

// GetTilesetData resolves the palette, graphics and tile table of a tileset index.
func (sm *SuperMetroid) GetTilesetData(index int) (*graphics.Palette, *graphics.Gfx, *TileTable, error) {
	ts, err := sm.Tileset(index)
	if err != nil {
		return nil, nil, nil, err
	}
	return sm.resolve(ts)
}

func (sm *SuperMetroid) resolve(ts *Tileset) (*graphics.Palette, *graphics.Gfx, *TileTable, error) {
	p, ok := sm.Palettes[ts.Palette]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: palette %s", ErrNotFound, ts.Palette)
	}
	g, ok := sm.Graphics[ts.Graphics]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: graphics %s", ErrNotFound, ts.Graphics)
	}
	tt, ok := sm.TileTables[ts.TileTable]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: tile table %s", ErrNotFound, ts.TileTable)
	}
	return p, g, tt, nil
}

// GetStateData resolves a state's level, room and tileset data.
func (sm *SuperMetroid) GetStateData(stateAddr address.Address) (StateData, error) {
	s, ok := sm.States[stateAddr]
	if !ok {
		return StateData{}, fmt.Errorf("%w: state %s", ErrNotFound, stateAddr)
	}
	roomAddr, ok := sm.stateRoom[stateAddr]
	if !ok {
		return StateData{}, fmt.Errorf("%w: room of state %s", ErrNotFound, stateAddr)
	}
	room, ok := sm.Rooms[roomAddr]
	if !ok {
		return StateData{}, fmt.Errorf("%w: room %s", ErrNotFound, roomAddr)
	}
	level, ok := sm.Levels[s.LevelData]
	if !ok {
		return StateData{}, fmt.Errorf("%w: level data %s", ErrNotFound, s.LevelData)
	}
	ts, err := sm.Tileset(int(s.Tileset))
	if err != nil {
		return StateData{}, err
	}
	p, g, tt, err := sm.resolve(ts)
	if err != nil {
		return StateData{}, err
	}
	return StateData{Level: level, Room: room, Tileset: ts, Palette: p, Gfx: g, TileTable: tt}, nil
}

// GfxWithCRE returns the graphics at graphicAddr with the CRE tiles laid over
// them from CREGfxTileOffset, as they sit in VRAM. The result is a fresh copy.
func (sm *SuperMetroid) GfxWithCRE(graphicAddr address.Address) (*graphics.Gfx, error) {
	g, ok := sm.Graphics[graphicAddr]
	if !ok {
		return nil, fmt.Errorf("%w: graphics %s", ErrNotFound, graphicAddr)
	}
	n := len(g.Tiles)
	if sm.CREGfx != nil {
		n = max(n, CREGfxTileOffset+len(sm.CREGfx.Tiles))
	}
	out := &graphics.Gfx{Tiles: make([]graphics.Tile, n)}
	copy(out.Tiles, g.Tiles)
	if sm.CREGfx != nil {
		copy(out.Tiles[CREGfxTileOffset:], sm.CREGfx.Tiles)
	}
	return out, nil
}

// TileTableWithCRE returns the CRE blocks, padded to CRETileTableBlocks, followed
// by the table at tileTableAddr. The result is a fresh copy.
func (sm *SuperMetroid) TileTableWithCRE(tileTableAddr address.Address) (*TileTable, error) {
	tt, ok := sm.TileTables[tileTableAddr]
	if !ok {
		return nil, fmt.Errorf("%w: tile table %s", ErrNotFound, tileTableAddr)
	}
	out := &TileTable{Blocks: make([]BlockTiles, CRETileTableBlocks, CRETileTableBlocks+len(tt.Blocks))}
	if sm.CRETileTable != nil {
		copy(out.Blocks, sm.CRETileTable.Blocks)
	}
	out.Blocks = append(out.Blocks, tt.Blocks...)
	return out, nil
}

// TilesetIndexedColors renders every block of a tileset, CRE blocks included,
// blocksPerRow blocks wide.
func (sm *SuperMetroid) TilesetIndexedColors(index, blocksPerRow int) ([]graphics.IndexedColor, error) {
	ts, err := sm.Tileset(index)
	if err != nil {
		return nil, err
	}
	gfx, err := sm.GfxWithCRE(ts.Graphics)
	if err != nil {
		return nil, err
	}
	tt, err := sm.TileTableWithCRE(ts.TileTable)
	if err != nil {
		return nil, err
	}
	return tt.IndexedColors(gfx, blocksPerRow), nil
}

// StateIndexedColors renders layer 1 of a state. It returns the pixels and the
// image width.
func (sm *SuperMetroid) StateIndexedColors(stateAddr address.Address) ([]graphics.IndexedColor, int, error) {
	data, err := sm.GetStateData(stateAddr)
	if err != nil {
		return nil, 0, err
	}
	gfx, err := sm.GfxWithCRE(data.Tileset.Graphics)
	if err != nil {
		return nil, 0, err
	}
	tt, err := sm.TileTableWithCRE(data.Tileset.TileTable)
	if err != nil {
		return nil, 0, err
	}
	width := data.Level.Width * BlockSize
	return data.Level.IndexedColors(tt, gfx), width, nil
}

// IndexedColors renders layer 1 through a tile table. Block numbers past the
// end of the table render as color 0.
func (ld *LevelData) IndexedColors(tt *TileTable, gfx *graphics.Gfx) []graphics.IndexedColor {
	width := ld.Width * BlockSize
	out := make([]graphics.IndexedColor, width*ld.Height*BlockSize)
	for i, b := range ld.Layer1 {
		bt, ok := tt.Block(int(b.Number()))
		if !ok {
			continue
		}
		drawBlock(out, width, (i%ld.Width)*BlockSize, (i/ld.Width)*BlockSize, bt, gfx, b.HFlip(), b.VFlip())
	}
	return out
}
