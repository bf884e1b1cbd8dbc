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
	"bytes"
	"errors"
	"testing"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/compression"
	"github.com/ZaparooProject/go-zen/internal/binary"
	"github.com/ZaparooProject/go-zen/internal/testrom"
)

func loadFixture(t *testing.T) (*testrom.Fixture, *SuperMetroid) {
	t.Helper()
	f := testrom.New()
	sm, err := LoadUnheaderedROM(f.ROM)
	if err != nil {
		t.Fatalf("LoadUnheaderedROM() error = %v", err)
	}
	return f, sm
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()
	f, sm := loadFixture(t)

	if !sm.Loaded() {
		t.Fatal("Loaded() = false")
	}
	counts := []struct {
		name string
		got  int
		want int
	}{
		{"rooms", len(sm.Rooms), 2},
		{"states", len(sm.States), 3},
		{"tilesets", len(sm.Tilesets), 2},
		{"tileset table", len(sm.TilesetTable), testrom.TilesetCount},
		{"palettes", len(sm.Palettes), 2},
		{"graphics", len(sm.Graphics), 2},
		{"tile tables", len(sm.TileTables), 2},
		{"levels", len(sm.Levels), 2},
		{"doors", len(sm.Doors), 3},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("len(%s) = %d, want %d", c.name, c.got, c.want)
		}
	}

	if got := sm.Palettes[f.Palettes[1]].Serialize(); !bytes.Equal(got, testrom.Palette(1)) {
		t.Error("palette 1 does not match the fixture data")
	}
	if got := sm.Graphics[f.Graphics[0]].Serialize(); !bytes.Equal(got, testrom.Graphics(testrom.GfxTilesA, 0)) {
		t.Error("graphics 0 do not match the fixture data")
	}
	if got := sm.Levels[f.Levels[0]]; got.Width != 32 || got.Height != 16 || got.Layer2 == nil {
		t.Errorf("level 0 = %dx%d, layer 2 %v", got.Width, got.Height, got.Layer2 != nil)
	}
	if len(sm.CREGfx.Tiles) != testrom.CRETiles || len(sm.CRETileTable.Blocks) != testrom.CREBlocks {
		t.Errorf("CRE = %d tiles, %d blocks", len(sm.CREGfx.Tiles), len(sm.CRETileTable.Blocks))
	}

	room1 := sm.Rooms[testrom.Room1]
	if room1 == nil || len(room1.Conditions) != 2 || room1.Conditions[0].State != testrom.Room1EventState {
		t.Fatalf("room 1 = %+v", room1)
	}
	if def, _ := room1.DefaultState(); def != testrom.Room1DefaultState {
		t.Errorf("room 1 default state = %s", def)
	}
	if doors := sm.RoomDoors[testrom.Room2]; len(doors) != 2 || doors[1] != testrom.DoorElevator {
		t.Errorf("room 2 doors = %v", doors)
	}
	if r, ok := sm.RoomOf(testrom.Room2DefaultState); !ok || r != testrom.Room2 {
		t.Errorf("RoomOf() = %s, %v", r, ok)
	}
	if sm.Header.Title != "Super Metroid" {
		t.Errorf("Header.Title = %q", sm.Header.Title)
	}
}

func TestLoadDiscoversRoomsThroughDoors(t *testing.T) {
	t.Parallel()
	f := testrom.New()
	layout := DefaultLayout()
	layout.SeedRooms = []address.Address{testrom.Room1}

	sm, err := LoadUnheaderedROMWithLayout(f.ROM, layout)
	if err != nil {
		t.Fatalf("LoadUnheaderedROMWithLayout() error = %v", err)
	}
	if _, ok := sm.Rooms[testrom.Room2]; !ok {
		t.Error("room 2 was not reached through door A")
	}
}

func TestLoadCopiesInput(t *testing.T) {
	t.Parallel()
	f, sm := loadFixture(t)
	f.ROM[testrom.PC(testrom.Room1)+4] = 9
	if sm.Rooms[testrom.Room1].Width != 2 || sm.ROM()[testrom.PC(testrom.Room1)+4] != 2 {
		t.Error("aggregate shares the caller's buffer")
	}
}

func TestLoadErrors(t *testing.T) {
	put16 := func(b []byte, addr address.Address, v uint16) {
		pc := testrom.PC(addr)
		b[pc], b[pc+1] = byte(v), byte(v>>8)
	}

	tests := []struct {
		corrupt func(f *testrom.Fixture, b []byte) []byte
		err     error
		name    string
		entity  string
	}{
		{
			name:    "bad header",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte { b[testrom.HeaderOffset+0x1C]++; return b },
			err:     ErrInvalidHeader,
			entity:  "header",
		},
		{
			name: "tileset pointer below ROM",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte {
				put16(b, testrom.TilesetTable+4, 0x1234)
				return b
			},
			err:    ErrInvalidPointer,
			entity: "tileset",
		},
		{
			name: "palette past end of image",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte {
				pc := testrom.PC(testrom.TilesetA) + 6
				b[pc], b[pc+1], b[pc+2] = 0x00, 0x80, 0xFF
				return b
			},
			err:    binary.ErrOutOfBounds,
			entity: "palette",
		},
		{
			name: "truncated graphics stream",
			corrupt: func(f *testrom.Fixture, b []byte) []byte {
				return b[:testrom.PC(f.Graphics[0])+4]
			},
			err:    compression.ErrMalformedStream,
			entity: "graphics",
		},
		{
			name: "unknown state condition",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte {
				put16(b, testrom.Room1+11, 0xE700)
				return b
			},
			err:    ErrInvalidFormat,
			entity: "room",
		},
		{
			name: "tileset index out of range",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte {
				b[testrom.PC(testrom.Room2DefaultState)+3] = 40
				return b
			},
			err:    ErrInvalidPointer,
			entity: "state",
		},
		{
			name: "level size mismatch",
			corrupt: func(_ *testrom.Fixture, b []byte) []byte {
				b[testrom.PC(testrom.Room2)+4] = 2
				return b
			},
			err:    ErrInvalidFormat,
			entity: "level data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := testrom.New()
			rom := tt.corrupt(f, f.ROM)
			if len(rom) == testrom.Size && tt.err != ErrInvalidHeader {
				testrom.FixChecksum(rom)
			}

			sm, err := LoadUnheaderedROM(rom)
			if sm != nil {
				t.Error("LoadUnheaderedROM() returned an aggregate with an error")
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not a *LoadError", err)
			}
			if le.Entity != tt.entity {
				t.Errorf("Entity = %q, want %q", le.Entity, tt.entity)
			}
		})
	}
}

func TestTilesetSharing(t *testing.T) {
	t.Parallel()
	_, sm := loadFixture(t)

	s1, err := sm.GetStateData(testrom.Room1DefaultState)
	if err != nil {
		t.Fatalf("GetStateData(room 1) error = %v", err)
	}
	s2, err := sm.GetStateData(testrom.Room2DefaultState)
	if err != nil {
		t.Fatalf("GetStateData(room 2) error = %v", err)
	}
	if s1.Tileset != s2.Tileset {
		t.Fatal("rooms on tileset 0 resolve to different records")
	}

	// Index 2 shares record A with index 0.
	ts2, err := sm.Tileset(2)
	if err != nil || ts2 != s1.Tileset {
		t.Errorf("Tileset(2) = %p, %v, want record A", ts2, err)
	}

	s1.Tileset.Palette = sm.Tilesets[testrom.TilesetB].Palette
	again, err := sm.GetStateData(testrom.Room2DefaultState)
	if err != nil {
		t.Fatalf("GetStateData() error = %v", err)
	}
	if again.Palette != sm.Palettes[sm.Tilesets[testrom.TilesetB].Palette] {
		t.Error("room 2 does not observe the palette change made through room 1")
	}
}

func TestGetTilesetData(t *testing.T) {
	t.Parallel()
	f, sm := loadFixture(t)

	p, g, tt, err := sm.GetTilesetData(1)
	if err != nil {
		t.Fatalf("GetTilesetData(1) error = %v", err)
	}
	if p != sm.Palettes[f.Palettes[1]] || g != sm.Graphics[f.Graphics[1]] || tt != sm.TileTables[f.TileTables[1]] {
		t.Error("GetTilesetData(1) returned the wrong entities")
	}

	for _, idx := range []int{-1, testrom.TilesetCount} {
		if _, _, _, err := sm.GetTilesetData(idx); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetTilesetData(%d) error = %v, want ErrNotFound", idx, err)
		}
	}

	sm.Tilesets[testrom.TilesetB].Graphics = 0xC0FFEE
	if _, _, _, err := sm.GetTilesetData(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("dangling graphics error = %v, want ErrNotFound", err)
	}
	if _, err := sm.GetStateData(0x8F0000); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStateData(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestCREMerge(t *testing.T) {
	t.Parallel()
	f, sm := loadFixture(t)

	a, err := sm.GfxWithCRE(f.Graphics[0])
	if err != nil {
		t.Fatalf("GfxWithCRE() error = %v", err)
	}
	b, _ := sm.GfxWithCRE(f.Graphics[0])
	if !bytes.Equal(a.Serialize(), b.Serialize()) {
		t.Error("GfxWithCRE() is not deterministic")
	}
	if len(a.Tiles) != CREGfxTileOffset+testrom.CRETiles {
		t.Errorf("len(Tiles) = 0x%X", len(a.Tiles))
	}
	if a.Tiles[3] != sm.Graphics[f.Graphics[0]].Tiles[3] || a.Tiles[CREGfxTileOffset+1] != sm.CREGfx.Tiles[1] {
		t.Error("GfxWithCRE() placed tiles wrong")
	}
	a.Tiles[0][0] = 0xF
	if sm.Graphics[f.Graphics[0]].Tiles[0][0] == 0xF {
		t.Error("GfxWithCRE() shares storage with the source")
	}

	tt, err := sm.TileTableWithCRE(f.TileTables[0])
	if err != nil {
		t.Fatalf("TileTableWithCRE() error = %v", err)
	}
	if len(tt.Blocks) != CRETileTableBlocks+testrom.TileTableBlocks {
		t.Errorf("len(Blocks) = 0x%X", len(tt.Blocks))
	}
	if tt.Blocks[2] != sm.CRETileTable.Blocks[2] || tt.Blocks[CRETileTableBlocks] != sm.TileTables[f.TileTables[0]].Blocks[0] {
		t.Error("TileTableWithCRE() placed blocks wrong")
	}
	if tt.Blocks[testrom.CREBlocks] != (BlockTiles{}) {
		t.Error("CRE padding is not empty")
	}
	tt2, _ := sm.TileTableWithCRE(f.TileTables[0])
	if !bytes.Equal(tt.Serialize(), tt2.Serialize()) {
		t.Error("TileTableWithCRE() is not deterministic")
	}

	if _, err := sm.GfxWithCRE(0xC00000); !errors.Is(err, ErrNotFound) {
		t.Errorf("GfxWithCRE(unknown) error = %v", err)
	}
	if _, err := sm.TileTableWithCRE(0xC00000); !errors.Is(err, ErrNotFound) {
		t.Errorf("TileTableWithCRE(unknown) error = %v", err)
	}
}

func TestStateIndexedColors(t *testing.T) {
	t.Parallel()
	_, sm := loadFixture(t)

	colors, width, err := sm.StateIndexedColors(testrom.Room1DefaultState)
	if err != nil {
		t.Fatalf("StateIndexedColors() error = %v", err)
	}
	w, h := sm.Rooms[testrom.Room1].PixelSize()
	if width != w || len(colors) != w*h {
		t.Errorf("rendered %d pixels %d wide, want %dx%d", len(colors), width, w, h)
	}

	sheet, err := sm.TilesetIndexedColors(0, 16)
	if err != nil {
		t.Fatalf("TilesetIndexedColors() error = %v", err)
	}
	blocks := CRETileTableBlocks + testrom.TileTableBlocks
	if len(sheet) != blocks*BlockSize*BlockSize {
		t.Errorf("len(sheet) = %d", len(sheet))
	}
}
