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

// Package supermetroid loads the rooms, states, tilesets and compressed
// assets of an unheadered Super Metroid ROM into address-keyed maps and writes
// edits back to the image.
package supermetroid

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/compression"
	"github.com/ZaparooProject/go-zen/graphics"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// kind identifies the family of a compressed entity.
type kind uint8

const (
	kindPalette kind = iota
	kindGraphics
	kindTileTable
	kindLevel
	kindCREGfx
	kindCRETileTable
)

var kindNames = [...]string{"palette", "graphics", "tile table", "level data", "CRE graphics", "CRE tile table"}

func (k kind) String() string { return kindNames[k] }

type entityKey struct {
	addr address.Address
	kind kind
}

// origin is where a compressed entity lives and the bytes it decompressed to.
type origin struct {
	raw  []byte
	pc   int
	size int
}

// SuperMetroid is a loaded ROM image. Entities are keyed by the address they
// were read from and reference each other by address only.
type SuperMetroid struct {
	Rooms      map[address.Address]*Room
	States     map[address.Address]*State
	Tilesets   map[address.Address]*Tileset
	TileTables map[address.Address]*TileTable
	Graphics   map[address.Address]*graphics.Gfx
	Palettes   map[address.Address]*graphics.Palette
	Levels     map[address.Address]*LevelData
	Doors      map[address.Address]*Door

	// RoomDoors lists the door records of each room in door list order.
	RoomDoors map[address.Address][]address.Address

	CREGfx       *graphics.Gfx
	CRETileTable *TileTable

	// TilesetTable maps a tileset index to its record address.
	TilesetTable []address.Address

	origins   map[entityKey]origin
	roomSizes map[address.Address]int
	stateRoom map[address.Address]address.Address
	rom       []byte
	vacated   []Region

	Header Header
	Layout Layout
	loaded bool
}

// New returns an unloaded aggregate with empty maps.
func New() *SuperMetroid {
	return newAggregate(DefaultLayout())
}

func newAggregate(layout Layout) *SuperMetroid {
	return &SuperMetroid{
		Layout:     layout,
		Rooms:      make(map[address.Address]*Room),
		States:     make(map[address.Address]*State),
		Tilesets:   make(map[address.Address]*Tileset),
		TileTables: make(map[address.Address]*TileTable),
		Graphics:   make(map[address.Address]*graphics.Gfx),
		Palettes:   make(map[address.Address]*graphics.Palette),
		Levels:     make(map[address.Address]*LevelData),
		Doors:      make(map[address.Address]*Door),
		RoomDoors:  make(map[address.Address][]address.Address),
		origins:    make(map[entityKey]origin),
		roomSizes:  make(map[address.Address]int),
		stateRoom:  make(map[address.Address]address.Address),
	}
}

// Loaded reports whether the aggregate holds a successfully loaded image.
func (sm *SuperMetroid) Loaded() bool { return sm.loaded }

// ROM returns a copy of the current image, including any saved edits.
func (sm *SuperMetroid) ROM() []byte {
	return slices.Clone(sm.rom)
}

// RoomOf returns the room a state was loaded from.
func (sm *SuperMetroid) RoomOf(state address.Address) (address.Address, bool) {
	r, ok := sm.stateRoom[state]
	return r, ok
}

// LoadUnheaderedROM loads an image with the default layout. Copier headers
// must already be stripped.
func LoadUnheaderedROM(rom []byte) (*SuperMetroid, error) {
	return LoadUnheaderedROMWithLayout(rom, DefaultLayout())
}

// LoadUnheaderedROMWithLayout validates the header, then parses the tileset
// table, the CRE data and every room reachable from the seed rooms through
// door lists. Entities shared between rooms and states are parsed once.
func LoadUnheaderedROMWithLayout(rom []byte, layout Layout) (*SuperMetroid, error) {
	header, err := readHeader(rom, layout)
	if err != nil {
		return nil, &LoadError{Entity: "header", Addr: address.FromPC(layout.HeaderOffset), Err: err}
	}

	sm := newAggregate(layout)
	sm.Header = header
	sm.rom = slices.Clone(rom)

	l := &loader{sm: sm}
	if err := l.loadTilesets(); err != nil {
		return nil, err
	}
	if err := l.loadCRE(); err != nil {
		return nil, err
	}
	if err := l.loadRooms(); err != nil {
		return nil, err
	}

	sm.loaded = true
	return sm, nil
}

type loader struct {
	sm *SuperMetroid
}

// at returns the image from addr to the end.
func (sm *SuperMetroid) at(addr address.Address) ([]byte, int, error) {
	pc, err := address.ToPC(addr)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidPointer, err)
	}
	if pc >= len(sm.rom) {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidPointer,
			&binary.OutOfBoundsError{Offset: pc, Size: 1, Len: len(sm.rom)})
	}
	return sm.rom[pc:], pc, nil
}

// bankAt returns the image from addr to the end of its bank.
func (sm *SuperMetroid) bankAt(addr address.Address) ([]byte, error) {
	b, pc, err := sm.at(addr)
	if err != nil {
		return nil, err
	}
	end := (pc/address.BankSize + 1) * address.BankSize
	return b[:min(len(b), end-pc)], nil
}

func (l *loader) decompress(k kind, addr address.Address) ([]byte, error) {
	b, pc, err := l.sm.at(addr)
	if err != nil {
		return nil, &LoadError{Entity: k.String(), Addr: addr, Err: err}
	}
	raw, n, err := compression.DecompressLen(b)
	if err != nil {
		return nil, &LoadError{Entity: k.String(), Addr: addr, Err: err}
	}
	l.sm.origins[entityKey{kind: k, addr: addr}] = origin{pc: pc, size: n, raw: raw}
	return raw, nil
}

// rebase records canon as the loaded contents of an entity whose parse drops
// bits, such as bit 15 of a palette word.
func (l *loader) rebase(k kind, addr address.Address, canon []byte) {
	key := entityKey{kind: k, addr: addr}
	o := l.sm.origins[key]
	o.raw = canon
	l.sm.origins[key] = o
}

func (l *loader) loadTilesets() error {
	layout := l.sm.Layout
	for i := range layout.TilesetCount {
		ptrAddr := layout.TilesetTable + address.Address(2*i)
		b, _, err := l.sm.at(ptrAddr)
		if err != nil {
			return &LoadError{Entity: "tileset table", Addr: ptrAddr, Err: err}
		}
		ptr, err := binary.ReadUint16LEAt(b, 0)
		if err != nil {
			return &LoadError{Entity: "tileset table", Addr: ptrAddr, Err: err}
		}
		rec := address.New(layout.TilesetTable.Bank(), ptr)
		if err := l.loadTileset(rec); err != nil {
			return err
		}
		l.sm.TilesetTable = append(l.sm.TilesetTable, rec)
	}
	return nil
}

func (l *loader) loadTileset(addr address.Address) error {
	if _, ok := l.sm.Tilesets[addr]; ok {
		return nil
	}
	b, err := l.sm.bankAt(addr)
	if err != nil {
		return &LoadError{Entity: "tileset", Addr: addr, Err: err}
	}
	ts, err := ParseTileset(b)
	if err != nil {
		return &LoadError{Entity: "tileset", Addr: addr, Err: err}
	}
	if err := l.loadPalette(ts.Palette); err != nil {
		return err
	}
	if err := l.loadGraphics(ts.Graphics); err != nil {
		return err
	}
	if err := l.loadTileTable(ts.TileTable); err != nil {
		return err
	}
	l.sm.Tilesets[addr] = ts
	return nil
}

func (l *loader) loadPalette(addr address.Address) error {
	if _, ok := l.sm.Palettes[addr]; ok {
		return nil
	}
	raw, err := l.decompress(kindPalette, addr)
	if err != nil {
		return err
	}
	p, err := graphics.ParsePalette(raw)
	if err != nil {
		return &LoadError{Entity: kindPalette.String(), Addr: addr, Err: err}
	}
	l.rebase(kindPalette, addr, p.Serialize())
	l.sm.Palettes[addr] = p
	return nil
}

func (l *loader) loadGraphics(addr address.Address) error {
	if _, ok := l.sm.Graphics[addr]; ok {
		return nil
	}
	raw, err := l.decompress(kindGraphics, addr)
	if err != nil {
		return err
	}
	l.sm.Graphics[addr] = graphics.ParseTiles(raw)
	return nil
}

func (l *loader) loadTileTable(addr address.Address) error {
	if _, ok := l.sm.TileTables[addr]; ok {
		return nil
	}
	raw, err := l.decompress(kindTileTable, addr)
	if err != nil {
		return err
	}
	tt, err := ParseTileTable(raw)
	if err != nil {
		return &LoadError{Entity: kindTileTable.String(), Addr: addr, Err: err}
	}
	l.sm.TileTables[addr] = tt
	return nil
}

func (l *loader) loadCRE() error {
	layout := l.sm.Layout
	if layout.CREGfx != 0 {
		raw, err := l.decompress(kindCREGfx, layout.CREGfx)
		if err != nil {
			return err
		}
		l.sm.CREGfx = graphics.ParseTiles(raw)
	}
	if layout.CRETileTable != 0 {
		raw, err := l.decompress(kindCRETileTable, layout.CRETileTable)
		if err != nil {
			return err
		}
		tt, err := ParseTileTable(raw)
		if err != nil {
			return &LoadError{Entity: kindCRETileTable.String(), Addr: layout.CRETileTable, Err: err}
		}
		l.sm.CRETileTable = tt
	}
	return nil
}

// loadRooms walks the door graph breadth first from the seed rooms.
func (l *loader) loadRooms() error {
	queue := slices.Clone(l.sm.Layout.SeedRooms)
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		if _, ok := l.sm.Rooms[addr]; ok {
			continue
		}
		if len(l.sm.Rooms) >= MaxRooms {
			return &LoadError{Entity: "room", Addr: addr,
				Err: fmt.Errorf("%w: more than %d rooms", ErrInvalidFormat, MaxRooms)}
		}
		next, err := l.loadRoom(addr)
		if err != nil {
			return err
		}
		queue = append(queue, next...)
	}
	return nil
}

func (l *loader) loadRoom(addr address.Address) ([]address.Address, error) {
	b, err := l.sm.bankAt(addr)
	if err != nil {
		return nil, &LoadError{Entity: "room", Addr: addr, Err: err}
	}
	room, err := ParseRoom(b, addr)
	if err != nil {
		return nil, &LoadError{Entity: "room", Addr: addr, Err: err}
	}
	for _, c := range room.Conditions {
		if err := l.loadState(c.State, addr, room); err != nil {
			return nil, err
		}
	}
	doors, next, err := l.loadDoors(room)
	if err != nil {
		return nil, err
	}

	l.sm.Rooms[addr] = room
	l.sm.roomSizes[addr] = room.Size()
	l.sm.RoomDoors[addr] = doors
	return next, nil
}

func (l *loader) loadState(addr, roomAddr address.Address, room *Room) error {
	s, ok := l.sm.States[addr]
	if !ok {
		b, err := l.sm.bankAt(addr)
		if err != nil {
			return &LoadError{Entity: "state", Addr: addr, Err: err}
		}
		if s, err = ParseState(b); err != nil {
			return &LoadError{Entity: "state", Addr: addr, Err: err}
		}
		if int(s.Tileset) >= len(l.sm.TilesetTable) {
			return &LoadError{Entity: "state", Addr: addr,
				Err: fmt.Errorf("%w: tileset index %d of %d", ErrInvalidPointer, s.Tileset, len(l.sm.TilesetTable))}
		}
	}
	if err := l.loadLevel(s.LevelData, room); err != nil {
		return err
	}
	if !ok {
		l.sm.States[addr] = s
		l.sm.stateRoom[addr] = roomAddr
	}
	return nil
}

func (l *loader) loadLevel(addr address.Address, room *Room) error {
	w, h := room.BlockSize()
	if ld, ok := l.sm.Levels[addr]; ok {
		if ld.Width != w || ld.Height != h {
			return &LoadError{Entity: kindLevel.String(), Addr: addr,
				Err: fmt.Errorf("%w: shared by rooms of %dx%d and %dx%d blocks", ErrInvalidFormat, ld.Width, ld.Height, w, h)}
		}
		return nil
	}
	raw, err := l.decompress(kindLevel, addr)
	if err != nil {
		return err
	}
	ld, err := ParseLevelData(raw, int(room.Width), int(room.Height))
	if err != nil {
		return &LoadError{Entity: kindLevel.String(), Addr: addr, Err: err}
	}
	l.sm.Levels[addr] = ld
	return nil
}

// loadDoors reads a room's door list. The list ends at the first pointer
// outside ROM or the first record whose destination is not a room.
func (l *loader) loadDoors(room *Room) (doors, next []address.Address, err error) {
	if room.Doors < address.PageOffset {
		return nil, nil, nil
	}
	layout := l.sm.Layout
	listAddr := address.New(layout.RoomBank, room.Doors)
	b, err := l.sm.bankAt(listAddr)
	if err != nil {
		return nil, nil, &LoadError{Entity: "door list", Addr: listAddr, Err: err}
	}

	for i := range MaxDoorsPerRoom {
		ptr, err := binary.ReadUint16LEAt(b, 2*i)
		if err != nil || ptr < address.PageOffset {
			break
		}
		doorAddr := address.New(layout.DoorBank, ptr)
		door, ok := l.sm.Doors[doorAddr]
		if !ok {
			db, err := l.sm.bankAt(doorAddr)
			if err != nil {
				return nil, nil, &LoadError{Entity: "door", Addr: doorAddr, Err: err}
			}
			if door, err = ParseDoor(db); err != nil {
				return nil, nil, &LoadError{Entity: "door", Addr: doorAddr, Err: err}
			}
			if !door.IsElevator() && door.Destination < address.PageOffset {
				break
			}
			l.sm.Doors[doorAddr] = door
		}
		doors = append(doors, doorAddr)
		if !door.IsElevator() {
			next = append(next, address.New(layout.RoomBank, door.Destination))
		}
	}
	return doors, next, nil
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[address.Address]V) []address.Address {
	return slices.Sorted(maps.Keys(m))
}
