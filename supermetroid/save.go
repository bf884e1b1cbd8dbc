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
	"fmt"
	"slices"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/compression"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// SaveToROM writes every edited entity back into the image and returns the
// old to new address of each entity that had to move.
//
// Compressed entities whose contents are unchanged since load are skipped.
// Changed ones are recompressed and written in place when they fit their
// original span, otherwise into free space, after which every reference to
// them and their map keys are updated. Records of fixed size are rewritten in
// place. The header checksum and ROM size byte are always recomputed, so an
// unedited image saves byte-identical only when its stored checksum is
// already correct. On error the image and the aggregate are left unchanged.
//
// An unloaded aggregate saves nothing and returns an empty map.
func (sm *SuperMetroid) SaveToROM() (map[address.Address]address.Address, error) {
	if !sm.loaded {
		return map[address.Address]address.Address{}, nil
	}

	s := &saver{
		sm:      sm,
		w:       binary.NewWriter(slices.Clone(sm.rom)),
		moved:   make(map[entityKey]address.Address),
		origins: make(map[entityKey]origin, len(sm.origins)),
		remap:   make(map[address.Address]address.Address),
	}
	for k, o := range sm.origins {
		s.origins[k] = o
	}
	s.alloc = newAllocator(sm.Layout, sm.rom, sm.usedRegions())

	if err := s.run(); err != nil {
		return nil, err
	}
	s.commit()
	return s.remap, nil
}

type saver struct {
	sm      *SuperMetroid
	w       *binary.Writer
	alloc   *allocator
	moved   map[entityKey]address.Address
	origins map[entityKey]origin
	remap   map[address.Address]address.Address
	vacated []Region
	sum     uint16
}

// usedRegions lists every span a loaded entity occupies, plus spans vacated by
// earlier saves.
func (sm *SuperMetroid) usedRegions() []Region {
	used := slices.Clone(sm.vacated)
	for _, o := range sm.origins {
		used = append(used, Region{Start: o.pc, End: o.pc + o.size})
	}
	add := func(addr address.Address, n int) {
		if pc, err := address.ToPC(addr); err == nil {
			used = append(used, Region{Start: pc, End: pc + n})
		}
	}
	for addr := range sm.Tilesets {
		add(addr, TilesetRecordSize)
	}
	for addr := range sm.States {
		add(addr, StateRecordSize)
	}
	for addr, n := range sm.roomSizes {
		add(addr, n)
	}
	for addr := range sm.Doors {
		add(addr, DoorRecordSize)
	}
	add(address.FromPC(sm.Layout.HeaderOffset), headerSize)
	return used
}

func (s *saver) run() error {
	sm := s.sm
	for _, addr := range sortedKeys(sm.Palettes) {
		if err := s.writeCompressed(kindPalette, addr, sm.Palettes[addr].Serialize(), true); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.Graphics) {
		if err := s.writeCompressed(kindGraphics, addr, sm.Graphics[addr].Serialize(), true); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.TileTables) {
		if err := s.writeCompressed(kindTileTable, addr, sm.TileTables[addr].Serialize(), true); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.Levels) {
		if err := s.writeCompressed(kindLevel, addr, sm.Levels[addr].Serialize(), true); err != nil {
			return err
		}
	}
	if sm.CREGfx != nil {
		if err := s.writeCompressed(kindCREGfx, sm.Layout.CREGfx, sm.CREGfx.Serialize(), false); err != nil {
			return err
		}
	}
	if sm.CRETileTable != nil {
		if err := s.writeCompressed(kindCRETileTable, sm.Layout.CRETileTable, sm.CRETileTable.Serialize(), false); err != nil {
			return err
		}
	}

	if err := s.writeRecords(); err != nil {
		return err
	}
	s.sum = fixChecksum(s.w.Bytes(), sm.Layout.HeaderOffset)
	return nil
}

func (s *saver) writeCompressed(k kind, addr address.Address, raw []byte, relocatable bool) error {
	key := entityKey{kind: k, addr: addr}
	orig, ok := s.origins[key]
	if !ok {
		return &SaveError{Entity: k.String(), Addr: addr, Err: fmt.Errorf("%w: no span recorded at load", ErrNotFound)}
	}
	if bytes.Equal(raw, orig.raw) {
		return nil
	}

	comp := compression.Compress(raw)
	if len(comp) <= orig.size {
		if err := s.w.WriteAt(orig.pc, comp); err != nil {
			return &SaveError{Entity: k.String(), Addr: addr, Err: err}
		}
		s.origins[key] = origin{pc: orig.pc, size: orig.size, raw: raw}
		return nil
	}
	if !relocatable {
		return &SaveError{Entity: k.String(), Addr: addr,
			Err: fmt.Errorf("%w: %d bytes do not fit the original %d", ErrOutOfSpace, len(comp), orig.size)}
	}

	pc, ok := s.alloc.alloc(len(comp))
	if !ok {
		return &SaveError{Entity: k.String(), Addr: addr,
			Err: fmt.Errorf("%w: no region of %d bytes among %d free", ErrOutOfSpace, len(comp), s.alloc.available())}
	}
	if end := pc + len(comp); end > s.w.Len() {
		s.w.Grow(min(s.sm.Layout.ExpandTo, MaxROMSize)-s.w.Len(), FreeFill)
	}
	if err := s.w.WriteAt(pc, comp); err != nil {
		return &SaveError{Entity: k.String(), Addr: addr, Err: err}
	}

	to := address.FromPC(pc)
	s.moved[key] = to
	s.remap[addr] = to
	delete(s.origins, key)
	s.origins[entityKey{kind: k, addr: to}] = origin{pc: pc, size: len(comp), raw: raw}
	s.vacated = append(s.vacated, Region{Start: orig.pc, End: orig.pc + orig.size})
	return nil
}

func (s *saver) target(k kind, addr address.Address) address.Address {
	if to, ok := s.moved[entityKey{kind: k, addr: addr}]; ok {
		return to
	}
	return addr
}

func (s *saver) put(entity string, addr address.Address, b []byte) error {
	pc, err := address.ToPC(addr)
	if err == nil {
		err = s.w.WriteAt(pc, b)
	}
	if err != nil {
		return &SaveError{Entity: entity, Addr: addr, Err: err}
	}
	return nil
}

// writeRecords rewrites the fixed-size records with updated references.
func (s *saver) writeRecords() error {
	sm := s.sm
	for _, addr := range sortedKeys(sm.Tilesets) {
		ts := *sm.Tilesets[addr]
		ts.TileTable = s.target(kindTileTable, ts.TileTable)
		ts.Graphics = s.target(kindGraphics, ts.Graphics)
		ts.Palette = s.target(kindPalette, ts.Palette)
		if err := s.put("tileset", addr, ts.Serialize()); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.States) {
		st := *sm.States[addr]
		st.LevelData = s.target(kindLevel, st.LevelData)
		if err := s.put("state", addr, st.Serialize()); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.Rooms) {
		b := sm.Rooms[addr].Serialize()
		if want := sm.roomSizes[addr]; len(b) != want {
			return &SaveError{Entity: "room", Addr: addr,
				Err: fmt.Errorf("%w: %d bytes, loaded as %d", ErrResize, len(b), want)}
		}
		if err := s.put("room", addr, b); err != nil {
			return err
		}
	}
	for _, addr := range sortedKeys(sm.Doors) {
		if err := s.put("door", addr, sm.Doors[addr].Serialize()); err != nil {
			return err
		}
	}
	return nil
}

// commit publishes the new image and moves relocated entities to their new keys.
func (s *saver) commit() {
	sm := s.sm
	for key, to := range s.moved {
		switch key.kind {
		case kindPalette:
			rekey(sm.Palettes, key.addr, to)
		case kindGraphics:
			rekey(sm.Graphics, key.addr, to)
		case kindTileTable:
			rekey(sm.TileTables, key.addr, to)
		case kindLevel:
			rekey(sm.Levels, key.addr, to)
		}
	}
	for _, ts := range sm.Tilesets {
		ts.TileTable = s.target(kindTileTable, ts.TileTable)
		ts.Graphics = s.target(kindGraphics, ts.Graphics)
		ts.Palette = s.target(kindPalette, ts.Palette)
	}
	for _, st := range sm.States {
		st.LevelData = s.target(kindLevel, st.LevelData)
	}

	sm.rom = s.w.Bytes()
	sm.origins = s.origins
	sm.vacated = append(sm.vacated, s.vacated...)
	sm.Header.Checksum = s.sum
}

func rekey[V any](m map[address.Address]V, from, to address.Address) {
	if v, ok := m[from]; ok {
		delete(m, from)
		m[to] = v
	}
}
