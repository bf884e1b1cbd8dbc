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

import "github.com/ZaparooProject/go-zen/address"

// Region is a half-open range [Start, End) of PC offsets.
type Region struct {
	Start int
	End   int
}

// Len returns the region size in bytes.
func (r Region) Len() int { return r.End - r.Start }

// Layout locates the tables and banks the loader walks. The zero value is not
// usable; start from DefaultLayout.
type Layout struct {
	Title        string
	SeedRooms    []address.Address
	FreeSpace    []Region
	HeaderOffset int
	ExpandTo     int
	TilesetTable address.Address
	CREGfx       address.Address
	CRETileTable address.Address
	TilesetCount int
	RoomBank     uint8
	DoorBank     uint8
}

// Vanilla image geometry.
const (
	VanillaSize = 0x300000
	MaxROMSize  = 0x400000
	MinROMSize  = 0x8000

	// FreeFill is the byte blank ROM space holds. Only runs of it inside
	// FreeSpace are allocated.
	FreeFill = 0xFF
)

// DefaultLayout returns the layout of the unmodified North American release.
// ROM expansion is disabled.
func DefaultLayout() Layout {
	return Layout{
		Title:        "Super Metroid",
		HeaderOffset: 0x7FC0,
		TilesetTable: 0x8FE7A7,
		TilesetCount: 29,
		RoomBank:     0x8F,
		DoorBank:     0x83,
		CREGfx:       0xB98000,
		CRETileTable: 0xB9A09D,
		SeedRooms:    []address.Address{0x8F91F8, 0x8FDF45},
		FreeSpace:    []Region{{Start: 0x1C0000, End: 0x1C8000}},
	}
}
