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
	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// TilesetRecordSize is the size of a tileset record.
const TilesetRecordSize = 9

// Tileset points at the tile table, graphics and palette that give a room its look.
// States reference tilesets by index through the tileset table, so every state
// using the same record observes edits to it.
type Tileset struct {
	TileTable address.Address
	Graphics  address.Address
	Palette   address.Address
}

// ParseTileset decodes a tileset record of three long pointers.
func ParseTileset(b []byte) (*Tileset, error) {
	r := binary.NewReader(b)
	var ptrs [3]uint32
	for i := range ptrs {
		v, err := r.ReadUint24()
		if err != nil {
			return nil, err
		}
		ptrs[i] = v
	}
	return &Tileset{
		TileTable: address.Address(ptrs[0]),
		Graphics:  address.Address(ptrs[1]),
		Palette:   address.Address(ptrs[2]),
	}, nil
}

// Serialize encodes the record.
func (ts *Tileset) Serialize() []byte {
	out := make([]byte, 0, TilesetRecordSize)
	out = binary.AppendUint24(out, ts.TileTable.Long())
	out = binary.AppendUint24(out, ts.Graphics.Long())
	return binary.AppendUint24(out, ts.Palette.Long())
}
