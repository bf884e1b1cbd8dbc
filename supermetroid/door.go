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
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// DoorRecordSize is the size of a door record.
const DoorRecordSize = 12

// Door is a door record. A zero Destination marks an elevator pad.
type Door struct {
	Destination   uint16
	SpawnDistance uint16
	ASM           uint16
	Flags         uint8
	Direction     uint8
	CapX          uint8
	CapY          uint8
	ScreenX       uint8
	ScreenY       uint8
}

// IsElevator reports whether the door leads nowhere.
func (d *Door) IsElevator() bool { return d.Destination == 0 }

// ParseDoor decodes a door record.
func ParseDoor(b []byte) (*Door, error) {
	raw, err := binary.ReadBytesAt(b, 0, DoorRecordSize)
	if err != nil {
		return nil, err
	}
	r := binary.NewReader(raw)
	d := &Door{}
	d.Destination, _ = r.ReadUint16()
	d.Flags, _ = r.ReadUint8()
	d.Direction, _ = r.ReadUint8()
	d.CapX, _ = r.ReadUint8()
	d.CapY, _ = r.ReadUint8()
	d.ScreenX, _ = r.ReadUint8()
	d.ScreenY, _ = r.ReadUint8()
	d.SpawnDistance, _ = r.ReadUint16()
	d.ASM, _ = r.ReadUint16()
	return d, nil
}

// Serialize encodes the record.
func (d *Door) Serialize() []byte {
	out := binary.AppendUint16(make([]byte, 0, DoorRecordSize), d.Destination)
	out = append(out, d.Flags, d.Direction, d.CapX, d.CapY, d.ScreenX, d.ScreenY)
	out = binary.AppendUint16(out, d.SpawnDistance)
	return binary.AppendUint16(out, d.ASM)
}
