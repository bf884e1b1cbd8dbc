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
	"github.com/ZaparooProject/go-zen/internal/binary"
)

func roomBytes(conditions ...[]byte) []byte {
	b := []byte{0x06, 0x01, 0x0A, 0x04, 0x03, 0x02, 0x70, 0xA0, 0x05, 0x3E, 0x92}
	for _, c := range conditions {
		b = append(b, c...)
	}
	return b
}

func TestParseRoom(t *testing.T) {
	const addr address.Address = 0x8F91F8
	b := roomBytes(
		[]byte{0xEB, 0xE5, 0x34, 0x12, 0x00, 0xA0},
		[]byte{0x12, 0xE6, 0x0E, 0x24, 0x92},
		[]byte{0x69, 0xE6, 0x50, 0x93},
		[]byte{0xE6, 0xE5},
	)
	b = append(b, make([]byte, StateRecordSize)...)

	room, err := ParseRoom(b, addr)
	if err != nil {
		t.Fatalf("ParseRoom() error = %v", err)
	}
	if room.Index != 6 || room.Area != 1 || room.Width != 3 || room.Height != 2 || room.CREBitset != 5 || room.Doors != 0x923E {
		t.Errorf("header = %+v", room)
	}

	want := []StateCondition{
		{Code: ConditionDoor, Arg: []byte{0x34, 0x12}, State: 0x8FA000},
		{Code: ConditionEvent, Arg: []byte{0x0E}, State: 0x8F9224},
		{Code: ConditionPowerBombs, State: 0x8F9350},
		{Code: ConditionDefault, State: addr + 11 + 6 + 5 + 4 + 2},
	}
	if len(room.Conditions) != len(want) {
		t.Fatalf("len(Conditions) = %d, want %d", len(room.Conditions), len(want))
	}
	for i, c := range room.Conditions {
		if c.Code != want[i].Code || c.State != want[i].State || !bytes.Equal(c.Arg, want[i].Arg) {
			t.Errorf("Conditions[%d] = %+v, want %+v", i, c, want[i])
		}
	}

	if room.Size() != 28 {
		t.Errorf("Size() = %d, want 28", room.Size())
	}
	if got := room.Serialize(); !bytes.Equal(got, b[:28]) {
		t.Errorf("Serialize() = % X", got)
	}
	if def, ok := room.DefaultState(); !ok || def != addr+28 {
		t.Errorf("DefaultState() = %s, %v", def, ok)
	}
	if states := room.States(); len(states) != 4 || states[3] != addr+28 {
		t.Errorf("States() = %v", states)
	}
}

func TestParseRoomErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		data []byte
	}{
		{binary.ErrOutOfBounds, "short header", roomBytes()[:8]},
		{binary.ErrOutOfBounds, "no terminator", roomBytes()},
		{binary.ErrOutOfBounds, "truncated argument", roomBytes([]byte{0xEB, 0xE5, 0x34})},
		{ErrInvalidFormat, "unknown condition", roomBytes([]byte{0x00, 0xE7})},
		{ErrInvalidFormat, "zero width", append([]byte{0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0x80}, 0xE6, 0xE5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseRoom(tt.data, 0x8F91F8); !errors.Is(err, tt.err) {
				t.Errorf("ParseRoom() error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestParseRoomConditionLimit(t *testing.T) {
	var conds [][]byte
	for range MaxConditionsPerRoom + 1 {
		conds = append(conds, []byte{0x40, 0xE6, 0x00, 0x90})
	}
	if _, err := ParseRoom(roomBytes(conds...), 0x8F91F8); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseRoom() error = %v, want ErrInvalidFormat", err)
	}
}

func TestRoomSizes(t *testing.T) {
	room := &Room{Width: 3, Height: 2}
	if w, h := room.BlockSize(); w != 48 || h != 32 {
		t.Errorf("BlockSize() = %d, %d", w, h)
	}
	if w, h := room.PixelSize(); w != 768 || h != 512 {
		t.Errorf("PixelSize() = %d, %d", w, h)
	}
}

func TestConditionCodeString(t *testing.T) {
	if s := ConditionEvent.String(); s != "event" {
		t.Errorf("String() = %q", s)
	}
	if s := ConditionCode(0x1234).String(); s != "$1234" {
		t.Errorf("String() = %q", s)
	}
}

func TestStateRecord(t *testing.T) {
	raw := []byte{
		0xBB, 0xC2, 0xC2, 0x01, 0x09, 0x05,
		0x00, 0x80, 0x9E, 0x8D, 0xA0, 0x83, 0x01, 0x01, 0x2A, 0x91,
		0x00, 0x00, 0x00, 0x00, 0x10, 0x8C, 0x00, 0x00, 0xC9, 0x91,
	}
	s, err := ParseState(raw)
	if err != nil {
		t.Fatalf("ParseState() error = %v", err)
	}
	if s.LevelData != 0xC2C2BB || s.Tileset != 1 || s.MusicData != 9 || s.MusicTrack != 5 {
		t.Errorf("ParseState() = %+v", s)
	}
	if s.FX != 0x8000 || s.Scroll != 0x912A || s.PLMPopulation != 0x8C10 || s.SetupASM != 0x91C9 {
		t.Errorf("words = %+v", s)
	}
	if got := s.Serialize(); !bytes.Equal(got, raw) {
		t.Errorf("Serialize() = % X", got)
	}
	if _, err := ParseState(raw[:25]); !errors.Is(err, binary.ErrOutOfBounds) {
		t.Errorf("ParseState(25 bytes) error = %v", err)
	}
}

func TestDoorRecord(t *testing.T) {
	raw := []byte{0x45, 0xDF, 0x00, 0x04, 0x01, 0x06, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00}
	d, err := ParseDoor(raw)
	if err != nil {
		t.Fatalf("ParseDoor() error = %v", err)
	}
	if d.Destination != 0xDF45 || d.Direction != 4 || d.CapY != 6 || d.SpawnDistance != 0x8000 || d.IsElevator() {
		t.Errorf("ParseDoor() = %+v", d)
	}
	if got := d.Serialize(); !bytes.Equal(got, raw) {
		t.Errorf("Serialize() = % X", got)
	}
	if _, err := ParseDoor(raw[:11]); !errors.Is(err, binary.ErrOutOfBounds) {
		t.Errorf("ParseDoor(11 bytes) error = %v", err)
	}
	if !(&Door{}).IsElevator() {
		t.Error("zero door is not an elevator")
	}
}
