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
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// RoomHeaderSize is the size of the fixed part of a room record.
const RoomHeaderSize = 11

// BlocksPerScreen is the number of blocks along each axis of one screen.
const BlocksPerScreen = 16

// ConditionCode selects the routine that decides whether a state applies.
type ConditionCode uint16

// State condition codes.
const (
	ConditionDefault       ConditionCode = 0xE5E6
	ConditionDoor          ConditionCode = 0xE5EB
	ConditionMainAreaBoss  ConditionCode = 0xE5FF
	ConditionEvent         ConditionCode = 0xE612
	ConditionBoss          ConditionCode = 0xE629
	ConditionMorph         ConditionCode = 0xE640
	ConditionMorphMissiles ConditionCode = 0xE652
	ConditionPowerBombs    ConditionCode = 0xE669
	ConditionSpeedBooster  ConditionCode = 0xE676
)

var conditionArgSizes = map[ConditionCode]int{
	ConditionDoor:          2,
	ConditionMainAreaBoss:  0,
	ConditionEvent:         1,
	ConditionBoss:          1,
	ConditionMorph:         0,
	ConditionMorphMissiles: 0,
	ConditionPowerBombs:    0,
	ConditionSpeedBooster:  0,
}

func (c ConditionCode) String() string {
	switch c {
	case ConditionDefault:
		return "default"
	case ConditionDoor:
		return "door"
	case ConditionMainAreaBoss:
		return "main area boss"
	case ConditionEvent:
		return "event"
	case ConditionBoss:
		return "boss"
	case ConditionMorph:
		return "morph"
	case ConditionMorphMissiles:
		return "morph and missiles"
	case ConditionPowerBombs:
		return "power bombs"
	case ConditionSpeedBooster:
		return "speed booster"
	default:
		return fmt.Sprintf("$%04X", uint16(c))
	}
}

// StateCondition pairs a condition with the state loaded when it holds.
type StateCondition struct {
	Arg   []byte
	Code  ConditionCode
	State address.Address
}

// Room is a room header and its state conditions, the default condition last.
type Room struct {
	Conditions   []StateCondition
	Index        uint8
	Area         uint8
	MapX         uint8
	MapY         uint8
	Width        uint8
	Height       uint8
	UpScroller   uint8
	DownScroller uint8
	CREBitset    uint8
	Doors        uint16
}

// ParseRoom decodes the room at addr. b starts at the room record and runs to
// the end of the bank; the default state follows the condition list directly.
func ParseRoom(b []byte, addr address.Address) (*Room, error) {
	r := binary.NewReader(b)
	head, err := r.ReadBytes(RoomHeaderSize - 2)
	if err != nil {
		return nil, err
	}
	doors, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	room := &Room{
		Index:        head[0],
		Area:         head[1],
		MapX:         head[2],
		MapY:         head[3],
		Width:        head[4],
		Height:       head[5],
		UpScroller:   head[6],
		DownScroller: head[7],
		CREBitset:    head[8],
		Doors:        doors,
	}
	if room.Width == 0 || room.Height == 0 {
		return nil, fmt.Errorf("%w: room of %dx%d screens", ErrInvalidFormat, room.Width, room.Height)
	}

	for range MaxConditionsPerRoom {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		code := ConditionCode(v)
		if code == ConditionDefault {
			room.Conditions = append(room.Conditions, StateCondition{
				Code:  code,
				State: addr + address.Address(r.Pos()),
			})
			return room, nil
		}

		n, ok := conditionArgSizes[code]
		if !ok {
			return nil, fmt.Errorf("%w: unknown state condition %s", ErrInvalidFormat, code)
		}
		arg, err := r.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		ptr, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		room.Conditions = append(room.Conditions, StateCondition{
			Code:  code,
			Arg:   append([]byte(nil), arg...),
			State: address.New(addr.Bank(), ptr),
		})
	}
	return nil, fmt.Errorf("%w: more than %d state conditions", ErrInvalidFormat, MaxConditionsPerRoom)
}

// Size returns the serialized size of the header and condition list.
func (room *Room) Size() int {
	n := RoomHeaderSize
	for _, c := range room.Conditions {
		n += 2
		if c.Code != ConditionDefault {
			n += len(c.Arg) + 2
		}
	}
	return n
}

// Serialize encodes the header and condition list. The default state record
// that follows is written separately.
func (room *Room) Serialize() []byte {
	out := make([]byte, 0, room.Size())
	out = append(out, room.Index, room.Area, room.MapX, room.MapY, room.Width, room.Height,
		room.UpScroller, room.DownScroller, room.CREBitset)
	out = binary.AppendUint16(out, room.Doors)
	for _, c := range room.Conditions {
		out = binary.AppendUint16(out, uint16(c.Code))
		if c.Code == ConditionDefault {
			continue
		}
		out = append(out, c.Arg...)
		out = binary.AppendUint16(out, c.State.Offset())
	}
	return out
}

// States returns the state addresses in condition order.
func (room *Room) States() []address.Address {
	out := make([]address.Address, 0, len(room.Conditions))
	for _, c := range room.Conditions {
		out = append(out, c.State)
	}
	return out
}

// DefaultState returns the state used when no other condition holds.
func (room *Room) DefaultState() (address.Address, bool) {
	for _, c := range room.Conditions {
		if c.Code == ConditionDefault {
			return c.State, true
		}
	}
	return 0, false
}

// BlockSize returns the room size in blocks.
func (room *Room) BlockSize() (width, height int) {
	return int(room.Width) * BlocksPerScreen, int(room.Height) * BlocksPerScreen
}

// PixelSize returns the room size in pixels.
func (room *Room) PixelSize() (width, height int) {
	w, h := room.BlockSize()
	return w * BlockSize, h * BlockSize
}
