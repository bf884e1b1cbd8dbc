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

// StateRecordSize is the size of a state record.
const StateRecordSize = 26

// State is one variant of a room. Only LevelData and Tileset are interpreted;
// the remaining fields are carried through unchanged.
type State struct {
	LevelData         address.Address
	FX                uint16
	EnemyPopulation   uint16
	EnemySet          uint16
	Layer2Scroll      uint16
	Scroll            uint16
	XRay              uint16
	MainASM           uint16
	PLMPopulation     uint16
	LibraryBackground uint16
	SetupASM          uint16
	Tileset           uint8
	MusicData         uint8
	MusicTrack        uint8
}

// ParseState decodes a state record.
func ParseState(b []byte) (*State, error) {
	r := binary.NewReader(b)
	level, err := r.ReadUint24()
	if err != nil {
		return nil, err
	}
	head, err := r.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	s := &State{
		LevelData:  address.Address(level),
		Tileset:    head[0],
		MusicData:  head[1],
		MusicTrack: head[2],
	}
	for _, f := range s.words() {
		if *f, err = r.ReadUint16(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *State) words() []*uint16 {
	return []*uint16{
		&s.FX, &s.EnemyPopulation, &s.EnemySet, &s.Layer2Scroll, &s.Scroll,
		&s.XRay, &s.MainASM, &s.PLMPopulation, &s.LibraryBackground, &s.SetupASM,
	}
}

// Serialize encodes the record.
func (s *State) Serialize() []byte {
	out := make([]byte, 0, StateRecordSize)
	out = binary.AppendUint24(out, s.LevelData.Long())
	out = append(out, s.Tileset, s.MusicData, s.MusicTrack)
	for _, f := range s.words() {
		out = binary.AppendUint16(out, *f)
	}
	return out
}
