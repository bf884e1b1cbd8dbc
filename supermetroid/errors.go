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
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-zen/address"
)

// Allocation limits for structures read from untrusted images.
const (
	// MaxDoorsPerRoom bounds a door list walk.
	MaxDoorsPerRoom = 64

	// MaxConditionsPerRoom bounds a state condition walk.
	MaxConditionsPerRoom = 32

	// MaxRooms bounds room discovery.
	MaxRooms = 1024
)

var (
	// ErrInvalidHeader indicates the image is not an unheadered Super Metroid ROM.
	ErrInvalidHeader = errors.New("invalid ROM header")

	// ErrInvalidPointer indicates a pointer that does not reach valid ROM data.
	ErrInvalidPointer = errors.New("invalid pointer")

	// ErrInvalidFormat indicates a record whose contents cannot be decoded.
	ErrInvalidFormat = errors.New("invalid record format")

	// ErrNotFound indicates a lookup of an entity that was never loaded.
	ErrNotFound = errors.New("entity not found")

	// ErrOutOfSpace indicates there is no free region large enough for a relocated entity.
	ErrOutOfSpace = errors.New("out of free space")

	// ErrResize indicates a fixed-size record whose serialized size changed.
	ErrResize = errors.New("record size changed")
)

// LoadError reports a failure to parse one entity of the ROM.
type LoadError struct {
	Err    error
	Entity string
	Addr   address.Address
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s at %s: %v", e.Entity, e.Addr, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failure to write one entity back to the ROM.
type SaveError struct {
	Err    error
	Entity string
	Addr   address.Address
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s at %s: %v", e.Entity, e.Addr, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
