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

// Package zen loads, edits and saves Super Metroid ROM images on disk.
//
// It joins the file layer in package romfile with the asset codec in
// package supermetroid. Callers that already hold an unheadered image in
// memory can use supermetroid directly.
package zen

import (
	"fmt"
	"io/fs"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/romfile"
	"github.com/ZaparooProject/go-zen/supermetroid"
)

// SuperMetroid is an alias for supermetroid.SuperMetroid for convenience.
type SuperMetroid = supermetroid.SuperMetroid

// Remap maps the old address of each relocated entity to its new one.
type Remap = map[address.Address]address.Address

// SaveOptions control how an image is written back to disk.
type SaveOptions struct {
	// Backup is a container extension (".zst", ".gz", ".xz"). When set, the
	// previous file is kept compressed next to the new one.
	Backup string

	// CopierHeader is written in front of the image when non-empty.
	CopierHeader []byte

	// Perm is the mode of a newly created file.
	Perm fs.FileMode
}

// Load reads the image at path, which may be compressed, archived or
// carry a copier header, and parses it with the default layout.
func Load(path string) (*SuperMetroid, error) {
	sm, _, err := LoadWithLayout(path, supermetroid.DefaultLayout())
	return sm, err
}

// LoadWithLayout is Load with an explicit layout. It also returns the file
// the image came from so callers can keep its copier header.
func LoadWithLayout(path string, layout supermetroid.Layout) (*SuperMetroid, *romfile.Image, error) {
	img, err := romfile.Read(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rom: %w", err)
	}
	sm, err := supermetroid.LoadUnheaderedROMWithLayout(img.Data, layout)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", img.Name, err)
	}
	return sm, img, nil
}

// Save commits the edits held by sm into its image and writes the image to
// path. A failed commit leaves sm untouched; a failed write leaves the
// commit in place and returns its remap with the error.
func Save(path string, sm *SuperMetroid, opts SaveOptions) (Remap, error) {
	if !sm.Loaded() {
		return nil, ErrNotLoaded
	}
	remap, err := sm.SaveToROM()
	if err != nil {
		return nil, fmt.Errorf("save rom: %w", err)
	}
	err = romfile.WriteFile(path, sm.ROM(), romfile.WriteOptions{
		Backup:       opts.Backup,
		CopierHeader: opts.CopierHeader,
		Perm:         opts.Perm,
	})
	if err != nil {
		return remap, fmt.Errorf("write rom: %w", err)
	}
	return remap, nil
}
