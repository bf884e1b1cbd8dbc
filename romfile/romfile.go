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

// Package romfile reads and writes SNES ROM images on disk.
//
// Images may be stored plain, inside a single-file container (.gz, .zst,
// .xz) or inside an archive (.zip, .7z, .rar). Paths of the form
// "set.zip/dir/game.sfc" select a file within an archive; a bare archive
// path picks its first file with a ROM extension.
package romfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Image is a ROM image read from disk.
type Image struct {
	// Data is the unheadered image.
	Data []byte

	// CopierHeader holds the stripped copier header, if any.
	CopierHeader []byte

	// Name is the base name of the file the image came from.
	Name string
}

// Read loads the image at path, unwrapping any archive or container and
// stripping a copier header.
func Read(path string) (*Image, error) {
	ap, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	var data []byte
	var name string
	if ap != nil {
		data, name, err = readArchive(ap)
	} else {
		data, err = readFile(path)
		name = filepath.Base(path)
	}
	if err != nil {
		return nil, err
	}

	rom, header := StripCopierHeader(data)
	return &Image{Data: rom, CopierHeader: header, Name: name}, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // caller supplied path
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return readMaybeContained(f, path)
}

// readMaybeContained reads r, decompressing it when name carries a
// registered container extension.
func readMaybeContained(r io.Reader, name string) ([]byte, error) {
	c, ok := ContainerFor(name)
	if !ok {
		return readLimited(r, name)
	}
	cr, err := c.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer func() { _ = cr.Close() }()
	return readLimited(cr, name)
}

func readArchive(p *Path) ([]byte, string, error) {
	arc, err := OpenArchive(p.ArchivePath)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = arc.Close() }()

	inner := p.InternalPath
	if inner == "" {
		if inner, err = DetectROMFile(arc, p.ArchivePath); err != nil {
			return nil, "", err
		}
	}

	rc, _, err := arc.Open(inner)
	if err != nil {
		return nil, "", err //nolint:wrapcheck // archive errors carry the path
	}
	defer func() { _ = rc.Close() }()

	data, err := readMaybeContained(rc, inner)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(filepath.FromSlash(inner)), nil
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}
	return data, nil
}
