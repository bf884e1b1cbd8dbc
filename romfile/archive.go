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

package romfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zip"
)

// Entry describes a regular file inside an archive.
type Entry struct {
	Name string // slash-separated path within the archive
	Size int64  // uncompressed size
}

// Archive provides read access to the files of a multi-file archive.
type Archive interface {
	// Entries lists regular files in archive order.
	Entries() ([]Entry, error)

	// Open opens a file by case-insensitive name.
	Open(name string) (io.ReadCloser, int64, error)

	Close() error
}

var archiveExtensions = []string{".zip", ".7z", ".rar"}

// IsArchiveExtension reports whether ext names a supported archive format.
func IsArchiveExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".zip", ".7z", ".rar":
		return true
	default:
		return false
	}
}

// OpenArchive opens an archive based on its extension.
func OpenArchive(path string) (Archive, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zip":
		return openZIP(path)
	case ".7z":
		return openSevenZip(path)
	case ".rar":
		return openRAR(path)
	default:
		return nil, FormatError{Format: ext, Reason: "not an archive"}
	}
}

var romExtensions = map[string]bool{
	".sfc": true,
	".smc": true,
	".swc": true,
	".fig": true,
}

// IsROMFile reports whether name carries a SNES ROM extension, looking
// through one container extension.
func IsROMFile(name string) bool {
	if _, ok := ContainerFor(name); ok {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return romExtensions[strings.ToLower(filepath.Ext(name))]
}

// DetectROMFile returns the first entry of arc with a ROM extension.
func DetectROMFile(arc Archive, archivePath string) (string, error) {
	entries, err := arc.Entries()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}
	for _, e := range entries {
		if IsROMFile(e.Name) {
			return e.Name, nil
		}
	}
	return "", NoROMFilesError{Archive: archivePath}
}

// indexedArchive serves formats with a central directory.
type indexedArchive struct {
	closer  io.Closer
	path    string
	entries []Entry
	opens   []func() (io.ReadCloser, error)
}

func (a *indexedArchive) add(name string, size uint64, dir bool, open func() (io.ReadCloser, error)) {
	if dir {
		return
	}
	a.entries = append(a.entries, Entry{Name: name, Size: int64(size)}) //nolint:gosec // archive sizes fit int64
	a.opens = append(a.opens, open)
}

func (a *indexedArchive) Entries() ([]Entry, error) {
	return a.entries, nil
}

func (a *indexedArchive) Open(name string) (io.ReadCloser, int64, error) {
	name = filepath.ToSlash(name)
	for i, e := range a.entries {
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		rc, err := a.opens[i]()
		if err != nil {
			return nil, 0, fmt.Errorf("open %s in %s: %w", name, a.path, err)
		}
		return rc, e.Size, nil
	}
	return nil, 0, FileNotFoundError{Archive: a.path, InternalPath: name}
}

func (a *indexedArchive) Close() error {
	return a.closer.Close() //nolint:wrapcheck // passthrough
}

func openZIP(path string) (*indexedArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}
	a := &indexedArchive{closer: rc, path: path}
	for _, f := range rc.File {
		a.add(f.Name, f.UncompressedSize64, f.FileInfo().IsDir(), f.Open)
	}
	return a, nil
}

func openSevenZip(path string) (*indexedArchive, error) {
	rc, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open 7z archive: %w", err)
	}
	a := &indexedArchive{closer: rc, path: path}
	for _, f := range rc.File {
		a.add(f.Name, f.UncompressedSize, f.FileInfo().IsDir(), f.Open)
	}
	return a, nil
}
