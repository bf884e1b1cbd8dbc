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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// rarArchive rescans the stream from the start on every call since RAR has
// no central directory.
type rarArchive struct {
	file *os.File
	path string
}

func openRAR(path string) (*rarArchive, error) {
	f, err := os.Open(path) //nolint:gosec // caller supplied path
	if err != nil {
		return nil, fmt.Errorf("open RAR archive: %w", err)
	}
	return &rarArchive{file: f, path: path}, nil
}

// scan calls fn for each regular file until fn returns true.
func (a *rarArchive) scan(fn func(h *rardecode.FileHeader, r *rardecode.Reader) bool) error {
	if _, err := a.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek RAR archive: %w", err)
	}
	r, err := rardecode.NewReader(a.file)
	if err != nil {
		return fmt.Errorf("create RAR reader: %w", err)
	}
	for {
		h, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read RAR header: %w", err)
		}
		if !h.IsDir && fn(h, r) {
			return nil
		}
	}
}

func (a *rarArchive) Entries() ([]Entry, error) {
	var entries []Entry
	err := a.scan(func(h *rardecode.FileHeader, _ *rardecode.Reader) bool {
		entries = append(entries, Entry{Name: filepath.ToSlash(h.Name), Size: h.UnPackedSize})
		return false
	})
	return entries, err
}

func (a *rarArchive) Open(name string) (io.ReadCloser, int64, error) {
	name = filepath.ToSlash(name)
	var (
		found io.Reader
		size  int64
	)
	err := a.scan(func(h *rardecode.FileHeader, r *rardecode.Reader) bool {
		if !strings.EqualFold(filepath.ToSlash(h.Name), name) {
			return false
		}
		found, size = r, h.UnPackedSize
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	if found == nil {
		return nil, 0, FileNotFoundError{Archive: a.path, InternalPath: name}
	}
	return io.NopCloser(found), size, nil
}

func (a *rarArchive) Close() error {
	return a.file.Close() //nolint:wrapcheck // passthrough
}
