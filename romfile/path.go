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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Path is a location that may point inside an archive.
type Path struct {
	ArchivePath  string // archive file on disk
	InternalPath string // file inside the archive, empty to auto-detect
}

// ParsePath splits paths like "dir/rom.zip/inner/game.sfc" at the first
// existing archive. It returns nil with no error when path does not refer
// to an archive.
//
//nolint:nilnil // nil, nil means not an archive path
func ParsePath(path string) (*Path, error) {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, ext := range archiveExtensions {
		idx := strings.Index(lower, ext+"/")
		if idx == -1 {
			continue
		}
		archivePath := path[:idx+len(ext)]
		ok, err := exists(archivePath)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Path{ArchivePath: archivePath, InternalPath: path[idx+len(ext)+1:]}, nil
		}
	}

	if !IsArchiveExtension(filepath.Ext(path)) {
		return nil, nil
	}
	ok, err := exists(path)
	if err != nil || !ok {
		return nil, err
	}
	return &Path{ArchivePath: path}, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat archive %s: %w", path, err)
	}
}
