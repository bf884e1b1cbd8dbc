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
)

// MaxImageSize bounds how many bytes are read from any single source.
const MaxImageSize = 8 << 20

// ErrTooLarge is returned when a source holds more than MaxImageSize bytes.
var ErrTooLarge = errors.New("rom image too large")

// FormatError indicates an unsupported or invalid file format.
type FormatError struct {
	Format string
	Reason string
}

func (e FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported format %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// FileNotFoundError indicates a file was not found in an archive.
type FileNotFoundError struct {
	Archive      string
	InternalPath string
}

func (e FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q not found in archive %q", e.InternalPath, e.Archive)
}

// NoROMFilesError indicates an archive holds nothing with a ROM extension.
type NoROMFilesError struct {
	Archive string
}

func (e NoROMFilesError) Error() string {
	return fmt.Sprintf("no rom files found in archive %q", e.Archive)
}
