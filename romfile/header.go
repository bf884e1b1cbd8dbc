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

// CopierHeaderSize is the size of the header prepended by backup units.
const CopierHeaderSize = 512

// HasCopierHeader reports whether the image length leaves a copier
// header in front of whole 1 KiB blocks.
func HasCopierHeader(data []byte) bool {
	return len(data)%1024 == CopierHeaderSize
}

// StripCopierHeader returns data without its copier header and the header
// itself, or data unchanged and nil when there is none.
func StripCopierHeader(data []byte) (rom, header []byte) {
	if !HasCopierHeader(data) {
		return data, nil
	}
	return data[CopierHeaderSize:], data[:CopierHeaderSize]
}
