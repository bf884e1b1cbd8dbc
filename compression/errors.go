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

package compression

import "errors"

// MaxDecompressedSize bounds the output of a single stream. The largest Super
// Metroid level is well under this.
const MaxDecompressedSize = 0x100000

// ErrMalformedStream indicates a compressed stream that cannot be decoded:
// a command reading past the input end, a missing terminator, a back-reference
// outside the decoded output, or output larger than MaxDecompressedSize.
var ErrMalformedStream = errors.New("malformed compressed stream")
