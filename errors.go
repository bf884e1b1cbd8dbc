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

package zen

import "errors"

var (
	// ErrNotLoaded is returned when saving an aggregate that holds no image.
	ErrNotLoaded = errors.New("no rom loaded")

	// ErrNoPath is returned when a session has nowhere to save.
	ErrNoPath = errors.New("session has no file path")
)
