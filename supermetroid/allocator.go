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
	"slices"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// allocator hands out free space that never crosses a bank boundary.
type allocator struct {
	free []Region
}

// newAllocator returns an allocator over the blank runs of the layout's free
// regions and, when expansion is enabled, of the image past VanillaSize plus
// the space up to ExpandTo, minus every used region.
func newAllocator(layout Layout, rom []byte, used []Region) *allocator {
	romLen := len(rom)
	free := make([]Region, 0, len(layout.FreeSpace)+1)
	for _, r := range layout.FreeSpace {
		r.End = min(r.End, romLen)
		if r.Start >= 0 && r.Start < r.End {
			free = append(free, blankRuns(rom, r)...)
		}
	}
	if expand := min(layout.ExpandTo, MaxROMSize); expand > 0 {
		grown := blankRuns(rom, Region{Start: min(romLen, VanillaSize), End: min(expand, romLen)})
		for _, r := range free {
			grown = subtract(grown, r)
		}
		free = append(free, grown...)
		if expand > romLen {
			free = append(free, Region{Start: romLen, End: expand})
		}
	}
	for _, u := range used {
		free = subtract(free, u)
	}
	slices.SortFunc(free, func(a, b Region) int { return a.Start - b.Start })
	return &allocator{free: free}
}

// blankRuns splits r into its runs of FreeFill bytes.
func blankRuns(rom []byte, r Region) []Region {
	var out []Region
	for i := r.Start; i < r.End; {
		n := min(binary.CountRun(rom, i, FreeFill), r.End-i)
		if n == 0 {
			i++
			continue
		}
		out = append(out, Region{Start: i, End: i + n})
		i += n
	}
	return out
}

func subtract(free []Region, u Region) []Region {
	out := free[:0:0]
	for _, r := range free {
		if u.End <= r.Start || u.Start >= r.End {
			out = append(out, r)
			continue
		}
		if r.Start < u.Start {
			out = append(out, Region{Start: r.Start, End: u.Start})
		}
		if u.End < r.End {
			out = append(out, Region{Start: u.End, End: r.End})
		}
	}
	return out
}

// alloc reserves n bytes and returns their PC offset.
func (a *allocator) alloc(n int) (int, bool) {
	if n <= 0 || n > address.BankSize {
		return 0, false
	}
	for i, r := range a.free {
		start := r.Start
		if start/address.BankSize != (start+n-1)/address.BankSize {
			start = (start/address.BankSize + 1) * address.BankSize
		}
		if start+n > r.End {
			continue
		}
		var rest []Region
		if r.Start < start {
			rest = append(rest, Region{Start: r.Start, End: start})
		}
		if start+n < r.End {
			rest = append(rest, Region{Start: start + n, End: r.End})
		}
		a.free = slices.Replace(a.free, i, i+1, rest...)
		return start, true
	}
	return 0, false
}

// available returns the total free bytes.
func (a *allocator) available() int {
	n := 0
	for _, r := range a.free {
		n += r.Len()
	}
	return n
}
