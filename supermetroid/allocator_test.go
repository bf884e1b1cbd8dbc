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
	"bytes"
	"testing"
)

func blank(n int) []byte { return bytes.Repeat([]byte{FreeFill}, n) }

func TestAllocator(t *testing.T) {
	layout := Layout{FreeSpace: []Region{{Start: 0x10000, End: 0x18000}, {Start: 0x20000, End: 0x20100}}}
	used := []Region{{Start: 0x10000, End: 0x10010}, {Start: 0x17FF0, End: 0x18000}}
	a := newAllocator(layout, blank(0x30000), used)

	if got := a.available(); got != 0x8000-0x20+0x100 {
		t.Fatalf("available() = 0x%X", got)
	}

	tests := []struct {
		n    int
		want int
		ok   bool
	}{
		{0x10, 0x10010, true},
		{0x7FD1, 0, false},
		{0x7FC0, 0x10020, true},
		{0x80, 0x20000, true},
		{0x81, 0, false},
		{0x80, 0x20080, true},
		{1, 0x17FE0, true},
		{0x11, 0, false},
	}
	for i, tt := range tests {
		got, ok := a.alloc(tt.n)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("alloc #%d(0x%X) = 0x%X, %v, want 0x%X, %v", i, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAllocatorBankBoundary(t *testing.T) {
	layout := Layout{FreeSpace: []Region{{Start: 0x7F00, End: 0x8200}}}
	a := newAllocator(layout, blank(0x10000), nil)

	got, ok := a.alloc(0x180)
	if !ok || got != 0x8000 {
		t.Fatalf("alloc() = 0x%X, %v, want 0x8000", got, ok)
	}
	// The gap left before the boundary is still usable.
	got, ok = a.alloc(0x100)
	if !ok || got != 0x7F00 {
		t.Errorf("alloc() = 0x%X, %v, want 0x7F00", got, ok)
	}
	if _, ok := a.alloc(0x8001); ok {
		t.Error("alloc(larger than a bank) ok = true")
	}
}

func TestAllocatorExpansion(t *testing.T) {
	layout := Layout{
		FreeSpace: []Region{{Start: 0x2F0000, End: 0x310000}},
		ExpandTo:  0x800000,
	}
	a := newAllocator(layout, blank(0x300000), nil)

	// Free space is clipped to the image, expansion stops at the largest ROM size.
	if got := a.available(); got != 0x10000+MaxROMSize-0x300000 {
		t.Errorf("available() = 0x%X", got)
	}
	a.free = a.free[1:]
	if got, ok := a.alloc(0x8000); !ok || got != 0x300000 {
		t.Errorf("alloc() = 0x%X, %v, want 0x300000", got, ok)
	}
}

func TestAllocatorExpandedImage(t *testing.T) {
	rom := blank(0x380000)
	rom[0x300000] = 0x00
	rom[0x3000FF] = 0x00
	layout := Layout{ExpandTo: MaxROMSize}
	used := []Region{{Start: 0x308000, End: 0x308100}}
	a := newAllocator(layout, rom, used)

	if got, want := a.available(), MaxROMSize-VanillaSize-0x102; got != want {
		t.Fatalf("available() = 0x%X, want 0x%X", got, want)
	}
	if got, ok := a.alloc(0x100); !ok || got != 0x300100 {
		t.Errorf("alloc() = 0x%X, %v, want 0x300100", got, ok)
	}
	if got, ok := a.alloc(0x8000); !ok || got != 0x310000 {
		t.Errorf("alloc(bank) = 0x%X, %v, want 0x310000", got, ok)
	}

	if a := newAllocator(Layout{}, rom, nil); a.available() != 0 {
		t.Errorf("available() without expansion = 0x%X, want 0", a.available())
	}
}

func TestAllocatorSkipsUsedBytes(t *testing.T) {
	rom := blank(0x10000)
	copy(rom[0x8010:], []byte{0x12, 0x34})
	rom[0x8100] = 0x00
	layout := Layout{FreeSpace: []Region{{Start: 0x8000, End: 0x8200}}}
	a := newAllocator(layout, rom, nil)

	if got := a.available(); got != 0x200-3 {
		t.Fatalf("available() = 0x%X, want 0x%X", got, 0x200-3)
	}
	tests := []struct {
		n    int
		want int
		ok   bool
	}{
		{0x11, 0x8012, true},
		{0x10, 0x8000, true},
		{0xFF, 0x8101, true},
		{0x100, 0, false},
	}
	for i, tt := range tests {
		got, ok := a.alloc(tt.n)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("alloc #%d(0x%X) = 0x%X, %v, want 0x%X, %v", i, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}
