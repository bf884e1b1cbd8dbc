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

package graphics

import (
	"bytes"
	"errors"
	"testing"
)

func TestBgr555Conversion(t *testing.T) {
	tests := []struct {
		name    string
		wire    Bgr555
		r, g, b uint8
	}{
		{"black", 0x0000, 0, 0, 0},
		{"white", 0x7FFF, 31, 31, 31},
		{"red", 0x001F, 31, 0, 0},
		{"green", 0x03E0, 0, 31, 0},
		{"blue", 0x7C00, 0, 0, 31},
		{"mid", 0x4210, 16, 16, 16},
		{"high bit", 0x8210, 16, 16, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.wire.Rgb888()
			if got.R>>3 != tt.r || got.G>>3 != tt.g || got.B>>3 != tt.b {
				t.Errorf("Rgb888() = %+v, want 5-bit channels %d,%d,%d", got, tt.r, tt.g, tt.b)
			}
			if back := got.Bgr555(); back != tt.wire&0x7FFF {
				t.Errorf("Bgr555() = 0x%04X, want 0x%04X", back, tt.wire&0x7FFF)
			}
		})
	}
	if c := Bgr555(0).Rgb888(); c != (Rgb888{}) {
		t.Errorf("black = %+v", c)
	}
}

func TestQuantize(t *testing.T) {
	c := Rgb888{R: 0x13, G: 0xFE, B: 0x01}
	q := c.Quantize()

	if q.Bgr555() != c.Bgr555() || q.R>>3 != 0x02 || q.G>>3 != 0x1F || q.B != 0 {
		t.Errorf("Quantize() = %+v", q)
	}
	if q.Quantize() != q {
		t.Error("Quantize() is not idempotent")
	}
}

func paletteBytes(n int) []byte {
	b := make([]byte, n*SubPaletteBytes)
	for i := 0; i < len(b); i += 2 {
		v := uint16(i*37) & 0x7FFF
		b[i], b[i+1] = byte(v), byte(v>>8)
	}
	return b
}

func TestParsePalette(t *testing.T) {
	b := paletteBytes(NumberOfSubPalettes)
	b[2], b[3] = 0x1F, 0x00 // sub-palette 0, color 1 = red

	p, err := ParsePalette(b)
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	if len(p.SubPalettes) != NumberOfSubPalettes {
		t.Fatalf("len(SubPalettes) = %d, want %d", len(p.SubPalettes), NumberOfSubPalettes)
	}
	if got := p.Color(IndexedColor{SubPalette: 0, Index: 1}); got.Bgr555() != 0x001F {
		t.Errorf("Color(0,1) = %+v, want red", got)
	}
	if got := p.Color(IndexedColor{SubPalette: 9, Index: 1}); got != (Rgb888{}) {
		t.Errorf("Color(out of range) = %+v, want black", got)
	}
}

func TestParsePaletteSize(t *testing.T) {
	for _, n := range []int{1, 31, 33, 255} {
		if _, err := ParsePalette(make([]byte, n)); !errors.Is(err, ErrPaletteSize) {
			t.Errorf("ParsePalette(%d bytes) error = %v, want ErrPaletteSize", n, err)
		}
	}

	p, err := ParsePalette(nil)
	if err != nil || len(p.SubPalettes) != 0 {
		t.Errorf("ParsePalette(nil) = %v, %v", p, err)
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	for _, n := range []int{1, NumberOfSubPalettes, 16} {
		b := paletteBytes(n)
		p, err := ParsePalette(b)
		if err != nil {
			t.Fatalf("ParsePalette() error = %v", err)
		}
		if got := p.Serialize(); !bytes.Equal(got, b) {
			t.Errorf("Serialize(ParsePalette()) mismatch for %d sub-palettes", n)
		}
	}
}

func TestPaletteEdit(t *testing.T) {
	p, err := ParsePalette(paletteBytes(NumberOfSubPalettes))
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	clone := p.Clone()

	ic := IndexedColor{SubPalette: 3, Index: 7}
	if !p.SetColor(ic, Rgb888{R: 0xF8, G: 0x08, B: 0x80}) {
		t.Fatal("SetColor() = false")
	}
	if p.SetColor(IndexedColor{SubPalette: 3, Index: 16}, Rgb888{}) {
		t.Error("SetColor(out of range) = true")
	}

	if clone.Color(ic) == p.Color(ic) {
		t.Error("Clone() shares storage with the original")
	}

	reparsed, err := ParsePalette(p.Serialize())
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	if got, want := reparsed.Color(ic), (Rgb888{R: 0xF8, G: 0x08, B: 0x80}).Quantize(); got != want {
		t.Errorf("reparsed color = %+v", got)
	}
	if len(p.Colors()) != NumberOfSubPalettes*ColorsBySubPalette {
		t.Errorf("len(Colors()) = %d", len(p.Colors()))
	}
}

func FuzzPaletteRoundTrip(f *testing.F) {
	f.Add(paletteBytes(1))
	f.Add(paletteBytes(NumberOfSubPalettes))

	f.Fuzz(func(t *testing.T, data []byte) {
		data = data[:len(data)/SubPaletteBytes*SubPaletteBytes]
		for i := 1; i < len(data); i += 2 {
			data[i] &= 0x7F
		}
		p, err := ParsePalette(data)
		if err != nil {
			t.Fatalf("ParsePalette() error = %v", err)
		}
		if got := p.Serialize(); !bytes.Equal(got, data) {
			t.Errorf("round trip mismatch")
		}
	})
}
