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
	"fmt"
	"strings"

	"github.com/alttpo/snes"

	"github.com/ZaparooProject/go-zen/internal/binary"
)

// Header field offsets relative to the header start.
const (
	headerTitleOffset      = 0x00
	headerTitleSize        = 21
	headerMapModeOffset    = 0x15
	headerROMSizeOffset    = 0x17
	headerRegionOffset     = 0x19
	headerVersionOffset    = 0x1B
	headerComplementOffset = 0x1C
	headerChecksumOffset   = 0x1E
	headerSize             = 0x20
	headerVectorsSize      = 0x20

	mapModeLoROM   = 0x20
	mapModeFastROM = 0x10
)

// Header is the cartridge header of a loaded image.
type Header struct {
	Title    string
	Region   string
	Checksum uint16
	MapMode  uint8
	Version  uint8
	FastROM  bool
}

// readHeader validates the cartridge header at layout.HeaderOffset.
func readHeader(rom []byte, layout Layout) (Header, error) {
	start := layout.HeaderOffset
	if len(rom) < MinROMSize || start < 0x10 || start+headerSize+headerVectorsSize > len(rom) {
		return Header{}, fmt.Errorf("%w: no header at 0x%X in an image of %d bytes", ErrInvalidHeader, start, len(rom))
	}

	var h snes.Header
	if err := h.ReadHeader(bytes.NewReader(rom[start-0x10 : start+headerSize+headerVectorsSize])); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if h.MapMode&^uint8(mapModeFastROM) != mapModeLoROM {
		return Header{}, fmt.Errorf("%w: map mode 0x%02X is not LoROM", ErrInvalidHeader, h.MapMode)
	}

	header := rom[start : start+headerSize]
	cs := uint16(header[headerChecksumOffset]) | uint16(header[headerChecksumOffset+1])<<8
	csc := uint16(header[headerComplementOffset]) | uint16(header[headerComplementOffset+1])<<8
	if cs+csc != 0xFFFF {
		return Header{}, fmt.Errorf("%w: checksum 0x%04X and complement 0x%04X do not match",
			ErrInvalidHeader, cs, csc)
	}

	title := strings.TrimRight(string(header[headerTitleOffset:headerTitleOffset+headerTitleSize]), " \x00")
	if layout.Title != "" && !strings.EqualFold(title, layout.Title) {
		return Header{}, fmt.Errorf("%w: unexpected title %q", ErrInvalidHeader, title)
	}

	var region string
	switch h.DestinationCode {
	case snes.RegionJapan:
		region = "Japan"
	case snes.RegionNorthAmerica:
		region = "North America"
	default:
		region = fmt.Sprintf("0x%02X", header[headerRegionOffset])
	}

	return Header{
		Title:    title,
		Region:   region,
		Checksum: cs,
		MapMode:  h.MapMode,
		Version:  header[headerVersionOffset],
		FastROM:  h.MapMode&mapModeFastROM != 0,
	}, nil
}

// fixChecksum recomputes the header checksum and complement in place and
// updates the ROM size byte to cover the image.
func fixChecksum(rom []byte, headerOffset int) uint16 {
	h := rom[headerOffset : headerOffset+headerSize]

	sizeCode := byte(0)
	for (1024 << sizeCode) < len(rom) {
		sizeCode++
	}
	h[headerROMSizeOffset] = sizeCode

	h[headerComplementOffset], h[headerComplementOffset+1] = 0xFF, 0xFF
	h[headerChecksumOffset], h[headerChecksumOffset+1] = 0x00, 0x00
	sum := binary.MirroredSum(rom)
	c := ^sum
	h[headerComplementOffset], h[headerComplementOffset+1] = byte(c), byte(c>>8)
	h[headerChecksumOffset], h[headerChecksumOffset+1] = byte(sum), byte(sum>>8)
	return sum
}
