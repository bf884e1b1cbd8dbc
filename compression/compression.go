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

// Package compression implements the LZ scheme Super Metroid uses for graphics,
// palettes, tile tables and level data.
//
// A stream is a sequence of commands ended by 0xFF. Each command byte holds a
// 3-bit command and a 5-bit length minus one. Command 7 marks the extended form,
// whose next three bits are the real command and whose length is ten bits wide,
// the upper two taken from the command byte and the rest from the next byte.
package compression

import "fmt"

// Command numbers.
const (
	cmdLiteral          = 0
	cmdByteFill         = 1
	cmdWordFill         = 2
	cmdSigmaFill        = 3
	cmdCopy             = 4
	cmdCopyInverted     = 5
	cmdRelative         = 6
	cmdRelativeInverted = 7
)

const (
	terminator  = 0xFF
	cmdExtended = 7
	maxShortLen = 32
	maxLen      = 1024
)

// Decompress expands a compressed stream.
func Decompress(src []byte) ([]byte, error) {
	out, _, err := DecompressLen(src)
	return out, err
}

// DecompressLen expands a compressed stream and also reports how many bytes of
// src it consumed, terminator included.
//
//nolint:gocognit,gocyclo,cyclop // one switch arm per command
func DecompressLen(src []byte) ([]byte, int, error) {
	out := make([]byte, 0, len(src)*2)
	pos := 0

	need := func(n int) error {
		if pos+n > len(src) {
			return fmt.Errorf("%w: command at 0x%X needs %d bytes past end of input", ErrMalformedStream, pos, n)
		}
		return nil
	}

	for {
		if err := need(1); err != nil {
			return nil, pos, fmt.Errorf("%w: missing terminator", ErrMalformedStream)
		}
		b := src[pos]
		pos++
		if b == terminator {
			return out, pos, nil
		}

		cmd := b >> 5
		length := int(b&0x1F) + 1
		if cmd == cmdExtended {
			if err := need(1); err != nil {
				return nil, pos, err
			}
			cmd = (b >> 2) & 7
			length = (int(b&3)<<8 | int(src[pos])) + 1
			pos++
		}

		if len(out)+length > MaxDecompressedSize {
			return nil, pos, fmt.Errorf("%w: output exceeds %d bytes", ErrMalformedStream, MaxDecompressedSize)
		}

		switch cmd {
		case cmdLiteral:
			if err := need(length); err != nil {
				return nil, pos, err
			}
			out = append(out, src[pos:pos+length]...)
			pos += length

		case cmdByteFill:
			if err := need(1); err != nil {
				return nil, pos, err
			}
			v := src[pos]
			pos++
			for range length {
				out = append(out, v)
			}

		case cmdWordFill:
			if err := need(2); err != nil {
				return nil, pos, err
			}
			pair := [2]byte{src[pos], src[pos+1]}
			pos += 2
			for i := range length {
				out = append(out, pair[i&1])
			}

		case cmdSigmaFill:
			if err := need(1); err != nil {
				return nil, pos, err
			}
			v := src[pos]
			pos++
			for i := range length {
				out = append(out, v+byte(i))
			}

		case cmdCopy, cmdCopyInverted:
			if err := need(2); err != nil {
				return nil, pos, err
			}
			from := int(src[pos]) | int(src[pos+1])<<8
			pos += 2
			var err error
			if out, err = copyBack(out, from, length, cmd == cmdCopyInverted); err != nil {
				return nil, pos, err
			}

		case cmdRelative, cmdRelativeInverted:
			if err := need(1); err != nil {
				return nil, pos, err
			}
			from := len(out) - int(src[pos])
			pos++
			var err error
			if out, err = copyBack(out, from, length, cmd == cmdRelativeInverted); err != nil {
				return nil, pos, err
			}
		}
	}
}

// copyBack appends length bytes read from out starting at from. The source may
// overlap the bytes being produced.
func copyBack(out []byte, from, length int, invert bool) ([]byte, error) {
	if from < 0 || from >= len(out) {
		return nil, fmt.Errorf("%w: back-reference to 0x%X with 0x%X bytes decoded", ErrMalformedStream, from, len(out))
	}
	for i := range length {
		v := out[from+i]
		if invert {
			v ^= 0xFF
		}
		out = append(out, v)
	}
	return out, nil
}
