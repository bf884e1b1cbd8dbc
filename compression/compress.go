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

const (
	chainDepth   = 64
	maxAbsOffset = 0xFFFF
	maxRelative  = 0xFF
)

// Compress encodes data so that Decompress returns it unchanged. Output is
// built greedily and is not byte-identical to the streams shipped in the game.
// The inverted copy commands are never emitted.
func Compress(data []byte) []byte {
	c := &compressor{
		data: data,
		out:  make([]byte, 0, len(data)/2+8),
		head: make(map[uint32]int),
		prev: make([]int, len(data)),
	}
	return c.run()
}

type compressor struct {
	data   []byte
	out    []byte
	head   map[uint32]int
	prev   []int
	litPos int
	litLen int
}

type candidate struct {
	cmd     byte
	length  int
	payload []byte
}

// gain is the number of bytes saved over emitting the same run as literals.
func (c candidate) gain() int {
	return c.length - headerLen(c.length) - len(c.payload)
}

func headerLen(n int) int {
	if n <= maxShortLen {
		return 1
	}
	return 2
}

func (c *compressor) run() []byte {
	i := 0
	for i < len(c.data) {
		best := c.best(i)
		if best.gain() <= 0 {
			if c.litLen == 0 {
				c.litPos = i
			}
			c.litLen++
			c.insert(i)
			i++
			if c.litLen == maxLen {
				c.flushLiterals()
			}
			continue
		}

		c.flushLiterals()
		c.emit(best.cmd, best.length)
		c.out = append(c.out, best.payload...)
		for j := i; j < i+best.length; j++ {
			c.insert(j)
		}
		i += best.length
	}
	c.flushLiterals()
	return append(c.out, terminator)
}

func (c *compressor) emit(cmd byte, n int) {
	if n <= maxShortLen {
		c.out = append(c.out, cmd<<5|byte(n-1))
		return
	}
	c.out = append(c.out, cmdExtended<<5|cmd<<2|byte((n-1)>>8), byte(n-1))
}

func (c *compressor) flushLiterals() {
	if c.litLen == 0 {
		return
	}
	c.emit(cmdLiteral, c.litLen)
	c.out = append(c.out, c.data[c.litPos:c.litPos+c.litLen]...)
	c.litLen = 0
}

func (c *compressor) key(i int) (uint32, bool) {
	if i+2 >= len(c.data) {
		return 0, false
	}
	return uint32(c.data[i])<<16 | uint32(c.data[i+1])<<8 | uint32(c.data[i+2]), true
}

func (c *compressor) insert(i int) {
	k, ok := c.key(i)
	if !ok {
		return
	}
	if p, found := c.head[k]; found {
		c.prev[i] = p
	} else {
		c.prev[i] = -1
	}
	c.head[k] = i
}

func (c *compressor) limit(i int) int {
	return min(maxLen, len(c.data)-i)
}

// best returns the run starting at i that saves the most bytes.
func (c *compressor) best(i int) candidate {
	limit := c.limit(i)
	best := candidate{}

	consider := func(cand candidate) {
		if cand.length > 0 && cand.gain() > best.gain() {
			best = cand
		}
	}

	consider(c.byteFill(i, limit))
	consider(c.wordFill(i, limit))
	consider(c.sigmaFill(i, limit))
	consider(c.copy(i, limit))
	return best
}

func (c *compressor) byteFill(i, limit int) candidate {
	v := c.data[i]
	n := 1
	for n < limit && c.data[i+n] == v {
		n++
	}
	return candidate{cmd: cmdByteFill, length: n, payload: []byte{v}}
}

func (c *compressor) wordFill(i, limit int) candidate {
	if limit < 2 {
		return candidate{}
	}
	pair := [2]byte{c.data[i], c.data[i+1]}
	n := 2
	for n < limit && c.data[i+n] == pair[n&1] {
		n++
	}
	return candidate{cmd: cmdWordFill, length: n, payload: pair[:]}
}

func (c *compressor) sigmaFill(i, limit int) candidate {
	v := c.data[i]
	n := 1
	for n < limit && c.data[i+n] == v+byte(n) {
		n++
	}
	return candidate{cmd: cmdSigmaFill, length: n, payload: []byte{v}}
}

func (c *compressor) copy(i, limit int) candidate {
	k, ok := c.key(i)
	if !ok {
		return candidate{}
	}
	p, found := c.head[k]
	if !found {
		return candidate{}
	}

	best := candidate{}
	for depth := 0; p >= 0 && depth < chainDepth; depth++ {
		n := 0
		for n < limit && c.data[p+n] == c.data[i+n] {
			n++
		}

		var cand candidate
		switch {
		case i-p <= maxRelative:
			cand = candidate{cmd: cmdRelative, length: n, payload: []byte{byte(i - p)}}
		case p <= maxAbsOffset:
			cand = candidate{cmd: cmdCopy, length: n, payload: []byte{byte(p), byte(p >> 8)}}
		}
		if cand.length > 0 && cand.gain() > best.gain() {
			best = cand
		}
		if n == limit && cand.length > 0 {
			break
		}
		p = c.prev[p]
	}
	return best
}
