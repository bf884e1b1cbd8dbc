// Package testrom builds small synthetic Super Metroid images for tests.
//
// The image holds two rooms at the vanilla seed addresses connected by doors,
// two tilesets, CRE data at the vanilla location and an empty free bank.
// Room 1 is 2x1 screens with an event state on tileset 1 and a default state
// on tileset 0; room 2 is 1x1 screens with a default state on tileset 0.
package testrom

import (
	"bytes"

	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/compression"
	"github.com/ZaparooProject/go-zen/graphics"
	"github.com/ZaparooProject/go-zen/internal/binary"
)

// Image geometry.
const (
	Size         = 0x300000
	HeaderOffset = 0x7FC0
	DataStart    = 0x210000
	FreeStart    = 0x1C0000
	FreeEnd      = 0x1C8000
	TilesetCount = 29
)

// Fixed addresses.
const (
	Room1        address.Address = 0x8F91F8
	Room2        address.Address = 0x8FDF45
	TilesetTable address.Address = 0x8FE7A7
	TilesetA     address.Address = 0x8FE6A2
	TilesetB     address.Address = 0x8FE6AB
	CREGfx       address.Address = 0xB98000
	CRETileTable address.Address = 0xB9A09D
	DoorA        address.Address = 0x838A00
	DoorB        address.Address = 0x838A0C
	DoorElevator address.Address = 0x838A18
)

// Addresses derived from the room layout.
const (
	Room1EventState   address.Address = 0x8F9224
	Room1DefaultState address.Address = 0x8F920A
	Room1DoorList     address.Address = 0x8F923E
	Room2DefaultState address.Address = 0x8FDF52
	Room2DoorList     address.Address = 0x8FDF6C
)

// Entity sizes.
const (
	GfxTilesA       = 0x40
	GfxTilesB       = 0x20
	CRETiles        = 0x20
	TileTableBlocks = 0x40
	CREBlocks       = 0x10
)

// Fixture is a built image and the addresses of its compressed entities.
type Fixture struct {
	ROM        []byte
	Palettes   [2]address.Address
	Graphics   [2]address.Address
	TileTables [2]address.Address
	Levels     [2]address.Address
}

type builder struct {
	rom    []byte
	cursor int
}

// New builds the fixture image.
func New() *Fixture {
	b := &builder{rom: bytes.Repeat([]byte{0xFF}, Size), cursor: DataStart}
	f := &Fixture{}

	f.Palettes[0] = b.compressed(Palette(0))
	f.Palettes[1] = b.compressed(Palette(1))
	f.Graphics[0] = b.compressed(Graphics(GfxTilesA, 0))
	f.Graphics[1] = b.compressed(Graphics(GfxTilesB, 1))
	f.TileTables[0] = b.compressed(TileTable(TileTableBlocks, GfxTilesA, 0))
	f.TileTables[1] = b.compressed(TileTable(TileTableBlocks/2, GfxTilesB, 1))
	f.Levels[0] = b.compressed(Level(2, 1, true))
	f.Levels[1] = b.compressed(Level(1, 1, false))

	b.put(CREGfx, compression.Compress(Graphics(CRETiles, 2)))
	b.put(CRETileTable, compression.Compress(TileTable(CREBlocks, CRETiles, 2)))

	b.put(TilesetA, tileset(f.TileTables[0], f.Graphics[0], f.Palettes[0]))
	b.put(TilesetB, tileset(f.TileTables[1], f.Graphics[1], f.Palettes[1]))
	var table []byte
	for i := range TilesetCount {
		rec := TilesetA
		if i == 1 {
			rec = TilesetB
		}
		table = binary.AppendUint16(table, rec.Offset())
	}
	b.put(TilesetTable, table)

	// Room 1: event condition, default condition, default state, event state, door list.
	room1 := roomHeader(2, 1, Room1DoorList.Offset())
	room1 = binary.AppendUint16(room1, 0xE612)
	room1 = append(room1, 0x0E)
	room1 = binary.AppendUint16(room1, Room1EventState.Offset())
	room1 = binary.AppendUint16(room1, 0xE5E6)
	room1 = append(room1, state(f.Levels[0], 0)...)
	room1 = append(room1, state(f.Levels[0], 1)...)
	room1 = binary.AppendUint16(room1, DoorA.Offset())
	room1 = binary.AppendUint16(room1, 0x0000)
	b.put(Room1, room1)

	room2 := roomHeader(1, 1, Room2DoorList.Offset())
	room2 = binary.AppendUint16(room2, 0xE5E6)
	room2 = append(room2, state(f.Levels[1], 0)...)
	room2 = binary.AppendUint16(room2, DoorB.Offset())
	room2 = binary.AppendUint16(room2, DoorElevator.Offset())
	room2 = binary.AppendUint16(room2, 0x0000)
	b.put(Room2, room2)

	b.put(DoorA, door(Room2.Offset(), 0x04))
	b.put(DoorB, door(Room1.Offset(), 0x05))
	b.put(DoorElevator, door(0, 0x00))

	writeHeader(b.rom)
	f.ROM = b.rom
	return f
}

func (b *builder) compressed(raw []byte) address.Address {
	c := compression.Compress(raw)
	addr := address.FromPC(b.cursor)
	copy(b.rom[b.cursor:], c)
	b.cursor += len(c)
	return addr
}

func (b *builder) put(addr address.Address, data []byte) {
	copy(b.rom[PC(addr):], data)
}

// PC returns the file offset of addr and panics for addresses outside ROM.
func PC(addr address.Address) int {
	pc, err := address.ToPC(addr)
	if err != nil {
		panic(err)
	}
	return pc
}

func writeHeader(rom []byte) {
	h := rom[HeaderOffset : HeaderOffset+0x20]
	copy(h, "Super Metroid        ")
	h[0x15] = 0x30 // FastROM LoROM
	h[0x16] = 0x02
	h[0x17] = 0x0C
	h[0x18] = 0x03
	h[0x19] = 0x01 // North America
	h[0x1A] = 0x33
	h[0x1B] = 0x00
	FixChecksum(rom)
}

// FixChecksum rewrites the header checksum after the image was modified.
func FixChecksum(rom []byte) {
	h := rom[HeaderOffset : HeaderOffset+0x20]
	h[0x1C], h[0x1D], h[0x1E], h[0x1F] = 0xFF, 0xFF, 0x00, 0x00
	sum := binary.MirroredSum(rom)
	c := ^sum
	h[0x1C], h[0x1D] = byte(c), byte(c>>8)
	h[0x1E], h[0x1F] = byte(sum), byte(sum>>8)
}

func roomHeader(width, height uint8, doors uint16) []byte {
	out := []byte{0x00, 0x00, 0x0A, 0x04, width, height, 0x70, 0xA0, 0x00}
	return binary.AppendUint16(out, doors)
}

func state(level address.Address, tileset uint8) []byte {
	out := binary.AppendUint24(nil, level.Long())
	out = append(out, tileset, 0x09, 0x05)
	for _, w := range []uint16{0x8000, 0x8D9E, 0x83A0, 0x0101, 0x0000, 0x0000, 0x0000, 0x8C10, 0x0000, 0x91C9} {
		out = binary.AppendUint16(out, w)
	}
	return out
}

func door(dest uint16, direction uint8) []byte {
	out := binary.AppendUint16(nil, dest)
	out = append(out, 0x00, direction, 0x01, 0x06, 0x00, 0x00)
	out = binary.AppendUint16(out, 0x8000)
	return binary.AppendUint16(out, 0x0000)
}

func tileset(tileTable, gfx, palette address.Address) []byte {
	out := binary.AppendUint24(nil, tileTable.Long())
	out = binary.AppendUint24(out, gfx.Long())
	return binary.AppendUint24(out, palette.Long())
}

// Palette returns 8 sub-palettes of BGR555 data with bit 15 clear.
func Palette(seed int) []byte {
	out := make([]byte, 0, graphics.PaletteBytes)
	for i := range graphics.PaletteBytes / 2 {
		v := uint16(i*0x111+seed*0x421) & 0x7FFF
		if i%graphics.ColorsBySubPalette == 0 {
			v = 0
		}
		out = binary.AppendUint16(out, v)
	}
	return out
}

// Graphics returns n tiles of 4bpp planar data.
func Graphics(n, seed int) []byte {
	g := &graphics.Gfx{Tiles: make([]graphics.Tile, n)}
	for t := range g.Tiles {
		for y := range graphics.GfxTileWidth {
			for x := range graphics.GfxTileWidth {
				g.Tiles[t][y*graphics.GfxTileWidth+x] = uint8((x^y)+t+seed) & 0xF
			}
		}
	}
	return g.Serialize()
}

// TileTable returns blocks tile table entries over tiles tiles. Every eighth
// block draws from the CRE range.
func TileTable(blocks, tiles, seed int) []byte {
	var out []byte
	for i := range blocks {
		for q := range 4 {
			tile := uint16((i*4 + q) % tiles)
			if i%8 == 7 {
				tile = uint16(0x280 + (i+q)%CRETiles)
			}
			w := tile | uint16((i+seed)%8)<<10
			if q == 1 {
				w |= 1 << 14
			}
			if i%3 == 0 {
				w |= 1 << 15
			}
			out = binary.AppendUint16(out, w)
		}
	}
	return out
}

// Level returns decompressed level data for a room of width x height screens:
// a solid border, a row of slopes and air elsewhere.
func Level(width, height int, layer2 bool) []byte {
	w, h := width*16, height*16
	n := w * h
	layer1 := make([]byte, 0, 2*n)
	bts := make([]byte, 0, n)
	for y := range h {
		for x := range w {
			var block uint16
			var b byte
			switch {
			case x == 0 || y == 0 || x == w-1 || y == h-1:
				block = 8<<12 | uint16(0x10+x%4)
			case y == h-3:
				block = 1<<12 | 0x20
				b = 0x07
				if x%2 == 1 {
					block |= 1 << 10
					b |= 0x40
				}
			default:
				block = uint16(x*y) % 0x40
			}
			layer1 = binary.AppendUint16(layer1, block)
			bts = append(bts, b)
		}
	}

	out := binary.AppendUint16(nil, uint16(2*n))
	out = append(out, layer1...)
	out = append(out, bts...)
	if layer2 {
		for i := range n {
			out = binary.AppendUint16(out, uint16(i%0x40))
		}
	}
	return out
}
