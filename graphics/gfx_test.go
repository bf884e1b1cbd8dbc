package graphics

import (
	"bytes"
	"testing"

	"github.com/ZaparooProject/go-zen/compression"
)

// diagonalTile builds a tile whose pixel (x, y) has index (x + y) & 0xF.
func diagonalTile() Tile {
	var t Tile
	for y := range GfxTileWidth {
		for x := range GfxTileWidth {
			t[y*GfxTileWidth+x] = uint8((x + y) & 0xF)
		}
	}
	return t
}

func TestDecodeTilePlanes(t *testing.T) {
	raw := make([]byte, GfxTileBytes)
	raw[0] = 0x80  // row 0, plane 0, pixel 0
	raw[1] = 0x40  // row 0, plane 1, pixel 1
	raw[16] = 0x20 // row 0, plane 2, pixel 2
	raw[17] = 0x10 // row 0, plane 3, pixel 3
	raw[14] = 0x01 // row 7, plane 0, pixel 7
	raw[31] = 0x01 // row 7, plane 3, pixel 7

	g := ParseTiles(raw)
	if len(g.Tiles) != 1 {
		t.Fatalf("len(Tiles) = %d, want 1", len(g.Tiles))
	}
	tile := g.Tiles[0]

	want := map[[2]int]uint8{{0, 0}: 1, {1, 0}: 2, {2, 0}: 4, {3, 0}: 8, {7, 7}: 9, {4, 0}: 0}
	for pos, idx := range want {
		if got := tile.At(pos[0], pos[1]); got != idx {
			t.Errorf("At(%d, %d) = %d, want %d", pos[0], pos[1], got, idx)
		}
	}
}

func TestGfxRoundTrip(t *testing.T) {
	tiles := []Tile{diagonalTile(), {}, diagonalTile()}
	tiles[1][5] = 0xF

	g := &Gfx{Tiles: tiles, Trailing: []byte{0xAB, 0xCD}}
	raw := g.Serialize()
	if len(raw) != 3*GfxTileBytes+2 {
		t.Fatalf("len(Serialize()) = %d", len(raw))
	}

	back := ParseTiles(raw)
	if len(back.Tiles) != 3 || back.Tiles[1][5] != 0xF || back.Tiles[2] != tiles[2] {
		t.Errorf("ParseTiles(Serialize()) lost tile data")
	}
	if !bytes.Equal(back.Trailing, []byte{0xAB, 0xCD}) {
		t.Errorf("Trailing = % X", back.Trailing)
	}
	if !bytes.Equal(back.Serialize(), raw) {
		t.Error("second Serialize() differs")
	}
}

func TestParseGraphicsCompressed(t *testing.T) {
	g := &Gfx{Tiles: []Tile{diagonalTile(), diagonalTile()}}
	compressed := compression.Compress(g.Serialize())

	got, err := ParseGraphics(compressed)
	if err != nil {
		t.Fatalf("ParseGraphics() error = %v", err)
	}
	if len(got.Tiles) != 2 || got.Tiles[1] != diagonalTile() {
		t.Error("ParseGraphics() tiles mismatch")
	}

	if _, err := ParseGraphics([]byte{0x05, 0x00}); err == nil {
		t.Error("ParseGraphics(malformed) error = nil")
	}
}

func TestTileFlipped(t *testing.T) {
	tile := diagonalTile()
	tile[0] = 0xC

	h := tile.Flipped(true, false)
	if h.At(7, 0) != 0xC {
		t.Errorf("h-flip At(7,0) = %d, want 12", h.At(7, 0))
	}
	v := tile.Flipped(false, true)
	if v.At(0, 7) != 0xC {
		t.Errorf("v-flip At(0,7) = %d, want 12", v.At(0, 7))
	}
	hv := tile.Flipped(true, true)
	if hv.At(7, 7) != 0xC {
		t.Errorf("hv-flip At(7,7) = %d, want 12", hv.At(7, 7))
	}
	if same := tile.Flipped(false, false); same != tile {
		t.Error("no-flip changed the tile")
	}
}

func TestGfxIndexedColorsSheet(t *testing.T) {
	g := &Gfx{Tiles: []Tile{{}, diagonalTile(), {}}}
	colors := g.IndexedColors(2, 2)

	// 2 tiles per row, 2 rows.
	if len(colors) != 16*16 {
		t.Fatalf("len = %d, want %d", len(colors), 16*16)
	}
	// Tile 1 sits at x=8..15, y=0..7.
	if got := colors[3*16+8+2]; got != (IndexedColor{SubPalette: 2, Index: 5}) {
		t.Errorf("pixel = %+v", got)
	}
	if g.IndexedColors(0, 0) != nil {
		t.Error("IndexedColors(tilesPerRow=0) != nil")
	}

	if _, ok := g.Tile(3); ok {
		t.Error("Tile(3) ok = true")
	}
	clone := g.Clone()
	clone.Tiles[1][0] = 0xF
	if g.Tiles[1][0] == 0xF {
		t.Error("Clone() shares tiles")
	}
}
