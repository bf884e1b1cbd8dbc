package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ZaparooProject/go-zen"
	"github.com/ZaparooProject/go-zen/address"
	"github.com/ZaparooProject/go-zen/graphics"
	"github.com/ZaparooProject/go-zen/supermetroid"
)

var (
	// ErrInvalidScale indicates the scale factor is out of range.
	ErrInvalidScale = errors.New("scale must be between 1 and 16")

	// ErrInvalidColor indicates a color that is not RRGGBB hex.
	ErrInvalidColor = errors.New("color must be six hex digits")

	// ErrNothingToExport indicates export was given no target.
	ErrNothingToExport = errors.New("exactly one of --tileset or --state is required")
)

func load(g *Globals, path string) (*supermetroid.SuperMetroid, error) {
	g.logf("loading %s", path)
	sm, err := zen.Load(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // zen errors name the file
	}
	g.logf("found %d rooms, %d states, %d tilesets", len(sm.Rooms), len(sm.States), len(sm.Tilesets))
	return sm, nil
}

// InfoCmd prints the cartridge header and how many entities were loaded.
type InfoCmd struct {
	ROM string `arg:"" help:"ROM image, optionally compressed or inside an archive."`
}

type infoOutput struct {
	Title      string `json:"title"`
	Region     string `json:"region"`
	Checksum   string `json:"checksum"`
	Version    uint8  `json:"version"`
	FastROM    bool   `json:"fast_rom"`
	Size       int    `json:"size"`
	Rooms      int    `json:"rooms"`
	States     int    `json:"states"`
	Doors      int    `json:"doors"`
	Tilesets   int    `json:"tilesets"`
	Levels     int    `json:"levels"`
	Palettes   int    `json:"palettes"`
	Graphics   int    `json:"graphics"`
	TileTables int    `json:"tile_tables"`
}

// Run executes the info command.
func (c *InfoCmd) Run(g *Globals) error {
	sm, err := load(g, c.ROM)
	if err != nil {
		return err
	}
	out := infoOutput{
		Title:      sm.Header.Title,
		Region:     sm.Header.Region,
		Checksum:   fmt.Sprintf("%04X", sm.Header.Checksum),
		Version:    sm.Header.Version,
		FastROM:    sm.Header.FastROM,
		Size:       len(sm.ROM()),
		Rooms:      len(sm.Rooms),
		States:     len(sm.States),
		Doors:      len(sm.Doors),
		Tilesets:   len(sm.Tilesets),
		Levels:     len(sm.Levels),
		Palettes:   len(sm.Palettes),
		Graphics:   len(sm.Graphics),
		TileTables: len(sm.TileTables),
	}
	if g.JSON {
		return g.emitJSON(out)
	}

	g.printf("Title:       %s\n", out.Title)
	g.printf("Region:      %s\n", out.Region)
	g.printf("Version:     1.%d\n", out.Version)
	g.printf("Checksum:    %s\n", out.Checksum)
	g.printf("Size:        %d KiB\n", out.Size/1024)
	g.printf("Rooms:       %d\n", out.Rooms)
	g.printf("States:      %d\n", out.States)
	g.printf("Doors:       %d\n", out.Doors)
	g.printf("Tilesets:    %d\n", out.Tilesets)
	g.printf("Levels:      %d\n", out.Levels)
	g.printf("Palettes:    %d\n", out.Palettes)
	g.printf("Graphics:    %d\n", out.Graphics)
	g.printf("Tile tables: %d\n", out.TileTables)
	return nil
}

// RoomsCmd lists every room with its states.
type RoomsCmd struct {
	ROM string `arg:"" help:"ROM image, optionally compressed or inside an archive."`
}

type stateOutput struct {
	Address   string `json:"address"`
	Condition string `json:"condition"`
	Level     string `json:"level"`
	Tileset   uint8  `json:"tileset"`
}

type roomOutput struct {
	Address string        `json:"address"`
	Index   uint8         `json:"index"`
	Area    uint8         `json:"area"`
	MapX    uint8         `json:"map_x"`
	MapY    uint8         `json:"map_y"`
	Width   uint8         `json:"width"`
	Height  uint8         `json:"height"`
	Doors   int           `json:"doors"`
	States  []stateOutput `json:"states"`
}

// Run executes the rooms command.
func (c *RoomsCmd) Run(g *Globals) error {
	sm, err := load(g, c.ROM)
	if err != nil {
		return err
	}

	rooms := make([]roomOutput, 0, len(sm.Rooms))
	for _, addr := range slices.Sorted(maps.Keys(sm.Rooms)) {
		room := sm.Rooms[addr]
		ro := roomOutput{
			Address: addr.String(),
			Index:   room.Index,
			Area:    room.Area,
			MapX:    room.MapX,
			MapY:    room.MapY,
			Width:   room.Width,
			Height:  room.Height,
			Doors:   len(sm.RoomDoors[addr]),
		}
		for _, cond := range room.Conditions {
			so := stateOutput{Address: cond.State.String(), Condition: cond.Code.String()}
			if st, ok := sm.States[cond.State]; ok {
				so.Level = st.LevelData.String()
				so.Tileset = st.Tileset
			}
			ro.States = append(ro.States, so)
		}
		rooms = append(rooms, ro)
	}

	if g.JSON {
		return g.emitJSON(rooms)
	}
	for _, r := range rooms {
		g.printf("%s  area %d  map (%d,%d)  %dx%d  %d doors\n",
			r.Address, r.Area, r.MapX, r.MapY, r.Width, r.Height, r.Doors)
		for _, s := range r.States {
			g.printf("    %s  %-14s level %s  tileset %d\n", s.Address, s.Condition, s.Level, s.Tileset)
		}
	}
	return nil
}

// ExportCmd writes a PNG of a tileset, a room state or a tileset palette.
type ExportCmd struct {
	ROM          string `arg:"" help:"ROM image, optionally compressed or inside an archive."`
	Out          string `short:"o" required:"" help:"PNG file to write."`
	Tileset      int    `default:"-1" help:"Tileset index to render."`
	State        string `help:"State address to render, e.g. 8F:91F8."`
	Swatches     bool   `help:"Render the tileset palette instead of its blocks."`
	Scale        int    `default:"1" help:"Integer scale factor (1-16)."`
	BlocksPerRow int    `default:"32" help:"Blocks per row when rendering a tileset."`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	if c.Scale < 1 || c.Scale > 16 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, c.Scale)
	}
	if (c.State != "") == (c.Tileset >= 0) {
		return ErrNothingToExport
	}
	sm, err := load(g, c.ROM)
	if err != nil {
		return err
	}

	var img image.Image
	if c.State != "" {
		img, err = c.renderState(sm)
	} else {
		img, err = c.renderTileset(sm)
	}
	if err != nil {
		return err
	}
	if c.Scale > 1 {
		img = graphics.Scale(img, c.Scale)
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Out, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Out, err)
	}
	g.logf("wrote %s (%dx%d)", c.Out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func (c *ExportCmd) renderState(sm *supermetroid.SuperMetroid) (image.Image, error) {
	addr, err := address.Parse(c.State)
	if err != nil {
		return nil, err //nolint:wrapcheck // already names the input
	}
	data, err := sm.GetStateData(addr)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", addr, err)
	}
	if c.Swatches {
		return data.Palette.Swatches(), nil
	}
	colors, width, err := sm.StateIndexedColors(addr)
	if err != nil {
		return nil, fmt.Errorf("render state %s: %w", addr, err)
	}
	return data.Palette.Image(colors, width) //nolint:wrapcheck // size errors are descriptive
}

func (c *ExportCmd) renderTileset(sm *supermetroid.SuperMetroid) (image.Image, error) {
	index := c.Tileset
	pal, _, _, err := sm.GetTilesetData(index)
	if err != nil {
		return nil, fmt.Errorf("tileset %d: %w", index, err)
	}
	if c.Swatches {
		return pal.Swatches(), nil
	}
	colors, err := sm.TilesetIndexedColors(index, c.BlocksPerRow)
	if err != nil {
		return nil, fmt.Errorf("render tileset %d: %w", index, err)
	}
	return pal.Image(colors, c.BlocksPerRow*supermetroid.BlockSize) //nolint:wrapcheck // size errors are descriptive
}

// SetColorCmd edits one color of a tileset palette.
type SetColorCmd struct {
	ROM     string `arg:"" help:"ROM image, optionally compressed."`
	Tileset int    `required:"" help:"Tileset whose palette to edit."`
	Sub     uint8  `required:"" help:"Sub-palette (0-7)."`
	Index   uint8  `required:"" help:"Color within the sub-palette (0-15)."`
	Color   string `arg:"" help:"New color as RRGGBB hex."`
	Out     string `short:"o" help:"Write here instead of over the input."`
	Backup  string `help:"Keep the previous file compressed with this extension (.zst, .gz, .xz)."`
}

// Run executes the set-color command.
func (c *SetColorCmd) Run(g *Globals) error {
	rgb, err := parseColor(c.Color)
	if err != nil {
		return err
	}
	g.logf("loading %s", c.ROM)
	s, err := zen.Open(c.ROM)
	if err != nil {
		return err //nolint:wrapcheck // zen errors name the file
	}

	ic := graphics.IndexedColor{SubPalette: c.Sub, Index: c.Index}
	err = s.Update(func(sm *zen.SuperMetroid) error {
		pal, _, _, err := sm.GetTilesetData(c.Tileset)
		if err != nil {
			return fmt.Errorf("tileset %d: %w", c.Tileset, err)
		}
		if !pal.SetColor(ic, rgb) {
			return fmt.Errorf("%w: sub-palette %d color %d", supermetroid.ErrNotFound, c.Sub, c.Index)
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = c.ROM
	}
	remap, err := s.SaveAs(out, zen.SaveOptions{Backup: c.Backup})
	if err != nil {
		return err //nolint:wrapcheck // zen errors are wrapped
	}
	reportRemap(g, remap)
	g.printf("set tileset %d color %d:%d to %s\n", c.Tileset, c.Sub, c.Index, strings.ToUpper(c.Color))
	return nil
}

// ResaveCmd loads and saves an image unchanged apart from its checksum.
type ResaveCmd struct {
	ROM    string `arg:"" help:"ROM image, optionally compressed or inside an archive."`
	Out    string `arg:"" help:"Output file; a .gz, .zst or .xz extension compresses it."`
	Backup string `help:"Keep the previous output compressed with this extension."`
}

// Run executes the resave command.
func (c *ResaveCmd) Run(g *Globals) error {
	sm, err := load(g, c.ROM)
	if err != nil {
		return err
	}
	remap, err := zen.Save(c.Out, sm, zen.SaveOptions{Backup: c.Backup})
	if err != nil {
		return err //nolint:wrapcheck // zen errors are wrapped
	}
	reportRemap(g, remap)
	if g.JSON {
		return g.emitJSON(map[string]any{"checksum": fmt.Sprintf("%04X", sm.Header.Checksum), "moved": len(remap)})
	}
	g.printf("wrote %s, checksum %04X\n", c.Out, sm.Header.Checksum)
	return nil
}

func reportRemap(g *Globals, remap zen.Remap) {
	for _, from := range slices.Sorted(maps.Keys(remap)) {
		g.logf("moved %s -> %s", from, remap[from])
	}
}

func parseColor(s string) (graphics.Rgb888, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return graphics.Rgb888{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return graphics.Rgb888{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return graphics.Rgb888{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
