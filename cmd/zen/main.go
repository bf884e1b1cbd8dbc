// Command zen inspects and edits Super Metroid ROM images.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

const appVersion = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	stdout io.Writer `kong:"-"`
	stderr io.Writer `kong:"-"`

	JSON    bool `help:"Output as JSON."`
	Verbose bool `short:"v" help:"Report progress on stderr."`
}

func (g *Globals) logf(format string, args ...any) {
	if g.Verbose {
		_, _ = fmt.Fprintf(g.stderr, format+"\n", args...)
	}
}

func (g *Globals) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(g.stdout, format, args...)
}

func (g *Globals) emitJSON(v any) error {
	enc := json.NewEncoder(g.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// CLI is the command-line interface.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Print version and exit."`

	Info     InfoCmd     `cmd:"" help:"Show the cartridge header and asset counts."`
	Rooms    RoomsCmd    `cmd:"" help:"List rooms found from the door graph."`
	Export   ExportCmd   `cmd:"" help:"Render a tileset, a room state or a palette to PNG."`
	SetColor SetColorCmd `cmd:"" name:"set-color" help:"Change one palette color and save."`
	Resave   ResaveCmd   `cmd:"" help:"Load and save an image, fixing its checksum."`
}

func run(args []string, stdout, stderr io.Writer, opts ...kong.Option) error {
	cli := &CLI{}
	cli.stdout, cli.stderr = stdout, stderr

	opts = append([]kong.Option{
		kong.Name("zen"),
		kong.Description("Inspect and edit Super Metroid ROM images."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "zen v" + appVersion},
	}, opts...)

	parser, err := kong.New(cli, opts...)
	if err != nil {
		return fmt.Errorf("build parser: %w", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err //nolint:wrapcheck // parse errors are shown as is
	}
	return ctx.Run(&cli.Globals) //nolint:wrapcheck // command errors are already wrapped
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
