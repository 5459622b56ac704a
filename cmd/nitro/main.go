package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/nitro"
	"github.com/bodgit/nitro/bitmap"
	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/jasc"
	"github.com/bodgit/nitro/ncer"
	"github.com/bodgit/nitro/ncgr"
	"github.com/bodgit/nitro/nclr"
	"github.com/bodgit/nitro/nscr"
	"github.com/bodgit/nitro/ntr"
	"github.com/urfave/cli/v2"
)

const defaultDB = "nitro.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func readNCLR(file string) (*nclr.NCLR, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	p := new(nclr.NCLR)
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

func readNCGR(file string) (*ncgr.NCGR, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	g := new(ncgr.NCGR)
	if err := g.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return g, nil
}

func ncgrImage(g *ncgr.NCGR) (*graphic.Image, error) {
	if g.Metadata().MappingMode == ntr.Mapping2D {
		return g.Image()
	}
	// 1D graphics store no width; one tile per row matches how these
	// files are usually inspected.
	return g.ImageWithWidth(graphic.TileLength)
}

func export(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	switch strings.ToLower(filepath.Ext(src)) {
	case ".nclr":
		p, err := readNCLR(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		f, err := os.Create(dest)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer f.Close()
		if err := jasc.Encode(f, p.Palette()); err != nil {
			return cli.NewExitError(err, 1)
		}
	case ".ncgr":
		g, err := readNCGR(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		m, err := ncgrImage(g)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		f, err := os.Create(dest)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer f.Close()
		if err := bitmap.Encode(f, m); err != nil {
			return cli.NewExitError(err, 1)
		}
	case ".ncer":
		b, err := ioutil.ReadFile(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		bank := new(ncer.NCER)
		if err := bank.UnmarshalBinary(b); err != nil {
			return cli.NewExitError(err, 1)
		}
		j, err := bank.JSON()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := ioutil.WriteFile(dest, j, 0644); err != nil {
			return cli.NewExitError(err, 1)
		}
	default:
		return cli.NewExitError(fmt.Errorf("cannot export %q", src), 1)
	}

	return nil
}

func doImport(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)
	like := c.String("like")

	var (
		out []byte
		err error
	)

	switch strings.ToLower(filepath.Ext(dest)) {
	case ".nclr":
		metadata := nclr.DefaultMetadata()
		if like != "" {
			original, err := readNCLR(like)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			metadata = original.Metadata()
		}
		f, err := os.Open(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		palette, err := jasc.Decode(f)
		f.Close()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		out, err = nclr.New(palette, metadata).MarshalBinary()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	case ".ncgr":
		metadata := ncgr.DefaultMetadata()
		if like != "" {
			original, err := readNCGR(like)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			metadata = original.Metadata()
		}
		f, err := os.Open(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		m, err := bitmap.Decode(f)
		f.Close()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		g, err := ncgr.FromImage(m, metadata)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		out, err = g.MarshalBinary()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	case ".ncer":
		b, err := ioutil.ReadFile(src)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		bank, err := ncer.FromJSON(b)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		out, err = bank.MarshalBinary()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	default:
		return cli.NewExitError(fmt.Errorf("cannot import to %q", dest), 1)
	}

	if err = ioutil.WriteFile(dest, out, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func render(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	screenFile, tilesFile, dest := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	b, err := ioutil.ReadFile(screenFile)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	screen := new(nscr.NSCR)
	if err := screen.UnmarshalBinary(b); err != nil {
		return cli.NewExitError(err, 1)
	}

	g, err := readNCGR(tilesFile)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	tileset, err := ncgrImage(g)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if palFile := c.String("palette"); palFile != "" {
		p, err := readNCLR(palFile)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		tileset = tileset.WithPalette(p.Palette())
	}

	m, err := screen.Image(tileset)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Create(dest)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := bitmap.Encode(f, m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func decipher(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	g, err := readNCGR(src)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	plain, key, err := g.Decipher()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	out, err := plain.MarshalBinary()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := ioutil.WriteFile(dest, out, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "key: %#08x\n", key)

	return nil
}

func cipher(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	g, err := readNCGR(src)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ciphered, err := g.Cipher(uint32(c.Uint64("key")))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	out, err := ciphered.MarshalBinary()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := ioutil.WriteFile(dest, out, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	n, err := nitro.New(c.String("db"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer n.Close()

	if err := n.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "nitro"
	app.Usage = "Nitro graphics format utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"NITRO_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to asset database",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "export",
			Usage:     "Export a Nitro file to an editable format",
			ArgsUsage: "SRC DEST",
			Action:    export,
		},
		{
			Name:      "import",
			Usage:     "Rebuild a Nitro file from an editable format",
			ArgsUsage: "SRC DEST",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "like",
					Usage: "Nitro file to copy round-trip metadata from",
				},
			},
			Action: doImport,
		},
		{
			Name:      "render",
			Usage:     "Render a screen through its tileset to a PNG",
			ArgsUsage: "NSCR NCGR DEST",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "palette",
					Usage: "NCLR palette for the tileset",
				},
			},
			Action: render,
		},
		{
			Name:      "decipher",
			Usage:     "Decipher NCGR character data and print the key",
			ArgsUsage: "SRC DEST",
			Action:    decipher,
		},
		{
			Name:      "cipher",
			Usage:     "Cipher NCGR character data under a key",
			ArgsUsage: "SRC DEST",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:  "key",
					Usage: "32-bit cipher key",
				},
			},
			Action: cipher,
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and index Nitro assets",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
