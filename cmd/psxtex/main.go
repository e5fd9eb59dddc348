package main

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	// Self-registering decoders for QOI and WebP input.
	_ "github.com/ccmtaylor/qoi"
	_ "github.com/deepteams/webp"

	"github.com/bodgit/psxtex"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func options(c *cli.Context) (psxtex.Options, error) {
	opts := psxtex.Options{
		BPP:      c.Int("bpp"),
		ForceSTP: c.Bool("force-stp"),
		STPBlack: c.Bool("stp-black"),
	}

	switch opts.BPP {
	case 4, 8, 16:
		return opts, nil
	default:
		return opts, cli.Exit("bpp must be 4, 8 or 16", 1)
	}
}

func logger(c *cli.Context) *log.Logger {
	l := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		l.SetOutput(os.Stderr)
	}
	return l
}

func main() {
	app := cli.NewApp()

	app.Name = "psxtex"
	app.Usage = "PlayStation 1 image/texture data converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "bpp",
			Aliases: []string{"b"},
			Value:   16,
			Usage:   "color depth (4/8bpp indexed color or 16bpp RGB)",
		},
		&cli.BoolFlag{
			Name:    "force-stp",
			Aliases: []string{"s"},
			Usage:   "set the semitransparency flag on all pixels (useful when using additive or subtractive blending)",
		},
		&cli.BoolFlag{
			Name:    "stp-black",
			Aliases: []string{"S"},
			Usage:   "use semitransparent black instead of solid dark gray for black pixels (useful when drawing with blending disabled)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert an image file to raw GPU data",
			ArgsUsage: "INPUT IMAGEOUT [CLUTOUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return err
				}

				clutOutput := c.Args().Get(2)
				if opts.BPP != 16 && clutOutput == "" {
					return cli.Exit("path to palette data must be specified", 1)
				}

				p := psxtex.New(opts, logger(c))

				if err := p.ConvertFile(c.Args().Get(0), c.Args().Get(1), clutOutput); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Convert every image file under a directory",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return err
				}

				p := psxtex.New(opts, logger(c))

				if err := p.Batch(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
