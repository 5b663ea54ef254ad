package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/cmd"
)

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Value: "default",
			Usage: "scene to render (default, cover)",
		},
		cli.IntFlag{
			Name:  "width",
			Value: 400,
			Usage: "image width in pixels",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 200,
			Usage: "image height in pixels",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 100,
			Usage: "target samples per pixel",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Value: 50,
			Usage: "maximum ray bounce depth",
		},
		cli.IntFlag{
			Name:  "tile-size",
			Value: 64,
			Usage: "tile size in pixels",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of render workers (0 = CPU count)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "base seed for the sample streams",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "render.png",
			Usage: "image filename for the rendered frame",
		},
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "livetracer"
	app.Usage = "progressive path tracer with live viewers"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "q",
			Usage: "only log warnings and errors",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file",
			Description: `
Render a scene to completion and save the result. Interrupting the render
saves whatever has accumulated so far.`,
			Flags:  renderFlags(),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "serve",
			Usage: "render while serving the progressive image over HTTP",
			Description: `
Start the render and expose it on a local web server. Browsers connect to
a websocket stream or poll JSON/PNG snapshots while the image sharpens.`,
			Flags: append(renderFlags(),
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "listen port",
				},
				cli.StringFlag{
					Name:  "static",
					Value: "web/static",
					Usage: "directory with the viewer front end",
				},
			),
			Action: cmd.Serve,
		},
		{
			Name:  "view",
			Usage: "render while following the progress in a window",
			Description: `
Start the render and watch it sharpen in a desktop window. Closing the
window cancels the render.`,
			Flags:  renderFlags(),
			Action: cmd.View,
		},
	}

	app.Run(os.Args)
}
