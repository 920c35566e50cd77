package main

import (
	"context"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/openspline/igaio/pkg/nurbs"
)

type axisInfo struct {
	Degree    int        `json:"degree"`
	KnotCount int        `json:"knot_count"`
	Domain    [2]float64 `json:"domain"`
	Knots     []float64  `json:"knots,omitempty"`
}

type patchInfo struct {
	File       string     `json:"file"`
	Dimension  int        `json:"dimension"`
	Degree     []int      `json:"degree"`
	GridShape  []int      `json:"grid_shape"`
	HasControl bool       `json:"has_control"`
	Axes       []axisInfo `json:"axes"`
}

func infoCmd() *cli.Command {
	var (
		asJSON    bool
		showKnots bool
	)

	return &cli.Command{
		Name:      "info",
		Usage:     "Summarise the topology of geometry files",
		ArgsUsage: "file...",
		Flags: append(profileFlags(),
			&cli.BoolFlag{Name: "json", Usage: "emit a JSON summary", Destination: &asJSON},
			&cli.BoolFlag{Name: "knots", Usage: "include full knot vectors", Destination: &showKnots},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("error: no input files", 2)
			}
			applyProfileConfig(c, LoadConfig())
			codec, err := newCodec()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			infos := make([]patchInfo, 0, len(files))
			for _, path := range files {
				patch, err := codec.ReadGeometry(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %s: %v", path, err), 1)
				}
				infos = append(infos, describePatch(path, patch, showKnots))
			}

			if asJSON {
				out, err := gojson.MarshalIndent(infos, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println(string(out))
				return nil
			}

			for _, info := range infos {
				printPatchInfo(info)
			}
			return nil
		},
	}
}

func describePatch(path string, p *nurbs.Patch, withKnots bool) patchInfo {
	knots := p.Knots()
	degree := p.Degree()
	axes := make([]axisInfo, len(knots))
	for k, U := range knots {
		deg := degree[k]
		axes[k] = axisInfo{
			Degree:    deg,
			KnotCount: len(U),
			Domain:    [2]float64{U[deg], U[len(U)-1-deg]},
		}
		if withKnots {
			axes[k].Knots = U
		}
	}
	return patchInfo{
		File:       path,
		Dimension:  p.Dimension(),
		Degree:     degree,
		GridShape:  p.GridShape(),
		HasControl: p.Control() != nil,
		Axes:       axes,
	}
}

func printPatchInfo(info patchInfo) {
	control := "no"
	if info.HasControl {
		control = "yes"
	}
	fmt.Printf("File: %s\n", info.File)
	fmt.Printf("dim=%d | degree=%v | grid=%v | control=%s\n",
		info.Dimension, info.Degree, info.GridShape, control)
	for k, ax := range info.Axes {
		fmt.Printf("  axis %d: degree %d, %d knots, domain [%g, %g]\n",
			k, ax.Degree, ax.KnotCount, ax.Domain[0], ax.Domain[1])
		if ax.Knots != nil {
			fmt.Printf("    knots: %v\n", ax.Knots)
		}
	}
}
