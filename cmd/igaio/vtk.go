package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/openspline/igaio/pkg/vtk"
)

func vtkCmd() *cli.Command {
	var (
		parametric bool
		refine     int64
		title      string
		vecPath    string
		outPath    string
	)

	return &cli.Command{
		Name:      "vtk",
		Usage:     "Export a geometry file, plus an optional solution vector, to legacy VTK",
		ArgsUsage: "geometry-file",
		Flags: append(append(profileFlags(), loggingFlags()...),
			&cli.BoolFlag{
				Name:        "parametric",
				Usage:       "write the parametric grid instead of mapped points",
				Destination: &parametric,
			},
			&cli.Int64Flag{
				Name:        "refine",
				Usage:       "subdivide every knot span into this many segments",
				Value:       1,
				Destination: &refine,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "dataset title",
				Destination: &title,
			},
			&cli.StringFlag{
				Name:        "vec",
				Usage:       "solution vector file sampled alongside the geometry",
				Destination: &vecPath,
			},
			&cli.StringSliceFlag{
				Name:  "scalar",
				Usage: "scalar attribute as name=component (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "vector",
				Usage: "vector attribute as name=c0,c1[,c2] (repeatable)",
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output .vtk file",
				Required:    true,
				Destination: &outPath,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) != 1 {
				return cli.Exit("error: expected exactly one geometry file", 2)
			}
			cfg := LoadConfig()
			applyProfileConfig(c, cfg)
			applyExportConfig(c, cfg, &refine)
			if refine < 1 {
				return cli.Exit("error: refine must be at least 1", 1)
			}

			codec, err := newCodec()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			patch, err := codec.ReadGeometry(args[0])
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			opts := vtk.Options{Title: title, Parametric: parametric}
			if refine > 1 {
				opts.Sampler = vtk.Refine(int(refine))
			}
			if vecPath != "" {
				fields, err := codec.ReadVec(vecPath, patch)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read vector: %v", err), 1)
				}
				opts.Fields = fields
			}
			if opts.Scalars, err = parseScalarAttrs(c.StringSlice("scalar")); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if opts.Vectors, err = parseVectorAttrs(c.StringSlice("vector")); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := vtk.WriteFile(outPath, patch, opts); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			newLog().Info("exported", "file", args[0], "out", outPath)
			return nil
		},
	}
}

// parseScalarAttrs parses --scalar specs. Each spec is "name=component";
// the name may be omitted, in which case the writer picks a default.
func parseScalarAttrs(specs []string) ([]vtk.ScalarAttr, error) {
	var attrs []vtk.ScalarAttr
	for _, s := range specs {
		name, comp, ok := strings.Cut(s, "=")
		if !ok {
			name, comp = "", s
		}
		n, err := strconv.Atoi(strings.TrimSpace(comp))
		if err != nil {
			return nil, fmt.Errorf("scalar attribute %q: component must be an integer", s)
		}
		attrs = append(attrs, vtk.ScalarAttr{Name: strings.TrimSpace(name), Component: n})
	}
	return attrs, nil
}

// parseVectorAttrs parses --vector specs of the form "name=c0,c1[,c2]".
func parseVectorAttrs(specs []string) ([]vtk.VectorAttr, error) {
	var attrs []vtk.VectorAttr
	for _, s := range specs {
		name, list, ok := strings.Cut(s, "=")
		if !ok {
			name, list = "", s
		}
		var comps []int
		for _, part := range strings.Split(list, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("vector attribute %q: components must be integers", s)
			}
			comps = append(comps, n)
		}
		attrs = append(attrs, vtk.VectorAttr{Name: strings.TrimSpace(name), Components: comps})
	}
	return attrs, nil
}
