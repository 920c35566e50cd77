package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/openspline/igaio/pkg/petiga"
)

func convertCmd() *cli.Command {
	var (
		toPrecision string
		toScalar    string
		toIndices   string
		topology    bool
		nsd         int
		outPath     string
		jobs        int
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Re-encode PetIGA files with a different wire profile",
		ArgsUsage: "file...",
		Flags: append(append(profileFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "to-precision",
				Usage:       "output precision (defaults to --precision)",
				Destination: &toPrecision,
			},
			&cli.StringFlag{
				Name:        "to-scalar",
				Usage:       "output scalar kind (defaults to --scalar)",
				Destination: &toScalar,
			},
			&cli.StringFlag{
				Name:        "to-indices",
				Usage:       "output index width (defaults to --indices)",
				Destination: &toIndices,
			},
			&cli.BoolFlag{
				Name:        "topology",
				Usage:       "strip control points from geometry files",
				Destination: &topology,
			},
			&cli.IntFlag{
				Name:        "nsd",
				Usage:       "embed geometry control points in this many spatial dimensions",
				Destination: &nsd,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file, or directory for multiple inputs",
				Required:    true,
				Destination: &outPath,
			},
			&cli.IntFlag{
				Name:        "jobs",
				Usage:       "max concurrent conversions",
				Value:       runtime.NumCPU(),
				Destination: &jobs,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("error: no input files", 2)
			}
			applyProfileConfig(c, LoadConfig())

			in, err := newCodec()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if toPrecision == "" {
				toPrecision = precisionName
			}
			if toScalar == "" {
				toScalar = scalarName
			}
			if toIndices == "" {
				toIndices = indicesName
			}
			out, err := codecFor(toPrecision, toScalar, toIndices)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			many := len(files) > 1
			if many {
				if err := os.MkdirAll(outPath, 0o755); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			if jobs < 1 {
				jobs = 1
			}

			log := newLog()
			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(jobs)
			for _, path := range files {
				g.Go(func() error {
					dst := outputPath(outPath, path, many)
					kind, err := convertFile(in, out, path, dst, topology, nsd)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					log.Info("converted", "file", path, "kind", kind, "out", dst)
					return nil
				})
			}
			return g.Wait()
		},
	}
}

// convertFile re-encodes one file, working out whether it holds a
// geometry, a vector or a matrix from the leading classid.
func convertFile(in, out *petiga.Codec, src, dst string, topology bool, nsd int) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}

	patch, err := in.DecodeGeometry(bytes.NewReader(data))
	if err == nil {
		var opts []petiga.GeometryOption
		if topology {
			opts = append(opts, petiga.TopologyOnly())
		}
		if nsd > 0 {
			opts = append(opts, petiga.WithSpatialDims(nsd))
		}
		return "geometry", out.WriteGeometry(dst, patch, opts...)
	}
	if !errors.Is(err, petiga.ErrBadMagic) {
		return "", err
	}
	return convertPayload(in, out, data, dst)
}

// convertPayload handles vector and matrix files. Vectors re-encode in
// wire order, so no geometry is needed to carry them across profiles.
func convertPayload(in, out *petiga.Codec, data []byte, dst string) (string, error) {
	if in.Profile().Scalar == petiga.ScalarComplex {
		v, err := in.DecodeVecComplex(bytes.NewReader(data), nil)
		if err == nil {
			return "vec", out.WriteVecComplex(dst, v.Data(), nil)
		}
		if !errors.Is(err, petiga.ErrBadMagic) {
			return "", err
		}
		m, err := in.DecodeMatComplex(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		return "mat", out.WriteMatComplex(dst, m)
	}

	v, err := in.DecodeVec(bytes.NewReader(data), nil)
	if err == nil {
		return "vec", out.WriteVec(dst, v.Data(), nil)
	}
	if !errors.Is(err, petiga.ErrBadMagic) {
		return "", err
	}
	m, err := in.DecodeMat(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return "mat", out.WriteMat(dst, m)
}

func outputPath(out, src string, many bool) string {
	if many {
		return filepath.Join(out, filepath.Base(src))
	}
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		return filepath.Join(out, filepath.Base(src))
	}
	return out
}
