package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/openspline/igaio/internal/logger"
	"github.com/openspline/igaio/pkg/petiga"
)

var (
	precisionName string
	scalarName    string
	indicesName   string
	logLevel      string
	logFormat     string
	debug         bool
)

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "precision",
			Usage:       "wire precision (double, single)",
			Value:       "double",
			Destination: &precisionName,
		},
		&cli.StringFlag{
			Name:        "scalar",
			Usage:       "scalar kind (real, complex)",
			Value:       "real",
			Destination: &scalarName,
		},
		&cli.StringFlag{
			Name:        "indices",
			Usage:       "index width (32bit, 64bit)",
			Value:       "32bit",
			Destination: &indicesName,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// newCodec resolves the profile flags into a codec.
func newCodec() (*petiga.Codec, error) {
	return codecFor(precisionName, scalarName, indicesName)
}

func codecFor(precision, scalar, indices string) (*petiga.Codec, error) {
	p, err := petiga.ParsePrecision(precision)
	if err != nil {
		return nil, err
	}
	s, err := petiga.ParseScalarKind(scalar)
	if err != nil {
		return nil, err
	}
	i, err := petiga.ParseIndexWidth(indices)
	if err != nil {
		return nil, err
	}
	return petiga.New(petiga.Profile{Precision: p, Scalar: s, Indices: i})
}

func newLog() logger.Logger {
	level := logLevel
	if debug {
		level = "debug"
	}
	return logger.Build(os.Stderr, level, logFormat)
}
