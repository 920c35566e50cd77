// Package api exposes a small REST service for inspecting patch files:
// upload a geometry, list and summarize what is stored, sample the mapped
// surface, and export VTK datasets.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/petiga"
	"github.com/openspline/igaio/pkg/vtk"
)

// maxRefine bounds per-span subdivision so a request cannot ask for an
// absurd sample grid.
const maxRefine = 1000

type Server struct {
	store *PatchStore
	codec *petiga.Codec
	clock func() time.Time
}

func NewServer(store *PatchStore, codec *petiga.Codec) *Server {
	if store == nil {
		store = NewPatchStore()
	}
	return &Server{
		store: store,
		codec: codec,
		clock: time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/patches", s.handleCreatePatch)
	e.GET("/v1/patches", s.handleListPatches)
	e.GET("/v1/patches/:id", s.handleGetPatch)
	e.DELETE("/v1/patches/:id", s.handleDeletePatch)
	e.GET("/v1/patches/:id/sample", s.handleSamplePatch)
	e.POST("/v1/patches/:id/vtk", s.handleExportPatch)
}

// handleCreatePatch accepts a raw geometry file as the request body,
// decoded with the server's wire profile.
func (s *Server) handleCreatePatch(c *echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("read body: %v", err))
	}
	if len(body) == 0 {
		return writeBadRequest(c, "empty body, expected a geometry file")
	}
	patch, err := s.codec.DecodeGeometry(bytes.NewReader(body))
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("decode geometry: %v", err))
	}
	now := s.clock()
	id := s.store.Add(patch, now)
	return c.JSON(http.StatusOK, summarize(id, patch, now))
}

func (s *Server) handleListPatches(c *echo.Context) error {
	return c.JSON(http.StatusOK, PatchList{Patches: s.store.List()})
}

func (s *Server) handleGetPatch(c *echo.Context) error {
	id := c.Param("id")
	patch, created, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("patch %q not found", id))
	}
	return c.JSON(http.StatusOK, summarize(id, patch, created))
}

func (s *Server) handleDeletePatch(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, fmt.Sprintf("patch %q not found", id))
	}
	return c.JSON(http.StatusOK, DeletePatchResp{ID: id, Deleted: true})
}

// handleSamplePatch evaluates the mapped geometry on the knot grid,
// optionally subdivided refine times per span.
func (s *Server) handleSamplePatch(c *echo.Context) error {
	id := c.Param("id")
	patch, _, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("patch %q not found", id))
	}
	refine, err := parseRefine(c.QueryParam("refine"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if patch.Control() == nil {
		return writeBadRequest(c, "patch carries no control points to sample")
	}

	pts, err := patch.Evaluate(sampleSites(patch, refine))
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("evaluate: %v", err))
	}
	shape := pts.Shape()
	data := pts.Data()
	points := make([][3]float64, len(data)/3)
	for i := range points {
		points[i] = [3]float64{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return c.JSON(http.StatusOK, SampleResponse{
		ID:     id,
		Shape:  shape[:len(shape)-1],
		Points: points,
	})
}

// handleExportPatch renders the patch to a legacy VTK dataset and returns
// it as a download.
func (s *Server) handleExportPatch(c *echo.Context) error {
	id := c.Param("id")
	patch, _, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("patch %q not found", id))
	}
	req, err := decodeJSON[ExportRequest](c.Request().Body)
	if err != nil && !errors.Is(err, io.EOF) {
		return writeBadRequest(c, fmt.Sprintf("decode options: %v", err))
	}
	if req.Refine < 0 || req.Refine > maxRefine {
		return writeBadRequest(c, fmt.Sprintf("refine must be between 0 and %d", maxRefine))
	}

	opts := vtk.Options{
		Title:      req.Title,
		Parametric: req.Parametric,
	}
	if req.Refine > 1 {
		opts.Sampler = vtk.Refine(req.Refine)
	}
	var buf bytes.Buffer
	if err := vtk.Write(&buf, patch, opts); err != nil {
		if errors.Is(err, nurbs.ErrNoControl) {
			return writeBadRequest(c, "patch carries no control points, request a parametric export")
		}
		return writeBadRequest(c, fmt.Sprintf("export: %v", err))
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/octet-stream")
	res.Header().Set("Content-Disposition", `attachment; filename="`+id+`.vtk"`)
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(buf.Bytes())
	return err
}

func parseRefine(q string) (int, error) {
	if q == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		return 0, fmt.Errorf("refine: %w", err)
	}
	if n < 1 || n > maxRefine {
		return 0, fmt.Errorf("refine must be between 1 and %d", maxRefine)
	}
	return n, nil
}

func sampleSites(p *nurbs.Patch, refine int) [][]float64 {
	sampler := vtk.Refine(refine)
	sites := make([][]float64, p.Dimension())
	for k := range sites {
		sites[k] = sampler(p.SpanBreaks(k))
	}
	return sites
}
