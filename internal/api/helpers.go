package api

import (
	"io"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/openspline/igaio/pkg/nurbs"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := gojson.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func summarize(id string, p *nurbs.Patch, created time.Time) PatchSummary {
	knots := p.Knots()
	counts := make([]int, len(knots))
	for i, u := range knots {
		counts[i] = len(u)
	}
	return PatchSummary{
		ID:         id,
		CreatedAt:  created.Unix(),
		Dimension:  p.Dimension(),
		Degree:     p.Degree(),
		KnotCounts: counts,
		GridShape:  p.GridShape(),
		HasControl: p.Control() != nil,
	}
}
