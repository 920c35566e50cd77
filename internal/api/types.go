package api

// PatchSummary describes a stored patch without its coefficient payload.
type PatchSummary struct {
	ID         string `json:"id"`
	CreatedAt  int64  `json:"created_at"`
	Dimension  int    `json:"dimension"`
	Degree     []int  `json:"degree"`
	KnotCounts []int  `json:"knot_counts"`
	GridShape  []int  `json:"grid_shape"`
	HasControl bool   `json:"has_control"`
}

type PatchList struct {
	Patches []PatchSummary `json:"patches"`
}

// SampleResponse is an evaluated point cloud. Points are x,y,z triples in
// row-major order over the sample grid.
type SampleResponse struct {
	ID     string       `json:"id"`
	Shape  []int        `json:"shape"`
	Points [][3]float64 `json:"points"`
}

// ExportRequest selects how a stored patch is rendered to VTK.
type ExportRequest struct {
	Title      string `json:"title,omitempty"`
	Parametric bool   `json:"parametric,omitempty"`
	Refine     int    `json:"refine,omitempty"`
}

type DeletePatchResp struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
