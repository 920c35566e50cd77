package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openspline/igaio/pkg/nurbs"
)

type patchRecord struct {
	patch   *nurbs.Patch
	created time.Time
}

// PatchStore holds uploaded patches in memory, keyed by minted ids.
type PatchStore struct {
	mu      sync.Mutex
	patches map[string]*patchRecord
}

func NewPatchStore() *PatchStore {
	return &PatchStore{patches: make(map[string]*patchRecord)}
}

func (s *PatchStore) Add(p *nurbs.Patch, now time.Time) string {
	id := newPatchID()
	s.mu.Lock()
	s.patches[id] = &patchRecord{patch: p, created: now}
	s.mu.Unlock()
	return id
}

func (s *PatchStore) Get(id string) (*nurbs.Patch, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.patches[id]
	if !ok {
		return nil, time.Time{}, false
	}
	return rec.patch, rec.created, true
}

func (s *PatchStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patches[id]; !ok {
		return false
	}
	delete(s.patches, id)
	return true
}

// List returns summaries ordered by creation time, oldest first.
func (s *PatchStore) List() []PatchSummary {
	s.mu.Lock()
	out := make([]PatchSummary, 0, len(s.patches))
	for id, rec := range s.patches {
		out = append(out, summarize(id, rec.patch, rec.created))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func newPatchID() string {
	return "patch_" + uuid.NewString()
}
