// Package scene holds the loaded model's drawable sub-objects, the part
// tagging built once at load time, and material reassignment.
package scene

import (
	"strings"

	"configurator/internal/material"
	"configurator/internal/parts"
)

// SubObject is one drawable of the loaded model. Part is fixed at load;
// only the material changes afterwards.
type SubObject struct {
	Name          string
	Mesh          int
	Part          parts.ID // empty when no part matched
	CastShadow    bool
	ReceiveShadow bool

	material *material.Description
}

// Material returns the assigned description, or nil when the sub-object keeps
// the material that came with the asset.
func (s *SubObject) Material() *material.Description {
	return s.material
}

// Model owns the sub-objects of one loaded asset and the part index over them.
type Model struct {
	objects []*SubObject
	byPart  map[parts.ID][]*SubObject

	// Unmatched lists declared parts that tagged no sub-object.
	Unmatched []parts.ID
}

// Tagging configures Build.
type Tagging struct {
	// Parts is the catalog in declaration order.
	Parts []parts.ID
	// Explicit maps a part to exact drawable names. A name listed here is
	// never considered for substring matching.
	Explicit map[parts.ID][]string
	// Initial is the material each part receives at load. A missing entry
	// falls back to Fallback.
	Initial  map[parts.ID]*material.Description
	Fallback *material.Description
}

// Build walks the drawables once, in mesh order, and tags them. Every drawable
// casts and receives shadows. A drawable named in Explicit takes that part;
// otherwise the first catalog part contained in its name wins.
func Build(names []string, t Tagging) *Model {
	exact := make(map[string]parts.ID)
	for _, id := range t.Parts {
		for _, n := range t.Explicit[id] {
			exact[n] = id
		}
	}

	m := &Model{
		objects: make([]*SubObject, len(names)),
		byPart:  make(map[parts.ID][]*SubObject, len(t.Parts)),
	}
	for i, name := range names {
		obj := &SubObject{
			Name:          name,
			Mesh:          i,
			CastShadow:    true,
			ReceiveShadow: true,
		}
		if id, ok := exact[name]; ok {
			obj.Part = id
		} else {
			obj.Part = matchPart(name, t.Parts)
		}
		if obj.Part != "" {
			obj.material = t.initialFor(obj.Part)
			m.byPart[obj.Part] = append(m.byPart[obj.Part], obj)
		}
		m.objects[i] = obj
	}

	for _, id := range t.Parts {
		if len(m.byPart[id]) == 0 {
			m.Unmatched = append(m.Unmatched, id)
		}
	}
	return m
}

func matchPart(name string, ids []parts.ID) parts.ID {
	for _, id := range ids {
		if strings.Contains(name, string(id)) {
			return id
		}
	}
	return ""
}

func (t Tagging) initialFor(id parts.ID) *material.Description {
	if d, ok := t.Initial[id]; ok && d != nil {
		return d
	}
	return t.Fallback
}

// Objects returns the sub-objects in mesh order. The slice must not be modified.
func (m *Model) Objects() []*SubObject {
	return m.objects
}

// Part returns the sub-objects tagged with id.
func (m *Model) Part(id parts.ID) []*SubObject {
	return m.byPart[id]
}

func (m *Model) Len() int {
	return len(m.objects)
}

// Apply assigns d to every sub-object tagged part and returns how many changed.
// A nil model is a no-op: picks made before the load finishes are dropped.
func Apply(m *Model, part parts.ID, d *material.Description) int {
	if m == nil || part == "" || d == nil {
		return 0
	}
	targets := m.byPart[part]
	for _, o := range targets {
		o.material = d
	}
	return len(targets)
}
