package scene

import (
	"testing"

	"configurator/internal/material"
	"configurator/internal/parts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chairParts = []parts.ID{"legs", "cushions", "base", "supports", "back"}

func chairNames() []string {
	return []string{"back", "base", "cushions", "legs", "legs_front", "supports", "Floor_Shadow"}
}

func initial() *material.Description {
	return material.NewSolid(0xf1f1f1, 10)
}

func chairModel(t *testing.T) (*Model, *material.Description) {
	t.Helper()
	def := initial()
	return Build(chairNames(), Tagging{Parts: chairParts, Fallback: def}), def
}

func TestBuildTagsBySubstring(t *testing.T) {
	m, def := chairModel(t)

	require.Equal(t, 7, m.Len())
	assert.Len(t, m.Part("legs"), 2)
	assert.Len(t, m.Part("back"), 1)
	assert.Empty(t, m.Unmatched)

	for _, o := range m.Objects() {
		assert.True(t, o.CastShadow, o.Name)
		assert.True(t, o.ReceiveShadow, o.Name)
		if o.Part != "" {
			assert.Same(t, def, o.Material(), o.Name)
		} else {
			assert.Equal(t, "Floor_Shadow", o.Name)
			assert.Nil(t, o.Material())
		}
	}
}

func TestBuildFirstCatalogMatchWins(t *testing.T) {
	m := Build([]string{"back_legs"}, Tagging{Parts: chairParts})
	assert.Equal(t, parts.ID("legs"), m.Objects()[0].Part)
}

func TestBuildExplicitMapping(t *testing.T) {
	m := Build([]string{"Mesh_01", "legs_cap"}, Tagging{
		Parts:    chairParts,
		Explicit: map[parts.ID][]string{"base": {"Mesh_01"}, "back": {"legs_cap"}},
	})
	assert.Equal(t, parts.ID("base"), m.Objects()[0].Part)
	assert.Equal(t, parts.ID("back"), m.Objects()[1].Part)
	assert.ElementsMatch(t, []parts.ID{"legs", "cushions", "supports"}, m.Unmatched)
}

func TestBuildPerPartInitialMaterial(t *testing.T) {
	wood := material.NewSolid(0x66533c, 10)
	fallback := initial()
	m := Build(chairNames(), Tagging{
		Parts:    chairParts,
		Initial:  map[parts.ID]*material.Description{"legs": wood},
		Fallback: fallback,
	})
	for _, o := range m.Part("legs") {
		assert.Same(t, wood, o.Material())
	}
	assert.Same(t, fallback, m.Part("base")[0].Material())
}

func TestApplyOnlyTouchesPart(t *testing.T) {
	m, def := chairModel(t)
	green, err := material.Build(material.Request{Color: "00ff00"})
	require.NoError(t, err)

	assert.Equal(t, 1, Apply(m, "base", green))

	for _, o := range m.Objects() {
		switch {
		case o.Part == "base":
			assert.Same(t, green, o.Material())
		case o.Part != "":
			assert.Same(t, def, o.Material(), o.Name)
		default:
			assert.Nil(t, o.Material())
		}
	}
}

func TestApplyIndependentOfOrder(t *testing.T) {
	mp, _ := material.Build(material.Request{Color: "ff0000"})
	mq, _ := material.Build(material.Request{Texture: "fabric.jpg", Size: [3]float32{4, 4, 4}})

	a, _ := chairModel(t)
	Apply(a, "legs", mp)
	Apply(a, "cushions", mq)

	b, _ := chairModel(t)
	Apply(b, "cushions", mq)
	Apply(b, "legs", mp)

	for _, m := range []*Model{a, b} {
		for _, o := range m.Part("legs") {
			assert.Same(t, mp, o.Material())
		}
		for _, o := range m.Part("cushions") {
			assert.Same(t, mq, o.Material())
		}
	}
}

func TestApplyNilModelAndUnknownPart(t *testing.T) {
	d := initial()
	assert.NotPanics(t, func() { assert.Zero(t, Apply(nil, "legs", d)) })

	m, def := chairModel(t)
	assert.Zero(t, Apply(m, "armrest", d))
	assert.Zero(t, Apply(m, "", d))
	assert.Same(t, def, m.Part("legs")[0].Material())
}
