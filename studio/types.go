package studio

import (
	"github.com/davsar89/GDML-Studio/gdml"
	"github.com/davsar89/GDML-Studio/scene"
)

// Summary is the upload/summary response payload.
type Summary struct {
	Filename       string   `json:"filename"`
	DefinesCount   int      `json:"defines_count"`
	PositionsCount int      `json:"positions_count"`
	RotationsCount int      `json:"rotations_count"`
	MaterialsCount int      `json:"materials_count"`
	ElementsCount  int      `json:"elements_count"`
	SolidsCount    int      `json:"solids_count"`
	VolumesCount   int      `json:"volumes_count"`
	MeshesCount    int      `json:"meshes_count"`
	WorldRef       string   `json:"world_ref"`
	Warnings       []string `json:"warnings"`
}

// DefineKind distinguishes which <define> element kind a DefineValue came
// from, for API consumers that want to round-trip the original tag name.
type DefineKind string

const (
	KindConstant   DefineKind = "constant"
	KindQuantity   DefineKind = "quantity"
	KindVariable   DefineKind = "variable"
	KindExpression DefineKind = "expression"
)

// DefineValue is one resolved entry from the defines() operation: the
// original expression alongside its evaluated scalar.
type DefineValue struct {
	Name       string     `json:"name"`
	Expression string     `json:"expression"`
	Evaluated  float64    `json:"evaluated"`
	Unit       string     `json:"unit,omitempty"`
	Kind       DefineKind `json:"kind"`
}

// StructureView is the structure() response: the stored volume list and
// world ref, verbatim.
type StructureView struct {
	Volumes  []gdml.Volume `json:"volumes"`
	WorldRef string        `json:"world_ref"`
}

// MeshData is one solid's tessellated mesh, in the wire-friendly flat
// array shape.
type MeshData struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
}

// MeshesView is the meshes() response: every tessellated solid plus the
// placed scene graph.
type MeshesView struct {
	Meshes     map[string]MeshData `json:"meshes"`
	SceneGraph *scene.SceneNode    `json:"scene_graph"`
}
