// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tessellate turns GDML CSG primitives (box, tube, cone, sphere)
// into indexed triangle meshes suitable for direct upload to a renderer.
package tessellate

// TriangleMesh is an indexed triangle mesh: flat float32 position/normal
// arrays (3 components per vertex) and a flat uint32 index array (3 per
// triangle).
type TriangleMesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m TriangleMesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles in the mesh.
func (m TriangleMesh) TriangleCount() int { return len(m.Indices) / 3 }
