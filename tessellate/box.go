package tessellate

// Box tessellates a GDML <box>, centered at the origin. x, y, z are the
// solid's full extents (not half-extents) in millimeters.
func Box(x, y, z float64) TriangleMesh {
	hx := float32(x / 2.0)
	hy := float32(y / 2.0)
	hz := float32(z / 2.0)

	positions := make([]float32, 0, 24*3)
	normals := make([]float32, 0, 24*3)
	indices := make([]uint32, 0, 12*3)

	type face struct {
		normal [3]float32
		verts  [4][3]float32
	}
	faces := [6]face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{-hx, hy, -hz}, {hx, hy, -hz}, {hx, -hy, -hz}, {-hx, -hy, -hz}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {hx, -hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}, {-hx, -hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
	}

	for i, f := range faces {
		base := uint32(i * 4)
		for _, v := range f.verts {
			positions = append(positions, v[0], v[1], v[2])
			normals = append(normals, f.normal[0], f.normal[1], f.normal[2])
		}
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base, base+2, base+3)
	}

	return TriangleMesh{Positions: positions, Normals: normals, Indices: indices}
}
