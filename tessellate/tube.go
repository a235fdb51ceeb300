package tessellate

import "math"

// Tube tessellates a GDML <tube>: a cylindrical shell with an optional
// inner bore (rmin) and an optional angular wedge (startphi/deltaphi, in
// radians). z is the full length. segments is clamped to at least 3.
func Tube(rmin, rmax, z, startphi, deltaphi float64, segments uint32) TriangleMesh {
	hz := float32(z / 2.0)
	hasHole := rmin > 1e-10
	fullCircle := math.Abs(deltaphi-2.0*math.Pi) < 1e-6

	seg := segments
	if seg < 3 {
		seg = 3
	}

	var positions []float32
	var normals []float32
	var indices []uint32

	phiStep := deltaphi / float64(seg)

	// Outer surface.
	outerBase := uint32(0)
	for i := uint32(0); i <= seg; i++ {
		phi := startphi + phiStep*float64(i)
		sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
		r := float32(rmax)

		positions = append(positions, r*cp, r*sp, -hz)
		normals = append(normals, cp, sp, 0)
		positions = append(positions, r*cp, r*sp, hz)
		normals = append(normals, cp, sp, 0)
	}
	for i := uint32(0); i < seg; i++ {
		b := outerBase + i*2
		indices = append(indices, b, b+2, b+3)
		indices = append(indices, b, b+3, b+1)
	}

	// Inner surface, if hollow.
	if hasHole {
		innerBase := uint32(len(positions) / 3)
		for i := uint32(0); i <= seg; i++ {
			phi := startphi + phiStep*float64(i)
			sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
			r := float32(rmin)

			positions = append(positions, r*cp, r*sp, -hz)
			normals = append(normals, -cp, -sp, 0)
			positions = append(positions, r*cp, r*sp, hz)
			normals = append(normals, -cp, -sp, 0)
		}
		for i := uint32(0); i < seg; i++ {
			b := innerBase + i*2
			indices = append(indices, b, b+3, b+2)
			indices = append(indices, b, b+1, b+3)
		}
	}

	// Top cap (z = +hz).
	{
		capBase := uint32(len(positions) / 3)
		if hasHole {
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmin)*cp, float32(rmin)*sp, hz)
				normals = append(normals, 0, 0, 1)
				positions = append(positions, float32(rmax)*cp, float32(rmax)*sp, hz)
				normals = append(normals, 0, 0, 1)
			}
			for i := uint32(0); i < seg; i++ {
				b := capBase + i*2
				indices = append(indices, b, b+1, b+3)
				indices = append(indices, b, b+3, b+2)
			}
		} else {
			positions = append(positions, 0, 0, hz)
			normals = append(normals, 0, 0, 1)
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmax)*cp, float32(rmax)*sp, hz)
				normals = append(normals, 0, 0, 1)
			}
			for i := uint32(0); i < seg; i++ {
				indices = append(indices, capBase, capBase+1+i, capBase+2+i)
			}
		}
	}

	// Bottom cap (z = -hz).
	{
		capBase := uint32(len(positions) / 3)
		if hasHole {
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmin)*cp, float32(rmin)*sp, -hz)
				normals = append(normals, 0, 0, -1)
				positions = append(positions, float32(rmax)*cp, float32(rmax)*sp, -hz)
				normals = append(normals, 0, 0, -1)
			}
			for i := uint32(0); i < seg; i++ {
				b := capBase + i*2
				indices = append(indices, b, b+3, b+1)
				indices = append(indices, b, b+2, b+3)
			}
		} else {
			positions = append(positions, 0, 0, -hz)
			normals = append(normals, 0, 0, -1)
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmax)*cp, float32(rmax)*sp, -hz)
				normals = append(normals, 0, 0, -1)
			}
			for i := uint32(0); i < seg; i++ {
				indices = append(indices, capBase, capBase+2+i, capBase+1+i)
			}
		}
	}

	// Wedge faces for a partial phi sweep.
	if !fullCircle {
		addTubeWedgeFace(&positions, &normals, &indices, startphi, rmin, rmax, hz, hasHole, true)
		addTubeWedgeFace(&positions, &normals, &indices, startphi+deltaphi, rmin, rmax, hz, hasHole, false)
	}

	return TriangleMesh{Positions: positions, Normals: normals, Indices: indices}
}

func addTubeWedgeFace(positions, normals *[]float32, indices *[]uint32, phi, rmin, rmax float64, hz float32, hasHole, isStart bool) {
	sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
	var nx, ny float32
	if isStart {
		nx, ny = -sp, cp
	} else {
		nx, ny = sp, -cp
	}
	base := uint32(len(*positions) / 3)

	innerR := float32(0)
	if hasHole {
		innerR = float32(rmin)
	}
	outerR := float32(rmax)

	*positions = append(*positions, innerR*cp, innerR*sp, -hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, outerR*cp, outerR*sp, -hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, outerR*cp, outerR*sp, hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, innerR*cp, innerR*sp, hz)
	*normals = append(*normals, nx, ny, 0)

	if isStart {
		*indices = append(*indices, base, base+2, base+1)
		*indices = append(*indices, base, base+3, base+2)
	} else {
		*indices = append(*indices, base, base+1, base+2)
		*indices = append(*indices, base, base+2, base+3)
	}
}
