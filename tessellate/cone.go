package tessellate

import "math"

// Cone tessellates a GDML <cone>: a conical frustum shell whose inner and
// outer radii vary linearly from (rmin1, rmax1) at z = -z/2 to (rmin2,
// rmax2) at z = +z/2.
func Cone(rmin1, rmax1, rmin2, rmax2, z, startphi, deltaphi float64, segments uint32) TriangleMesh {
	hz := float32(z / 2.0)
	hasHole := rmin1 > 1e-10 || rmin2 > 1e-10
	fullCircle := math.Abs(deltaphi-2.0*math.Pi) < 1e-6
	seg := segments
	if seg < 3 {
		seg = 3
	}

	var positions []float32
	var normals []float32
	var indices []uint32

	phiStep := deltaphi / float64(seg)

	// Outer surface: sloped normals.
	outerBase := uint32(0)
	drOuter := rmax2 - rmax1
	slopeOuter := float32(0)
	if math.Abs(z) > 1e-10 {
		slopeOuter = float32(drOuter / z)
	}
	for i := uint32(0); i <= seg; i++ {
		phi := startphi + phiStep*float64(i)
		sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
		r1, r2 := float32(rmax1), float32(rmax2)

		nz := -slopeOuter
		nr := float32(1.0)
		length := float32(math.Sqrt(float64(nz*nz + nr*nr)))
		nz /= length
		nr /= length

		positions = append(positions, r1*cp, r1*sp, -hz)
		normals = append(normals, nr*cp, nr*sp, nz)
		positions = append(positions, r2*cp, r2*sp, hz)
		normals = append(normals, nr*cp, nr*sp, nz)
	}
	for i := uint32(0); i < seg; i++ {
		b := outerBase + i*2
		indices = append(indices, b, b+2, b+3)
		indices = append(indices, b, b+3, b+1)
	}

	// Inner surface.
	if hasHole {
		innerBase := uint32(len(positions) / 3)
		drInner := rmin2 - rmin1
		slopeInner := float32(0)
		if math.Abs(z) > 1e-10 {
			slopeInner = float32(drInner / z)
		}
		for i := uint32(0); i <= seg; i++ {
			phi := startphi + phiStep*float64(i)
			sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
			r1, r2 := float32(rmin1), float32(rmin2)

			nz := slopeInner
			nr := float32(1.0)
			length := float32(math.Sqrt(float64(nz*nz + nr*nr)))
			nz /= length
			nr /= length

			positions = append(positions, r1*cp, r1*sp, -hz)
			normals = append(normals, -nr*cp, -nr*sp, nz)
			positions = append(positions, r2*cp, r2*sp, hz)
			normals = append(normals, -nr*cp, -nr*sp, nz)
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
		switch {
		case hasHole:
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmin2)*cp, float32(rmin2)*sp, hz)
				normals = append(normals, 0, 0, 1)
				positions = append(positions, float32(rmax2)*cp, float32(rmax2)*sp, hz)
				normals = append(normals, 0, 0, 1)
			}
			for i := uint32(0); i < seg; i++ {
				b := capBase + i*2
				indices = append(indices, b, b+1, b+3)
				indices = append(indices, b, b+3, b+2)
			}
		case rmax2 > 1e-10:
			positions = append(positions, 0, 0, hz)
			normals = append(normals, 0, 0, 1)
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmax2)*cp, float32(rmax2)*sp, hz)
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
		switch {
		case hasHole:
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmin1)*cp, float32(rmin1)*sp, -hz)
				normals = append(normals, 0, 0, -1)
				positions = append(positions, float32(rmax1)*cp, float32(rmax1)*sp, -hz)
				normals = append(normals, 0, 0, -1)
			}
			for i := uint32(0); i < seg; i++ {
				b := capBase + i*2
				indices = append(indices, b, b+3, b+1)
				indices = append(indices, b, b+2, b+3)
			}
		case rmax1 > 1e-10:
			positions = append(positions, 0, 0, -hz)
			normals = append(normals, 0, 0, -1)
			for i := uint32(0); i <= seg; i++ {
				phi := startphi + phiStep*float64(i)
				sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
				positions = append(positions, float32(rmax1)*cp, float32(rmax1)*sp, -hz)
				normals = append(normals, 0, 0, -1)
			}
			for i := uint32(0); i < seg; i++ {
				indices = append(indices, capBase, capBase+2+i, capBase+1+i)
			}
		}
	}

	// Wedge faces for a partial phi sweep.
	if !fullCircle {
		addConeWedgeFace(&positions, &normals, &indices, startphi, rmin1, rmax1, rmin2, rmax2, hz, hasHole, true)
		addConeWedgeFace(&positions, &normals, &indices, startphi+deltaphi, rmin1, rmax1, rmin2, rmax2, hz, hasHole, false)
	}

	return TriangleMesh{Positions: positions, Normals: normals, Indices: indices}
}

func addConeWedgeFace(positions, normals *[]float32, indices *[]uint32, phi, rmin1, rmax1, rmin2, rmax2 float64, hz float32, hasHole, isStart bool) {
	sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
	var nx, ny float32
	if isStart {
		nx, ny = -sp, cp
	} else {
		nx, ny = sp, -cp
	}
	base := uint32(len(*positions) / 3)

	innerR1, innerR2 := float32(0), float32(0)
	if hasHole {
		innerR1, innerR2 = float32(rmin1), float32(rmin2)
	}
	outerR1, outerR2 := float32(rmax1), float32(rmax2)

	*positions = append(*positions, innerR1*cp, innerR1*sp, -hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, outerR1*cp, outerR1*sp, -hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, outerR2*cp, outerR2*sp, hz)
	*normals = append(*normals, nx, ny, 0)
	*positions = append(*positions, innerR2*cp, innerR2*sp, hz)
	*normals = append(*normals, nx, ny, 0)

	if isStart {
		*indices = append(*indices, base, base+2, base+1)
		*indices = append(*indices, base, base+3, base+2)
	} else {
		*indices = append(*indices, base, base+1, base+2)
		*indices = append(*indices, base, base+2, base+3)
	}
}
