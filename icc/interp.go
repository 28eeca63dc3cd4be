// seehuhn.de/go/icc - read and write ICC profiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package icc

// clampGridIndex confines a 3D CLUT corner index to [0, gridSize-2] so the
// cube starting at that corner never runs off the grid.
func clampGridIndex(i, gridSize int) int {
	if i < 0 {
		return 0
	}
	if i >= gridSize-1 {
		return gridSize - 2
	}
	return i
}

// tetrahedralCLUT3D evaluates a 3D color lookup table at (r, g, b) using
// tetrahedral interpolation, which splits each grid cube into six
// tetrahedra and blends only the four corners bounding the sample instead
// of all eight. clut holds outChannels values per grid node and gridSize is
// the node count along each axis. r, g, b must lie in [0, 1].
func tetrahedralCLUT3D(clut []float64, gridSize int, outChannels int, r, g, b float64) []float64 {
	if gridSize < 2 {
		out := make([]float64, outChannels)
		if len(clut) >= outChannels {
			copy(out, clut[:outChannels])
		}
		return out
	}

	scale := float64(gridSize - 1)
	rPos := r * scale
	gPos := g * scale
	bPos := b * scale

	ri := clampGridIndex(int(rPos), gridSize)
	gi := clampGridIndex(int(gPos), gridSize)
	bi := clampGridIndex(int(bPos), gridSize)

	fr := clamp(rPos-float64(ri), 0, 1)
	fg := clamp(gPos-float64(gi), 0, 1)
	fb := clamp(bPos-float64(bi), 0, 1)

	stride := outChannels
	gStride := gridSize * stride
	rStride := gridSize * gStride

	base := ri*rStride + gi*gStride + bi*stride

	// get the 8 corners of the cube
	c000 := base
	c001 := base + stride
	c010 := base + gStride
	c011 := base + gStride + stride
	c100 := base + rStride
	c101 := base + rStride + stride
	c110 := base + rStride + gStride
	c111 := base + rStride + gStride + stride

	out := make([]float64, outChannels)

	// tetrahedral interpolation - select tetrahedron based on which
	// fractional component is largest
	if fr > fg {
		if fg > fb {
			// fr > fg > fb: tetrahedron 1
			for i := range outChannels {
				out[i] = (1-fr)*clut[c000+i] +
					(fr-fg)*clut[c100+i] +
					(fg-fb)*clut[c110+i] +
					fb*clut[c111+i]
			}
		} else if fr > fb {
			// fr > fb >= fg: tetrahedron 2
			for i := range outChannels {
				out[i] = (1-fr)*clut[c000+i] +
					(fr-fb)*clut[c100+i] +
					(fb-fg)*clut[c101+i] +
					fg*clut[c111+i]
			}
		} else {
			// fb >= fr > fg: tetrahedron 3
			for i := range outChannels {
				out[i] = (1-fb)*clut[c000+i] +
					(fb-fr)*clut[c001+i] +
					(fr-fg)*clut[c101+i] +
					fg*clut[c111+i]
			}
		}
	} else {
		if fr > fb {
			// fg >= fr > fb: tetrahedron 4
			for i := range outChannels {
				out[i] = (1-fg)*clut[c000+i] +
					(fg-fr)*clut[c010+i] +
					(fr-fb)*clut[c110+i] +
					fb*clut[c111+i]
			}
		} else if fg > fb {
			// fg > fb >= fr: tetrahedron 5
			for i := range outChannels {
				out[i] = (1-fg)*clut[c000+i] +
					(fg-fb)*clut[c010+i] +
					(fb-fr)*clut[c011+i] +
					fr*clut[c111+i]
			}
		} else {
			// fb >= fg >= fr: tetrahedron 6
			for i := range outChannels {
				out[i] = (1-fb)*clut[c000+i] +
					(fb-fg)*clut[c001+i] +
					(fg-fr)*clut[c011+i] +
					fr*clut[c111+i]
			}
		}
	}

	return out
}

// multilinearCLUT evaluates an n-dimensional color lookup table via
// multilinear interpolation, blending all 2^n corners of the cell
// surrounding the sample.
// The input values are in [0, 1].
// gridPoints contains the grid size for each dimension.
func multilinearCLUT(clut []float64, gridPoints []int, outChannels int, input []float64) []float64 {
	nDims := len(gridPoints)
	if nDims == 0 || len(input) != nDims {
		return make([]float64, outChannels)
	}

	// compute strides
	strides := make([]int, nDims)
	stride := outChannels
	for i := nDims - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= gridPoints[i]
	}

	// compute grid positions and fractions
	indices := make([]int, nDims)
	fracs := make([]float64, nDims)
	for i := range nDims {
		scale := float64(gridPoints[i] - 1)
		pos := input[i] * scale
		idx := max(int(pos), 0)
		if idx >= gridPoints[i]-1 {
			idx = max(gridPoints[i]-2, 0)
		}
		indices[i] = idx
		fracs[i] = clamp(pos-float64(idx), 0, 1)
	}

	// interpolate: iterate over 2^nDims corners
	numCorners := 1 << nDims
	out := make([]float64, outChannels)

	for corner := range numCorners {
		// compute offset and weight for this corner
		offset := 0
		weight := 1.0
		for d := range nDims {
			if corner&(1<<d) != 0 {
				offset += strides[d]
				weight *= fracs[d]
			} else {
				weight *= 1 - fracs[d]
			}
		}

		// base offset
		baseOffset := 0
		for d := range nDims {
			baseOffset += indices[d] * strides[d]
		}

		for i := range outChannels {
			idx := baseOffset + offset + i
			if idx < len(clut) {
				out[i] += weight * clut[idx]
			}
		}
	}

	return out
}
