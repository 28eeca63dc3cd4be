package cms

// Small fixed-size linear algebra helpers shared by the primaries matrix,
// the chromatic adaptation registry and the matrix/TRC primitive bodies.
// Kept allocation-free: every operand and result is a [3]float64 or
// [3][3]float64 value, never a slice.

func mulMatVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func mulMatMat(a, b [3][3]float64) [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return r
}

func invert3x3(m [3][3]float64) ([3][3]float64, bool) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if det == 0 {
		return [3][3]float64{}, false
	}
	invDet := 1 / det
	var r [3][3]float64
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return r, true
}

func identity3x3() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}
