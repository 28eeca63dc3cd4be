package cms

// Cat is a chromatic adaptation transform: a cone-response matrix and its
// inverse. Grounded on dominikh-go-color/cat.go's CAT type and matrix
// literals, adapted to this package's XYZ-whitepoint-keyed API rather
// than that repo's Chromaticity-keyed one.
type Cat struct {
	ToCone   [3][3]float64
	FromCone [3][3]float64
}

var catBradford = &Cat{
	ToCone: [3][3]float64{
		{+0.8951, +0.2664, -0.1614},
		{-0.7502, +1.7135, +0.0367},
		{+0.0389, -0.0685, +1.0296},
	},
	FromCone: [3][3]float64{
		{0.9869929054667121, -0.14705425642099013, 0.15996265166373122},
		{0.4323052697233945, 0.5183602715367774, 0.049291228212855594},
		{-0.00852866457517732, 0.04004282165408486, 0.96848669578755},
	},
}

var catVonKries = &Cat{
	ToCone: [3][3]float64{
		{0.40024, 0.70760, -0.08081},
		{-0.22630, 1.16532, 0.04570},
		{0, 0, 0.91822},
	},
	FromCone: [3][3]float64{
		{1.8599363874558397, -1.1293816185800916, 0.21989740959619328},
		{0.36119143624176758, 0.63881246328504215, -6.3705968386508849e-06},
		{0, 0, 1.0890636230968613},
	},
}

var catXyzScaling = &Cat{
	ToCone:   identity3x3(),
	FromCone: identity3x3(),
}

var catCAT02 = &Cat{
	ToCone: [3][3]float64{
		{0.7328, 0.4296, -0.1624},
		{-0.7036, 1.6975, 0.0061},
		{0.0030, 0.0136, 0.9834},
	},
	FromCone: [3][3]float64{
		{1.0961238208355142, -0.27886900021828726, 0.18274517938277307},
		{0.4543690419753592, 0.4735331543074117, 0.0720978037172291},
		{-0.009627608738429355, -0.00569803121611342, 1.0153256399545427},
	},
}

func catByMethod(method CATMethod) *Cat {
	switch method {
	case VonKries:
		return catVonKries
	case XyzScaling:
		return catXyzScaling
	case CAT02Method:
		return catCAT02
	default:
		return catBradford
	}
}

// Matrix computes the combined adaptation matrix A = M⁻¹ · diag(wd/ws) · M
// mapping XYZ tristimuli under white ws to those under white wd.
func (c *Cat) Matrix(ws, wd [3]float64) [3][3]float64 {
	coneS := mulMatVec(c.ToCone, ws)
	coneD := mulMatVec(c.ToCone, wd)

	scale := [3]float64{coneD[0] / coneS[0], coneD[1] / coneS[1], coneD[2] / coneS[2]}
	diag := [3][3]float64{
		{scale[0], 0, 0},
		{0, scale[1], 0},
		{0, 0, scale[2]},
	}
	return mulMatMat(mulMatMat(c.FromCone, diag), c.ToCone)
}

// Adapt applies the adaptation matrix for method between ws and wd to xyz.
func Adapt(method CATMethod, ws, wd, xyz [3]float64) [3]float64 {
	if ws == wd {
		return xyz
	}
	m := catByMethod(method).Matrix(ws, wd)
	return mulMatVec(m, xyz)
}
