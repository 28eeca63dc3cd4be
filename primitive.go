package cms

import "math"

// StageFunc is the body of one assembled pipeline stage: it reads in and
// writes out without touching global state. The primitive bodies built in
// this file never allocate; ICC stage bodies (icctransform.go) allocate
// the slice icc.Transform.Apply returns.
type StageFunc func(in, out []float64)

// Primitive is a registered, pure conversion between two specific color
// space kinds. Build closes over the numeric assets (matrix, whitepoint,
// transfer function) taken from space, producing the fused StageFunc the
// Assembler installs into the pipeline.
type Primitive struct {
	From, To Kind
	Build    func(space *Colorspace) (StageFunc, error)
}

// --- XYZ <-> Lab (CIE 1976, explicit whitepoint) ---

const (
	labEpsilon = 216.0 / 24389.0 // (6/29)^3
	labKappa   = 24389.0 / 27.0  // (29/3)^3
)

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

func labFInv(t float64) float64 {
	t3 := t * t * t
	if t3 > labEpsilon {
		return t3
	}
	return (116*t - 16) / labKappa
}

func xyzToLab(xyz [3]float64, white [3]float64) [3]float64 {
	fx := labF(xyz[0] / white[0])
	fy := labF(xyz[1] / white[1])
	fz := labF(xyz[2] / white[2])
	return [3]float64{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

func labToXYZ(lab [3]float64, white [3]float64) [3]float64 {
	fy := (lab[0] + 16) / 116
	fx := fy + lab[1]/500
	fz := fy - lab[2]/200
	return [3]float64{
		labFInv(fx) * white[0],
		labFInv(fy) * white[1],
		labFInv(fz) * white[2],
	}
}

func buildXYZToLab(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	return func(in, out []float64) {
		lab := xyzToLab([3]float64{in[0], in[1], in[2]}, white)
		out[0], out[1], out[2] = lab[0], lab[1], lab[2]
	}, nil
}

func buildLabToXYZ(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	return func(in, out []float64) {
		xyz := labToXYZ([3]float64{in[0], in[1], in[2]}, white)
		out[0], out[1], out[2] = xyz[0], xyz[1], xyz[2]
	}, nil
}

// --- Lab <-> LCHab (polar repackaging) ---

func buildLabToLCHab(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		l, a, b := in[0], in[1], in[2]
		c := math.Hypot(a, b)
		h := math.Atan2(b, a) * 180 / math.Pi
		if h < 0 {
			h += 360
		}
		out[0], out[1], out[2] = l, c, h
	}, nil
}

func buildLCHabToLab(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		l, c, h := in[0], in[1], in[2]
		rad := h * math.Pi / 180
		out[0] = l
		out[1] = c * math.Cos(rad)
		out[2] = c * math.Sin(rad)
	}, nil
}

// --- XYZ <-> Luv ---

func xyzToUV(xyz [3]float64) (u, v float64) {
	denom := xyz[0] + 15*xyz[1] + 3*xyz[2]
	if denom == 0 {
		return 0, 0
	}
	return 4 * xyz[0] / denom, 9 * xyz[1] / denom
}

func buildXYZToLuv(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	un, vn := xyzToUV(white)
	return func(in, out []float64) {
		xyz := [3]float64{in[0], in[1], in[2]}
		yr := xyz[1] / white[1]
		var l float64
		if yr > labEpsilon {
			l = 116*math.Cbrt(yr) - 16
		} else {
			l = labKappa * yr
		}
		u, v := xyzToUV(xyz)
		out[0] = l
		out[1] = 13 * l * (u - un)
		out[2] = 13 * l * (v - vn)
	}, nil
}

func buildLuvToXYZ(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	un, vn := xyzToUV(white)
	return func(in, out []float64) {
		l, uDash, vDash := in[0], in[1], in[2]
		if l == 0 {
			out[0], out[1], out[2] = 0, 0, 0
			return
		}
		u := uDash/(13*l) + un
		v := vDash/(13*l) + vn
		var y float64
		if l > 8 {
			y = white[1] * math.Pow((l+16)/116, 3)
		} else {
			y = white[1] * l / labKappa
		}
		x := y * 9 * u / (4 * v)
		z := y * (12 - 3*u - 20*v) / (4 * v)
		out[0], out[1], out[2] = x, y, z
	}, nil
}

// --- Luv <-> LCHuv (polar repackaging) ---

func buildLuvToLCHuv(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		l, u, v := in[0], in[1], in[2]
		c := math.Hypot(u, v)
		h := math.Atan2(v, u) * 180 / math.Pi
		if h < 0 {
			h += 360
		}
		out[0], out[1], out[2] = l, c, h
	}, nil
}

func buildLCHuvToLuv(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		l, c, h := in[0], in[1], in[2]
		rad := h * math.Pi / 180
		out[0] = l
		out[1] = c * math.Cos(rad)
		out[2] = c * math.Sin(rad)
	}, nil
}

// --- XYZ <-> xyY ---

func buildXYZToXyY(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		sum := in[0] + in[1] + in[2]
		if sum == 0 {
			out[0], out[1], out[2] = 0, 0, in[1]
			return
		}
		out[0] = in[0] / sum
		out[1] = in[1] / sum
		out[2] = in[1]
	}, nil
}

func buildXyYToXYZ(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		x, y, cap := in[0], in[1], in[2]
		if y == 0 {
			out[0], out[1], out[2] = 0, 0, 0
			return
		}
		out[0] = x * cap / y
		out[1] = cap
		out[2] = (1 - x - y) * cap / y
	}, nil
}

// --- RGB <-> XYZ (decode/matrix fused, matrix/inverse-matrix/encode fused) ---

func buildRGBToXYZ(space *Colorspace) (StageFunc, error) {
	if space.Primaries == nil {
		return nil, errConversionSetup("buildRGBToXYZ", "RGB colorspace has no primaries")
	}
	m := space.Primaries.Matrix(space.Whitepoint)
	transfer := TransferFunction{Kind: TransferLinear}
	if space.Transfer != nil {
		transfer = *space.Transfer
	}
	return func(in, out []float64) {
		lin := [3]float64{transfer.Decode(in[0]), transfer.Decode(in[1]), transfer.Decode(in[2])}
		xyz := mulMatVec(m, lin)
		out[0], out[1], out[2] = xyz[0], xyz[1], xyz[2]
	}, nil
}

func buildXYZToRGB(space *Colorspace) (StageFunc, error) {
	if space.Primaries == nil {
		return nil, errConversionSetup("buildXYZToRGB", "RGB colorspace has no primaries")
	}
	m := space.Primaries.Matrix(space.Whitepoint)
	inv, ok := invert3x3(m)
	if !ok {
		return nil, errConversionSetup("buildXYZToRGB", "primaries matrix is singular")
	}
	transfer := TransferFunction{Kind: TransferLinear}
	if space.Transfer != nil {
		transfer = *space.Transfer
	}
	return func(in, out []float64) {
		lin := mulMatVec(inv, [3]float64{in[0], in[1], in[2]})
		out[0] = transfer.Encode(lin[0])
		out[1] = transfer.Encode(lin[1])
		out[2] = transfer.Encode(lin[2])
	}, nil
}

// --- RGB <-> HSV ---

func buildRGBToHSV(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		r, g, b := in[0], in[1], in[2]
		max := math.Max(r, math.Max(g, b))
		min := math.Min(r, math.Min(g, b))
		delta := max - min

		var h float64
		switch {
		case delta == 0:
			h = 0
		case max == r:
			h = 60 * math.Mod((g-b)/delta, 6)
		case max == g:
			h = 60 * ((b-r)/delta + 2)
		default:
			h = 60 * ((r-g)/delta + 4)
		}
		if h < 0 {
			h += 360
		}
		var s float64
		if max != 0 {
			s = delta / max
		}
		out[0], out[1], out[2] = h, s, max
	}, nil
}

func buildHSVToRGB(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		h, s, v := in[0], in[1], in[2]
		c := v * s
		hp := h / 60
		x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
		var r, g, b float64
		switch {
		case hp < 1:
			r, g, b = c, x, 0
		case hp < 2:
			r, g, b = x, c, 0
		case hp < 3:
			r, g, b = 0, c, x
		case hp < 4:
			r, g, b = 0, x, c
		case hp < 5:
			r, g, b = x, 0, c
		default:
			r, g, b = c, 0, x
		}
		m := v - c
		out[0], out[1], out[2] = r+m, g+m, b+m
	}, nil
}

// --- RGB <-> HSL ---

func buildRGBToHSL(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		r, g, b := in[0], in[1], in[2]
		max := math.Max(r, math.Max(g, b))
		min := math.Min(r, math.Min(g, b))
		delta := max - min
		l := (max + min) / 2

		var h, s float64
		if delta != 0 {
			if l < 0.5 {
				s = delta / (max + min)
			} else {
				s = delta / (2 - max - min)
			}
			switch {
			case max == r:
				h = 60 * math.Mod((g-b)/delta, 6)
			case max == g:
				h = 60 * ((b-r)/delta + 2)
			default:
				h = 60 * ((r-g)/delta + 4)
			}
			if h < 0 {
				h += 360
			}
		}
		out[0], out[1], out[2] = h, s, l
	}, nil
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func buildHSLToRGB(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		h, s, l := in[0]/360, in[1], in[2]
		if s == 0 {
			out[0], out[1], out[2] = l, l, l
			return
		}
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		out[0] = hueToRGB(p, q, h+1.0/3)
		out[1] = hueToRGB(p, q, h)
		out[2] = hueToRGB(p, q, h-1.0/3)
	}, nil
}

// --- RGB <-> YCbCr ---

// YCbCrVariant selects the luma coefficients used for RGB<->YCbCr.
type YCbCrVariant int

const (
	YCbCrRec601 YCbCrVariant = iota
	YCbCrRec709
)

func ycbcrCoefficients(v YCbCrVariant) (kr, kb float64) {
	if v == YCbCrRec709 {
		return 0.2126, 0.0722
	}
	return 0.299, 0.114
}

func buildRGBToYCbCr(variant YCbCrVariant) func(*Colorspace) (StageFunc, error) {
	kr, kb := ycbcrCoefficients(variant)
	kg := 1 - kr - kb
	return func(*Colorspace) (StageFunc, error) {
		return func(in, out []float64) {
			r, g, b := in[0], in[1], in[2]
			y := kr*r + kg*g + kb*b
			cb := 0.5 * (b - y) / (1 - kb)
			cr := 0.5 * (r - y) / (1 - kr)
			out[0], out[1], out[2] = y, cb, cr
		}, nil
	}
}

func buildYCbCrToRGB(variant YCbCrVariant) func(*Colorspace) (StageFunc, error) {
	kr, kb := ycbcrCoefficients(variant)
	kg := 1 - kr - kb
	return func(*Colorspace) (StageFunc, error) {
		return func(in, out []float64) {
			y, cb, cr := in[0], in[1], in[2]
			r := y + cr*2*(1-kr)
			b := y + cb*2*(1-kb)
			g := (y - kr*r - kb*b) / kg
			out[0], out[1], out[2] = r, g, b
		}, nil
	}
}

// --- CMYK <-> RGB (naive subtractive model) ---

func buildCMYKToRGB(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		c, m, y, k := in[0], in[1], in[2], in[3]
		out[0] = (1 - c) * (1 - k)
		out[1] = (1 - m) * (1 - k)
		out[2] = (1 - y) * (1 - k)
	}, nil
}

func buildRGBToCMYK(*Colorspace) (StageFunc, error) {
	return func(in, out []float64) {
		r, g, b := in[0], in[1], in[2]
		k := 1 - math.Max(r, math.Max(g, b))
		if k >= 1 {
			out[0], out[1], out[2], out[3] = 0, 0, 0, 1
			return
		}
		out[0] = (1 - r - k) / (1 - k)
		out[1] = (1 - g - k) / (1 - k)
		out[2] = (1 - b - k) / (1 - k)
		out[3] = k
	}, nil
}

// --- Gray <-> XYZ ---

func buildGrayToXYZ(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	return func(in, out []float64) {
		y := in[0]
		out[0], out[1], out[2] = white[0]*y, white[1]*y, white[2]*y
	}, nil
}

func buildXYZToGray(space *Colorspace) (StageFunc, error) {
	white := space.Whitepoint
	return func(in, out []float64) {
		if white[1] == 0 {
			out[0] = 0
			return
		}
		out[0] = in[1] / white[1]
	}, nil
}
