package cms

import (
	"math"

	"github.com/colorcore/cms/icc"
)

// Kind identifies the variant a Color or Colorspace inhabits. The planner
// matches colors on Kind, never on pointer identity of a Colorspace.
type Kind int

const (
	KindXYZ Kind = iota
	KindLab
	KindLCHab
	KindLuv
	KindLCHuv
	KindXyY
	KindRGB
	KindHSV
	KindHSL
	KindYCbCr
	KindCMYK
	KindGray
)

func (k Kind) String() string {
	switch k {
	case KindXYZ:
		return "XYZ"
	case KindLab:
		return "Lab"
	case KindLCHab:
		return "LCHab"
	case KindLuv:
		return "Luv"
	case KindLCHuv:
		return "LCHuv"
	case KindXyY:
		return "xyY"
	case KindRGB:
		return "RGB"
	case KindHSV:
		return "HSV"
	case KindHSL:
		return "HSL"
	case KindYCbCr:
		return "YCbCr"
	case KindCMYK:
		return "CMYK"
	case KindGray:
		return "Gray"
	default:
		return "Kind(?)"
	}
}

// NumChannels returns the fixed channel count for the variant.
func (k Kind) NumChannels() int {
	switch k {
	case KindCMYK:
		return 4
	case KindGray:
		return 1
	default:
		return 3
	}
}

// Chromaticity is a CIE xy chromaticity coordinate.
type Chromaticity struct {
	X, Y float64
}

// XYZ converts the chromaticity to an XYZ tristimulus with Y normalised
// to 1, the same convention dominikh-go-color's Chromaticity.XYZ uses.
func (c Chromaticity) XYZ() [3]float64 {
	if c.Y == 0 {
		return [3]float64{0, 0, 0}
	}
	return [3]float64{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// Named D-illuminant white points, in XYZ with Y=1, derived from the CIE
// 1931 2-degree chromaticities (CIE 15:2004 table T.3).
var (
	WhiteD50 = Chromaticity{0.34567, 0.35851}.XYZ()
	WhiteD55 = Chromaticity{0.33243, 0.34744}.XYZ()
	WhiteD65 = Chromaticity{0.31272, 0.32903}.XYZ()
	WhiteD75 = Chromaticity{0.29903, 0.31488}.XYZ()
)

// Primaries holds the xy chromaticities of the red, green and blue
// primaries of an RGB-family colorspace.
type Primaries struct {
	R, G, B Chromaticity
}

// Matrix returns the 3x3 matrix (column-major contribution of
// each primary) mapping linear RGB to XYZ under the given white point,
// solved the standard way: columns are each primary's XYZ scaled so the
// matrix maps (1,1,1) to the white point.
func (p Primaries) Matrix(white [3]float64) [3][3]float64 {
	r := p.R.XYZ()
	g := p.G.XYZ()
	b := p.B.XYZ()

	m := [3][3]float64{
		{r[0], g[0], b[0]},
		{r[1], g[1], b[1]},
		{r[2], g[2], b[2]},
	}
	inv, ok := invert3x3(m)
	if !ok {
		return m
	}
	s := mulMatVec(inv, white)

	return [3][3]float64{
		{r[0] * s[0], g[0] * s[1], b[0] * s[2]},
		{r[1] * s[0], g[1] * s[1], b[1] * s[2]},
		{r[2] * s[0], g[2] * s[1], b[2] * s[2]},
	}
}

// TransferKind selects the shape of a TransferFunction.
type TransferKind int

const (
	TransferLinear TransferKind = iota
	TransferPureGamma
	TransferSRGB
	TransferLStar
)

// TransferFunction is the encode/decode (gamma) pair of an RGB-family
// colorspace, expressed parametrically so the Assembler can close over
// its constants rather than a boxed function value.
type TransferFunction struct {
	Kind  TransferKind
	Gamma float64 // used by TransferPureGamma
}

// Decode maps an encoded (companded) channel value to linear light.
func (t TransferFunction) Decode(v float64) float64 {
	switch t.Kind {
	case TransferPureGamma:
		if v < 0 {
			return v
		}
		return math.Pow(v, t.Gamma)
	case TransferSRGB:
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	case TransferLStar:
		if v <= 0.08 {
			return 100 * v / 903.3
		}
		return math.Pow((v+0.16)/1.16, 3)
	default:
		return v
	}
}

// Encode maps a linear light channel value to its companded encoding.
func (t TransferFunction) Encode(v float64) float64 {
	switch t.Kind {
	case TransferPureGamma:
		if v < 0 {
			return v
		}
		return math.Pow(v, 1/t.Gamma)
	case TransferSRGB:
		if v <= 0.0031308 {
			return v * 12.92
		}
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	case TransferLStar:
		if v <= 0.008856 {
			return v * 903.3 / 100
		}
		return 1.16*math.Pow(v, 1.0/3) - 0.16
	default:
		return v
	}
}

// ICCSide records which side of an ICC profile a Colorspace represents.
type ICCSide int

const (
	// ICCSideDevice is the profile's device-referred color space.
	ICCSideDevice ICCSide = iota
	// ICCSidePCS is the profile's Profile Connection Space, the binding
	// used for Abstract profiles (which have no device side) and for
	// callers that explicitly want to hand PCS-referred values to the
	// engine.
	ICCSidePCS
)

// ICCSpace wraps an icc.Profile for a Colorspace bound to it.
type ICCSpace struct {
	Profile *icc.Profile
	Side    ICCSide
}

func kindFromICCSpace(s icc.ColorSpace) Kind {
	switch s {
	case icc.CIELabSpace:
		return KindLab
	case icc.CIELuvSpace:
		return KindLuv
	case icc.YCbCrSpace:
		return KindYCbCr
	case icc.CIEYxySpace:
		return KindXyY
	case icc.RGBSpace:
		return KindRGB
	case icc.GraySpace:
		return KindGray
	case icc.HSVSpace:
		return KindHSV
	case icc.CMYKSpace:
		return KindCMYK
	default:
		return KindXYZ
	}
}

// DataKind returns the Kind of the profile's device-referred color space.
func (s *ICCSpace) DataKind() Kind {
	return kindFromICCSpace(s.Profile.ColorSpace)
}

// PCSKind returns the Kind of the profile's Profile Connection Space.
func (s *ICCSpace) PCSKind() Kind {
	return kindFromICCSpace(s.Profile.PCS)
}

// Colorspace is the tagged variant every Color refers to: an RGB-family
// preset, a parametric non-RGB space, or an ICC-backed space delegating
// to an icc.Profile.
type Colorspace struct {
	Kind       Kind
	Whitepoint [3]float64
	Primaries  *Primaries
	Transfer   *TransferFunction
	ICC        *ICCSpace
}

// EffectiveKind returns the Kind the planner should match this
// Colorspace against: its own Kind for non-ICC spaces, or the
// appropriate side of the wrapped profile for ICC-backed spaces.
func (cs *Colorspace) EffectiveKind() Kind {
	if cs.ICC == nil {
		return cs.Kind
	}
	if cs.ICC.Side == ICCSidePCS {
		return cs.ICC.PCSKind()
	}
	return cs.ICC.DataKind()
}

// NewICCDeviceColorspace binds a Colorspace to the device-referred side
// of profile p, the conventional binding for Input/Display/Output/
// ColorSpace/DeviceLink/NamedColor profile classes.
func NewICCDeviceColorspace(p *icc.Profile) *Colorspace {
	return &Colorspace{
		Kind:       kindFromICCSpace(p.ColorSpace),
		Whitepoint: WhiteD50,
		ICC:        &ICCSpace{Profile: p, Side: ICCSideDevice},
	}
}

// NewICCPCSColorspace binds a Colorspace to the Profile Connection Space
// side of profile p. This is the binding used for Abstract profiles,
// which map PCS values to PCS values, and for any caller that wants to
// exchange PCS-referred values directly with the engine.
func NewICCPCSColorspace(p *icc.Profile) *Colorspace {
	return &Colorspace{
		Kind:       kindFromICCSpace(p.PCS),
		Whitepoint: WhiteD50,
		ICC:        &ICCSpace{Profile: p, Side: ICCSidePCS},
	}
}

// RGB-family presets, grounded on published colorimetry the same way
// dominikh-go-color's spaces.go precomputes a tree of base color spaces
// from primaries and white point.
var (
	SRGB = &Colorspace{
		Kind:       KindRGB,
		Whitepoint: WhiteD65,
		Primaries: &Primaries{
			R: Chromaticity{0.6400, 0.3300},
			G: Chromaticity{0.3000, 0.6000},
			B: Chromaticity{0.1500, 0.0600},
		},
		Transfer: &TransferFunction{Kind: TransferSRGB},
	}

	AdobeRGB = &Colorspace{
		Kind:       KindRGB,
		Whitepoint: WhiteD65,
		Primaries: &Primaries{
			R: Chromaticity{0.6400, 0.3300},
			G: Chromaticity{0.2100, 0.7100},
			B: Chromaticity{0.1500, 0.0600},
		},
		Transfer: &TransferFunction{Kind: TransferPureGamma, Gamma: 2.19921875},
	}

	ProPhotoRGB = &Colorspace{
		Kind:       KindRGB,
		Whitepoint: WhiteD50,
		Primaries: &Primaries{
			R: Chromaticity{0.7347, 0.2653},
			G: Chromaticity{0.1596, 0.8404},
			B: Chromaticity{0.0366, 0.0001},
		},
		Transfer: &TransferFunction{Kind: TransferPureGamma, Gamma: 1.8},
	}

	Rec709 = &Colorspace{
		Kind:       KindRGB,
		Whitepoint: WhiteD65,
		Primaries: &Primaries{
			R: Chromaticity{0.6400, 0.3300},
			G: Chromaticity{0.3000, 0.6000},
			B: Chromaticity{0.1500, 0.0600},
		},
		Transfer: &TransferFunction{Kind: TransferPureGamma, Gamma: 2.2},
	}

	Rec2020 = &Colorspace{
		Kind:       KindRGB,
		Whitepoint: WhiteD65,
		Primaries: &Primaries{
			R: Chromaticity{0.7080, 0.2920},
			G: Chromaticity{0.1700, 0.7970},
			B: Chromaticity{0.1310, 0.0460},
		},
		Transfer: &TransferFunction{Kind: TransferPureGamma, Gamma: 2.2},
	}
)

// NonRGBColorspace builds a Colorspace for one of the fixed, non-RGB
// variants (XYZ, Lab, LCHab, Luv, LCHuv, XyY, HSV, HSL, YCbCr, CMYK,
// Gray), all of which share a whitepoint but carry no primaries/transfer.
func NonRGBColorspace(kind Kind, white [3]float64) *Colorspace {
	return &Colorspace{Kind: kind, Whitepoint: white}
}
