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

// Built-in matrix/TRC profiles, synthesised from published colorimetric
// data rather than embedded as binary ICC files. These back the core
// conversion engine's tests and examples and give callers a profile to
// experiment with before they have a real vendor-supplied ICC file.

// sRGBMatrix holds the IEC 61966-2-1 primaries, adapted to the D50 profile
// connection space with the Bradford transform, expressed as matrix
// columns (X, Y, Z contribution of each fully-saturated primary).
var sRGBMatrix = struct {
	R, G, B [3]float64
}{
	R: [3]float64{0.4360747, 0.2225045, 0.0139322},
	G: [3]float64{0.3850649, 0.7168786, 0.0971045},
	B: [3]float64{0.1430804, 0.0606169, 0.7141733},
}

// sRGBTRC is the IEC 61966-2-1 tone curve, expressed as an ICC
// parametricCurveType function 3: y = (ax+b)^g for x >= d, else y = cx.
var sRGBTRC = &Curve{
	FuncType: 3,
	Params:   []float64{2.4, 1.0 / 1.055, 0.055 / 1.055, 1.0 / 12.92, 0.04045},
}

func matrixColumnTag(xyz [3]float64) []byte {
	buf := make([]byte, 20)
	copy(buf[0:4], "XYZ ")
	putS15Fixed16(buf, 8, xyz[0])
	putS15Fixed16(buf, 12, xyz[1])
	putS15Fixed16(buf, 16, xyz[2])
	return buf
}

// NewSRGBProfile builds a matrix/TRC display profile for sRGB. It is a
// synthesised stand-in for a vendor sRGB ICC profile: same colorimetry,
// no embedded description or copyright tags.
func NewSRGBProfile() *Profile {
	p := &Profile{
		Version:         Version4_3_0,
		Class:           DisplayDeviceProfile,
		ColorSpace:      RGBSpace,
		PCS:             PCSXYZSpace,
		RenderingIntent: Perceptual,
		TagData:         make(map[TagType][]byte),
	}
	p.TagData[RedMatrixColumn] = matrixColumnTag(sRGBMatrix.R)
	p.TagData[GreenMatrixColumn] = matrixColumnTag(sRGBMatrix.G)
	p.TagData[BlueMatrixColumn] = matrixColumnTag(sRGBMatrix.B)
	p.TagData[RedTRC] = sRGBTRC.Encode()
	p.TagData[GreenTRC] = sRGBTRC.Encode()
	p.TagData[BlueTRC] = sRGBTRC.Encode()
	p.TagData[MediaWhitePoint] = matrixColumnTag(d50WhitePoint)
	return p
}

// NewGrayGammaProfile builds a gray TRC display profile with a pure gamma
// tone curve, for exercising the single-channel path through the engine.
func NewGrayGammaProfile(gamma float64) *Profile {
	p := &Profile{
		Version:         Version4_3_0,
		Class:           DisplayDeviceProfile,
		ColorSpace:      GraySpace,
		PCS:             PCSXYZSpace,
		RenderingIntent: Perceptual,
		TagData:         make(map[TagType][]byte),
	}
	p.TagData[GrayTRC] = (&Curve{Gamma: gamma}).Encode()
	p.TagData[MediaWhitePoint] = matrixColumnTag(d50WhitePoint)
	return p
}
