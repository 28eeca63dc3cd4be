// seehuhn.de/go/icc - read and write ICC profiles
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

import "fmt"

// TagType is the four-byte signature under which a tag's payload is stored
// in a profile's tag table.
type TagType uint32

var tagTypeNames = map[TagType]string{
	ProfileDescription:  "Profile Description",
	Copyright:           "Copyright",
	ChromaticAdaptation: "Chromatic Adaptation",
	RedMatrixColumn:     "Red Matrix Column",
	GreenMatrixColumn:   "Green Matrix Column",
	BlueMatrixColumn:    "Blue Matrix Column",
	RedTRC:              "Red TRC",
	GreenTRC:            "Green TRC",
	BlueTRC:             "Blue TRC",
	GrayTRC:             "Gray TRC",
	MediaWhitePoint:     "Media White Point",
	AToB0:               "A to B0",
	AToB1:               "A to B1",
	AToB2:               "A to B2",
	BToA0:               "B to A0",
	BToA1:               "B to A1",
	BToA2:               "B to A2",
}

func (t TagType) String() string {
	if name, ok := tagTypeNames[t]; ok {
		return name
	}
	return formatUnknownTagType(t)
}

// formatUnknownTagType renders an unrecognized signature as its four ASCII
// characters when printable, otherwise as a raw hex value.
func formatUnknownTagType(t TagType) string {
	raw := [4]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
	for _, c := range raw {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", uint32(t))
		}
	}
	return fmt.Sprintf("%q", string(raw[:]))
}

// Some tag types defined in the ICC specification.
const (
	ProfileDescription  TagType = 0x64657363 // "desc"
	Copyright           TagType = 0x63707274 // "cprt"
	ChromaticAdaptation TagType = 0x63686164 // "chad"

	// Matrix/TRC profile tags
	RedMatrixColumn   TagType = 0x7258595A // "rXYZ"
	GreenMatrixColumn TagType = 0x6758595A // "gXYZ"
	BlueMatrixColumn  TagType = 0x6258595A // "bXYZ"
	RedTRC            TagType = 0x72545243 // "rTRC"
	GreenTRC          TagType = 0x67545243 // "gTRC"
	BlueTRC           TagType = 0x62545243 // "bTRC"
	GrayTRC           TagType = 0x6B545243 // "kTRC"
	MediaWhitePoint   TagType = 0x77747074 // "wtpt"

	// LUT-based profile tags
	AToB0 TagType = 0x41324230 // "A2B0" - Perceptual
	AToB1 TagType = 0x41324231 // "A2B1" - Relative Colorimetric
	AToB2 TagType = 0x41324232 // "A2B2" - Saturation
	BToA0 TagType = 0x42324130 // "B2A0" - Perceptual
	BToA1 TagType = 0x42324131 // "B2A1" - Relative Colorimetric
	BToA2 TagType = 0x42324132 // "B2A2" - Saturation
)

// Copyright returns the contents of the copyright tag.
func (p *Profile) Copyright() (MultiLocalizedUnicode, error) {
	tag, ok := p.TagData[Copyright]
	if !ok {
		return nil, errTagNotPresent
	}
	val, err := decodeMultiLocalizedUnicode(tag)
	if err != errTagTypeMismatch {
		return val, err
	}

	s, err := decodeText(tag)
	if err != nil {
		return nil, err
	}
	val = MultiLocalizedUnicode{
		{
			Language: "en",
			Country:  "US",
			Value:    s,
		},
	}
	return val, nil
}
