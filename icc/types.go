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

import (
	"errors"
	"unicode/utf16"
)

// decodeText reads the payload of a "text" typed tag: an 8-byte type/reserved
// header followed by a NUL-padded ASCII string.
func decodeText(data []byte) (string, error) {
	if err := expectTagSignature("text", data); err != nil {
		return "", err
	}
	const headerLen = 8
	if len(data) < headerLen {
		return "", errMalformedTagData
	}
	end := len(data)
	for end-1 > headerLen && data[end-1] == 0 {
		end--
	}
	return string(data[headerLen:end]), nil
}

// MultiLocalizedUnicode represents a localized Unicode string.
type MultiLocalizedUnicode []LocalizedUnicode

// LocalizedUnicode represents a language-country pair.
type LocalizedUnicode struct {
	Language string
	Country  string
	Value    string
}

// mlucRecordSize is the byte width of one mluc record descriptor: a two-letter
// language code, a two-letter country code, a uint32 string length and a
// uint32 offset into data.
const mlucRecordSize = 12

func decodeMultiLocalizedUnicode(data []byte) (MultiLocalizedUnicode, error) {
	if err := expectTagSignature("mluc", data); err != nil {
		return nil, err
	}
	if len(data) < 12 {
		return nil, errMalformedTagData
	}

	count := getUint32(data, 8)
	if count == 0 || uint64(len(data)) < 16+mlucRecordSize*uint64(count) {
		return nil, errMalformedTagData
	}

	out := make(MultiLocalizedUnicode, count)
	for i := range out {
		recordStart := 16 + mlucRecordSize*i
		language := string(data[recordStart : recordStart+2])
		country := string(data[recordStart+2 : recordStart+4])
		strLen := getUint32(data, recordStart+4)
		strOffset := getUint32(data, recordStart+8)

		start := uint64(strOffset)
		end := start + uint64(strLen)
		if end > uint64(len(data)) || strLen&1 != 0 {
			return nil, errMalformedTagData
		}

		units := make([]uint16, strLen/2)
		for j := range units {
			units[j] = uint16(data[start+2*uint64(j)])<<8 | uint16(data[start+2*uint64(j)+1])
		}
		out[i] = LocalizedUnicode{
			Language: language,
			Country:  country,
			Value:    string(utf16.Decode(units)),
		}
	}
	return out, nil
}

// expectTagSignature reports an error unless data begins with the four-byte
// ASCII type signature typeID.
func expectTagSignature(typeID string, data []byte) error {
	sig := []byte(typeID)
	for i, b := range sig {
		if i >= len(data) || data[i] != b {
			return errTagTypeMismatch
		}
	}
	return nil
}

var (
	errTagNotPresent    = errors.New("icc: tag not present")
	errTagTypeMismatch  = errors.New("icc: tag type signature mismatch")
	errMalformedTagData = errors.New("icc: malformed tag data")
)
