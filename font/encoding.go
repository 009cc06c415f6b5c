package font

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Encoding maps single bytes (PDF simple-font character codes) to Unicode
// code points. WinAnsiEncoding, MacRomanEncoding, StandardEncodingTable and
// PDFDocEncoding are the four base tables a PDF font dictionary's /Encoding
// entry can name; CustomEncoding layers a /Differences array or an explicit
// byte remap on top of one of them.
type Encoding interface {
	// Decode returns the Unicode code point for a single character code.
	Decode(b byte) rune
	// DecodeString decodes a full byte string using Decode on each byte.
	DecodeString(data []byte) string
	// Name returns the encoding's canonical name as used in a PDF
	// /Encoding entry.
	Name() string
}

// simpleEncoding is a 256-entry lookup table keyed by byte value. A zero
// entry means "undefined" and decodes to the replacement character.
type simpleEncoding struct {
	name  string
	table [256]rune
}

func (e *simpleEncoding) Decode(b byte) rune {
	r := e.table[b]
	if r == 0 {
		return utf8.RuneError
	}
	return r
}

func (e *simpleEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.Decode(b))
	}
	return sb.String()
}

func (e *simpleEncoding) Name() string {
	return e.name
}

// WinAnsiEncoding is the PDF 1.7 Annex D WinAnsiEncoding table, which
// matches Windows code page 1252 for bytes 0x80-0x9F and Latin-1 elsewhere.
var WinAnsiEncoding Encoding = buildWinAnsiEncoding()

// MacRomanEncoding is the PDF 1.7 Annex D MacRomanEncoding table.
var MacRomanEncoding Encoding = buildMacRomanEncoding()

// StandardEncodingTable is the PDF 1.7 Annex D StandardEncoding table, the
// Adobe default used by the original Type 1 font set.
var StandardEncodingTable Encoding = buildStandardEncoding()

// PDFDocEncoding is the PDF 1.7 Annex D PDFDocEncoding table, used for text
// strings outside content streams (e.g. document info and outlines).
var PDFDocEncoding Encoding = buildPDFDocEncoding()

func buildWinAnsiEncoding() *simpleEncoding {
	e := &simpleEncoding{name: "WinAnsiEncoding"}
	for i := 0x20; i < 0x7F; i++ {
		e.table[i] = rune(i)
	}
	e.table[0x7F] = utf8.RuneError
	// 0x80-0x9F: CP1252 high range, per PDF 1.7 Annex D.
	high := map[byte]rune{
		0x80: 0x20AC, 0x81: utf8.RuneError, 0x82: 0x201A, 0x83: 0x0192,
		0x84: 0x201E, 0x85: 0x2026, 0x86: 0x2020, 0x87: 0x2021,
		0x88: 0x02C6, 0x89: 0x2030, 0x8A: 0x0160, 0x8B: 0x2039,
		0x8C: 0x0152, 0x8D: utf8.RuneError, 0x8E: 0x017D, 0x8F: utf8.RuneError,
		0x90: utf8.RuneError, 0x91: 0x2018, 0x92: 0x2019, 0x93: 0x201C,
		0x94: 0x201D, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
		0x98: 0x02DC, 0x99: 0x2122, 0x9A: 0x0161, 0x9B: 0x203A,
		0x9C: 0x0153, 0x9D: utf8.RuneError, 0x9E: 0x017E, 0x9F: 0x0178,
	}
	for b, r := range high {
		e.table[b] = r
	}
	// 0xA0-0xFF: identical to Latin-1/CP1252 in this range except 0xA0
	// (non-breaking space) and 0xAD (soft hyphen), which PDF maps to the
	// ordinary glyphs instead of the invisible Latin-1 control points.
	for i := 0xA0; i <= 0xFF; i++ {
		e.table[i] = rune(i)
	}
	e.table[0xA0] = ' '
	e.table[0xAD] = '-'
	return e
}

func buildMacRomanEncoding() *simpleEncoding {
	e := &simpleEncoding{name: "MacRomanEncoding"}
	for i := 0x20; i < 0x7F; i++ {
		e.table[i] = rune(i)
	}
	e.table[0x7F] = utf8.RuneError
	high := [256]rune{
		0x80: 0x00C4, 0x81: 0x00C5, 0x82: 0x00C7, 0x83: 0x00C9,
		0x84: 0x00D1, 0x85: 0x00D6, 0x86: 0x00DC, 0x87: 0x00E1,
		0x88: 0x00E0, 0x89: 0x00E2, 0x8A: 0x00E4, 0x8B: 0x00E3,
		0x8C: 0x00E5, 0x8D: 0x00E7, 0x8E: 0x00E9, 0x8F: 0x00E8,
		0x90: 0x00EA, 0x91: 0x00EB, 0x92: 0x00ED, 0x93: 0x00EC,
		0x94: 0x00EE, 0x95: 0x00EF, 0x96: 0x00F1, 0x97: 0x00F3,
		0x98: 0x00F2, 0x99: 0x00F4, 0x9A: 0x00F6, 0x9B: 0x00F5,
		0x9C: 0x00FA, 0x9D: 0x00F9, 0x9E: 0x00FB, 0x9F: 0x00FC,
		0xA0: 0x2020, 0xA1: 0x00B0, 0xA2: 0x00A2, 0xA3: 0x00A3,
		0xA4: 0x00A7, 0xA5: 0x2022, 0xA6: 0x00B6, 0xA7: 0x00DF,
		0xA8: 0x00AE, 0xA9: 0x00A9, 0xAA: 0x2122, 0xAB: 0x00B4,
		0xAC: 0x00A8, 0xAD: 0x2260, 0xAE: 0x00C6, 0xAF: 0x00D8,
		0xB0: 0x221E, 0xB1: 0x00B1, 0xB2: 0x2264, 0xB3: 0x2265,
		0xB4: 0x00A5, 0xB5: 0x00B5, 0xB6: 0x2202, 0xB7: 0x2211,
		0xB8: 0x220F, 0xB9: 0x03C0, 0xBA: 0x222B, 0xBB: 0x00AA,
		0xBC: 0x00BA, 0xBD: 0x03A9, 0xBE: 0x00E6, 0xBF: 0x00F8,
		0xC0: 0x00BF, 0xC1: 0x00A1, 0xC2: 0x00AC, 0xC3: 0x221A,
		0xC4: 0x0192, 0xC5: 0x2248, 0xC6: 0x2206, 0xC7: 0x00AB,
		0xC8: 0x00BB, 0xC9: 0x2026, 0xCA: 0x00A0, 0xCB: 0x00C0,
		0xCC: 0x00C3, 0xCD: 0x00D5, 0xCE: 0x0152, 0xCF: 0x0153,
		0xD0: 0x2013, 0xD1: 0x2014, 0xD2: 0x201C, 0xD3: 0x201D,
		0xD4: 0x2018, 0xD5: 0x2019, 0xD6: 0x00F7, 0xD7: 0x25CA,
		0xD8: 0x00FF, 0xD9: 0x0178, 0xDA: 0x2044, 0xDB: 0x20AC,
		0xDC: 0x2039, 0xDD: 0x203A, 0xDE: 0xFB01, 0xDF: 0xFB02,
		0xE0: 0x2021, 0xE1: 0x00B7, 0xE2: 0x201A, 0xE3: 0x201E,
		0xE4: 0x2030, 0xE5: 0x00C2, 0xE6: 0x00CA, 0xE7: 0x00C1,
		0xE8: 0x00CB, 0xE9: 0x00C8, 0xEA: 0x00CD, 0xEB: 0x00CE,
		0xEC: 0x00CF, 0xED: 0x00CC, 0xEE: 0x00D3, 0xEF: 0x00D4,
		0xF0: 0xF8FF, 0xF1: 0x00D2, 0xF2: 0x00DA, 0xF3: 0x00DB,
		0xF4: 0x00D9, 0xF5: 0x0131, 0xF6: 0x02C6, 0xF7: 0x02DC,
		0xF8: 0x00AF, 0xF9: 0x02D8, 0xFA: 0x02D9, 0xFB: 0x02DA,
		0xFC: 0x00B8, 0xFD: 0x02DD, 0xFE: 0x02DB, 0xFF: 0x02C7,
	}
	for b, r := range high {
		if r != 0 {
			e.table[b] = r
		}
	}
	return e
}

func buildStandardEncoding() *simpleEncoding {
	e := &simpleEncoding{name: "StandardEncoding"}
	for i := 0x20; i < 0x7F; i++ {
		e.table[i] = rune(i)
	}
	high := map[byte]rune{
		0xA1: 0x00A1, 0xA2: 0x00A2, 0xA3: 0x00A3, 0xA4: 0x2044,
		0xA5: 0x00A5, 0xA6: 0x0192, 0xA7: 0x00A7, 0xA8: 0x00A4,
		0xA9: 0x0027, 0xAA: 0x201C, 0xAB: 0x00AB, 0xAC: 0x2039,
		0xAD: 0x203A, 0xAE: 0xFB01, 0xAF: 0xFB02,
		0xB1: 0x2013, 0xB2: 0x2020, 0xB3: 0x2021, 0xB4: 0x00B7,
		0xB6: 0x00B6, 0xB7: 0x2022, 0xB8: 0x201A, 0xB9: 0x201E,
		0xBA: 0x201D, 0xBB: 0x00BB, 0xBC: 0x2026, 0xBD: 0x2030,
		0xBF: 0x00BF,
		0xC1: 0x0060, 0xC2: 0x00B4, 0xC3: 0x02C6, 0xC4: 0x02DC,
		0xC5: 0x00AF, 0xC6: 0x02D8, 0xC7: 0x02D9, 0xC8: 0x00A8,
		0xCA: 0x02DA, 0xCB: 0x00B8, 0xCD: 0x02DD, 0xCE: 0x02DB,
		0xCF: 0x02C7,
		0xD0: 0x2014, 0xE1: 0x00C6, 0xE3: 0x00AA, 0xE8: 0x0141,
		0xE9: 0x00D8, 0xEA: 0x0152, 0xEB: 0x00BA, 0xF1: 0x00E6,
		0xF5: 0x0131, 0xF8: 0x0142, 0xF9: 0x00F8, 0xFA: 0x0153,
		0xFB: 0x00DF,
	}
	for b, r := range high {
		e.table[b] = r
	}
	return e
}

func buildPDFDocEncoding() *simpleEncoding {
	e := &simpleEncoding{name: "PDFDocEncoding"}
	for i := 0x20; i < 0x7F; i++ {
		e.table[i] = rune(i)
	}
	high := map[byte]rune{
		0x80: 0x2022, 0x81: 0x2020, 0x82: 0x2021, 0x83: 0x2026,
		0x84: 0x2014, 0x85: 0x2013, 0x86: 0x0192, 0x87: 0x2044,
		0x88: 0x2039, 0x89: 0x203A, 0x8A: 0x2212, 0x8B: 0x2030,
		0x8C: 0x201E, 0x8D: 0x201C, 0x8E: 0x201D, 0x8F: 0x2018,
		0x90: 0x2019, 0x91: 0x201A, 0x92: 0x2122, 0x93: 0xFB01,
		0x94: 0xFB02, 0x95: 0x0141, 0x96: 0x0152, 0x97: 0x0160,
		0x98: 0x0178, 0x99: 0x017D, 0x9A: 0x0131, 0x9B: 0x0142,
		0x9C: 0x0153, 0x9D: 0x0161, 0x9E: 0x017E,
		0xA0: 0x20AC,
	}
	for b, r := range high {
		e.table[b] = r
	}
	for i := 0xA1; i <= 0xFF; i++ {
		e.table[i] = rune(i)
	}
	return e
}

// GetEncoding resolves a PDF /Encoding name to an Encoding table, defaulting
// to WinAnsiEncoding for unrecognized or empty names as most producers that
// omit /Encoding target Windows viewers.
func GetEncoding(name string) Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding":
		return MacRomanEncoding
	case "StandardEncoding":
		return StandardEncodingTable
	case "PDFDocEncoding":
		return PDFDocEncoding
	default:
		return WinAnsiEncoding
	}
}

// DecodeWithEncoding decodes data using the named base encoding.
func DecodeWithEncoding(data []byte, encodingName string) string {
	return GetEncoding(encodingName).DecodeString(data)
}

// CustomEncoding layers a byte-level or glyph-name-level override on top of
// a base Encoding, modeling a PDF font's /Differences array or an explicit
// byte remap not expressible as a PDF name.
type CustomEncoding struct {
	base    Encoding
	runes   map[byte]rune
}

// NewCustomEncoding builds a CustomEncoding that overrides specific byte
// values with explicit runes, falling through to base for anything else.
func NewCustomEncoding(base Encoding, differences map[byte]rune) *CustomEncoding {
	runes := make(map[byte]rune, len(differences))
	for b, r := range differences {
		runes[b] = r
	}
	return &CustomEncoding{base: base, runes: runes}
}

// NewCustomEncodingFromGlyphs builds a CustomEncoding from a PDF
// /Differences array expressed as glyph names, resolving each name through
// glyphNameToUnicode. Names with no known mapping are left to fall through
// to base.
func NewCustomEncodingFromGlyphs(base Encoding, differences map[byte]string) *CustomEncoding {
	runes := make(map[byte]rune, len(differences))
	for b, name := range differences {
		if r, ok := glyphNameToUnicode[name]; ok {
			runes[b] = r
		}
	}
	return &CustomEncoding{base: base, runes: runes}
}

func (c *CustomEncoding) Decode(b byte) rune {
	if r, ok := c.runes[b]; ok {
		return r
	}
	return c.base.Decode(b)
}

func (c *CustomEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(c.Decode(b))
	}
	return sb.String()
}

func (c *CustomEncoding) Name() string {
	return c.base.Name() + "+custom"
}

// ApplyDifferences builds the per-byte override map described by a PDF
// /Differences array: alternating Number/Name pairs where each Number sets
// the starting code for the Names that follow it.
func ApplyDifferences(entries []DifferenceEntry) map[byte]string {
	out := make(map[byte]string, len(entries))
	code := 0
	for _, e := range entries {
		if e.IsCode {
			code = e.Code
			continue
		}
		if code >= 0 && code <= 255 {
			out[byte(code)] = e.Name
		}
		code++
	}
	return out
}

// DifferenceEntry is one element of a parsed /Differences array: either a
// starting code (IsCode true) or a glyph name applying to the running code.
type DifferenceEntry struct {
	IsCode bool
	Code   int
	Name   string
}

// DecodeUTF16BE decodes big-endian UTF-16 bytes to a Go string, combining
// surrogate pairs and skipping an unpaired trailing byte.
func DecodeUTF16BE(data []byte) string {
	return decodeUTF16(data, false)
}

// DecodeUTF16LE decodes little-endian UTF-16 bytes to a Go string.
func DecodeUTF16LE(data []byte) string {
	return decodeUTF16(data, true)
}

func decodeUTF16(data []byte, little bool) string {
	var sb strings.Builder
	i := 0
	for i+1 < len(data) {
		var unit uint16
		if little {
			unit = uint16(data[i]) | uint16(data[i+1])<<8
		} else {
			unit = uint16(data[i])<<8 | uint16(data[i+1])
		}
		i += 2

		if unit >= 0xD800 && unit <= 0xDBFF && i+1 < len(data) {
			var low uint16
			if little {
				low = uint16(data[i]) | uint16(data[i+1])<<8
			} else {
				low = uint16(data[i])<<8 | uint16(data[i+1])
			}
			if low >= 0xDC00 && low <= 0xDFFF {
				i += 2
				cp := 0x10000 + (uint32(unit-0xD800) << 10) + uint32(low-0xDC00)
				if cp < 0x110000 {
					sb.WriteRune(rune(cp))
				}
				continue
			}
		}
		sb.WriteRune(rune(unit))
	}
	return sb.String()
}

// NormalizeUnicode normalizes s to NFC so that decoded text compares and
// concatenates consistently regardless of how a PDF producer encoded
// combining marks.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// IsValidUTF8 reports whether s is well-formed UTF-8.
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}
