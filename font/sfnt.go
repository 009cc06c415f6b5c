package font

import (
	"encoding/binary"
)

// sfntGlyphMap is the result of parsing an embedded sfnt (TrueType/OpenType)
// font program: a glyph id -> Unicode code point map recovered from the
// font's best `cmap` subtable, plus an informational name pulled from the
// `name` table.
type sfntGlyphMap struct {
	GlyphToUnicode map[uint16]rune
	FontName       string
}

// parseSfnt parses the offset table and table directory of an embedded
// FontFile/FontFile2/FontFile3 stream and extracts glyph-to-Unicode
// mappings from its `cmap` table. It returns ok=false for unsupported
// containers (TrueType Collections, bare CFF/OTTO with no usable cmap) or
// when no table read produced at least one mapping.
func parseSfnt(data []byte) (*sfntGlyphMap, bool) {
	if len(data) < 12 {
		return nil, false
	}

	tag := binary.BigEndian.Uint32(data[0:4])
	switch tag {
	case 0x00010000: // TrueType
	case 0x74727565: // 'true'
	case 0x4F54544F: // 'OTTO' - CFF-flavored OpenType; cmap may still exist
	default:
		return nil, false // includes 'ttcf' collections
	}

	numTables := binary.BigEndian.Uint16(data[4:6])
	const recordSize = 16
	tableDirEnd := 12 + int(numTables)*recordSize
	if tableDirEnd > len(data) {
		return nil, false
	}

	tables := make(map[string][2]uint32, numTables) // tag -> [offset, length]
	for i := 0; i < int(numTables); i++ {
		rec := data[12+i*recordSize : 12+(i+1)*recordSize]
		tag := string(rec[0:4])
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		tables[tag] = [2]uint32{offset, length}
	}

	result := &sfntGlyphMap{GlyphToUnicode: make(map[uint16]rune)}

	if loc, ok := tables["cmap"]; ok {
		off, length := int(loc[0]), int(loc[1])
		if off >= 0 && off+length <= len(data) && length > 0 {
			parseCmapTable(data[off:off+length], result.GlyphToUnicode)
		}
	}

	if loc, ok := tables["name"]; ok {
		off, length := int(loc[0]), int(loc[1])
		if off >= 0 && off+length <= len(data) && length > 0 {
			result.FontName = parseNameTable(data[off : off+length])
		}
	}

	if len(result.GlyphToUnicode) == 0 {
		return result, false
	}
	return result, true
}

type cmapSubtableRef struct {
	platformID uint16
	encodingID uint16
	offset     uint32
}

// subtablePriority returns the selection priority for a (platform,
// encoding) pair per the OpenType cmap selection order this core
// recognizes; higher wins. Zero means "not used".
func subtablePriority(platformID, encodingID uint16) int {
	switch {
	case platformID == 3 && encodingID == 10:
		return 11
	case platformID == 3 && encodingID == 1:
		return 10
	case platformID == 0 && encodingID >= 3:
		return 9
	case platformID == 0:
		return 8
	case platformID == 1 && encodingID == 0:
		return 5
	default:
		return 0
	}
}

func parseCmapTable(data []byte, out map[uint16]rune) {
	if len(data) < 4 {
		return
	}
	numTables := binary.BigEndian.Uint16(data[2:4])

	var best cmapSubtableRef
	bestPriority := 0

	const recordStart = 4
	const recordSize = 8
	for i := 0; i < int(numTables); i++ {
		start := recordStart + i*recordSize
		if start+recordSize > len(data) {
			break
		}
		rec := data[start : start+recordSize]
		platformID := binary.BigEndian.Uint16(rec[0:2])
		encodingID := binary.BigEndian.Uint16(rec[2:4])
		offset := binary.BigEndian.Uint32(rec[4:8])

		if p := subtablePriority(platformID, encodingID); p > bestPriority {
			bestPriority = p
			best = cmapSubtableRef{platformID, encodingID, offset}
		}
	}

	if bestPriority == 0 || int(best.offset) >= len(data) {
		return
	}

	sub := data[best.offset:]
	if len(sub) < 2 {
		return
	}
	format := binary.BigEndian.Uint16(sub[0:2])

	switch format {
	case 0:
		parseCmapFormat0(sub, out)
	case 4:
		parseCmapFormat4(sub, out)
	case 6:
		parseCmapFormat6(sub, out)
	case 12:
		parseCmapFormat12(sub, out)
	}
}

// parseCmapFormat0 reads a byte-encoding table: 256 glyph ids indexed by
// character code.
func parseCmapFormat0(data []byte, out map[uint16]rune) {
	if len(data) < 6+256 {
		return
	}
	glyphs := data[6 : 6+256]
	for code, g := range glyphs {
		if g != 0 {
			out[uint16(g)] = rune(code)
		}
	}
}

// parseCmapFormat4 reads a segment-mapping-to-delta-values table.
func parseCmapFormat4(data []byte, out map[uint16]rune) {
	if len(data) < 14 {
		return
	}
	segCountX2 := binary.BigEndian.Uint16(data[6:8])
	segCount := int(segCountX2 / 2)

	endCodeOff := 14
	startCodeOff := endCodeOff + int(segCountX2) + 2 // +2 for reservedPad
	idDeltaOff := startCodeOff + int(segCountX2)
	idRangeOffOff := idDeltaOff + int(segCountX2)

	if idRangeOffOff+int(segCountX2) > len(data) {
		return
	}

	u16 := func(off int) uint16 { return binary.BigEndian.Uint16(data[off : off+2]) }

	for seg := 0; seg < segCount; seg++ {
		endCode := u16(endCodeOff + seg*2)
		startCode := u16(startCodeOff + seg*2)
		idDelta := int16(u16(idDeltaOff + seg*2))
		idRangeOffset := u16(idRangeOffOff + seg*2)

		if startCode == 0xFFFF {
			continue
		}

		for charCode := uint32(startCode); charCode <= uint32(endCode); charCode++ {
			var glyphID uint16
			if idRangeOffset == 0 {
				glyphID = uint16(uint32(int32(charCode)+int32(idDelta)) & 0xFFFF)
			} else {
				glyphIndexAddr := idRangeOffOff + seg*2 + int(idRangeOffset) + int(charCode-uint32(startCode))*2
				if glyphIndexAddr+2 > len(data) {
					continue
				}
				g := u16(glyphIndexAddr)
				if g == 0 {
					continue
				}
				glyphID = uint16((uint32(g) + uint32(idDelta)) & 0xFFFF)
			}
			if glyphID == 0 {
				continue
			}
			if _, exists := out[glyphID]; !exists {
				out[glyphID] = rune(charCode)
			}
		}
	}
}

// parseCmapFormat6 reads a trimmed table mapping: a contiguous run of
// character codes starting at firstCode, each with a glyph id.
func parseCmapFormat6(data []byte, out map[uint16]rune) {
	if len(data) < 10 {
		return
	}
	firstCode := binary.BigEndian.Uint16(data[6:8])
	entryCount := binary.BigEndian.Uint16(data[8:10])

	glyphsStart := 10
	glyphsEnd := glyphsStart + int(entryCount)*2
	if glyphsEnd > len(data) {
		return
	}

	for i := 0; i < int(entryCount); i++ {
		g := binary.BigEndian.Uint16(data[glyphsStart+i*2 : glyphsStart+i*2+2])
		if g != 0 {
			out[g] = rune(uint32(firstCode) + uint32(i))
		}
	}
}

// parseCmapFormat12 reads a segmented coverage table: groups of
// (startCharCode, endCharCode, startGlyphID). Groups wider than 10,000
// characters are skipped as a defense against adversarial input.
func parseCmapFormat12(data []byte, out map[uint16]rune) {
	if len(data) < 16 {
		return
	}
	numGroups := binary.BigEndian.Uint32(data[12:16])

	const groupSize = 12
	groupsStart := 16
	for i := uint32(0); i < numGroups; i++ {
		start := groupsStart + int(i)*groupSize
		if start+groupSize > len(data) {
			break
		}
		startChar := binary.BigEndian.Uint32(data[start : start+4])
		endChar := binary.BigEndian.Uint32(data[start+4 : start+8])
		startGlyph := binary.BigEndian.Uint32(data[start+8 : start+12])

		if endChar < startChar || endChar-startChar > 10000 {
			continue
		}

		for c := startChar; c <= endChar; c++ {
			if c >= 0x110000 {
				continue
			}
			g := startGlyph + (c - startChar)
			if g > 0xFFFF {
				continue
			}
			glyphID := uint16(g)
			if _, exists := out[glyphID]; !exists {
				out[glyphID] = rune(c)
			}
		}
	}
}

// parseNameTable returns the first name record with nameId 4 (Full name)
// or 6 (PostScript name), decoded as UTF-16BE for platform 0/3 or as
// Latin-1 otherwise.
func parseNameTable(data []byte) string {
	if len(data) < 6 {
		return ""
	}
	count := binary.BigEndian.Uint16(data[2:4])
	stringOffset := binary.BigEndian.Uint16(data[4:6])

	const recordSize = 12
	recordsStart := 6

	for i := 0; i < int(count); i++ {
		start := recordsStart + i*recordSize
		if start+recordSize > len(data) {
			break
		}
		rec := data[start : start+recordSize]
		platformID := binary.BigEndian.Uint16(rec[0:2])
		nameID := binary.BigEndian.Uint16(rec[6:8])
		length := binary.BigEndian.Uint16(rec[8:10])
		offset := binary.BigEndian.Uint16(rec[10:12])

		if nameID != 4 && nameID != 6 {
			continue
		}

		strStart := int(stringOffset) + int(offset)
		strEnd := strStart + int(length)
		if strStart < 0 || strEnd > len(data) {
			continue
		}
		raw := data[strStart:strEnd]

		if platformID == 0 || platformID == 3 {
			return DecodeUTF16BE(raw)
		}
		out := make([]rune, len(raw))
		for i, b := range raw {
			out[i] = rune(b)
		}
		return string(out)
	}

	return ""
}
