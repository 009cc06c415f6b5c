package font

import (
	"encoding/binary"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/resolver"
)

// embeddedIncompleteThreshold is the ToUnicode mapping count below which the
// Registry still attempts to parse an embedded sfnt cmap, since subset fonts
// frequently ship an incomplete ToUnicode alongside a complete embedded one.
const embeddedIncompleteThreshold = 100

// FontInfo is the unified per-font decoder the Registry builds for every
// Font dictionary it finds. It combines every signal a PDF can offer for
// mapping a character code to Unicode, tried in a fixed priority order.
type FontInfo struct {
	Name         string
	EncodingName string

	// simpleEncoding maps a single-byte character code to a Unicode code
	// point, derived from a standard table plus any /Differences array.
	simpleEncoding map[uint16]rune

	// toUnicode is the font's ToUnicode CMap, if present.
	toUnicode *CMap

	// embeddedGlyphToUnicode maps a glyph id (not a character code) to
	// Unicode, recovered from an embedded sfnt cmap table, chained through
	// CIDToGIDMap when the font is a CIDFontType2 descendant.
	embeddedGlyphToUnicode map[uint16]rune

	// widthOf looks up a glyph's advance width via the typed Type1/TrueType/
	// Type0 font descriptor for this font's Subtype, when one could be
	// built. Width information plays no part in the decode contract; it is
	// exposed for callers doing their own layout on top of decoded text.
	widthOf func(rune) float64

	// characterCollection and cjk are populated only for Type0 fonts, from
	// the descendant CIDFont's /CIDSystemInfo. Like widthOf, this plays no
	// part in the decode contract; it lets a caller doing layout choose a
	// different line-break/divider policy for CJK text, which conventional
	// PDF producers pack far more densely per content-stream operator than
	// Latin text.
	characterCollection string
	cjk                  bool
}

// Decode implements the fixed lookup-priority contract: ToUnicode, then the
// embedded glyph map, then the simple encoding table, then a plain ASCII
// fallback, then the empty string. The ToUnicode and embedded-glyph results
// are run through NormalizeUnicode, since both sources can hand back
// decomposed forms (combining diacritics split from their base letter) that
// callers comparing or searching decoded text expect collapsed to NFC.
func (f *FontInfo) Decode(code uint32) string {
	if f.toUnicode != nil {
		if s, ok := f.toUnicode.LookupOK(code); ok {
			return NormalizeUnicode(s)
		}
	}

	if code <= 0xFFFF {
		if r, ok := f.embeddedGlyphToUnicode[uint16(code)]; ok {
			return NormalizeUnicode(string(r))
		}
		if r, ok := f.simpleEncoding[uint16(code)]; ok {
			return string(r)
		}
	}

	if code >= 32 && code < 127 {
		return string(rune(code))
	}

	return ""
}

// GetWidth returns this font's advance width for r, or 0 if no width
// descriptor could be built for it.
func (f *FontInfo) GetWidth(r rune) float64 {
	if f.widthOf == nil {
		return 0
	}
	return f.widthOf(r)
}

// CharacterCollection returns the Adobe character collection identifier
// ("Registry-Ordering-Supplement") for a Type0 font's descendant CIDFont,
// or "" for any other subtype.
func (f *FontInfo) CharacterCollection() string {
	return f.characterCollection
}

// IsCJK reports whether this font's CIDSystemInfo ordering identifies it as
// a Chinese, Japanese, or Korean font (always false outside Type0 fonts).
func (f *FontInfo) IsCJK() bool {
	return f.cjk
}

// HasToUnicode reports whether this font has any direct ToUnicode mapping.
func (f *FontInfo) HasToUnicode() bool {
	return f.toUnicode != nil && f.toUnicode.Len() > 0
}

// IsSelectable reports whether at least one decoder map is populated, the
// invariant every registered font is expected to satisfy.
func (f *FontInfo) IsSelectable() bool {
	return f.HasToUnicode() || len(f.simpleEncoding) > 0 || len(f.embeddedGlyphToUnicode) > 0
}

// DecodeBytes bulk-decodes a byte string, trying a 2-byte big-endian code
// against ToUnicode first (the common case for CID-keyed fonts); when that
// misses, it falls back to a 1-byte code. This gives simple and composite
// fonts dual-width decoding without an explicit width flag.
func (f *FontInfo) DecodeBytes(data []byte) string {
	var sb strings.Builder
	i := 0
	for i < len(data) {
		if i+1 < len(data) && f.toUnicode != nil {
			code := uint32(data[i])<<8 | uint32(data[i+1])
			if s, ok := f.toUnicode.LookupOK(code); ok {
				sb.WriteString(NormalizeUnicode(s))
				i += 2
				continue
			}
		}
		sb.WriteString(f.Decode(uint32(data[i])))
		i++
	}
	return sb.String()
}

// Registry holds every font recovered from an object table, keyed both by
// its synthetic "F"+id identity and by every page resource-dict font name
// that references it.
type Registry struct {
	byKey map[string]*FontInfo
}

// Lookup resolves a resource font name (or a synthetic "F"+id key) to its
// decoder, or nil if unregistered.
func (r *Registry) Lookup(key string) *FontInfo {
	return r.byKey[key]
}

// BuildRegistry walks table for every Dict/Stream whose /Type is /Font,
// builds a FontInfo for each, and cross-references every resource
// dictionary's /Font sub-dictionary so fonts are reachable both by their
// own object id and by the page-local name that resources use to address
// them.
func BuildRegistry(table *resolver.ObjectTable) *Registry {
	reg := &Registry{byKey: make(map[string]*FontInfo)}

	byID := make(map[int]*FontInfo)
	table.Each(func(id int, obj core.Object) {
		dict := fontDictOf(obj)
		if dict == nil {
			return
		}
		info := buildFontInfo(dict, table)
		byID[id] = info
		reg.byKey["F"+strconv.Itoa(id)] = info
	})

	table.Each(func(_ int, obj core.Object) {
		dict, ok := obj.(core.Dict)
		if !ok {
			return
		}
		if res, ok := table.ResolveIfRef(dict.Get("Resources")).(core.Dict); ok {
			dict = res
		}
		fontsObj := table.ResolveIfRef(dict.Get("Font"))
		fonts, ok := fontsObj.(core.Dict)
		if !ok {
			return
		}
		for name, ref := range fonts {
			id, ok := refObjectNumber(ref)
			if !ok {
				continue
			}
			if info, ok := byID[id]; ok {
				reg.byKey[name] = info
			}
		}
	})

	return reg
}

// BuildPageScope resolves resources' /Font sub-dictionary against table and
// registry, returning a resource name -> FontInfo map. Callers building a
// page-local font lookup scope use this instead of re-walking the
// cross-referencing logic BuildRegistry already performs for the whole
// document.
func BuildPageScope(table *resolver.ObjectTable, registry *Registry, resources core.Dict) map[string]*FontInfo {
	scope := make(map[string]*FontInfo)
	if resources == nil {
		return scope
	}

	fontsObj := table.ResolveIfRef(resources.Get("Font"))
	fonts, ok := fontsObj.(core.Dict)
	if !ok {
		return scope
	}

	for name, ref := range fonts {
		id, ok := refObjectNumber(ref)
		if !ok {
			continue
		}
		if info := registry.Lookup("F" + strconv.Itoa(id)); info != nil {
			scope[name] = info
		}
	}
	return scope
}

func fontDictOf(obj core.Object) core.Dict {
	switch v := obj.(type) {
	case core.Dict:
		if name, ok := v.GetName("Type"); ok && string(name) == "Font" {
			return v
		}
	case *core.Stream:
		if name, ok := v.Dict.GetName("Type"); ok && string(name) == "Font" {
			return v.Dict
		}
	}
	return nil
}

func refObjectNumber(obj core.Object) (int, bool) {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return 0, false
	}
	return ref.Number, true
}

func buildFontInfo(dict core.Dict, table *resolver.ObjectTable) *FontInfo {
	info := &FontInfo{
		Name: extractName(dict.Get("BaseFont")),
	}

	info.EncodingName, info.simpleEncoding = buildSimpleEncoding(dict, table)

	if stream := resolveStream(dict.Get("ToUnicode"), table); stream != nil {
		if cm, err := ParseToUnicodeCMap(stream); err == nil {
			info.toUnicode = cm
		}
	}

	info.embeddedGlyphToUnicode = buildEmbeddedGlyphMap(dict, table, info.toUnicode)
	info.widthOf = buildTypedDescriptor(dict, table, info)

	return info
}

// buildTypedDescriptor constructs the typed per-subtype font descriptor
// (Type1/TrueType/Type0) matching dict's Subtype and returns a closure over
// its width table, or nil if the subtype is unrecognized or the descriptor
// fails to parse (e.g. a malformed Widths array). For a Type0 font it also
// populates info's CID-system-info-derived fields from the descendant
// CIDFont.
func buildTypedDescriptor(dict core.Dict, table *resolver.ObjectTable, info *FontInfo) func(rune) float64 {
	subtype, _ := dict.GetName("Subtype")
	resolve := table.ResolveReference

	switch string(subtype) {
	case "Type1", "MMType1":
		f, err := NewType1Font(dict, resolve)
		if err != nil {
			return nil
		}
		return f.GetWidth
	case "TrueType":
		f, err := NewTrueTypeFont(dict, resolve)
		if err != nil {
			return nil
		}
		return func(r rune) float64 {
			return f.GetWidthFromGlyph(f.GetGlyphID(r))
		}
	case "Type0":
		f, err := NewType0Font(dict, resolve)
		if err != nil {
			return nil
		}
		if f.DescendantFont != nil {
			info.characterCollection = f.DescendantFont.GetCharacterCollection()
			info.cjk = f.DescendantFont.IsCJK()
		}
		return f.GetWidth
	default:
		return nil
	}
}

// buildSimpleEncoding resolves the /Encoding entry into an encoding name
// and a code -> Unicode table, applying a /Differences array over a base
// table when /Encoding is itself a dictionary.
func buildSimpleEncoding(dict core.Dict, table *resolver.ObjectTable) (string, map[uint16]rune) {
	encObj := table.ResolveIfRef(dict.Get("Encoding"))

	switch v := encObj.(type) {
	case core.Name:
		name := string(v)
		return name, encodingTableToMap(identityOrNamed(name))

	case core.Dict:
		baseName := "WinAnsiEncoding"
		if bn, ok := v.GetName("BaseEncoding"); ok {
			baseName = string(bn)
		}
		m := encodingTableToMap(identityOrNamed(baseName))

		if diffs, ok := v.GetArray("Differences"); ok {
			applyDifferencesArray(diffs, m)
		}
		return baseName, m
	}

	return "", nil
}

// identityOrNamed returns the Encoding for name, or nil for Identity-H/V
// (and any other name with no standard table), whose simple_encoding is
// the identity mapping over a single byte and carries no information
// beyond what bulk decoding already recovers via ToUnicode.
func identityOrNamed(name string) Encoding {
	switch name {
	case "Identity-H", "Identity-V", "":
		return nil
	default:
		return GetEncoding(name)
	}
}

func encodingTableToMap(enc Encoding) map[uint16]rune {
	if enc == nil {
		return make(map[uint16]rune)
	}
	m := make(map[uint16]rune, 224)
	for i := 0; i < 256; i++ {
		r := enc.Decode(byte(i))
		if r != 0 && r != utf8.RuneError {
			m[uint16(i)] = r
		}
	}
	return m
}

// applyDifferencesArray mutates m in place per the PDF /Differences
// grammar: a flat array alternating a Number (which sets the running code)
// and a Name (which assigns code -> glyph name, then increments code).
func applyDifferencesArray(diffs core.Array, m map[uint16]rune) {
	code := 0
	for _, elem := range diffs {
		switch v := elem.(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code <= 0xFFFF {
				if r, ok := GlyphNameToRune(string(v)); ok {
					m[uint16(code)] = r
				}
			}
			code++
		}
	}
}

func resolveStream(obj core.Object, table *resolver.ObjectTable) *core.Stream {
	resolved := table.ResolveIfRef(obj)
	s, ok := resolved.(*core.Stream)
	if !ok {
		return nil
	}
	return s
}

// buildEmbeddedGlyphMap locates the font's embedded sfnt program (directly
// or via DescendantFonts[0]'s FontDescriptor), parses its cmap table, and
// chains CID -> GID -> Unicode through CIDToGIDMap when the descendant is a
// CIDFontType2. It only runs when ToUnicode is absent or suspiciously thin.
func buildEmbeddedGlyphMap(dict core.Dict, table *resolver.ObjectTable, toUnicode *CMap) map[uint16]rune {
	if toUnicode != nil && toUnicode.Len() >= embeddedIncompleteThreshold {
		return nil
	}

	descriptorDict, descendant := findFontDescriptor(dict, table)
	if descriptorDict == nil {
		return nil
	}

	fontFile := firstFontFile(descriptorDict, table)
	if fontFile == nil {
		return nil
	}

	data, err := fontFile.Decode()
	if err != nil {
		return nil
	}

	parsed, ok := parseSfnt(data)
	if !ok {
		return nil
	}

	if descendant == nil {
		return parsed.GlyphToUnicode
	}

	cidToGID := cidToGIDMap(descendant, table)
	if cidToGID == nil {
		return parsed.GlyphToUnicode
	}

	out := make(map[uint16]rune, len(cidToGID))
	for cid, gid := range cidToGID {
		if u, ok := parsed.GlyphToUnicode[gid]; ok {
			out[cid] = u
		}
	}
	return out
}

// findFontDescriptor returns the FontDescriptor dict to use, and the
// descendant CIDFont dict when the font is a Type0 composite font.
func findFontDescriptor(dict core.Dict, table *resolver.ObjectTable) (core.Dict, core.Dict) {
	if fd, ok := table.ResolveIfRef(dict.Get("FontDescriptor")).(core.Dict); ok {
		return fd, nil
	}

	descendants, ok := table.ResolveIfRef(dict.Get("DescendantFonts")).(core.Array)
	if !ok || len(descendants) == 0 {
		return nil, nil
	}

	descendant, ok := table.ResolveIfRef(descendants[0]).(core.Dict)
	if !ok {
		return nil, nil
	}

	fd, ok := table.ResolveIfRef(descendant.Get("FontDescriptor")).(core.Dict)
	if !ok {
		return nil, descendant
	}
	return fd, descendant
}

func firstFontFile(descriptor core.Dict, table *resolver.ObjectTable) *core.Stream {
	for _, key := range []string{"FontFile2", "FontFile3", "FontFile"} {
		if s, ok := table.ResolveIfRef(descriptor.Get(key)).(*core.Stream); ok {
			return s
		}
	}
	return nil
}

// cidToGIDMap returns the per-CID glyph id table for a CIDFontType2
// descendant. A /CIDToGIDMap of /Identity (or absent) needs no table; a
// stream is a packed array of big-endian uint16 entries indexed by cid.
func cidToGIDMap(descendant core.Dict, table *resolver.ObjectTable) map[uint16]uint16 {
	mapObj := table.ResolveIfRef(descendant.Get("CIDToGIDMap"))

	stream, ok := mapObj.(*core.Stream)
	if !ok {
		return nil // Identity or absent: CID == GID, caller treats nil specially
	}

	data, err := stream.Decode()
	if err != nil {
		return nil
	}

	out := make(map[uint16]uint16, len(data)/2)
	for cid := 0; cid*2+1 < len(data); cid++ {
		gid := binary.BigEndian.Uint16(data[cid*2 : cid*2+2])
		if gid != 0 {
			out[uint16(cid)] = gid
		}
	}
	return out
}
