// Package coordinator walks a PDF object table end to end: it builds the
// font registry, enumerates pages, and hands each page's content streams to
// the content-stream tokenizer, assembling the final extracted text.
package coordinator

import (
	"log"
	"sort"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/font"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/resolver"
)

// fallbackStreamTypes are /Type values the fallback path never tokenizes
// directly, since they are never page content.
var fallbackStreamTypes = map[string]bool{
	"XRef":  true,
	"ObjStm": true,
	"XObject": true,
}

// fallbackFontSubtypes are font program subtypes excluded from the
// fallback path's stream scan.
var fallbackFontSubtypes = map[string]bool{
	"Type1":        true,
	"TrueType":     true,
	"CIDFontType2": true,
	"CIDFontType0": true,
	"OpenType":     true,
}

// Coordinator owns the object table and font registry for one extraction
// and exposes the top-level ExtractText operation. Like the rest of this
// engine it is not safe for concurrent use by multiple goroutines; a
// concurrent extraction needs its own Coordinator.
type Coordinator struct {
	table    *resolver.ObjectTable
	pageRes  *resolver.ObjectResolver
	registry *font.Registry
	debug    bool
}

// New builds a Coordinator from the ordered top-level indirect objects
// produced by the PDF reader: it builds the flat object table, expands
// ObjStm-packed objects, and registers every font.
func New(docs []*core.IndirectObject, debug bool) *Coordinator {
	table := resolver.BuildObjectTable(docs)
	table.ExpandObjectStreams()
	registry := font.BuildRegistry(table)
	pageRes := resolver.NewResolver(table)

	c := &Coordinator{table: table, pageRes: pageRes, registry: registry, debug: debug}
	if debug {
		log.Printf("coordinator: built object table with %d objects", table.Len())
	}
	return c
}

// ExtractText runs the full pipeline and returns the decoded document text,
// following each non-empty page's text with a blank line ("\n\n"); divider
// separates soft line breaks and content streams within a page, and the
// fallback path's streams. It never returns an error: every failure
// mode degrades to producing less text rather than aborting.
func (c *Coordinator) ExtractText(divider string) string {
	pageIDs := c.pageObjectIDs()

	var out string
	for _, id := range pageIDs {
		text := c.extractPage(id, divider)
		if text == "" {
			continue
		}
		out += text + "\n\n"
	}

	if out != "" {
		return out
	}

	if c.debug {
		log.Printf("coordinator: no page produced text, trying fallback scan")
	}
	return c.extractFallback(divider)
}

// pageObjectIDs returns every object id whose body is a dict with
// Type = Page, in ascending object-id order, matching the deterministic
// page-iteration-by-id-order contract.
func (c *Coordinator) pageObjectIDs() []int {
	var ids []int
	c.table.Each(func(id int, obj core.Object) {
		dict, ok := obj.(core.Dict)
		if !ok {
			return
		}
		if name, ok := dict.GetName("Type"); ok && string(name) == "Page" {
			ids = append(ids, id)
		}
	})
	sort.Ints(ids)
	return ids
}

func (c *Coordinator) extractPage(id int, divider string) string {
	dict, ok := c.table.Get(id)
	if !ok {
		return ""
	}
	pageDict, ok := dict.(core.Dict)
	if !ok {
		return ""
	}

	page := pages.NewPage(pageDict, nil, c.pageRes)

	scope := c.pageScope(page)

	contents, err := page.Contents()
	if err != nil || len(contents) == 0 {
		return ""
	}

	var text string
	for _, contentObj := range contents {
		stream, ok := contentObj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		chunk := contentstream.ExtractText(data, scope, divider)
		if chunk == "" {
			continue
		}
		if text != "" {
			text += divider
		}
		text += chunk
	}

	return text
}

// pageScope builds the name -> decoder scope for one page from its
// Resources.Font dict, resolved on demand against the global registry.
func (c *Coordinator) pageScope(page *pages.Page) *pageFontScope {
	resources, err := page.Resources()
	if err != nil {
		return &pageFontScope{local: map[string]*font.FontInfo{}, registry: c.registry}
	}
	return &pageFontScope{local: font.BuildPageScope(c.table, c.registry, resources), registry: c.registry}
}

// pageFontScope implements contentstream.FontScope, resolving a /Name
// reference first against the page's own resource dict, then falling back
// to the global registry (fonts that were registered but never named from
// a page's Resources, which is common for the fallback path).
type pageFontScope struct {
	local    map[string]*font.FontInfo
	registry *font.Registry
}

func (s *pageFontScope) Lookup(name string) contentstream.FontDecoder {
	if info, ok := s.local[name]; ok {
		return info
	}
	if info := s.registry.Lookup(name); info != nil {
		return info
	}
	return nil
}

// extractFallback scans every stream that is not xref/ObjStm/XObject/image
// machinery nor a font program, looking for text-operator signatures, and
// tokenizes any match directly against the global font registry.
func (c *Coordinator) extractFallback(divider string) string {
	var ids []int
	c.table.Each(func(id int, obj core.Object) {
		if _, ok := obj.(*core.Stream); ok {
			ids = append(ids, id)
		}
	})
	sort.Ints(ids)

	scope := &pageFontScope{local: map[string]*font.FontInfo{}, registry: c.registry}

	var out string
	for _, id := range ids {
		obj, _ := c.table.Get(id)
		stream := obj.(*core.Stream)
		if !isCandidateStream(stream) {
			continue
		}

		data, err := stream.Decode()
		if err != nil {
			continue
		}
		if !hasTextSignature(data) {
			continue
		}

		chunk := contentstream.ExtractText(data, scope, divider)
		if chunk == "" {
			continue
		}
		if out != "" {
			out += divider
		}
		out += chunk
	}

	return out
}

func isCandidateStream(stream *core.Stream) bool {
	if name, ok := stream.Dict.GetName("Type"); ok {
		if fallbackStreamTypes[string(name)] {
			return false
		}
		if string(name) == "XObject" {
			return false
		}
	}
	if subtype, ok := stream.Dict.GetName("Subtype"); ok {
		s := string(subtype)
		if s == "Image" || fallbackFontSubtypes[s] {
			return false
		}
	}
	return true
}

func hasTextSignature(data []byte) bool {
	return containsAll(data, []byte("BT"), []byte("ET")) ||
		contains(data, []byte("Tj")) ||
		contains(data, []byte("TJ"))
}

func contains(data, sub []byte) bool {
	return indexOf(data, sub) >= 0
}

func containsAll(data []byte, subs ...[]byte) bool {
	for _, s := range subs {
		if !contains(data, s) {
			return false
		}
	}
	return true
}

func indexOf(data, sub []byte) int {
	n := len(sub)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(data); i++ {
		match := true
		for j := 0; j < n; j++ {
			if data[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
