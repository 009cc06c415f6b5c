package resolver

import (
	"fmt"

	"github.com/tsawler/tabula/core"
)

// ObjectTable is a flat id-indexed map from every indirect object number to
// its body, built once per extraction. Unlike ObjectResolver, which follows
// references lazily through a backing reader, ObjectTable is populated
// up front by a single depth-first walk of the parsed object list: every
// IndirectObject encountered, at any nesting depth, is registered. The walk
// never follows an IndirectRef, only IndirectObject envelopes, so it always
// terminates without needing cycle detection.
type ObjectTable struct {
	objects map[int]core.Object
}

// BuildObjectTable walks docs (the top-level indirect objects produced by
// the PDF lexer/parser) and returns a table mapping object number to object
// body. The Go object model makes an IndirectObject envelope only appear at
// the top level (Array and Dict hold core.Object values, never
// *IndirectObject directly), so a single flat pass suffices; the recursive
// walk below exists to register any envelope that could still be reached
// indirectly and to keep the table construction a pure depth-first visitor
// that never follows a Ref edge, matching the no-cycle-detection guarantee
// the flat model relies on.
func BuildObjectTable(docs []*core.IndirectObject) *ObjectTable {
	t := &ObjectTable{objects: make(map[int]core.Object)}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		t.objects[doc.Ref.Number] = doc.Object
		t.walk(doc.Object)
	}
	return t
}

// walk recurses into the children of obj. core.Object's concrete Go types
// cannot themselves hold an IndirectObject envelope (Array and Dict store
// core.Object values, and IndirectObject does not implement that
// interface), so in practice no object reachable from a top-level envelope
// is itself an unregistered envelope. The recursion is kept anyway: it is
// the depth-first visitor the table-build invariant is stated in terms of,
// and it costs nothing on well-formed input.
func (t *ObjectTable) walk(obj core.Object) {
	switch v := obj.(type) {
	case core.Array:
		for _, elem := range v {
			t.walk(elem)
		}
	case core.Dict:
		for _, val := range v {
			t.walk(val)
		}
	case *core.Stream:
		for _, val := range v.Dict {
			t.walk(val)
		}
	}
}

// Get returns the body registered under id, and whether it was found.
func (t *ObjectTable) Get(id int) (core.Object, bool) {
	obj, ok := t.objects[id]
	return obj, ok
}

// Len returns the number of registered objects.
func (t *ObjectTable) Len() int {
	return len(t.objects)
}

// Resolve looks up id in the table, returning Null's absence as (nil, false)
// so callers can degrade gracefully instead of erroring.
func (t *ObjectTable) Resolve(id int) (core.Object, bool) {
	return t.Get(id)
}

// ResolveIfRef collapses at most one IndirectRef level: if obj is a
// reference, its looked-up body is returned (or Null if unresolved);
// anything else is returned unchanged.
func (t *ObjectTable) ResolveIfRef(obj core.Object) core.Object {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj
	}
	resolved, ok := t.Get(ref.Number)
	if !ok {
		return core.Null{}
	}
	return resolved
}

// ResolveReference implements the ObjectReader interface expected by
// ObjectResolver, so the lazy deep-resolution helpers can run directly
// against a flat table instead of a streaming file reader.
func (t *ObjectTable) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	obj, ok := t.Get(ref.Number)
	if !ok {
		return nil, fmt.Errorf("object %d not found in table", ref.Number)
	}
	return obj, nil
}

// GetObject implements the ObjectReader interface.
func (t *ObjectTable) GetObject(objNum int) (core.Object, error) {
	return t.ResolveReference(core.IndirectRef{Number: objNum})
}

// Each calls fn for every registered object number in the table.
func (t *ObjectTable) Each(fn func(id int, obj core.Object)) {
	for id, obj := range t.objects {
		fn(id, obj)
	}
}

// ExpandObjectStreams scans the table for every stream whose /Type is
// ObjStm and registers every object packed inside it under its real object
// number, so the coordinator can locate pages, fonts, content streams, and
// anything else a PDF 1.5+ producer chose to compress into an object
// stream rather than write as a standalone indirect object.
//
// Each embedded object is fully lexed via core.ObjectStream rather than
// sniffed for a /Type marker, so this recovers every object type the
// stream carries, not just pages and fonts.
func (t *ObjectTable) ExpandObjectStreams() {
	var objStms []*core.Stream
	t.Each(func(id int, obj core.Object) {
		stream, ok := obj.(*core.Stream)
		if !ok {
			return
		}
		if name, ok := stream.Dict.GetName("Type"); ok && string(name) == "ObjStm" {
			objStms = append(objStms, stream)
		}
	})

	for _, stream := range objStms {
		t.expandObjectStream(stream)
	}
}

func (t *ObjectTable) expandObjectStream(stream *core.Stream) {
	objStm, err := core.NewObjectStream(stream)
	if err != nil {
		return
	}

	nums, err := objStm.ObjectNumbers()
	if err != nil {
		return
	}

	for i, objNum := range nums {
		if _, exists := t.objects[objNum]; exists {
			// A fully-lexed top-level object always outranks one recovered
			// from inside an object stream.
			continue
		}
		obj, _, err := objStm.GetObjectByIndex(i)
		if err != nil {
			continue
		}
		t.objects[objNum] = obj
	}
}
