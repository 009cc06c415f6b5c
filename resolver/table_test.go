package resolver

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tsawler/tabula/core"
)

func TestBuildObjectTableFlatDoc(t *testing.T) {
	docs := []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 1}, Object: core.Dict{"Type": core.Name("Catalog")}},
		{Ref: core.IndirectRef{Number: 2}, Object: core.Int(42)},
	}
	table := BuildObjectTable(docs)

	if table.Len() != 2 {
		t.Fatalf("expected 2 objects, got %d", table.Len())
	}

	obj, ok := table.Get(1)
	if !ok {
		t.Fatal("expected object 1 to be present")
	}
	want := core.Dict{"Type": core.Name("Catalog")}
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Errorf("object 1 mismatch:\n%s", diff)
	}
}

func TestBuildObjectTableSkipsNilDoc(t *testing.T) {
	docs := []*core.IndirectObject{
		nil,
		{Ref: core.IndirectRef{Number: 1}, Object: core.Int(1)},
	}
	table := BuildObjectTable(docs)
	if table.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", table.Len())
	}
}

func TestResolveIfRef(t *testing.T) {
	docs := []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 1}, Object: core.String("hello")},
	}
	table := BuildObjectTable(docs)

	got := table.ResolveIfRef(core.IndirectRef{Number: 1})
	if got != core.String("hello") {
		t.Errorf("expected resolved string, got %v", got)
	}

	// Unresolvable reference degrades to Null rather than erroring.
	got = table.ResolveIfRef(core.IndirectRef{Number: 99})
	if _, ok := got.(core.Null); !ok {
		t.Errorf("expected Null for unresolved ref, got %T", got)
	}

	// Non-reference values pass through unchanged.
	got = table.ResolveIfRef(core.Int(5))
	if got != core.Int(5) {
		t.Errorf("expected passthrough, got %v", got)
	}
}

func TestGetObjectAndResolveReference(t *testing.T) {
	docs := []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 7}, Object: core.Bool(true)},
	}
	table := BuildObjectTable(docs)

	obj, err := table.GetObject(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != core.Bool(true) {
		t.Errorf("expected true, got %v", obj)
	}

	if _, err := table.GetObject(404); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestExpandObjectStreamsRecoversPageAndFont(t *testing.T) {
	// Synthetic ObjStm body: two embedded objects, a Page dict referencing
	// its Contents stream and a Font dict referencing its ToUnicode stream.
	// Header is "<id> <offset>" pairs, then the bodies back to back starting
	// at First; offsets are relative to that point.
	page := "<< /Type /Page /Contents 10 0 R >>"
	font := "<< /Type /Font /ToUnicode 11 0 R >>"
	header := "5 0 8 " + strconv.Itoa(len(page)) + " "
	objStm := &core.Stream{
		Dict: core.Dict{
			"Type":  core.Name("ObjStm"),
			"N":     core.Int(2),
			"First": core.Int(len(header)),
		},
		Data: []byte(header + page + font),
	}

	docs := []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 1}, Object: objStm},
	}
	table := BuildObjectTable(docs)
	table.ExpandObjectStreams()

	pageObj, ok := table.Get(5)
	if !ok {
		t.Fatal("expected embedded page object 5 to be recovered")
	}
	pageDict, ok := pageObj.(core.Dict)
	if !ok {
		t.Fatalf("expected a dict, got %T", pageObj)
	}
	if name, _ := pageDict.GetName("Type"); string(name) != "Page" {
		t.Errorf("expected recovered object to be a Page, got %v", name)
	}
	if ref, ok := pageDict.GetIndirectRef("Contents"); !ok || ref.Number != 10 {
		t.Errorf("expected Contents ref to object 10, got %v (ok=%v)", ref, ok)
	}

	fontObj, ok := table.Get(8)
	if !ok {
		t.Fatal("expected embedded font object 8 to be recovered")
	}
	fontDict := fontObj.(core.Dict)
	if ref, ok := fontDict.GetIndirectRef("ToUnicode"); !ok || ref.Number != 11 {
		t.Errorf("expected ToUnicode ref to object 11, got %v (ok=%v)", ref, ok)
	}
}

func TestExpandObjectStreamsNeverOverwritesExisting(t *testing.T) {
	existing := core.Dict{"Type": core.Name("Page"), "Custom": core.Bool(true)}
	objStm := &core.Stream{
		Dict: core.Dict{
			"Type":  core.Name("ObjStm"),
			"N":     core.Int(1),
			"First": core.Int(4),
		},
		Data: []byte("5 0 << /Type /Page >>"),
	}
	docs := []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 1}, Object: objStm},
		{Ref: core.IndirectRef{Number: 5}, Object: existing},
	}
	table := BuildObjectTable(docs)
	table.ExpandObjectStreams()

	got, _ := table.Get(5)
	if diff := cmp.Diff(existing, got); diff != "" {
		t.Errorf("fully-lexed object was overwritten by heuristic recovery:\n%s", diff)
	}
}
