package tabula

import (
	"strings"
	"testing"

	"github.com/tsawler/tabula/core"
)

// buildDoc assembles a one-page document with a single Tj content stream
// using an identity-encoded font, as the minimal case for a round trip
// through the public extraction entry point.
func buildDoc(content string) []*core.IndirectObject {
	catalog := core.Dict{
		"Type":  core.Name("Catalog"),
		"Pages": core.IndirectRef{Number: 2, Generation: 0},
	}
	pagesDict := core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  core.Array{core.IndirectRef{Number: 3, Generation: 0}},
		"Count": core.Int(1),
	}
	font := core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
	}
	contents := &core.Stream{
		Dict: core.Dict{"Length": core.Int(len(content))},
		Data: []byte(content),
	}
	page := core.Dict{
		"Type":      core.Name("Page"),
		"Parent":    core.IndirectRef{Number: 2, Generation: 0},
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
		"Resources": core.Dict{"Font": core.Dict{"F1": core.IndirectRef{Number: 4, Generation: 0}}},
		"Contents":  core.IndirectRef{Number: 5, Generation: 0},
	}

	return []*core.IndirectObject{
		{Ref: core.IndirectRef{Number: 1, Generation: 0}, Object: catalog},
		{Ref: core.IndirectRef{Number: 2, Generation: 0}, Object: pagesDict},
		{Ref: core.IndirectRef{Number: 3, Generation: 0}, Object: page},
		{Ref: core.IndirectRef{Number: 4, Generation: 0}, Object: font},
		{Ref: core.IndirectRef{Number: 5, Generation: 0}, Object: contents},
	}
}

func TestExtractTextTrivialTj(t *testing.T) {
	docs := buildDoc("BT /F1 12 Tf (Hello) Tj ET")
	got := ExtractText(docs, "\n", false)
	if !strings.Contains(got, "Hello") {
		t.Errorf("expected output to contain %q, got %q", "Hello", got)
	}
}

func TestExtractTextSpacing(t *testing.T) {
	docs := buildDoc("BT /F1 12 Tf [ (Hello) -200 (World) ] TJ ET")
	got := ExtractText(docs, "\n", false)
	if !strings.Contains(got, "Hello World") {
		t.Errorf("expected a space between words, got %q", got)
	}
}

func TestExtractTextEmptyDocument(t *testing.T) {
	got := ExtractText(nil, "\n", false)
	if got != "" {
		t.Errorf("expected empty output for empty document, got %q", got)
	}
}

func TestExtractTextFromFileMissingFile(t *testing.T) {
	_, err := ExtractTextFromFile("/nonexistent/path/to/file.pdf", "\n", false)
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}
