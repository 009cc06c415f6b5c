// Package tabula extracts text from PDF documents.
//
// The core operation takes the ordered top-level indirect objects of a
// parsed PDF and returns the text they contain:
//
//	text := tabula.ExtractText(docs, "\n", false)
//
// Most callers instead start from a file on disk:
//
//	text, err := tabula.ExtractTextFromFile("report.pdf", "\n", false)
//
// There is no error return from the core extraction path; a malformed or
// partially unreadable PDF degrades to producing less text rather than
// aborting. ExtractTextFromFile's error return covers only the file I/O
// and initial parse, not the extraction itself.
package tabula

import (
	"fmt"

	"github.com/tsawler/tabula/coordinator"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/reader"
)

// ExtractText builds the object table from docs, registers every font,
// enumerates pages in object-id order, and returns their decoded text,
// each non-empty page followed by "\n\n". divider separates the soft line breaks produced
// within a page and, for documents where no page yields text, the
// fallback-path stream emissions. debug enables diagnostic logging to
// standard error; its content is unspecified and not part of the contract.
func ExtractText(docs []*core.IndirectObject, divider string, debug bool) string {
	return coordinator.New(docs, debug).ExtractText(divider)
}

// ExtractTextFromFile opens the PDF at path, reads every in-use object via
// its cross-reference table, and runs ExtractText over them. The returned
// error covers only opening and parsing the file; extraction itself never
// fails.
func ExtractTextFromFile(path string, divider string, debug bool) (string, error) {
	r, err := reader.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	docs, err := r.AllObjects()
	if err != nil {
		return "", fmt.Errorf("failed to read objects from %s: %w", path, err)
	}

	return ExtractText(docs, divider, debug), nil
}
