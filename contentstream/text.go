package contentstream

import (
	"math"
	"strings"

	"github.com/tsawler/tabula/core"
)

// FontScope resolves a content stream's /Name font references to a
// decoder. Its implementations (the coordinator's and the reader's page
// scopes) try the page-local fonts first and fall back to the global
// registry, so the tokenizer need not care which one supplied the match.
type FontScope interface {
	Lookup(name string) FontDecoder
}

// FontDecoder is the minimal decoding surface the tokenizer needs from a
// font. font.FontInfo implements it.
type FontDecoder interface {
	DecodeBytes(data []byte) string
}

// tjSpacingThreshold is the TJ numeric-adjustment magnitude (in thousandths
// of text space) beyond which a negative value is treated as an inter-word
// gap rather than normal kerning, inserting a space in the output.
const tjSpacingThreshold = -80

// ExtractText runs the tokenizer's text-emission semantics over data using
// scope to resolve /Name font references, joining soft line breaks with
// divider. It never returns an error: a malformed stream simply yields
// however much text was recovered before the parser gave up.
func ExtractText(data []byte, scope FontScope, divider string) string {
	ops, _ := NewParser(data).Parse()
	return extractFromOps(ops, scope, divider)
}

func extractFromOps(ops []Operation, scope FontScope, divider string) string {
	t := &textState{scope: scope, divider: divider}
	for _, op := range ops {
		t.apply(op)
	}
	return t.out.String()
}

type textState struct {
	scope   FontScope
	divider string

	current        FontDecoder
	pendingBreak   bool
	out            strings.Builder
}

func (t *textState) apply(op Operation) {
	switch op.Operator {
	case "Tf":
		t.opTf(op.Operands)
	case "Td", "TD", "Tm", "T*":
		t.pendingBreak = true
	case "BT":
		// no-op: state carries across text objects by design
	case "ET":
		t.pendingBreak = true
	case "Tj":
		t.opTj(op.Operands)
	case "'":
		t.pendingBreak = true
		t.opTj(op.Operands)
	case "TJ":
		t.opTJ(op.Operands)
	}
}

func (t *textState) opTf(operands []core.Object) {
	if len(operands) < 2 {
		return
	}
	name, ok := operands[len(operands)-2].(core.Name)
	if !ok {
		return
	}
	if size, ok := asFloat(operands[len(operands)-1]); ok && math.IsNaN(size) {
		return
	}
	if t.scope != nil {
		if dec := t.scope.Lookup(string(name)); dec != nil {
			t.current = dec
		}
	}
}

func (t *textState) opTj(operands []core.Object) {
	if len(operands) == 0 {
		return
	}
	str, ok := operands[len(operands)-1].(core.String)
	if !ok {
		return
	}
	t.emit(t.decode([]byte(str)))
}

func (t *textState) opTJ(operands []core.Object) {
	if len(operands) == 0 {
		return
	}
	arr, ok := operands[len(operands)-1].(core.Array)
	if !ok {
		return
	}

	var sb strings.Builder
	for _, elem := range arr {
		switch v := elem.(type) {
		case core.String:
			sb.WriteString(t.decode([]byte(v)))
		case core.Int:
			if float64(v) < tjSpacingThreshold {
				sb.WriteByte(' ')
			}
		case core.Real:
			if float64(v) < tjSpacingThreshold {
				sb.WriteByte(' ')
			}
		}
	}
	t.emit(sb.String())
}

func (t *textState) decode(data []byte) string {
	if t.current == nil {
		return string(data)
	}
	return t.current.DecodeBytes(data)
}

// emit appends decoded text to the output, flushing a pending soft line
// break as the divider first, but only when there is already output to
// separate from.
func (t *textState) emit(s string) {
	if s == "" {
		return
	}
	if !isMostlyPrintable(s) {
		return
	}
	if t.pendingBreak && t.out.Len() > 0 {
		t.out.WriteString(t.divider)
	}
	t.pendingBreak = false
	t.out.WriteString(s)
}

// isMostlyPrintable drops decoded strings where fewer than half the
// characters are printable ASCII or a common whitespace escape, which
// suppresses binary noise when a non-text stream is mistakenly tokenized.
func isMostlyPrintable(s string) bool {
	if len(s) == 0 {
		return false
	}
	printable := 0
	total := 0
	for _, r := range s {
		total++
		if (r >= 32 && r < 127) || r == 9 || r == 10 || r == 13 {
			printable++
		}
	}
	return printable*2 >= total
}

func asFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
