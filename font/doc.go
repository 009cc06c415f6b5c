// Package font provides PDF font handling including Type1, TrueType, and CID fonts.
//
// This package handles font parsing, character encoding, and text width calculation
// for accurate text extraction from PDFs.
//
// # Font Types
//
// The package supports multiple PDF font types:
//
//   - [Type1Font] - PostScript Type 1 fonts (including Standard 14)
//   - [TrueTypeFont] - TrueType outline fonts
//   - [Type0Font] - Composite fonts for CJK text
//
// # Font Creation
//
// Fonts are created from PDF font dictionaries:
//
//	font, err := font.NewType1Font(fontDict, resolver)
//	font, err := font.NewTrueTypeFont(fontDict, resolver)
//	font, err := font.NewType0Font(fontDict, resolver)
//
// # Text Decoding
//
// [FontInfo], built by [Registry] from a page's resource dictionary, is the
// decoding entry point extraction actually uses. It applies the same
// ToUnicode-first priority order and normalizes every decoded string to NFC:
//
//	info := registry.Lookup(fontName)
//	text := info.DecodeBytes(rawBytes)
//
// # Character Widths
//
// Width information is used for text positioning:
//
//	width := font.GetWidth(charCode)         // Single character
//	width := font.GetStringWidth(text)       // String width in font units
//
// # Encodings
//
// Character encodings map character codes to glyph names:
//
//   - Standard PDF encodings (WinAnsiEncoding, MacRomanEncoding, etc.)
//   - Custom encodings from /Encoding dictionary
//   - ToUnicode CMaps for Unicode conversion
//
// # CMap Support
//
// CMaps (Character Maps) handle character code to Unicode mapping:
//
//   - Embedded ToUnicode CMaps
//   - Identity-H / Identity-V two-byte codes (other predefined CJK CMaps
//     are not loaded)
//   - CID-to-Unicode mapping
package font
