package font

import "strconv"

// glyphNameToUnicode maps PostScript/PDF glyph names to Unicode code points,
// covering the printable ASCII range plus the punctuation and symbol names
// that commonly appear in a font's /Differences array. Names of the form
// "uniXXXX" are resolved separately by GlyphNameToRune.
var glyphNameToUnicode = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',

	"exclamdown": '¡', "cent": '¢', "sterling": '£', "currency": '¤',
	"yen": '¥', "brokenbar": '¦', "section": '§', "dieresis": '¨',
	"copyright": '©', "ordfeminine": 'ª', "guillemotleft": '«',
	"logicalnot": '¬', "registered": '®', "macron": '¯', "degree": '°',
	"plusminus": '±', "acute": '´', "mu": 'µ', "paragraph": '¶',
	"periodcentered": '·', "cedilla": '¸', "ordmasculine": 'º',
	"guillemotright": '»', "questiondown": '¿',

	"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â', "Atilde": 'Ã',
	"Adieresis": 'Ä', "Aring": 'Å', "AE": 'Æ', "Ccedilla": 'Ç',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î', "Idieresis": 'Ï',
	"Eth": 'Ð', "Ntilde": 'Ñ', "Ograve": 'Ò', "Oacute": 'Ó',
	"Ocircumflex": 'Ô', "Otilde": 'Õ', "Odieresis": 'Ö', "multiply": '×',
	"Oslash": 'Ø', "Ugrave": 'Ù', "Uacute": 'Ú', "Ucircumflex": 'Û',
	"Udieresis": 'Ü', "Yacute": 'Ý', "Thorn": 'Þ', "germandbls": 'ß',

	"agrave": 'à', "aacute": 'á', "acircumflex": 'â', "atilde": 'ã',
	"adieresis": 'ä', "aring": 'å', "ae": 'æ', "ccedilla": 'ç',
	"egrave": 'è', "eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î', "idieresis": 'ï',
	"eth": 'ð', "ntilde": 'ñ', "ograve": 'ò', "oacute": 'ó',
	"ocircumflex": 'ô', "otilde": 'õ', "odieresis": 'ö', "divide": '÷',
	"oslash": 'ø', "ugrave": 'ù', "uacute": 'ú', "ucircumflex": 'û',
	"udieresis": 'ü', "yacute": 'ý', "thorn": 'þ', "ydieresis": 'ÿ',

	"Euro": '€', "bullet": '•', "dagger": '†', "daggerdbl": '‡',
	"ellipsis": '…', "emdash": '—', "endash": '–', "trademark": '™',
	"quoteleft": '‘', "quoteright": '’',
	"quotedblleft": '“', "quotedblright": '”',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"perthousand": '‰', "minus": '−', "fraction": '⁄',
	"florin": 'ƒ', "circumflex": 'ˆ', "tilde": '˜',
	"breve": '˘', "dotaccent": '˙', "ring": '˚', "ogonek": '˛',
	"caron": 'ˇ', "hungarumlaut": '˝',
	"Lslash": 'Ł', "lslash": 'ł', "OE": 'Œ', "oe": 'œ',
	"Scaron": 'Š', "scaron": 'š', "Zcaron": 'Ž', "zcaron": 'ž',
	"dotlessi": 'ı', "Ydieresis": 'Ÿ',
	"guilsinglleft": '‹', "guilsinglright": '›',
	"fi": 'ﬁ', "fl": 'ﬂ',
}

// GlyphNameToRune resolves a PostScript glyph name to a Unicode code point.
// Besides the literal table, it understands the "uniXXXX" and "uXXXX"
// conventions for naming a glyph by its hex code point.
func GlyphNameToRune(name string) (rune, bool) {
	if r, ok := glyphNameToUnicode[name]; ok {
		return r, true
	}
	if len(name) == 7 && name[:3] == "uni" {
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if len(name) >= 5 && len(name) <= 7 && name[0] == 'u' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	return 0, false
}
