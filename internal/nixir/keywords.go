package nixir

// nixKeywords is the reserved-word list spec.md §4.7.1 names: identifiers
// equal to one of these, or attribute-set keys equal to one of these, need
// escaping (an identifier gets a trailing `'`; a key is instead quoted).
var nixKeywords = map[string]bool{
	"if": true, "then": true, "else": true, "assert": true, "with": true,
	"let": true, "in": true, "rec": true, "inherit": true, "or": true,
	"true": true, "false": true, "null": true,
}

// IsNixKeyword reports whether name is one of Nix's reserved words.
func IsNixKeyword(name string) bool { return nixKeywords[name] }

func isNixKeyword(name string) bool { return nixKeywords[name] }
