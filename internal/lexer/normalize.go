package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 BOM and applies Unicode NFC normalisation before
// tokenising, so lexically equivalent source (e.g. a string literal typed
// with a precomposed vs. decomposed accented character) produces identical
// tokens and, downstream, identical Nix string literals — the backend's
// escape-rewriting (spec.md §4.7.1) assumes its input is already in one
// normal form.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
