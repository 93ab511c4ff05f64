package ast

import "github.com/glistix/glistix-core/internal/srcspan"

// SetSpan assigns a node's span after construction. The parser frequently
// does not know a node's full extent until parsing of its children has
// finished, so nodes are built with a zero span and patched here once the
// closing token has been consumed.
func (b *base) SetSpan(s srcspan.Span) { b.span = s }
