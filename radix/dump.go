package radix

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the tree of the builder to w, one edge per line:
//
//	ROOT
//	  "ab" #1
//	    "c" #3 val=1
//	    "d" #2 val=2
func (b *Builder[V]) Dump(w io.Writer) {
	fmt.Fprintln(w, "ROOT")
	b.dump(w, rootIdx, "  ")
}

func (b *Builder[V]) dump(w io.Writer, idx int32, indent string) {
	for _, e := range b.pool.at(idx).edges.All() {
		fmt.Fprintf(w, "%s%q #%d", indent, e.label, e.target)

		if ref := b.pool.at(e.target).payload; ref != NoPayload {
			fmt.Fprintf(w, " val=%v", b.payloads[ref])
		}

		fmt.Fprintln(w)

		b.dump(w, e.target, indent+"  ")
	}
}

// String returns the dump of the builder.
func (b *Builder[V]) String() string {
	var buf strings.Builder

	b.Dump(&buf)

	return buf.String()
}
