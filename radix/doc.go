// Package radix defines a radix-trie builder and the compiled, read-only
// automaton it produces.
//
// A Builder is a mutable trie of Nodes linked by Edges labelled with key
// fragments. Nodes live in an arena and refer to each other by index; sibling
// edges are kept sorted by the first unit of their labels and never share one.
// Keys are cut into units by a label.Scheme (bytes, runes or delimited segments).
//
// Compile walks the builder arena once and produces an immutable Table plus an
// Automaton over it. An Automaton is a small value: copies share the Table and
// only own their current state, so any number of them can run concurrently.
//
// Example trie (label.Delimited('/'), compressed):
// ------------
//
//	        ,-- [edge:"/home/user1/tmp/1.txt"] -- (#2 = 20)
//	        |
//	        |                                 ,-- [edge:"/bash"] -- (#4 = 40)
//	(root) -+-- [edge:"/usr/bin"] -- (#3) ----+
//	        |                                 `-- [edge:"/vim"] -- (#5 = 50)
//	        |
//	        `-- [edge:"/var/log/syslog"] -- (#1 = 10)
//
// The trie above contains the following keys:
//
//   - "/var/log/syslog"
//   - "/home/user1/tmp/1.txt"
//   - "/usr/bin/bash"
//   - "/usr/bin/vim"
//
// Storage strategies:
// ------------------
//
//   - IndexStrategy:   edges hold an index into a flat node slice and an offset
//     into one label arena; the table is relocatable and can be saved as CBOR.
//   - PointerStrategy: edges hold a pointer into a node slice that is allocated
//     once and never resized; slightly faster to walk, not relocatable.
package radix
