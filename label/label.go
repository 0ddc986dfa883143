// Package label splits keys into units - the smallest comparable fragments of a
// key - and compares key fragments unit by unit.
//
// Schemes:
// -------
//
//   - Bytes:          "abc"    -> "a", "b", "c"
//   - Runes:          "äbc"    -> "ä", "b", "c"
//   - Delimited('/'): "/a/b/c" -> "/a", "/b", "/c"
//                     "a/b/"   -> "a", "/b", "/"
//
// A delimited unit keeps its leading delimiter, so a concatenation of units is
// always byte-identical to the original key. Units never allocate: every unit is
// a substring of the key it was taken from.
package label

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind selects how a key is cut into units.
type Kind uint8

const (
	KindBytes Kind = iota
	KindRunes
	KindDelimited
)

var ErrBadScheme = errors.New("label: unknown scheme")

// Scheme is a unit-boundary policy.
type Scheme struct {
	Kind  Kind
	Delim byte // used by KindDelimited only
}

// Bytes returns a scheme where every byte is a unit.
func Bytes() Scheme {
	return Scheme{Kind: KindBytes}
}

// Runes returns a scheme where every UTF-8 encoded rune is a unit.
// Invalid bytes are units of their own.
func Runes() Scheme {
	return Scheme{Kind: KindRunes}
}

// Delimited returns a scheme where units are segments starting at a delimiter.
func Delimited(delim byte) Scheme {
	return Scheme{Kind: KindDelimited, Delim: delim}
}

// ParseScheme parses the textual form produced by Scheme.String:
// "bytes", "runes" or "delimited:<byte>" (e.g. "delimited:/").
func ParseScheme(str string) (Scheme, error) {
	switch {
	case str == "bytes" || str == "":
		return Bytes(), nil
	case str == "runes":
		return Runes(), nil
	case strings.HasPrefix(str, "delimited:") && len(str) == len("delimited:")+1:
		return Delimited(str[len(str)-1]), nil
	}

	return Scheme{}, fmt.Errorf("%w: %q", ErrBadScheme, str)
}

func (s Scheme) String() string {
	switch s.Kind {
	case KindBytes:
		return "bytes"
	case KindRunes:
		return "runes"
	case KindDelimited:
		return "delimited:" + string([]byte{s.Delim})
	}

	return fmt.Sprintf("Scheme(%d)", s.Kind)
}

// First returns the first unit of str and the remainder.
//
// Returns ("", "") for an empty str.
func (s Scheme) First(str string) (unit, rest string) {
	if str == "" {
		return "", ""
	}

	switch s.Kind {
	case KindRunes:
		_, size := utf8.DecodeRuneInString(str)

		return str[:size], str[size:]

	case KindDelimited:
		// a unit may start with a delimiter - look for the next one
		end := strings.IndexByte(str[1:], s.Delim)
		if end < 0 {
			return str, ""
		}

		return str[:end+1], str[end+1:]
	}

	return str[:1], str[1:]
}

// Boundary reports whether a unit of str starts at byte offset idx.
// Both ends of str are boundaries.
func (s Scheme) Boundary(str string, idx int) bool {
	if idx <= 0 || idx >= len(str) {
		return idx == 0 || idx == len(str)
	}

	switch s.Kind {
	case KindRunes:
		return runeBoundary(str, idx)
	case KindDelimited:
		return str[idx] == s.Delim
	}

	return true
}

// runeBoundary reports whether idx is not inside a valid UTF-8 sequence.
// Stray continuation bytes are units of their own, as in First.
func runeBoundary(str string, idx int) bool {
	// a rune is at most utf8.UTFMax bytes long: only the closest start byte
	// within that distance can cover idx
	for k := idx - 1; k >= 0 && k > idx-utf8.UTFMax; k-- {
		if utf8.RuneStart(str[k]) {
			_, size := utf8.DecodeRuneInString(str[k:])

			return k+size <= idx
		}
	}

	return true
}

// HasPrefix reports whether str starts with the units of prefix, that is
// str begins with prefix and the prefix ends on a unit boundary of str.
func (s Scheme) HasPrefix(str, prefix string) bool {
	return strings.HasPrefix(str, prefix) && s.Boundary(str, len(prefix))
}

// CommonPrefix returns the byte length of the longest common unit-aligned
// prefix of a and b.
func (s Scheme) CommonPrefix(a, b string) int {
	if s.Kind == KindBytes {
		var (
			num = min(len(a), len(b))
			idx int
		)

		for ; idx < num && a[idx] == b[idx]; idx++ {
		}

		return idx
	}

	var size int

	for a != "" && b != "" {
		var (
			unitA, restA = s.First(a)
			unitB, restB = s.First(b)
		)

		if unitA != unitB {
			break
		}

		size += len(unitA)
		a, b = restA, restB
	}

	return size
}

// Compare compares a and b unit by unit. A string that is a strict unit prefix
// of another is the smaller one.
func (s Scheme) Compare(a, b string) int {
	for a != "" && b != "" {
		var (
			unitA, restA = s.First(a)
			unitB, restB = s.First(b)
		)

		if c := strings.Compare(unitA, unitB); c != 0 {
			return c
		}

		a, b = restA, restB
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	}

	return 1
}

// Count returns the number of units in str.
func (s Scheme) Count(str string) int {
	switch s.Kind {
	case KindBytes:
		return len(str)
	case KindRunes:
		return utf8.RuneCountInString(str)
	}

	var num int

	for str != "" {
		_, str = s.First(str)
		num++
	}

	return num
}

// Split returns all units of str. It allocates and is meant for debugging.
func (s Scheme) Split(str string) []string {
	units := make([]string, 0, s.Count(str))

	for tok := s.Tokenize(str); !tok.Empty(); {
		unit, _ := tok.Next()
		units = append(units, unit)
	}

	return units
}
