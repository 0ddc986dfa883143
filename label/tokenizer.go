package label

// Tokenizer is a forward-only iterator over the units of a key.
// It cannot be restarted: tokenize the original key again instead.
type Tokenizer struct {
	scheme Scheme
	rest   string
}

// Tokenize returns a Tokenizer over the units of key.
func (s Scheme) Tokenize(key string) Tokenizer {
	return Tokenizer{scheme: s, rest: key}
}

// Next returns the next unit, or false when the key is exhausted.
func (tok *Tokenizer) Next() (string, bool) {
	if tok.rest == "" {
		return "", false
	}

	var unit string

	unit, tok.rest = tok.scheme.First(tok.rest)

	return unit, true
}

// Empty reports whether all units have been consumed.
func (tok *Tokenizer) Empty() bool {
	return tok.rest == ""
}

// Rest returns the unconsumed part of the key.
func (tok *Tokenizer) Rest() string {
	return tok.rest
}
