package label

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Scheme  Scheme
		Str     string
		ExpUnit string
		ExpRest string
	}{
		{Bytes(), "", "", ""},
		{Bytes(), "a", "a", ""},
		{Bytes(), "abc", "a", "bc"},
		{Bytes(), "Абв", "\xd0", "\x90бв"},
		{Runes(), "", "", ""},
		{Runes(), "Абв", "А", "бв"},
		{Runes(), "\xffab", "\xff", "ab"},
		{Delimited('/'), "", "", ""},
		{Delimited('/'), "/", "/", ""},
		{Delimited('/'), "static_file", "static_file", ""},
		{Delimited('/'), "/users/scott", "/users", "/scott"},
		{Delimited('/'), "users/scott", "users", "/scott"},
		{Delimited('/'), "//", "/", "/"},
		{Delimited('/'), " /", " ", "/"},
		{Delimited('.'), "a.b.c", "a", ".b.c"},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%v,%#v", tcase.Scheme, tcase.Str)
		)

		t.Run(name, func(t *testing.T) {
			unit, rest := tcase.Scheme.First(tcase.Str)

			assert.Equal(t, tcase.ExpUnit, unit)
			assert.Equal(t, tcase.ExpRest, rest)
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Scheme   Scheme
		Str      string
		ExpUnits []string
	}{
		{Bytes(), "", []string{}},
		{Bytes(), "1234", []string{"1", "2", "3", "4"}},
		{Runes(), "ёж", []string{"ё", "ж"}},
		{Delimited('/'), "/a/b/c", []string{"/a", "/b", "/c"}},
		{Delimited('/'), "/users/ramona/", []string{"/users", "/ramona", "/"}},
		{Delimited('/'), "users/ramona/", []string{"users", "/ramona", "/"}},
		{Delimited('/'), "sensors/+/temp", []string{"sensors", "/+", "/temp"}},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%v,%#v", tcase.Scheme, tcase.Str)
		)

		t.Run(name, func(t *testing.T) {
			units := tcase.Scheme.Split(tcase.Str)

			assert.Equal(t, tcase.ExpUnits, units)
			assert.Equal(t, len(tcase.ExpUnits), tcase.Scheme.Count(tcase.Str))
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Scheme Scheme
		A, B   string
		Exp    int
	}{
		{Bytes(), "", "", 0},
		{Bytes(), "abcd", "", 0},
		{Bytes(), "abcd", "abef", 2},
		{Bytes(), "abcd", "abcd", 4},
		{Bytes(), "abc", "abcde", 3},
		{Runes(), "ёжик", "ёлка", 2},
		{Runes(), "\xd0\x90", "\xd0\x91", 0},
		{Delimited('/'), "a/b/c", "a/b/d", 3},
		{Delimited('/'), "a/bc", "a/bd", 1},
		{Delimited('/'), "/home/user1", "/home/user12", 5},
		{Delimited('/'), "/home", "/homer", 0},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%v,%#v,%#v", tcase.Scheme, tcase.A, tcase.B)
		)

		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tcase.Exp, tcase.Scheme.CommonPrefix(tcase.A, tcase.B))
			assert.Equal(t, tcase.Exp, tcase.Scheme.CommonPrefix(tcase.B, tcase.A))
		})
	}
}

func TestHasPrefix(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Scheme      Scheme
		Str, Prefix string
		Exp         bool
	}{
		{Bytes(), "abc", "", true},
		{Bytes(), "abc", "ab", true},
		{Bytes(), "abc", "abc", true},
		{Bytes(), "ab", "abc", false},
		{Runes(), "ёж", "\xd1", false},
		{Runes(), "ёж", "ё", true},
		{Runes(), "a\x80", "a", true},
		{Runes(), "\xe4\x80z", "\xe4", true},
		{Runes(), "\xe4\x80z", "\xe4\x80", true},
		{Runes(), "中z", "\xe4", false},
		{Runes(), "中z", "\xe4\xb8", false},
		{Delimited('/'), "/ab/c", "/a", false},
		{Delimited('/'), "/a/c", "/a", true},
		{Delimited('/'), "/x", "/", false},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%v,%#v,%#v", tcase.Scheme, tcase.Str, tcase.Prefix)
		)

		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tcase.Exp, tcase.Scheme.HasPrefix(tcase.Str, tcase.Prefix))
		})
	}
}

func TestBoundary_MatchesFirst(t *testing.T) {
	t.Parallel()

	for _, scheme := range []Scheme{Bytes(), Runes(), Delimited('/')} {
		for _, str := range []string{
			"abc",
			"ёж中",
			"a\x80",
			"\xe4\x80z",
			"\x80\x80\x80\x80\x80",
			"\xf0\x9f\x98\x80\x80",
			"\xff\xfe中\xb8",
			"/a//b/",
		} {
			var (
				scheme = scheme
				str    = str
				name   = fmt.Sprintf("%v,%#v", scheme, str)
			)

			t.Run(name, func(t *testing.T) {
				starts := map[int]bool{len(str): true}

				for rest := str; rest != ""; {
					starts[len(str)-len(rest)] = true
					_, rest = scheme.First(rest)
				}

				for idx := 0; idx <= len(str); idx++ {
					assert.Equal(t, starts[idx], scheme.Boundary(str, idx), idx)
				}
			})
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	var (
		slash = Delimited('/')
		bytes = Bytes()
	)

	assert.Equal(t, 0, slash.Compare("a/b", "a/b"))
	assert.Equal(t, -1, slash.Compare("a", "a/b"))
	assert.Equal(t, 1, slash.Compare("a/b", "a"))
	assert.Equal(t, -1, slash.Compare("a/b", "ab"))
	assert.Equal(t, -1, bytes.Compare("ab", "abc"))
	assert.Equal(t, 1, bytes.Compare("b", "abc"))
}

func TestTokenizer(t *testing.T) {
	t.Parallel()

	tok := Delimited('/').Tokenize("/a/b")

	require.False(t, tok.Empty())

	unit, ok := tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "/a", unit)
	assert.Equal(t, "/b", tok.Rest())

	unit, ok = tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "/b", unit)
	assert.True(t, tok.Empty())

	unit, ok = tok.Next()
	assert.False(t, ok)
	assert.Equal(t, "", unit)
}

func TestParseScheme(t *testing.T) {
	t.Parallel()

	for _, scheme := range []Scheme{Bytes(), Runes(), Delimited('/'), Delimited('.')} {
		parsed, err := ParseScheme(scheme.String())

		require.NoError(t, err)
		assert.Equal(t, scheme, parsed)
	}

	_, err := ParseScheme("delimited:")
	assert.ErrorIs(t, err, ErrBadScheme)

	_, err = ParseScheme("words")
	assert.ErrorIs(t, err, ErrBadScheme)
}
