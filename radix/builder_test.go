package radix

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglyzov/go-trie/label"
)

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int]()

	assert.NotNil(t, b)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 1, b.Nodes()) // root
	assert.Empty(t, b.Keys())
}

func TestAdd_EmptyKey(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int]()

	res, err := b.Add("", 1)

	require.ErrorIs(t, err, ErrEmptyKey)
	assert.Equal(t, NoPayload, res.Ref)
	assert.False(t, res.Inserted)
	assert.Equal(t, 0, b.Len())
}

func TestAdd_Get(t *testing.T) {
	t.Parallel()

	var (
		b     = NewBuilder[int]()
		state = map[string]int{}
	)

	for _, tcase := range []*struct {
		Key string
		Val int
	}{
		{"\x00", 1},
		{"\x00\x00\x00", 2},
		{"abcde", 3},
		{"abcdE", 4},
		{"ab", 5},
		{"abcde", 6}, // overwrite
		{"abcde\x00", 7},
		{"Абвгд", 8},
		{"Абвгдеё", 9},
		{"Banjo lo-fi brooklyn mlkshk cliche.", 10},
		{"Banjo lomo DIY whatever street.", 11},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#v,%#v", tcase.Key, tcase.Val)
		)

		t.Run(name, func(t *testing.T) {
			_, err := b.Add(tcase.Key, tcase.Val)
			require.NoError(t, err)

			state[tcase.Key] = tcase.Val

			// Get all the keys we set so far
			for key, val := range state {
				actual, ok := b.Get(key)

				assert.True(t, ok, key)
				assert.Equal(t, val, actual, key)
			}

			assert.Equal(t, len(state), b.Len())
		})
	}
}

func TestAdd_Scenarios(t *testing.T) {
	t.Parallel()

	type kv struct {
		Key string
		Val int
	}

	for _, tcase := range []*struct {
		Name     string
		Insert   []kv
		Found    []kv
		NotFound []string
	}{
		{
			Name:     "disjoint",
			Insert:   []kv{{"1234", 668}},
			Found:    []kv{{"1234", 668}},
			NotFound: []string{"", "1", "123", "12345", "2"},
		},
		{
			Name:     "branching",
			Insert:   []kv{{"abcd", 668}, {"abef", 777}, {"ab", 888}},
			Found:    []kv{{"ab", 888}, {"abcd", 668}, {"abef", 777}},
			NotFound: []string{"a", "abc", "abe", "abcde", "abx", "b"},
		},
		{
			Name:     "prefix of existing",
			Insert:   []kv{{"abcde", 668}, {"abc", 777}},
			Found:    []kv{{"abcde", 668}, {"abc", 777}},
			NotFound: []string{"ab", "abw", "abcd", "abcdef"},
		},
		{
			Name:     "extension of existing",
			Insert:   []kv{{"abc", 777}, {"abcde", 668}},
			Found:    []kv{{"abcde", 668}, {"abc", 777}},
			NotFound: []string{"ab", "abcd"},
		},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			b := NewBuilder[int]()

			for _, item := range tcase.Insert {
				res, err := b.Add(item.Key, item.Val)

				require.NoError(t, err)
				assert.True(t, res.Inserted, item.Key)
				assert.Equal(t, item.Val, b.Payload(res.Ref))
			}

			for _, item := range tcase.Found {
				val, ok := b.Get(item.Key)

				assert.True(t, ok, item.Key)
				assert.Equal(t, item.Val, val, item.Key)
			}

			for _, key := range tcase.NotFound {
				_, ok := b.Get(key)

				assert.False(t, ok, key)
			}
		})
	}
}

func TestAdd_Duplicates(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Policy DupPolicy
		ExpVal int
		ExpErr error
	}{
		{Overwrite, 777, nil},
		{KeepFirst, 668, nil},
		{Reject, 668, ErrDuplicateKey},
	} {
		tcase := tcase

		t.Run(tcase.Policy.String(), func(t *testing.T) {
			t.Parallel()

			b := NewBuilder[int](WithDuplicates(tcase.Policy))

			first, err := b.Add("1234", 668)
			require.NoError(t, err)
			assert.True(t, first.Inserted)

			second, err := b.Add("1234", 777)
			if tcase.ExpErr != nil {
				require.ErrorIs(t, err, tcase.ExpErr)
			} else {
				require.NoError(t, err)
			}

			assert.False(t, second.Inserted)
			assert.Equal(t, first.Ref, second.Ref)
			assert.Equal(t, 1, b.Len())

			val, ok := b.Get("1234")

			assert.True(t, ok)
			assert.Equal(t, tcase.ExpVal, val)
		})
	}
}

func TestAdd_BranchBecomesKey(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int](WithDuplicates(Reject))

	_, err := b.Add("abcd", 1)
	require.NoError(t, err)
	_, err = b.Add("abef", 2)
	require.NoError(t, err)

	// "ab" is a pure branch node now - no duplicate
	res, err := b.Add("ab", 3)

	require.NoError(t, err)
	assert.True(t, res.Inserted)
	assert.Equal(t, 4, b.Nodes())
}

func TestAdd_Dump(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int]()

	for _, item := range []struct {
		key string
		val int
	}{{"abcd", 668}, {"abef", 777}, {"ab", 888}} {
		_, err := b.Add(item.key, item.val)
		require.NoError(t, err)
	}

	exp := "" +
		"ROOT\n" +
		"  \"ab\" #2 val=888\n" +
		"    \"cd\" #1 val=668\n" +
		"    \"ef\" #3 val=777\n"

	assert.Equal(t, exp, b.String())
}

func TestAdd_NoCompression(t *testing.T) {
	t.Parallel()

	var (
		b    = NewBuilder[int](WithCompression(false))
		keys = []string{"abcd", "abef", "ab", "x"}
	)

	for i, key := range keys {
		res, err := b.Add(key, i)

		require.NoError(t, err)
		assert.True(t, res.Inserted)
	}

	// a plain trie: root, a, ab, abc, abcd, abe, abef, x
	assert.Equal(t, 8, b.Nodes())

	for i, key := range keys {
		val, ok := b.Get(key)

		assert.True(t, ok, key)
		assert.Equal(t, i, val, key)
	}

	_, ok := b.Get("abc")
	assert.False(t, ok)
}

func TestAdd_Delimited(t *testing.T) {
	t.Parallel()

	b := NewBuilder[string](WithScheme(label.Delimited('/')))

	for _, key := range []string{"/usr/bin", "/usr/lib", "/usr", "/usr/bin/go", "/var"} {
		_, err := b.Add(key, key)
		require.NoError(t, err)
	}

	for _, tcase := range []*struct {
		Key   string
		ExpOK bool
	}{
		{"/usr", true},
		{"/usr/bin", true},
		{"/usr/bin/go", true},
		{"/usr/lib", true},
		{"/var", true},
		{"/us", false},
		{"/usr/bi", false},
		{"/usr/bin/", false},
		{"/usr/bin/gofmt", false},
		{"/va", false},
	} {
		tcase := tcase

		t.Run(tcase.Key, func(t *testing.T) {
			val, ok := b.Get(tcase.Key)

			assert.Equal(t, tcase.ExpOK, ok)
			if ok {
				assert.Equal(t, tcase.Key, val)
			}
		})
	}

	// "/usr/bin" and "/usr/lib" share "/usr" only, never a partial segment
	exp := "" +
		"ROOT\n" +
		"  \"/usr\" #2 val=/usr\n" +
		"    \"/bin\" #1 val=/usr/bin\n" +
		"      \"/go\" #4 val=/usr/bin/go\n" +
		"    \"/lib\" #3 val=/usr/lib\n" +
		"  \"/var\" #5 val=/var\n"

	assert.Equal(t, exp, b.String())
}

func TestAdd_Runes(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int](WithScheme(label.Runes()))

	// "ä" and "ö" share the first UTF-8 byte
	for i, key := range []string{"ä", "ö", "äö"} {
		_, err := b.Add(key, i)
		require.NoError(t, err)
	}

	for i, key := range []string{"ä", "ö", "äö"} {
		val, ok := b.Get(key)

		assert.True(t, ok, key)
		assert.Equal(t, i, val, key)
	}

	_, ok := b.Get("\xc3")
	assert.False(t, ok)

	assert.Equal(t, []string{"ä", "äö", "ö"}, b.Keys())
}

func TestAdd_RunesInvalid(t *testing.T) {
	t.Parallel()

	var (
		b    = NewBuilder[int](WithScheme(label.Runes()))
		keys = []string{"a", "a\x80", "\xe4", "\xe4\x80z", "中", "\x80\x80", "\x80"}
	)

	// stray bytes are units of their own
	for i, key := range keys {
		res, err := b.Add(key, i)

		require.NoError(t, err)
		assert.True(t, res.Inserted, key)
	}

	for i, key := range keys {
		val, ok := b.Get(key)

		assert.True(t, ok, key)
		assert.Equal(t, i, val, key)
	}

	for _, key := range []string{"\xe4\x80", "\xe4\xb8", "a\x80\x80", "\x80\x80\x80"} {
		_, ok := b.Get(key)

		assert.False(t, ok, key)
	}

	assert.Equal(t, len(keys), len(b.Keys()))
}

func TestWalk_Order(t *testing.T) {
	t.Parallel()

	var (
		b    = NewBuilder[int]()
		keys = []string{"b", "abc", "a", "ab", "abd", "ba", "c", "\x00", "ÿ"}
	)

	for i, key := range keys {
		_, err := b.Add(key, i)
		require.NoError(t, err)
	}

	exp := slices.Clone(keys)
	slices.Sort(exp)

	assert.Equal(t, exp, b.Keys())

	// abort
	var visited []string

	done := b.Walk(func(key string, _ int) bool {
		visited = append(visited, key)
		return len(visited) < 3
	})

	assert.False(t, done)
	assert.Equal(t, exp[:3], visited)
}

func TestReset(t *testing.T) {
	t.Parallel()

	b := NewBuilder[int]()

	for i, key := range []string{"abc", "abd", "x"} {
		_, err := b.Add(key, i)
		require.NoError(t, err)
	}

	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 1, b.Nodes())
	assert.Empty(t, b.Keys())

	_, ok := b.Get("abc")
	assert.False(t, ok)

	_, err := b.Add("abc", 5)
	require.NoError(t, err)

	val, ok := b.Get("abc")
	assert.True(t, ok)
	assert.Equal(t, 5, val)
}
