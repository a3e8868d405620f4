package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/catalog"
)

func TestIsFavorite(t *testing.T) {
	b := catalog.Book{ID: "v1", ISBN: "9780451524935"}

	assert.False(t, IsFavorite(Set{}, b))
	assert.True(t, IsFavorite(NewSet(ID("v1")), b))
	assert.True(t, IsFavorite(NewSet(ISBN("9780451524935")), b))
	assert.False(t, IsFavorite(NewSet(ID("v2")), b))
}

func TestToggle(t *testing.T) {
	b := catalog.Book{ID: "v1", ISBN: "9780451524935"}

	t.Run("adds under id", func(t *testing.T) {
		s := Toggle(Set{}, b)
		assert.Equal(t, []string{"v1"}, s.Strings())
		assert.True(t, IsFavorite(s, b))
	})

	t.Run("twice is identity", func(t *testing.T) {
		start := NewSet(ID("other"))
		assert.True(t, Toggle(Toggle(start, b), b).Equal(start))
	})

	t.Run("removes legacy key", func(t *testing.T) {
		s := NewSet(ISBN("9780451524935"), ID("other"))
		next := Toggle(s, b)
		assert.Equal(t, []string{"other"}, next.Strings())
		assert.False(t, IsFavorite(next, b))
	})

	t.Run("removes every matching key", func(t *testing.T) {
		s := NewSet(ISBN("9780451524935"), ID("v1"))
		assert.Equal(t, 0, Toggle(s, b).Len())
	})

	t.Run("does not mutate input", func(t *testing.T) {
		s := NewSet(ID("a"))
		_ = Toggle(s, b)
		assert.Equal(t, []string{"a"}, s.Strings())
	})

	t.Run("structural identity", func(t *testing.T) {
		anon := catalog.Book{Title: "Anon", Author: "X"}
		s := Toggle(Set{}, anon)
		require.Equal(t, 1, s.Len())
		assert.True(t, IsFavorite(s, anon))
		assert.Equal(t, 0, Toggle(s, anon).Len())
	})
}

func TestResolve(t *testing.T) {
	books := map[string]catalog.Book{
		"a":             {ID: "a", Title: "A"},
		"c":             {ID: "c", Title: "C"},
		"9780451524935": {ID: "a", ISBN: "9780451524935", Title: "A"},
	}
	r := ResolverFunc(func(_ context.Context, k Key) (catalog.Book, error) {
		b, ok := books[k.Value]
		if !ok {
			return catalog.Book{}, errors.New("not found")
		}
		return b, nil
	})

	keys := []Key{ID("c"), ID("missing"), ID("a"), ISBN("9780451524935")}
	got := Resolve(context.Background(), keys, r)

	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

func TestResolve_Empty(t *testing.T) {
	r := ResolverFunc(func(context.Context, Key) (catalog.Book, error) {
		t.Fatal("resolver must not be called")
		return catalog.Book{}, nil
	})
	assert.Empty(t, Resolve(context.Background(), nil, r))
}

func TestSet_JSON(t *testing.T) {
	s := NewSet(ID("a"), ISBN("9780451524935"), ID("a"))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","9780451524935"]`, string(b))

	var back Set
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(s))
	assert.Equal(t, LegacyISBN, back.Keys()[1].Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &back))
}

func TestParseSet_SkipsBlank(t *testing.T) {
	s := ParseSet([]string{"", "  ", "x", "x"})
	assert.Equal(t, []string{"x"}, s.Strings())
}
