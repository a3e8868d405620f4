package favorite

import (
	"encoding/json"
	"fmt"

	"bookshelf/internal/catalog"
)

// Set is an immutable, insertion-ordered set of favorite keys. Two keys with
// the same persisted value are the same entry.
type Set struct {
	keys []Key
}

func NewSet(keys ...Key) Set {
	var s Set
	for _, k := range keys {
		s = s.with(k)
	}
	return s
}

// ParseSet builds a set from persisted values.
func ParseSet(values []string) Set {
	keys := make([]Key, 0, len(values))
	for _, v := range values {
		if k := ParseKey(v); k.Value != "" {
			keys = append(keys, k)
		}
	}
	return NewSet(keys...)
}

// Keys returns a copy of the keys in insertion order.
func (s Set) Keys() []Key {
	return append([]Key(nil), s.keys...)
}

// Strings returns the persisted form of every key.
func (s Set) Strings() []string {
	out := make([]string, len(s.keys))
	for i, k := range s.keys {
		out[i] = k.Value
	}
	return out
}

func (s Set) Len() int { return len(s.keys) }

func (s Set) Contains(v string) bool {
	for _, k := range s.keys {
		if k.Value == v {
			return true
		}
	}
	return false
}

// Equal compares as sets, ignoring order.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.keys {
		if !o.Contains(k.Value) {
			return false
		}
	}
	return true
}

func (s Set) with(k Key) Set {
	if k.Value == "" || s.Contains(k.Value) {
		return s
	}
	keys := make([]Key, len(s.keys), len(s.keys)+1)
	copy(keys, s.keys)
	return Set{keys: append(keys, k)}
}

func (s Set) without(b catalog.Book) Set {
	keys := make([]Key, 0, len(s.keys))
	for _, k := range s.keys {
		if !k.Matches(b) {
			keys = append(keys, k)
		}
	}
	return Set{keys: keys}
}

func (s Set) withoutValue(v string) Set {
	keys := make([]Key, 0, len(s.keys))
	for _, k := range s.keys {
		if k.Value != v {
			keys = append(keys, k)
		}
	}
	return Set{keys: keys}
}

// MarshalJSON writes the set as a JSON array of strings, the format the
// favorites list has always been stored in.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("favorites list: %w", err)
	}
	*s = ParseSet(values)
	return nil
}
