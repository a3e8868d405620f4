package catalog

import (
	"encoding/json"
)

// DedupeBy keeps the first item for every key, preserving order.
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

// Dedupe maps raw records and drops every record whose identity was already
// seen. Later duplicates are discarded, not merged.
func Dedupe(records []RawBook, m *Mapper) []Book {
	unique := DedupeBy(records, RawKey)
	out := make([]Book, len(unique))
	for i, r := range unique {
		out[i] = m.Map(r)
	}
	return out
}

// DedupeBooks applies the same identity rule to already-mapped books.
func DedupeBooks(books []Book) []Book {
	return DedupeBy(books, Book.Key)
}

// RawKey is the identity of a provider record: id, else ISBN, else a
// structural serialization of the whole record.
func RawKey(r RawBook) string {
	if r.ID != "" {
		return r.ID
	}
	if isbn := ExtractISBN(r.Identifiers); isbn != "" {
		return isbn
	}
	return structuralKey(r)
}

// Key is the identity of a book: id, else ISBN, else StructuralKey.
func (b Book) Key() string {
	if b.ID != "" {
		return b.ID
	}
	if b.ISBN != "" {
		return b.ISBN
	}
	return b.StructuralKey()
}

// StructuralKey serializes the whole book. It only detects duplicates and is
// never displayed.
func (b Book) StructuralKey() string {
	return structuralKey(b)
}

func structuralKey(v any) string {
	// Struct fields marshal in declaration order, so the output is stable.
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}
