package favorite

import (
	"regexp"
	"strings"

	"bookshelf/internal/catalog"
)

// Kind tells which identity a favorite key refers to.
type Kind int

const (
	// CanonicalID is a provider volume id.
	CanonicalID Kind = iota + 1
	// LegacyISBN is the ISBN key older favorite lists were stored with.
	LegacyISBN
	// Structural is the serialized record of a book that had neither.
	Structural
)

func (k Kind) String() string {
	switch k {
	case CanonicalID:
		return "id"
	case LegacyISBN:
		return "isbn"
	case Structural:
		return "structural"
	default:
		return "unknown"
	}
}

// Key is a favorite entry. It collapses to Value when persisted.
type Key struct {
	Kind  Kind
	Value string
}

func ID(v string) Key   { return Key{Kind: CanonicalID, Value: v} }
func ISBN(v string) Key { return Key{Kind: LegacyISBN, Value: v} }

var (
	isbn10 = regexp.MustCompile(`^\d{9}[\dXx]$`)
	isbn13 = regexp.MustCompile(`^\d{13}$`)
)

// LooksLikeISBN reports whether s is a 10 or 13 digit ISBN, ignoring
// hyphens and spaces.
func LooksLikeISBN(s string) bool {
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	return isbn10.MatchString(s) || isbn13.MatchString(s)
}

// ParseKey recovers the kind of a persisted key from its shape.
func ParseKey(s string) Key {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "{"):
		return Key{Kind: Structural, Value: s}
	case LooksLikeISBN(s):
		return ISBN(s)
	default:
		return ID(s)
	}
}

// IdentityKey is the key a book is favorited under: its id, else its ISBN,
// else its structural key.
func IdentityKey(b catalog.Book) Key {
	switch {
	case b.ID != "":
		return ID(b.ID)
	case b.ISBN != "":
		return ISBN(b.ISBN)
	default:
		return Key{Kind: Structural, Value: b.StructuralKey()}
	}
}

// Matches reports whether k refers to b. A legacy key also matches the id,
// since a numeric id persists exactly like an ISBN.
func (k Key) Matches(b catalog.Book) bool {
	if k.Value == "" {
		return false
	}
	switch k.Kind {
	case CanonicalID:
		return k.Value == b.ID
	case LegacyISBN:
		return k.Value == b.ISBN || k.Value == b.ID
	case Structural:
		return b.ID == "" && b.ISBN == "" && k.Value == b.StructuralKey()
	default:
		return false
	}
}
