package catalog

// FallbackGenre labels books whose category is missing or unparseable.
const FallbackGenre = "Outros"

// DefaultTitle is used when a provider record has no title.
const DefaultTitle = "Untitled"

// Identifier is a typed industry identifier attached to a provider record
// (ISBN_10, ISBN_13, ISSN, OTHER, ...).
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"identifier"`
}

type ImageLinks struct {
	Large          string `json:"large,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
}

// RawBook is a decoded provider record before normalization.
type RawBook struct {
	ID            string       `json:"id,omitempty"`
	Title         string       `json:"title,omitempty"`
	Authors       []string     `json:"authors,omitempty"`
	Categories    []string     `json:"categories,omitempty"`
	Identifiers   []Identifier `json:"identifiers,omitempty"`
	PageCount     int          `json:"pageCount,omitempty"`
	PublishedDate string       `json:"publishedDate,omitempty"`
	Description   string       `json:"description,omitempty"`
	ImageLinks    ImageLinks   `json:"imageLinks,omitempty"`
}

// Book is a display-ready record. Empty strings mean the value is absent.
type Book struct {
	ID            string   `json:"id,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PageCount     string   `json:"page_count,omitempty"`
	PublishedYear string   `json:"published_year,omitempty"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories"`
}

// GenreGroup is a named bucket of books sharing a normalized category label.
type GenreGroup struct {
	Genre string `json:"genre"`
	Books []Book `json:"books"`
}
