package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Mapper turns provider records into display-ready books.
type Mapper struct {
	// CoverFallback builds a cover URL from an ISBN when the provider has no
	// image. Optional.
	CoverFallback func(isbn string) string
}

func (m *Mapper) Map(raw RawBook) Book {
	b := Book{
		ID:            strings.TrimSpace(raw.ID),
		ISBN:          ExtractISBN(raw.Identifiers),
		Title:         strings.TrimSpace(raw.Title),
		Author:        strings.Join(raw.Authors, ", "),
		PublishedYear: PublishedYear(raw.PublishedDate),
		ThumbnailURL:  SecureURL(firstNonEmpty(raw.ImageLinks.Large, raw.ImageLinks.Thumbnail, raw.ImageLinks.SmallThumbnail)),
		Description:   CleanDescription(raw.Description),
		Categories:    append([]string{}, raw.Categories...),
	}
	if b.Title == "" {
		b.Title = DefaultTitle
	}
	if raw.PageCount > 0 {
		b.PageCount = strconv.Itoa(raw.PageCount)
	}
	if b.ThumbnailURL == "" && b.ISBN != "" && m != nil && m.CoverFallback != nil {
		b.ThumbnailURL = m.CoverFallback(b.ISBN)
	}
	return b
}

// ExtractISBN returns the first identifier whose type mentions "isbn".
func ExtractISBN(ids []Identifier) string {
	for _, id := range ids {
		if id.Type == "" || strings.TrimSpace(id.Value) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(id.Type), "isbn") {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// PublishedYear keeps the portion of a date before the first separator,
// so "2004-05-01" and "2004" both give "2004".
func PublishedYear(date string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	return year
}

// SecureURL upgrades an http URL to https.
func SecureURL(u string) string {
	u = strings.TrimSpace(u)
	if len(u) >= 5 && strings.EqualFold(u[:5], "http:") {
		return "https:" + u[5:]
	}
	return u
}

var (
	lineBreakTag   = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphTag   = regexp.MustCompile(`(?i)</?p[^>]*>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
	htmlEntity     = regexp.MustCompile(`&(#?\w+);`)
	extraLineBreak = regexp.MustCompile(`\n{3,}`)
)

// CleanDescription turns provider HTML into plain text.
func CleanDescription(html string) string {
	if html == "" {
		return ""
	}
	s := lineBreakTag.ReplaceAllString(html, "\n")
	s = paragraphTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = htmlEntity.ReplaceAllStringFunc(s, decodeEntity)
	s = extraLineBreak.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func decodeEntity(entity string) string {
	name := strings.TrimSuffix(strings.TrimPrefix(entity, "&"), ";")
	switch {
	case strings.HasPrefix(name, "#x"), strings.HasPrefix(name, "#X"):
		if n, err := strconv.ParseInt(name[2:], 16, 32); err == nil {
			return string(rune(n))
		}
		return ""
	case strings.HasPrefix(name, "#"):
		if n, err := strconv.ParseInt(name[1:], 10, 32); err == nil {
			return string(rune(n))
		}
		return ""
	}
	switch name {
	case "amp":
		return "&"
	case "lt":
		return "<"
	case "gt":
		return ">"
	case "quot":
		return `"`
	case "apos":
		return "'"
	case "nbsp":
		return " "
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
