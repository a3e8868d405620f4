package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps source-vocabulary category names to display labels.
type Table map[string]string

// DefaultTable returns a fresh copy of the built-in translation table.
func DefaultTable() Table {
	return Table{
		"fiction":                       "Ficção",
		"science fiction":               "Ficção científica",
		"romance":                       "Romance",
		"fantasy":                       "Fantasia",
		"history":                       "História",
		"science":                       "Ciência",
		"juvenile fiction":              "Ficção juvenil",
		"juvenile nonfiction":           "Não ficção juvenil",
		"young adult":                   "Jovem adulto",
		"young adult fiction":           "Jovem adulto",
		"children":                      "Infantil",
		"children's stories":            "Infantil",
		"biography":                     "Biografia",
		"biography & autobiography":     "Biografia",
		"mystery":                       "Mistério",
		"detective and mystery stories": "Mistério",
		"nonfiction":                    "Não ficção",
		"non-fiction":                   "Não ficção",
		"poetry":                        "Poesia",
		"drama":                         "Drama",
		"horror":                        "Terror",
		"thriller":                      "Suspense",
		"philosophy":                    "Filosofia",
		"religion":                      "Religião",
		"self-help":                     "Autoajuda",
		"comics & graphic novels":       "Quadrinhos",
		"literary criticism":            "Crítica literária",
		"business & economics":          "Negócios e economia",
		"computers":                     "Computação",
		"education":                     "Educação",
	}
}

// LoadTable reads a YAML mapping of category names to labels and merges it
// over the defaults. Entries in the file win.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category table: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("parse category table %s: %w", path, err)
	}
	for k, v := range overrides {
		if k == "" || v == "" {
			continue
		}
		table[k] = v
	}
	return table, nil
}
