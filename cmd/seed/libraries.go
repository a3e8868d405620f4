package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bookshelf/internal/library"
)

type librarySeed struct {
	Name      string   `yaml:"name"`
	Address   string   `yaml:"address"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

func coord(v float64) *float64 { return &v }

var defaultLibraries = []librarySeed{
	{Name: "Biblioteca Pública Municipal de São José dos Pinhais", Address: "R. Izabel a Redentora, 1434, Centro, São José dos Pinhais - PR", Latitude: coord(-25.5346), Longitude: coord(-49.2063)},
	{Name: "Biblioteca Pública do Paraná", Address: "R. Cândido Lopes, 133, Centro, Curitiba - PR", Latitude: coord(-25.4321), Longitude: coord(-49.2726)},
	{Name: "Farol do Saber Afonso Pena", Address: "R. Arapongas, São José dos Pinhais - PR", Latitude: coord(-25.5181), Longitude: coord(-49.1957)},
	{Name: "Biblioteca Central UFPR", Address: "R. General Carneiro, 370, Curitiba - PR", Latitude: coord(-25.4266), Longitude: coord(-49.2619)},
	{Name: "Gibiteca de Curitiba", Address: "Solar do Barão, R. Presidente Carlos Cavalcanti, 533, Curitiba - PR"},
}

// loadLibraries reads seeds from a YAML list, or returns the built-in set
// when path is empty.
func loadLibraries(path string) ([]librarySeed, error) {
	if path == "" {
		return defaultLibraries, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []librarySeed
	if err := yaml.Unmarshal(b, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range seeds {
		if s.Name == "" {
			return nil, fmt.Errorf("parse %s: entry %d has no name", path, i)
		}
	}
	return seeds, nil
}

func (s librarySeed) library() library.Library {
	return library.Library{
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}
