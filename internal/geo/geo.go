// Package geo annotates geo-tagged records with their great-circle distance
// to a reference point.
package geo

import (
	"math"
	"slices"
)

// EarthRadiusMeters is the mean Earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether p holds finite, in-range coordinates.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Locatable is implemented by records that may carry a position.
type Locatable interface {
	Location() (Point, bool)
}

// Annotated pairs a record with its distance to the reference point.
type Annotated[T any] struct {
	Item           T   `json:"item"`
	DistanceMeters int `json:"distance_meters"`
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Annotate computes the distance from ref to every item that has a usable
// location and returns them sorted ascending by distance. Items without a
// location are left out. Ties keep their input order.
func Annotate[T Locatable](ref Point, items []T) []Annotated[T] {
	out := make([]Annotated[T], 0, len(items))
	for _, item := range items {
		p, ok := item.Location()
		if !ok || !p.Valid() {
			continue
		}
		out = append(out, Annotated[T]{
			Item:           item,
			DistanceMeters: int(math.Round(Haversine(ref, p))),
		})
	}

	slices.SortStableFunc(out, func(a, b Annotated[T]) int {
		return a.DistanceMeters - b.DistanceMeters
	})
	return out
}
