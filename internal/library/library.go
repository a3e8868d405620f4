package library

import (
	"time"

	"bookshelf/internal/geo"
)

// Library is a public library location. Coordinates are nullable.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Location implements geo.Locatable.
func (l Library) Location() (geo.Point, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *l.Latitude, Lon: *l.Longitude}, true
}

// Nearby is a library annotated with its distance to the caller.
type Nearby = geo.Annotated[Library]
