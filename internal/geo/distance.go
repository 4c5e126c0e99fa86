// Package geo provides great-circle distance and coordinate helpers.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// milesPerDegree converts degrees of arc to statute miles
// (60 nautical miles per degree, 1.1515 statute miles per nautical mile).
const milesPerDegree = 60 * 1.1515

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMiles returns the great-circle distance between two coordinates in
// statute miles, using the spherical law of cosines. Coordinates are not validated.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radTheta := (lon1 - lon2) * math.Pi / 180

	c := math.Sin(radLat1)*math.Sin(radLat2) + math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}

	deg := math.Acos(c) * 180 / math.Pi
	return deg * milesPerDegree
}

// DistanceTo returns the distance in miles from p to q.
func (p Point) DistanceTo(q Point) float64 {
	return DistanceMiles(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
}

// String formats the point as the "lat, lon" location query used for route generation.
func (p Point) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// ParsePoint parses "lat,lon" (whitespace around either part is allowed).
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid coordinate %q (use lat,lon)", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}

	p := Point{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks that the coordinates are finite and in range.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", p.Longitude)
	}
	return nil
}
