// Package geo turns coordinates into leg distances.
package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius.
const EarthRadiusKm = 6371.0

// Point is a WGS84 position in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Valid reports whether p lies within the coordinate ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p Point) latLng() s2.LatLng { return s2.LatLngFromDegrees(p.Lat, p.Lng) }

// DistanceKm returns the great circle distance between a and b.
func DistanceKm(a, b Point) (float64, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("invalid coordinates %v", a)
	}
	if !b.Valid() {
		return 0, fmt.Errorf("invalid coordinates %v", b)
	}
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadiusKm, nil
}

// PathKm sums the great circle distances along pts.
func PathKm(pts []Point) (float64, error) {
	var total float64
	for i := 1; i < len(pts); i++ {
		d, err := DistanceKm(pts[i-1], pts[i])
		if err != nil {
			return 0, fmt.Errorf("segment %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}
