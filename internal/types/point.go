package types

import "strconv"

// Point is a WGS84 coordinate pair in decimal degrees. (0,0) is an ordinary
// point; absence is expressed with *Point.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LngLat formats the point as "lng,lat" with six fraction digits.
func (p Point) LngLat() string {
	return strconv.FormatFloat(p.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
}

// LatLng formats the point as "lat,lng" with six fraction digits.
func (p Point) LatLng() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
