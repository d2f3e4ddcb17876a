// Package geo holds the small amount of spherical geometry the map view
// needs: coordinate validation, a bounding viewport and cell keys.
package geo

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"

	"realestate/internal/models"
)

// CellPrecision is the geohash length used for point keys (~1.2km cells).
const CellPrecision = 6

// Center of the contiguous United States, used when there is nothing to frame.
var defaultCenter = s2.LatLngFromDegrees(37.0902, -95.7129)

// Valid reports whether lat/lon is a point on the globe.
func Valid(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// Cell returns the geohash prefix covering lat/lon.
func Cell(lat, lon float64) string {
	h := geohash.Encode(lat, lon)
	if len(h) > CellPrecision {
		h = h[:CellPrecision]
	}
	return h
}

// Viewport frames points with their lat/lng bounding rectangle.
func Viewport(points []models.MapPoint) models.Viewport {
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}
	if rect.IsEmpty() {
		return models.Viewport{
			South:     defaultCenter.Lat.Degrees(),
			West:      defaultCenter.Lng.Degrees(),
			North:     defaultCenter.Lat.Degrees(),
			East:      defaultCenter.Lng.Degrees(),
			CenterLat: defaultCenter.Lat.Degrees(),
			CenterLon: defaultCenter.Lng.Degrees(),
		}
	}

	center := rect.Center()
	v := models.Viewport{
		South:     rect.Lo().Lat.Degrees(),
		West:      rect.Lo().Lng.Degrees(),
		North:     rect.Hi().Lat.Degrees(),
		East:      rect.Hi().Lng.Degrees(),
		CenterLat: center.Lat.Degrees(),
		CenterLon: center.Lng.Degrees(),
	}
	// Axes need West <= East, so a box spanning the antimeridian falls back
	// to the plain longitude extent.
	if rect.Lng.IsInverted() {
		v.West, v.East = points[0].Longitude, points[0].Longitude
		for _, p := range points[1:] {
			v.West, v.East = min(v.West, p.Longitude), max(v.East, p.Longitude)
		}
		v.CenterLon = (v.West + v.East) / 2
	}
	return v
}
