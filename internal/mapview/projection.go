package mapview

import (
	"math"

	"polio-eradicator/internal/models"
)

const (
	// TileSize is the edge of one map tile in pixels.
	TileSize = 256
	// MaxZoom bounds the zoom levels the map will render. The whole world
	// is drawn as one image, so higher levels would mean thousands of tiles.
	MaxZoom = 3

	maxLatitude = 85.0511287798
)

// Point is a position in world pixel space at a given zoom.
type Point struct {
	X float64
	Y float64
}

// WorldSize is the edge of the whole map in pixels at zoom.
func WorldSize(zoom int) float64 {
	return TileSize * math.Exp2(float64(zoom))
}

// Project converts a geographic position to Web Mercator world pixels.
// Latitudes beyond the Mercator limit are clamped.
func Project(ll models.LatLng, zoom int) Point {
	size := WorldSize(zoom)
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, ll.Lat))
	phi := lat * math.Pi / 180

	x := (ll.Lng + 180) / 360 * size
	y := (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2 * size
	return Point{X: x, Y: y}
}

// Unproject is the inverse of Project.
func Unproject(p Point, zoom int) models.LatLng {
	size := WorldSize(zoom)
	lng := p.X/size*360 - 180
	n := math.Pi * (1 - 2*p.Y/size)
	lat := math.Atan(math.Sinh(n)) * 180 / math.Pi
	return models.LatLng{Lat: lat, Lng: lng}
}

func clampZoom(zoom int) int {
	return max(0, min(MaxZoom, zoom))
}
