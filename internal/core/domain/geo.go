package domain

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Point - координаты в градусах
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) finite() bool {
	return isFinite(p.Lat) && isFinite(p.Lon)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Polygon - замкнутый контур, последняя вершина соединяется с первой
type Polygon []Point

// BoundingBox - охватывающий прямоугольник
type BoundingBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

func NewPolygon(points []Point) (Polygon, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("polygon requires at least 3 vertices, got %d", len(points))
	}
	for i, p := range points {
		if !p.finite() {
			return nil, fmt.Errorf("vertex %d is not a finite number: %v,%v", i, p.Lat, p.Lon)
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return nil, fmt.Errorf("vertex %d is out of range: %v,%v", i, p.Lat, p.Lon)
		}
	}
	return Polygon(points), nil
}

func (poly Polygon) BoundingBox() BoundingBox {
	bb := BoundingBox{MinLat: poly[0].Lat, MaxLat: poly[0].Lat, MinLon: poly[0].Lon, MaxLon: poly[0].Lon}
	for _, p := range poly[1:] {
		bb.MinLat = min(bb.MinLat, p.Lat)
		bb.MaxLat = max(bb.MaxLat, p.Lat)
		bb.MinLon = min(bb.MinLon, p.Lon)
		bb.MaxLon = max(bb.MaxLon, p.Lon)
	}
	return bb
}

func (bb BoundingBox) Contains(p Point) bool {
	return p.Lat >= bb.MinLat && p.Lat <= bb.MaxLat && p.Lon >= bb.MinLon && p.Lon <= bb.MaxLon
}

// ring - плоское кольцо (lon, lat), замкнутое повтором первой вершины
func (poly Polygon) ring() []float64 {
	flat := make([]float64, 0, 2*(len(poly)+1))
	for _, p := range poly {
		flat = append(flat, p.Lon, p.Lat)
	}
	return append(flat, poly[0].Lon, poly[0].Lat)
}

// Contains: точка на границе считается внутренней
func (poly Polygon) Contains(p Point) bool {
	if len(poly) < 3 {
		return false
	}
	return xy.IsPointInRing(geom.XY, geom.Coord{p.Lon, p.Lat}, poly.ring())
}
