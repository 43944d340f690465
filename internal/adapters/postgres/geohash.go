package postgres_adapter

import (
	"realty-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// geohashPrecision 9 - ячейка примерно 5x5 метров
const geohashPrecision = 9

// propertyGeohash - nil, если координаты не заданы
func propertyGeohash(p *domain.Property) *string {
	if !p.HasCoordinates() {
		return nil
	}
	h := geohash.EncodeWithPrecision(*p.Latitude, *p.Longitude, geohashPrecision)
	return &h
}

// boundingBoxPrefix - общий префикс геохешей углов прямоугольника.
// Все точки внутри прямоугольника лежат в ячейке этого префикса.
func boundingBoxPrefix(bb domain.BoundingBox) string {
	corners := []string{
		geohash.EncodeWithPrecision(bb.MinLat, bb.MinLon, geohashPrecision),
		geohash.EncodeWithPrecision(bb.MinLat, bb.MaxLon, geohashPrecision),
		geohash.EncodeWithPrecision(bb.MaxLat, bb.MinLon, geohashPrecision),
		geohash.EncodeWithPrecision(bb.MaxLat, bb.MaxLon, geohashPrecision),
	}

	prefix := corners[0]
	for _, c := range corners[1:] {
		n := 0
		for n < len(prefix) && n < len(c) && prefix[n] == c[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}
