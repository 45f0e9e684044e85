// Package geo holds the spatial helpers shared by plans and the client:
// envelope arithmetic, geohash covers, web-mercator tiles and square grids.
package geo

import (
	"github.com/paulmach/orb"
)

// EmptyBound is the identity of Union: it intersects nothing
var EmptyBound = orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}

// IsEmpty returns true iff b encloses no point
func IsEmpty(b orb.Bound) bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}

// ExpandBy grows b by distance d on every side
func ExpandBy(b orb.Bound, d float64) orb.Bound {
	if IsEmpty(b) {
		return b
	}
	return b.Pad(d)
}

// Intersects returns true iff a and b share at least one point
func Intersects(a orb.Bound, b orb.Bound) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return false
	}
	return a.Intersects(b)
}

// Union returns the smallest bound enclosing both a and b
func Union(a orb.Bound, b orb.Bound) orb.Bound {
	if IsEmpty(a) {
		return b
	}
	if IsEmpty(b) {
		return a
	}
	return a.Union(b)
}

// BoundOf returns the bound enclosing every non-nil geometry, or EmptyBound
func BoundOf(geoms ...orb.Geometry) orb.Bound {
	res := EmptyBound
	for _, g := range geoms {
		if g != nil {
			res = Union(res, g.Bound())
		}
	}
	return res
}
