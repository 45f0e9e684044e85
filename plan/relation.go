package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// SpatialRelation is the predicate a spatial filter or join applies between
// two geometries
type SpatialRelation struct {
	name     string
	distance float64
}

// Intersects holds when two geometries share at least one point
func Intersects() SpatialRelation {
	return SpatialRelation{name: "intersects"}
}

// WithinDistance holds when two geometries are at most d apart
func WithinDistance(d float64) SpatialRelation {
	return SpatialRelation{name: "within_distance", distance: d}
}

// Distance returns the distance of a within_distance relation, or 0
func (r SpatialRelation) Distance() float64 {
	return r.distance
}

func (r SpatialRelation) validate() error {
	switch r.name {
	case "intersects":
		return nil
	case "within_distance":
		if r.distance < 0 {
			return fmt.Errorf("negative distance %g", r.distance)
		}
		return nil
	case "":
		return fmt.Errorf("missing spatial relation")
	}
	return fmt.Errorf("unknown spatial relation %q", r.name)
}

// String encodes r as it appears on the wire, e.g. "within_distance(10)"
func (r SpatialRelation) String() string {
	if r.name == "within_distance" {
		return fmt.Sprintf("%s(%s)", r.name, strconv.FormatFloat(r.distance, 'g', -1, 64))
	}
	return r.name
}

// ParseSpatialRelation decodes the output of SpatialRelation.String
func ParseSpatialRelation(str string) (SpatialRelation, error) {
	str = strings.TrimSpace(str)
	if str == "intersects" {
		return Intersects(), nil
	}
	if strings.HasPrefix(str, "within_distance(") && strings.HasSuffix(str, ")") {
		arg := str[len("within_distance(") : len(str)-1]
		d, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return SpatialRelation{}, fmt.Errorf("invalid distance in %q: %w", str, err)
		}
		rel := WithinDistance(d)
		return rel, rel.validate()
	}
	return SpatialRelation{}, fmt.Errorf("unknown spatial relation %q", str)
}
