package geo

import (
	"math"
	"sort"

	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
)

// MaxGeohashPrecision is the longest geohash, in characters, we produce
const MaxGeohashPrecision = 12

func clampPrecision(precision uint) uint {
	if precision < 1 {
		return 1
	} else if precision > MaxGeohashPrecision {
		return MaxGeohashPrecision
	}
	return precision
}

// GeohashOf returns the geohash of a lon/lat point at the given precision
func GeohashOf(p orb.Point, precision uint) string {
	return geohash.EncodeWithPrecision(p.Lat(), p.Lon(), clampPrecision(precision))
}

// GeohashBound returns the lon/lat box of a geohash cell
func GeohashBound(hash string) orb.Bound {
	box := geohash.BoundingBox(hash)
	return orb.Bound{Min: orb.Point{box.MinLng, box.MinLat}, Max: orb.Point{box.MaxLng, box.MaxLat}}
}

// GeohashCover returns the sorted geohash cells at the given precision whose
// boxes intersect a lon/lat bound
func GeohashCover(b orb.Bound, precision uint) []string {
	if IsEmpty(b) {
		return nil
	}
	precision = clampPrecision(precision)
	minLon, minLat := math.Max(b.Min[0], -180), math.Max(b.Min[1], -90)
	maxLon, maxLat := math.Min(b.Max[0], 180), math.Min(b.Max[1], 90)
	if minLon > maxLon || minLat > maxLat {
		return nil
	}

	origin := GeohashBound(geohash.EncodeWithPrecision(minLat, minLon, precision))
	lonStep := origin.Max[0] - origin.Min[0]
	latStep := origin.Max[1] - origin.Min[1]
	seen := map[string]struct{}{}
	for lat := origin.Min[1]; lat <= maxLat; lat += latStep {
		for lon := origin.Min[0]; lon <= maxLon; lon += lonStep {
			center := orb.Point{math.Min(lon+lonStep/2, 180), math.Min(lat+latStep/2, 90)}
			seen[GeohashOf(center, precision)] = struct{}{}
		}
	}
	cover := make([]string, 0, len(seen))
	for hash := range seen {
		cover = append(cover, hash)
	}
	sort.Strings(cover)
	return cover
}
