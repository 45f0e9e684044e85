package geo

import (
	"strings"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

func toMapTile(t marmot.MapTile) maptile.Tile {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Zoom))
}

func fromMapTile(t maptile.Tile) marmot.MapTile {
	return marmot.MapTile{Zoom: int32(t.Z), X: int32(t.X), Y: int32(t.Y)}
}

// TileOf returns the web-mercator tile containing a lon/lat point
func TileOf(p orb.Point, zoom int32) marmot.MapTile {
	return fromMapTile(maptile.At(p, maptile.Zoom(zoom)))
}

// TileBound returns the lon/lat bound of a tile
func TileBound(t marmot.MapTile) orb.Bound {
	return toMapTile(t).Bound()
}

// TilesCovering returns every tile at zoom which intersects a lon/lat bound,
// row by row from the north-west corner
func TilesCovering(b orb.Bound, zoom int32) []marmot.MapTile {
	if IsEmpty(b) {
		return nil
	}
	nw := maptile.At(b.LeftTop(), maptile.Zoom(zoom))
	se := maptile.At(b.RightBottom(), maptile.Zoom(zoom))
	var tiles []marmot.MapTile
	for y := nw.Y; y <= se.Y; y++ {
		for x := nw.X; x <= se.X; x++ {
			tiles = append(tiles, fromMapTile(maptile.New(x, y, maptile.Zoom(zoom))))
		}
	}
	return tiles
}

// QuadKey returns the quad key of a tile, one digit per zoom level
func QuadKey(t marmot.MapTile) string {
	key := toMapTile(t).Quadkey()
	var sb strings.Builder
	for i := int(t.Zoom) - 1; i >= 0; i-- {
		sb.WriteByte(byte('0' + (key>>(2*uint(i)))&3))
	}
	return sb.String()
}

// ParseQuadKey returns the tile of a quad key produced by QuadKey
func ParseQuadKey(key string) (marmot.MapTile, bool) {
	var k uint64
	for _, c := range key {
		if c < '0' || c > '3' {
			return marmot.MapTile{}, false
		}
		k = k<<2 | uint64(c-'0')
	}
	return fromMapTile(maptile.FromQuadkey(k, maptile.Zoom(len(key)))), true
}
