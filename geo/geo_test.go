package geo

import (
	"testing"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeHelpers(t *testing.T) {
	a := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}}
	b := orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{4, 4}}
	require.False(t, Intersects(a, b))
	require.True(t, Intersects(ExpandBy(a, 1), b))
	require.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}, Union(a, b))
	require.Equal(t, a, Union(EmptyBound, a))
	require.False(t, Intersects(EmptyBound, a))
	require.True(t, IsEmpty(ExpandBy(EmptyBound, 10)))
	require.Equal(t, orb.Bound{Min: orb.Point{-1, 0}, Max: orb.Point{2, 5}},
		BoundOf(orb.Point{-1, 5}, nil, orb.LineString{{0, 0}, {2, 1}}))
}

func TestGeohash(t *testing.T) {
	seoul := orb.Point{126.978, 37.5665}
	hash := GeohashOf(seoul, 6)
	require.Len(t, hash, 6)
	require.True(t, GeohashBound(hash).Contains(seoul))
	require.Len(t, GeohashOf(seoul, 40), MaxGeohashPrecision)

	// a point-sized bound is covered by exactly its own cell
	require.Equal(t, []string{hash}, GeohashCover(orb.Bound{Min: seoul, Max: seoul}, 6))

	area := orb.Bound{Min: orb.Point{126.9, 37.5}, Max: orb.Point{127.1, 37.6}}
	cover := GeohashCover(area, 5)
	require.Greater(t, len(cover), 1)
	for _, h := range cover {
		require.Len(t, h, 5)
		require.True(t, GeohashBound(h).Intersects(area), h)
	}
	for _, corner := range []orb.Point{area.Min, area.Max, area.LeftTop(), area.RightBottom(), area.Center()} {
		require.Contains(t, cover, GeohashOf(corner, 5))
	}
	require.Nil(t, GeohashCover(EmptyBound, 5))
}

func TestTiles(t *testing.T) {
	p := orb.Point{126.978, 37.5665}
	tile := TileOf(p, 10)
	require.EqualValues(t, 10, tile.Zoom)
	require.True(t, TileBound(tile).Contains(p))

	key := QuadKey(tile)
	require.Len(t, key, 10)
	parsed, ok := ParseQuadKey(key)
	require.True(t, ok)
	require.Equal(t, tile, parsed)
	require.Equal(t, "", QuadKey(marmot.MapTile{}))
	require.Equal(t, "3", QuadKey(marmot.MapTile{Zoom: 1, X: 1, Y: 1}))
	_, ok = ParseQuadKey("0142")
	require.False(t, ok)

	tiles := TilesCovering(TileBound(tile).Pad(-1e-9), 11)
	require.Len(t, tiles, 4)
	for _, child := range tiles {
		require.Equal(t, key, QuadKey(child)[:10])
	}
}

func TestSquareGrid(t *testing.T) {
	grid := SquareGrid{
		Bounds:   orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 50}},
		CellSize: Size{Width: 10, Height: 10},
	}
	require.Nil(t, grid.Validate())
	require.NotNil(t, SquareGrid{Bounds: grid.Bounds}.Validate())
	cols, rows := grid.Dimensions()
	require.EqualValues(t, 10, cols)
	require.EqualValues(t, 5, rows)

	cell := grid.CellOf(orb.Point{35, 12})
	require.Equal(t, marmot.GridCell{X: 3, Y: 1}, cell)
	require.Equal(t, orb.Bound{Min: orb.Point{30, 10}, Max: orb.Point{40, 20}}, grid.CellBound(cell))
	require.Equal(t, marmot.GridCell{X: -1, Y: 0}, grid.CellOf(orb.Point{-5, 0}))

	cells := grid.CellsCovering(orb.Bound{Min: orb.Point{-20, 5}, Max: orb.Point{15, 15}})
	require.Equal(t, []marmot.GridCell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, cells)
	require.Nil(t, grid.CellsCovering(orb.Bound{Min: orb.Point{200, 200}, Max: orb.Point{300, 300}}))
}
