package geo

import (
	"fmt"
	"math"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
)

// Size is the width and height of a grid cell
type Size struct {
	Width  float64
	Height float64
}

// SquareGrid divides a bound into equally sized rectangular cells. Cell
// (0,0) has its lower-left corner at Bounds.Min.
type SquareGrid struct {
	Bounds   orb.Bound
	CellSize Size
}

// Validate returns an error if the grid has no area or its cells no size
func (g SquareGrid) Validate() error {
	if IsEmpty(g.Bounds) {
		return fmt.Errorf("square grid bounds are empty")
	}
	if g.CellSize.Width <= 0 || g.CellSize.Height <= 0 {
		return fmt.Errorf("invalid square grid cell size %gx%g", g.CellSize.Width, g.CellSize.Height)
	}
	return nil
}

// Dimensions returns the number of columns and rows needed to cover Bounds
func (g SquareGrid) Dimensions() (cols int64, rows int64) {
	cols = int64(math.Ceil((g.Bounds.Max[0] - g.Bounds.Min[0]) / g.CellSize.Width))
	rows = int64(math.Ceil((g.Bounds.Max[1] - g.Bounds.Min[1]) / g.CellSize.Height))
	return
}

// CellOf returns the cell containing a point
func (g SquareGrid) CellOf(p orb.Point) marmot.GridCell {
	return marmot.GridCell{
		X: int64(math.Floor((p[0] - g.Bounds.Min[0]) / g.CellSize.Width)),
		Y: int64(math.Floor((p[1] - g.Bounds.Min[1]) / g.CellSize.Height)),
	}
}

// CellBound returns the bound of a cell
func (g SquareGrid) CellBound(c marmot.GridCell) orb.Bound {
	minX := g.Bounds.Min[0] + float64(c.X)*g.CellSize.Width
	minY := g.Bounds.Min[1] + float64(c.Y)*g.CellSize.Height
	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + g.CellSize.Width, minY + g.CellSize.Height},
	}
}

// CellsCovering returns the cells of the grid which intersect b
func (g SquareGrid) CellsCovering(b orb.Bound) []marmot.GridCell {
	if !Intersects(g.Bounds, b) {
		return nil
	}
	cols, rows := g.Dimensions()
	lo := g.CellOf(b.Min)
	hi := g.CellOf(b.Max)
	var cells []marmot.GridCell
	for y := maxInt64(lo.Y, 0); y <= minInt64(hi.Y, rows-1); y++ {
		for x := maxInt64(lo.X, 0); x <= minInt64(hi.X, cols-1); x++ {
			cells = append(cells, marmot.GridCell{X: x, Y: y})
		}
	}
	return cells
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
