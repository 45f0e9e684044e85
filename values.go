package marmot

import (
	"fmt"
	"time"
)

// MapTile is an XYZ (slippy map) tile
type MapTile struct {
	Zoom int32
	X    int32
	Y    int32
}

// String returns the "zoom/x/y" form of a MapTile
func (t MapTile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// GridCell is the position of a cell within a square grid
type GridCell struct {
	X int64
	Y int64
}

// String returns the "(x,y)" form of a GridCell
func (c GridCell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains returns true iff t lies within the Interval
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// String returns the "[start,end)" form of an Interval
func (i Interval) String() string {
	return fmt.Sprintf("[%s,%s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
