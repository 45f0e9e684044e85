package plan

import (
	"fmt"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/geo"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
)

type geomOptions struct {
	output       string
	throwOnError bool
}

// GeomOption configures a geometry transform
type GeomOption func(o *geomOptions)

// Output writes the result into col instead of replacing the input column
func Output(col string) GeomOption {
	return func(o *geomOptions) {
		o.output = col
	}
}

// ThrowOnError fails the plan on a geometry error rather than producing null
func ThrowOnError() GeomOption {
	return func(o *geomOptions) {
		o.throwOnError = true
	}
}

// geomOperator returns an operator over a single geometry column
func geomOperator(kind OpKind, col string, opts []GeomOption, fill func(m *pb.OperatorProto) error) Operator {
	return newOperator(kind, func(m *pb.OperatorProto) error {
		if col == "" {
			return fmt.Errorf("missing geometry column")
		}
		conf := geomOptions{}
		for _, opt := range opts {
			opt(&conf)
		}
		m.GeomColumn = col
		m.OutColumn = conf.output
		if conf.throwOnError {
			m.Options = append(m.Options, &pb.KeyValueProto{Key: "throw_on_error", Value: "true"})
		}
		if fill != nil {
			return fill(m)
		}
		return nil
	})
}

// Buffer replaces a geometry by the area within dist of it
func Buffer(col string, dist float64, opts ...GeomOption) Operator {
	return geomOperator(OpBuffer, col, opts, func(m *pb.OperatorProto) error {
		if dist < 0 {
			return fmt.Errorf("negative buffer distance %g", dist)
		}
		m.Distance = dist
		return nil
	})
}

// Centroid replaces a geometry by its centroid
func Centroid(col string, opts ...GeomOption) Operator {
	return geomOperator(OpCentroid, col, opts, nil)
}

// PointOnSurface replaces a geometry by a point guaranteed to lie on it
func PointOnSurface(col string, opts ...GeomOption) Operator {
	return geomOperator(OpPointOnSurface, col, opts, nil)
}

// TransformCrs reprojects a geometry, e.g. from "EPSG:4326" to "EPSG:5186"
func TransformCrs(col string, fromSrid string, toSrid string, opts ...GeomOption) Operator {
	return geomOperator(OpTransformCrs, col, opts, func(m *pb.OperatorProto) error {
		if fromSrid == "" || toSrid == "" {
			return fmt.Errorf("missing srid")
		}
		m.FromSrid = fromSrid
		m.ToSrid = toSrid
		return nil
	})
}

// ToXY splits a point column into x and y columns
func ToXY(col string, xCol string, yCol string) Operator {
	return geomOperator(OpToXY, col, nil, func(m *pb.OperatorProto) error {
		if xCol == "" || yCol == "" {
			return fmt.Errorf("missing x or y column")
		}
		m.Columns = []string{xCol, yCol}
		return nil
	})
}

// ToPoint builds a point column from x and y columns
func ToPoint(xCol string, yCol string, out string) Operator {
	return newOperator(OpToPoint, func(m *pb.OperatorProto) error {
		if xCol == "" || yCol == "" || out == "" {
			return fmt.Errorf("missing x, y or output column")
		}
		m.Columns = []string{xCol, yCol}
		m.OutColumn = out
		return nil
	})
}

func binaryGeomOperator(kind OpKind, left string, right string, out string) Operator {
	return newOperator(kind, func(m *pb.OperatorProto) error {
		if left == "" || right == "" || out == "" {
			return fmt.Errorf("missing left, right or output column")
		}
		m.Columns = []string{left, right}
		m.OutColumn = out
		return nil
	})
}

// Intersection computes the intersection of two geometry columns
func Intersection(left string, right string, out string) Operator {
	return binaryGeomOperator(OpIntersection, left, right, out)
}

// Difference computes left minus right
func Difference(left string, right string, out string) Operator {
	return binaryGeomOperator(OpDifference, left, right, out)
}

// Union computes the union of two geometry columns
func Union(left string, right string, out string) Operator {
	return binaryGeomOperator(OpUnion, left, right, out)
}

// Reduce snaps coordinates to a grid of the given tolerance
func Reduce(col string, tolerance float64, opts ...GeomOption) Operator {
	return geomOperator(OpReduce, col, opts, func(m *pb.OperatorProto) error {
		if tolerance <= 0 {
			return fmt.Errorf("tolerance must be positive, got %g", tolerance)
		}
		m.Distance = tolerance
		return nil
	})
}

// ValidateGeometry repairs invalid geometries
func ValidateGeometry(col string, opts ...GeomOption) Operator {
	return geomOperator(OpValidateGeometry, col, opts, nil)
}

// CastGeometry converts a geometry column to another geometry type
func CastGeometry(col string, to marmot.DataType, opts ...GeomOption) Operator {
	return geomOperator(OpCastGeometry, col, opts, func(m *pb.OperatorProto) error {
		if to == nil || !to.IsGeometry() {
			return fmt.Errorf("cannot cast a geometry to %v", to)
		}
		m.TypeCode = int32(to.Code())
		return nil
	})
}

// AttachGeohash adds the geohash of each geometry's centroid
func AttachGeohash(col string, out string, precision uint) Operator {
	return newOperator(OpAttachGeohash, func(m *pb.OperatorProto) error {
		if col == "" || out == "" {
			return fmt.Errorf("missing geometry or output column")
		}
		if precision == 0 || precision > geo.MaxGeohashPrecision {
			return fmt.Errorf("geohash precision must be in [1, %d], got %d", geo.MaxGeohashPrecision, precision)
		}
		m.GeomColumn = col
		m.OutColumn = out
		m.Count = int64(precision)
		return nil
	})
}

// AttachQuadKey adds the quad-key, among quadKeys, of the tile each geometry
// falls into
func AttachQuadKey(col string, quadKeys []string, out string) Operator {
	return newOperator(OpAttachQuadKey, func(m *pb.OperatorProto) error {
		if col == "" || out == "" {
			return fmt.Errorf("missing geometry or output column")
		}
		if err := validateQuadKeys(quadKeys); err != nil {
			return err
		}
		m.GeomColumn = col
		m.OutColumn = out
		m.QuadKeys = quadKeys
		return nil
	})
}

func validateQuadKeys(keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("no quad-key")
	}
	for _, key := range keys {
		if _, ok := geo.ParseQuadKey(key); !ok || key == "" {
			return fmt.Errorf("invalid quad-key %q", key)
		}
	}
	return nil
}

// AssignSquareGridCell adds the grid cell, its id and its polygon for each
// geometry
func AssignSquareGridCell(col string, grid geo.SquareGrid) Operator {
	return newOperator(OpAssignSquareGridCell, func(m *pb.OperatorProto) error {
		if col == "" {
			return fmt.Errorf("missing geometry column")
		}
		if err := grid.Validate(); err != nil {
			return err
		}
		m.GeomColumn = col
		m.Grid = &pb.GridProto{
			Bounds:     pbconv.EnvelopeToProto(grid.Bounds),
			CellWidth:  grid.CellSize.Width,
			CellHeight: grid.CellSize.Height,
		}
		return nil
	})
}

// AssignHexagonGridCell is AssignSquareGridCell over hexagons of sideLength
func AssignHexagonGridCell(col string, bound orb.Bound, sideLength float64) Operator {
	return newOperator(OpAssignHexagonGridCell, func(m *pb.OperatorProto) error {
		if col == "" {
			return fmt.Errorf("missing geometry column")
		}
		grid := HexagonGrid{Bounds: bound, SideLength: sideLength}
		if err := grid.validate(); err != nil {
			return err
		}
		m.GeomColumn = col
		m.Grid = grid.toProto()
		return nil
	})
}

// BreakLineString splits line strings into their segments, one per record
func BreakLineString(col string) Operator {
	return geomOperator(OpBreakLineString, col, nil, nil)
}

// Flatten splits multi-geometries into their parts, one per record
func Flatten(col string) Operator {
	return geomOperator(OpFlatten, col, nil, nil)
}

// SplitGeometry splits a geometry into its components, keeping them in one
// collection
func SplitGeometry(col string, opts ...GeomOption) Operator {
	return geomOperator(OpSplitGeometry, col, opts, nil)
}

// ArcClip clips a geometry column by a single clipping geometry, given as WKT
// or GeoJSON
func ArcClip(col string, clipper string) Operator {
	return geomOperator(OpArcClip, col, nil, func(m *pb.OperatorProto) error {
		if clipper == "" {
			return fmt.Errorf("missing clipping geometry")
		}
		m.Expr = clipper
		return nil
	})
}
