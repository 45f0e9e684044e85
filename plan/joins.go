package plan

import (
	"fmt"

	pb "github.com/go-marmot/marmot/internal/rpc"
)

// JoinType selects which unmatched records a join keeps
type JoinType int32

// Join types
const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	SemiJoin
)

// JoinOptions configures joins. OutputColumns selects the output, e.g.
// "left.*,right.{name,area}"; empty keeps every column of both sides.
type JoinOptions struct {
	Type          JoinType
	OutputColumns string
	WorkerCount   int32
	Relation      SpatialRelation
}

func (o JoinOptions) toProto(spatial bool) (*pb.JoinOptionsProto, error) {
	if o.Type < InnerJoin || o.Type > SemiJoin {
		return nil, fmt.Errorf("unknown join type %d", o.Type)
	}
	if o.WorkerCount < 0 {
		return nil, fmt.Errorf("negative worker count %d", o.WorkerCount)
	}
	m := &pb.JoinOptionsProto{Type: int32(o.Type), OutputColumns: o.OutputColumns, WorkerCount: o.WorkerCount}
	if spatial {
		rel := o.Relation
		if rel == (SpatialRelation{}) {
			rel = Intersects()
		}
		if err := rel.validate(); err != nil {
			return nil, err
		}
		m.Relation = rel.String()
	}
	return m, nil
}

// HashJoin joins records with the records of dataset param on equal keys
func HashJoin(cols []string, param string, paramCols []string, opts JoinOptions) Operator {
	return newOperator(OpHashJoin, func(m *pb.OperatorProto) (err error) {
		if len(cols) == 0 {
			return fmt.Errorf("no join column")
		}
		if len(cols) != len(paramCols) {
			return fmt.Errorf("%d join columns but %d parameter columns", len(cols), len(paramCols))
		}
		if param == "" {
			return fmt.Errorf("missing parameter dataset")
		}
		m.Columns = cols
		m.ParamDataset = param
		m.ParamColumns = paramCols
		m.Join, err = opts.toProto(false)
		return err
	})
}

func spatialJoin(kind OpKind, col string, param string, opts JoinOptions, fill func(m *pb.OperatorProto) error) Operator {
	return newOperator(kind, func(m *pb.OperatorProto) (err error) {
		if col == "" {
			return fmt.Errorf("missing geometry column")
		}
		if param == "" {
			return fmt.Errorf("missing parameter dataset")
		}
		m.GeomColumn = col
		m.ParamDataset = param
		if m.Join, err = opts.toProto(true); err != nil {
			return err
		}
		if fill != nil {
			return fill(m)
		}
		return nil
	})
}

// SpatialJoin pairs each record with the records of the spatially indexed
// dataset param whose geometry satisfies the join relation
func SpatialJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpSpatialJoin, col, param, opts, nil)
}

// SpatialSemiJoin keeps the records with at least one match in param
func SpatialSemiJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpSpatialSemiJoin, col, param, opts, nil)
}

// SpatialAntiJoin keeps the records without a match in param
func SpatialAntiJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpSpatialAntiJoin, col, param, opts, nil)
}

// SpatialOuterJoin is SpatialJoin keeping unmatched records with null
// parameter columns
func SpatialOuterJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpSpatialOuterJoin, col, param, opts, nil)
}

// SpatialAggregateJoin aggregates the matching parameter records of each
// record
func SpatialAggregateJoin(col string, param string, opts JoinOptions, aggrs ...Aggregation) Operator {
	return spatialJoin(OpSpatialAggregateJoin, col, param, opts, func(m *pb.OperatorProto) (err error) {
		m.Aggregates, err = aggregatesToProto(aggrs)
		return err
	})
}

// SpatialKnnJoin pairs each record with its k nearest parameter records
// within radius
func SpatialKnnJoin(col string, param string, k int32, radius float64, opts JoinOptions) Operator {
	return spatialJoin(OpSpatialKnnJoin, col, param, opts, func(m *pb.OperatorProto) error {
		if k <= 0 {
			return fmt.Errorf("k must be positive, got %d", k)
		}
		if radius <= 0 {
			return fmt.Errorf("radius must be positive, got %g", radius)
		}
		m.Join.K = k
		m.Join.Radius = radius
		return nil
	})
}

// IntersectionJoin replaces each geometry by its intersections with the
// matching parameter geometries
func IntersectionJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpIntersectionJoin, col, param, opts, nil)
}

// DifferenceJoin subtracts the matching parameter geometries from each
// geometry
func DifferenceJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpDifferenceJoin, col, param, opts, nil)
}

// ClipJoin clips each geometry by the union of the matching parameter
// geometries
func ClipJoin(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpClipJoin, col, param, opts, nil)
}

// ArcUnionPhase1 is the first phase of a distributed union of a geometry
// column with param
func ArcUnionPhase1(col string, param string, opts JoinOptions) Operator {
	return spatialJoin(OpArcUnionPhase1, col, param, opts, nil)
}
