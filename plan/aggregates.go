package plan

import (
	"fmt"

	pb "github.com/go-marmot/marmot/internal/rpc"
)

// AggregateFunc identifies an aggregate function on the wire
type AggregateFunc int32

// Aggregate functions
const (
	AggrCount AggregateFunc = iota + 1
	AggrSum
	AggrAvg
	AggrMax
	AggrMin
	AggrStdDev
	AggrConvexHull
	AggrEnvelope
	AggrUnionGeom
	AggrConcatStr
)

var aggregateNames = map[AggregateFunc]string{
	AggrCount:      "count",
	AggrSum:        "sum",
	AggrAvg:        "avg",
	AggrMax:        "max",
	AggrMin:        "min",
	AggrStdDev:     "stddev",
	AggrConvexHull: "convex_hull",
	AggrEnvelope:   "envelope",
	AggrUnionGeom:  "union_geom",
	AggrConcatStr:  "concat_str",
}

func (f AggregateFunc) String() string {
	if name, ok := aggregateNames[f]; ok {
		return name
	}
	return fmt.Sprintf("AggregateFunc(%d)", int32(f))
}

// Aggregation is an aggregate function applied to a column. The output
// column defaults to the function name.
type Aggregation struct {
	Func      AggregateFunc
	Column    string
	Output    string
	Delimiter string
}

// As names the output column of a
func (a Aggregation) As(out string) Aggregation {
	a.Output = out
	return a
}

// Count counts records
func Count() Aggregation { return Aggregation{Func: AggrCount} }

// Sum sums a numeric column
func Sum(col string) Aggregation { return Aggregation{Func: AggrSum, Column: col} }

// Avg averages a numeric column
func Avg(col string) Aggregation { return Aggregation{Func: AggrAvg, Column: col} }

// Max is the greatest value of a column
func Max(col string) Aggregation { return Aggregation{Func: AggrMax, Column: col} }

// Min is the least value of a column
func Min(col string) Aggregation { return Aggregation{Func: AggrMin, Column: col} }

// StdDev is the standard deviation of a numeric column
func StdDev(col string) Aggregation { return Aggregation{Func: AggrStdDev, Column: col} }

// ConvexHull is the convex hull of a geometry column
func ConvexHull(col string) Aggregation { return Aggregation{Func: AggrConvexHull, Column: col} }

// Envelope is the bound of a geometry column
func Envelope(col string) Aggregation { return Aggregation{Func: AggrEnvelope, Column: col} }

// UnionGeom is the union of a geometry column
func UnionGeom(col string) Aggregation { return Aggregation{Func: AggrUnionGeom, Column: col} }

// ConcatStr joins the values of a string column with delim
func ConcatStr(col string, delim string) Aggregation {
	return Aggregation{Func: AggrConcatStr, Column: col, Delimiter: delim}
}

func (a Aggregation) toProto() (*pb.AggregateProto, error) {
	if _, ok := aggregateNames[a.Func]; !ok {
		return nil, fmt.Errorf("unknown aggregate function %d", a.Func)
	}
	if a.Func != AggrCount && a.Column == "" {
		return nil, fmt.Errorf("%s needs a column", a.Func)
	}
	out := a.Output
	if out == "" {
		out = a.Func.String()
	}
	return &pb.AggregateProto{Func: int32(a.Func), Column: a.Column, Output: out, Delimiter: a.Delimiter}, nil
}

func aggregatesToProto(aggrs []Aggregation) ([]*pb.AggregateProto, error) {
	if len(aggrs) == 0 {
		return nil, fmt.Errorf("no aggregate")
	}
	res := make([]*pb.AggregateProto, len(aggrs))
	outputs := make(map[string]bool, len(aggrs))
	for i, aggr := range aggrs {
		m, err := aggr.toProto()
		if err != nil {
			return nil, err
		}
		if outputs[m.Output] {
			return nil, fmt.Errorf("duplicate aggregate output %q", m.Output)
		}
		outputs[m.Output] = true
		res[i] = m
	}
	return res, nil
}

func describeAggregate(m *pb.AggregateProto) string {
	name := AggregateFunc(m.Func).String()
	if m.Column == "" {
		return name + "=>" + m.Output
	}
	return fmt.Sprintf("%s(%s)=>%s", name, m.Column, m.Output)
}

// Group describes how records are grouped
type Group struct {
	Keys        []string
	Tags        []string
	OrderKeys   []SortKey
	WorkerCount int32
}

// GroupBy groups records by the values of the key columns
func GroupBy(keys ...string) Group {
	return Group{Keys: keys}
}

// WithTags copies columns which are functionally dependent on the keys into
// each group's output
func (g Group) WithTags(tags ...string) Group {
	g.Tags = tags
	return g
}

// OrderBy orders the records within each group
func (g Group) OrderBy(keys ...SortKey) Group {
	g.OrderKeys = keys
	return g
}

// Workers sets the number of reducers
func (g Group) Workers(n int32) Group {
	g.WorkerCount = n
	return g
}

func (g Group) fill(m *pb.OperatorProto) (err error) {
	if len(g.Keys) == 0 {
		return fmt.Errorf("no group key")
	}
	if g.WorkerCount < 0 {
		return fmt.Errorf("negative worker count %d", g.WorkerCount)
	}
	m.Columns = g.Keys
	m.TagColumns = g.Tags
	if len(g.OrderKeys) > 0 {
		if m.SortKeys, err = sortKeysToProto(g.OrderKeys); err != nil {
			return err
		}
	}
	if g.WorkerCount > 0 {
		m.Join = &pb.JoinOptionsProto{WorkerCount: g.WorkerCount}
	}
	return nil
}

// Aggregate reduces all records to a single record of aggregates
func Aggregate(aggrs ...Aggregation) Operator {
	return newOperator(OpAggregate, func(m *pb.OperatorProto) (err error) {
		m.Aggregates, err = aggregatesToProto(aggrs)
		return err
	})
}

// AggregateByGroup produces one record of aggregates per group
func AggregateByGroup(group Group, aggrs ...Aggregation) Operator {
	return newOperator(OpAggregateByGroup, func(m *pb.OperatorProto) (err error) {
		if err = group.fill(m); err != nil {
			return err
		}
		m.Aggregates, err = aggregatesToProto(aggrs)
		return err
	})
}

// TakeByGroup keeps the first n records of each group
func TakeByGroup(group Group, n int64) Operator {
	return newOperator(OpTakeByGroup, func(m *pb.OperatorProto) error {
		if n < 0 {
			return fmt.Errorf("negative count %d", n)
		}
		m.Count = n
		return group.fill(m)
	})
}

// ListByGroup emits the records of each group together
func ListByGroup(group Group) Operator {
	return newOperator(OpListByGroup, group.fill)
}

// ReduceToSingleRecordByGroup pivots each group into a single record with
// one column per distinct value of tagCol, holding valCol
func ReduceToSingleRecordByGroup(group Group, tagCol string, valCol string) Operator {
	return newOperator(OpReduceToSingleRecordByGroup, func(m *pb.OperatorProto) error {
		if tagCol == "" || valCol == "" {
			return fmt.Errorf("missing tag or value column")
		}
		m.ParamColumns = []string{tagCol, valCol}
		return group.fill(m)
	})
}

// RunPlanByGroup runs a loader-less plan over the records of each group
func RunPlanByGroup(group Group, ops ...Operator) Operator {
	return newOperator(OpRunPlanByGroup, func(m *pb.OperatorProto) error {
		if err := group.fill(m); err != nil {
			return err
		}
		if len(ops) == 0 {
			return fmt.Errorf("empty group plan")
		}
		sub, err := newFragmentBuilder("group_plan").Add(ops...).Build()
		if err != nil {
			return err
		}
		for _, kind := range sub.Kinds() {
			if kind.IsStore() {
				return fmt.Errorf("group plan cannot store: %s", kind)
			}
		}
		m.SubPlan = sub.ToProto()
		return nil
	})
}
