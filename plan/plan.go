// Package plan provides the DSL used to describe Marmot jobs. A Plan is a
// named sequence of operators which starts with a loader and optionally ends
// with a store; it is shipped to the server as a PlanProto.
//
//	p, err := plan.Build("buildings_in_seoul",
//		plan.Load("buildings"),
//		plan.FilterSpatially("the_geom", plan.Intersects(), seoul),
//		plan.Project("the_geom,name"),
//		plan.Store("tmp/seoul_buildings", plan.StoreOptions{Force: true}),
//	)
package plan

import (
	"fmt"
	"strings"

	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/golang/protobuf/proto"
)

// Plan is an immutable, validated sequence of operators
type Plan struct {
	proto *pb.PlanProto
}

// FromProto wraps a wire Plan, checking the same structural rules as Builder
func FromProto(m *pb.PlanProto) (*Plan, error) {
	if m == nil {
		return nil, invalidPlan("missing plan")
	}
	b := NewBuilder(m.Name)
	for _, op := range m.GetOperators() {
		if op == nil {
			return nil, invalidPlan("plan %q contains an empty operator", m.Name)
		}
		if err := b.append(op); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Unmarshal decodes a Plan from its protobuf encoding
func Unmarshal(data []byte) (*Plan, error) {
	m := &pb.PlanProto{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return FromProto(m)
}

// Marshal encodes this Plan with protobuf
func (p *Plan) Marshal() ([]byte, error) {
	return proto.Marshal(p.proto)
}

// ToProto returns the wire form of this Plan. It must not be modified.
func (p *Plan) ToProto() *pb.PlanProto {
	return p.proto
}

// Name returns the name of this Plan
func (p *Plan) Name() string {
	return p.proto.Name
}

// Len returns the number of operators in this Plan
func (p *Plan) Len() int {
	return len(p.proto.Operators)
}

// Operators returns the wire form of each operator, in order
func (p *Plan) Operators() []*pb.OperatorProto {
	return p.proto.Operators
}

// Kinds returns the kind of each operator, in order
func (p *Plan) Kinds() []OpKind {
	kinds := make([]OpKind, len(p.proto.Operators))
	for i, op := range p.proto.Operators {
		kinds[i] = OpKind(op.Kind)
	}
	return kinds
}

// IsStreamable returns true iff no operator of this Plan needs to see its
// whole input first, so records can be produced while still being loaded
func (p *Plan) IsStreamable() bool {
	for _, kind := range p.Kinds() {
		if kind.IsBlocking() {
			return false
		}
	}
	return true
}

// OutputDataSet returns the id of the dataset this Plan stores into, if any
func (p *Plan) OutputDataSet() (string, bool) {
	ops := p.proto.Operators
	if len(ops) == 0 {
		return "", false
	}
	last := ops[len(ops)-1]
	switch OpKind(last.Kind) {
	case OpStore, OpStoreAndReturnCount:
		return last.Dataset, true
	}
	return "", false
}

// String returns a one-line summary of this Plan
func (p *Plan) String() string {
	names := make([]string, p.Len())
	for i, kind := range p.Kinds() {
		names[i] = kind.String()
	}
	return fmt.Sprintf("%s: %s", p.Name(), strings.Join(names, " -> "))
}

// Describe renders a Plan one operator per line, e.g. "filter[a > 3]"
func Describe(p *Plan) string {
	lines := make([]string, p.Len())
	for i, op := range p.Operators() {
		lines[i] = describeOperator(op)
	}
	return strings.Join(lines, "\n")
}

func describeOperator(m *pb.OperatorProto) string {
	var args []string
	add := func(s string) {
		if s != "" {
			args = append(args, s)
		}
	}
	add(m.Dataset)
	add(strings.Join(m.Datasets, ","))
	add(m.GeomColumn)
	add(strings.Join(m.Columns, ","))
	if m.Relation != "" {
		add(m.Relation)
	}
	add(m.Expr)
	if m.Range != nil {
		add(fmt.Sprintf("(%g,%g)-(%g,%g)", m.Range.MinX, m.Range.MinY, m.Range.MaxX, m.Range.MaxY))
	}
	if m.FromSrid != "" || m.ToSrid != "" {
		add(m.FromSrid + "->" + m.ToSrid)
	}
	add(m.ParamDataset)
	add(strings.Join(m.ParamColumns, ","))
	for _, key := range m.SortKeys {
		order := "A"
		if key.Descending {
			order = "D"
		}
		add(key.Column + ":" + order)
	}
	for _, aggr := range m.Aggregates {
		add(describeAggregate(aggr))
	}
	if m.Count != 0 {
		add(fmt.Sprintf("%d", m.Count))
	}
	if m.Ratio != 0 {
		add(fmt.Sprintf("%g", m.Ratio))
	}
	if m.Distance != 0 {
		add(fmt.Sprintf("%g", m.Distance))
	}
	if m.Store != nil && m.Store.Target != "" {
		add(m.Store.Target)
	}
	if m.OutColumn != "" {
		add("=>" + m.OutColumn)
	}
	return fmt.Sprintf("%s[%s]", OpKind(m.Kind), strings.Join(args, ", "))
}
