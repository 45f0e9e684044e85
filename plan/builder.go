package plan

import (
	"fmt"

	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
)

// Operator produces the wire form of a single plan step. Operators are
// created by the constructors in this package and applied with Builder.Add.
type Operator func(b *Builder) (*pb.OperatorProto, error)

// Builder accumulates Operators into a Plan. The first error encountered is
// kept, and reported by Build.
type Builder struct {
	name      string
	fragment  bool
	operators []*pb.OperatorProto
	stored    bool
	err       error
}

// NewBuilder returns a Builder for a named Plan
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// newFragmentBuilder returns a Builder for a plan that runs on the records of
// an enclosing operator, and so does not start with a loader
func newFragmentBuilder(name string) *Builder {
	return &Builder{name: name, fragment: true}
}

// Add appends operators to the Plan, in order
func (b *Builder) Add(ops ...Operator) *Builder {
	for _, op := range ops {
		if b.err != nil {
			return b
		}
		m, err := op(b)
		if err != nil {
			b.err = err
			return b
		}
		b.err = b.append(m)
	}
	return b
}

func (b *Builder) append(m *pb.OperatorProto) error {
	kind := OpKind(m.Kind)
	if !kind.Known() {
		return invalidPlan("unknown operator kind %d", m.Kind)
	}
	if b.stored {
		return invalidPlan("%s follows a store operator", kind)
	}
	if len(b.operators) == 0 && !b.fragment && !kind.IsLoader() {
		return invalidPlan("plan must start with a loader, not %s", kind)
	}
	if b.fragment && kind.IsLoader() {
		return invalidPlan("loader %s cannot appear in a plan fragment", kind)
	}
	if len(b.operators) > 0 && kind.IsLoader() {
		return invalidPlan("loader %s must be the first operator", kind)
	}
	if kind.IsStore() {
		b.stored = true
	}
	b.operators = append(b.operators, m)
	return nil
}

// Err returns the first error encountered while adding operators
func (b *Builder) Err() error {
	return b.err
}

// Build produces the Plan
func (b *Builder) Build() (*Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.operators) == 0 && !b.fragment {
		return nil, invalidPlan("plan %q has no loader", b.name)
	}
	ops := make([]*pb.OperatorProto, len(b.operators))
	copy(ops, b.operators)
	return &Plan{proto: &pb.PlanProto{Name: b.name, Operators: ops}}, nil
}

// Build is shorthand for NewBuilder(name).Add(ops...).Build()
func Build(name string, ops ...Operator) (*Plan, error) {
	return NewBuilder(name).Add(ops...).Build()
}

func invalidPlan(format string, args ...interface{}) error {
	return errors.InvalidPlanError{Reason: fmt.Sprintf(format, args...)}
}

// newOperator returns an Operator of the given kind whose parameters are
// filled in by fill. Errors returned by fill are reported as InvalidPlanErrors.
func newOperator(kind OpKind, fill func(m *pb.OperatorProto) error) Operator {
	return func(b *Builder) (*pb.OperatorProto, error) {
		m := &pb.OperatorProto{Kind: int32(kind)}
		if fill != nil {
			if err := fill(m); err != nil {
				return nil, invalidPlan("%s: %s", kind, err)
			}
		}
		return m, nil
	}
}
