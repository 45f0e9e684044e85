package memserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// frame is the materialized output of a plan prefix
type frame struct {
	schema  *marmot.RecordSchema
	records []*marmot.Record
}

// step evaluates one operator. When records is false only the output
// schema is computed.
type step func(ctx context.Context, in *frame, records bool) (*frame, error)

// executor evaluates the small operator subset a test server needs
type executor struct {
	catalog *catalog
	logger  *zap.Logger
}

// run evaluates p. If input is non-nil it replaces the output of p's loader.
func (e *executor) run(ctx context.Context, p *plan.Plan, input *frame, records bool) (*frame, error) {
	var out *frame
	stats := newRunStats(p.Len())
	for i, op := range p.Operators() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 && input != nil {
			out = input
			continue
		}
		s, err := e.compile(op)
		if err != nil {
			return nil, err
		}
		stats.startOperator()
		if out, err = safeStep(plan.OpKind(op.Kind), s)(ctx, out, records); err != nil {
			return nil, err
		}
		stats.endOperator(plan.OpKind(op.Kind), out)
	}
	if records && e.logger != nil {
		e.logger.Debug("Evaluated plan", append(stats.fields(), zap.String("plan", p.Name()))...)
	}
	return out, nil
}

func unsupported(kind plan.OpKind) error {
	return status.Errorf(codes.Unimplemented, "operator %s is not supported by this server", kind)
}

func (e *executor) compile(op *pb.OperatorProto) (step, error) {
	kind := plan.OpKind(op.Kind)
	switch kind {
	case plan.OpLoad:
		return e.load(op.Datasets), nil
	case plan.OpProject:
		sel, err := plan.ParseColumnSelection(op.Expr)
		if err != nil {
			return nil, errors.InvalidPlanError{Reason: err.Error()}
		}
		return project(sel), nil
	case plan.OpFilter:
		col, literal, err := parseEquality(op.Expr)
		if err != nil {
			return nil, err
		}
		return filterEquals(col, literal), nil
	case plan.OpTake:
		return slice(0, op.Count), nil
	case plan.OpDrop:
		return slice(op.Count, -1), nil
	case plan.OpAssignUID:
		return assignUID(op.OutColumn), nil
	case plan.OpRename:
		if len(op.Columns) != 1 {
			return nil, errors.InvalidPlanError{Reason: "rename needs exactly one source column"}
		}
		return rename(op.Columns[0], op.OutColumn), nil
	case plan.OpNop:
		return func(_ context.Context, in *frame, _ bool) (*frame, error) { return in, nil }, nil
	case plan.OpStore:
		return e.store(op, false), nil
	case plan.OpStoreAndReturnCount:
		return e.store(op, true), nil
	}
	return nil, unsupported(kind)
}

func (e *executor) load(ids []string) step {
	return func(_ context.Context, _ *frame, records bool) (*frame, error) {
		out := &frame{}
		for _, id := range ids {
			info, recs, err := e.catalog.lookup(id)
			if err != nil {
				return nil, err
			}
			if out.schema == nil {
				out.schema = info.Schema
			} else if err := out.schema.Equals(info.Schema); err != nil {
				return nil, errors.InvalidPlanError{Reason: fmt.Sprintf("dataset %s: %s", id, err)}
			}
			if records {
				out.records = append(out.records, recs...)
			}
		}
		return out, nil
	}
}

// mapRecords builds the output frame of a record-wise transform
func mapRecords(in *frame, schema *marmot.RecordSchema, records bool, fn func(i int, rec *marmot.Record) ([]interface{}, error)) (*frame, error) {
	out := &frame{schema: schema}
	if !records {
		return out, nil
	}
	out.records = make([]*marmot.Record, 0, len(in.records))
	for i, rec := range in.records {
		values, err := fn(i, rec)
		if err != nil {
			return nil, err
		}
		res, err := marmot.NewRecordWithValues(schema, values...)
		if err != nil {
			return nil, err
		}
		out.records = append(out.records, res)
	}
	return out, nil
}

func project(sel plan.ColumnSelection) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		schema, err := sel.Apply(in.schema)
		if err != nil {
			return nil, err
		}
		ordinals := make([]int, schema.ColumnCount())
		for i, col := range schema.Columns() {
			src, _ := in.schema.GetColumn(col.Name)
			ordinals[i] = src.Ordinal
		}
		return mapRecords(in, schema, records, func(_ int, rec *marmot.Record) ([]interface{}, error) {
			values := make([]interface{}, len(ordinals))
			for i, ord := range ordinals {
				values[i] = rec.Get(ord)
			}
			return values, nil
		})
	}
}

// parseEquality parses "col = literal". String literals may be quoted.
func parseEquality(expr string) (col string, literal string, err error) {
	op := "=="
	idx := strings.Index(expr, op)
	if idx < 0 {
		op = "="
		idx = strings.Index(expr, op)
	}
	if idx <= 0 {
		return "", "", unsupportedExpr(expr)
	}
	col = strings.TrimSpace(expr[:idx])
	literal = strings.TrimSpace(expr[idx+len(op):])
	if strings.ContainsAny(col, " <>!()") || len(literal) == 0 {
		return "", "", unsupportedExpr(expr)
	}
	if n := len(literal); n >= 2 && (literal[0] == '\'' || literal[0] == '"') && literal[n-1] == literal[0] {
		literal = literal[1 : n-1]
	}
	return col, literal, nil
}

func unsupportedExpr(expr string) error {
	return status.Errorf(codes.Unimplemented, "filter expression %q is not supported by this server", expr)
}

func filterEquals(colName string, literal string) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		col, ok := in.schema.GetColumn(colName)
		if !ok {
			return nil, errors.ColumnNotFoundError{Name: colName}
		}
		out := &frame{schema: in.schema}
		if !records {
			return out, nil
		}
		for _, rec := range in.records {
			v := rec.Get(col.Ordinal)
			if v != nil && col.Type.ToString(v) == literal {
				out.records = append(out.records, rec)
			}
		}
		return out, nil
	}
}

// slice keeps records [from, from+count); a negative count keeps the rest
func slice(from int64, count int64) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		out := &frame{schema: in.schema}
		if !records {
			return out, nil
		}
		n := int64(len(in.records))
		start := from
		if start > n {
			start = n
		}
		end := n
		if count >= 0 && start+count < n {
			end = start + count
		}
		out.records = in.records[start:end]
		return out, nil
	}
}

func assignUID(colName string) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		schema, err := marmot.NewSchemaBuilder().AddColumns(in.schema).AddColumn(colName, marmot.LongType).Build()
		if err != nil {
			return nil, err
		}
		return mapRecords(in, schema, records, func(i int, rec *marmot.Record) ([]interface{}, error) {
			return append(rec.Values(), int64(i)), nil
		})
	}
}

func rename(oldName string, newName string) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		schema, err := in.schema.Rename(oldName, newName)
		if err != nil {
			return nil, err
		}
		return mapRecords(in, schema, records, func(_ int, rec *marmot.Record) ([]interface{}, error) {
			return rec.Values(), nil
		})
	}
}

var countSchema = mustSchema("count:long")

func mustSchema(str string) *marmot.RecordSchema {
	schema, err := marmot.ParseRecordSchema(str)
	if err != nil {
		panic(err)
	}
	return schema
}

func (e *executor) store(op *pb.OperatorProto, returnCount bool) step {
	return func(_ context.Context, in *frame, records bool) (*frame, error) {
		out := &frame{schema: marmot.EmptySchema()}
		if returnCount {
			out.schema = countSchema
		}
		if !records {
			return out, nil
		}
		opts := op.Store
		if opts == nil {
			opts = &pb.StoreOptionsProto{}
		}
		if !opts.Append {
			copts := createOptions{force: opts.Force, blockSize: opts.BlockSize, compressionCodec: opts.CompressionCodec}
			if name := opts.GeometryColumn; name != "" {
				copts.geometryColumn = &marmot.GeometryColumnInfo{Name: name, SRID: opts.Srid}
			}
			if _, err := e.catalog.create(op.Dataset, in.schema, copts); err != nil {
				return nil, err
			}
		}
		if _, err := e.catalog.appendRecords(op.Dataset, in.records); err != nil {
			if !opts.Append {
				e.catalog.remove(op.Dataset)
			}
			return nil, err
		}
		if returnCount {
			rec, err := marmot.NewRecordWithValues(countSchema, int64(len(in.records)))
			if err != nil {
				return nil, err
			}
			out.records = []*marmot.Record{rec}
		}
		return out, nil
	}
}
