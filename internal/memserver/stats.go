package memserver

import (
	"time"

	"github.com/go-marmot/marmot/plan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runStats contains statistics about one plan evaluation
type runStats struct {
	startTime time.Time
	kinds     []plan.OpKind
	runtimes  []time.Duration
	records   []int
	current   time.Time
}

func newRunStats(numOps int) *runStats {
	return &runStats{
		startTime: time.Now(),
		kinds:     make([]plan.OpKind, 0, numOps),
		runtimes:  make([]time.Duration, 0, numOps),
		records:   make([]int, 0, numOps),
	}
}

// startOperator tracks the beginning of an operator
func (rs *runStats) startOperator() {
	rs.current = time.Now()
}

// endOperator tracks the end of an operator and the size of its output
func (rs *runStats) endOperator(kind plan.OpKind, out *frame) {
	rs.kinds = append(rs.kinds, kind)
	rs.runtimes = append(rs.runtimes, time.Since(rs.current))
	n := 0
	if out != nil {
		n = len(out.records)
	}
	rs.records = append(rs.records, n)
}

// totalRuntime returns the time elapsed since the evaluation started
func (rs *runStats) totalRuntime() time.Duration {
	return time.Since(rs.startTime)
}

// MarshalLogArray logs one entry per evaluated operator
func (rs *runStats) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for i, kind := range rs.kinds {
		err := enc.AppendObject(zapcore.ObjectMarshalerFunc(func(oe zapcore.ObjectEncoder) error {
			oe.AddString("operator", kind.String())
			oe.AddDuration("runtime", rs.runtimes[i])
			oe.AddInt("records", rs.records[i])
			return nil
		}))
		if err != nil {
			return err
		}
	}
	return nil
}

func (rs *runStats) fields() []zap.Field {
	return []zap.Field{
		zap.Duration("runtime", rs.totalRuntime()),
		zap.Array("operators", rs),
	}
}
