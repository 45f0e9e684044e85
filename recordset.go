package marmot

import (
	"context"
	"io"
)

// RecordSet is a pull-style iterator over Records sharing one RecordSchema.
// Next returns io.EOF once the RecordSet is exhausted.
type RecordSet interface {
	Schema() *RecordSchema
	Next(ctx context.Context) (*Record, error)
	Close() error
}

type recordSliceSet struct {
	schema  *RecordSchema
	records []*Record
	next    int
	closed  bool
}

// RecordSetFromRecords produces a RecordSet over an in-memory slice of Records
func RecordSetFromRecords(schema *RecordSchema, records ...*Record) RecordSet {
	return &recordSliceSet{schema: schema, records: records}
}

func (s *recordSliceSet) Schema() *RecordSchema {
	return s.schema
}

func (s *recordSliceSet) Next(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed || s.next >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.next]
	s.next++
	return r, nil
}

func (s *recordSliceSet) Close() error {
	s.closed = true
	return nil
}

// ForEachRecord runs fn against every Record of rs, then closes it
func ForEachRecord(ctx context.Context, rs RecordSet, fn func(*Record) error) (err error) {
	defer func() {
		if cerr := rs.Close(); err == nil {
			err = cerr
		}
	}()
	for {
		r, err := rs.Next(ctx)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err = fn(r); err != nil {
			return err
		}
	}
}

// CollectRecords drains rs into a slice, then closes it
func CollectRecords(ctx context.Context, rs RecordSet) ([]*Record, error) {
	var records []*Record
	err := ForEachRecord(ctx, rs, func(r *Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountRecords drains rs, counting its Records, then closes it
func CountRecords(ctx context.Context, rs RecordSet) (int64, error) {
	var count int64
	err := ForEachRecord(ctx, rs, func(r *Record) error {
		count++
		return nil
	})
	return count, err
}
