package plan

import (
	"fmt"

	"github.com/go-marmot/marmot/compress"
	pb "github.com/go-marmot/marmot/internal/rpc"
)

// StoreOptions configures Store and Tee
type StoreOptions struct {
	Force           bool   // overwrite an existing dataset
	Append          bool   // append to an existing dataset
	PartitionColumn string // split the output by the values of this column
	GeometryColumn  string
	Srid            string
	BlockSize       int64
	Compression     string // a codec registered with package compress
}

func (o StoreOptions) toProto() (*pb.StoreOptionsProto, error) {
	if o.Force && o.Append {
		return nil, fmt.Errorf("force and append are mutually exclusive")
	}
	if o.BlockSize < 0 {
		return nil, fmt.Errorf("negative block size %d", o.BlockSize)
	}
	if o.Srid != "" && o.GeometryColumn == "" {
		return nil, fmt.Errorf("srid given without a geometry column")
	}
	if o.Compression != "" {
		if _, err := compress.Lookup(o.Compression); err != nil {
			return nil, err
		}
	}
	return &pb.StoreOptionsProto{
		Force:            o.Force,
		Append:           o.Append,
		GeometryColumn:   o.GeometryColumn,
		Srid:             o.Srid,
		BlockSize:        o.BlockSize,
		CompressionCodec: o.Compression,
		PartitionColumn:  o.PartitionColumn,
	}, nil
}

// Store writes the records into dataset id
func Store(id string, opts StoreOptions) Operator {
	return newOperator(OpStore, func(m *pb.OperatorProto) (err error) {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		m.Dataset = id
		m.Store, err = opts.toProto()
		return err
	})
}

// StoreAndReturnCount is Store, producing a single record holding the
// number of records stored
func StoreAndReturnCount(id string, opts StoreOptions) Operator {
	return newOperator(OpStoreAndReturnCount, func(m *pb.OperatorProto) (err error) {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		m.Dataset = id
		m.Store, err = opts.toProto()
		return err
	})
}

// StoreAsCsv writes the records as CSV files under path
func StoreAsCsv(path string, opts CsvOptions) Operator {
	return newOperator(OpStoreAsCsv, func(m *pb.OperatorProto) error {
		if path == "" {
			return fmt.Errorf("missing path")
		}
		if err := opts.validate(); err != nil {
			return err
		}
		delim := ","
		if opts.Delimiter != 0 {
			delim = string(opts.Delimiter)
		}
		m.Store = &pb.StoreOptionsProto{Format: "csv", Target: path, Delimiter: delim, Header: opts.Header}
		m.Options = opts.toKeyValues()
		return nil
	})
}

// StoreAsHeapfile writes the records, unindexed, into a file at path
func StoreAsHeapfile(path string) Operator {
	return newOperator(OpStoreAsHeapfile, func(m *pb.OperatorProto) error {
		if path == "" {
			return fmt.Errorf("missing path")
		}
		m.Store = &pb.StoreOptionsProto{Format: "heapfile", Target: path}
		return nil
	})
}

// StoreIntoJdbc inserts the records into a table of a JDBC database
func StoreIntoJdbc(table string, url string) Operator {
	return newOperator(OpStoreIntoJdbc, func(m *pb.OperatorProto) error {
		if table == "" || url == "" {
			return fmt.Errorf("missing table or url")
		}
		m.Store = &pb.StoreOptionsProto{Format: "jdbc", Target: table}
		m.Options = []*pb.KeyValueProto{{Key: "url", Value: url}}
		return nil
	})
}

// StoreIntoKafka publishes the records to a Kafka topic
func StoreIntoKafka(topic string) Operator {
	return newOperator(OpStoreIntoKafka, func(m *pb.OperatorProto) error {
		if topic == "" {
			return fmt.Errorf("missing topic")
		}
		m.Store = &pb.StoreOptionsProto{Format: "kafka", Target: topic}
		return nil
	})
}
