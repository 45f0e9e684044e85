package stream

import (
	"github.com/go-marmot/marmot/config"
	"go.uber.org/zap"
)

// Options configures both halves of a stream
type Options struct {
	ChunkSize    int      // ChunkSize is the maximum payload of a DATA chunk
	SyncInterval int      // SyncInterval is the number of DATA chunks between SYNCs
	PipeCapacity int      // PipeCapacity is the number of chunks a Receiver buffers
	Codec        string   // Codec compresses the payload of uploads and downloads
	Metrics      *Metrics // Metrics is optional
	Logger       *zap.Logger
}

// OptionsFrom derives stream Options from ClientOptions
func OptionsFrom(opts *config.ClientOptions) Options {
	return Options{
		ChunkSize:    opts.ChunkSize,
		SyncInterval: opts.SyncInterval,
		PipeCapacity: opts.PipeCapacity,
		Codec:        opts.Compression,
	}
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = config.DefaultChunkSize
	}
	if o.SyncInterval <= 0 {
		o.SyncInterval = config.DefaultSyncInterval
	}
	if o.PipeCapacity <= 0 {
		o.PipeCapacity = config.DefaultPipeCapacity
	}
	if len(o.Codec) == 0 {
		o.Codec = config.DefaultCompression
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
