package stream

import (
	"context"
	"io"
	"sync"

	"github.com/go-marmot/marmot/errors"
)

type pipeItem struct {
	data   []byte
	sync   int32
	isSync bool
}

// ChunkPipe is an io.ReadCloser fed chunk by chunk by a single producer.
// Supply blocks while capacity items are queued, so a slow consumer stalls
// the producer. Sync markers interleaved with the data invoke a callback
// once the consumer has read every byte supplied before them.
type ChunkPipe struct {
	items     chan pipeItem
	closed    chan struct{}
	closeOnce sync.Once
	ended     chan struct{}
	endOnce   sync.Once
	endErr    error
	onSync    func(id int32)

	// consumer state
	cur     []byte
	readErr error
}

// NewChunkPipe creates a ChunkPipe buffering up to capacity items. onSync
// may be nil.
func NewChunkPipe(capacity int, onSync func(id int32)) *ChunkPipe {
	if capacity <= 0 {
		capacity = 1
	}
	return &ChunkPipe{
		items:  make(chan pipeItem, capacity),
		closed: make(chan struct{}),
		ended:  make(chan struct{}),
		onSync: onSync,
	}
}

func (p *ChunkPipe) enqueue(ctx context.Context, item pipeItem) error {
	select {
	case <-p.closed:
		return errors.StreamClosedError{}
	case <-p.ended:
		return errors.StreamClosedError{}
	default:
	}
	select {
	case p.items <- item:
		return nil
	case <-p.closed:
		return errors.StreamClosedError{}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Supply appends a chunk to the pipe, blocking while the pipe is full.
// Zero-length chunks are dropped. The pipe takes ownership of data.
func (p *ChunkPipe) Supply(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return p.enqueue(ctx, pipeItem{data: data})
}

// MarkSync appends a sync marker, whose callback runs once the consumer reads past it
func (p *ChunkPipe) MarkSync(ctx context.Context, id int32) error {
	return p.enqueue(ctx, pipeItem{sync: id, isSync: true})
}

// EndOfSupply ends the stream. Once the queued chunks are consumed, readers
// receive err, or io.EOF if err is nil. Only the first call has any effect.
func (p *ChunkPipe) EndOfSupply(err error) {
	p.endOnce.Do(func() {
		if err == nil {
			err = io.EOF
		}
		p.endErr = err
		close(p.ended)
	})
}

// Closed is closed once the consumer has called Close
func (p *ChunkPipe) Closed() <-chan struct{} {
	return p.closed
}

// Read reads supplied bytes in supply order
func (p *ChunkPipe) Read(buf []byte) (int, error) {
	for len(p.cur) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		select {
		case item := <-p.items:
			p.take(item)
		case <-p.ended:
			// the producer supplies nothing after ending, so whatever is
			// still queued can be drained without blocking
			select {
			case item := <-p.items:
				p.take(item)
			default:
				p.readErr = p.endErr
			}
		case <-p.closed:
			p.readErr = errors.StreamClosedError{}
		}
	}
	n := copy(buf, p.cur)
	p.cur = p.cur[n:]
	return n, nil
}

func (p *ChunkPipe) take(item pipeItem) {
	if !item.isSync {
		p.cur = item.data
		return
	}
	if p.onSync != nil {
		p.onSync(item.sync)
	}
}

// Close releases the pipe from the consumer side. Blocked and future
// Supply calls fail with StreamClosedError.
func (p *ChunkPipe) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	return nil
}
