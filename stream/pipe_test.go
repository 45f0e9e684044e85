package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/go-marmot/marmot/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestChunkPipeDeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	pipe := NewChunkPipe(4, nil)
	go func() {
		for i := 0; i < 100; i++ {
			pipe.Supply(ctx, []byte(fmt.Sprintf("%03d", i)))
			pipe.Supply(ctx, nil)
		}
		pipe.EndOfSupply(nil)
	}()
	data, err := ioutil.ReadAll(pipe)
	require.Nil(t, err)
	var expected bytes.Buffer
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&expected, "%03d", i)
	}
	require.Equal(t, expected.String(), string(data))
	require.Nil(t, pipe.Close())
}

func TestChunkPipeSyncAfterConsumption(t *testing.T) {
	ctx := context.Background()
	var synced []int32
	pipe := NewChunkPipe(8, func(id int32) {
		synced = append(synced, id)
	})
	require.Nil(t, pipe.Supply(ctx, []byte("abcd")))
	require.Nil(t, pipe.MarkSync(ctx, 1))
	require.Nil(t, pipe.Supply(ctx, []byte("ef")))
	pipe.EndOfSupply(nil)

	buf := make([]byte, 2)
	n, err := pipe.Read(buf)
	require.Nil(t, err)
	require.Equal(t, 2, n)
	require.Empty(t, synced)
	_, err = pipe.Read(buf)
	require.Nil(t, err)
	require.Empty(t, synced, "marker must not fire before the preceding bytes are read")
	_, err = pipe.Read(buf)
	require.Nil(t, err)
	require.Equal(t, []int32{1}, synced)
	require.Equal(t, "ef", string(buf))
	_, err = pipe.Read(buf)
	require.Equal(t, io.EOF, err)
}

func TestChunkPipeBlocksWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	pipe := NewChunkPipe(2, nil)
	require.Nil(t, pipe.Supply(ctx, []byte("a")))
	require.Nil(t, pipe.Supply(ctx, []byte("b")))

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, pipe.Supply(timeoutCtx, []byte("c")))

	supplied := make(chan error, 1)
	go func() {
		supplied <- pipe.Supply(ctx, []byte("c"))
	}()
	buf := make([]byte, 1)
	_, err := pipe.Read(buf)
	require.Nil(t, err)
	require.Nil(t, <-supplied)
}

func TestChunkPipeCloseUnblocksSupplier(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	pipe := NewChunkPipe(1, nil)
	require.Nil(t, pipe.Supply(ctx, []byte("a")))
	supplied := make(chan error, 1)
	go func() {
		supplied <- pipe.Supply(ctx, []byte("b"))
	}()
	require.Nil(t, pipe.Close())
	require.Equal(t, errors.StreamClosedError{}, <-supplied)
	require.Equal(t, errors.StreamClosedError{}, pipe.Supply(ctx, []byte("c")))
	require.Nil(t, pipe.Close())
}

func TestChunkPipeEndWithError(t *testing.T) {
	ctx := context.Background()
	pipe := NewChunkPipe(4, nil)
	require.Nil(t, pipe.Supply(ctx, []byte("partial")))
	pipe.EndOfSupply(errors.CancelledError{Reason: "test"})
	pipe.EndOfSupply(nil)
	data, err := ioutil.ReadAll(pipe)
	require.Equal(t, "partial", string(data))
	require.Equal(t, errors.CancelledError{Reason: "test"}, err)
	require.Equal(t, errors.StreamClosedError{}, pipe.Supply(ctx, []byte("late")))
}

func TestChunkReader(t *testing.T) {
	chunks := [][]byte{[]byte("he"), {}, []byte("llo"), []byte(" world")}
	i := 0
	r := NewChunkReader(func() ([]byte, error) {
		if i == len(chunks) {
			return nil, io.EOF
		}
		i++
		return chunks[i-1], nil
	})
	data, err := ioutil.ReadAll(r)
	require.Nil(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestChunkWriter(t *testing.T) {
	var emitted []string
	w := newChunkWriter(4, func(data []byte) error {
		emitted = append(emitted, string(data))
		return nil
	})
	_, err := w.Write([]byte("ab"))
	require.Nil(t, err)
	_, err = w.Write([]byte("cdefghij"))
	require.Nil(t, err)
	require.Equal(t, []string{"abcd", "efgh"}, emitted)
	require.Nil(t, w.Close())
	require.Equal(t, []string{"abcd", "efgh", "ij"}, emitted)
	require.Nil(t, w.Close())
	require.Len(t, emitted, 3)
}
