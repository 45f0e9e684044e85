package compress

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/go-marmot/marmot/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testPayload() []byte {
	rnd := rand.New(rand.NewSource(7))
	var buf bytes.Buffer
	words := []string{"marmot", "geometry", "POINT(1 2)", "tile", "cluster"}
	for i := 0; i < 20000; i++ {
		buf.WriteString(words[rnd.Intn(len(words))])
		buf.WriteByte(' ')
	}
	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	payload := testPayload()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.Nil(t, err)
			var compressed bytes.Buffer
			w, err := codec.NewWriter(&compressed)
			require.Nil(t, err)
			_, err = w.Write(payload)
			require.Nil(t, err)
			require.Nil(t, w.Close())
			if name != None {
				require.Less(t, compressed.Len(), len(payload))
			}

			r, err := codec.NewReader(&compressed)
			require.Nil(t, err)
			decompressed, err := ioutil.ReadAll(r)
			require.Nil(t, err)
			require.Nil(t, r.Close())
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	require.Nil(t, err)
	require.Equal(t, None, c.Name())
	c, err = Lookup("LZ4")
	require.Nil(t, err)
	require.Equal(t, LZ4, c.Name())
	_, err = Lookup("brotli")
	require.Equal(t, errors.UnknownCodecError{Name: "brotli"}, err)
	require.Equal(t, []string{"gzip", "lz4", "none", "snappy", "zstd"}, Names())
}

func TestCompressReader(t *testing.T) {
	defer goleak.VerifyNone(t)
	payload := testPayload()
	rc, err := Compress(Zstd, bytes.NewReader(payload))
	require.Nil(t, err)
	compressed, err := ioutil.ReadAll(rc)
	require.Nil(t, err)
	require.Nil(t, rc.Close())

	codec, err := Lookup(Zstd)
	require.Nil(t, err)
	r, err := codec.NewReader(bytes.NewReader(compressed))
	require.Nil(t, err)
	defer r.Close()
	decompressed, err := ioutil.ReadAll(r)
	require.Nil(t, err)
	require.Equal(t, payload, decompressed)
}

func TestCompressReaderClosedEarly(t *testing.T) {
	defer goleak.VerifyNone(t)
	rc, err := Compress(Gzip, bytes.NewReader(testPayload()))
	require.Nil(t, err)
	buf := make([]byte, 16)
	_, err = rc.Read(buf)
	require.Nil(t, err)
	require.Nil(t, rc.Close())
}
