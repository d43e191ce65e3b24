package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string            `msgpack:"name" json:"name"`
	Nodes map[string]string `msgpack:"nodes" json:"nodes"`
}

func TestCodecCompressions(t *testing.T) {
	in := sample{Name: "flow", Nodes: map[string]string{"trigger:1": "Trigger"}}

	for _, compression := range []Compression{CompressionNone, CompressionGzip, CompressionZstd} {
		t.Run(string(compression), func(t *testing.T) {
			c := &Codec{Format: MsgpackFormat{}, Compression: compression}

			data, err := c.Encode(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Decode(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestDecodeWrongCompression(t *testing.T) {
	plain := &Codec{Format: JSONFormat{}, Compression: CompressionNone}
	data, err := plain.Encode(sample{Name: "x"})
	require.NoError(t, err)

	zstdCodec := &Codec{Format: JSONFormat{}, Compression: CompressionZstd}
	var out sample
	assert.Error(t, zstdCodec.Decode(data, &out))
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("lz4")
	assert.Error(t, err)
}
