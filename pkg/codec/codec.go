// Package codec encodes saved workflows: a format codec followed by optional compression.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Format encodes and decodes values
type Format interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Compression names a compression algorithm.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// ParseCompression accepts "", "none", "gzip" and "zstd".
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip, CompressionZstd:
		return Compression(s), nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// MsgpackFormat is the default on-disk format.
type MsgpackFormat struct{}

func (MsgpackFormat) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgpackFormat) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgpackFormat) Name() string                       { return "msgpack" }

// JSONFormat is handy for inspecting stored workflows by hand.
type JSONFormat struct{}

func (JSONFormat) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONFormat) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONFormat) Name() string                       { return "json" }

// Codec combines a format with a compression step.
type Codec struct {
	Format      Format
	Compression Compression
}

// Default returns msgpack with zstd compression.
func Default() *Codec {
	return &Codec{Format: MsgpackFormat{}, Compression: CompressionZstd}
}

// Encode marshals and compresses v.
func (c *Codec) Encode(v any) ([]byte, error) {
	data, err := c.Format.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s encoding failed: %w", c.Format.Name(), err)
	}

	data, err = c.compress(data)
	if err != nil {
		return nil, fmt.Errorf("%s compression failed: %w", c.Compression, err)
	}
	return data, nil
}

// Decode decompresses and unmarshals data into v.
func (c *Codec) Decode(data []byte, v any) error {
	data, err := c.decompress(data)
	if err != nil {
		return fmt.Errorf("%s decompression failed: %w", c.Compression, err)
	}

	if err := c.Format.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s decoding failed: %w", c.Format.Name(), err)
	}
	return nil
}

func (c *Codec) compress(data []byte) ([]byte, error) {
	switch c.Compression {
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return data, nil
	}
}

func (c *Codec) decompress(data []byte) ([]byte, error) {
	switch c.Compression {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return data, nil
	}
}
