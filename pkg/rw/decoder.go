package rw

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Decode errors.
var (
	ErrEmptyInput  = errors.New("empty input")
	ErrNotAMapping = errors.New("record root is not a mapping")
	ErrCompressed  = errors.New("corrupt lz4 stream")
)

// lz4FrameMagic starts every LZ4 frame (little-endian 0x184D2204).
var lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}

// DecodeError reports that a decoder rejected a file.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns the raw bytes of one file into a Record.
// The buffer is owned by the caller and is not retained.
type Decoder interface {
	Decode(data []byte) (Record, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (Record, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (Record, error) {
	return f(data)
}

// DefaultMaxInflated caps decompressed dumps when no other limit is set.
const DefaultMaxInflated int64 = 256 << 20

// DumpDecoder reads the record dumps written by the external DFF/TXD
// decoder. Dumps are JSON or YAML, optionally wrapped in an LZ4 frame.
type DumpDecoder struct {
	// MaxInflated caps the size of a decompressed dump (0 = no limit).
	MaxInflated int64
}

// Decode implements Decoder.
func (d DumpDecoder) Decode(data []byte) (Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Err: ErrEmptyInput}
	}

	if bytes.HasPrefix(data, lz4FrameMagic) {
		inflated, err := d.inflate(data)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		data = inflated
	}

	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("parsing dump: %w", err)}
	}

	m, ok := AsMap(root)
	if !ok {
		return nil, &DecodeError{Err: ErrNotAMapping}
	}
	return Record(m), nil
}

func (d DumpDecoder) inflate(data []byte) ([]byte, error) {
	var r io.Reader = lz4.NewReader(bytes.NewReader(data))
	if d.MaxInflated > 0 {
		r = io.LimitReader(r, d.MaxInflated+1)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressed, err)
	}
	if d.MaxInflated > 0 && int64(len(out)) > d.MaxInflated {
		return nil, fmt.Errorf("%w: inflated size exceeds %d bytes", ErrCompressed, d.MaxInflated)
	}
	return out, nil
}
