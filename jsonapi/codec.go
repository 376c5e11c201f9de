package jsonapi

import (
	"encoding/json"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Decoder decodes a single JSON value from a stream.
type Decoder interface {
	Decode(v any) error
}

// Codec creates streaming decoders over a response body.
type Codec interface {
	NewDecoder(r io.Reader) Decoder
}

// DecodeOptions configures the default encoding/json codec.
type DecodeOptions struct {
	// DisallowUnknownFields rejects objects carrying fields the target type lacks
	DisallowUnknownFields bool
	// UseNumber decodes numbers into json.Number instead of float64
	UseNumber bool
}

// StdCodec decodes with encoding/json.
type StdCodec struct {
	Options DecodeOptions
}

// NewDecoder implements Codec
func (c StdCodec) NewDecoder(r io.Reader) Decoder {
	dec := json.NewDecoder(r)
	if c.Options.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if c.Options.UseNumber {
		dec.UseNumber()
	}
	return dec
}

// IterCodec decodes with json-iterator. Its Config carries the naming
// convention through TagKey and CaseSensitive.
type IterCodec struct {
	api jsoniter.API
}

// NewIterCodec freezes cfg into a reusable codec.
func NewIterCodec(cfg jsoniter.Config) *IterCodec {
	return &IterCodec{api: cfg.Froze()}
}

// NewDecoder implements Codec
func (c *IterCodec) NewDecoder(r io.Reader) Decoder {
	return c.api.NewDecoder(r)
}

// readTracker remembers the first non-EOF read error so transport failures
// during decoding are not mistaken for malformed JSON. It also records whether
// the body held anything besides whitespace.
type readTracker struct {
	r       io.Reader
	err     error
	content bool
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if !t.content {
		for _, b := range p[:n] {
			if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
				t.content = true
				break
			}
		}
	}
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
