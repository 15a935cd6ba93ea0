package codecs

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/unkn0wn-root/codecstack"
)

// Zstd compresses the buffer's bytes with zstandard. The encoded output is
// a flat raw buffer; plain Decode likewise yields flat raw bytes, because
// the zstd frame does not record shape or dtype. DecodeInto reinterprets
// the decompressed bytes under the hinted descriptor, so inside
// Stack.EncodeDecode the original layout comes back automatically.
//
// The underlying encoder and decoder are safe for concurrent use, so one
// Zstd may be shared across stacks.
type Zstd struct {
	level int
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

var (
	_ codecstack.Codec         = (*Zstd)(nil)
	_ codecstack.HintedDecoder = (*Zstd)(nil)
	_ codecstack.Configurable  = (*Zstd)(nil)
)

// NewZstd builds a zstd codec. level is the zstd compression level 1-22;
// 0 selects the default.
func NewZstd(level int) (*Zstd, error) {
	if level == 0 {
		level = 3
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return &Zstd{level: level, enc: enc, dec: dec}, nil
}

func (z *Zstd) String() string { return "zstd" }

func (z *Zstd) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	return codecstack.Bytes(z.enc.EncodeAll(buf.Data, nil)), nil
}

func (z *Zstd) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	raw, err := z.dec.DecodeAll(buf.Data, nil)
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zstd: %w", err)
	}
	return codecstack.Bytes(raw), nil
}

func (z *Zstd) DecodeInto(buf codecstack.Buffer, want codecstack.Descriptor) (codecstack.Buffer, error) {
	flat, err := z.Decode(buf)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	return flat.View(want.DType, want.Shape...)
}

func (z *Zstd) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "zstd", "level": z.level}, nil
}
