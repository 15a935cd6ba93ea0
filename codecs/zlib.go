package codecs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/unkn0wn-root/codecstack"
)

// Zlib compresses the buffer's bytes with DEFLATE (zlib framing). Like
// Zstd, the encoded form is flat raw bytes and DecodeInto restores the
// hinted layout after decompression.
type Zlib struct {
	Level int // 1-9; 0 => default (6)
}

var (
	_ codecstack.Codec         = Zlib{}
	_ codecstack.HintedDecoder = Zlib{}
	_ codecstack.Configurable  = Zlib{}
)

func (z Zlib) String() string { return "zlib" }

func (z Zlib) level() int {
	if z.Level == 0 {
		return 6
	}
	return z.Level
}

func (z Zlib) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	var out bytes.Buffer
	w, err := zlib.NewWriterLevel(&out, z.level())
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zlib: %w", err)
	}
	if _, err := w.Write(buf.Data); err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zlib: %w", err)
	}
	if err := w.Close(); err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zlib: %w", err)
	}
	return codecstack.Bytes(out.Bytes()), nil
}

func (z Zlib) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	r, err := zlib.NewReader(bytes.NewReader(buf.Data))
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("zlib: %w", err)
	}
	return codecstack.Bytes(raw), nil
}

func (z Zlib) DecodeInto(buf codecstack.Buffer, want codecstack.Descriptor) (codecstack.Buffer, error) {
	flat, err := z.Decode(buf)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	return flat.View(want.DType, want.Shape...)
}

func (z Zlib) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "zlib", "level": z.level()}, nil
}
