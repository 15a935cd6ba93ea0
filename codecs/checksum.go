package codecs

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/unkn0wn-root/codecstack"
)

// ErrChecksum reports a digest mismatch while decoding Checksum output.
var ErrChecksum = errors.New("codecs: checksum mismatch")

// Checksum appends an 8-byte big-endian XXH64 digest of the payload.
// Decode verifies and strips it. Output is flat raw bytes either way;
// DecodeInto restores the hinted layout after verification.
type Checksum struct{}

var (
	_ codecstack.Codec         = Checksum{}
	_ codecstack.HintedDecoder = Checksum{}
	_ codecstack.Configurable  = Checksum{}
)

func (Checksum) String() string { return "xxh64" }

func (Checksum) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	out := make([]byte, len(buf.Data)+8)
	copy(out, buf.Data)
	binary.BigEndian.PutUint64(out[len(buf.Data):], xxhash.Sum64(buf.Data))
	return codecstack.Bytes(out), nil
}

func (Checksum) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	if len(buf.Data) < 8 {
		return codecstack.Buffer{}, fmt.Errorf("%w: %d bytes, need at least 8", ErrChecksum, len(buf.Data))
	}
	payload := buf.Data[:len(buf.Data)-8]
	want := binary.BigEndian.Uint64(buf.Data[len(buf.Data)-8:])
	if got := xxhash.Sum64(payload); got != want {
		return codecstack.Buffer{}, fmt.Errorf("%w: want %016x, got %016x", ErrChecksum, want, got)
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return codecstack.Bytes(out), nil
}

func (c Checksum) DecodeInto(buf codecstack.Buffer, want codecstack.Descriptor) (codecstack.Buffer, error) {
	flat, err := c.Decode(buf)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	return flat.View(want.DType, want.Shape...)
}

func (Checksum) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "xxh64"}, nil
}
