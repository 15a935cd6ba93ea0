package codecs

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/unkn0wn-root/codecstack"
	"github.com/vmihailenco/msgpack/v5"
)

// packed is the self-describing frame the Pack codecs serialize: dtype,
// shape, and the raw payload.
type packed struct {
	DType string `cbor:"dtype" msgpack:"dtype" json:"dtype"`
	Shape []int  `cbor:"shape" msgpack:"shape" json:"shape"`
	Data  []byte `cbor:"data" msgpack:"data" json:"data"`
}

func packBuffer(b codecstack.Buffer) packed {
	shape := make([]int, len(b.Shape))
	copy(shape, b.Shape)
	return packed{DType: b.DType.String(), Shape: shape, Data: b.Data}
}

func (p packed) buffer() (codecstack.Buffer, error) {
	dt, err := codecstack.ParseDType(p.DType)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	b := codecstack.Buffer{Data: p.Data, Shape: p.Shape, DType: dt}
	if err := b.Check(); err != nil {
		return codecstack.Buffer{}, err
	}
	return b, nil
}

// PackCBOR frames the buffer as deterministic CBOR carrying dtype, shape
// and payload. The encoded form is fully self-describing, so Decode
// restores the original layout without hints; placed at the end of a
// stack it makes the whole pipeline's output shape-safe.
type PackCBOR struct{}

var (
	_ codecstack.Codec        = PackCBOR{}
	_ codecstack.Configurable = PackCBOR{}
)

func (PackCBOR) String() string { return "pack.cbor" }

func (PackCBOR) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	raw, err := cborEnc.Marshal(packBuffer(buf))
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.cbor: %w", err)
	}
	return codecstack.Bytes(raw), nil
}

func (PackCBOR) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	var p packed
	if err := cbor.Unmarshal(buf.Data, &p); err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.cbor: %w", err)
	}
	out, err := p.buffer()
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.cbor: %w", err)
	}
	return out, nil
}

func (PackCBOR) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "pack.cbor"}, nil
}

// cborEnc is a deterministic encode mode so identical buffers always
// produce identical bytes.
var cborEnc, _ = cbor.CanonicalEncOptions().EncMode()

// PackMsgpack is PackCBOR over msgpack framing.
type PackMsgpack struct{}

var (
	_ codecstack.Codec        = PackMsgpack{}
	_ codecstack.Configurable = PackMsgpack{}
)

func (PackMsgpack) String() string { return "pack.msgpack" }

func (PackMsgpack) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	raw, err := msgpack.Marshal(packBuffer(buf))
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.msgpack: %w", err)
	}
	return codecstack.Bytes(raw), nil
}

func (PackMsgpack) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	var p packed
	if err := msgpack.Unmarshal(buf.Data, &p); err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.msgpack: %w", err)
	}
	out, err := p.buffer()
	if err != nil {
		return codecstack.Buffer{}, fmt.Errorf("pack.msgpack: %w", err)
	}
	return out, nil
}

func (PackMsgpack) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "pack.msgpack"}, nil
}
