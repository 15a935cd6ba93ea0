package codecs

import (
	"fmt"

	"github.com/unkn0wn-root/codecstack"
)

// Delta stores each element as the difference from its predecessor (the
// first element is kept as-is). Differences wrap at the element width, so
// the transform is lossless for signed and unsigned integers alike.
// Elements are interpreted little-endian. Shape and dtype pass through.
type Delta struct {
	DType codecstack.DType
}

var (
	_ codecstack.Codec        = Delta{}
	_ codecstack.Configurable = Delta{}
)

func (d Delta) String() string { return "delta<" + d.DType.String() + ">" }

func (d Delta) check(buf codecstack.Buffer) error {
	if d.DType.Kind != codecstack.KindInt && d.DType.Kind != codecstack.KindUint {
		return fmt.Errorf("delta: unsupported dtype %s", d.DType)
	}
	if buf.DType != d.DType {
		return fmt.Errorf("delta: buffer dtype %s, codec configured for %s", buf.DType, d.DType)
	}
	return nil
}

func (d Delta) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	if err := d.check(buf); err != nil {
		return codecstack.Buffer{}, err
	}
	it := d.DType.ItemSize()
	out := make([]byte, len(buf.Data))
	var prev uint64
	for i := 0; i < buf.Elems(); i++ {
		v := readUint(buf.Data[i*it:], it)
		putUint(out[i*it:], it, v-prev)
		prev = v
	}
	res := buf
	res.Data = out
	return res, nil
}

func (d Delta) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	if err := d.check(buf); err != nil {
		return codecstack.Buffer{}, err
	}
	it := d.DType.ItemSize()
	out := make([]byte, len(buf.Data))
	var acc uint64
	for i := 0; i < buf.Elems(); i++ {
		acc += readUint(buf.Data[i*it:], it)
		putUint(out[i*it:], it, acc)
	}
	res := buf
	res.Data = out
	return res, nil
}

func (d Delta) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "delta", "dtype": d.DType.String()}, nil
}

// readUint reads a little-endian unsigned value of the given byte width.
func readUint(b []byte, size int) uint64 {
	var v uint64
	for i := 0; i < size; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// putUint writes a little-endian unsigned value truncated to the width.
func putUint(b []byte, size int, v uint64) {
	for i := 0; i < size; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
