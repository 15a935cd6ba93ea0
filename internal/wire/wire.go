// Package wire frames a codecstack.Buffer as self-contained bytes for
// storage (used by the cached codec's providers). Framing never appears in
// a stack's encoded output.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/unkn0wn-root/codecstack"
)

const version byte = 1

var (
	ErrCorrupt  = errors.New("codecstack/wire: corrupt entry")
	ErrTooLarge = errors.New("codecstack/wire: buffer exceeds frame limits")
	magic4      = [...]byte{'C', 'S', 'T', 'K'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeBuffer frames buf:
//
//	magic(4) | ver(1) | kind(1) | size(1) | ndims(u16 be) | dim(u32 be)*ndims | vlen(u32 be) | payload(vlen)
//
// Buffers whose dimension count, any single dimension, or payload length
// does not fit its frame field fail with ErrTooLarge rather than encoding
// a truncated frame.
func EncodeBuffer(b codecstack.Buffer) ([]byte, error) {
	if len(b.Shape) > math.MaxUint16 || uint64(len(b.Data)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}
	for _, d := range b.Shape {
		if d < 0 || uint64(d) > math.MaxUint32 {
			return nil, ErrTooLarge
		}
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 1 + 2 + 4*len(b.Shape) + 4 + len(b.Data))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(b.DType.Kind))
	buf.WriteByte(byte(b.DType.Size))

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(b.Shape)))
	buf.Write(u2[:])
	for _, d := range b.Shape {
		binary.BigEndian.PutUint32(u4[:], uint32(d))
		buf.Write(u4[:])
	}

	binary.BigEndian.PutUint32(u4[:], uint32(len(b.Data)))
	buf.Write(u4[:])
	buf.Write(b.Data)

	return buf.Bytes(), nil
}

// DecodeBuffer reverses EncodeBuffer. The returned buffer owns a copy of
// the payload so callers may retain it past the raw slice's lifetime.
func DecodeBuffer(raw []byte) (codecstack.Buffer, error) {
	const hdr = 4 + 1 + 1 + 1 + 2
	if len(raw) < hdr || !hasMagic(raw) || raw[4] != version {
		return codecstack.Buffer{}, ErrCorrupt
	}

	dt := codecstack.DType{Kind: codecstack.Kind(raw[5]), Size: int(raw[6])}
	off := 7

	ndims := int(binary.BigEndian.Uint16(raw[off : off+2]))
	off += 2

	if off+4*ndims > len(raw) {
		return codecstack.Buffer{}, ErrCorrupt
	}
	shape := make([]int, ndims)
	for i := 0; i < ndims; i++ {
		shape[i] = int(binary.BigEndian.Uint32(raw[off : off+4]))
		off += 4
	}

	if off+4 > len(raw) {
		return codecstack.Buffer{}, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(raw[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(raw)-off {
		return codecstack.Buffer{}, ErrCorrupt
	}

	data := make([]byte, vlen)
	copy(data, raw[off:off+vlen])

	b := codecstack.Buffer{Data: data, Shape: shape, DType: dt}
	if err := b.Check(); err != nil {
		return codecstack.Buffer{}, ErrCorrupt
	}
	return b, nil
}
