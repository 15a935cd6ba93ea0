package codecs

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/unkn0wn-root/codecstack"
)

func i32buf(t *testing.T, shape []int, vals ...int32) codecstack.Buffer {
	t.Helper()
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}
	b := codecstack.Buffer{Data: data, Shape: shape, DType: codecstack.Int32}
	if err := b.Check(); err != nil {
		t.Fatalf("bad test buffer: %v", err)
	}
	return b
}

func i32vals(b codecstack.Buffer) []int32 {
	out := make([]int32, len(b.Data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b.Data[i*4:]))
	}
	return out
}

func sameBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roundTrip(t *testing.T, c codecstack.Codec, in codecstack.Buffer) {
	t.Helper()
	out, err := codecstack.New(c).EncodeDecode(in)
	if err != nil {
		t.Fatalf("EncodeDecode: %v", err)
	}
	if !out.Descriptor().Equal(in.Descriptor()) || !sameBytes(out.Data, in.Data) {
		t.Fatalf("round trip changed buffer: %s -> %s", in.Descriptor(), out.Descriptor())
	}
}

// ==============================
// Delta
// ==============================

func TestDeltaKnownVector(t *testing.T) {
	d := Delta{DType: codecstack.Int32}
	in := i32buf(t, []int{4}, 1, 2, 3, 5)

	enc, err := d.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := i32vals(enc), []int32{1, 1, 1, 2}; !int32sEqual(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
	if !enc.Descriptor().Equal(in.Descriptor()) {
		t.Fatalf("delta changed descriptor: %s", enc.Descriptor())
	}
}

func int32sEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeltaRoundTrip(t *testing.T) {
	// negatives and wraparound-heavy values
	roundTrip(t, Delta{DType: codecstack.Int32}, i32buf(t, []int{2, 3}, -5, 100, -2147483648, 2147483647, 0, 7))

	b := codecstack.Buffer{Data: []byte{0, 255, 1, 128}, Shape: []int{4}, DType: codecstack.Uint8}
	roundTrip(t, Delta{DType: codecstack.Uint8}, b)
}

func TestDeltaRejectsWrongDType(t *testing.T) {
	d := Delta{DType: codecstack.Int32}
	if _, err := d.Encode(codecstack.Bytes([]byte{1, 2, 3, 4})); err == nil {
		t.Fatalf("Encode accepted raw buffer")
	}
	if _, err := (Delta{DType: codecstack.Float32}).Encode(codecstack.NewBuffer(codecstack.Float32, 1)); err == nil {
		t.Fatalf("Encode accepted float dtype")
	}
}

// ==============================
// Shuffle
// ==============================

func TestShuffleKnownVector(t *testing.T) {
	b := codecstack.Buffer{Data: []byte{1, 2, 3, 4}, Shape: []int{2}, DType: codecstack.Uint16}
	enc, err := Shuffle{}.Encode(b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !sameBytes(enc.Data, []byte{1, 3, 2, 4}) {
		t.Fatalf("Encode = %v, want [1 3 2 4]", enc.Data)
	}
}

func TestShuffleRoundTrip(t *testing.T) {
	roundTrip(t, Shuffle{}, i32buf(t, []int{5}, 1, 256, 65536, -1, 42))
	// item size 1 is a pass-through
	roundTrip(t, Shuffle{}, codecstack.Bytes([]byte{9, 8, 7}))
}

// ==============================
// Compressors
// ==============================

func TestZstd(t *testing.T) {
	z, err := NewZstd(0)
	if err != nil {
		t.Fatalf("NewZstd: %v", err)
	}
	in := i32buf(t, []int{2, 4}, 1, 1, 1, 1, 2, 2, 2, 2)

	// plain decode loses the layout
	enc, err := z.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	flat, err := z.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if flat.DType != codecstack.Raw || !sameBytes(flat.Data, in.Data) {
		t.Fatalf("Decode: %s, bytes ok=%v", flat.Descriptor(), sameBytes(flat.Data, in.Data))
	}

	// the hint path restores it
	roundTrip(t, z, in)
}

func TestZlib(t *testing.T) {
	in := i32buf(t, []int{3}, 7, 7, 7)
	roundTrip(t, Zlib{}, in)
	roundTrip(t, Zlib{Level: 9}, codecstack.Bytes([]byte("hello hello hello")))

	if _, err := (Zlib{}).Decode(codecstack.Bytes([]byte("not zlib"))); err == nil {
		t.Fatalf("Decode accepted garbage")
	}
}

// ==============================
// Checksum
// ==============================

func TestChecksum(t *testing.T) {
	in := codecstack.Bytes([]byte("guarded payload"))
	c := Checksum{}

	enc, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if enc.NBytes() != in.NBytes()+8 {
		t.Fatalf("Encode size = %d, want %d", enc.NBytes(), in.NBytes()+8)
	}

	dec, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !sameBytes(dec.Data, in.Data) {
		t.Fatalf("Decode = %q", dec.Data)
	}

	enc.Data[3] ^= 0x01
	if _, err := c.Decode(enc); !errors.Is(err, ErrChecksum) {
		t.Fatalf("corrupted decode err = %v, want ErrChecksum", err)
	}

	if _, err := c.Decode(codecstack.Bytes([]byte{1, 2})); !errors.Is(err, ErrChecksum) {
		t.Fatalf("short decode err = %v, want ErrChecksum", err)
	}

	roundTrip(t, c, i32buf(t, []int{2}, 11, 13))
}

// ==============================
// Pack codecs
// ==============================

func TestPackSelfDescribing(t *testing.T) {
	in := i32buf(t, []int{2, 2}, 1, 2, 3, 4)

	for _, c := range []codecstack.Codec{PackCBOR{}, PackMsgpack{}} {
		s := codecstack.New(c)
		enc, err := s.Encode(in)
		if err != nil {
			t.Fatalf("%v Encode: %v", c, err)
		}
		// plain Decode, no hints: the frame itself carries the layout
		dec, err := s.Decode(enc)
		if err != nil {
			t.Fatalf("%v Decode: %v", c, err)
		}
		if !dec.Descriptor().Equal(in.Descriptor()) || !sameBytes(dec.Data, in.Data) {
			t.Fatalf("%v round trip: %s", c, dec.Descriptor())
		}
	}
}

func TestPackRejectsGarbage(t *testing.T) {
	for _, c := range []codecstack.Codec{PackCBOR{}, PackMsgpack{}} {
		if _, err := c.Decode(codecstack.Bytes([]byte{0xFF, 0x00, 0x13})); err == nil {
			t.Fatalf("%v accepted garbage", c)
		}
	}
}

// ==============================
// Limit
// ==============================

func TestLimit(t *testing.T) {
	inner := PackCBOR{}
	in := codecstack.Bytes([]byte("abc"))

	enc, err := inner.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	open := Limit{Inner: inner, MaxDecode: 1 << 20}
	if _, err := open.Decode(enc); err != nil {
		t.Fatalf("Decode under limit: %v", err)
	}

	tight := Limit{Inner: inner, MaxDecode: 2}
	if _, err := tight.Decode(enc); err == nil {
		t.Fatalf("Decode over limit succeeded")
	}
}

// ==============================
// Full pipelines
// ==============================

// TestTypicalPipeline runs delta -> shuffle -> zstd -> checksum, the shape
// a real compression chain takes.
func TestTypicalPipeline(t *testing.T) {
	z, err := NewZstd(1)
	if err != nil {
		t.Fatalf("NewZstd: %v", err)
	}
	s := codecstack.New(Delta{DType: codecstack.Int32}, Shuffle{}, z, Checksum{})
	in := i32buf(t, []int{3, 4}, 10, 11, 12, 13, 20, 21, 22, 23, 30, 31, 32, 33)

	out, err := s.EncodeDecode(in)
	if err != nil {
		t.Fatalf("EncodeDecode: %v", err)
	}
	if !out.Descriptor().Equal(in.Descriptor()) || !sameBytes(out.Data, in.Data) {
		t.Fatalf("pipeline round trip changed buffer")
	}
}

// TestPipelineDetectsCorruption flips a byte between encode and decode and
// expects the checksum stage to catch it.
func TestPipelineDetectsCorruption(t *testing.T) {
	s := codecstack.New(Shuffle{}, Checksum{})
	in := i32buf(t, []int{4}, 5, 6, 7, 8)

	enc, err := s.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	enc.Data[0] ^= 0xFF
	if _, err := s.Decode(enc); !errors.Is(err, ErrChecksum) {
		t.Fatalf("Decode err = %v, want ErrChecksum", err)
	}
}
