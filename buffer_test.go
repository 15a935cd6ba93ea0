package codecstack

import (
	"errors"
	"testing"
)

func TestDTypeParseFormat(t *testing.T) {
	for _, dt := range []DType{Raw, Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64, Float32, Float64} {
		got, err := ParseDType(dt.String())
		if err != nil {
			t.Fatalf("ParseDType(%q): %v", dt.String(), err)
		}
		if got != dt {
			t.Fatalf("ParseDType(%q) = %v, want %v", dt.String(), got, dt)
		}
	}

	for _, bad := range []string{"", "int7", "int", "float8", "uint128", "complex64", "raw8"} {
		if _, err := ParseDType(bad); err == nil {
			t.Fatalf("ParseDType(%q) succeeded", bad)
		}
	}
}

func TestBufferCheck(t *testing.T) {
	ok := NewBuffer(Int32, 2, 3)
	if err := ok.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ok.NBytes() != 24 || ok.Elems() != 6 {
		t.Fatalf("NBytes=%d Elems=%d", ok.NBytes(), ok.Elems())
	}

	cases := []Buffer{
		{Data: []byte{1, 2, 3}, Shape: []int{4}, DType: Raw},          // short
		{Data: []byte{1, 2, 3, 4}, Shape: []int{3}, DType: Raw},       // long
		{Data: nil, Shape: []int{-1}, DType: Raw},                     // negative dim
		{Data: []byte{1}, Shape: []int{1}, DType: DType{KindInt, 3}},  // bad width
		{Data: []byte{1}, Shape: []int{1}, DType: DType{Kind: 42}},    // bad kind
		{Data: []byte{1, 2}, Shape: []int{1}, DType: Int32},           // dtype/shape bytes
	}
	for i, b := range cases {
		if err := b.Check(); !errors.Is(err, ErrInvalidBuffer) {
			t.Fatalf("case %d: err = %v, want ErrInvalidBuffer", i, err)
		}
	}
}

func TestBufferZeroDim(t *testing.T) {
	b := NewBuffer(Float64, 0, 5)
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if b.Elems() != 0 || b.NBytes() != 0 {
		t.Fatalf("Elems=%d NBytes=%d, want 0", b.Elems(), b.NBytes())
	}
}

func TestBufferView(t *testing.T) {
	b := Bytes(make([]byte, 24))
	v, err := b.View(Int32, 3, 2)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !v.Descriptor().Equal(Descriptor{Shape: []int{3, 2}, DType: Int32}) {
		t.Fatalf("View descriptor = %s", v.Descriptor())
	}
	// shared bytes, not copied
	v.Data[0] = 0xFF
	if b.Data[0] != 0xFF {
		t.Fatalf("View copied data")
	}

	if _, err := b.View(Int64, 5); err == nil {
		t.Fatalf("View accepted byte-count mismatch")
	}
}

func TestBufferClone(t *testing.T) {
	b := Bytes([]byte{1, 2, 3})
	c := b.Clone()
	c.Data[0] = 9
	c.Shape[0] = 7
	if b.Data[0] != 1 || b.Shape[0] != 3 {
		t.Fatalf("Clone shares state: %v %v", b.Data, b.Shape)
	}
}

func TestDescriptor(t *testing.T) {
	d := Descriptor{Shape: []int{2, 3}, DType: Int16}
	if d.Elems() != 6 || d.NBytes() != 12 {
		t.Fatalf("Elems=%d NBytes=%d", d.Elems(), d.NBytes())
	}
	if got, want := d.String(), "int16[2,3]"; got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}

	same := Descriptor{Shape: []int{2, 3}, DType: Int16}
	if !d.Equal(same) {
		t.Fatalf("Equal(same) = false")
	}
	for _, other := range []Descriptor{
		{Shape: []int{3, 2}, DType: Int16},
		{Shape: []int{2, 3}, DType: Uint16},
		{Shape: []int{2, 3, 1}, DType: Int16},
	} {
		if d.Equal(other) {
			t.Fatalf("Equal(%s) = true", other)
		}
	}
}

func TestDescriptorIsSnapshot(t *testing.T) {
	b := NewBuffer(Int8, 4)
	d := b.Descriptor()
	b.Shape[0] = 9
	if d.Shape[0] != 4 {
		t.Fatalf("descriptor shares shape slice with buffer")
	}
}
