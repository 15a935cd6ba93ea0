package codecstack

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies an element type.
type Kind uint8

const (
	KindRaw   Kind = iota // opaque bytes, item size 1
	KindUint              // unsigned fixed-width integer
	KindInt               // signed fixed-width integer
	KindFloat             // IEEE-754 float
)

// DType identifies the element type of a buffer: kind plus byte width.
// The zero value is not valid; use the package variables or ParseDType.
type DType struct {
	Kind Kind
	Size int // bytes per element
}

var (
	Raw     = DType{KindRaw, 1}
	Uint8   = DType{KindUint, 1}
	Uint16  = DType{KindUint, 2}
	Uint32  = DType{KindUint, 4}
	Uint64  = DType{KindUint, 8}
	Int8    = DType{KindInt, 1}
	Int16   = DType{KindInt, 2}
	Int32   = DType{KindInt, 4}
	Int64   = DType{KindInt, 8}
	Float32 = DType{KindFloat, 4}
	Float64 = DType{KindFloat, 8}
)

// ItemSize returns bytes per element (1 for raw).
func (d DType) ItemSize() int { return d.Size }

func (d DType) Valid() bool {
	switch d.Kind {
	case KindRaw:
		return d.Size == 1
	case KindUint, KindInt:
		return d.Size == 1 || d.Size == 2 || d.Size == 4 || d.Size == 8
	case KindFloat:
		return d.Size == 4 || d.Size == 8
	default:
		return false
	}
}

func (d DType) String() string {
	switch d.Kind {
	case KindRaw:
		return "raw"
	case KindUint:
		return "uint" + strconv.Itoa(d.Size*8)
	case KindInt:
		return "int" + strconv.Itoa(d.Size*8)
	case KindFloat:
		return "float" + strconv.Itoa(d.Size*8)
	default:
		return fmt.Sprintf("dtype(%d,%d)", d.Kind, d.Size)
	}
}

// ParseDType parses identifiers like "uint8", "int32", "float64" or "raw".
func ParseDType(s string) (DType, error) {
	if s == "raw" {
		return Raw, nil
	}
	var kind Kind
	var rest string
	switch {
	case strings.HasPrefix(s, "uint"):
		kind, rest = KindUint, s[4:]
	case strings.HasPrefix(s, "int"):
		kind, rest = KindInt, s[3:]
	case strings.HasPrefix(s, "float"):
		kind, rest = KindFloat, s[5:]
	default:
		return DType{}, fmt.Errorf("codecstack: unknown dtype %q", s)
	}
	bits, err := strconv.Atoi(rest)
	if err != nil || bits%8 != 0 {
		return DType{}, fmt.Errorf("codecstack: unknown dtype %q", s)
	}
	dt := DType{kind, bits / 8}
	if !dt.Valid() {
		return DType{}, fmt.Errorf("codecstack: unknown dtype %q", s)
	}
	return dt, nil
}

// Buffer is a typed, shaped block of binary data moving through a stack.
// Data is row-major; len(Data) must equal Elems()*DType.ItemSize().
type Buffer struct {
	Data  []byte
	Shape []int
	DType DType
}

// Bytes wraps b as a flat raw buffer of shape [len(b)].
func Bytes(b []byte) Buffer {
	return Buffer{Data: b, Shape: []int{len(b)}, DType: Raw}
}

// NewBuffer allocates a zeroed buffer of the given dtype and shape.
func NewBuffer(dt DType, shape ...int) Buffer {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return Buffer{Data: make([]byte, n*dt.ItemSize()), Shape: shape, DType: dt}
}

// Elems returns the number of elements implied by the shape.
func (b Buffer) Elems() int {
	n := 1
	for _, d := range b.Shape {
		n *= d
	}
	return n
}

// NBytes returns the payload size in bytes.
func (b Buffer) NBytes() int { return len(b.Data) }

// Descriptor snapshots the buffer's shape and dtype.
func (b Buffer) Descriptor() Descriptor {
	shape := make([]int, len(b.Shape))
	copy(shape, b.Shape)
	return Descriptor{Shape: shape, DType: b.DType}
}

// Check verifies internal consistency: valid dtype, non-negative dims, and
// byte length matching shape x item size. Violations wrap ErrInvalidBuffer.
func (b Buffer) Check() error {
	if !b.DType.Valid() {
		return fmt.Errorf("%w: bad dtype %s", ErrInvalidBuffer, b.DType)
	}
	for _, d := range b.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension %d", ErrInvalidBuffer, d)
		}
	}
	if want := b.Elems() * b.DType.ItemSize(); len(b.Data) != want {
		return fmt.Errorf("%w: %d bytes, shape %v of %s needs %d",
			ErrInvalidBuffer, len(b.Data), b.Shape, b.DType, want)
	}
	return nil
}

// View reinterprets the same bytes under a new dtype and shape. The byte
// count must agree exactly; the data is shared, not copied.
func (b Buffer) View(dt DType, shape ...int) (Buffer, error) {
	v := Buffer{Data: b.Data, Shape: shape, DType: dt}
	if err := v.Check(); err != nil {
		return Buffer{}, err
	}
	return v, nil
}

// Clone deep-copies the buffer.
func (b Buffer) Clone() Buffer {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	shape := make([]int, len(b.Shape))
	copy(shape, b.Shape)
	return Buffer{Data: data, Shape: shape, DType: b.DType}
}

// Descriptor is the shape+dtype of a buffer at a pipeline boundary. The
// stack records one per encode stage inside EncodeDecode; it is never
// serialized or kept past a single call.
type Descriptor struct {
	Shape []int
	DType DType
}

// Elems returns the number of elements implied by the shape.
func (d Descriptor) Elems() int {
	n := 1
	for _, dim := range d.Shape {
		n *= dim
	}
	return n
}

// NBytes returns the byte size a conforming buffer must have.
func (d Descriptor) NBytes() int { return d.Elems() * d.DType.ItemSize() }

func (d Descriptor) Equal(o Descriptor) bool {
	if d.DType != o.DType || len(d.Shape) != len(o.Shape) {
		return false
	}
	for i := range d.Shape {
		if d.Shape[i] != o.Shape[i] {
			return false
		}
	}
	return true
}

func (d Descriptor) String() string {
	dims := make([]string, len(d.Shape))
	for i, dim := range d.Shape {
		dims[i] = strconv.Itoa(dim)
	}
	return d.DType.String() + "[" + strings.Join(dims, ",") + "]"
}
