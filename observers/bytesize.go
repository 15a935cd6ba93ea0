package observers

import (
	"fmt"

	"github.com/unkn0wn-root/codecstack"
)

// Size is one codec call's input and output byte sizes.
type Size struct {
	Codec string
	Pre   int
	Post  int
}

// Bytesize records per-stage buffer sizes before and after each call, in
// call order. Useful for seeing where a pipeline actually shrinks data.
type Bytesize struct {
	codecstack.NopObserver

	EncodeSizes []Size
	DecodeSizes []Size
}

var _ codecstack.Observer = (*Bytesize)(nil)

func (b *Bytesize) PostEncode(c codecstack.Codec, buf, encoded codecstack.Buffer) {
	b.EncodeSizes = append(b.EncodeSizes, Size{Codec: name(c), Pre: buf.NBytes(), Post: encoded.NBytes()})
}

func (b *Bytesize) PostDecode(c codecstack.Codec, buf, decoded codecstack.Buffer) {
	b.DecodeSizes = append(b.DecodeSizes, Size{Codec: name(c), Pre: buf.NBytes(), Post: decoded.NBytes()})
}

func name(c codecstack.Codec) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}
