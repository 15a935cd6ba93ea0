package codecs

import (
	"fmt"

	"github.com/unkn0wn-root/codecstack"
)

// Limit is middleware bounding how many bytes the wrapped codec will
// decode. Encode passes through untouched.
type Limit struct {
	Inner     codecstack.Codec
	MaxDecode int // bytes; 0 => unlimited
}

var (
	_ codecstack.Codec         = Limit{}
	_ codecstack.HintedDecoder = Limit{}
)

func (l Limit) String() string { return "limit(" + fmt.Sprint(l.MaxDecode) + ")" }

func (l Limit) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	return l.Inner.Encode(buf)
}

func (l Limit) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	if err := l.checkSize(buf); err != nil {
		return codecstack.Buffer{}, err
	}
	return l.Inner.Decode(buf)
}

func (l Limit) DecodeInto(buf codecstack.Buffer, want codecstack.Descriptor) (codecstack.Buffer, error) {
	if err := l.checkSize(buf); err != nil {
		return codecstack.Buffer{}, err
	}
	if hd, ok := l.Inner.(codecstack.HintedDecoder); ok {
		return hd.DecodeInto(buf, want)
	}
	return l.Inner.Decode(buf)
}

func (l Limit) checkSize(buf codecstack.Buffer) error {
	if l.MaxDecode > 0 && len(buf.Data) > l.MaxDecode {
		return fmt.Errorf("limit: payload too large: %d > %d", len(buf.Data), l.MaxDecode)
	}
	return nil
}
