package codecs

import "github.com/unkn0wn-root/codecstack"

// Shuffle rearranges bytes so that all first bytes of the buffer's
// elements come first, then all second bytes, and so on. On similar
// adjacent values this groups near-constant byte planes together, which
// helps a downstream compressor. The item size comes from the buffer's
// dtype; shape and dtype pass through (the encoded bytes are opaque until
// unshuffled).
type Shuffle struct{}

var (
	_ codecstack.Codec        = Shuffle{}
	_ codecstack.Configurable = Shuffle{}
)

func (Shuffle) String() string { return "shuffle" }

func (Shuffle) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	it := buf.DType.ItemSize()
	if it <= 1 {
		return buf, nil
	}
	n := buf.Elems()
	out := make([]byte, len(buf.Data))
	for i := 0; i < n; i++ {
		for j := 0; j < it; j++ {
			out[j*n+i] = buf.Data[i*it+j]
		}
	}
	res := buf
	res.Data = out
	return res, nil
}

func (Shuffle) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	it := buf.DType.ItemSize()
	if it <= 1 {
		return buf, nil
	}
	n := buf.Elems()
	out := make([]byte, len(buf.Data))
	for i := 0; i < n; i++ {
		for j := 0; j < it; j++ {
			out[i*it+j] = buf.Data[j*n+i]
		}
	}
	res := buf
	res.Data = out
	return res, nil
}

func (Shuffle) Config() (codecstack.Config, error) {
	return codecstack.Config{"id": "shuffle"}, nil
}
