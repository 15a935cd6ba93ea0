package observers

import "github.com/unkn0wn-root/codecstack"

// Logging emits a Debug line after every successful stage call. Unlike
// the collecting observers it holds no mutable state, so it may be shared
// freely.
type Logging struct {
	codecstack.NopObserver

	L codecstack.Logger
}

var _ codecstack.Observer = Logging{}

func (l Logging) PostEncode(c codecstack.Codec, buf, encoded codecstack.Buffer) {
	l.L.Debug("encode stage", codecstack.Fields{
		"codec": name(c),
		"in":    buf.Descriptor().String(),
		"out":   encoded.Descriptor().String(),
	})
}

func (l Logging) PostDecode(c codecstack.Codec, buf, decoded codecstack.Buffer) {
	l.L.Debug("decode stage", codecstack.Fields{
		"codec": name(c),
		"in":    buf.Descriptor().String(),
		"out":   decoded.Descriptor().String(),
	})
}
