package codecstack

// Observer receives per-stage callbacks from the observed stack
// operations. Implementations MUST be cheap: callbacks run inline on the
// pipeline path. Observer state is the implementation's own concern; the
// observers in observers/ are meant for one stack invocation at a time.
type Observer interface {
	PreEncode(c Codec, buf Buffer)
	PostEncode(c Codec, buf, encoded Buffer)
	PreDecode(c Codec, buf Buffer)
	PostDecode(c Codec, buf, decoded Buffer)
}

// NopObserver implements Observer with no-ops; embed it to only override
// the callbacks you care about.
type NopObserver struct{}

func (NopObserver) PreEncode(Codec, Buffer)          {}
func (NopObserver) PostEncode(Codec, Buffer, Buffer) {}
func (NopObserver) PreDecode(Codec, Buffer)          {}
func (NopObserver) PostDecode(Codec, Buffer, Buffer) {}

// observedEncode runs one codec's Encode bracketed by observer callbacks.
// Post callbacks fire only on success.
func observedEncode(c Codec, buf Buffer, obs []Observer) (Buffer, error) {
	for _, o := range obs {
		o.PreEncode(c, buf)
	}
	encoded, err := c.Encode(buf)
	if err != nil {
		return Buffer{}, err
	}
	for _, o := range obs {
		o.PostEncode(c, buf, encoded)
	}
	return encoded, nil
}

// observedDecode runs one codec's Decode bracketed by observer callbacks.
// When want is non-nil and the codec accepts hints, DecodeInto is used.
func observedDecode(c Codec, buf Buffer, want *Descriptor, obs []Observer) (Buffer, error) {
	for _, o := range obs {
		o.PreDecode(c, buf)
	}
	var decoded Buffer
	var err error
	if hd, ok := c.(HintedDecoder); ok && want != nil {
		decoded, err = hd.DecodeInto(buf, *want)
	} else {
		decoded, err = c.Decode(buf)
	}
	if err != nil {
		return Buffer{}, err
	}
	for _, o := range obs {
		o.PostDecode(c, buf, decoded)
	}
	return decoded, nil
}
