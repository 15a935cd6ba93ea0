package codecstack

// Codec is one reversible buffer transform. Implementations must be
// deterministic, must not mutate their input, and for valid input must
// satisfy Decode(Encode(x)) == x.
//
// Codecs are free to change shape and dtype: a compressor typically takes
// any buffer and emits flat raw bytes. Codecs whose encoded form does not
// record the original shape/dtype should also implement HintedDecoder so
// Stack.EncodeDecode can hand the original descriptor back to them.
type Codec interface {
	Encode(buf Buffer) (Buffer, error)
	Decode(buf Buffer) (Buffer, error)
}

// HintedDecoder is an optional codec capability: decode with the expected
// output descriptor supplied out-of-band. Implementations must either honor
// the hint or fail; returning a buffer that disagrees with it is reported
// by the stack as a mismatch.
type HintedDecoder interface {
	DecodeInto(buf Buffer, want Descriptor) (Buffer, error)
}

// Config is a codec configuration. It always carries an "id" entry naming
// the codec; everything else is that codec's own concern.
type Config map[string]any

// Configurable is an optional codec capability: report a Config from which
// an equivalent codec can be rebuilt (see the registry package).
type Configurable interface {
	Config() (Config, error)
}
