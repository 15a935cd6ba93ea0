package codecstack

import (
	"fmt"
	"strings"
)

// Stack is an immutable, ordered sequence of codecs composed into one
// codec. Encode applies members left to right, Decode right to left. The
// empty stack is the identity codec. Stacks hold no per-call state and are
// safe to share across goroutines as long as their member codecs are.
type Stack struct {
	codecs []Codec
}

var (
	_ Codec         = (*Stack)(nil)
	_ HintedDecoder = (*Stack)(nil)
	_ Configurable  = (*Stack)(nil)
)

// New builds a stack over the given codecs. The slice is copied; mutating
// the argument afterwards does not affect the stack. Codecs are shared by
// reference and may appear more than once or in other stacks.
func New(codecs ...Codec) *Stack {
	cs := make([]Codec, len(codecs))
	copy(cs, codecs)
	return &Stack{codecs: cs}
}

// Len returns the number of stages.
func (s *Stack) Len() int { return len(s.codecs) }

// At returns the codec at stage i in encode order.
func (s *Stack) At(i int) Codec { return s.codecs[i] }

// Codecs returns a copy of the stage sequence.
func (s *Stack) Codecs() []Codec {
	cs := make([]Codec, len(s.codecs))
	copy(cs, s.codecs)
	return cs
}

// Append returns a new stack with the given codecs added after the current
// stages. The receiver is unchanged.
func (s *Stack) Append(codecs ...Codec) *Stack {
	cs := make([]Codec, 0, len(s.codecs)+len(codecs))
	cs = append(cs, s.codecs...)
	cs = append(cs, codecs...)
	return &Stack{codecs: cs}
}

// Concat returns a new stack running s's stages, then other's.
func (s *Stack) Concat(other *Stack) *Stack {
	return s.Append(other.codecs...)
}

// Repeat returns a new stack with the stage sequence repeated n times.
// n <= 0 yields the identity stack.
func (s *Stack) Repeat(n int) *Stack {
	if n <= 0 {
		return New()
	}
	cs := make([]Codec, 0, n*len(s.codecs))
	for i := 0; i < n; i++ {
		cs = append(cs, s.codecs...)
	}
	return &Stack{codecs: cs}
}

func (s *Stack) String() string {
	names := make([]string, len(s.codecs))
	for i, c := range s.codecs {
		names[i] = describeCodec(c)
	}
	return "Stack(" + strings.Join(names, ", ") + ")"
}

// Encode applies each stage's Encode in order: for stages [a, b, c] it
// computes c.Encode(b.Encode(a.Encode(buf))). Failure at any stage stops
// the pipeline and surfaces as a StageEncodeError naming that stage.
func (s *Stack) Encode(buf Buffer) (Buffer, error) {
	return s.EncodeObserved(buf)
}

// EncodeObserved is Encode with per-stage observer callbacks.
func (s *Stack) EncodeObserved(buf Buffer, obs ...Observer) (Buffer, error) {
	if err := buf.Check(); err != nil {
		return Buffer{}, err
	}
	encoded := buf
	for i, c := range s.codecs {
		out, err := observedEncode(c, encoded, obs)
		if err == nil {
			err = out.Check()
		}
		if err != nil {
			return Buffer{}, &StageEncodeError{Stage: i, Codec: c, Err: err}
		}
		encoded = out
	}
	return encoded, nil
}

// Decode applies each stage's Decode in reverse order, mirroring Encode so
// that Decode(Encode(x)) == x for correctly implemented codecs. Failure at
// any stage surfaces as a StageDecodeError naming that stage (stages keep
// their encode-order index).
func (s *Stack) Decode(buf Buffer) (Buffer, error) {
	return s.DecodeObserved(buf)
}

// DecodeObserved is Decode with per-stage observer callbacks.
func (s *Stack) DecodeObserved(buf Buffer, obs ...Observer) (Buffer, error) {
	if err := buf.Check(); err != nil {
		return Buffer{}, err
	}
	decoded := buf
	for i := len(s.codecs) - 1; i >= 0; i-- {
		c := s.codecs[i]
		out, err := observedDecode(c, decoded, nil, obs)
		if err == nil {
			err = out.Check()
		}
		if err != nil {
			return Buffer{}, &StageDecodeError{Stage: i, Codec: c, Err: err}
		}
		decoded = out
	}
	return decoded, nil
}

// DecodeInto decodes with a known output descriptor. The hint reaches the
// first stage's decode (the last to run); for the empty stack the input is
// reinterpreted under the descriptor. This lets stacks nest inside other
// stacks without losing shape information.
func (s *Stack) DecodeInto(buf Buffer, want Descriptor) (Buffer, error) {
	if err := buf.Check(); err != nil {
		return Buffer{}, err
	}
	if len(s.codecs) == 0 {
		return buf.View(want.DType, want.Shape...)
	}
	decoded := buf
	for i := len(s.codecs) - 1; i > 0; i-- {
		c := s.codecs[i]
		out, err := observedDecode(c, decoded, nil, nil)
		if err == nil {
			err = out.Check()
		}
		if err != nil {
			return Buffer{}, &StageDecodeError{Stage: i, Codec: c, Err: err}
		}
		decoded = out
	}
	first := s.codecs[0]
	out, err := observedDecode(first, decoded, &want, nil)
	if err == nil {
		err = out.Check()
	}
	if err != nil {
		return Buffer{}, &StageDecodeError{Stage: 0, Codec: first, Err: err}
	}
	if got := out.Descriptor(); !got.Equal(want) {
		// The first codec kept the bytes but not the layout (no hint
		// support); reinterpret. A byte-count disagreement is a real
		// mismatch and fails the View.
		viewed, verr := out.View(want.DType, want.Shape...)
		if verr != nil {
			return Buffer{}, &StageDecodeError{Stage: 0, Codec: first, Err: verr}
		}
		out = viewed
	}
	return out, nil
}

// EncodeDecode computes Decode(Encode(buf)) with shape/dtype bookkeeping:
// a Descriptor of the buffer entering every encode stage is captured, and
// while decoding in reverse each stage gets its captured descriptor as a
// hint (when the codec accepts one) and is checked against it afterwards.
// A stage whose decoded output disagrees with its descriptor fails with
// ShapeMismatchError or DTypeMismatchError instead of letting drift pass,
// which is strictly stronger verification than separate Encode and Decode
// calls.
//
// The descriptor list lives only within this call; nothing is retained on
// the stack. The empty stack returns the input unchanged.
func (s *Stack) EncodeDecode(buf Buffer) (Buffer, error) {
	return s.EncodeDecodeObserved(buf)
}

// EncodeDecodeObserved is EncodeDecode with per-stage observer callbacks.
func (s *Stack) EncodeDecodeObserved(buf Buffer, obs ...Observer) (Buffer, error) {
	if err := buf.Check(); err != nil {
		return Buffer{}, err
	}

	encoded := buf
	descs := make([]Descriptor, 0, len(s.codecs))
	for i, c := range s.codecs {
		descs = append(descs, encoded.Descriptor())
		out, err := observedEncode(c, encoded, obs)
		if err == nil {
			err = out.Check()
		}
		if err != nil {
			return Buffer{}, &StageEncodeError{Stage: i, Codec: c, Err: err}
		}
		encoded = out
	}

	decoded := encoded
	for i := len(s.codecs) - 1; i >= 0; i-- {
		c := s.codecs[i]
		want := descs[i]
		out, err := observedDecode(c, decoded, &want, obs)
		if err == nil {
			err = out.Check()
		}
		if err != nil {
			return Buffer{}, &StageDecodeError{Stage: i, Codec: c, Err: err}
		}
		if got := out.Descriptor(); !got.Equal(want) {
			if got.DType != want.DType {
				return Buffer{}, &DTypeMismatchError{Stage: i, Codec: c, Want: want.DType, Got: got.DType}
			}
			return Buffer{}, &ShapeMismatchError{Stage: i, Codec: c, Want: want.Shape, Got: got.Shape}
		}
		decoded = out
	}
	return decoded, nil
}

// Config reports the stack's configuration by delegating to each member;
// every member must itself be Configurable. The registry package rebuilds
// stacks from this form.
func (s *Stack) Config() (Config, error) {
	members := make([]Config, len(s.codecs))
	for i, c := range s.codecs {
		cc, ok := c.(Configurable)
		if !ok {
			return nil, fmt.Errorf("codecstack: stage %d (%s) has no config", i, describeCodec(c))
		}
		cfg, err := cc.Config()
		if err != nil {
			return nil, fmt.Errorf("codecstack: stage %d (%s) config: %w", i, describeCodec(c), err)
		}
		members[i] = cfg
	}
	return Config{"id": StackID, "codecs": members}, nil
}

// StackID is the registry identifier of Stack configurations.
const StackID = "stack"
